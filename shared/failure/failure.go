package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
// Program failures also carry a stable numeric code that is surfaced on receipts.
type Failure struct {
	Code        int    `json:"code"`
	ProgramCode uint32 `json:"program_code,omitempty"`
	Message     string `json:"message"`
}

// Program error codes. Zero means success on a receipt.
const (
	CodeMalformedInstruction uint32 = iota + 1
	CodePermissionDenied
	CodeCorruptState
	CodeItemNotFound
	CodeAlreadyDone
	CodeCapacityExceeded
	CodeInvalidAccounts
	CodeMissingSignature
	CodeInsufficientFunds
	CodeAccountInUse
	CodeUnknownProgram
	CodeReadonlyModified
	CodeAlreadyProcessed
	CodeTransactionExpired
	CodeInternal uint32 = 0xFFFF
)

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

var (
	MalformedInstruction = &Failure{Code: http.StatusBadRequest, ProgramCode: CodeMalformedInstruction, Message: "malformed instruction"}
	PermissionDenied     = &Failure{Code: http.StatusForbidden, ProgramCode: CodePermissionDenied, Message: "account is not owned by the executing program"}
	CorruptState         = &Failure{Code: http.StatusUnprocessableEntity, ProgramCode: CodeCorruptState, Message: "account data is corrupt"}
	ItemNotFound         = &Failure{Code: http.StatusNotFound, ProgramCode: CodeItemNotFound, Message: "item not found"}
	AlreadyDone          = &Failure{Code: http.StatusConflict, ProgramCode: CodeAlreadyDone, Message: "item already done"}
	CapacityExceeded     = &Failure{Code: http.StatusRequestEntityTooLarge, ProgramCode: CodeCapacityExceeded, Message: "account capacity exceeded"}

	InvalidAccounts   = &Failure{Code: http.StatusBadRequest, ProgramCode: CodeInvalidAccounts, Message: "invalid instruction accounts"}
	MissingSignature  = &Failure{Code: http.StatusUnauthorized, ProgramCode: CodeMissingSignature, Message: "missing required signature"}
	InsufficientFunds = &Failure{Code: http.StatusPaymentRequired, ProgramCode: CodeInsufficientFunds, Message: "insufficient funds"}
	AccountInUse      = &Failure{Code: http.StatusConflict, ProgramCode: CodeAccountInUse, Message: "account already in use"}
	UnknownProgram    = &Failure{Code: http.StatusBadRequest, ProgramCode: CodeUnknownProgram, Message: "unknown program"}
	ReadonlyModified  = &Failure{Code: http.StatusForbidden, ProgramCode: CodeReadonlyModified, Message: "instruction modified a read-only account"}

	AlreadyProcessed   = &Failure{Code: http.StatusConflict, ProgramCode: CodeAlreadyProcessed, Message: "transaction already processed"}
	TransactionExpired = &Failure{Code: http.StatusBadRequest, ProgramCode: CodeTransactionExpired, Message: "transaction recent slot is outside the accepted window"}
)

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// Wrap annotates a sentinel failure with detail while keeping errors.Is and GetCode working.
func Wrap(sentinel *Failure, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:        http.StatusInternalServerError,
			ProgramCode: CodeInternal,
			Message:     err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetProgramCode returns the program error code of an error, CodeInternal for foreign errors and 0 for nil.
func GetProgramCode(err error) uint32 {
	if err == nil {
		return 0
	}

	var fail *Failure
	if errors.As(err, &fail) && fail.ProgramCode != 0 {
		return fail.ProgramCode
	}

	return CodeInternal
}
