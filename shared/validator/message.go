package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const anonymousField = "value"

var (
	messages = map[string]string{
		"required": "{field} is required",
		"gt":       "{field} must be greater than {param}",
		"gte":      "{field} must be greater than or equal to {param}",
		"lte":      "{field} must be less than or equal to {param}",
		"oneof":    "{field} must be one of {param}",
		"max":      "{field} must have at most {param} entries",
		"min":      "{field} must have at least {param} entries",
		"pubkey":   "{field} must be a base58 encoded 32 byte address",
		"base64":   "{field} must be base64 encoded",
	}
)

// fieldPath drops the root struct name, so nested errors read as instructions[0].program_id.
func fieldPath(valErr val.FieldError) string {
	namespace := valErr.Namespace()

	if _, path, ok := strings.Cut(namespace, "."); ok {
		return path
	}

	if namespace != "" {
		return namespace
	}

	return anonymousField
}

func message(err error) string {
	var valErrors val.ValidationErrors

	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, valErr := range valErrors {
		errStr := messages[valErr.Tag()]
		if errStr == "" {
			continue
		}

		errStr = strings.ReplaceAll(errStr, "{field}", fieldPath(valErr))
		errStr = strings.ReplaceAll(errStr, "{param}", valErr.Param())

		return errStr
	}

	return valErrors.Error()
}
