package ledger

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"todochain/infras/otel"
	"todochain/internal/domains/ledger/model"
	"todochain/internal/domains/ledger/model/dto"
	"todochain/internal/domains/ledger/service"
	"todochain/shared/constant"
	gDto "todochain/shared/dto"
	"todochain/shared/failure"
	"todochain/shared/validator"
	"todochain/transport/http/middleware"
	"todochain/transport/http/response"
)

const requestParamSlot = "slot"

type Handler struct {
	service    service.Ledger
	middleware middleware.Auth
	otel       otel.Otel
}

func New(service service.Ledger, middleware middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/clock", handler.GetClock)
	router.Get("/accounts", handler.GetAccounts)
	router.Get("/accounts/{pubkey}", handler.GetAccount)
	router.Get("/accounts/{pubkey}/snapshots/{slot}", handler.GetSnapshot)

	router.Group(func(protected chi.Router) {
		protected.Use(handler.middleware.Auth, handler.middleware.RequireRole(constant.RoleOperator))

		protected.Post("/transactions", handler.SubmitTransaction)
		protected.Post("/accounts/{pubkey}/airdrop", handler.Airdrop)
		protected.Post("/accounts/{pubkey}/snapshots", handler.CreateSnapshot)
	})
}

// SubmitTransaction executes a signed transaction.
// @Summary Submit a transaction
// @Description Verify signatures, execute every instruction and commit atomically.
// @Tags Ledger
// @Accept json
// @Produce json
// @Param request body dto.TransactionRequest true "Signed transaction"
// @Success 200 {object} dto.ReceiptResponse
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/transactions [post]
// @Security BearerAuth
func (handler *Handler) SubmitTransaction(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitTransaction")
	defer scope.End()

	req := dto.TransactionRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	tx, err := req.ToModel()
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	receipt, err := handler.service.Execute(ctx, tx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("tx", receipt.ID).Msg("transaction failed")

		response.WithError(writer, err)

		return
	}

	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)
	scope.AddEvent("Transaction " + receipt.ID + " committed by operator " + operator)

	res := dto.ReceiptResponse{}
	res.FromModel(receipt)

	response.WithJSON(writer, http.StatusOK, res)
}

// GetAccount returns the raw state of an account.
// @Summary Get an account
// @Tags Ledger
// @Produce json
// @Param pubkey path string true "Account address (base58)"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/accounts/{pubkey} [get]
func (handler *Handler) GetAccount(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAccount")
	defer scope.End()

	pubkey, err := pubkeyParam(request)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	account, err := handler.service.GetAccount(ctx, pubkey)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get account")

		response.WithError(writer, err)

		return
	}

	res := dto.AccountResponse{}
	res.FromModel(account)

	response.WithJSON(writer, http.StatusOK, res)
}

// GetAccounts lists the accounts owned by a program.
// @Summary List program accounts
// @Tags Ledger
// @Produce json
// @Param owner query string true "Owner program (base58)"
// @Param min_lamports query int false "Minimum balance"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} dto.GetAccountsResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/accounts [get]
func (handler *Handler) GetAccounts(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAccounts")
	defer scope.End()

	filter, err := accountFilter(request)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true, model.SortableFields...)

	accounts, err := handler.service.ListAccounts(ctx, filter, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list accounts")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Accounts retrieved successfully")

	response.WithJSON(writer, http.StatusOK, accounts)
}

// Airdrop credits lamports to an account from the faucet.
// @Summary Airdrop lamports
// @Tags Ledger
// @Accept json
// @Produce json
// @Param pubkey path string true "Account address (base58)"
// @Param request body dto.AirdropRequest true "Airdrop Request"
// @Success 200 {object} dto.ReceiptResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/accounts/{pubkey}/airdrop [post]
// @Security BearerAuth
func (handler *Handler) Airdrop(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Airdrop")
	defer scope.End()

	pubkey, err := pubkeyParam(request)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	req := dto.AirdropRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	receipt, err := handler.service.Airdrop(ctx, pubkey, req.Lamports)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to airdrop")

		response.WithError(writer, err)

		return
	}

	res := dto.ReceiptResponse{}
	res.FromModel(receipt)

	response.WithJSON(writer, http.StatusOK, res)
}

// CreateSnapshot exports the current account state to object storage.
// @Summary Snapshot an account
// @Tags Ledger
// @Produce json
// @Param pubkey path string true "Account address (base58)"
// @Success 201 {object} dto.SnapshotResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/accounts/{pubkey}/snapshots [post]
// @Security BearerAuth
func (handler *Handler) CreateSnapshot(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSnapshot")
	defer scope.End()

	pubkey, err := pubkeyParam(request)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	snapshot, err := handler.service.Snapshot(ctx, pubkey)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to snapshot account")

		response.WithError(writer, err)

		return
	}

	res := dto.SnapshotResponse{}
	res.FromModel(snapshot)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetSnapshot fetches a previously exported snapshot.
// @Summary Get an account snapshot
// @Tags Ledger
// @Produce json
// @Param pubkey path string true "Account address (base58)"
// @Param slot path int true "Slot the snapshot was taken at"
// @Success 200 {object} dto.SnapshotResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/accounts/{pubkey}/snapshots/{slot} [get]
func (handler *Handler) GetSnapshot(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSnapshot")
	defer scope.End()

	pubkey, err := pubkeyParam(request)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	slot, err := strconv.ParseUint(chi.URLParam(request, requestParamSlot), 10, 64)
	if err != nil {
		err = failure.BadRequestFromString("slot must be an unsigned integer")
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	snapshot, err := handler.service.GetSnapshot(ctx, pubkey, slot)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get snapshot")

		response.WithError(writer, err)

		return
	}

	res := dto.SnapshotResponse{}
	res.FromModel(snapshot)

	response.WithJSON(writer, http.StatusOK, res)
}

// GetClock returns the clock sysvar the next transaction observes. Clients sign its slot as the recent slot.
// @Summary Get the ledger clock
// @Tags Ledger
// @Produce json
// @Success 200 {object} dto.ClockResponse
// @Router /v1/clock [get]
func (handler *Handler) GetClock(writer http.ResponseWriter, request *http.Request) {
	_, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetClock")
	defer scope.End()

	res := dto.ClockResponse{}
	res.FromModel(handler.service.Clock())

	response.WithJSON(writer, http.StatusOK, res)
}

func pubkeyParam(request *http.Request) (model.Pubkey, error) {
	raw := chi.URLParam(request, constant.RequestParamPubkey)

	if err := validator.ValidateVar(raw, "required,pubkey"); err != nil {
		return model.Pubkey{}, err
	}

	return model.PubkeyFromBase58(raw)
}

func accountFilter(request *http.Request) (model.AccountFilter, error) {
	query := request.URL.Query()
	owner := query.Get(constant.RequestParamOwner)

	if err := validator.ValidateVar(owner, "required,pubkey"); err != nil {
		return model.AccountFilter{}, err
	}

	filter := model.AccountFilter{}

	key, err := model.PubkeyFromBase58(owner)
	if err != nil {
		return filter, failure.BadRequest(err)
	}

	filter.Owner = key

	if raw := query.Get(constant.RequestParamMinLamports); raw != "" {
		if filter.MinLamports, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return filter, failure.BadRequestFromString("min_lamports must be an unsigned integer")
		}
	}

	return filter, nil
}
