package todo

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"todochain/infras/otel"
	ledger "todochain/internal/domains/ledger/model"
	"todochain/internal/domains/todo/model/dto"
	"todochain/internal/domains/todo/service"
	"todochain/shared"
	"todochain/shared/constant"
	"todochain/shared/validator"
	"todochain/transport/http/response"
)

const queryParamDone = "done"

type Handler struct {
	service service.Reader
	otel    otel.Otel
}

func New(service service.Reader, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/accounts/{pubkey}/todos", handler.GetTodos)
}

// GetTodos decodes the to-do collection stored in a program-owned account.
// @Summary Get the to-do list of an account
// @Description Items are returned in insertion order.
// @Tags Todo
// @Produce json
// @Param pubkey path string true "Todo account address (base58)"
// @Param done query boolean false "Filter by completion status"
// @Success 200 {object} dto.GetTodosResponse
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/accounts/{pubkey}/todos [get]
func (handler *Handler) GetTodos(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodos")
	defer scope.End()

	raw := chi.URLParam(r, constant.RequestParamPubkey)
	if err := validator.ValidateVar(raw, "required,pubkey"); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	pubkey := ledger.MustPubkeyFromBase58(raw)

	query := dto.GetTodosQuery{
		Done: shared.ConvertStringToBool(r.URL.Query().Get(queryParamDone)),
	}

	todos, err := handler.service.GetTodos(ctx, pubkey)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get todos")

		response.WithError(w, err)

		return
	}

	res := dto.GetTodosResponse{}
	res.FromModel(pubkey.String(), todos, query)

	scope.AddEvent("Todos retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}
