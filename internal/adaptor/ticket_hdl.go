package adaptor

import (
	"net/http"

	"kino-tickets/internal/dto/request"
	"kino-tickets/internal/usecase"
	"kino-tickets/pkg/i18n"
	"kino-tickets/pkg/utils"

	"go.uber.org/zap"
)

type TicketHandler struct {
	service    usecase.TicketService
	translator *i18n.Translator
	log        *zap.Logger
}

func NewTicketHandler(service usecase.TicketService, translator *i18n.Translator, log *zap.Logger) *TicketHandler {
	return &TicketHandler{
		service:    service,
		translator: translator,
		log:        log.With(zap.String("handler", "ticket")),
	}
}

// GetMyTickets handles GET /api/tickets (protected)
func (h *TicketHandler) GetMyTickets(w http.ResponseWriter, r *http.Request) {
	locale := localeOf(h.translator, r)

	owner, ok := utils.GetOwnerFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, locale.T("auth.loginRequired"))
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	tickets, err := h.service.ListByOwner(r.Context(), owner, req)
	if err != nil {
		h.log.Error("get tickets failed", zap.Error(err))
		utils.ResponseInternalError(w, locale.T("common.serverError"))
		return
	}

	utils.ResponseSuccess(w, locale.T("ticket.listed"), tickets)
}
