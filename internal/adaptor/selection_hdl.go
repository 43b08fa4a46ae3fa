package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"kino-tickets/internal/booking"
	"kino-tickets/internal/data/repository"
	"kino-tickets/internal/dto/request"
	"kino-tickets/internal/usecase"
	"kino-tickets/pkg/i18n"
	"kino-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SelectionHandler struct {
	service    usecase.SeatService
	translator *i18n.Translator
	log        *zap.Logger
}

func NewSelectionHandler(service usecase.SeatService, translator *i18n.Translator, log *zap.Logger) *SelectionHandler {
	return &SelectionHandler{
		service:    service,
		translator: translator,
		log:        log.With(zap.String("handler", "selection")),
	}
}

// Open handles POST /api/selections
func (h *SelectionHandler) Open(w http.ResponseWriter, r *http.Request) {
	locale := localeOf(h.translator, r)

	var req request.OpenSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, locale.T("common.invalidRequest"), nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	owner, _ := utils.GetOwnerFromContext(r.Context())
	e, err := h.service.Open(r.Context(), owner, &req)
	if err != nil {
		h.handleServiceError(w, r, err, nil, "open selection")
		return
	}

	utils.ResponseCreated(w, locale.T("seat.selectionOpened"), renderSelection(e, locale, themeOf(r)))
}

// Get handles GET /api/selections/{id}
func (h *SelectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, _ := utils.GetOwnerFromContext(r.Context())
	e, err := h.service.Get(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err, nil, "get selection")
		return
	}

	utils.ResponseSuccess(w, "success", renderSelection(e, localeOf(h.translator, r), themeOf(r)))
}

// SelectSeat handles POST /api/selections/{id}/seats/{row}/{col}
func (h *SelectionHandler) SelectSeat(w http.ResponseWriter, r *http.Request) {
	row, col, ok := h.seatParams(w, r)
	if !ok {
		return
	}

	owner, _ := utils.GetOwnerFromContext(r.Context())
	e, err := h.service.SelectSeat(r.Context(), owner, chi.URLParam(r, "id"), row, col)
	if err != nil {
		h.handleServiceError(w, r, err, e, "select seat")
		return
	}

	h.respondUpdated(w, r, e)
}

// ConfirmTicketType handles PUT /api/selections/{id}/seats/{row}/{col}
func (h *SelectionHandler) ConfirmTicketType(w http.ResponseWriter, r *http.Request) {
	row, col, ok := h.seatParams(w, r)
	if !ok {
		return
	}

	var req request.ConfirmTicketTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, localeOf(h.translator, r).T("common.invalidRequest"), nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	ticketType, err := booking.ParseTicketType(req.TicketType)
	if err != nil {
		h.handleServiceError(w, r, err, nil, "confirm ticket type")
		return
	}

	owner, _ := utils.GetOwnerFromContext(r.Context())
	e, err := h.service.ConfirmTicketType(r.Context(), owner, chi.URLParam(r, "id"), row, col, ticketType)
	if err != nil {
		h.handleServiceError(w, r, err, e, "confirm ticket type")
		return
	}

	h.respondUpdated(w, r, e)
}

// CancelPending handles DELETE /api/selections/{id}/pending
func (h *SelectionHandler) CancelPending(w http.ResponseWriter, r *http.Request) {
	owner, _ := utils.GetOwnerFromContext(r.Context())
	e, err := h.service.CancelPending(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err, e, "cancel pending")
		return
	}

	h.respondUpdated(w, r, e)
}

// Submit handles POST /api/selections/{id}/submit
func (h *SelectionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	locale := localeOf(h.translator, r)

	// a missing token is reported by the engine as Unauthenticated
	token, _ := utils.GetTokenFromContext(r.Context())

	outcome, e, err := h.service.Submit(r.Context(), chi.URLParam(r, "id"), token)
	if err != nil {
		h.handleServiceError(w, r, err, e, "submit booking")
		return
	}

	utils.ResponseCreated(w, locale.T("seat.bookingSuccess"), renderOutcome(outcome, locale))
}

// Close handles DELETE /api/selections/{id}
func (h *SelectionHandler) Close(w http.ResponseWriter, r *http.Request) {
	owner, _ := utils.GetOwnerFromContext(r.Context())
	if err := h.service.Close(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err, nil, "close selection")
		return
	}

	utils.ResponseSuccess(w, localeOf(h.translator, r).T("seat.selectionClosedByUser"), nil)
}

func (h *SelectionHandler) respondUpdated(w http.ResponseWriter, r *http.Request, e *booking.Engine) {
	locale := localeOf(h.translator, r)
	utils.ResponseSuccess(w, locale.T("seat.selectionUpdated"), renderSelection(e, locale, themeOf(r)))
}

func (h *SelectionHandler) seatParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	row, rowOK := utils.ParseIndex(chi.URLParam(r, "row"))
	col, colOK := utils.ParseIndex(chi.URLParam(r, "col"))
	if !rowOK || !colOK {
		utils.ResponseBadRequest(w, localeOf(h.translator, r).T("seat.outOfRange"), nil)
		return 0, 0, false
	}
	return row, col, true
}

// handleServiceError handles errors untuk selection operations. When the
// selection is still known its current view is sent along as data.
func (h *SelectionHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, e *booking.Engine, operation string) {
	locale := localeOf(h.translator, r)

	var view any
	if e != nil {
		view = renderSelection(e, locale, themeOf(r))
	}

	var bookingErr *booking.BookingError
	switch {
	case errors.As(err, &bookingErr):
		info := renderError(bookingErr, locale)
		status := bookingStatus(bookingErr)
		if status >= http.StatusInternalServerError {
			h.log.Error(operation+" failed", zap.Error(err), zap.String("kind", string(bookingErr.Kind)))
		} else {
			h.log.Warn(operation+" failed", zap.Error(err), zap.String("kind", string(bookingErr.Kind)))
		}
		utils.ResponseJSON(w, status, false, info.Message, view, info)

	case errors.Is(err, usecase.ErrSelectionNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, locale.T("seat.selectionNotFound"))

	case errors.Is(err, usecase.ErrValidation):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, booking.ErrSeatOutOfRange):
		h.log.Warn(operation+" failed - seat out of range", zap.Error(err))
		utils.ResponseJSON(w, http.StatusBadRequest, false, locale.T("seat.outOfRange"), view, nil)

	case errors.Is(err, booking.ErrInvalidTicketType):
		h.log.Warn(operation+" failed - invalid ticket type", zap.Error(err))
		utils.ResponseJSON(w, http.StatusBadRequest, false, locale.T("seat.invalidTicketType"), view, nil)

	case errors.Is(err, booking.ErrNoPendingSelection):
		h.log.Warn(operation+" failed - no pending selection", zap.Error(err))
		utils.ResponseConflict(w, locale.T("seat.noPendingSelection"), view)

	case errors.Is(err, booking.ErrSelectionClosed):
		h.log.Warn(operation+" failed - selection closed", zap.Error(err))
		utils.ResponseConflict(w, locale.T("seat.selectionClosed"), view)

	case errors.Is(err, booking.ErrSubmissionInProgress), errors.Is(err, repository.ErrSelectionBusy):
		h.log.Warn(operation+" failed - submission in progress", zap.Error(err))
		utils.ResponseConflict(w, locale.T("seat.submissionInProgress"), view)

	default:
		h.log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, locale.T("common.serverError"))
	}
}

func bookingStatus(err *booking.BookingError) int {
	switch err.Kind {
	case booking.KindEmptySelection, booking.KindInvalidBookingData:
		return http.StatusBadRequest
	case booking.KindUnauthenticated, booking.KindLoginRequired:
		return http.StatusUnauthorized
	case booking.KindNotAuthorized:
		return http.StatusForbidden
	case booking.KindAlreadyBooked:
		return http.StatusConflict
	}
	if err.Detail == "timeout" {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
