package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"kino-tickets/internal/dto/request"
	"kino-tickets/internal/upstream"
	"kino-tickets/internal/usecase"
	"kino-tickets/pkg/i18n"
	"kino-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MovieHandler struct {
	service    usecase.CatalogService
	translator *i18n.Translator
	log        *zap.Logger
}

func NewMovieHandler(service usecase.CatalogService, translator *i18n.Translator, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service:    service,
		translator: translator,
		log:        log.With(zap.String("handler", "movie")),
	}
}

// GetFilms handles GET /api/films/{key}. A numeric key is a film id,
// anything else names a list.
func (h *MovieHandler) GetFilms(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var (
		body json.RawMessage
		err  error
	)
	if id, convErr := strconv.Atoi(key); convErr == nil {
		if id < 1 {
			utils.ResponseBadRequest(w, "Invalid film ID", nil)
			return
		}
		body, err = h.service.FilmDetails(r.Context(), id)
	} else {
		body, err = h.service.Films(r.Context(), key)
	}

	if err != nil {
		h.handleServiceError(w, r, err, "get films")
		return
	}

	utils.ResponseSuccess(w, "success", body)
}

// GetSessions handles GET /api/films/{key}/sessions
func (h *MovieHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "key"))
	if err != nil || id < 1 {
		utils.ResponseBadRequest(w, "Invalid film ID", nil)
		return
	}

	body, err := h.service.FilmSessions(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err, "get film sessions")
		return
	}

	utils.ResponseSuccess(w, "success", body)
}

// Search handles GET /api/films/search?query=
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	lang := utils.GetLocaleFromContext(r.Context())

	body, err := h.service.Search(r.Context(), r.URL.Query().Get("query"), lang)
	if err != nil {
		h.handleServiceError(w, r, err, "search films")
		return
	}

	utils.ResponseSuccess(w, "success", body)
}

// Vote handles POST /api/films/{key}/vote (protected)
func (h *MovieHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "key"))
	if err != nil || id < 1 {
		utils.ResponseBadRequest(w, "Invalid film ID", nil)
		return
	}

	var req request.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	token, _ := utils.GetTokenFromContext(r.Context())
	body, err := h.service.Vote(r.Context(), token, id, &req)
	if err != nil {
		h.handleServiceError(w, r, err, "vote film")
		return
	}

	utils.ResponseSuccess(w, "Vote saved", body)
}

// RemoveVote handles DELETE /api/films/{key}/vote (protected)
func (h *MovieHandler) RemoveVote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "key"))
	if err != nil || id < 1 {
		utils.ResponseBadRequest(w, "Invalid film ID", nil)
		return
	}

	token, _ := utils.GetTokenFromContext(r.Context())
	body, err := h.service.RemoveVote(r.Context(), token, id)
	if err != nil {
		h.handleServiceError(w, r, err, "remove vote")
		return
	}

	utils.ResponseSuccess(w, "Vote removed", body)
}

func (h *MovieHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if errors.Is(err, upstream.ErrUnknownList) {
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())
		return
	}
	if errors.Is(err, usecase.ErrValidation) {
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}
	writeUpstreamError(w, h.log, localeOf(h.translator, r), err, operation)
}
