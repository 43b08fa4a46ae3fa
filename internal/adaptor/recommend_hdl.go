package adaptor

import (
	"errors"
	"net/http"

	"kino-tickets/internal/dto/request"
	"kino-tickets/internal/usecase"
	"kino-tickets/pkg/i18n"
	"kino-tickets/pkg/utils"

	"go.uber.org/zap"
)

const maxPhotoSize = 10 << 20

type RecommendHandler struct {
	service    usecase.RecommendService
	translator *i18n.Translator
	log        *zap.Logger
}

func NewRecommendHandler(service usecase.RecommendService, translator *i18n.Translator, log *zap.Logger) *RecommendHandler {
	return &RecommendHandler{
		service:    service,
		translator: translator,
		log:        log.With(zap.String("handler", "recommend")),
	}
}

// Recommend handles POST /api/recommendations (multipart field "image")
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	locale := localeOf(h.translator, r)

	query := request.RecommendationQuery{
		Limit: utils.ParseInt(r.URL.Query().Get("limit"), 10),
	}
	if validationErrors := utils.ValidateStruct(query); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		utils.ResponseBadRequest(w, locale.T("common.invalidRequest"), nil)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.ResponseBadRequest(w, "Image is required", nil)
		return
	}
	defer file.Close()

	token, _ := utils.GetTokenFromContext(r.Context())
	resp, err := h.service.Recommend(r.Context(), token, header.Filename, file, query.Limit)
	if err != nil {
		if errors.Is(err, usecase.ErrNoFaceDetected) {
			h.log.Warn("recommend failed - no face", zap.Error(err))
			utils.ResponseJSON(w, http.StatusUnprocessableEntity, false, locale.T("recommend.noFace"), nil, nil)
			return
		}
		writeUpstreamError(w, h.log, locale, err, "recommend")
		return
	}

	utils.ResponseSuccess(w, locale.T("recommend.ready"), resp)
}
