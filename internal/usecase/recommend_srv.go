package usecase

import (
	"context"
	"fmt"
	"io"

	"kino-tickets/internal/dto/response"
	"kino-tickets/internal/recommend"

	"go.uber.org/zap"
)

type RecommendService interface {
	// Recommend detects the mood on the photo and, for signed-in users, asks
	// the backend for films matching it.
	Recommend(ctx context.Context, token, filename string, image io.Reader, limit int) (*response.RecommendationResponse, error)
}

type recommendService struct {
	backend Backend
	log     *zap.Logger
}

func NewRecommendService(backend Backend, log *zap.Logger) RecommendService {
	return &recommendService{
		backend: backend,
		log:     log.With(zap.String("service", "recommend")),
	}
}

func (s *recommendService) Recommend(ctx context.Context, token, filename string, image io.Reader, limit int) (*response.RecommendationResponse, error) {
	faces, err := s.backend.DetectEmotion(ctx, filename, image)
	if err != nil {
		s.log.Error("Emotion detection failed", zap.Error(err))
		return nil, fmt.Errorf("detect emotion: %w", err)
	}
	if len(faces) == 0 {
		return nil, ErrNoFaceDetected
	}

	mood := recommend.MoodFor(faces[0].DominantEmotion)
	resp := &response.RecommendationResponse{
		Emotion:        mood.Emotion,
		BackendEmotion: mood.BackendEmotion,
		Description:    mood.Description,
		Genres:         mood.Genres,
		Faces:          faces,
		Films:          []response.RecommendedFilm{},
	}

	if token == "" {
		return resp, nil
	}

	films, err := s.backend.Recommend(ctx, token, mood.BackendEmotion, limit)
	if err != nil {
		s.log.Warn("Recommendation request failed", zap.Error(err), zap.String("emotion", mood.BackendEmotion))
		return resp, nil
	}
	resp.Films = films

	s.log.Info("Recommendations ready", zap.String("emotion", mood.Emotion), zap.Int("films", len(films)))
	return resp, nil
}
