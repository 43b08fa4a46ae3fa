package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"kino-tickets/internal/data/repository"
	"kino-tickets/internal/dto/request"
	"kino-tickets/pkg/utils"

	"go.uber.org/zap"
)

// CatalogService serves film lists and details from the backend, cache-aside.
type CatalogService interface {
	Films(ctx context.Context, list string) (json.RawMessage, error)
	FilmDetails(ctx context.Context, id int) (json.RawMessage, error)
	FilmSessions(ctx context.Context, id int) (json.RawMessage, error)
	Search(ctx context.Context, query, lang string) (json.RawMessage, error)
	Vote(ctx context.Context, token string, id int, req *request.VoteRequest) (json.RawMessage, error)
	RemoveVote(ctx context.Context, token string, id int) (json.RawMessage, error)
}

type catalogService struct {
	repo    *repository.Repository
	backend Backend
	config  utils.CatalogConfig
	log     *zap.Logger
}

func NewCatalogService(
	repo *repository.Repository,
	backend Backend,
	config utils.CatalogConfig,
	log *zap.Logger,
) CatalogService {
	return &catalogService{
		repo:    repo,
		backend: backend,
		config:  config,
		log:     log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) Films(ctx context.Context, list string) (json.RawMessage, error) {
	return s.cached(ctx, "films:"+list, func() (json.RawMessage, error) {
		return s.backend.Films(ctx, list)
	})
}

func (s *catalogService) FilmDetails(ctx context.Context, id int) (json.RawMessage, error) {
	return s.cached(ctx, "film:"+strconv.Itoa(id), func() (json.RawMessage, error) {
		return s.backend.FilmDetails(ctx, id)
	})
}

// FilmSessions is never cached; seat counts change with every booking.
func (s *catalogService) FilmSessions(ctx context.Context, id int) (json.RawMessage, error) {
	body, err := s.backend.FilmSessions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("film %d sessions: %w", id, err)
	}
	return body, nil
}

// Search is not cached. A blank query yields an empty list without a backend call.
func (s *catalogService) Search(ctx context.Context, query, lang string) (json.RawMessage, error) {
	q := request.SearchQuery{Query: strings.TrimSpace(query)}
	if q.Query == "" {
		return json.RawMessage(`[]`), nil
	}
	if errs := utils.ValidateStruct(q); len(errs) > 0 {
		s.log.Warn("Search validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	body, err := s.backend.SearchFilms(ctx, q.Query, lang)
	if err != nil {
		return nil, fmt.Errorf("search films: %w", err)
	}
	return body, nil
}

func (s *catalogService) Vote(ctx context.Context, token string, id int, req *request.VoteRequest) (json.RawMessage, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Vote validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	body, err := s.backend.Vote(ctx, token, id, *req)
	if err != nil {
		s.log.Warn("Vote rejected", zap.Error(err), zap.Int("film_id", id))
		return nil, fmt.Errorf("vote film %d: %w", id, err)
	}

	s.forgetDetails(ctx, id)
	s.log.Info("Film voted", zap.Int("film_id", id), zap.Int("rating", req.Rating))
	return body, nil
}

func (s *catalogService) RemoveVote(ctx context.Context, token string, id int) (json.RawMessage, error) {
	body, err := s.backend.RemoveVote(ctx, token, id)
	if err != nil {
		s.log.Warn("Remove vote rejected", zap.Error(err), zap.Int("film_id", id))
		return nil, fmt.Errorf("remove vote film %d: %w", id, err)
	}

	s.forgetDetails(ctx, id)
	s.log.Info("Film vote removed", zap.Int("film_id", id))
	return body, nil
}

// forgetDetails drops cached details so the next read shows the new vote average.
func (s *catalogService) forgetDetails(ctx context.Context, id int) {
	if s.config.CacheTTL <= 0 {
		return
	}
	key := "film:" + strconv.Itoa(id)
	if err := s.repo.Catalog.Delete(ctx, key); err != nil {
		s.log.Warn("Catalog cache delete failed", zap.Error(err), zap.String("key", key))
	}
}

func (s *catalogService) cached(ctx context.Context, key string, fetch func() (json.RawMessage, error)) (json.RawMessage, error) {
	if s.config.CacheTTL > 0 {
		body, found, err := s.repo.Catalog.Get(ctx, key)
		if err != nil {
			s.log.Warn("Catalog cache read failed", zap.Error(err), zap.String("key", key))
		} else if found {
			return json.RawMessage(body), nil
		}
	}

	body, err := fetch()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}

	if s.config.CacheTTL > 0 {
		if err := s.repo.Catalog.Set(ctx, key, body, s.config.CacheTTL); err != nil {
			s.log.Warn("Catalog cache write failed", zap.Error(err), zap.String("key", key))
		}
	}

	return body, nil
}
