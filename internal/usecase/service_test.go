package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"kino-tickets/internal/booking"
	"kino-tickets/internal/data/repository"
	"kino-tickets/internal/dto/request"
	"kino-tickets/internal/dto/response"
	"kino-tickets/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTicketService_ListByOwner(t *testing.T) {
	tickets := &memTickets{}
	repo := &repository.Repository{Ticket: tickets}
	publisher := &recordingPublisher{}
	svc := NewTicketService(repo, publisher, zap.NewNop())
	ctx := context.Background()

	showing := booking.Showing{SessionID: 7, Title: "Kelinzhan", Cinema: "Chaplin", Date: "2026-10-20", Time: "19:30"}
	for i := int64(1); i <= 3; i++ {
		_, err := svc.Record(ctx, "alice", showing, &booking.Outcome{
			BookingID:  i,
			SessionID:  7,
			Seats:      []booking.SelectedSeat{{Number: int(i), TicketType: booking.TicketAdult}},
			TotalPrice: decimal.NewFromInt(1200),
		})
		require.NoError(t, err)
	}
	_, err := svc.Record(ctx, "bob", showing, &booking.Outcome{BookingID: 9, SessionID: 7, TotalPrice: decimal.Zero})
	require.NoError(t, err)

	page, err := svc.ListByOwner(ctx, "alice", &request.PaginatedRequest{Page: 1, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, int64(3), page.Data[0].BookingID, "newest first")
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	page, err = svc.ListByOwner(ctx, "alice", &request.PaginatedRequest{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(1), page.Data[0].BookingID)

	assert.Len(t, publisher.published(), 4)
}

func TestTicketService_PublishFailureIsNotFatal(t *testing.T) {
	tickets := &memTickets{}
	svc := NewTicketService(&repository.Repository{Ticket: tickets}, &recordingPublisher{err: errors.New("broker down")}, zap.NewNop())

	ticket, err := svc.Record(context.Background(), "alice", booking.Showing{Title: "Kelinzhan"}, &booking.Outcome{BookingID: 5, SessionID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(5), ticket.BookingID)
	assert.Equal(t, 1, tickets.count())
}

func TestTicketService_RecordIsIdempotent(t *testing.T) {
	tickets := &memTickets{}
	publisher := &recordingPublisher{}
	svc := NewTicketService(&repository.Repository{Ticket: tickets}, publisher, zap.NewNop())
	ctx := context.Background()
	outcome := &booking.Outcome{BookingID: 11, SessionID: 3, TotalPrice: decimal.NewFromInt(800)}

	first, err := svc.Record(ctx, "alice", booking.Showing{Title: "Kelinzhan"}, outcome)
	require.NoError(t, err)

	again, err := svc.Record(ctx, "alice", booking.Showing{Title: "Kelinzhan"}, outcome)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 1, tickets.count())
	assert.Len(t, publisher.published(), 1)
}

func TestCatalogService_CachesInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	backend := &fakeBackend{films: map[string]json.RawMessage{
		"now_playing": json.RawMessage(`[{"id":1,"title":"Kelinzhan"}]`),
	}}
	repo := &repository.Repository{Catalog: repository.NewRedisCatalogCache(rdb, zap.NewNop())}
	svc := NewCatalogService(repo, backend, utils.CatalogConfig{CacheTTL: time.Minute}, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		body, err := svc.Films(ctx, "now_playing")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":1,"title":"Kelinzhan"}]`, string(body))
	}
	assert.Equal(t, int32(1), backend.filmCalls.Load())

	mr.FastForward(2 * time.Minute)
	_, err := svc.Films(ctx, "now_playing")
	require.NoError(t, err)
	assert.Equal(t, int32(2), backend.filmCalls.Load())

	_, err = svc.Films(ctx, "nope")
	require.Error(t, err)
}

func TestCatalogService_SessionsAreNotCached(t *testing.T) {
	backend := &fakeBackend{sessions: json.RawMessage(`[]`)}
	repo := &repository.Repository{Catalog: repository.NewMemoryCatalogCache()}
	svc := NewCatalogService(repo, backend, utils.CatalogConfig{CacheTTL: time.Minute}, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := svc.FilmSessions(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), backend.filmCalls.Load())

	for i := 0; i < 2; i++ {
		_, err := svc.FilmDetails(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), backend.filmCalls.Load())
}

func TestCatalogService_Search(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewCatalogService(&repository.Repository{Catalog: repository.NewMemoryCatalogCache()}, backend, utils.CatalogConfig{CacheTTL: time.Minute}, zap.NewNop())
	ctx := context.Background()

	body, err := svc.Search(ctx, "   ", "ru")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
	assert.Equal(t, int32(0), backend.searchCalls.Load())

	body, err = svc.Search(ctx, " Dune ", "kk")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":3,"title":"Dune"}]`, string(body))
	assert.Equal(t, "kk", backend.searchLang)

	_, err = svc.Search(ctx, strings.Repeat("x", 101), "en")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int32(1), backend.searchCalls.Load())
}

func TestCatalogService_VoteRefreshesDetails(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewCatalogService(&repository.Repository{Catalog: repository.NewMemoryCatalogCache()}, backend, utils.CatalogConfig{CacheTTL: time.Minute}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.FilmDetails(ctx, 1)
	require.NoError(t, err)
	_, err = svc.FilmDetails(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), backend.filmCalls.Load())

	_, err = svc.Vote(ctx, "tok", 1, &request.VoteRequest{Rating: 11})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, backend.votes)

	body, err := svc.Vote(ctx, "tok", 1, &request.VoteRequest{Rating: 8})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rating":8,"vote_average":7.5,"vote_count":2}`, string(body))
	assert.Equal(t, []int{8}, backend.votes)

	_, err = svc.FilmDetails(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), backend.filmCalls.Load())

	_, err = svc.RemoveVote(ctx, "tok", 1)
	require.NoError(t, err)
	assert.Empty(t, backend.votes)

	_, err = svc.FilmDetails(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(3), backend.filmCalls.Load())

	backend.voteErr = errors.New("backend down")
	_, err = svc.RemoveVote(ctx, "tok", 1)
	assert.Error(t, err)
}

func TestAuthService(t *testing.T) {
	backend := &fakeBackend{login: &response.LoginResponse{Token: "tok", User: response.UserInfo{ID: 1, Username: "aru"}}}
	svc := NewAuthService(backend, zap.NewNop())
	ctx := context.Background()

	resp, err := svc.Login(ctx, &request.LoginRequest{Username: "aru", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)

	_, err = svc.Login(ctx, &request.LoginRequest{Username: "aru"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, &request.RegisterRequest{Username: "aru", Email: "aru@example.kz", Password: "secret1", Password2: "secret2"})
	assert.ErrorIs(t, err, ErrValidation)

	body, err := svc.Register(ctx, &request.RegisterRequest{Username: "aru", Email: "aru@example.kz", Password: "secret1", Password2: "secret1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"aru"}`, string(body))
}

func TestRecommendService(t *testing.T) {
	ctx := context.Background()

	t.Run("no face", func(t *testing.T) {
		svc := NewRecommendService(&fakeBackend{}, zap.NewNop())
		_, err := svc.Recommend(ctx, "tok", "me.jpg", strings.NewReader("jpeg"), 5)
		assert.ErrorIs(t, err, ErrNoFaceDetected)
	})

	t.Run("anonymous gets mood only", func(t *testing.T) {
		backend := &fakeBackend{faces: []response.Face{{DominantEmotion: "happy"}}}
		svc := NewRecommendService(backend, zap.NewNop())

		resp, err := svc.Recommend(ctx, "", "me.jpg", strings.NewReader("jpeg"), 5)
		require.NoError(t, err)
		assert.Equal(t, "happy", resp.Emotion)
		assert.NotEmpty(t, resp.Genres)
		assert.Empty(t, resp.Films)
		assert.Empty(t, backend.recEmotion)
	})

	t.Run("signed in gets films", func(t *testing.T) {
		backend := &fakeBackend{
			faces:     []response.Face{{DominantEmotion: "Sad"}, {DominantEmotion: "happy"}},
			recommend: []response.RecommendedFilm{{Title: "Kelinzhan"}},
		}
		svc := NewRecommendService(backend, zap.NewNop())

		resp, err := svc.Recommend(ctx, "tok", "me.jpg", strings.NewReader("jpeg"), 5)
		require.NoError(t, err)
		assert.Equal(t, "sad", resp.Emotion)
		assert.Equal(t, resp.BackendEmotion, backend.recEmotion)
		assert.Len(t, resp.Films, 1)
	})

	t.Run("recommend failure keeps mood", func(t *testing.T) {
		backend := &fakeBackend{
			faces:  []response.Face{{DominantEmotion: "angry"}},
			recErr: errors.New("upstream down"),
		}
		svc := NewRecommendService(backend, zap.NewNop())

		resp, err := svc.Recommend(ctx, "tok", "me.jpg", strings.NewReader("jpeg"), 5)
		require.NoError(t, err)
		assert.Equal(t, "angry", resp.Emotion)
		assert.Empty(t, resp.Films)
	})
}
