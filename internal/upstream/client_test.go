package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kino-tickets/internal/booking"
	"kino-tickets/internal/dto/request"
	"kino-tickets/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(utils.UpstreamConfig{
		BaseURL:      srv.URL + "/",
		APIPrefix:    "/api",
		FetchTimeout: time.Second,
	}, srv.Client(), zap.NewNop())
}

func sampleRequest() booking.BookingRequest {
	return booking.BookingRequest{
		SessionID:  7,
		Seats:      []booking.SelectedSeat{{Number: 3, TicketType: booking.TicketAdult}},
		TotalPrice: decimal.NewFromInt(1200),
	}
}

func TestClient_URL(t *testing.T) {
	c := NewClient(utils.UpstreamConfig{BaseURL: "http://backend:8000/", APIPrefix: "api/"}, nil, zap.NewNop())
	assert.Equal(t, "http://backend:8000/api/bookings/", c.URL("/bookings/"))

	c = NewClient(utils.UpstreamConfig{BaseURL: "http://backend:8000", APIPrefix: ""}, nil, zap.NewNop())
	assert.Equal(t, "http://backend:8000/bookings/", c.URL("/bookings/"))
}

func TestSubmitBooking_Created(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bookings/", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["session_id"])
		assert.Equal(t, float64(1200), body["total_price"])
		assert.Equal(t, []any{map[string]any{"number": float64(3), "ticket_type": "adult"}}, body["seats"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 42, "status": "CONFIRMED"}`))
	})

	conf, err := c.SubmitBooking(context.Background(), "tok", sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(42), conf.ID)
}

func TestSubmitBooking_Statuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{"bad request detail", http.StatusBadRequest, `{"detail":"Not enough seats available"}`, "Not enough seats available"},
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Invalid token."}`, "Invalid token."},
		{"conflict without body", http.StatusConflict, ``, ""},
		{"error field", http.StatusForbidden, `{"error":"nope"}`, "nope"},
		{"html error page", http.StatusBadGateway, `<html>bad gateway</html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := c.SubmitBooking(context.Background(), "tok", sampleRequest())
			var be *booking.BackendError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, tt.status, be.StatusCode)
			assert.Equal(t, tt.detail, be.Detail)
		})
	}
}

func TestSubmitBooking_OKIsNotCreated(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id": 1}`))
	})

	_, err := c.SubmitBooking(context.Background(), "tok", sampleRequest())
	assert.Equal(t, booking.KindGeneric, booking.Classify(err).Kind)
}

func TestSubmitBooking_MalformedConfirmation(t *testing.T) {
	bodies := []string{`{"status":"CONFIRMED"}`, `{"id":0}`, `not json`, `{"id":"abc"}`}

	for _, body := range bodies {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, body)
		})

		_, err := c.SubmitBooking(context.Background(), "tok", sampleRequest())
		require.Error(t, err, body)
		assert.Equal(t, booking.KindGeneric, booking.Classify(err).Kind, body)
	}
}

func TestSubmitBooking_ContextDeadline(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := c.SubmitBooking(ctx, "tok", sampleRequest())
	require.Error(t, err)
	be := booking.Classify(err)
	assert.Equal(t, booking.KindGeneric, be.Kind)
	assert.Equal(t, "timeout", be.Detail)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login/", r.URL.Path)
		var req request.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":"Invalid credentials"}`)
			return
		}
		io.WriteString(w, `{"token":"abc","user":{"id":5,"username":"aru","email":"aru@example.kz"}}`)
	})

	out, err := c.Login(context.Background(), request.LoginRequest{Username: "aru", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "abc", out.Token)
	assert.Equal(t, int64(5), out.User.ID)

	_, err = c.Login(context.Background(), request.LoginRequest{Username: "aru", Password: "wrong"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "Invalid credentials", se.Detail)
}

func TestFilms(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/films/upcoming_movies/", r.URL.Path)
		io.WriteString(w, `[{"id":1,"title":"Dune"}]`)
	})

	data, err := c.Films(context.Background(), "upcoming")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"title":"Dune"}]`, string(data))

	_, err = c.Films(context.Background(), "trending")
	assert.ErrorIs(t, err, ErrUnknownList)
}

func TestFilmDetailsAndSessions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/films/9/film_details/":
			io.WriteString(w, `{"id":9}`)
		case "/api/films/9/sessions/":
			io.WriteString(w, `[{"id":70,"price":"1500.00"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	details, err := c.FilmDetails(context.Background(), 9)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":9}`, string(details))

	sessions, err := c.FilmSessions(context.Background(), 9)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":70,"price":"1500.00"}]`, string(sessions))

	_, err = c.FilmDetails(context.Background(), 10)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestDetectEmotion(t *testing.T) {
	bodies := map[string]string{
		"nested":    `{"result":{"faces":[{"dominant_emotion":"happy","emotion":{"happy":0.9}}]}}`,
		"top level": `{"faces":[{"dominant_emotion":"happy"}]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/emotions/", r.URL.Path)
				assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

				file, header, err := r.FormFile("image")
				require.NoError(t, err)
				defer file.Close()
				data, _ := io.ReadAll(file)
				assert.Equal(t, "face.jpg", header.Filename)
				assert.Equal(t, "jpegbytes", string(data))

				io.WriteString(w, body)
			})

			faces, err := c.DetectEmotion(context.Background(), "face.jpg", strings.NewReader("jpegbytes"))
			require.NoError(t, err)
			require.Len(t, faces, 1)
			assert.Equal(t, "happy", faces[0].DominantEmotion)
		})
	}
}

func TestRecommend(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/recommend/", r.URL.Path)
		assert.Equal(t, "Enjoyment", r.URL.Query().Get("emotion"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Equal(t, "Token tok", r.Header.Get("Authorization"))
		io.WriteString(w, `[{"title":"Paddington","poster_path":"/p.jpg"}]`)
	})

	films, err := c.Recommend(context.Background(), "tok", "Enjoyment", 3)
	require.NoError(t, err)
	require.Len(t, films, 1)
	assert.Equal(t, "Paddington", films[0].Title)
}

func TestSearchFilms(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/films/search/", r.URL.Path)
		assert.Equal(t, "кино & co", r.URL.Query().Get("query"))
		assert.Equal(t, "ru", r.Header.Get("Accept-Language"))
		assert.Empty(t, r.Header.Get("Authorization"))
		io.WriteString(w, `[{"id":4,"title":"Кино"}]`)
	})

	data, err := c.SearchFilms(context.Background(), "кино & co", "ru")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":4,"title":"Кино"}]`, string(data))
}

func TestVote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/films/9/vote/":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(8), body["rating"])
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"rating":8,"vote_average":7.5,"vote_count":2}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/films/9/remove_vote/":
			io.WriteString(w, `{"vote_average":7.0,"vote_count":1}`)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail":"Authentication credentials were not provided."}`)
		}
	})

	data, err := c.Vote(context.Background(), "tok", 9, request.VoteRequest{Rating: 8})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rating":8,"vote_average":7.5,"vote_count":2}`, string(data))

	data, err = c.RemoveVote(context.Background(), "tok", 9)
	require.NoError(t, err)
	assert.JSONEq(t, `{"vote_average":7.0,"vote_count":1}`, string(data))

	_, err = c.RemoveVote(context.Background(), "tok", 10)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "Authentication credentials were not provided.", se.Detail)
}
