package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"kino-tickets/internal/booking"
	"kino-tickets/internal/data/entity"
	"kino-tickets/internal/dto/request"
	"kino-tickets/internal/dto/response"
)

type fakeBackend struct {
	mu          sync.Mutex
	submitCalls atomic.Int32
	delay       time.Duration
	submitErr   error
	nextID      int64
	lastToken   string

	films      map[string]json.RawMessage
	filmCalls  atomic.Int32
	sessions   json.RawMessage
	faces      []response.Face
	faceErr    error
	recommend  []response.RecommendedFilm
	recErr     error
	recEmotion string
	login      *response.LoginResponse
	loginErr   error

	searchCalls atomic.Int32
	searchLang  string
	voteErr     error
	votes       []int
}

func (b *fakeBackend) SubmitBooking(ctx context.Context, token string, req booking.BookingRequest) (*booking.Confirmation, error) {
	b.submitCalls.Add(1)
	if b.delay > 0 {
		select {
		case <-time.After(b.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastToken = token
	if b.submitErr != nil {
		return nil, b.submitErr
	}
	b.nextID++
	return &booking.Confirmation{ID: b.nextID, Status: "confirmed"}, nil
}

func (b *fakeBackend) setSubmitErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submitErr = err
}

func (b *fakeBackend) Login(ctx context.Context, req request.LoginRequest) (*response.LoginResponse, error) {
	return b.login, b.loginErr
}

func (b *fakeBackend) Register(ctx context.Context, req request.RegisterRequest) (json.RawMessage, error) {
	return json.RawMessage(`{"username":"` + req.Username + `"}`), nil
}

func (b *fakeBackend) Films(ctx context.Context, list string) (json.RawMessage, error) {
	b.filmCalls.Add(1)
	body, ok := b.films[list]
	if !ok {
		return nil, errors.New("unknown film list")
	}
	return body, nil
}

func (b *fakeBackend) FilmDetails(ctx context.Context, id int) (json.RawMessage, error) {
	b.filmCalls.Add(1)
	return json.RawMessage(`{"id":1,"title":"Kelinzhan"}`), nil
}

func (b *fakeBackend) FilmSessions(ctx context.Context, id int) (json.RawMessage, error) {
	b.filmCalls.Add(1)
	return b.sessions, nil
}

func (b *fakeBackend) SearchFilms(ctx context.Context, query, lang string) (json.RawMessage, error) {
	b.searchCalls.Add(1)
	b.mu.Lock()
	b.searchLang = lang
	b.mu.Unlock()
	return json.RawMessage(`[{"id":3,"title":"` + query + `"}]`), nil
}

func (b *fakeBackend) Vote(ctx context.Context, token string, id int, req request.VoteRequest) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.voteErr != nil {
		return nil, b.voteErr
	}
	b.votes = append(b.votes, req.Rating)
	return json.RawMessage(`{"rating":` + strconv.Itoa(req.Rating) + `,"vote_average":7.5,"vote_count":2}`), nil
}

func (b *fakeBackend) RemoveVote(ctx context.Context, token string, id int) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.voteErr != nil {
		return nil, b.voteErr
	}
	b.votes = nil
	return json.RawMessage(`{"vote_average":7.0,"vote_count":1}`), nil
}

func (b *fakeBackend) DetectEmotion(ctx context.Context, filename string, image io.Reader) ([]response.Face, error) {
	if _, err := io.ReadAll(image); err != nil {
		return nil, err
	}
	return b.faces, b.faceErr
}

func (b *fakeBackend) Recommend(ctx context.Context, token, emotion string, limit int) ([]response.RecommendedFilm, error) {
	b.recEmotion = emotion
	return b.recommend, b.recErr
}

type memTickets struct {
	mu       sync.Mutex
	tickets  []*entity.Ticket
	takenErr error
}

func (m *memTickets) Create(ctx context.Context, ticket *entity.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tickets {
		if t.BookingID == ticket.BookingID {
			return nil
		}
	}
	m.tickets = append(m.tickets, ticket)
	return nil
}

func (m *memTickets) FindByBookingID(ctx context.Context, bookingID int64) (*entity.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tickets {
		if t.BookingID == bookingID {
			return t, nil
		}
	}
	return nil, nil
}

func (m *memTickets) FindByOwner(ctx context.Context, ownerKey string, limit, offset int) ([]*entity.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Ticket
	for i := len(m.tickets) - 1; i >= 0; i-- {
		if m.tickets[i].OwnerKey == ownerKey {
			out = append(out, m.tickets[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memTickets) CountByOwner(ctx context.Context, ownerKey string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, t := range m.tickets {
		if t.OwnerKey == ownerKey {
			n++
		}
	}
	return n, nil
}

func (m *memTickets) FindTakenSeats(ctx context.Context, sessionID int) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takenErr != nil {
		return nil, m.takenErr
	}
	var out []int
	for _, t := range m.tickets {
		if t.SessionID != sessionID {
			continue
		}
		for _, s := range t.Seats {
			out = append(out, s.Number)
		}
	}
	sort.Ints(out)
	return out, nil
}

func (m *memTickets) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickets)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []any
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]any(nil), p.events...)
}
