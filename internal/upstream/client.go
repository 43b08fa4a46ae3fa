package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kino-tickets/internal/booking"
	"kino-tickets/internal/dto/request"
	"kino-tickets/internal/dto/response"
	"kino-tickets/pkg/utils"

	"go.uber.org/zap"
)

const maxErrorBody = 64 << 10

// FilmLists are the catalog lists the backend serves.
var FilmLists = map[string]string{
	"now_playing": "now_playing_movies",
	"upcoming":    "upcoming_movies",
	"popular":     "popular_movies",
}

var ErrUnknownList = errors.New("unknown film list")

// StatusError is a non-success reply from the backend.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Detail)
}

// Client talks to the ticketing backend.
type Client struct {
	baseURL      string
	prefix       string
	fetchTimeout time.Duration
	http         *http.Client
	log          *zap.Logger
}

func NewClient(config utils.UpstreamConfig, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	fetchTimeout := config.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}

	return &Client{
		baseURL:      strings.TrimRight(config.BaseURL, "/"),
		prefix:       "/" + strings.Trim(config.APIPrefix, "/"),
		fetchTimeout: fetchTimeout,
		http:         httpClient,
		log:          log.With(zap.String("client", "upstream")),
	}
}

// URL builds base + prefix + endpoint.
func (c *Client) URL(endpoint string) string {
	if c.prefix == "/" {
		return c.baseURL + endpoint
	}
	return c.baseURL + c.prefix + endpoint
}

// SubmitBooking posts the booking and accepts only 201 with a positive id.
// Other statuses come back as *booking.BackendError.
func (c *Client) SubmitBooking(ctx context.Context, token string, req booking.BookingRequest) (*booking.Confirmation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal booking request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL("/bookings/"), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build booking request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post booking: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		detail := readDetail(resp.Body)
		return nil, &booking.BackendError{StatusCode: resp.StatusCode, Detail: detail}
	}

	var conf booking.Confirmation
	if err := json.NewDecoder(resp.Body).Decode(&conf); err != nil {
		return nil, fmt.Errorf("decode booking confirmation: %w", err)
	}
	if errs := utils.ValidateStruct(conf); errs != nil {
		return nil, fmt.Errorf("invalid booking confirmation: %s", utils.FormatValidationErrors(errs))
	}

	return &conf, nil
}

func (c *Client) Login(ctx context.Context, req request.LoginRequest) (*response.LoginResponse, error) {
	var out response.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login/", nil, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(out); errs != nil {
		return nil, fmt.Errorf("invalid login response: %s", utils.FormatValidationErrors(errs))
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req request.RegisterRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register/", nil, req, &out, http.StatusCreated, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Films(ctx context.Context, list string) (json.RawMessage, error) {
	endpoint, ok := FilmLists[list]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownList, list)
	}

	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/films/"+endpoint+"/", nil, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FilmDetails(ctx context.Context, id int) (json.RawMessage, error) {
	var out json.RawMessage
	endpoint := "/films/" + strconv.Itoa(id) + "/film_details/"
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FilmSessions(ctx context.Context, id int) (json.RawMessage, error) {
	var out json.RawMessage
	endpoint := "/films/" + strconv.Itoa(id) + "/sessions/"
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchFilms runs a title search; lang is forwarded as Accept-Language.
func (c *Client) SearchFilms(ctx context.Context, query, lang string) (json.RawMessage, error) {
	var header http.Header
	if lang != "" {
		header = http.Header{"Accept-Language": {lang}}
	}

	var out json.RawMessage
	endpoint := "/films/search/?" + url.Values{"query": {query}}.Encode()
	if err := c.doJSON(ctx, http.MethodGet, endpoint, header, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Vote rates a film for the token holder. The reply carries the new
// vote_average and vote_count.
func (c *Client) Vote(ctx context.Context, token string, id int, req request.VoteRequest) (json.RawMessage, error) {
	var out json.RawMessage
	endpoint := "/films/" + strconv.Itoa(id) + "/vote/"
	if err := c.doJSON(ctx, http.MethodPost, endpoint, authHeader("Bearer", token), req, &out, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RemoveVote(ctx context.Context, token string, id int) (json.RawMessage, error) {
	var out json.RawMessage
	endpoint := "/films/" + strconv.Itoa(id) + "/remove_vote/"
	if err := c.doJSON(ctx, http.MethodDelete, endpoint, authHeader("Bearer", token), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// DetectEmotion uploads a photo as multipart field "image".
func (c *Client) DetectEmotion(ctx context.Context, filename string, image io.Reader) ([]response.Face, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("create image part: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("copy image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL("/emotions/"), &buf)
	if err != nil {
		return nil, fmt.Errorf("build emotion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post emotions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &StatusError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	// faces ada di "result.faces" atau langsung di "faces"
	var payload struct {
		Result *struct {
			Faces []response.Face `json:"faces"`
		} `json:"result"`
		Faces []response.Face `json:"faces"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode emotions: %w", err)
	}

	if payload.Result != nil && len(payload.Result.Faces) > 0 {
		return payload.Result.Faces, nil
	}
	return payload.Faces, nil
}

// Recommend asks the AI endpoint for films matching a backend emotion name.
// This endpoint uses DRF token auth rather than Bearer.
func (c *Client) Recommend(ctx context.Context, token, emotion string, limit int) ([]response.RecommendedFilm, error) {
	query := url.Values{}
	query.Set("emotion", emotion)
	query.Set("limit", strconv.Itoa(limit))

	var out []response.RecommendedFilm
	if err := c.doJSON(ctx, http.MethodGet, "/ai/recommend/?"+query.Encode(), authHeader("Token", token), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, header http.Header, in, out any, accept ...int) error {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(endpoint), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("Upstream request failed", zap.String("method", method), zap.String("endpoint", endpoint), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	c.log.Debug("Upstream request",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if !statusIn(resp.StatusCode, accept) {
		return &StatusError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, endpoint, err)
	}
	return nil
}

func authHeader(scheme, token string) http.Header {
	return http.Header{"Authorization": {scheme + " " + token}}
}

func statusIn(code int, accept []int) bool {
	for _, a := range accept {
		if code == a {
			return true
		}
	}
	return false
}

// readDetail pulls "detail" (or "error") out of an error body.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var body struct {
		Detail any `json:"detail"`
		Error  any `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}

	for _, v := range []any{body.Detail, body.Error} {
		switch d := v.(type) {
		case string:
			if d != "" {
				return d
			}
		case []any:
			if len(d) > 0 {
				return fmt.Sprint(d[0])
			}
		}
	}
	return ""
}
