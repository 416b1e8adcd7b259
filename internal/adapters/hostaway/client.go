package hostaway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"flex_reviews/internal/adapters/observability"
	"flex_reviews/internal/domain"
)

// Client consumes the Hostaway-style review API. Every call is a single
// request/response round-trip: failures are surfaced to the engine, which
// degrades to stale data plus a notification. No automatic retries.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

// New builds a client. The API key is optional; when empty the auth header
// is omitted. rps bounds outbound request rate client-side.
func New(base, key string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

var _ domain.ReviewSource = (*Client)(nil)

func (c *Client) ListProperties(ctx context.Context) ([]domain.Property, error) {
	var out []domain.Property
	return out, c.get(ctx, "/properties", &out)
}

func (c *Client) GetProperty(ctx context.Context, id int64) (domain.Property, error) {
	var out domain.Property
	return out, c.get(ctx, fmt.Sprintf("/properties/%d", id), &out)
}

func (c *Client) ListPropertyStats(ctx context.Context, propertyID *int64) ([]domain.PropertyStats, error) {
	path := "/properties/stats"
	if propertyID != nil {
		path = fmt.Sprintf("/properties/%d/stats", *propertyID)
	}
	var out []domain.PropertyStats
	return out, c.get(ctx, path, &out)
}

func (c *Client) ListReviews(ctx context.Context) ([]domain.Review, error) {
	var out []domain.Review
	return out, c.get(ctx, "/reviews/hostaway", &out)
}

func (c *Client) ListPublicReviews(ctx context.Context, propertyID int64) ([]domain.Review, error) {
	var out []domain.Review
	return out, c.get(ctx, fmt.Sprintf("/reviews/public/%d", propertyID), &out)
}

func (c *Client) SetReviewVisibility(ctx context.Context, reviewID int64, visible bool) (domain.Review, error) {
	var out domain.Review
	body := map[string]bool{"isDisplayedPublicly": visible}
	return out, c.do(ctx, http.MethodPatch, fmt.Sprintf("/reviews/%d/display", reviewID), body, &out)
}

// ---- internals ----

// envelope is the API's uniform response shape.
type envelope struct {
	Status  string          `json:"status"` // success | error
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "flex-reviews/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("hostaway", path, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("hostaway", path, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return decodeEnvelope(resp.Body, out)
	case http.StatusNoContent:
		io.Copy(io.Discard, resp.Body)
		return nil
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("hostaway: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

func decodeEnvelope(r io.Reader, out any) error {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return fmt.Errorf("hostaway: decode response: %w", err)
	}
	if env.Status != "success" {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = "request rejected"
		}
		return fmt.Errorf("hostaway: %s", msg)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
