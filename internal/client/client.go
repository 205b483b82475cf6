// Package client is the single call surface presentation code uses to
// record and read level progress over HTTP. Calls never return errors:
// every failure resolves to a Result with a Kind to branch on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mento-app/mento-server/internal/coerce"
	"github.com/mento-app/mento-server/internal/logger"
	"github.com/mento-app/mento-server/internal/model"
)

const defaultTimeout = 10 * time.Second

// Client talks to a mento-server instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	logger     *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a Client for the server at baseURL.
func New(baseURL string, logger *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Field   string `json:"field"`
}

// CompleteLevel marks a level of an island as completed. userID may be a
// string or a number; island may be an id or a name.
func (c *Client) CompleteLevel(ctx context.Context, userID, island, level any) Result {
	uid, islandID, res := c.normalize(userID, island)
	if !res.Success() {
		return res
	}
	lvl, err := coerce.PositiveID(level)
	if err != nil {
		return validation("levelNumber", err)
	}

	var out envelope
	return c.post(ctx, "/api/progress/complete", map[string]int64{
		"userId":      uid,
		"islandId":    islandID,
		"levelNumber": lvl,
	}, &out)
}

// IslandProgress returns completed levels and the unlock frontier.
func (c *Client) IslandProgress(ctx context.Context, userID, island any) ProgressResult {
	uid, islandID, res := c.normalize(userID, island)
	if !res.Success() {
		return ProgressResult{Result: res}
	}

	var out struct {
		envelope
		CompletedLevels []int `json:"completedLevels"`
		NextUnlocked    int   `json:"nextUnlocked"`
	}
	res = c.post(ctx, "/api/progress/island", map[string]int64{
		"userId":   uid,
		"islandId": islandID,
	}, &out)
	if !res.Success() {
		return ProgressResult{Result: res}
	}
	return ProgressResult{
		Result:          res,
		CompletedLevels: out.CompletedLevels,
		NextUnlocked:    out.NextUnlocked,
	}
}

// CurrentLevel returns the coarse progress pointer, creating it on first use.
func (c *Client) CurrentLevel(ctx context.Context, userID any) LevelResult {
	return c.pointer(ctx, "/api/progress/current", userID)
}

// ResetProgress moves the coarse pointer back to level 1.
func (c *Client) ResetProgress(ctx context.Context, userID any) LevelResult {
	return c.pointer(ctx, "/api/progress/reset", userID)
}

func (c *Client) pointer(ctx context.Context, path string, userID any) LevelResult {
	uid, err := coerce.PositiveID(userID)
	if err != nil {
		return LevelResult{Result: validation("userId", err)}
	}

	var out struct {
		envelope
		CurrentLevel int    `json:"currentLevel"`
		IslandID     *int64 `json:"islandId"`
	}
	res := c.post(ctx, path, map[string]int64{"userId": uid}, &out)
	if !res.Success() {
		return LevelResult{Result: res}
	}
	return LevelResult{Result: res, CurrentLevel: out.CurrentLevel, IslandID: out.IslandID}
}

func (c *Client) normalize(userID, island any) (int64, int64, Result) {
	uid, err := coerce.PositiveID(userID)
	if err != nil {
		return 0, 0, validation("userId", err)
	}
	islandID, err := islandValue(island)
	if err != nil {
		return 0, 0, validation("islandId", err)
	}
	return uid, islandID, ok()
}

func islandValue(v any) (int64, error) {
	switch i := v.(type) {
	case model.Island:
		if !i.Valid() {
			return 0, coerce.ErrInvalid
		}
		return int64(i), nil
	case string:
		island, err := model.ParseIsland(i)
		if err != nil {
			return 0, err
		}
		return int64(island), nil
	}
	n, err := coerce.PositiveID(v)
	if err != nil {
		return 0, err
	}
	if !model.Island(n).Valid() {
		return 0, fmt.Errorf("unknown island %d", n)
	}
	return n, nil
}

func validation(field string, err error) Result {
	msg := field + " is invalid"
	if errors.Is(err, coerce.ErrMissing) {
		msg = field + " is required"
	}
	return Result{Kind: KindValidation, Message: msg, Field: field}
}

// post sends body as JSON and decodes the response into out, which must
// embed envelope.
func (c *Client) post(ctx context.Context, path string, body any, out interface{ env() *envelope }) Result {
	payload, err := json.Marshal(body)
	if err != nil {
		return failure(KindInternal, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return failure(KindInternal, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Progress client: request failed",
			"path", path,
			"error", err.Error())
		return failure(KindTransport, transportMessage(err))
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("Progress client: unreadable response",
			"path", path,
			"status", resp.StatusCode,
			"error", err.Error())
		if resp.StatusCode >= http.StatusInternalServerError {
			return failure(KindInternal, http.StatusText(resp.StatusCode))
		}
		return failure(KindTransport, "unexpected response from server")
	}

	env := out.env()
	kind := kindForStatus(resp.StatusCode)
	if kind == KindOK && !env.Success {
		kind = KindInternal
	}
	if kind == KindOK {
		return ok()
	}
	c.logger.Debug("Progress client: call rejected",
		"path", path,
		"status", resp.StatusCode,
		"code", env.Code)
	return Result{Kind: kind, Message: env.Message, Code: env.Code, Field: env.Field}
}

func (e *envelope) env() *envelope { return e }

func transportMessage(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return "connection error: request timed out"
	}
	return "connection error: service unreachable"
}
