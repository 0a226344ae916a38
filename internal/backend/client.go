// Package backend talks to the execution and submission endpoints of the
// challenge server.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cutekitek/challenge-console/internal/repository/models"
	"github.com/cutekitek/challenge-console/internal/runner"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	DefaultExecutePath = "/challenges/execute/"
	DefaultSubmitPath  = "/challenges/submit/"
	DefaultTokenHeader = "X-CSRFToken"
	RequestIDHeader    = "X-Request-ID"

	// replies larger than this are cut off before decoding
	maxResponseSize = 8 << 20
)

// TokenSource yields the anti-forgery token sent with every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Config struct {
	// BaseURL is the scheme and host of the challenge server. Required.
	BaseURL string

	// ExecutePath defaults to DefaultExecutePath.
	ExecutePath string

	// SubmitPath is the prefix the challenge id is appended to.
	// Defaults to DefaultSubmitPath.
	SubmitPath string

	// TokenHeader defaults to DefaultTokenHeader.
	TokenHeader string

	// Tokens is optional; without it the header is sent empty.
	Tokens TokenSource

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

type Client struct {
	baseURL     string
	executePath string
	submitPath  string
	tokenHeader string
	tokens      TokenSource
	http        *http.Client
}

var _ runner.Runner = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}
	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		executePath: cfg.ExecutePath,
		submitPath:  cfg.SubmitPath,
		tokenHeader: cfg.TokenHeader,
		tokens:      cfg.Tokens,
		http:        cfg.HTTPClient,
	}
	if c.executePath == "" {
		c.executePath = DefaultExecutePath
	}
	if c.submitPath == "" {
		c.submitPath = DefaultSubmitPath
	}
	if c.tokenHeader == "" {
		c.tokenHeader = DefaultTokenHeader
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	return c, nil
}

// ExecuteURL is the endpoint code is run against.
func (c *Client) ExecuteURL() string {
	return c.baseURL + "/" + strings.Trim(c.executePath, "/") + "/"
}

// SubmitURL is the grading endpoint of a challenge.
func (c *Client) SubmitURL(challengeId int64) string {
	return c.baseURL + "/" + strings.Trim(c.submitPath, "/") + "/" + strconv.FormatInt(challengeId, 10) + "/"
}

func (c *Client) Execute(ctx context.Context, code string) (*models.ExecutionResponse, error) {
	resp, err := c.post(ctx, c.ExecuteURL(), models.ExecutionRequest{Code: code})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// the execution endpoint reports its own failures inside the body, so
	// the status code is not inspected
	result := new(models.ExecutionResponse)
	if err := decode(resp.Body, result); err != nil {
		return nil, &TransportError{Err: err}
	}
	return result, nil
}

func (c *Client) Submit(ctx context.Context, challengeId int64, code string) (*models.SubmissionResponse, error) {
	resp, err := c.post(ctx, c.SubmitURL(challengeId), models.SubmissionRequest{Code: code})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body models.ErrorResponse
		if err := decode(resp.Body, &body); err != nil {
			slog.Debug("unreadable error reply", "status", resp.StatusCode, "error", err)
		}
		return nil, &StatusError{Code: resp.StatusCode, Message: body.Error}
	}

	result := new(models.SubmissionResponse)
	if err := decode(resp.Body, result); err != nil {
		return nil, &TransportError{Err: err}
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, url string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	var token string
	if c.tokens != nil {
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return nil, &TransportError{Err: errors.Wrap(err, "failed to get csrf token")}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(c.tokenHeader, token)
	req.Header.Set(RequestIDHeader, requestID)
	// Django checks the referer of secure requests
	req.Header.Set("Referer", c.baseURL+"/")

	slog.Debug("sending request", "url", url, "request_id", requestID)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	slog.Debug("received reply", "url", url, "request_id", requestID, "status", resp.StatusCode)
	return resp, nil
}

func decode(r io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(r, maxResponseSize))
	if err != nil {
		return errors.Wrap(err, "failed to read reply")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "invalid reply")
	}
	return nil
}
