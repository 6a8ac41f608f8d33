package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nerrad567/gray-logic-scanner/internal/cards"
)

const (
	// defaultTimeout bounds one notification when Options.Timeout is zero.
	defaultTimeout = 10 * time.Second

	// maxBodyBytes caps how much of a response body is kept for logging.
	maxBodyBytes = 64 * 1024
)

// Outcome classifies the game service's answer to one scan notification.
type Outcome string

// Notification outcomes.
const (
	OutcomeAccepted       Outcome = "accepted"        // 200
	OutcomeRejected       Outcome = "rejected"        // 400, body explains why
	OutcomeInvalidURL     Outcome = "invalid_url"     // 404, unknown game
	OutcomeUnexpected     Outcome = "unexpected"      // any other status
	OutcomeTransportError Outcome = "transport_error" // no response at all
)

// Result describes one completed notification attempt.
type Result struct {
	Outcome    Outcome
	StatusCode int // 0 for transport errors
	Body       string
	Latency    time.Duration
}

// Logger is the subset of *logging.Logger used by the notifier.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Options configures a Client.
type Options struct {
	// Endpoint is the full scan URL, {base}/api/scanner/{game}/scan.
	Endpoint string

	// Timeout bounds each POST. Default: 10 seconds.
	Timeout time.Duration

	// HTTPClient overrides the client built from Timeout. Optional.
	HTTPClient *http.Client

	// Logger is optional.
	Logger Logger
}

// Client posts card state changes to the game service.
//
// Each Notify call is one POST with no retry. Callers serialise calls; the
// client itself holds no per-request state and is safe for concurrent use.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     Logger
}

// New creates a notification client.
//
// Parameters:
//   - opts: Endpoint is required, everything else has a default
//
// Returns:
//   - *Client: Ready to use
//   - error: ErrNoEndpoint if opts.Endpoint is empty
func New(opts Options) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, ErrNoEndpoint
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		endpoint:   opts.Endpoint,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// Endpoint returns the URL notifications are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Notify sends {"suit": ..., "rank": ...} for state and classifies the reply.
//
// Every HTTP status is a valid Result, including 4xx and 5xx; the error
// return is reserved for requests that got no response and wraps
// ErrRequestFailed. In that case Result.Outcome is OutcomeTransportError.
// All outcomes are logged here so callers only need to record them.
func (c *Client) Notify(ctx context.Context, state cards.CardState) (Result, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return Result{Outcome: OutcomeTransportError}, fmt.Errorf("%w: encoding body: %w", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		c.logError("Error sending POST request", err)
		return Result{Outcome: OutcomeTransportError}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		result := Result{Outcome: OutcomeTransportError, Latency: time.Since(start)}
		c.logError("Error sending POST request", err)
		return result, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	// Drain the remainder to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	result := Result{
		Outcome:    Classify(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Body:       string(body),
		Latency:    time.Since(start),
	}

	switch result.Outcome {
	case OutcomeAccepted:
		c.log(func(l Logger) { l.Info("Sent successfully", "status", resp.StatusCode, "latency", result.Latency) })
	case OutcomeRejected:
		c.log(func(l Logger) { l.Warn(result.Body, "status", resp.StatusCode) })
	case OutcomeInvalidURL:
		c.log(func(l Logger) { l.Error("Invalid URL", "status", resp.StatusCode, "url", c.endpoint) })
	default:
		c.log(func(l Logger) { l.Warn("unexpected response status", "status", resp.StatusCode, "body", result.Body) })
	}

	return result, nil
}

// Classify maps an HTTP status code to an Outcome.
func Classify(status int) Outcome {
	switch status {
	case http.StatusOK:
		return OutcomeAccepted
	case http.StatusBadRequest:
		return OutcomeRejected
	case http.StatusNotFound:
		return OutcomeInvalidURL
	default:
		return OutcomeUnexpected
	}
}

func (c *Client) log(fn func(Logger)) {
	if c.logger != nil {
		fn(c.logger)
	}
}

func (c *Client) logError(msg string, err error) {
	if c.logger != nil {
		c.logger.Error(msg, "error", err, "url", c.endpoint)
	}
}
