// Package pointsink publishes award ledgers to the external points
// collaborator over HTTP.
package pointsink

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/award"
	"github.com/LochanPS/Matchify.pro-sub003/internal/platform/logging"
	"github.com/LochanPS/Matchify.pro-sub003/internal/platform/resilience"
)

var errPointSinkTransient = crerr.New("point sink transient failure")

type Config struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client implements award.Sink against the points service HTTP API.
type Client struct {
	client         *http.Client
	baseURL        string
	apiKey         string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg Config, logger *logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type awardLinePayload struct {
	PlayerID  string `json:"playerId"`
	Placement string `json:"placement"`
	Points    int    `json:"points"`
}

type awardPayload struct {
	TournamentID string             `json:"tournamentId"`
	CategoryID   string             `json:"categoryId"`
	AwardedAt    string             `json:"awardedAtUtc"`
	Lines        []awardLinePayload `json:"lines"`
}

// Publish delivers one category's award ledger. Transport failures and
// retryable statuses count against the circuit breaker; rejections with
// a non-retryable status do not.
func (c *Client) Publish(ctx context.Context, entry award.LedgerEntry) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "point sink circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("point sink is temporarily unavailable: %w", err)
		}
	}

	baseURL, err := validateHTTPBaseURL(c.baseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid POINT_SINK_BASE_URL")
	}
	publishURL := baseURL + "/v1/points/award"

	body, err := sonic.Marshal(toAwardPayload(entry))
	if err != nil {
		return crerr.Wrap(err, "marshal award payload")
	}
	bodyText := truncateForLog(string(body), 4096)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("pointsink.publish_url", publishURL),
			attribute.String("pointsink.request_body", bodyText),
			attribute.String("pointsink.request_curl_preview", buildCurlPreview(publishURL, bodyText, c.apiKey != "")),
		)
	}
	c.logger.InfoContext(ctx, "point sink publish request",
		"publish_url", publishURL,
		"tournament_id", entry.TournamentID,
		"category_id", entry.CategoryID,
		"line_count", len(entry.Lines),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create point sink request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: publish award publish_url=%s: %v", errPointSinkTransient, publishURL, err)
		c.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isRetryableStatus(resp.StatusCode) {
			callErr := fmt.Errorf(
				"%w: publish award status=%d publish_url=%s body=%s",
				errPointSinkTransient,
				resp.StatusCode,
				publishURL,
				strings.TrimSpace(string(raw)),
			)
			c.recordCircuitResult(callErr)
			return callErr
		}

		callErr := fmt.Errorf(
			"publish award status=%d publish_url=%s body=%s",
			resp.StatusCode,
			publishURL,
			strings.TrimSpace(string(raw)),
		)
		c.recordCircuitResult(callErr)
		return callErr
	}

	c.logger.InfoContext(ctx, "award published to point sink",
		"tournament_id", entry.TournamentID,
		"category_id", entry.CategoryID,
	)
	c.recordCircuitResult(nil)
	return nil
}

func toAwardPayload(entry award.LedgerEntry) awardPayload {
	lines := make([]awardLinePayload, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		lines = append(lines, awardLinePayload{
			PlayerID:  line.PlayerID,
			Placement: line.Placement,
			Points:    line.Points,
		})
	}

	return awardPayload{
		TournamentID: entry.TournamentID,
		CategoryID:   entry.CategoryID,
		AwardedAt:    entry.AwardedAt.UTC().Format(time.RFC3339),
		Lines:        lines,
	}
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildCurlPreview(publishURL string, body string, withAuth bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(publishURL))
	if withAuth {
		appendPart("-H")
		appendPart(shellQuote("Authorization: Bearer ***"))
	}
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errPointSinkTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
