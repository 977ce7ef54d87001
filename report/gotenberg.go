// Package report converts rendered HTML documents into PDF bytes via a
// Gotenberg service.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

var (
	// ErrRenderTimeout indicates the conversion request exceeded the timeout.
	ErrRenderTimeout = errors.New("report: render timeout")
	// ErrRenderInvalidResponse indicates Gotenberg returned a non-success status.
	ErrRenderInvalidResponse = errors.New("report: invalid response")
	// ErrRenderTooSmall indicates the generated PDF was below the minimum size.
	ErrRenderTooSmall = errors.New("report: pdf below minimum size")
)

const (
	pdfMinSizeBytes   = 1024
	pdfMaxRetry       = 2
	pdfRequestTimeout = 15 * time.Second

	// A4 in inches, zero margins; page chrome lives in the document CSS.
	paperWidthA4  = "8.27"
	paperHeightA4 = "11.69"
)

// Client wraps interactions with the Gotenberg API. Conversions run behind a
// circuit breaker so a dead renderer fails fast instead of tying up request
// workers on retries.
type Client struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	retries    int
	timeout    time.Duration
	minSize    int
}

// NewClient constructs a client for the given Gotenberg endpoint.
func NewClient(endpoint string) *Client {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "gotenberg",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 3 && counts.ConsecutiveFailures >= 3
		},
	})
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: pdfRequestTimeout},
		breaker:    breaker,
		retries:    pdfMaxRetry,
		timeout:    pdfRequestTimeout,
		minSize:    pdfMinSizeBytes,
	}
}

// Ping checks if the remote Gotenberg service is available.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.endpoint == "" {
		return fmt.Errorf("report: client not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("report: gotenberg returned status %d", resp.StatusCode)
	}
	return nil
}

// RenderHTML converts a self-contained HTML document into A4 PDF bytes.
func (c *Client) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("report: client not initialised")
	}
	if c.endpoint == "" {
		return nil, fmt.Errorf("report: gotenberg endpoint required")
	}
	return c.breaker.Execute(func() ([]byte, error) {
		return c.renderWithRetry(ctx, html)
	})
}

func (c *Client) renderWithRetry(ctx context.Context, html string) ([]byte, error) {
	payload, contentType, err := buildForm(html)
	if err != nil {
		return nil, err
	}
	attempts := c.retries + 1
	var lastErr error
	for i := 0; i < attempts; i++ {
		attemptCtx := ctx
		var cancel context.CancelFunc
		if c.timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
		}
		data, retryable, err := c.attempt(attemptCtx, payload, contentType)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return data, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%w: exhausted attempts", ErrRenderInvalidResponse)
	}
	return nil, fmt.Errorf("report: render failed after %d attempts: %w", attempts, lastErr)
}

func (c *Client) attempt(ctx context.Context, payload []byte, contentType string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/forms/chromium/convert/html", bytes.NewReader(payload))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, classifyNetError(err)
	}
	data, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, true, fmt.Errorf("%w: status %d", ErrRenderInvalidResponse, resp.StatusCode)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, false, fmt.Errorf("%w: status %d", ErrRenderInvalidResponse, resp.StatusCode)
	}
	if readErr != nil {
		return nil, true, readErr
	}
	if len(data) < c.minSize {
		return nil, true, ErrRenderTooSmall
	}
	return data, false, nil
}

func buildForm(html string) ([]byte, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, "", err
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, "", err
	}
	fields := map[string]string{
		"paperWidth":   paperWidthA4,
		"paperHeight":  paperHeightA4,
		"marginTop":    "0",
		"marginBottom": "0",
		"marginLeft":   "0",
		"marginRight":  "0",
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body.Bytes(), writer.FormDataContentType(), nil
}

func classifyNetError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrRenderTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrRenderTimeout
	}
	return err
}

// IsUnavailable reports whether the error means the renderer is refusing work.
func IsUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
