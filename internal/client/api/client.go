package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/rulekeeper/internal/metrics"
	"github.com/iudanet/rulekeeper/pkg/api"
)

//go:generate moq -out getter_mock.go . Getter

// Getter performs GET requests against the metadata server.
// path is relative to the server base URL and may carry a query string.
type Getter interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// defaultMaxResponseSize ограничивает размер тела ответа
const defaultMaxResponseSize = 64 << 20

// Client представляет HTTP клиент сервера метаданных
type Client struct {
	httpClient   *http.Client
	logger       *slog.Logger
	metrics      *metrics.Metrics
	baseURL      string
	token        string
	organization string
	maxBody      int64
}

var _ Getter = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithToken sets the bearer token sent with every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithOrganization sets the organization used to scope searches
func WithOrganization(org string) Option {
	return func(c *Client) { c.organization = org }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxResponseSize sets the largest accepted response body in bytes
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) { c.maxBody = n }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics enables request metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient создает новый API клиент
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		logger:  slog.Default(),
		maxBody: defaultMaxResponseSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Organization returns the configured organization, empty if none
func (c *Client) Organization() string {
	return c.organization
}

// BaseURL returns the server base URL with a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get выполняет GET запрос и возвращает тело ответа.
// Ошибки сети и не-2xx статусы оборачивают ErrTransport.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	started := time.Now()
	status, body, err := c.do(ctx, path)
	c.metrics.ObserveRequest(endpointOf(path), status, time.Since(started))
	if err != nil {
		c.logger.Debug("Request failed", "path", path, "status", status, "error", err)
		return nil, err
	}
	c.logger.Debug("Request done", "path", path, "status", status, "duration_ms", time.Since(started).Milliseconds())
	return body, nil
}

func (c *Client) do(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+strings.TrimLeft(path, "/"), nil)
	if err != nil {
		return 0, nil, transportError(path, 0, "", fmt.Errorf("failed to create request: %w", err))
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, transportError(path, 0, "", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return resp.StatusCode, nil, transportError(path, resp.StatusCode, "", fmt.Errorf("failed to read response body: %w", err))
	}
	if int64(len(body)) > c.maxBody {
		return resp.StatusCode, nil, transportError(path, resp.StatusCode, "",
			fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, c.maxBody))
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		message := ""
		if err := json.Unmarshal(body, &errResp); err == nil {
			message = errResp.Message()
		}
		return resp.StatusCode, nil, transportError(path, resp.StatusCode, message, nil)
	}

	return resp.StatusCode, body, nil
}

// GetJSON выполняет GET и декодирует JSON ответ в result
func GetJSON(ctx context.Context, getter Getter, path string, result any) error {
	body, err := getter.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return DecodeError(path, err)
	}
	return nil
}

// endpointOf returns the path without query, used as a metric label
func endpointOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return strings.TrimLeft(path, "/")
}

// AppendQuery appends key=value to path, escaping the value
func AppendQuery(path, key, value string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + key + "=" + url.QueryEscape(value)
}
