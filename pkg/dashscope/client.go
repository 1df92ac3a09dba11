// Package dashscope performs text-generation completions against a
// DashScope-compatible endpoint and normalizes the loosely versioned
// response shapes into plain completion text.
package dashscope

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/annotate-cli/internal/extract"
	"github.com/sells-group/annotate-cli/internal/prompt"
	"github.com/sells-group/annotate-cli/internal/resilience"
)

const (
	defaultBaseURL     = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	defaultModel       = "qwen-plus"
	defaultMaxTokens   = 4000
	defaultTemperature = 0.1
)

// Client annotates source text via the remote model.
type Client interface {
	// Complete sends source text for annotation and returns the extracted
	// annotated code. Exactly one outbound call per invocation; the caller
	// owns any retry policy.
	Complete(ctx context.Context, source, label string) (string, error)
}

// completionRequest is the request body for POST /chat/completions.
type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *httpClient) {
		c.model = model
	}
}

// WithMaxTokens overrides the output-token cap.
func WithMaxTokens(n int) Option {
	return func(c *httpClient) {
		c.maxTokens = n
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithDebug enables dumping the raw response body to the log before shape
// resolution. Observability only; results are unaffected.
func WithDebug(debug bool) Option {
	return func(c *httpClient) {
		c.debug = debug
	}
}

type httpClient struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	debug     bool
	http      *http.Client
}

// NewClient creates a completion client. The apiKey may be empty; Complete
// reports ErrMissingAPIKey before attempting any network I/O.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:    apiKey,
		baseURL:   defaultBaseURL,
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
		http: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Complete(ctx context.Context, source, label string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    []message{{Role: "user", Content: prompt.Build(source, label)}},
		Temperature: defaultTemperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", eris.Wrap(err, "dashscope: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "dashscope: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", eris.Wrap(err, "dashscope: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "dashscope: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return "", resilience.NewTransientError(serr, resp.StatusCode)
		}
		return "", serr
	}

	if c.debug {
		zap.L().Info("raw model response", zap.ByteString("body", respBody))
	}

	var parsed map[string]any
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &ShapeError{Dump: truncate(string(respBody), dumpLimit)}
	}

	text, err := resolveText(parsed)
	if err != nil {
		return "", err
	}

	code := extract.Code(text, label)
	if code == "" {
		return "", ErrEmptyCompletion
	}
	return code, nil
}
