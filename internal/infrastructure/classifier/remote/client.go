// Package remote is the language-model classification backend: one
// single-purpose prompt per document asking for a short subject label.
// Calls are rate limited, retried through the resilience executor and
// bounded by a per-call timeout so a slow backend cannot stall a batch.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kirillkom/docsight/internal/core/domain"
	"github.com/kirillkom/docsight/internal/infrastructure/resilience"
)

type Options struct {
	CallTimeout       time.Duration
	RequestsPerSecond float64
	Executor          *resilience.Executor
}

type Client struct {
	baseURL     string
	model       string
	httpClient  *http.Client
	executor    *resilience.Executor
	limiter     *rate.Limiter
	callTimeout time.Duration
}

func New(baseURL, model string, options Options) *Client {
	callTimeout := options.CallTimeout
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	var limiter *rate.Limiter
	if options.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(options.RequestsPerSecond), 1)
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		httpClient:  &http.Client{Timeout: callTimeout},
		executor:    options.Executor,
		limiter:     limiter,
		callTimeout: callTimeout,
	}
}

func (c *Client) ClassifyText(ctx context.Context, text string) (domain.Classification, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.Classification{}, fmt.Errorf("rate limiter: %w", err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var raw string
	call := func(callCtx context.Context) error {
		response, err := c.generate(callCtx, buildClassificationPrompt(text))
		if err != nil {
			return err
		}
		raw = response
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Do(callCtx, "classifier.remote", call, classifyRemoteError)
	} else {
		err = call(callCtx)
	}
	if err != nil {
		return domain.Classification{}, wrapTemporaryIfNeeded("classify text", err)
	}

	category := ParseCategory(raw)
	if category == "" {
		return domain.Classification{}, fmt.Errorf("empty category in backend reply %q", raw)
	}
	// The backend reports no confidence of its own.
	return domain.Classification{Category: category, Confidence: 0.8}, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	request := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
	}
	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", request, &response); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

// ParseCategory tolerates chatty replies: the first line wins and trailing
// punctuation or quoting is stripped.
func ParseCategory(raw string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(raw), "\n")
	return strings.Trim(strings.TrimSpace(line), ".,!?;:\"'`")
}
