package generate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/jonwraymond/dailypuzzle/observe"
	"github.com/jonwraymond/dailypuzzle/resilience"
)

// Config configures a Client.
type Config struct {
	// APIKey authenticates against the endpoint. Required.
	APIKey string

	// Model is the chat model name.
	// Default: "gpt-4o-mini"
	Model string

	// BaseURL overrides the endpoint, e.g. for a compatible gateway.
	BaseURL string

	// Temperature is the sampling temperature.
	// Default: 0.9
	Temperature float64

	// Timeout bounds each call.
	// Default: 30 seconds
	Timeout time.Duration

	// WordCount is the number of words requested.
	// Default: DefaultWordCount
	WordCount int

	// MaxPerMinute caps calls per minute. Default: 6
	MaxPerMinute int

	// BreakerFailures is the number of consecutive failures that opens the
	// circuit. Default: 3
	BreakerFailures int

	// BreakerCoolDown is how long the circuit stays open.
	// Default: 1 minute
	BreakerCoolDown time.Duration

	// HTTPClient is used for requests. Default: http.DefaultClient
	HTTPClient *http.Client

	// Logger receives circuit state changes. Default: no-op
	Logger observe.Logger
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.9
	}
	if c.Timeout <= 0 {
		c.Timeout = resilience.DefaultTimeout
	}
	if c.WordCount <= 0 {
		c.WordCount = DefaultWordCount
	}
	if c.Logger == nil {
		c.Logger = observe.NopLogger()
	}
}

// Client requests puzzles from a chat completion endpoint.
type Client struct {
	api      openai.Client
	params   openai.ChatCompletionNewParams
	executor *resilience.Executor
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	cfg.applyDefaults()

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	logger := cfg.Logger.With(observe.F("component", "generate"))
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		MaxFailures: cfg.BreakerFailures,
		CoolDown:    cfg.BreakerCoolDown,
		OnStateChange: func(from, to resilience.State) {
			logger.Warn(context.Background(), "generator circuit changed state",
				observe.F("from", from.String()), observe.F("to", to.String()))
		},
	})

	return &Client{
		api: openai.NewClient(opts...),
		params: openai.ChatCompletionNewParams{
			Model: openai.ChatModel(cfg.Model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(systemPrompt),
				openai.UserMessage(userPrompt(cfg.WordCount)),
			},
			Temperature: openai.Float(cfg.Temperature),
		},
		executor: resilience.NewExecutor(
			resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
				Limit: cfg.MaxPerMinute,
				Per:   time.Minute,
			})),
			resilience.WithCircuitBreaker(breaker),
			resilience.WithTimeout(cfg.Timeout),
		),
	}, nil
}

// Generate returns the text of the first choice, verbatim.
// Every failure wraps ErrGenerationUnavailable.
func (c *Client) Generate(ctx context.Context) (string, error) {
	var raw string
	err := c.executor.Execute(ctx, func(ctx context.Context) error {
		resp, err := c.api.Chat.Completions.New(ctx, c.params)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return ErrEmptyResponse
		}
		raw = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}
	return raw, nil
}

// Breaker exposes the circuit breaker for health reporting.
func (c *Client) Breaker() *resilience.CircuitBreaker {
	return c.executor.CircuitBreaker()
}
