package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/GymSync/internal/infrastructure/config"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/logging"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/tracing"
)

const (
	retryWaitMin = 200 * time.Millisecond
	retryWaitMax = 2 * time.Second
	userAgent    = "GymSync/1.0"
)

// Call outcomes recorded in metrics
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport_error"
)

// Client talks to the remote gym service
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// Option customizes a Client
type Option func(*clientOptions)

type clientOptions struct {
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	breaker  *resilience.Settings
	http     *http.Client
	noLimits bool
}

// WithLogger sets the client logger
func WithLogger(logger *logging.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithMetrics records call metrics
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(o *clientOptions) { o.metrics = metrics }
}

// WithBreakerSettings replaces the default breaker settings
func WithBreakerSettings(settings resilience.Settings) Option {
	return func(o *clientOptions) { o.breaker = &settings }
}

// WithHTTPClient replaces the pooled transport, e.g. with an
// httptest.Server client
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.http = hc }
}

// WithoutRateLimit disables the client-side limiter
func WithoutRateLimit() Option {
	return func(o *clientOptions) { o.noLimits = true }
}

// NewClient creates a gateway client for cfg.URL
func NewClient(cfg config.GatewayConfig, opts ...Option) *Client {
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	logger := o.logger.Component("gateway")

	var restyClient *resty.Client
	if o.http != nil {
		restyClient = resty.NewWithClient(o.http)
	} else {
		// Pooled transport from retryablehttp; retries stay in resty so they
		// can be limited to idempotent methods.
		retryClient := retryablehttp.NewClient()
		retryClient.Logger = nil
		restyClient = resty.New()
		restyClient.SetTransport(retryClient.HTTPClient.Transport)
	}

	restyClient.
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.TransportRetries).
		SetRetryWaitTime(retryWaitMin).
		SetRetryMaxWaitTime(retryWaitMax).
		SetRetryAfter(retryAfter).
		AddRetryCondition(shouldRetry).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	limiter := rate.NewLimiter(rate.Inf, 0)
	if !o.noLimits && cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	settings := resilience.Settings{
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	if o.breaker != nil {
		settings = *o.breaker
	}
	userHook := settings.OnStateChange
	settings.OnStateChange = func(name string, from, to resilience.State) {
		logger.Warn("circuit breaker state changed",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()))
		if userHook != nil {
			userHook(name, from, to)
		}
	}

	return &Client{
		resty:   restyClient,
		limiter: limiter,
		breaker: resilience.NewBreaker("gateway", settings),
		logger:  logger,
		metrics: o.metrics,
	}
}

// BreakerState exposes the breaker state for status output
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// shouldRetry retries idempotent requests on errors that
// retryablehttp classifies as transient.
func shouldRetry(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil {
		return false
	}
	switch resp.Request.Method {
	case http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodHead:
	default:
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	retry, _ := retryablehttp.DefaultRetryPolicy(resp.Request.Context(), resp.RawResponse, err)
	return retry
}

// retryAfter honors Retry-After headers through retryablehttp's backoff.
func retryAfter(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
	attempt := 0
	if resp.Request != nil {
		attempt = resp.Request.Attempt
	}
	return retryablehttp.DefaultBackoff(retryWaitMin, retryWaitMax, attempt, resp.RawResponse), nil
}

type call struct {
	op     string
	method string
	path   string
	token  string
	params map[string]string
	body   any
	out    any
}

func (c *Client) do(ctx context.Context, cl call) error {
	timer := monitoring.NewTimer(c.metrics, cl.op)

	if err := c.limiter.Wait(ctx); err != nil {
		timer.Observe(OutcomeTransport)
		return &TransportError{Op: cl.op, Err: err}
	}

	headers := map[string]string{}
	reqID := tracing.Inject(ctx, headers)
	logger := c.logger.With(
		zap.String("op", cl.op),
		zap.String("request_id", reqID.String()),
		tracing.Field(ctx),
	)

	failure := &ErrorResponse{}
	req := c.resty.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetError(failure)
	if cl.token != "" {
		req.SetAuthToken(cl.token)
	}
	if cl.params != nil {
		req.SetPathParams(cl.params)
	}
	if cl.body != nil {
		req.SetBody(cl.body)
	}
	if cl.out != nil {
		req.SetResult(cl.out)
	}

	var resp *resty.Response
	err := c.breaker.Execute(func() error {
		r, err := req.Execute(cl.method, cl.path)
		if err != nil {
			return err
		}
		resp = r
		if r.StatusCode() >= http.StatusInternalServerError {
			return fmt.Errorf("server answered %d: %s", r.StatusCode(), messageOf(r, failure))
		}
		return nil
	})
	if err != nil {
		timer.Observe(OutcomeTransport)
		logger.Warn("gateway call failed", zap.Error(err))
		return &TransportError{Op: cl.op, Err: err}
	}

	if resp.IsError() {
		timer.Observe(OutcomeRejected)
		rej := &Rejection{Op: cl.op, Status: resp.StatusCode(), Message: messageOf(resp, failure)}
		logger.Info("gateway call rejected",
			zap.Int("status", rej.Status),
			zap.String("message", rej.Message))
		return rej
	}

	timer.Observe(OutcomeSuccess)
	logger.Debug("gateway call succeeded",
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", resp.Time()))
	return nil
}

func messageOf(resp *resty.Response, failure *ErrorResponse) string {
	if failure != nil && failure.Message != "" {
		return failure.Message
	}
	if text := http.StatusText(resp.StatusCode()); text != "" {
		return text
	}
	return resp.Status()
}
