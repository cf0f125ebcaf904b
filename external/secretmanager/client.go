package secretmanager

import (
	"context"
	"encoding/base64"
	"hash/crc32"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultBaseURL = "https://secretmanager.googleapis.com"
	defaultTimeout = 5 * time.Second
)

var (
	secretRefPattern = regexp.MustCompile(`^projects/[^/\s]+/secrets/[^/\s]+/versions/[^/\s]+$`)
	crc32cTable      = crc32.MakeTable(crc32.Castagnoli)
	tracer           = otel.Tracer("fixture-sync/external/secretmanager")
)

type ClientConfig struct {
	HTTPClient  *fasthttp.Client
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
	Logger      *logging.Logger
}

// Client reads secret versions through the Secret Manager REST API.
type Client struct {
	httpClient  *fasthttp.Client
	baseURL     string
	accessToken string
	timeout     time.Duration
	logger      *logging.Logger
	now         func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "fixture-sync",
			MaxIdleConnDuration: time.Minute,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		accessToken: strings.TrimSpace(cfg.AccessToken),
		timeout:     timeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Resolve returns the payload of a fully-qualified secret version such as
// projects/p/secrets/s/versions/latest.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	ctx, span := tracer.Start(ctx, "secretmanager.Resolve",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("secret.ref", ref)),
	)
	defer span.End()

	value, err := c.resolve(ctx, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "secret access failed")
		c.logger.WarnContext(ctx, "secret access failed", "ref", ref, "error", err)
		return "", err
	}
	return value, nil
}

func (c *Client) resolve(ctx context.Context, ref string) (string, error) {
	if !secretRefPattern.MatchString(ref) {
		return "", errors.Wrapf(usecase.ErrSecretUnavailable, "malformed secret reference %q", ref)
	}
	if c.accessToken == "" {
		return "", errors.Wrap(usecase.ErrSecretUnavailable, "secret manager access token is not configured")
	}
	if err := ctx.Err(); err != nil {
		return "", errors.Mark(errors.Wrap(err, "resolve secret"), usecase.ErrSecretUnavailable)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.accessURL(ref))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	if err := c.httpClient.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		return "", errors.Mark(errors.Wrap(err, "access secret version"), usecase.ErrSecretUnavailable)
	}

	status := resp.StatusCode()
	body := resp.Body()
	if status != fasthttp.StatusOK {
		return "", errors.Wrapf(usecase.ErrSecretUnavailable, "secret manager status=%d: %s", status, describeError(body))
	}

	var decoded accessResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return "", errors.Mark(errors.Wrap(err, "decode secret payload"), usecase.ErrSecretUnavailable)
	}
	data, err := base64.StdEncoding.DecodeString(decoded.Payload.Data)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "decode secret data"), usecase.ErrSecretUnavailable)
	}
	if want := strings.TrimSpace(decoded.Payload.DataCrc32c); want != "" {
		expected, parseErr := strconv.ParseUint(want, 10, 32)
		if parseErr != nil || crc32.Checksum(data, crc32cTable) != uint32(expected) {
			return "", errors.Wrap(usecase.ErrSecretUnavailable, "secret payload checksum mismatch")
		}
	}

	return string(data), nil
}

func (c *Client) accessURL(ref string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString("/v1/")
	_, _ = buf.WriteString(ref)
	_, _ = buf.WriteString(":access")
	return buf.String()
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := c.now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

type accessResponse struct {
	Name    string `json:"name"`
	Payload struct {
		Data       string `json:"data"`
		DataCrc32c string `json:"dataCrc32c"`
	} `json:"payload"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func describeError(body []byte) string {
	var decoded errorResponse
	if err := sonic.Unmarshal(body, &decoded); err == nil && decoded.Error.Status != "" {
		return decoded.Error.Status + " " + decoded.Error.Message
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}
