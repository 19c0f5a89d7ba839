// Package facadeapi 提供 ledger facade 的 HTTP/JSON 与 gRPC 接口。
package facadeapi

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aegis-sign/ledger-facade/internal/platform/ratelimiter"
	"github.com/aegis-sign/ledger-facade/pkg/apierrors"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求方可自带，缺省时由服务端生成。
	RequestIDHeader = "X-Request-Id"

	defaultMaxBodyBytes int64 = 2 << 20
	outcomeOK               = "ok"
)

// HTTPHandler 实现 `/keypair` `/token/*` `/message/*` `/send/*` HTTP/JSON 接口。
type HTTPHandler struct {
	backend      Backend
	logger       *slog.Logger
	metrics      *Metrics
	limiter      *ratelimiter.ClientLimiter
	maxBodyBytes int64
	now          func() time.Time
}

// HTTPOption 调整 HTTPHandler 的可选依赖。
type HTTPOption func(*HTTPHandler)

func WithLogger(l *slog.Logger) HTTPOption {
	return func(h *HTTPHandler) {
		if l != nil {
			h.logger = l
		}
	}
}

func WithMetrics(m *Metrics) HTTPOption {
	return func(h *HTTPHandler) { h.metrics = m }
}

// WithRateLimiter 按客户端 IP 限流；nil 表示不限流。
func WithRateLimiter(l *ratelimiter.ClientLimiter) HTTPOption {
	return func(h *HTTPHandler) { h.limiter = l }
}

func WithMaxBodyBytes(n int64) HTTPOption {
	return func(h *HTTPHandler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// NewHTTPHandler 构造 HTTP handler。
func NewHTTPHandler(backend Backend, opts ...HTTPOption) *HTTPHandler {
	if backend == nil {
		panic("facade backend is required")
	}
	h := &HTTPHandler{
		backend:      backend,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxBodyBytes: defaultMaxBodyBytes,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register 将全部接口注册到 mux。
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	for _, ep := range endpoints {
		mux.Handle(ep.path, h.serve(ep))
	}
}

// serve 负责方法校验、限流、请求体读取、panic 兜底、指标与访问日志。
func (h *HTTPHandler) serve(ep endpoint) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := h.now()
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		status, outcome := http.StatusOK, outcomeOK
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("handler panic recovered", "endpoint", ep.label, "request_id", requestID, "panic", rec)
				apiErr := apierrors.Internal()
				status, outcome = h.writeAPIError(w, apiErr), string(apiErr.Code)
			}
			elapsed := h.now().Sub(start)
			h.metrics.observeHTTP(ep.label, outcome, elapsed)
			h.logger.Info("request handled",
				"endpoint", ep.label,
				"request_id", requestID,
				"status", status,
				"outcome", outcome,
				"duration_ms", elapsed.Milliseconds(),
				"remote_addr", clientIP(r),
			)
		}()

		payload, err := h.dispatch(w, r, ep)
		if err != nil {
			apiErr := toAPIError(err)
			status, outcome = h.writeAPIError(w, apiErr), string(apiErr.Code)
			return
		}
		writeJSON(w, http.StatusOK, successEnvelope(payload))
	})
}

func (h *HTTPHandler) dispatch(w http.ResponseWriter, r *http.Request, ep endpoint) (any, error) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		return nil, apierrors.MethodNotAllowed()
	}
	if ok, wait := h.limiter.Allow(clientIP(r), h.now()); !ok {
		return nil, apierrors.RateLimited().WithRetryAfter(wait)
	}
	body, err := h.readBody(w, r)
	if err != nil {
		return nil, err
	}
	return ep.handle(h.backend, body)
}

// readBody 读取受 maxBodyBytes 约束的请求体，超限与读取失败都视为字段缺失。
func (h *HTTPHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("request body too large", "limit", tooLarge.Limit)
		}
		return nil, apierrors.MissingFields()
	}
	return body, nil
}

func (h *HTTPHandler) writeAPIError(w http.ResponseWriter, apiErr *apierrors.Error) int {
	status := apierrors.HTTPStatus(apiErr.Code)
	if apierrors.RequiresRetryAfter(apiErr.Code) {
		if hint := apiErr.RetryAfterHint(); hint != "" {
			w.Header().Set("Retry-After", hint)
		}
	}
	writeJSON(w, status, errorEnvelope(apiErr))
	return status
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
