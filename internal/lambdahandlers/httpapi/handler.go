// Package httpapi adapts API Gateway HTTP API events onto the REST router
package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mrled/suns/msgsvc/internal/logger"
)

// Handler forwards API Gateway v2 requests to an http.Handler
type Handler struct {
	next http.Handler
	log  *slog.Logger
}

// NewHandler wraps next, typically the gin engine from the httpapi package
func NewHandler(next http.Handler, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{next: next, log: log}
}

// Handle processes one API Gateway HTTP request
func (h *Handler) Handle(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	requestLogger := logger.WithLambda(h.log,
		os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		os.Getenv("AWS_LAMBDA_FUNCTION_VERSION"),
		request.RequestContext.RequestID)

	req, err := toHTTPRequest(ctx, request)
	if err != nil {
		requestLogger.Warn("Rejected malformed request", slog.String("error", err.Error()))
		return errorResponseV2(http.StatusBadRequest, "malformed request")
	}
	requestLogger.Debug("Incoming request",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path))

	w := newResponseWriter()
	h.next.ServeHTTP(w, req)
	return w.toResponse(), nil
}

// toHTTPRequest rebuilds the original HTTP request from the event
func toHTTPRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (*http.Request, error) {
	path := request.RawPath
	if path == "" {
		path = request.RequestContext.HTTP.Path
	}
	if path == "" {
		path = "/"
	}
	target := path
	if request.RawQueryString != "" {
		target += "?" + request.RawQueryString
	}

	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 body: %w", err)
		}
		body = decoded
	}

	req, err := http.NewRequestWithContext(ctx, request.RequestContext.HTTP.Method, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for name, value := range request.Headers {
		req.Header.Set(name, value)
	}
	if len(request.Cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(request.Cookies, "; "))
	}
	req.RemoteAddr = request.RequestContext.HTTP.SourceIP
	req.Host = request.RequestContext.DomainName
	return req, nil
}

// responseWriter buffers a response so it can be returned to API Gateway
type responseWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newResponseWriter() *responseWriter {
	return &responseWriter{header: http.Header{}}
}

func (w *responseWriter) Header() http.Header {
	return w.header
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(b)
}

func (w *responseWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *responseWriter) toResponse() events.APIGatewayV2HTTPResponse {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}

	resp := events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{},
	}
	for name, values := range w.header {
		if http.CanonicalHeaderKey(name) == "Set-Cookie" {
			resp.Cookies = append(resp.Cookies, values...)
			continue
		}
		resp.Headers[name] = strings.Join(values, ",")
	}

	if utf8.Valid(w.body.Bytes()) {
		resp.Body = w.body.String()
	} else {
		resp.Body = base64.StdEncoding.EncodeToString(w.body.Bytes())
		resp.IsBase64Encoded = true
	}
	return resp
}

// errorResponseV2 creates a standardized error response for API Gateway v2
func errorResponseV2(statusCode int, message string) (events.APIGatewayV2HTTPResponse, error) {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Body:       fmt.Sprintf(`{"error":%q}`, message),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}
