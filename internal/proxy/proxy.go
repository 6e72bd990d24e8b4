// Package proxy relays /api/microservice requests to the internal AI microservice.
package proxy

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/villagestay/villagestay/pkg/logger"
)

const (
	// Prefix is the public mount point that is stripped before forwarding.
	Prefix = "/api/microservice"

	HeaderInternalProxy = "X-Internal-Proxy"

	maxErrorDetail = 2048
)

var hopByHopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// ErrorResponse is written with status 502 when the upstream is unreachable or fails.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

type Proxy struct {
	target string
	secret string
	client *http.Client
}

// New creates a proxy to target, which must not end in a slash.
func New(target, secret string, timeout time.Duration) *Proxy {
	return &Proxy{
		target: strings.TrimRight(target, "/"),
		secret: secret,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Close releases idle upstream connections.
func (p *Proxy) Close() {
	p.client.CloseIdleConnections()
}

// TargetURL maps an incoming path and raw query onto the upstream.
func (p *Proxy) TargetURL(path, rawQuery string) string {
	suffix := strings.TrimPrefix(path, Prefix)
	if suffix == "" {
		suffix = "/"
	}
	if !strings.HasPrefix(suffix, "/") {
		suffix = "/" + suffix
	}
	if rawQuery != "" {
		return p.target + suffix + "?" + rawQuery
	}
	return p.target + suffix
}

// Handle forwards the request and relays a 2xx response. Anything else becomes a 502.
func (p *Proxy) Handle(c echo.Context) error {
	req := c.Request()
	target := p.TargetURL(req.URL.Path, req.URL.RawQuery)

	var body io.Reader
	if req.Body != nil && req.Method != http.MethodGet && req.Method != http.MethodHead {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read request body", Detail: err.Error()})
		}
		body = bytes.NewReader(raw)
	}

	out, err := http.NewRequestWithContext(req.Context(), req.Method, target, body)
	if err != nil {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Microservice unreachable", Detail: err.Error()})
	}
	out.Header = req.Header.Clone()
	for _, h := range hopByHopHeaders {
		out.Header.Del(h)
	}
	if out.Header.Get(echo.HeaderContentType) == "" {
		out.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	out.Header.Set(HeaderInternalProxy, p.secret)

	resp, err := p.client.Do(out)
	if err != nil {
		logger.Warn("Microservice unreachable", "target", target, "error", err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Microservice unreachable", Detail: err.Error()})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorDetail))
		logger.Warn("Microservice returned an error", "target", target, "status", resp.StatusCode)
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:  fmt.Sprintf("Microservice returned status %d", resp.StatusCode),
			Detail: string(detail),
		})
	}

	contentType := resp.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Stream(resp.StatusCode, contentType, resp.Body)
}
