package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	stdhttputil "net/http/httputil"
	"net/url"
	"strings"
	"time"

	authDomain "github.com/allisson/genproxy/internal/auth/domain"
)

// Response header rewritten on every forwarded response.
const headerAllowOrigin = "Access-Control-Allow-Origin"

// strippedHeaders never reach the upstream.
var strippedHeaders = []string{
	authDomain.HeaderSignature,
	authDomain.HeaderTimestamp,
	authDomain.HeaderNonce,
	authDomain.HeaderAdminPass,
}

// ReverseProxyConfig configures the generic forwarding mode.
type ReverseProxyConfig struct {
	// Target is the upstream base URL. Request paths are appended to its path.
	Target *url.URL
	// AuthHeader is the upstream header receiving the active credential.
	AuthHeader string
	// Ceiling bounds every upstream round trip and is advertised as the keep-alive timeout.
	Ceiling time.Duration
	// Transport performs the upstream round trips.
	Transport http.RoundTripper
}

// ReverseProxy forwards raw requests to the upstream with the active credential injected.
type ReverseProxy struct {
	proxy       *stdhttputil.ReverseProxy
	credentials CredentialSource
	errors      ErrorWriter
	ceiling     time.Duration
	logger      *slog.Logger
}

// NewReverseProxy creates the generic forwarding engine.
func NewReverseProxy(
	cfg ReverseProxyConfig,
	credentials CredentialSource,
	errorWriter ErrorWriter,
	logger *slog.Logger,
) *ReverseProxy {
	p := &ReverseProxy{
		credentials: credentials,
		errors:      errorWriter,
		ceiling:     cfg.Ceiling,
		logger:      logger,
	}

	keepAlive := fmt.Sprintf("timeout=%d", int(cfg.Ceiling.Seconds()))

	p.proxy = &stdhttputil.ReverseProxy{
		Rewrite: func(pr *stdhttputil.ProxyRequest) {
			pr.SetURL(cfg.Target)
			pr.SetXForwarded()

			for _, header := range strippedHeaders {
				pr.Out.Header.Del(header)
			}

			index, credential := p.credentials.Active()
			pr.Out.Header.Set(cfg.AuthHeader, credential.Reveal())
			pr.Out.Header.Set("Connection", "keep-alive")
			pr.Out.Header.Set("Keep-Alive", keepAlive)

			p.logger.DebugContext(pr.In.Context(), "forwarding request",
				slog.String("method", pr.In.Method),
				slog.String("path", pr.In.URL.Path),
				slog.Int("credential_index", index),
			)
		},
		Transport:     cfg.Transport,
		FlushInterval: -1,
		ModifyResponse: func(resp *http.Response) error {
			resp.Header.Set(headerAllowOrigin, "*")
			if resp.StatusCode >= http.StatusBadRequest {
				p.logger.WarnContext(resp.Request.Context(), "upstream returned error status",
					slog.Int("status_code", resp.StatusCode),
					slog.String("path", resp.Request.URL.Path),
				)
			}
			return nil
		},
		ErrorHandler: p.handleError,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return p
}

// ServeHTTP forwards the request. The upstream call is bounded by the ceiling and
// abandoned when the client disconnects.
func (p *ReverseProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), p.ceiling)
	defer cancel()

	// The upstream value replaces ours.
	w.Header().Del(headerAllowOrigin)

	p.proxy.ServeHTTP(w, r.WithContext(ctx))
}

func (p *ReverseProxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	classified := ClassifyTransportError(r.Context(), err)

	if errors.Is(classified, context.Canceled) {
		p.logger.InfoContext(r.Context(), "client disconnected before upstream response",
			slog.String("path", r.URL.Path),
		)
		return
	}

	p.logger.ErrorContext(r.Context(), "upstream round trip failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("cause", redactTarget(err)),
	)

	w.Header().Set(headerAllowOrigin, "*")
	p.errors.WriteError(w, r, classified)
}

// redactTarget drops the query string of url.Error messages, which may carry credentials.
func redactTarget(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if i := strings.IndexByte(urlErr.URL, '?'); i >= 0 {
			return fmt.Sprintf("%s %q: %v", urlErr.Op, urlErr.URL[:i], urlErr.Err)
		}
	}
	return err.Error()
}
