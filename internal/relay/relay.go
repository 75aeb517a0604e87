// Package relay exposes the HTTP surface: a generic reverse proxy restricted
// to an allow-listed set of upstream hosts, and an /api/sync endpoint that
// runs the extraction engine behind a short-lived cache.
//
// The proxy never interprets upstream bodies; it forwards status, content
// type and payload as-is, adding only the request headers individual
// upstreams insist on.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/blgtrack/vlrsync/internal/match"
	"github.com/blgtrack/vlrsync/internal/scraper"
	"github.com/blgtrack/vlrsync/internal/sync"
)

const (
	upstreamTimeout = 15 * time.Second
	proxyCacheTTL   = 60 * time.Second
	syncCacheTTL    = 300 * time.Second
)

// allowedHosts are the upstream domains the proxy will forward to, matched
// by hostname suffix.
var allowedHosts = []string{
	"vlr.orlandomm.net",
	"vlrggapi.vercel.app",
	"api.bilibili.com",
	"liquipedia.net",
	"esports-api.service.valorantesports.com",
	"valorant.fandom.com",
}

var requestsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vlrsync",
	Subsystem: "relay",
	Name:      "requests_total",
	Help:      "Relay requests by upstream host and disposition",
}, []string{"host", "disposition"})

// Syncer runs extraction; satisfied by *sync.Runner and faked in tests.
type Syncer interface {
	Run(ctx context.Context, opts sync.Options) (*match.Outcome, error)
}

// cachedResponse is a proxied upstream response held for proxyCacheTTL.
type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// Server is the relay HTTP server.
type Server struct {
	addr       string
	logger     zerolog.Logger
	syncer     Syncer
	apiKey     string
	httpClient *http.Client
	cache      *gocache.Cache
	httpServer *http.Server
}

// New creates a relay Server listening on addr.
func New(addr string, syncer Syncer, apiKey string, logger zerolog.Logger) *Server {
	return &Server{
		addr:       addr,
		logger:     logger,
		syncer:     syncer,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: upstreamTimeout},
		cache:      gocache.New(proxyCacheTTL, 10*proxyCacheTTL),
	}
}

// Router builds the route table. Exposed separately so tests can drive the
// handlers without a listening socket.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.Path("/api/proxy").Methods(http.MethodGet).HandlerFunc(s.handleProxy)
	router.Path("/api/sync").Methods(http.MethodGet).HandlerFunc(s.handleSync)
	router.Path("/healthz").Methods(http.MethodGet).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Path("/metrics").Handler(promhttp.Handler())

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}).Handler(router)
}

// Start runs the server in the current goroutine until it fails or is
// stopped.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	s.logger.Info().Str("addr", s.addr).Msg("starting relay server")
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info().Msg("stopping relay server")
	return s.httpServer.Shutdown(ctx)
}

// HostAllowed reports whether a hostname belongs to an allow-listed domain.
func HostAllowed(hostname string) bool {
	for _, domain := range allowedHosts {
		if strings.HasSuffix(hostname, domain) {
			return true
		}
	}
	return false
}

func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "missing url parameter")
		return
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		requestsCounter.WithLabelValues("invalid", "rejected").Inc()
		writeError(w, http.StatusBadRequest, "invalid url")
		return
	}
	if !HostAllowed(parsed.Hostname()) {
		requestsCounter.WithLabelValues(parsed.Hostname(), "forbidden").Inc()
		writeError(w, http.StatusForbidden, "domain not allowed")
		return
	}

	if cached, found := s.cache.Get(rawURL); found {
		resp := cached.(*cachedResponse)
		requestsCounter.WithLabelValues(parsed.Hostname(), "cache_hit").Inc()
		writeCached(w, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid url")
		return
	}
	s.upstreamHeaders(req, parsed.Hostname())

	upstream, err := s.httpClient.Do(req)
	if err != nil {
		requestsCounter.WithLabelValues(parsed.Hostname(), "upstream_error").Inc()
		s.logger.Warn().Str("host", parsed.Hostname()).Err(err).Msg("upstream request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer upstream.Body.Close()

	body, err := io.ReadAll(upstream.Body)
	if err != nil {
		requestsCounter.WithLabelValues(parsed.Hostname(), "upstream_error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	contentType := upstream.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	resp := &cachedResponse{status: upstream.StatusCode, contentType: contentType, body: body}
	s.cache.Set(rawURL, resp, proxyCacheTTL)
	requestsCounter.WithLabelValues(parsed.Hostname(), "forwarded").Inc()
	writeCached(w, resp)
}

// upstreamHeaders adds the headers individual upstreams require.
func (s *Server) upstreamHeaders(req *http.Request, hostname string) {
	req.Header.Set("User-Agent", scraper.UserAgent)
	switch {
	case strings.Contains(hostname, "valorantesports.com"):
		req.Header.Set("x-api-key", s.apiKey)
	case strings.Contains(hostname, "liquipedia.net"):
		req.Header.Set("Accept-Encoding", "gzip")
	case strings.Contains(hostname, "bilibili.com"):
		req.Header.Set("Referer", "https://www.bilibili.com")
		req.Header.Set("Origin", "https://www.bilibili.com")
	}
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	cacheKey := fmt.Sprintf("sync_%d", limit)
	if cached, found := s.cache.Get(cacheKey); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	outcome, err := s.syncer.Run(r.Context(), sync.Options{Limit: limit})
	if err != nil {
		var upstream *scraper.UpstreamError
		if errors.As(err, &upstream) {
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error":  "upstream fetch failed",
				"status": upstream.Status,
			})
			return
		}
		s.logger.Error().Err(err).Msg("sync run failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.cache.Set(cacheKey, outcome, syncCacheTTL)
	writeJSON(w, http.StatusOK, outcome)
}

func writeCached(w http.ResponseWriter, resp *cachedResponse) {
	w.Header().Set("Content-Type", resp.contentType)
	w.Header().Set("Cache-Control", "s-maxage=60, stale-while-revalidate=300")
	w.WriteHeader(resp.status)
	w.Write(resp.body)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "s-maxage=300, stale-while-revalidate=600")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
