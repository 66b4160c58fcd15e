package receipt

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trackmate_http_requests_total",
			Help: "HTTP requests by method, path and status code.",
		},
		[]string{"method", "path", "code"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trackmate_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Server handles HTTP requests for the receipt tracker
type Server struct {
	service  *Service
	sessions *SessionManager
	mux      *http.ServeMux
	handler  http.Handler
	tmpl     *template.Template
}

// NewServer creates a new Server with default mux
func NewServer(service *Service) *Server {
	return NewServerWithMux(service, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(service *Service, mux *http.ServeMux) *Server {
	s := &Server{
		service:  service,
		sessions: NewSessionManager(),
		mux:      mux,
		tmpl:     parseTemplates(),
	}
	s.registerRoutes()
	s.handler = s.instrument(mux)
	return s
}

// sessionHandler is an authenticated handler: the gate resolves the
// session and passes it in explicitly.
type sessionHandler func(w http.ResponseWriter, r *http.Request, session *Session)

// requireSession gates a handler behind a live session. Unauthenticated
// requests are sent to the login page.
func (s *Server) requireSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		session, ok := s.sessions.Get(cookie.Value)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r, session)
	}
}

// statusRecorder captures the response code for metrics and logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps the mux with request logging and Prometheus metrics
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		requestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(elapsed.Seconds())
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

// registerRoutes registers all routes on the server's mux
func (s *Server) registerRoutes() {
	// Login flow (the only unauthenticated pages)
	s.mux.HandleFunc("GET /login", s.handleLoginPage)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("POST /logout", s.requireSession(s.handleLogout))

	// Upload flow
	s.mux.HandleFunc("GET /{$}", s.requireSession(s.handleUploadPage))
	s.mux.HandleFunc("POST /upload", s.requireSession(s.handleUpload))
	s.mux.HandleFunc("POST /receipts", s.requireSession(s.handleSaveReceipt))

	// Report flow
	s.mux.HandleFunc("GET /receipts", s.requireSession(s.handleViewReceipts))
	s.mux.HandleFunc("GET /receipts/export", s.requireSession(s.handleExport))

	// Operational endpoints
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, s.handler)
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
