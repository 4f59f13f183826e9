package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"otc_go/internal/domain"
	"otc_go/internal/engine"
	"otc_go/internal/infra"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Server exposes the simulation engine over REST plus a trade WebSocket
// feed. Request and response bodies are JSON; decimals serialize as
// strings to avoid floating-point drift.
type Server struct {
	engine  *engine.Engine
	router  *mux.Router
	hub     *Hub
	metrics *infra.Metrics
	logger  *slog.Logger
	http    *http.Server
}

// NewServer wires routes and hooks the engine's trade feed to the hub.
func NewServer(eng *engine.Engine) *Server {
	metrics := infra.NewMetrics()
	s := &Server{
		engine:  eng,
		router:  mux.NewRouter(),
		hub:     NewHub(metrics),
		metrics: metrics,
		logger:  slog.Default().With("module", "server"),
	}

	eng.SetTradeListener(s.hub.BroadcastTrade)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/balance/", s.handleBalance).Methods("GET")
	s.router.HandleFunc("/instruments/", s.handleInstruments).Methods("GET")
	s.router.HandleFunc("/request_for_quote/", s.handleRequestForQuote).Methods("POST")
	s.router.HandleFunc("/order/", s.handleCreateOrder).Methods("POST")
	s.router.HandleFunc("/order/", s.handleListOrders).Methods("GET")
	s.router.HandleFunc("/order/{id}/", s.handleGetOrder).Methods("GET")
	s.router.HandleFunc("/trade/", s.handleListTrades).Methods("GET")
	s.router.HandleFunc("/trade/{id}/", s.handleGetTrade).Methods("GET")
	s.router.HandleFunc("/ledger/", s.handleLedger).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// Handler returns the full middleware-wrapped handler, exported for tests.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(s.router)
}

// Start runs the hub and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	go s.hub.Run(ctx)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.http.Shutdown(shutdownCtx)
	}()

	s.logger.Info("server starting", slog.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// errorEnvelope matches the upstream venue's error body shape.
type errorEnvelope struct {
	Errors []apiErrorBody `json:"errors"`
}

type apiErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// Metrics returns the server's counters.
func (s *Server) Metrics() infra.MetricsSnapshot {
	return s.metrics.Snapshot()
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	s.metrics.RecordError()
	respondError(w, err)
}

// respondError maps the closed error kinds onto HTTP statuses. Not-found
// lookups are 404, everything else the engine produces is a 400.
func respondError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := http.StatusBadRequest
	if kind == domain.KindNotFound {
		status = http.StatusNotFound
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorEnvelope{
		Errors: []apiErrorBody{{Code: domain.CodeFor(kind), Message: err.Error()}},
	})
}
