package server

import (
	"encoding/json"
	"net/http"
	"time"

	"otc_go/internal/domain"

	"github.com/gorilla/mux"
)

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	balances := s.engine.Balances()
	out := make(map[string]string, len(balances))
	for currency, amount := range balances {
		out[currency] = amount.String()
	}
	respondJSON(w, out)
}

func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.engine.Instruments())
}

func (s *Server) handleRequestForQuote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req domain.RFQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, &domain.APIError{Kind: domain.KindGeneric, Message: "invalid request body"})
		return
	}

	quote, err := s.engine.RequestQuote(req)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.metrics.RecordQuote(time.Since(start).Nanoseconds())
	respondJSON(w, quote)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req domain.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, &domain.APIError{Kind: domain.KindGeneric, Message: "invalid request body"})
		return
	}

	order, err := s.engine.Execute(req)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.metrics.RecordOrder(!order.IsRejected(), time.Since(start).Nanoseconds())
	respondJSON(w, order)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.engine.Order(mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, order)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.engine.Orders())
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	trade, err := s.engine.Trade(mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, trade)
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.engine.Trades())
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.engine.LedgerEntries())
}
