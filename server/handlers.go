package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Thidomsilva/cryptoup/simulate"
)

var (
	errInvalidBody   = errors.New("invalid request body")
	errInvalidAmount = errors.New("amount must be a positive number")
	errInvalidPrice  = errors.New("price must be a positive number")
)

// Prices returns the current quote list: exactly one entry per
// supported exchange, in the fixed order, with null prices for
// exchanges that could not be quoted
func (s *Server) Prices(w http.ResponseWriter, r *http.Request) {
	quotes := s.quotes.Quotes(r.Context())

	resp := &PricesResponse{
		Results: quotes,
	}

	writeJSON(w, http.StatusOK, resp)
}

// Simulate runs the arbitrage simulation for the requested amount
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)

		return
	}

	results, err := s.simulator.Run(r.Context(), req.Amount)
	if err != nil {
		if errors.Is(err, simulate.ErrInvalidAmount) {
			writeError(w, http.StatusBadRequest, errInvalidAmount)

			return
		}

		s.logger.Debug(
			"unable to run simulation",
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, err)

		return
	}

	resp := &SimulationResponse{
		Results: results,
		Best:    simulate.Best(results),
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetPicnic returns the current resale price
func (s *Server) GetPicnic(w http.ResponseWriter, _ *http.Request) {
	resp := &PicnicResponse{
		Price: s.simulator.ResalePrice(),
	}

	writeJSON(w, http.StatusOK, resp)
}

// SetPicnic overwrites the process-wide resale price
func (s *Server) SetPicnic(w http.ResponseWriter, r *http.Request) {
	var req PicnicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)

		return
	}

	if err := s.simulator.SetResalePrice(req.Price); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidPrice)

		return
	}

	resp := &PicnicResponse{
		Price: s.simulator.ResalePrice(),
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
