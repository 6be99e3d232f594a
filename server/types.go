package server

import (
	"github.com/Thidomsilva/cryptoup/pricing"
	"github.com/Thidomsilva/cryptoup/simulate"
)

type PricesResponse struct {
	Results []pricing.Quote `json:"results"`
}

type SimulateRequest struct {
	Amount float64 `json:"amount"`
}

// SimulationResponse carries the per-exchange rows plus the index of
// the best option, -1 when no row turned a profit
type SimulationResponse struct {
	Results []simulate.Result `json:"results"`
	Best    int               `json:"best"`
}

type PicnicRequest struct {
	Price float64 `json:"price"`
}

type PicnicResponse struct {
	Price float64 `json:"price"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
