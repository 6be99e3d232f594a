package pricing

// ExchangeName identifies one of the supported exchanges
type ExchangeName string

const (
	Binance  ExchangeName = "Binance"
	Bybit    ExchangeName = "Bybit"
	KuCoin   ExchangeName = "KuCoin"
	Coinbase ExchangeName = "Coinbase"
)

func (e ExchangeName) String() string {
	return string(e)
}

// Exchanges is the fixed, ordered set of supported exchanges.
// Aggregation results always follow this order, and always
// contain exactly one entry per exchange listed here
var Exchanges = []ExchangeName{
	Binance,
	Bybit,
	KuCoin,
	Coinbase,
}

// Quote is the best known BRL buy price for 1 USDT on an exchange.
// A nil BuyPrice means no usable quote was obtained
type Quote struct {
	BuyPrice *float64     `json:"buy_price"`
	Name     ExchangeName `json:"name"`
}

// Details is the static per-exchange configuration
type Details struct {
	Name ExchangeName `json:"name"`
	Fee  float64      `json:"fee"` // buy fee fraction, in [0,1)
}

// DefaultDetails returns the static details for the supported exchanges
func DefaultDetails() []Details {
	return []Details{
		{Name: Binance, Fee: 0.001},
		{Name: Bybit, Fee: 0.001},
		{Name: KuCoin, Fee: 0.001},
		{Name: Coinbase, Fee: 0.005},
	}
}

// Denomination is the quote currency of a raw upstream record
type Denomination string

const (
	DenomBRL Denomination = "BRL"
	DenomUSD Denomination = "USD"
)

// Candidate priorities. A direct BRL record always displaces
// a converted USD record for the same exchange
const (
	priorityConverted = 0
	priorityDirect    = 1
)

// Ticker is a single raw market record from an aggregator feed
type Ticker struct {
	Market    string       // provider market name, matched by substring
	Target    Denomination // quote currency of the pair
	LastPrice float64
	VolumeUSD float64 // converted 24h volume, 0 when unknown
	Stale     bool
}
