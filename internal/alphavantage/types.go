package alphavantage

// Alpha Vantage responses use positional key names ("05. price"); the
// structs below map them to usable fields.

type GlobalQuote struct {
	Symbol           string `json:"01. symbol"`
	Price            string `json:"05. price"`
	Volume           string `json:"06. volume"`
	LatestTradingDay string `json:"07. latest trading day"`
	Change           string `json:"09. change"`
	ChangePercent    string `json:"10. change percent"`
}

type SymbolMatch struct {
	Symbol string `json:"1. symbol"`
	Name   string `json:"2. name"`
	Type   string `json:"3. type"`
	Region string `json:"4. region"`
}

type ExchangeRate struct {
	FromCurrencyCode string `json:"1. From_Currency Code"`
	FromCurrencyName string `json:"2. From_Currency Name"`
	ToCurrencyCode   string `json:"3. To_Currency Code"`
	Rate             string `json:"5. Exchange Rate"`
	LastRefreshed    string `json:"6. Last Refreshed"`
}

type globalQuoteEnvelope struct {
	GlobalQuote  GlobalQuote `json:"Global Quote"`
	ErrorMessage string      `json:"Error Message"`
	Note         string      `json:"Note"`
}

type symbolSearchEnvelope struct {
	BestMatches  []SymbolMatch `json:"bestMatches"`
	ErrorMessage string        `json:"Error Message"`
	Note         string        `json:"Note"`
}

type exchangeRateEnvelope struct {
	ExchangeRate ExchangeRate `json:"Realtime Currency Exchange Rate"`
	ErrorMessage string       `json:"Error Message"`
	Note         string       `json:"Note"`
}
