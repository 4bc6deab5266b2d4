package model

import "time"

// Quote is a current price quote from the market data provider.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Current       float64   `json:"current"`
	PreviousClose float64   `json:"previousClose"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Open          float64   `json:"open"`
	Timestamp     time.Time `json:"timestamp"`
}

// Profile is the company profile of a listed symbol.
type Profile struct {
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency,omitempty"`
}

// SymbolLookup combines a profile and a quote for the add-asset form.
type SymbolLookup struct {
	Profile Profile `json:"profile"`
	Quote   *Quote  `json:"quote,omitempty"`
}

// NewsArticle is a single headline from the market news feed.
type NewsArticle struct {
	Headline string    `json:"headline"`
	Summary  string    `json:"summary"`
	Source   string    `json:"source"`
	URL      string    `json:"url"`
	Datetime time.Time `json:"datetime"`
	Age      string    `json:"age,omitempty"` // "Just now", "3h ago", "2d ago"
}

// Recommendation is AI generated diversification advice for the current portfolio.
type Recommendation struct {
	Recommendation string    `json:"recommendation"`
	Model          string    `json:"model"`
	GeneratedAt    time.Time `json:"generatedAt"`
	BasedOn        time.Time `json:"basedOn"` // LastUpdated of the snapshot used
}
