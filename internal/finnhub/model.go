package finnhub

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// QuoteResponse is the raw body of GET /quote.
// Finnhub answers unknown symbols with 200 and all-zero fields.
type QuoteResponse struct {
	Current       flexFloat64 `json:"c"`
	Change        flexFloat64 `json:"d"`
	ChangePercent flexFloat64 `json:"dp"`
	High          flexFloat64 `json:"h"`
	Low           flexFloat64 `json:"l"`
	Open          flexFloat64 `json:"o"`
	PreviousClose flexFloat64 `json:"pc"`
	Timestamp     int64       `json:"t"`
}

// ProfileResponse is the raw body of GET /stock/profile2.
// An empty object is returned for unknown symbols.
type ProfileResponse struct {
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
	Country  string `json:"country"`
	Industry string `json:"finnhubIndustry"`
	Logo     string `json:"logo"`
	WebURL   string `json:"weburl"`
}

// NewsItem is one element of the GET /news array.
type NewsItem struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// flexFloat64 handles JSON values that may be either a number, a string or null.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("cannot parse %q as float64", s)
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}
