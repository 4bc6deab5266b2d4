package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
)

const (
	defaultNewsLimit = 10
	maxNewsLimit     = 50
)

// MarketHandler handles direct market data lookups
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// News handles GET requests for trending market headlines.
//
// Endpoint: GET /api/market/news
// Query params:
//   - limit: Optional, 1-50 (default 10)
//
// Response: 200 OK with array of model.NewsArticle
// Error: 400 Bad Request for an invalid limit
// Error: 502 Bad Gateway if the quote provider fails
func (h *MarketHandler) News(w http.ResponseWriter, r *http.Request) {
	limit := defaultNewsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxNewsLimit {
			response.RespondError(w, http.StatusBadRequest, "invalid limit", "limit must be between 1 and "+strconv.Itoa(maxNewsLimit))
			return
		}
		limit = n
	}

	articles, err := h.marketService.GetNews(r.Context(), limit)
	if err != nil {
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToRetrieveNews.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, articles)
}

// Symbol handles GET requests for a symbol profile and live quote.
// The quote is omitted when the provider has none.
//
// Endpoint: GET /api/market/symbol/{symbol}
// Response: 200 OK with model.SymbolLookup
// Error: 400 Bad Request if the symbol is empty
// Error: 404 Not Found if the provider does not know the symbol
// Error: 502 Bad Gateway if the quote provider fails
func (h *MarketHandler) Symbol(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	lookup, err := h.marketService.LookupSymbol(r.Context(), symbol)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidSymbol):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidSymbol.Error(), "")
		case errors.Is(err, apperrors.ErrSymbolNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSymbolNotFound.Error(), symbol)
		default:
			response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToRetrieveSymbol.Error(), err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, lookup)
}
