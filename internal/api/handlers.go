package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/stockledger/lot-service/internal/database"
	"github.com/stockledger/lot-service/internal/kafka"
	"github.com/stockledger/lot-service/internal/ledger"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db         *database.DB
	processor  *ledger.Processor
	summarizer *ledger.Summarizer
	producer   *kafka.Producer
	log        *logrus.Logger
}

// NewHandler creates a new Handler. producer may be nil.
func NewHandler(db *database.DB, processor *ledger.Processor, summarizer *ledger.Summarizer, producer *kafka.Producer, log *logrus.Logger) *Handler {
	return &Handler{
		db:         db,
		processor:  processor,
		summarizer: summarizer,
		producer:   producer,
		log:        log,
	}
}

// RecordTrade handles POST /trades
func (h *Handler) RecordTrade(w http.ResponseWriter, r *http.Request) {
	var req ledger.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.processor.RecordTrade(r.Context(), req)
	if err != nil {
		var verr *ledger.ValidationError
		var insufficient *ledger.InsufficientStockError
		switch {
		case errors.As(err, &verr):
			respondError(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, ledger.ErrInvalidTradeType):
			respondError(w, http.StatusBadRequest, "Invalid trade_type")
		case errors.As(err, &insufficient):
			if h.producer != nil {
				if perr := h.producer.PublishTradeRejected(r.Context(), insufficient.Trade, insufficient.Remaining); perr != nil {
					h.log.WithError(perr).Error("failed to publish trade rejected event")
				}
			}
			respondJSON(w, http.StatusBadRequest, map[string]any{
				"message":            "Not enough stock",
				"remaining_quantity": insufficient.Remaining.String() + " quantity needed",
				"trade":              insufficient.Trade,
			})
		default:
			h.log.WithError(err).Error("failed to process trade")
			respondError(w, http.StatusInternalServerError, "Error processing trade")
		}
		return
	}

	if h.producer != nil {
		if perr := h.producer.PublishTradeProcessed(r.Context(), result.Trade, result.OrderingMode); perr != nil {
			h.log.WithError(perr).Error("failed to publish trade processed event")
		}
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": result.Message,
		"trade":   result.Trade,
	})
}

// GetTrades handles GET /trades
func (h *Handler) GetTrades(w http.ResponseWriter, r *http.Request) {
	filter := database.TradeFilter{
		StockName:  r.URL.Query().Get("stock_name"),
		TradeType:  r.URL.Query().Get("trade_type"),
		BrokerName: r.URL.Query().Get("broker_name"),
	}

	trades, err := h.db.GetTrades(r.Context(), filter)
	if err != nil {
		h.log.WithError(err).Error("failed to fetch trades")
		respondError(w, http.StatusInternalServerError, "Error fetching data")
		return
	}

	respondJSON(w, http.StatusOK, trades)
}

// GetLots handles GET /lots
func (h *Handler) GetLots(w http.ResponseWriter, r *http.Request) {
	filter := database.LotFilter{
		StockName: r.URL.Query().Get("stock_name"),
		LotStatus: r.URL.Query().Get("lot_status"),
	}
	if raw := r.URL.Query().Get("trade_id"); raw != "" {
		tradeID, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "trade_id must be an integer")
			return
		}
		filter.TradeID = tradeID
	}

	lots, err := h.db.GetLots(r.Context(), filter)
	if err != nil {
		h.log.WithError(err).Error("failed to fetch lots")
		respondError(w, http.StatusInternalServerError, "Error fetching data")
		return
	}

	respondJSON(w, http.StatusOK, lots)
}

// GetStockSummary handles GET /trades/summary
func (h *Handler) GetStockSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.summarizer.Summarize(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to summarize stocks")
		respondError(w, http.StatusInternalServerError, "Error fetching trade summary")
		return
	}

	respondJSON(w, http.StatusOK, summaries)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
