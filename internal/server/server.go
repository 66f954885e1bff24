// Package server exposes the calculators as a JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iwvelando/finance-calculators/internal/cache"
	"github.com/iwvelando/finance-calculators/internal/config"
	"github.com/iwvelando/finance-calculators/internal/costmodel"
	"github.com/iwvelando/finance-calculators/internal/strategy"
	"github.com/iwvelando/finance-calculators/internal/tracing"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/format"
	"github.com/iwvelando/finance-calculators/pkg/loans"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const toolLumpsum = "suggested-lumpsum"

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	results     cache.Cache
	validator   *validation.Validator
	analyzer    *costmodel.Analyzer
	comparator  *strategy.Comparator
}

// response wraps every calculation result.
type response struct {
	CalculationID string      `json:"calculationId"`
	CalculatedAt  time.Time   `json:"calculatedAt"`
	Tool          string      `json:"tool"`
	Cached        bool        `json:"cached"`
	Warnings      []string    `json:"warnings,omitempty"`
	Duration      string      `json:"duration"`
	Result        interface{} `json:"result"`
}

type lumpsumResult struct {
	Price              float64 `json:"price"`
	Cash               float64 `json:"cash"`
	MinimumDownPayment float64 `json:"minimumDownPayment"`
	SuggestedLumpsum   float64 `json:"suggestedLumpsum"`
}

// NewHandler constructs the HTTP handler that serves the calculator API.
// A nil cache disables result caching.
func NewHandler(logger *zap.Logger, conf config.ServerConfig, results cache.Cache) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if results == nil {
		results = cache.Nop{}
	}

	version := strings.TrimSpace(conf.Version)
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:      logger,
		maxBodySize: conf.MaxBodyBytes(),
		version:     version,
		results:     results,
		validator:   validation.New(),
		analyzer:    costmodel.NewAnalyzer(logger),
		comparator:  strategy.NewComparator(logger),
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)
	api.HandleFunc("/loan", h.handleLoan).Methods(http.MethodPost)
	api.HandleFunc("/emi", h.handleEMI).Methods(http.MethodPost)
	api.HandleFunc("/car", h.handleCar).Methods(http.MethodPost)
	api.HandleFunc("/car/suggested-lumpsum", h.handleSuggestedLumpsum).Methods(http.MethodGet)

	return router
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, "health", http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, "version", http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLoan"
	start := time.Now()
	ctx, span := tracing.Tracer().Start(r.Context(), op)
	defer span.End()

	quote := loans.DefaultQuote()
	if err := h.decode(w, r, &quote); err != nil {
		h.respondDecodeError(w, constants.ToolLoan, op, err)
		return
	}

	warnings := h.warnings(op, quote)
	if _, err := loans.ParseStrategyKind(string(quote.Strategy)); err != nil {
		warnings = append(warnings, fmt.Sprintf("%v, using %s", err, loans.ReducingBalance))
	}

	result, hit := calculate(ctx, h, constants.ToolLoan, quote, func() loans.QuoteResult {
		return loans.Calculate(quote)
	})
	span.SetAttributes(
		attribute.Float64("loan.amount", quote.Amount),
		attribute.Float64("loan.emi", result.Schedule.MonthlyPayment),
		attribute.Bool("cache.hit", hit),
	)

	h.respond(w, op, constants.ToolLoan, start, hit, warnings, result)
}

func (h *handler) handleEMI(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEMI"
	start := time.Now()
	ctx, span := tracing.Tracer().Start(r.Context(), op)
	defer span.End()

	params := costmodel.DefaultParams()
	if err := h.decode(w, r, &params); err != nil {
		h.respondDecodeError(w, constants.ToolEMI, op, err)
		return
	}

	warnings := h.warnings(op, params)

	report, hit := calculate(ctx, h, constants.ToolEMI, params, func() costmodel.Report {
		return h.analyzer.Run(params)
	})
	span.SetAttributes(
		attribute.Float64("emi.savings", report.Result.Savings),
		attribute.Bool("emi.better", report.Result.IsEmiBetter),
		attribute.Bool("cache.hit", hit),
	)

	h.respond(w, op, constants.ToolEMI, start, hit, warnings, report)
}

func (h *handler) handleCar(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCar"
	start := time.Now()
	ctx, span := tracing.Tracer().Start(r.Context(), op)
	defer span.End()

	inputs := strategy.DefaultInputs()
	if err := h.decode(w, r, &inputs); err != nil {
		h.respondDecodeError(w, constants.ToolCar, op, err)
		return
	}

	warnings := h.warnings(op, inputs)
	warnings = append(warnings, validation.LumpsumWarnings(inputs.AssetPrice, inputs.TotalCash, inputs.InvestableLumpsum)...)

	result, hit := calculate(ctx, h, constants.ToolCar, inputs, func() strategy.ComparisonResult {
		return h.comparator.Compare(inputs)
	})
	span.SetAttributes(
		attribute.String("car.best", result.Best().ID),
		attribute.Bool("cache.hit", hit),
	)

	h.respond(w, op, constants.ToolCar, start, hit, warnings, result)
}

func (h *handler) handleSuggestedLumpsum(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSuggestedLumpsum"
	start := time.Now()
	_, span := tracing.Tracer().Start(r.Context(), op)
	defer span.End()

	query := r.URL.Query()
	price, err := parseAmount(query.Get("price"))
	if err != nil {
		h.respondError(w, toolLumpsum, op, http.StatusBadRequest, fmt.Sprintf("invalid price: %v", err))
		return
	}
	cash, err := parseAmount(query.Get("cash"))
	if err != nil {
		h.respondError(w, toolLumpsum, op, http.StatusBadRequest, fmt.Sprintf("invalid cash: %v", err))
		return
	}

	result := lumpsumResult{
		Price:              price,
		Cash:               cash,
		MinimumDownPayment: validation.MinimumDownPayment(price),
		SuggestedLumpsum:   strategy.SuggestedLumpsum(price, cash),
	}
	h.respond(w, op, toolLumpsum, start, false, nil, result)
}

// calculate runs compute through the result cache. Cache failures are logged
// and the freshly computed result is used.
func calculate[T any](ctx context.Context, h *handler, tool string, inputs interface{}, compute func() T) (T, bool) {
	start := time.Now()
	defer func() {
		calculationSeconds.WithLabelValues(tool).Observe(time.Since(start).Seconds())
	}()

	key, err := cache.Key(tool, inputs)
	if err != nil {
		h.logger.Warn("failed to derive cache key",
			zap.String("op", "server.calculate"),
			zap.String("tool", tool),
			zap.Error(err),
		)
		return compute(), false
	}

	result, hit, err := cache.Fetch(ctx, h.results, key, compute)
	if err != nil {
		h.logger.Warn("result cache unavailable",
			zap.String("op", "server.calculate"),
			zap.String("tool", tool),
			zap.Error(err),
		)
	}
	if hit {
		cacheLookups.WithLabelValues(tool, "hit").Inc()
	} else {
		cacheLookups.WithLabelValues(tool, "miss").Inc()
	}
	return result, hit
}

// decode reads a JSON body on top of the defaults already in dst. An empty
// body keeps the defaults.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *handler) warnings(op string, inputs interface{}) []string {
	warnings, err := h.validator.Warnings(inputs)
	if err != nil {
		h.logger.Warn("failed to validate inputs",
			zap.String("op", op),
			zap.Error(err),
		)
	}
	return warnings
}

// parseAmount reads a query amount written plainly or with grouping, such as
// "22,81,000".
func parseAmount(value string) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, errors.New("value is required")
	}
	n := format.ParseAmount(value)
	if n < 0 {
		return 0, fmt.Errorf("%v is negative", n)
	}
	return n, nil
}

func (h *handler) respond(w http.ResponseWriter, op, tool string, start time.Time, cached bool, warnings []string, result interface{}) {
	elapsed := time.Since(start)
	resp := response{
		CalculationID: uuid.NewString(),
		CalculatedAt:  time.Now().UTC(),
		Tool:          tool,
		Cached:        cached,
		Warnings:      warnings,
		Duration:      elapsed.String(),
		Result:        result,
	}

	h.logger.Info("calculation served",
		zap.String("op", op),
		zap.String("calculation_id", resp.CalculationID),
		zap.Bool("cached", cached),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, tool, http.StatusOK, resp)
}

func (h *handler) respondDecodeError(w http.ResponseWriter, tool, op string, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondError(w, tool, op, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize))
		return
	}
	h.respondError(w, tool, op, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err))
}

func (h *handler) respondError(w http.ResponseWriter, tool, op string, status int, msg string) {
	h.logger.Error("calculation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	h.writeJSON(w, tool, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, tool string, status int, payload interface{}) {
	requestsTotal.WithLabelValues(tool, strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
