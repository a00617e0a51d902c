// Package server exposes the mortgage calculator as a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/fifty-year-mortgage/internal/cache"
	"github.com/iwvelando/fifty-year-mortgage/internal/chart"
	"github.com/iwvelando/fifty-year-mortgage/internal/config"
	"github.com/iwvelando/fifty-year-mortgage/internal/metrics"
	"github.com/iwvelando/fifty-year-mortgage/internal/preferences"
	"github.com/iwvelando/fifty-year-mortgage/pkg/amortization"
	"github.com/iwvelando/fifty-year-mortgage/pkg/constants"
	"github.com/iwvelando/fifty-year-mortgage/pkg/inputs"
	"github.com/iwvelando/fifty-year-mortgage/pkg/output"
	"go.uber.org/zap"
)

// Default terms compared in the difference and equity views.
const (
	defaultBaseTerm      = 30
	defaultAlternateTerm = 50
)

// Dependencies are the collaborators the handler needs. Nil fields fall back
// to in-memory implementations and the default configuration.
type Dependencies struct {
	Config      *config.Configuration
	Cache       cache.Cache
	CacheTTL    time.Duration
	Preferences preferences.Store
	Metrics     *metrics.Metrics
	MaxBodySize int64
	Version     string
}

type handler struct {
	logger      *zap.Logger
	conf        *config.Configuration
	calculator  *amortization.Calculator
	cache       cache.Cache
	cacheTTL    time.Duration
	prefs       preferences.Store
	metrics     *metrics.Metrics
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(logger *zap.Logger, deps Dependencies) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewMemoryCache()
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = cache.Settings{}.TTLDuration()
	}
	if deps.Preferences == nil {
		deps.Preferences = preferences.NewMemoryStore()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.MaxBodySize <= 0 {
		deps.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(deps.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		conf:        deps.Config,
		calculator:  amortization.NewCalculator(logger, deps.Config.CalculatorOptions()),
		cache:       deps.Cache,
		cacheTTL:    deps.CacheTTL,
		prefs:       deps.Preferences,
		metrics:     deps.Metrics,
		maxBodySize: deps.MaxBodySize,
		version:     trimmedVersion,
	}

	mux := http.NewServeMux()
	routes := map[string]http.HandlerFunc{
		"/api/calculate":         h.handleCalculate,
		"/api/compare":           h.handleCompare,
		"/api/equity":            h.handleEquity,
		"/api/schedule.csv":      h.handleScheduleCSV,
		"/api/chart/balance.png": h.handleBalanceChart,
		"/api/chart/compare.png": h.handleCompareChart,
		"/api/presets":           h.handlePresets,
		"/api/share":             h.handleShare,
		"/api/notice":            h.handleNotice,
		"/api/version":           h.handleVersion,
	}
	for route, fn := range routes {
		mux.Handle(route, h.metrics.Instrument(route, fn))
	}
	mux.Handle("/metrics", h.metrics.Handler())

	return mux
}

// requestError carries the status a request failure should be reported with.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string {
	return e.msg
}

type calculateResponse struct {
	Inputs   amortization.Inputs        `json:"inputs"`
	Result   *amortization.Result       `json:"result"`
	Reason   string                     `json:"reason,omitempty"`
	Schedule []amortization.Row         `json:"schedule,omitempty"`
	Yearly   []amortization.YearSummary `json:"yearly,omitempty"`
	ShareURL string                     `json:"shareUrl,omitempty"`
}

type compareResponse struct {
	Inputs     amortization.Inputs       `json:"inputs"`
	Results    []amortization.TermResult `json:"results"`
	Difference *amortization.Difference  `json:"difference,omitempty"`
	Reason     string                    `json:"reason,omitempty"`
}

type equityResponse struct {
	Inputs        amortization.Inputs      `json:"inputs"`
	BaseTerm      int                      `json:"baseTerm"`
	AlternateTerm int                      `json:"alternateTerm"`
	Milestones    []amortization.Milestone `json:"milestones"`
	Reason        string                   `json:"reason,omitempty"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	in, err := h.readInputs(w, r)
	if err != nil {
		h.respondRequestError(w, err, op)
		return
	}

	response := calculateResponse{Inputs: in}
	calc, err := h.calculator.Calculate(in)
	h.metrics.ObserveCalculation("calculate", err == nil)
	if err != nil {
		response.Reason = err.Error()
		h.writeJSON(w, http.StatusOK, response)
		return
	}

	response.Result = &calc.Result
	if r.URL.Query().Get("schedule") != "false" {
		response.Schedule = calc.Schedule
	}
	response.Yearly = amortization.YearlySummaries(calc.Schedule)
	if link, err := inputs.ShareURL(h.conf.Calculator.ShareBaseURL, in); err == nil {
		response.ShareURL = link
	} else {
		h.logger.Warn("failed to build share link", zap.String("op", op), zap.Error(err))
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	in, err := h.readInputs(w, r)
	if err != nil {
		h.respondRequestError(w, err, op)
		return
	}
	terms, err := h.termsFromQuery(r.URL.Query())
	if err != nil {
		h.respondRequestError(w, err, op)
		return
	}

	response := compareResponse{Inputs: in, Results: h.calculator.CompareTerms(in, terms)}
	h.metrics.ObserveCalculation("compare", len(response.Results) > 0)
	if len(response.Results) == 0 {
		if err := h.calculator.Validate(in); err != nil {
			response.Reason = err.Error()
		} else {
			response.Reason = "no valid terms requested"
		}
		h.writeJSON(w, http.StatusOK, response)
		return
	}

	base, okBase := amortization.FindTerm(response.Results, defaultBaseTerm)
	alternate, okAlt := amortization.FindTerm(response.Results, defaultAlternateTerm)
	if !okBase || !okAlt {
		base = response.Results[0].Result
		alternate = response.Results[len(response.Results)-1].Result
	}
	if base.TermYears != alternate.TermYears {
		diff := amortization.Compare(base, alternate)
		response.Difference = &diff
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleEquity(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEquity"
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	in, err := h.readInputs(w, r)
	if err != nil {
		h.respondRequestError(w, err, op)
		return
	}

	query := r.URL.Query()
	baseTerm, err := intParam(query, "base", defaultBaseTerm)
	if err != nil {
		h.respondRequestError(w, err, op)
		return
	}
	alternateTerm, err := intParam(query, "alternate", defaultAlternateTerm)
	if err != nil {
		h.respondRequestError(w, err, op)
		return
	}

	response := equityResponse{Inputs: in, BaseTerm: baseTerm, AlternateTerm: alternateTerm}
	milestones, err := h.calculator.EquityMilestones(in, baseTerm, alternateTerm, h.conf.Calculator.MilestoneYears)
	h.metrics.ObserveCalculation("equity", err == nil)
	if err != nil {
		response.Reason = err.Error()
		response.Milestones = []amortization.Milestone{}
		h.writeJSON(w, http.StatusOK, response)
		return
	}
	response.Milestones = milestones
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleScheduleCSV(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScheduleCSV"
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	in, err := h.readInputs(w, r)
	if err != nil {
		h.respondRequestError(w, err, op)
		return
	}

	calc, err := h.calculator.Calculate(in)
	h.metrics.ObserveCalculation("schedule", err == nil)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, fmt.Sprintf("no schedule: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", output.CSVContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, output.CSVFilename(in.TermYears, in.HomePrice)))
	w.WriteHeader(http.StatusOK)
	if err := output.WriteScheduleCSV(w, calc.Schedule); err != nil {
		h.logger.Error("failed to write CSV response", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleBalanceChart(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBalanceChart"
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	in, err := h.readInputs(w, r)
	if err != nil {
		h.respondRequestError(w, err, op)
		return
	}

	key := cache.Key("chart-balance", inputs.Encode(in).Encode())
	h.serveChart(r.Context(), w, key, op, func() ([]byte, error) {
		calc, err := h.calculator.Calculate(in)
		h.metrics.ObserveCalculation("chart_balance", err == nil)
		if err != nil {
			return nil, &requestError{status: http.StatusUnprocessableEntity, msg: fmt.Sprintf("no chart: %v", err)}
		}
		return chart.Balance(calc.Schedule, in.TermYears)
	})
}

func (h *handler) handleCompareChart(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompareChart"
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	in, err := h.readInputs(w, r)
	if err != nil {
		h.respondRequestError(w, err, op)
		return
	}
	terms, err := h.termsFromQuery(r.URL.Query())
	if err != nil {
		h.respondRequestError(w, err, op)
		return
	}

	key := cache.Key("chart-compare", inputs.Encode(in).Encode(), fmt.Sprint(terms))
	h.serveChart(r.Context(), w, key, op, func() ([]byte, error) {
		results := h.calculator.CompareTerms(in, terms)
		h.metrics.ObserveCalculation("chart_compare", len(results) > 0)
		if len(results) == 0 {
			return nil, &requestError{status: http.StatusUnprocessableEntity, msg: "no chart: inputs produce no result"}
		}
		return chart.Compare(results)
	})
}

// serveChart answers from the cache when possible and stores fresh renders.
// Cache failures are logged and treated as misses.
func (h *handler) serveChart(ctx context.Context, w http.ResponseWriter, key, op string, render func() ([]byte, error)) {
	img, ok, err := h.cache.Get(ctx, key)
	switch {
	case err != nil:
		h.metrics.ObserveCacheLookup(metrics.CacheError)
		h.logger.Warn("chart cache lookup failed", zap.String("op", op), zap.Error(err))
	case ok:
		h.metrics.ObserveCacheLookup(metrics.CacheHit)
	default:
		h.metrics.ObserveCacheLookup(metrics.CacheMiss)
	}

	if !ok {
		img, err = render()
		if err != nil {
			var reqErr *requestError
			if errors.As(err, &reqErr) {
				h.respondRequestError(w, err, op)
				return
			}
			if errors.Is(err, chart.ErrNoData) {
				h.respondErrorWithOp(w, http.StatusUnprocessableEntity, "no chart: "+err.Error(), op)
				return
			}
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err), op)
			return
		}
		if err := h.cache.Set(ctx, key, img, h.cacheTTL); err != nil {
			h.logger.Warn("failed to cache chart", zap.String("op", op), zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", chart.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		h.logger.Error("failed to write chart response", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handlePresets(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	presets := h.conf.Presets
	if presets == nil {
		presets = []config.Preset{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"defaults": h.conf.Calculator.Defaults,
		"terms":    h.conf.Calculator.Terms,
		"presets":  presets,
	})
}

func (h *handler) handleShare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleShare"
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	in, err := h.readInputs(w, r)
	if err != nil {
		h.respondRequestError(w, err, op)
		return
	}

	link, err := inputs.ShareURL(h.conf.Calculator.ShareBaseURL, in)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

func (h *handler) handleNotice(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleNotice"
	if !allowMethods(w, r, http.MethodGet, http.MethodPut, http.MethodDelete) {
		return
	}

	key := constants.NoticeDismissedKey
	if visitor := strings.TrimSpace(r.URL.Query().Get("visitor")); visitor != "" {
		// Hashed so arbitrary visitor ids map to fixed-size keys.
		key = cache.Key(constants.NoticeDismissedKey, visitor)
	}

	ctx := r.Context()
	switch r.Method {
	case http.MethodPut:
		if err := preferences.SetFlag(ctx, h.prefs, key, true); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to store preference: %v", err), op)
			return
		}
	case http.MethodDelete:
		if err := h.prefs.Delete(ctx, key); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to clear preference: %v", err), op)
			return
		}
	}

	dismissed, err := preferences.Flag(ctx, h.prefs, key)
	if err != nil {
		// An unreadable store shows the notice again.
		h.logger.Warn("failed to read preference", zap.String("op", op), zap.Error(err))
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"dismissed": dismissed})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// readInputs builds calculator inputs for a request. They start from the
// configured defaults, or from the preset named by the "preset" parameter,
// then take share link parameters from the query string and, for POST, a
// JSON body.
func (h *handler) readInputs(w http.ResponseWriter, r *http.Request) (amortization.Inputs, error) {
	query := r.URL.Query()

	base := h.conf.Calculator.Defaults
	if id := query.Get("preset"); id != "" {
		preset, ok := h.conf.Preset(id)
		if !ok {
			return amortization.Inputs{}, &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf("unknown preset %q", id)}
		}
		base = preset.Inputs
	}

	in := inputs.Decode(query, base)
	if r.Method != http.MethodPost {
		return in, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&in); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return amortization.Inputs{}, &requestError{
				status: http.StatusRequestEntityTooLarge,
				msg:    fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize),
			}
		case errors.Is(err, io.EOF):
			// An empty body keeps the query inputs.
			return in, nil
		default:
			return amortization.Inputs{}, &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf("failed to decode inputs: %v", err)}
		}
	}
	return in, nil
}

func (h *handler) termsFromQuery(query url.Values) ([]int, error) {
	raw := strings.TrimSpace(query.Get("terms"))
	if raw == "" {
		return h.conf.Calculator.Terms, nil
	}

	parts := strings.Split(raw, ",")
	terms := make([]int, 0, len(parts))
	for _, part := range parts {
		term, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf("invalid term %q", part)}
		}
		terms = append(terms, term)
	}
	return terms, nil
}

func intParam(query url.Values, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(query.Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf("invalid %s %q", name, raw)}
	}
	return value, nil
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return false
}

func (h *handler) respondRequestError(w http.ResponseWriter, err error, op string) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		h.respondErrorWithOp(w, reqErr.status, reqErr.msg, op)
		return
	}
	h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
