// Package handlers provides the HTTP request handlers for the lottery API
// endpoints: result fetching, historical draws, ticket checking, draw
// countdown, and health checks.
package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/thanawat/thailotto-api/fetcher"
	"github.com/thanawat/thailotto-api/interfaces"
	"github.com/thanawat/thailotto-api/logging"
	"github.com/thanawat/thailotto-api/lottery"
	"github.com/thanawat/thailotto-api/lotteryparser"
	"github.com/thanawat/thailotto-api/lotteryparser/entities"
)

const (
	defaultPreviousLimit = 5
	maxPreviousLimit     = 20
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Handler serves the lottery API endpoints with injected dependencies.
type Handler struct {
	fetcher *fetcher.Fetcher
	health  interfaces.HealthChecker
}

// NewHandler creates a handler backed by the given fetch orchestrator and
// health checker.
func NewHandler(f *fetcher.Fetcher, h interfaces.HealthChecker) *Handler {
	return &Handler{fetcher: f, health: h}
}

// envelope is the response shape shared by the result endpoints.
type envelope struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data"`
	Cached   bool   `json:"cached"`
	Fallback bool   `json:"fallback,omitempty"`
	Error    string `json:"error,omitempty"`
}

// RespondWithJSON writes a JSON response with the standard headers.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error envelope.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, envelope{Success: false, Error: message})
}

// buildView renders a record for API consumers, mapping render failures to
// a bad-gateway error since they indicate malformed upstream data.
func (h *Handler) buildView(w http.ResponseWriter, rec *entities.DrawRecord) (*entities.DrawView, bool) {
	view, err := lotteryparser.BuildView(rec, h.fetcher.Now())
	if err != nil {
		logging.Error("Failed to render draw view", "draw_date", rec.DrawDate, "error", err)
		RespondWithError(w, http.StatusBadGateway, "Upstream returned malformed draw data")
		return nil, false
	}
	return view, true
}

// FetchLottery handles GET /fetch-lottery. With no parameters it serves
// the latest draw through the cache TTL; refresh=true forces an upstream
// fetch, and date=YYYY-MM-DD looks up a specific draw instead.
func (h *Handler) FetchLottery(w http.ResponseWriter, r *http.Request) {
	if date := r.URL.Query().Get("date"); date != "" {
		h.serveByDate(w, r, date)
		return
	}

	force := r.URL.Query().Get("refresh") == "true"
	res, err := h.fetcher.FetchLatest(r.Context(), force)
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Failed to fetch lottery results")
		return
	}

	view, ok := h.buildView(w, res.Record)
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, envelope{
		Success:  true,
		Data:     view,
		Cached:   res.Cached,
		Fallback: res.Fallback,
	})
}

// FetchLotteryByDate handles POST /fetch-lottery-by-date with a JSON body
// carrying the ISO date to look up.
func (h *Handler) FetchLotteryByDate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Date == "" {
		RespondWithError(w, http.StatusBadRequest, "Date parameter is required")
		return
	}

	h.serveByDate(w, r, body.Date)
}

func (h *Handler) serveByDate(w http.ResponseWriter, r *http.Request, date string) {
	if !isoDatePattern.MatchString(date) {
		RespondWithError(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format")
		return
	}

	rec, err := h.fetcher.FetchByDate(r.Context(), date)
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Failed to fetch lottery results")
		return
	}
	if rec == nil {
		// A draw that does not exist is a valid answer, not a failure.
		RespondWithJSON(w, http.StatusOK, envelope{
			Success: false,
			Error:   "No results found for this date",
		})
		return
	}

	view, ok := h.buildView(w, rec)
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, envelope{Success: true, Data: view})
}

// FetchPreviousDraws handles GET /fetch-previous-draws?limit=N.
func (h *Handler) FetchPreviousDraws(w http.ResponseWriter, r *http.Request) {
	limit := defaultPreviousLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPreviousLimit {
			RespondWithError(w, http.StatusBadRequest, "Limit must be between 1 and 20")
			return
		}
		limit = n
	}

	records, cached, err := h.fetcher.FetchPrevious(r.Context(), limit)
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Failed to fetch previous draws")
		return
	}

	// A malformed record is a hard failure for that record only; the rest
	// of the batch still serves.
	views := make([]*entities.DrawView, 0, len(records))
	for i := range records {
		view, err := lotteryparser.BuildView(&records[i], h.fetcher.Now())
		if err != nil {
			logging.Warn("Skipping draw with malformed prize data",
				"draw_date", records[i].DrawDate, "error", err)
			continue
		}
		views = append(views, view)
	}

	RespondWithJSON(w, http.StatusOK, envelope{Success: true, Data: views, Cached: cached})
}

// checkTicketResponse is the payload for ticket check results.
type checkTicketResponse struct {
	Ticket   string               `json:"ticket"`
	DrawDate string               `json:"drawDate"`
	Won      bool                 `json:"won"`
	Matches  []lottery.PrizeMatch `json:"matches"`
}

// CheckTicket handles POST /check-ticket. The body carries the six-digit
// ticket number and an optional ISO draw date; without a date the ticket
// is checked against the latest draw.
func (h *Handler) CheckTicket(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Ticket string `json:"ticket"`
		Date   string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Ticket == "" {
		RespondWithError(w, http.StatusBadRequest, "Ticket number is required")
		return
	}

	var rec *entities.DrawRecord
	if body.Date != "" {
		if !isoDatePattern.MatchString(body.Date) {
			RespondWithError(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format")
			return
		}
		found, err := h.fetcher.FetchByDate(r.Context(), body.Date)
		if err != nil {
			RespondWithError(w, http.StatusBadGateway, "Failed to fetch lottery results")
			return
		}
		if found == nil {
			RespondWithJSON(w, http.StatusOK, envelope{
				Success: false,
				Error:   "No results found for this date",
			})
			return
		}
		rec = found
	} else {
		res, err := h.fetcher.FetchLatest(r.Context(), false)
		if err != nil {
			RespondWithError(w, http.StatusBadGateway, "Failed to fetch lottery results")
			return
		}
		rec = res.Record
	}

	view, ok := h.buildView(w, rec)
	if !ok {
		return
	}

	matches, err := lottery.MatchTicket(view, body.Ticket)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Ticket number must be exactly 6 digits")
		return
	}

	RespondWithJSON(w, http.StatusOK, envelope{Success: true, Data: checkTicketResponse{
		Ticket:   body.Ticket,
		DrawDate: view.DrawDateISO,
		Won:      len(matches) > 0,
		Matches:  matches,
	}})
}

// nextDrawResponse is the payload for the draw countdown endpoint.
type nextDrawResponse struct {
	NextDrawDate string            `json:"nextDrawDate"`
	NextDrawTime string            `json:"nextDrawTime"`
	Countdown    lottery.Countdown `json:"countdown"`
}

// NextDraw handles GET /next-draw with the next draw instant and the time
// remaining until it.
func (h *Handler) NextDraw(w http.ResponseWriter, r *http.Request) {
	cd := lottery.UntilNextDraw(h.fetcher.Now())
	RespondWithJSON(w, http.StatusOK, envelope{Success: true, Data: nextDrawResponse{
		NextDrawDate: cd.Target.Format("2006-01-02"),
		NextDrawTime: cd.Target.Format("15:04"),
		Countdown:    cd,
	}})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.health.HealthCheck(r.Context())
	details["status"] = status
	RespondWithJSON(w, httpStatus, details)
}
