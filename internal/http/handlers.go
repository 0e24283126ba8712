package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"loandash/internal/core"
	"loandash/internal/engine"
	applog "loandash/internal/log"
)

// writeJSON encodes v as the response body with a 200 status.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// writeQueryError maps engine errors to HTTP statuses: malformed client input
// gets 400, anything else 500.
func writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, engine.ErrInvalidDate) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sl := applog.NewStructuredLogger(applog.FromContext(r.Context()))
	sl.LogError(r.Context(), "Query failed", err, applog.ComponentHTTP, r.URL.Path, applog.NewFields())
	writeError(w, http.StatusInternalServerError, "internal error")
}

func requireGET(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// handleMonthly serves the month-by-grade loan amount matrix.
func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	start := time.Now()
	p := ParseQueryParams(r.URL.Query())

	key := p.CacheKey()
	matrix, hit := s.monthlyCache.Get(key)
	if !hit {
		var err error
		matrix, err = s.engine.MonthlyByGrade(p.Start, p.End, p.Grades)
		if err != nil {
			writeQueryError(w, r, err)
			return
		}
		s.monthlyCache.Set(key, matrix)
	}

	resp := struct {
		Months  []string    `json:"months"`
		Grades  []string    `json:"grades"`
		Amounts [][]float64 `json:"amounts"`
	}{
		Months:  make([]string, 0, len(matrix.Months)),
		Grades:  matrix.Grades,
		Amounts: matrix.Amounts,
	}
	for _, m := range matrix.Months {
		resp.Months = append(resp.Months, m.Format("2006-01-02"))
	}
	if resp.Grades == nil {
		resp.Grades = []string{}
	}
	if resp.Amounts == nil {
		resp.Amounts = [][]float64{}
	}

	writeJSON(w, resp)
	s.finishQuery(r, "monthly", p, len(matrix.Months), start)
}

// handleStates serves the per-state summary table.
func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	start := time.Now()
	p := ParseQueryParams(r.URL.Query())

	key := p.Start + "|" + p.End
	rows, hit := s.statesCache.Get(key)
	if !hit {
		var err error
		rows, err = s.engine.StateSummary(p.Start, p.End)
		if err != nil {
			writeQueryError(w, r, err)
			return
		}
		s.statesCache.Set(key, rows)
	}

	if rows == nil {
		rows = []engine.StateRow{}
	}
	writeJSON(w, struct {
		States []engine.StateRow `json:"states"`
	}{States: rows})
	s.finishQuery(r, "states", p, len(rows), start)
}

// handleCategories serves the top-N category ranking for a chosen variable.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	start := time.Now()
	q := r.URL.Query()
	p := ParseQueryParams(q)
	variable := ParseVariable(q, "purpose")
	topN := ParseTopN(q)

	rows, err := s.engine.CategoryRanking(variable, p.Start, p.End, topN)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}

	if rows == nil {
		rows = []engine.CategoryRow{}
	}
	writeJSON(w, struct {
		Variable   string               `json:"variable"`
		Categories []engine.CategoryRow `json:"categories"`
	}{Variable: variable, Categories: rows})
	s.finishQuery(r, "categories", p, len(rows), start)
}

// handleHierarchy serves the grade/sub-grade sunburst tree.
func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	start := time.Now()
	p := ParseQueryParams(r.URL.Query())

	nodes, err := s.engine.Hierarchy(p.Start, p.End)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}

	if nodes == nil {
		nodes = []engine.Node{}
	}
	writeJSON(w, struct {
		Nodes []engine.Node `json:"nodes"`
	}{Nodes: nodes})
	s.finishQuery(r, "hierarchy", p, len(nodes), start)
}

// handleRisk serves loan amount totals per risk band.
func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	start := time.Now()
	q := r.URL.Query()
	p := ParseQueryParams(q)
	mode := ParseGroupMode(q)
	grade := q.Get("grade")

	bands, err := s.engine.AmountByRiskBand(p.Start, p.End, mode, grade)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}

	if bands == nil {
		bands = []engine.BandTotal{}
	}
	writeJSON(w, struct {
		Mode  string             `json:"mode"`
		Bands []engine.BandTotal `json:"bands"`
	}{Mode: string(mode), Bands: bands})
	s.finishQuery(r, "risk", p, len(bands), start)
}

// handleMeta serves dataset bounds used to initialize dashboard controls.
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}

	ds := s.engine.Dataset()
	variables := make([]string, 0, len(core.CategoricalColumns))
	for _, c := range core.CategoricalColumns {
		if ds.Has(c) {
			variables = append(variables, string(c))
		}
	}

	resp := struct {
		MinDate   string   `json:"min_date"`
		MaxDate   string   `json:"max_date"`
		Grades    []string `json:"grades"`
		Variables []string `json:"variables"`
		LoanCount int      `json:"loan_count"`
	}{
		Grades:    s.engine.Grades(),
		Variables: variables,
		LoanCount: ds.Len(),
	}
	if min, max, ok := s.engine.DateRange(); ok {
		resp.MinDate = min.Format("2006-01-02")
		resp.MaxDate = max.Format("2006-01-02")
	}
	if resp.Grades == nil {
		resp.Grades = []string{}
	}

	writeJSON(w, resp)
}

// handleValues serves the distinct values of a categorical column.
func (s *Server) handleValues(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	variable := ParseVariable(r.URL.Query(), "grade")

	values := s.engine.Values(variable)
	if values == nil {
		values = []string{}
	}
	writeJSON(w, struct {
		Variable string   `json:"variable"`
		Values   []string `json:"values"`
	}{Variable: variable, Values: values})
}
