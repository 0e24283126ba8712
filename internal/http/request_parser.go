package http

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"loandash/internal/engine"
)

// QueryParams holds the common filter parameters of the dashboard API.
// Dates stay as strings; the engine validates them.
type QueryParams struct {
	Start  string
	End    string
	Grades []string
}

// ParseQueryParams extracts start, end, and grades from query parameters.
// Grades may be repeated ("grades=A&grades=B") or comma-separated.
func ParseQueryParams(query url.Values) QueryParams {
	p := QueryParams{
		Start: strings.TrimSpace(query.Get("start")),
		End:   strings.TrimSpace(query.Get("end")),
	}

	for _, raw := range query["grades"] {
		for _, g := range strings.Split(raw, ",") {
			if g = strings.TrimSpace(g); g != "" {
				p.Grades = append(p.Grades, g)
			}
		}
	}

	return p
}

// CacheKey returns a canonical key for these parameters. Grade order does not
// change query results, so grades are sorted before joining.
func (p QueryParams) CacheKey() string {
	grades := make([]string, len(p.Grades))
	copy(grades, p.Grades)
	sort.Strings(grades)
	return p.Start + "|" + p.End + "|" + strings.Join(grades, ",")
}

// ParseTopN extracts the top-N limit; zero means no limit.
func ParseTopN(query url.Values) int {
	v := strings.TrimSpace(query.Get("top"))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseVariable extracts the grouping variable with a default.
func ParseVariable(query url.Values, def string) string {
	if v := strings.TrimSpace(query.Get("variable")); v != "" {
		return v
	}
	return def
}

// ParseGroupMode extracts the risk-band grouping mode.
func ParseGroupMode(query url.Values) engine.GroupMode {
	if strings.TrimSpace(query.Get("mode")) == string(engine.GroupBySubGrade) {
		return engine.GroupBySubGrade
	}
	return engine.GroupByGrade
}
