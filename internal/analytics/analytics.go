// Package analytics computes descriptive statistics over stored responses.
// Every function is pure: no I/O, same input rows give the same output.
package analytics

import (
	"strings"

	"github.com/shopspring/decimal"

	"surveydesk/internal/model"
)

// DomainStats summarises the pooled scores of one HPO domain.
type DomainStats struct {
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
}

// QuestionStats summarises the answers given to one leadership question across all sessions.
type QuestionStats struct {
	Total        int                        `json:"total"`
	Distribution map[string]int             `json:"distribution"`
	Percentages  map[string]decimal.Decimal `json:"percentages"`
}

// ScoredStats pools both items of every domain and returns mean, count, min and max per domain code.
// Null cells are skipped; domains without any value are left out of the result.
func ScoredStats(rows []model.ScoredResponse) map[string]DomainStats {
	out := make(map[string]DomainStats, len(model.Domains))
	for d, domain := range model.Domains {
		var (
			sum   int
			stats DomainStats
		)
		for i := range rows {
			scores := rows[i].Scores()
			for _, cell := range scores[2*d : 2*d+2] {
				if cell == nil {
					continue
				}
				v := *cell
				if stats.Count == 0 || v < stats.Min {
					stats.Min = v
				}
				if stats.Count == 0 || v > stats.Max {
					stats.Max = v
				}
				sum += v
				stats.Count++
			}
		}
		if stats.Count == 0 {
			continue
		}
		stats.Mean = float64(sum) / float64(stats.Count)
		out[domain.Code] = stats
	}
	return out
}

// ItemDistribution counts how often each Likert value was chosen, per score column.
// Index 0 holds the count of 1s, index 4 the count of 5s; out-of-range values are ignored.
func ItemDistribution(rows []model.ScoredResponse) map[string][model.ScoreMax]int {
	columns := model.ScoreColumns()
	out := make(map[string][model.ScoreMax]int, len(columns))
	for i := range rows {
		for c, cell := range rows[i].Scores() {
			if cell == nil || *cell < model.ScoreMin || *cell > model.ScoreMax {
				continue
			}
			hist := out[columns[c]]
			hist[*cell-1]++
			out[columns[c]] = hist
		}
	}
	return out
}

// LeadershipStats counts answers per question id. Responses are trimmed and upper-cased first,
// so "sim" and "SIM" land in the same bucket.
func LeadershipStats(rows []model.LeadershipResponse) map[string]QuestionStats {
	out := make(map[string]QuestionStats)
	for _, r := range rows {
		qs, ok := out[r.QuestionID]
		if !ok {
			qs.Distribution = make(map[string]int)
		}
		qs.Total++
		qs.Distribution[NormalizeResponse(r.Response)]++
		out[r.QuestionID] = qs
	}
	for id, qs := range out {
		qs.Percentages = make(map[string]decimal.Decimal, len(qs.Distribution))
		total := decimal.NewFromInt(int64(qs.Total))
		for value, n := range qs.Distribution {
			qs.Percentages[value] = decimal.NewFromInt(int64(n)).
				Mul(decimal.NewFromInt(100)).
				Div(total).
				Round(2)
		}
		out[id] = qs
	}
	return out
}

// SessionCount returns the number of distinct leadership submissions.
func SessionCount(rows []model.LeadershipResponse) int {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.SessionID] = struct{}{}
	}
	return len(seen)
}

// NormalizeResponse is the canonical form a leadership answer is counted under.
func NormalizeResponse(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
