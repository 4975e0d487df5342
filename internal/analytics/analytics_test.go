package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveydesk/internal/model"
)

func intp(v int) *int { return &v }

func TestScoredStats(t *testing.T) {
	tests := []struct {
		name string
		rows []model.ScoredResponse
		want map[string]DomainStats
	}{
		{
			name: "pools both items of a domain across rows",
			rows: []model.ScoredResponse{
				{A1: intp(4), A2: intp(5)},
				{A1: intp(2), A2: intp(3)},
			},
			want: map[string]DomainStats{
				"A": {Mean: 3.5, Count: 4, Min: 2, Max: 5},
			},
		},
		{
			name: "null cells are skipped",
			rows: []model.ScoredResponse{
				{B1: intp(1), B2: nil, G2: intp(5)},
				{B1: nil, B2: intp(2)},
			},
			want: map[string]DomainStats{
				"B": {Mean: 1.5, Count: 2, Min: 1, Max: 2},
				"G": {Mean: 5, Count: 1, Min: 5, Max: 5},
			},
		},
		{
			name: "no rows gives empty result",
			rows: nil,
			want: map[string]DomainStats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoredStats(tt.rows)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ScoredStats() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScoredStats_AllDomains(t *testing.T) {
	r := model.ScoredResponse{}
	var scores [model.ItemCount]*int
	for i := range scores {
		scores[i] = intp(5)
	}
	r.SetScores(scores)

	got := ScoredStats([]model.ScoredResponse{r})

	require.Len(t, got, 7)
	for _, d := range model.Domains {
		assert.Equal(t, DomainStats{Mean: 5, Count: 2, Min: 5, Max: 5}, got[d.Code], d.Code)
	}
}

func TestItemDistribution(t *testing.T) {
	rows := []model.ScoredResponse{
		{A1: intp(1), A2: intp(5)},
		{A1: intp(1), A2: intp(9)},
	}

	got := ItemDistribution(rows)

	assert.Equal(t, [model.ScoreMax]int{2, 0, 0, 0, 0}, got["a1"])
	assert.Equal(t, [model.ScoreMax]int{0, 0, 0, 0, 1}, got["a2"])
	_, ok := got["b1"]
	assert.False(t, ok)
}

func TestLeadershipStats(t *testing.T) {
	rows := []model.LeadershipResponse{
		{SessionID: "s1", QuestionID: "q1", Response: "SIM"},
		{SessionID: "s2", QuestionID: "q1", Response: "sim"},
		{SessionID: "s3", QuestionID: "q1", Response: "NÃO"},
		{SessionID: "s1", QuestionID: "q2", Response: " não "},
	}

	got := LeadershipStats(rows)

	require.Len(t, got, 2)
	q1 := got["q1"]
	assert.Equal(t, 3, q1.Total)
	assert.Equal(t, map[string]int{"SIM": 2, "NÃO": 1}, q1.Distribution)
	assert.Equal(t, "66.67", q1.Percentages["SIM"].StringFixed(2))
	assert.Equal(t, "33.33", q1.Percentages["NÃO"].StringFixed(2))

	q2 := got["q2"]
	assert.Equal(t, 1, q2.Total)
	assert.Equal(t, map[string]int{"NÃO": 1}, q2.Distribution)
	assert.Equal(t, "100.00", q2.Percentages["NÃO"].StringFixed(2))
}

func TestSessionCount(t *testing.T) {
	rows := []model.LeadershipResponse{
		{SessionID: "a"}, {SessionID: "a"}, {SessionID: "b"},
	}
	assert.Equal(t, 2, SessionCount(rows))
	assert.Equal(t, 0, SessionCount(nil))
}
