// Package export renders stored rows as CSV with the table's column names as header.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"surveydesk/internal/model"
)

// Table column orders, verbatim from the schema.
var (
	ScoredHeader     = append(append([]string{"id", "timestamp"}, model.ScoreColumns()...), "comentario", "session_id")
	LeadershipHeader = []string{"id", "session_id", "timestamp", "question_id", "response", "response_time"}
	UsersHeader      = []string{"id", "username", "role", "created_at"}
)

const timeLayout = time.RFC3339Nano

// ScoredCSV renders every HPO response. Null scores become empty cells.
func ScoredCSV(rows []model.ScoredResponse) ([]byte, error) {
	return render(ScoredHeader, len(rows), func(i int) []string {
		r := &rows[i]
		rec := make([]string, 0, len(ScoredHeader))
		rec = append(rec, uitoa(r.ID), r.Timestamp.Format(timeLayout))
		for _, cell := range r.Scores() {
			if cell == nil {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, strconv.Itoa(*cell))
		}
		return append(rec, r.Comentario, r.SessionID)
	})
}

// LeadershipCSV renders every leadership answer.
func LeadershipCSV(rows []model.LeadershipResponse) ([]byte, error) {
	return render(LeadershipHeader, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			uitoa(r.ID),
			r.SessionID,
			r.Timestamp.Format(timeLayout),
			r.QuestionID,
			r.Response,
			strconv.FormatFloat(r.ResponseTime, 'f', -1, 64),
		}
	})
}

// UsersCSV renders accounts without their password digest.
func UsersCSV(users []model.User) ([]byte, error) {
	return render(UsersHeader, len(users), func(i int) []string {
		u := users[i]
		return []string{uitoa(u.ID), u.Username, string(u.Role), u.CreatedAt.Format(timeLayout)}
	})
}

func render(header []string, n int, record func(i int) []string) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(record(i)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ParseScoredCSV reads a ScoredCSV export back into rows.
func ParseScoredCSV(r io.Reader) ([]model.ScoredResponse, error) {
	recs, err := readAll(r, ScoredHeader)
	if err != nil {
		return nil, err
	}
	rows := make([]model.ScoredResponse, 0, len(recs))
	for line, rec := range recs {
		var row model.ScoredResponse
		if row.ID, err = parseUint(rec[0]); err != nil {
			return nil, lineErr(line, "id", err)
		}
		if row.Timestamp, err = time.Parse(timeLayout, rec[1]); err != nil {
			return nil, lineErr(line, "timestamp", err)
		}
		var scores [model.ItemCount]*int
		for i := range scores {
			cell := rec[2+i]
			if cell == "" {
				continue
			}
			v, err := strconv.Atoi(cell)
			if err != nil {
				return nil, lineErr(line, ScoredHeader[2+i], err)
			}
			scores[i] = &v
		}
		row.SetScores(scores)
		row.Comentario = rec[2+model.ItemCount]
		row.SessionID = rec[3+model.ItemCount]
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseLeadershipCSV reads a LeadershipCSV export back into rows.
func ParseLeadershipCSV(r io.Reader) ([]model.LeadershipResponse, error) {
	recs, err := readAll(r, LeadershipHeader)
	if err != nil {
		return nil, err
	}
	rows := make([]model.LeadershipResponse, 0, len(recs))
	for line, rec := range recs {
		row := model.LeadershipResponse{SessionID: rec[1], QuestionID: rec[3], Response: rec[4]}
		if row.ID, err = parseUint(rec[0]); err != nil {
			return nil, lineErr(line, "id", err)
		}
		if row.Timestamp, err = time.Parse(timeLayout, rec[2]); err != nil {
			return nil, lineErr(line, "timestamp", err)
		}
		if row.ResponseTime, err = strconv.ParseFloat(rec[5], 64); err != nil {
			return nil, lineErr(line, "response_time", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readAll(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("parse csv: missing header")
	}
	if got, want := strings.Join(recs[0], ","), strings.Join(header, ","); got != want {
		return nil, fmt.Errorf("parse csv: header %q, want %q", got, want)
	}
	return recs[1:], nil
}

func lineErr(line int, column string, err error) error {
	// +2: one for the header, one for 1-based numbering
	return fmt.Errorf("parse csv: line %d column %s: %w", line+2, column, err)
}

func uitoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func parseUint(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	return uint(v), err
}
