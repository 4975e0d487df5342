package model

import "time"

// ScoredResponse is one submission of the HPO questionnaire.
// Score columns are nullable so rows written by older tooling with gaps still load.
type ScoredResponse struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Timestamp  time.Time `json:"timestamp" gorm:"column:timestamp;autoCreateTime;index"`
	A1         *int      `json:"a1" gorm:"column:a1"`
	A2         *int      `json:"a2" gorm:"column:a2"`
	B1         *int      `json:"b1" gorm:"column:b1"`
	B2         *int      `json:"b2" gorm:"column:b2"`
	C1         *int      `json:"c1" gorm:"column:c1"`
	C2         *int      `json:"c2" gorm:"column:c2"`
	D1         *int      `json:"d1" gorm:"column:d1"`
	D2         *int      `json:"d2" gorm:"column:d2"`
	E1         *int      `json:"e1" gorm:"column:e1"`
	E2         *int      `json:"e2" gorm:"column:e2"`
	F1         *int      `json:"f1" gorm:"column:f1"`
	F2         *int      `json:"f2" gorm:"column:f2"`
	G1         *int      `json:"g1" gorm:"column:g1"`
	G2         *int      `json:"g2" gorm:"column:g2"`
	Comentario string    `json:"comentario" gorm:"column:comentario;type:text"`
	SessionID  string    `json:"session_id" gorm:"column:session_id;type:varchar(36);index"`
}

// TableName pins the table name used by the original schema.
func (ScoredResponse) TableName() string {
	return "responses"
}

// Scores returns the 14 score cells in item order (a1, a2, b1 ... g2).
func (r *ScoredResponse) Scores() [ItemCount]*int {
	return [ItemCount]*int{
		r.A1, r.A2, r.B1, r.B2, r.C1, r.C2, r.D1,
		r.D2, r.E1, r.E2, r.F1, r.F2, r.G1, r.G2,
	}
}

// SetScores assigns the 14 score cells in item order.
func (r *ScoredResponse) SetScores(scores [ItemCount]*int) {
	r.A1, r.A2, r.B1, r.B2 = scores[0], scores[1], scores[2], scores[3]
	r.C1, r.C2, r.D1, r.D2 = scores[4], scores[5], scores[6], scores[7]
	r.E1, r.E2, r.F1, r.F2 = scores[8], scores[9], scores[10], scores[11]
	r.G1, r.G2 = scores[12], scores[13]
}

// LeadershipResponse is a single yes/no answer belonging to one leadership submission.
type LeadershipResponse struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SessionID    string    `json:"session_id" gorm:"column:session_id;type:varchar(36);index"`
	Timestamp    time.Time `json:"timestamp" gorm:"column:timestamp;index"`
	QuestionID   string    `json:"question_id" gorm:"column:question_id;type:varchar(16);index"`
	Response     string    `json:"response" gorm:"column:response;type:varchar(8)"`
	ResponseTime float64   `json:"response_time" gorm:"column:response_time"`
}

// TableName pins the table name used by the original schema.
func (LeadershipResponse) TableName() string {
	return "lideranca_responses"
}
