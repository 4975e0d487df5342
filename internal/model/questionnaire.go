package model

import "fmt"

// ItemCount is the number of Likert items in the HPO questionnaire.
const ItemCount = 14

const (
	// ScoreMin and ScoreMax bound every Likert answer.
	ScoreMin = 1
	ScoreMax = 5
)

// Leadership answer values.
const (
	ResponseYes = "SIM"
	ResponseNo  = "NÃO"
)

// Domain groups two consecutive HPO items.
type Domain struct {
	Code  string  `json:"code"`
	Title string  `json:"title"`
	Items [2]Item `json:"items"`
}

// Item is one Likert statement; Column is the responses table column holding its score.
type Item struct {
	Column    string `json:"column"`
	Statement string `json:"statement"`
}

// Domains is the fixed HPO layout, in column order.
var Domains = []Domain{
	{Code: "A", Title: "Liderança e Gestão", Items: [2]Item{
		{Column: "a1", Statement: "Os líderes comunicam eficazmente a visão da organização"},
		{Column: "a2", Statement: "Os gestores apoiam o desenvolvimento da equipa"},
	}},
	{Code: "B", Title: "Processos e Eficiência", Items: [2]Item{
		{Column: "b1", Statement: "Os processos são eficientes e bem definidos"},
		{Column: "b2", Statement: "Existe pouca burocracia desnecessária"},
	}},
	{Code: "C", Title: "Orientação para Resultados", Items: [2]Item{
		{Column: "c1", Statement: "Os objetivos da equipa são claros e mensuráveis"},
		{Column: "c2", Statement: "O desempenho é acompanhado de forma regular"},
	}},
	{Code: "D", Title: "Melhoria Contínua", Items: [2]Item{
		{Column: "d1", Statement: "A organização procura melhorar continuamente os seus serviços"},
		{Column: "d2", Statement: "Os erros são tratados como oportunidades de aprendizagem"},
	}},
	{Code: "E", Title: "Abertura e Comunicação", Items: [2]Item{
		{Column: "e1", Statement: "Os colaboradores são ouvidos antes das decisões importantes"},
		{Column: "e2", Statement: "A informação circula de forma transparente"},
	}},
	{Code: "F", Title: "Orientação de Longo Prazo", Items: [2]Item{
		{Column: "f1", Statement: "As decisões têm em conta o futuro da organização"},
		{Column: "f2", Statement: "Existe estabilidade nas equipas e nas relações com parceiros"},
	}},
	{Code: "G", Title: "Qualidade dos Colaboradores", Items: [2]Item{
		{Column: "g1", Statement: "Os colaboradores são competentes e responsáveis"},
		{Column: "g2", Statement: "A organização atrai e retém bons profissionais"},
	}},
}

// ScoreColumns lists the responses table score columns in item order.
func ScoreColumns() []string {
	cols := make([]string, 0, ItemCount)
	for _, d := range Domains {
		cols = append(cols, d.Items[0].Column, d.Items[1].Column)
	}
	return cols
}

// LeadershipQuestion is one yes/no statement of the leadership questionnaire.
type LeadershipQuestion struct {
	ID        string `json:"id"`
	Statement string `json:"statement"`
}

var leadershipStatements = []string{
	"O meu líder define objetivos claros para a equipa",
	"O meu líder dá feedback regular sobre o meu trabalho",
	"O meu líder reconhece o bom desempenho",
	"O meu líder está disponível quando preciso de apoio",
	"O meu líder envolve a equipa nas decisões",
	"O meu líder age de acordo com o que diz",
	"O meu líder trata todos os colaboradores de forma justa",
	"O meu líder incentiva novas ideias",
	"O meu líder resolve conflitos de forma construtiva",
	"Recomendaria o meu líder a um colega",
}

// LeadershipQuestions is the fixed leadership questionnaire with sequential ids q1..qN.
var LeadershipQuestions = buildLeadershipQuestions()

func buildLeadershipQuestions() []LeadershipQuestion {
	qs := make([]LeadershipQuestion, len(leadershipStatements))
	for i, s := range leadershipStatements {
		qs[i] = LeadershipQuestion{ID: QuestionID(i + 1), Statement: s}
	}
	return qs
}

// QuestionID returns the sequential leadership question id for a 1-based position.
func QuestionID(n int) string {
	return fmt.Sprintf("q%d", n)
}

// LeadershipAnswer is one answer of a leadership submission before persistence.
type LeadershipAnswer struct {
	QuestionID     string  `json:"question_id" validate:"required"`
	Response       string  `json:"response" validate:"required"`
	ElapsedSeconds float64 `json:"response_time" validate:"gte=0"`
}
