package domain

const ConflictDirect = "DirectConflict"

type Conflict struct {
	Type   string    `json:"type"`
	First  Assertion `json:"assertion_1"`
	Second Assertion `json:"assertion_2"`
	Reason string    `json:"reason"`
}

type OpenQuestionType string

const (
	QuestionConditionalAssumption OpenQuestionType = "ConditionalAssumption"
	QuestionUncertainty           OpenQuestionType = "Uncertainty"
)

type OpenQuestion struct {
	Type      OpenQuestionType `json:"type"`
	Assertion Assertion        `json:"assertion"`
	Question  string           `json:"question"`
}

type LogicReport struct {
	Conflicts     []Conflict     `json:"contradictions"`
	OpenQuestions []OpenQuestion `json:"open_questions"`
}
