package model

import (
	"encoding/json"
	"time"
)

// FFPSubmission is one Free Financial Plan survey submission.
type FFPSubmission struct {
	ID        string
	UserID    string
	Metadata  string // raw JSON payload as stored
	CreatedAt time.Time
}

// FFPReview is user feedback on the FFP experience.
type FFPReview struct {
	ID        string
	Reaction  string
	Comment   string
	CreatedAt time.Time
}

// Answers parses the submission metadata into a question -> answer map.
// The payload looks like {"plan":[{"question":"...","answer":...}, ...]}
// where the answer may be a string, number, list or object. Malformed or
// unexpected payloads yield an empty map, never an error.
func (s FFPSubmission) Answers() map[string]any {
	var payload struct {
		Plan []map[string]any `json:"plan"`
	}
	if err := json.Unmarshal([]byte(s.Metadata), &payload); err != nil {
		return map[string]any{}
	}
	answers := make(map[string]any, len(payload.Plan))
	for _, item := range payload.Plan {
		q, ok := item["question"].(string)
		if !ok {
			continue
		}
		if a, present := item["answer"]; present && answered(a) {
			answers[q] = a
		}
	}
	return answers
}

// answered reports whether a decoded JSON value counts as a real answer.
// null, "", [] and {} do not.
func answered(v any) bool {
	switch a := v.(type) {
	case nil:
		return false
	case string:
		return a != ""
	case []any:
		return len(a) > 0
	case map[string]any:
		return len(a) > 0
	default:
		return true
	}
}

// AnsweredCount returns the number of non-empty answers.
func (s FFPSubmission) AnsweredCount() int {
	return len(s.Answers())
}
