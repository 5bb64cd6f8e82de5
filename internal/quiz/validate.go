package quiz

import "fmt"

// ValidateQuestion enforces the authoring invariants shared by manually
// written and generated questions: a known type, a non-empty answer key,
// and for multiple-choice a non-empty option list that contains every
// acceptable answer literally.
func ValidateQuestion(q Question) error {
	if q.Text == "" {
		return fmt.Errorf("question text required")
	}
	switch q.Type {
	case TypeMultipleChoice, TypeTrueFalse, TypeShortAnswer:
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	if len(q.AnswerKey) == 0 {
		return fmt.Errorf("answer key required")
	}
	if q.Type == TypeMultipleChoice {
		if len(q.Options) == 0 {
			return fmt.Errorf("multiple-choice question requires options")
		}
		opts := make(map[string]struct{}, len(q.Options))
		for _, o := range q.Options {
			opts[o] = struct{}{}
		}
		for _, k := range q.AnswerKey {
			if _, ok := opts[k]; !ok {
				return fmt.Errorf("answer key %q is not one of the options", k)
			}
		}
	}
	return nil
}

// ValidateQuiz checks authoring-time constraints. A quiz may be saved as a
// draft with no questions; attempts against it are rejected at start time.
func ValidateQuiz(q Quiz) error {
	if q.Title == "" {
		return fmt.Errorf("quiz title required")
	}
	if q.TimeLimitMin <= 0 {
		return fmt.Errorf("time limit must be positive")
	}
	return nil
}
