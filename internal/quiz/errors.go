package quiz

import "errors"

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrTopicNotFound    = errors.New("topic not found")
	ErrClassNotFound    = errors.New("class not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
)
