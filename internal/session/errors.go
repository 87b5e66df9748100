package session

import "errors"

var (
	// ErrLoad wraps every question-loading failure. A controller whose load
	// failed cannot be started.
	ErrLoad = errors.New("load questions")

	ErrNotStarted       = errors.New("exam not started")
	ErrAlreadyStarted   = errors.New("exam already started")
	ErrFinished         = errors.New("exam already finished")
	ErrClosed           = errors.New("exam closed")
	ErrUnknownQuestion  = errors.New("unknown question")
	ErrAnswerMismatch   = errors.New("answer does not match question type")
	ErrNoAnswerAccepted = errors.New("question takes no answer")
	ErrAtFirstQuestion  = errors.New("already at the first question")
)
