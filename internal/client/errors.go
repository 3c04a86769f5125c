package client

import "errors"

var (
	// ErrNoActiveQuestion is returned when an answer is submitted while
	// no question is in progress.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrNoQuizLoaded is returned when an operation needs quiz content
	// that has not arrived yet.
	ErrNoQuizLoaded = errors.New("no quiz loaded")
)
