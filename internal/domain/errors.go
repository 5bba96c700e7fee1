package domain

import "errors"

var (
	ErrEventStartMissing = errors.New("event start time missing")
	ErrNoClassesParsed   = errors.New("no classes parsed from schedule document")
)
