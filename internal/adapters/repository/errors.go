package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrDuplicateResult   = errors.New("duplicate tournament result")
	ErrTournamentExists  = errors.New("tournament already exists")
	ErrTournamentUnknown = errors.New("tournament not found")
	ErrAthleteUnknown    = errors.New("athlete not found")
	ErrInvalidLimit      = errors.New("invalid rating limit")
)
