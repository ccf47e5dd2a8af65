package services

import "errors"

// Expected business outcomes. Handlers match these with errors.Is and map
// them to HTTP statuses; anything that is not one of these is a storage
// failure and is surfaced to the caller unchanged.
var (
	ErrInvalidWindow                = errors.New("challenge window must satisfy start < end < voting end")
	ErrChallengeNotFound            = errors.New("challenge not found")
	ErrChallengeNotAcceptingEntries = errors.New("challenge is not accepting entries")
	ErrDuplicateEntry               = errors.New("participant already has an entry in this challenge")
	ErrEntryNotFound                = errors.New("entry not found")
	ErrVotingClosed                 = errors.New("challenge is not open for voting")
	ErrSelfVoteForbidden            = errors.New("participants cannot vote for their own entry")
	ErrIllegalTransition            = errors.New("target phase is not the immediate successor of the current phase")
	ErrEntryNotInChallenge          = errors.New("entry does not belong to this challenge")
	ErrChallengeNotCompleted        = errors.New("challenge voting has not completed")
)
