package models

import (
	"errors"
	"fmt"
)

var (
	ErrDataUnavailable      = errors.New("league data unavailable")
	ErrTeamNotFound         = errors.New("team not found")
	ErrTeamNotSpecified     = errors.New("team not specified")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrPlayerNotOnTeam      = errors.New("player not on team")
)

// TeamNotFoundError keeps the key that failed to resolve so callers can show it.
type TeamNotFoundError struct {
	Key string
}

func (e *TeamNotFoundError) Error() string {
	return fmt.Sprintf("team not found: %q", e.Key)
}

func (e *TeamNotFoundError) Is(target error) bool {
	return target == ErrTeamNotFound
}
