package fantasy

import "errors"

var (
	ErrTeamNotFound    = errors.New("team not found")
	ErrGolferNotFound  = errors.New("golfer not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSeasonNotFound  = errors.New("season not found")
	ErrFeedUnavailable = errors.New("feed unavailable")
	ErrInvalidSeat     = errors.New("invalid seat")
	ErrInvalidIntent   = errors.New("invalid roster intent")
)
