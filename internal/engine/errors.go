package engine

import "errors"

// Edit operations validate their full input before touching any element and
// return one of these sentinel errors (usually wrapped with context) when
// rejecting a request. A returned error means the input timeline value is
// unchanged.
var (
	ErrInvalidInterval      = errors.New("invalid interval")
	ErrOverlappingIntervals = errors.New("overlapping intervals")
	ErrElementNotFound      = errors.New("element not found")
	ErrTrackNotFound        = errors.New("track not found")
	ErrUnknownElementID     = errors.New("unknown element id")
	ErrSplitOutOfBounds     = errors.New("split time out of bounds")
	ErrRippleUnderflow      = errors.New("ripple would move an element before time zero")
	ErrMoveCollision        = errors.New("destination range is occupied")
)
