package sealer

import "errors"

// ErrMissingPlayerID is returned when a seal is requested without a player id
var ErrMissingPlayerID = errors.New("player id cannot be empty")
