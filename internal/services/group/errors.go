package group

import "errors"

// Service errors
var (
	ErrInvalidGroupRequest = errors.New("invalid group request")
	ErrInvalidVote         = errors.New("vote must be approved or rejected")
)
