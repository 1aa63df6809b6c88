package model

import "github.com/pkg/errors"

// Failure taxonomy. Wrap these with errors.Wrapf for context and test with
// errors.Is at the boundary.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrCorrupt         = errors.New("corrupt midi file")
	ErrInternal        = errors.New("internal error")
)
