package stores

import (
	"errors"
	"fmt"
)

type ValidationError struct {
	Reason string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("creation of store failed for reason : %s ", ve.Reason)
}

var (
	// ErrStoreClosed is delivered to completions of operations submitted after Close.
	ErrStoreClosed = errors.New("store closed")

	// ErrCorruptCache is returned when the persisted cache cannot be decoded.
	ErrCorruptCache = errors.New("cached feed is corrupt")
)
