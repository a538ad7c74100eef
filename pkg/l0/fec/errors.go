package fec

import (
	"errors"
	"fmt"
)

var (
	// ErrUncorrectableBlock indicates a codeword had more errors than the
	// code corrects. Matched by *BlockError.
	ErrUncorrectableBlock = errors.New("fec: uncorrectable block")
	// ErrInvalidTransition indicates a Manchester pair with no transition.
	// Matched by *TransitionError.
	ErrInvalidTransition = errors.New("fec: invalid line code transition")
	// ErrUnknownScheme indicates an unsupported scheme.
	ErrUnknownScheme = errors.New("fec: unknown scheme")
)

// BlockError lists the codewords which could not be corrected.
type BlockError struct {
	Blocks []int
}

// Error implements error.
func (e *BlockError) Error() string {
	return fmt.Sprintf("fec: %d uncorrectable block(s), first at %d", len(e.Blocks), e.Blocks[0])
}

// Is matches ErrUncorrectableBlock.
func (e *BlockError) Is(target error) bool {
	return target == ErrUncorrectableBlock
}

// TransitionError counts Manchester pairs without a transition.
type TransitionError struct {
	Count int
	First int // bit index in the decoded output
}

// Error implements error.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("fec: %d invalid transition(s), first at bit %d", e.Count, e.First)
}

// Is matches ErrInvalidTransition.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
