package scenario

import (
	"fmt"
	"log"
)

// AssertionMode controls what an unmet expectation does.
type AssertionMode int

const (
	// AssertionStrict fails the run on the first unmet expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs unmet expectations and keeps going.
	AssertionLogOnly
)

// Assertions evaluates scripted expectations under a mode.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger
}

// failf reports an unmet expectation. Strict mode returns it as an
// error; log-only mode records it and returns nil.
func (a Assertions) failf(format string, args ...any) error {
	if a.Mode == AssertionStrict {
		return fmt.Errorf(format, args...)
	}
	if a.Logger != nil {
		a.Logger.Printf("expectation not met: "+format, args...)
	}
	return nil
}
