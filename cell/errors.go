package cell

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotStruct means the owner, or a step of a dotted path, is not a struct.
	ErrNotStruct = errors.New("cell: owner is not a struct")
	// ErrUnknownField means the named field does not exist on the owner.
	ErrUnknownField = errors.New("cell: unknown field")
	// ErrKindMismatch means the field's storage type does not match the Kind.
	ErrKindMismatch = errors.New("cell: field type does not match kind")
	// ErrIndirectPath means the path crosses a pointer, so the cell has no
	// fixed offset inside the owner.
	ErrIndirectPath = errors.New("cell: field path crosses a pointer")
	// ErrMisaligned means the field offset is not aligned for atomic access.
	ErrMisaligned = errors.New("cell: field is not aligned for atomic access")
	// ErrUnsupported means a strategy's preconditions do not hold here.
	ErrUnsupported = errors.New("cell: strategy unsupported on this platform")
	// ErrDenied means a strategy was disabled by configuration.
	ErrDenied = errors.New("cell: strategy denied by configuration")
)

// BindError reports a descriptor that could not be bound.
type BindError struct {
	Descriptor Descriptor
	Strategy   string
	Err        error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("cell: bind %s via %s: %v", e.Descriptor, e.Strategy, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// Attempt is the outcome of constructing one candidate strategy.
type Attempt struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
	Error    string `json:"error,omitempty"`
	Err      error  `json:"-"`
}

// InitError is returned (and, from Lookup, panicked) when no candidate
// strategy could be constructed.
type InitError struct {
	Attempts []Attempt
}

func (e *InitError) Error() string {
	var b strings.Builder
	b.WriteString("cell: no atomic access strategy available")
	for i, a := range e.Attempts {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(a.Name)
		b.WriteString(": ")
		b.WriteString(a.Error)
	}
	return b.String()
}

// Unwrap exposes every attempt's cause to errors.Is and errors.As.
func (e *InitError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}
