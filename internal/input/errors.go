package input

import (
	"fmt"
	"strings"
)

// CellError describes one malformed CSV cell. Row and Col are zero-based.
type CellError struct {
	Row   int
	Col   int
	Value string
	Err   error
}

func (e *CellError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cell (%d,%d) is out of bounds", e.Row, e.Col)
	}
	return fmt.Sprintf("cell (%d,%d) value %q: %v", e.Row, e.Col, e.Value, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

// LoadError aggregates every malformed cell found while reading one input.
// The load keeps going past bad cells, substituting defaults, so the caller
// gets both a best-effort result and the full list of problems.
type LoadError struct {
	Input string // which input failed, e.g. "links" or "alpha"
	Cells []*CellError
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d malformed cells:", e.Input, len(e.Cells))
	for _, c := range e.Cells {
		b.WriteString("\n  - ")
		b.WriteString(c.Error())
	}
	return b.String()
}
