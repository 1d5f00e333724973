package diagnostics

import "github.com/kind-lang/kindhvm/internal/span"

// DriverError is reported by the pipeline itself rather than by a pass.
type DriverError struct {
	kind Kind
}

func ThereIsNoMain() *DriverError {
	return &DriverError{kind: KIND_THERE_IS_NO_MAIN}
}

func (e *DriverError) Kind() Kind         { return e.kind }
func (e *DriverError) Spans() []span.Span { return nil }

func (e *DriverError) Message() string {
	switch e.kind {
	case KIND_THERE_IS_NO_MAIN:
		return "cannot find the 'Main' entry point"
	default:
		return "unknown driver error"
	}
}
