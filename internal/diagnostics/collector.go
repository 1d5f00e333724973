// Package diagnostics holds the user-facing diagnostics produced by the passes
// and the checker, and the collector they are sent to.
package diagnostics

import (
	"errors"
	"sync"

	"github.com/kind-lang/kindhvm/internal/span"
)

var COMPILER_ERROR_FOUND = errors.New("compiler error found")

type Kind int

const (
	KIND_UNBOUND_VARIABLE Kind = iota
	KIND_UNBOUND_TOP_LEVEL
	KIND_REPEATED_VARIABLE
	KIND_REPEATED_CONSTRUCTOR

	KIND_CHECKER_UNBOUND_VARIABLE
	KIND_CANT_INFER_HOLE
	KIND_CANT_INFER_LAMBDA
	KIND_INVALID_CALL
	KIND_IMPOSSIBLE_CASE
	KIND_INSPECTION
	KIND_TOO_MANY_ARGUMENTS
	KIND_TYPE_MISMATCH

	KIND_THERE_IS_NO_MAIN
)

// Diagnostic is created once, sent once and never mutated afterwards.
type Diagnostic interface {
	Kind() Kind
	Message() string
	// Spans returns the locations the diagnostic points at, primary first.
	Spans() []span.Span
}

// Sender is the send-only side of the diagnostics channel.
type Sender interface {
	Send(diag Diagnostic)
}

// Collector is a multi-producer, single-consumer queue of diagnostics. Any
// number of passes may Send concurrently; the diagnostics of one producer keep
// their send order. The pipeline drains it once at the end.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func New() *Collector {
	return &Collector{diags: nil}
}

func (collector *Collector) Send(diag Diagnostic) {
	collector.mu.Lock()
	collector.diags = append(collector.diags, diag)
	collector.mu.Unlock()
}

// Drain returns every diagnostic sent so far and empties the queue.
func (collector *Collector) Drain() []Diagnostic {
	collector.mu.Lock()
	defer collector.mu.Unlock()
	diags := collector.diags
	collector.diags = nil
	return diags
}

func (collector *Collector) Len() int {
	collector.mu.Lock()
	defer collector.mu.Unlock()
	return len(collector.diags)
}
