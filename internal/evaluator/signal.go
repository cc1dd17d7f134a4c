package evaluator

import (
	"fmt"

	"github.com/coolang/coolc/internal/diagnostics"
)

// Signal is the single unwind mechanism for runtime failure: every built-in
// or user-triggered abort produces one and every eval call propagates it
// unchanged up to the top-level Run call, mirroring a checked-panic rather
// than a recoverable error value.
type Signal struct {
	Code     diagnostics.Code
	Message  string
	Position diagnostics.Position
}

func (s *Signal) Error() string {
	return fmt.Sprintf("%s: %s", s.Code, s.Message)
}

func newSignal(code diagnostics.Code, pos diagnostics.Position, format string, args ...interface{}) *Signal {
	return &Signal{Code: code, Message: fmt.Sprintf(format, args...), Position: pos}
}
