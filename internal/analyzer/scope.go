package analyzer

import "github.com/coolang/coolc/internal/typesystem"

// scope is the local type environment: a stack of frames pushed by
// let-bindings, case branches and method formals. Lookup searches
// innermost-outward.
type scope struct {
	frames []map[string]typesystem.Type
}

func newScope() *scope {
	return &scope{}
}

func (s *scope) push() {
	s.frames = append(s.frames, make(map[string]typesystem.Type))
}

func (s *scope) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *scope) define(name string, t typesystem.Type) {
	s.frames[len(s.frames)-1][name] = t
}

func (s *scope) lookup(name string) (typesystem.Type, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if t, ok := s.frames[i][name]; ok {
			return t, true
		}
	}
	return typesystem.Type{}, false
}
