package unit

import "github.com/robotalks/metal.go/pkg/serial"

// RootName names the root scope.
const RootName = "<main>"

// Summary holds the counters of a Scope.
type Summary struct {
	Executed int `json:"executed" cbor:"executed"`
	Warnings int `json:"warnings" cbor:"warnings"`
	Errors   int `json:"errors" cbor:"errors"`
}

// Add folds other into s.
func (s *Summary) Add(other Summary) {
	s.Executed += other.Executed
	s.Warnings += other.Warnings
	s.Errors += other.Errors
}

// Record is an event kept in a Scope.
type Record struct {
	Type     Type     `json:"type" cbor:"type"`
	Level    Level    `json:"level" cbor:"level"`
	Value    int64    `json:"value" cbor:"value"`
	File     string   `json:"file,omitempty" cbor:"file,omitempty"`
	Line     int      `json:"line,omitempty" cbor:"line,omitempty"`
	Operands []string `json:"operands,omitempty" cbor:"operands,omitempty"`
}

// Scope collects the statistics of a test case.
type Scope struct {
	Name        string   `json:"name" cbor:"name"`
	Description string   `json:"description,omitempty" cbor:"description,omitempty"`
	Summary     Summary  `json:"summary" cbor:"summary"`
	Cancelled   bool     `json:"cancelled" cbor:"cancelled"`
	Tests       []Record `json:"tests" cbor:"tests"`
	Children    []*Scope `json:"children" cbor:"children"`

	Parent *Scope `json:"-" cbor:"-"`
}

// Record adds e to the scope. Checks are counted, a failed assert as an
// error and a failed expect as a warning.
func (s *Scope) Record(e *Event, site serial.Site) {
	if e.Level.Checks() {
		s.Summary.Executed++
		if e.Value == 0 {
			if e.Level == LevelAssert {
				s.Summary.Errors++
			} else {
				s.Summary.Warnings++
			}
		}
	}
	s.Tests = append(s.Tests, Record{
		Type:     e.Type,
		Level:    e.Level,
		Value:    e.Value,
		File:     site.File,
		Line:     site.Line,
		Operands: e.Operands,
	})
}

// Fold adds the counters of child and keeps it as a child.
func (s *Scope) Fold(child *Scope) {
	s.Summary.Add(child.Summary)
	s.Children = append(s.Children, child)
}

// Stack tracks the nesting of test cases.
type Stack struct {
	scopes []*Scope
}

// NewStack creates a Stack holding the root scope.
func NewStack() *Stack {
	return &Stack{scopes: []*Scope{{Name: RootName}}}
}

// Root returns the root scope.
func (s *Stack) Root() *Scope {
	return s.scopes[0]
}

// Current returns the innermost scope.
func (s *Stack) Current() *Scope {
	return s.scopes[len(s.scopes)-1]
}

// Depth is the number of entered scopes.
func (s *Stack) Depth() int {
	return len(s.scopes) - 1
}

// Enter starts a test case.
func (s *Stack) Enter(name, description string) *Scope {
	if name == "" {
		name = "**unknown**"
	}
	scope := &Scope{Name: name, Description: description, Parent: s.Current()}
	s.scopes = append(s.scopes, scope)
	return scope
}

// Exit ends the current test case and folds it into the parent. The root
// is never exited and nil is returned.
func (s *Stack) Exit() *Scope {
	if len(s.scopes) == 1 {
		return nil
	}
	scope := s.Current()
	s.scopes = s.scopes[:len(s.scopes)-1]
	s.Current().Fold(scope)
	return scope
}
