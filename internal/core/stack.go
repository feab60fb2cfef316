package core

// MatcherStack holds the matchers pushed inside a DSL closure, waiting for
// the next intercepted call to bind them to parameter positions.
type MatcherStack struct {
	items []Matcher
}

// Push appends m without any composite handling.
func (s *MatcherStack) Push(m Matcher) {
	s.items = append(s.items, m)
}

// Pop removes and returns the most recently pushed matcher.
func (s *MatcherStack) Pop() (Matcher, bool) {
	if len(s.items) == 0 {
		return nil, false
	}

	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]

	return last, true
}

// Len is the number of pending matchers.
func (s *MatcherStack) Len() int { return len(s.items) }

// Clear drops every pending matcher.
func (s *MatcherStack) Clear() { s.items = nil }

// Describe renders the pending matchers, oldest first.
func (s *MatcherStack) Describe() []string {
	out := make([]string, len(s.items))
	for i, m := range s.items {
		out[i] = DescribeMatcher(m)
	}

	return out
}

// register pushes m, letting composites take their operands first.
func (s *MatcherStack) register(m Matcher) error {
	if sm, ok := m.(StackMatcher); ok {
		return sm.AddToStack(s)
	}

	s.Push(m)

	return nil
}

// resolve turns the pending matchers and the literal args of a call into an
// argument pattern. The stack is always empty afterwards.
func (s *MatcherStack) resolve(spec *MethodSpec, args []any, strictTypes bool) (ArgumentPattern, error) {
	defer s.Clear()

	pattern := make(ArgumentPattern, len(args))

	if len(s.items) == 0 {
		for i, a := range args {
			pattern[i] = Equals(a)
		}

		return pattern, nil
	}

	if len(s.items) != len(args) {
		return nil, &UnbalancedMatcherStackError{
			Method: spec.Signature(),
			Arity:  len(args),
			Pushed: len(s.items),
			Stack:  s.Describe(),
		}
	}

	for i, m := range s.items {
		if strictTypes && i < len(spec.In) {
			if err := checkMatcherType(spec, i, m); err != nil {
				return nil, err
			}
		}

		pattern[i] = Explicit(m)
	}

	return pattern, nil
}

func checkMatcherType(spec *MethodSpec, pos int, m Matcher) error {
	typed, ok := m.(TypedMatcher)
	if !ok || typed.MatchedType() == nil {
		return nil
	}

	got, want := typed.MatchedType(), spec.In[pos]
	if got.AssignableTo(want) || want.AssignableTo(got) {
		return nil
	}

	return &MatcherTypeError{Method: spec.Signature(), Position: pos, Want: want, Got: got}
}
