package core

import (
	"reflect"
	"slices"
	"sync"
)

type behaviorKind int

const (
	behaviorReturn behaviorKind = iota
	behaviorAnswer
	behaviorThrow
	behaviorFail
	behaviorCallReal
	behaviorDelegate
)

// Behavior is one programmed response of a stub rule.
type Behavior struct {
	kind     behaviorKind
	values   []any
	answer   func(args []any) []any
	failure  any
	err      error
	delegate reflect.Value
}

// StubRule is the programmed behavior of one method for the calls matching
// one argument pattern.
type StubRule struct {
	Method  MethodKey
	Pattern ArgumentPattern

	queue    []Behavior
	fallback *Behavior
	actions  []func(args []any)
	declared uint64
}

type ruleTable struct {
	mu    sync.Mutex
	rules map[MockIdentity]map[MethodKey][]*StubRule
	clock uint64
}

func newRuleTable() *ruleTable {
	return &ruleTable{rules: make(map[MockIdentity]map[MethodKey][]*StubRule)}
}

// declare creates the rule for (id, key, pattern), or empties the existing
// semantically equal one. Either way the rule becomes the most recent.
func (t *ruleTable) declare(id MockIdentity, key MethodKey, pattern ArgumentPattern) *StubRule {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clock++

	byMethod := t.rules[id]
	if byMethod == nil {
		byMethod = make(map[MethodKey][]*StubRule)
		t.rules[id] = byMethod
	}

	rules := byMethod[key]
	for i, rule := range rules {
		if rule.Pattern.Equal(pattern) {
			rules = slices.Delete(rules, i, i+1)

			break
		}
	}

	rule := &StubRule{Method: key, Pattern: pattern, declared: t.clock}
	byMethod[key] = append(rules, rule)

	return rule
}

// lookup returns the most recently declared rule whose pattern accepts args,
// committing its captures.
func (t *ruleTable) lookup(id MockIdentity, key MethodKey, args []any) *StubRule {
	t.mu.Lock()
	rules := slices.Clone(t.rules[id][key])
	t.mu.Unlock()

	for i := len(rules) - 1; i >= 0; i-- {
		if rules[i].Pattern.Matches(args) {
			rules[i].Pattern.commit(args)

			return rules[i]
		}
	}

	return nil
}

// live reports whether rule is still in the table: a later declaration of an
// equal pattern or a reset removes it.
func (t *ruleTable) live(id MockIdentity, rule *StubRule) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return slices.Contains(t.rules[id][rule.Method], rule)
}

func (t *ruleTable) addBehavior(rule *StubRule, b Behavior) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rule.queue = append(rule.queue, b)
	last := b
	rule.fallback = &last
}

// repeatLast queues the last declared behavior until it occupies n slots in total.
func (t *ruleTable) repeatLast(rule *StubRule, n int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rule.fallback == nil {
		return false
	}

	for range n - 1 {
		rule.queue = append(rule.queue, *rule.fallback)
	}

	return true
}

func (t *ruleTable) addAction(rule *StubRule, action func(args []any)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rule.actions = append(rule.actions, action)
}

// next dequeues the behavior for one call. ok is false when the rule has no
// behavior at all, in which case the unstubbed default applies.
func (t *ruleTable) next(rule *StubRule) (b Behavior, actions []func(args []any), ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	actions = slices.Clone(rule.actions)

	if len(rule.queue) > 0 {
		b = rule.queue[0]
		rule.queue = rule.queue[1:]

		return b, actions, true
	}

	if rule.fallback != nil {
		return *rule.fallback, actions, true
	}

	return Behavior{}, actions, false
}

func (t *ruleTable) count(id MockIdentity) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := 0
	for _, rules := range t.rules[id] {
		total += len(rules)
	}

	return total
}

func (t *ruleTable) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rules = make(map[MockIdentity]map[MethodKey][]*StubRule)
}

func (t *ruleTable) clearMock(id MockIdentity) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.rules, id)
}
