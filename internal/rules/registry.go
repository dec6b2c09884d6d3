package rules

import (
	"sort"
	"sync"

	lerrors "github.com/conneroisu/playlint/internal/errors"
)

// Registry holds the rules available to the engine.
type Registry struct {
	rules map[string]Rule
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
	}
}

// Register adds a rule. IDs must be unique.
func (r *Registry) Register(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := rule.ID()
	if id == "" {
		return lerrors.NewRuleError(lerrors.ErrCodeValidationFailed, id, "rule ID cannot be empty")
	}
	if _, exists := r.rules[id]; exists {
		return lerrors.NewRuleError(lerrors.ErrCodeDuplicateRule, id, "rule already registered")
	}

	r.rules[id] = rule
	return nil
}

// MustRegister registers every rule and panics on the first failure.
func (r *Registry) MustRegister(rules ...Rule) {
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			panic(err)
		}
	}
}

// Get looks a rule up by ID.
func (r *Registry) Get(id string) (Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, exists := r.rules[id]
	if !exists {
		return nil, lerrors.NewRuleError(lerrors.ErrCodeRuleNotFound, id, "rule not found")
	}
	return rule, nil
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// List returns all rules sorted by ID.
func (r *Registry) List() []Rule {
	r.mu.RLock()
	list := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		list = append(list, rule)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID() < list[j].ID() })
	return list
}

// Selection filters which rules run.
type Selection struct {
	// Tags, when non-empty, limits the run to rules that carry one of these
	// tags or whose ID is listed.
	Tags []string
	// Skip excludes rules by ID or tag.
	Skip []string
}

// Selects reports whether rule passes the selection.
func (s Selection) Selects(rule Rule) bool {
	if matchesAny(rule, s.Skip) {
		return false
	}
	if len(s.Tags) > 0 && !matchesAny(rule, s.Tags) {
		return false
	}
	return true
}

// Select returns the rules passing sel, sorted by ID.
func (r *Registry) Select(sel Selection) []Rule {
	var selected []Rule
	for _, rule := range r.List() {
		if sel.Selects(rule) {
			selected = append(selected, rule)
		}
	}
	return selected
}

// TaskRules returns the selected rules that implement TaskRule.
func (r *Registry) TaskRules(sel Selection) []TaskRule {
	var taskRules []TaskRule
	for _, rule := range r.Select(sel) {
		if tr, ok := rule.(TaskRule); ok {
			taskRules = append(taskRules, tr)
		}
	}
	return taskRules
}

// matchesAny reports whether any of names is the rule's ID or one of its tags.
func matchesAny(rule Rule, names []string) bool {
	for _, name := range names {
		if name == rule.ID() || HasTag(rule, name) {
			return true
		}
	}
	return false
}
