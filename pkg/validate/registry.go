package validate

import "sync"

// globalRegistry is the single global registry for validation rules.
var globalRegistry = &Registry{
	byName: make(map[string]int),
}

// Registry stores registered rules in registration order.
type Registry struct {
	mu     sync.RWMutex
	rules  []RuleDef
	byName map[string]int // index into rules
}

// Register adds a rule to the global registry. Registering a name twice
// replaces the earlier definition in place.
// Call this from init() functions in rule packages.
func Register(rule RuleDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	if i, ok := globalRegistry.byName[rule.Name]; ok {
		globalRegistry.rules[i] = rule
		return
	}
	globalRegistry.byName[rule.Name] = len(globalRegistry.rules)
	globalRegistry.rules = append(globalRegistry.rules, rule)
}

// GetAll returns all registered rules in registration order.
func GetAll() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]RuleDef, len(globalRegistry.rules))
	copy(rules, globalRegistry.rules)
	return rules
}

// GetByName returns a rule by its name.
func GetByName(name string) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	i, ok := globalRegistry.byName[name]
	if !ok {
		return RuleDef{}, false
	}
	return globalRegistry.rules[i], true
}

// Names returns the registered rule names in registration order.
func Names() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	names := make([]string, len(globalRegistry.rules))
	for i, r := range globalRegistry.rules {
		names[i] = r.Name
	}
	return names
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules = nil
	globalRegistry.byName = make(map[string]int)
}
