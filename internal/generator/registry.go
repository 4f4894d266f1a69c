package generator

import (
	"fmt"
	"sort"
)

// DefaultPolicy is used when no policy is named
const DefaultPolicy = "weighted"

// Registry maps policy names to factory functions.
// Policies carry per-run state, so each run gets a fresh instance.
var Registry = map[string]func() Policy{
	"weighted": func() Policy { return &WeightedPolicy{} },
	"uniform":  func() Policy { return &UniformPolicy{} },
}

// Get returns a new policy by name
func Get(name string) (Policy, error) {
	factory, exists := Registry[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, name)
	}
	return factory(), nil
}

// List returns all available policy names, sorted
func List() []string {
	var names []string
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
