// Package taxonomy describes the fixed set of security event categories and
// the subcategories scoped to each of them.
package taxonomy

import (
	"fmt"
	"math"
	"regexp"
)

// Subcategory is a subtype of a category. Weight is the number of records the
// weighted policy emits for the pair; the uniform policy ignores it.
type Subcategory struct {
	Name   string `yaml:"name"`
	Weight int    `yaml:"weight"`
}

// Category is an event type with its ordered subcategories
type Category struct {
	Name          string        `yaml:"name"`
	Subcategories []Subcategory `yaml:"subcategories"`
}

// Taxonomy is an ordered list of categories. Order matters: the weighted
// policy walks pairs in declaration order and truncates from the tail.
type Taxonomy struct {
	Categories []Category `yaml:"categories"`
}

// Pair is a single (category, subcategory) combination
type Pair struct {
	Category    string
	Subcategory string
	Weight      int
}

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Default returns the built-in taxonomy
func Default() *Taxonomy {
	return &Taxonomy{Categories: []Category{
		{Name: "authentication", Subcategories: []Subcategory{
			{Name: "success", Weight: 70},
			{Name: "failed", Weight: 60},
			{Name: "lockout", Weight: 20},
		}},
		{Name: "threat", Subcategories: []Subcategory{
			{Name: "sql_injection", Weight: 30},
			{Name: "xss", Weight: 20},
			{Name: "brute_force", Weight: 20},
		}},
		{Name: "configuration", Subcategories: []Subcategory{
			{Name: "firewall", Weight: 20},
			{Name: "permission", Weight: 20},
		}},
		{Name: "access", Subcategories: []Subcategory{
			{Name: "export", Weight: 20},
			{Name: "privileged", Weight: 15},
		}},
		{Name: "system", Subcategories: []Subcategory{
			{Name: "backup", Weight: 15},
			{Name: "alert", Weight: 10},
		}},
	}}
}

// Validate checks that the taxonomy can drive a generator run
func (t *Taxonomy) Validate() error {
	if t == nil || len(t.Categories) == 0 {
		return ErrEmptyTaxonomy
	}

	seen := make(map[string]struct{}, len(t.Categories))
	total := 0
	for i, c := range t.Categories {
		if !namePattern.MatchString(c.Name) {
			return fmt.Errorf("category %d %q: %w", i, c.Name, ErrInvalidName)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("category %q: %w", c.Name, ErrDuplicateName)
		}
		seen[c.Name] = struct{}{}

		if len(c.Subcategories) == 0 {
			return fmt.Errorf("category %q: %w", c.Name, ErrEmptyCategory)
		}

		subSeen := make(map[string]struct{}, len(c.Subcategories))
		for _, s := range c.Subcategories {
			if !namePattern.MatchString(s.Name) {
				return fmt.Errorf("subcategory %s/%q: %w", c.Name, s.Name, ErrInvalidName)
			}
			if _, dup := subSeen[s.Name]; dup {
				return fmt.Errorf("subcategory %s/%s: %w", c.Name, s.Name, ErrDuplicateName)
			}
			subSeen[s.Name] = struct{}{}
			if s.Weight < 0 {
				return fmt.Errorf("subcategory %s/%s weight %d: %w", c.Name, s.Name, s.Weight, ErrNegativeWeight)
			}
			if s.Weight > math.MaxInt-total {
				return fmt.Errorf("subcategory %s/%s weight %d: %w", c.Name, s.Name, s.Weight, ErrWeightOverflow)
			}
			total += s.Weight
		}
	}
	return nil
}

// Pairs flattens the taxonomy into (category, subcategory) pairs in order
func (t *Taxonomy) Pairs() []Pair {
	var pairs []Pair
	for _, c := range t.Categories {
		for _, s := range c.Subcategories {
			pairs = append(pairs, Pair{Category: c.Name, Subcategory: s.Name, Weight: s.Weight})
		}
	}
	return pairs
}

// TotalWeight returns the sum of all subcategory weights. The sum saturates
// at math.MaxInt.
func (t *Taxonomy) TotalWeight() int {
	total := 0
	for _, p := range t.Pairs() {
		if p.Weight > math.MaxInt-total {
			return math.MaxInt
		}
		total += p.Weight
	}
	return total
}

// CategoryNames returns the category names in declaration order
func (t *Taxonomy) CategoryNames() []string {
	names := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		names[i] = c.Name
	}
	return names
}
