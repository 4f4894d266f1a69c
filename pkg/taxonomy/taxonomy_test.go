package taxonomy

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	tax := Default()
	if err := tax.Validate(); err != nil {
		t.Fatalf("default taxonomy invalid: %v", err)
	}

	if got := tax.TotalWeight(); got != 320 {
		t.Errorf("TotalWeight() = %d, want 320", got)
	}

	pairs := tax.Pairs()
	if len(pairs) != 12 {
		t.Fatalf("got %d pairs, want 12", len(pairs))
	}
	if pairs[0] != (Pair{Category: "authentication", Subcategory: "success", Weight: 70}) {
		t.Errorf("first pair = %+v", pairs[0])
	}
	if last := pairs[len(pairs)-1]; last.Category != "system" || last.Subcategory != "alert" {
		t.Errorf("last pair = %+v", last)
	}

	want := []string{"authentication", "threat", "configuration", "access", "system"}
	got := tax.CategoryNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("CategoryNames() = %v, want %v", got, want)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tax     *Taxonomy
		wantErr error
	}{
		{
			name:    "nil",
			tax:     nil,
			wantErr: ErrEmptyTaxonomy,
		},
		{
			name:    "no categories",
			tax:     &Taxonomy{},
			wantErr: ErrEmptyTaxonomy,
		},
		{
			name:    "category without subcategories",
			tax:     &Taxonomy{Categories: []Category{{Name: "threat"}}},
			wantErr: ErrEmptyCategory,
		},
		{
			name: "duplicate category",
			tax: &Taxonomy{Categories: []Category{
				{Name: "threat", Subcategories: []Subcategory{{Name: "xss", Weight: 1}}},
				{Name: "threat", Subcategories: []Subcategory{{Name: "dos", Weight: 1}}},
			}},
			wantErr: ErrDuplicateName,
		},
		{
			name: "duplicate subcategory",
			tax: &Taxonomy{Categories: []Category{
				{Name: "threat", Subcategories: []Subcategory{{Name: "xss", Weight: 1}, {Name: "xss", Weight: 2}}},
			}},
			wantErr: ErrDuplicateName,
		},
		{
			name: "quote in name",
			tax: &Taxonomy{Categories: []Category{
				{Name: "thr'eat", Subcategories: []Subcategory{{Name: "xss", Weight: 1}}},
			}},
			wantErr: ErrInvalidName,
		},
		{
			name: "uppercase subcategory",
			tax: &Taxonomy{Categories: []Category{
				{Name: "threat", Subcategories: []Subcategory{{Name: "XSS", Weight: 1}}},
			}},
			wantErr: ErrInvalidName,
		},
		{
			name: "negative weight",
			tax: &Taxonomy{Categories: []Category{
				{Name: "threat", Subcategories: []Subcategory{{Name: "xss", Weight: -1}}},
			}},
			wantErr: ErrNegativeWeight,
		},
		{
			name: "weights overflow",
			tax: &Taxonomy{Categories: []Category{
				{Name: "threat", Subcategories: []Subcategory{{Name: "xss", Weight: math.MaxInt}}},
				{Name: "system", Subcategories: []Subcategory{{Name: "alert", Weight: 1}}},
			}},
			wantErr: ErrWeightOverflow,
		},
		{
			name: "weights summing to max int",
			tax: &Taxonomy{Categories: []Category{
				{Name: "threat", Subcategories: []Subcategory{{Name: "xss", Weight: math.MaxInt - 1}, {Name: "sql_injection", Weight: 1}}},
			}},
			wantErr: nil,
		},
		{
			name: "zero weight is allowed",
			tax: &Taxonomy{Categories: []Category{
				{Name: "threat", Subcategories: []Subcategory{{Name: "xss", Weight: 0}}},
			}},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.tax.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() returned error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	doc := `
categories:
  - name: network
    subcategories:
      - name: port_scan
        weight: 5
      - name: beacon
        weight: 3
  - name: threat
    subcategories:
      - name: xss
        weight: 2
`
	tax, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode() returned error: %v", err)
	}

	if got := tax.TotalWeight(); got != 10 {
		t.Errorf("TotalWeight() = %d, want 10", got)
	}
	pairs := tax.Pairs()
	if pairs[1].Subcategory != "beacon" || pairs[2].Category != "threat" {
		t.Errorf("pairs out of declaration order: %+v", pairs)
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{name: "empty document", doc: "", wantErr: ErrEmptyTaxonomy},
		{name: "empty list", doc: "categories: []\n", wantErr: ErrEmptyTaxonomy},
		{name: "no subcategories", doc: "categories:\n  - name: threat\n", wantErr: ErrEmptyCategory},
		{
			name:    "overflowing weights",
			doc:     "categories:\n  - name: threat\n    subcategories:\n      - name: xss\n        weight: 9223372036854775807\n      - name: sql_injection\n        weight: 1\n",
			wantErr: ErrWeightOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		doc := "categories:\n  - name: threat\n    subtypes: []\n"
		if _, err := Decode(strings.NewReader(doc)); err == nil {
			t.Error("expected error for unknown field")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		if _, err := Decode(strings.NewReader("categories: [\n")); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestTotalWeight_Saturates(t *testing.T) {
	t.Parallel()

	tax := &Taxonomy{Categories: []Category{
		{Name: "threat", Subcategories: []Subcategory{{Name: "xss", Weight: math.MaxInt}, {Name: "sql_injection", Weight: 5}}},
	}}
	if got := tax.TotalWeight(); got != math.MaxInt {
		t.Errorf("TotalWeight() = %d, want math.MaxInt", got)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	doc := "categories:\n  - name: system\n    subcategories:\n      - name: backup\n        weight: 4\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write taxonomy: %v", err)
	}

	tax, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if tax.TotalWeight() != 4 {
		t.Errorf("TotalWeight() = %d, want 4", tax.TotalWeight())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
