// Package schema resolves the detail fields a grievance must carry for a
// given category and sub-category.
package schema

import (
	"fmt"
	"grievanceportal/backend/internal/apperr"
	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/models"
	"sync"
)

type pairKey struct {
	category    models.Category
	subCategory string
}

// Registry is an immutable lookup table. All accessors return copies.
type Registry struct {
	categories    []models.Category
	subCategories map[models.Category][]string
	schemas       map[pairKey][]models.FieldDescriptor
	fallback      []models.FieldDescriptor
}

// NewRegistry validates and copies the given tables.
func NewRegistry(
	categories []models.Category,
	subCategories map[models.Category][]string,
	schemas map[models.Category]map[string][]models.FieldDescriptor,
	fallback []models.FieldDescriptor,
) (*Registry, error) {
	r := &Registry{
		categories:    append([]models.Category(nil), categories...),
		subCategories: make(map[models.Category][]string, len(subCategories)),
		schemas:       make(map[pairKey][]models.FieldDescriptor),
		fallback:      cloneFields(fallback),
	}

	if err := checkFields("fallback", r.fallback); err != nil {
		return nil, err
	}

	for _, c := range r.categories {
		subs, ok := subCategories[c]
		if !ok || len(subs) == 0 {
			return nil, fmt.Errorf("schema: category %q has no sub-categories", c)
		}
		r.subCategories[c] = append([]string(nil), subs...)
	}

	for c, bySub := range schemas {
		for sub, fields := range bySub {
			if !r.HasSubCategory(c, sub) {
				return nil, fmt.Errorf("schema: fields registered for unknown pair %s/%s", c, sub)
			}
			if err := checkFields(string(c)+"/"+sub, fields); err != nil {
				return nil, err
			}
			r.schemas[pairKey{c, sub}] = cloneFields(fields)
		}
	}
	return r, nil
}

func checkFields(name string, fields []models.FieldDescriptor) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Key == "" {
			return fmt.Errorf("schema: %s has a field without key", name)
		}
		if f.Key == models.DetailsSubCategoryKey {
			return fmt.Errorf("schema: %s uses reserved key %q", name, f.Key)
		}
		if seen[f.Key] {
			return fmt.Errorf("schema: %s repeats field key %q", name, f.Key)
		}
		seen[f.Key] = true
		if f.Kind == models.InputSelect && len(f.Options) == 0 {
			return fmt.Errorf("schema: %s select field %q has no options", name, f.Key)
		}
	}
	return nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry built from the config tables.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(models.AllCategories, config.SubCategories, config.FieldSchemas, config.FallbackSchema)
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Categories returns the categories in display order.
func (r *Registry) Categories() []models.Category {
	return append([]models.Category(nil), r.categories...)
}

// ListSubCategories returns the ordered sub-categories of c.
func (r *Registry) ListSubCategories(c models.Category) ([]string, error) {
	subs, ok := r.subCategories[c]
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("unknown category %q", c), nil)
	}
	return append([]string(nil), subs...), nil
}

func (r *Registry) HasCategory(c models.Category) bool {
	_, ok := r.subCategories[c]
	return ok
}

func (r *Registry) HasSubCategory(c models.Category, sub string) bool {
	for _, s := range r.subCategories[c] {
		if s == sub {
			return true
		}
	}
	return false
}

// ResolveFieldSchema returns the fields for the pair, or the fallback
// schema when none were authored for it.
func (r *Registry) ResolveFieldSchema(c models.Category, sub string) []models.FieldDescriptor {
	if fields, ok := r.schemas[pairKey{c, sub}]; ok {
		return cloneFields(fields)
	}
	return cloneFields(r.fallback)
}

// IsFallback reports whether the pair resolves to the fallback schema.
func (r *Registry) IsFallback(c models.Category, sub string) bool {
	_, ok := r.schemas[pairKey{c, sub}]
	return !ok
}

func cloneFields(fields []models.FieldDescriptor) []models.FieldDescriptor {
	out := make([]models.FieldDescriptor, len(fields))
	for i, f := range fields {
		f.Options = append([]string(nil), f.Options...)
		out[i] = f
	}
	return out
}
