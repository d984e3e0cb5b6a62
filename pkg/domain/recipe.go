package domain

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Recipe is one buildable unit identified by a name-version-release triple.
type Recipe struct {
	// Name is everything before the last two hyphen-delimited segments.
	Name string `json:"name"`
	// Version is the second-to-last segment.
	Version string `json:"version"`
	// Release is the last segment.
	Release string `json:"release"`

	id   string
	data *DataList
}

// ParseRecipeName splits a triple from the right on its last two hyphens.
// All three parts must be non-empty.
func ParseRecipeName(id string) (name, version, release string, err error) {
	r := strings.LastIndexByte(id, '-')
	if r <= 0 || r == len(id)-1 {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidRecipeName, id)
	}
	v := strings.LastIndexByte(id[:r], '-')
	if v <= 0 || v == r-1 {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidRecipeName, id)
	}
	return id[:v], id[v+1 : r], id[r+1:], nil
}

// IsRecipeName reports whether id is a valid recipe triple.
func IsRecipeName(id string) bool {
	_, _, _, err := ParseRecipeName(id)
	return err == nil
}

// NewRecipe returns an empty recipe for the triple id.
func NewRecipe(id string) (*Recipe, error) {
	return NewRecipeWithData(id, NewDataList())
}

// NewRecipeWithData returns a recipe owning data.
func NewRecipeWithData(id string, data *DataList) (*Recipe, error) {
	name, version, release, err := ParseRecipeName(id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = NewDataList()
	}
	return &Recipe{Name: name, Version: version, Release: release, id: id, data: data}, nil
}

// ID returns the full triple, which is also the recipe name carried by its records.
func (r *Recipe) ID() string {
	return r.id
}

// Data returns the records collected for the recipe.
func (r *Recipe) Data() *DataList {
	return r.data
}

// Set replaces the recipe's records.
func (r *Recipe) Set(data *DataList) {
	if data == nil {
		data = NewDataList()
	}
	r.data = data
}

// Objects returns the recipe's records of type or family t.
func (r *Recipe) Objects(t Type) iter.Seq[Data] {
	return r.data.Objects(t)
}

// Contains reports whether the recipe holds a record of type or family t.
func (r *Recipe) Contains(t Type) bool {
	return r.data.Contains(t)
}

// IsAvailable reports whether the recipe's report for t was present.
func (r *Recipe) IsAvailable(t Type) bool {
	return r.data.IsAvailable(t)
}

// RecipeCollection is an ordered set of recipes, unique by triple.
type RecipeCollection struct {
	recipes []*Recipe
	index   map[string]int
}

// NewRecipeCollection returns a collection holding recipes; later duplicates are dropped.
func NewRecipeCollection(recipes ...*Recipe) *RecipeCollection {
	c := &RecipeCollection{index: make(map[string]int)}
	for _, r := range recipes {
		c.Add(r)
	}
	return c
}

// Add appends r unless a recipe with the same triple exists. It reports whether r was added.
func (c *RecipeCollection) Add(r *Recipe) bool {
	if _, ok := c.index[r.id]; ok {
		return false
	}
	c.index[r.id] = len(c.recipes)
	c.recipes = append(c.recipes, r)
	return true
}

// Get returns the recipe with triple id.
func (c *RecipeCollection) Get(id string) (*Recipe, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.recipes[i], true
}

// Len returns the number of recipes.
func (c *RecipeCollection) Len() int {
	return len(c.recipes)
}

// Recipes returns the recipes in collection order.
func (c *RecipeCollection) Recipes() []*Recipe {
	return slices.Clone(c.recipes)
}

// RemoveIf drops every recipe for which pred returns true and returns how many were removed.
func (c *RecipeCollection) RemoveIf(pred func(*Recipe) bool) int {
	before := len(c.recipes)
	c.recipes = slices.DeleteFunc(c.recipes, pred)
	c.reindex()
	return before - len(c.recipes)
}

// Sort orders recipes by triple.
func (c *RecipeCollection) Sort() {
	slices.SortFunc(c.recipes, func(a, b *Recipe) int {
		return strings.Compare(a.id, b.id)
	})
	c.reindex()
}

func (c *RecipeCollection) reindex() {
	c.index = make(map[string]int, len(c.recipes))
	for i, r := range c.recipes {
		c.index[r.id] = i
	}
}

// Objects returns the records of type or family t across all recipes, recipe by recipe.
func (c *RecipeCollection) Objects(t Type) iter.Seq[Data] {
	return func(yield func(Data) bool) {
		for _, r := range c.recipes {
			for d := range r.data.Objects(t) {
				if !yield(d) {
					return
				}
			}
		}
	}
}

// Contains reports whether any recipe holds a record of type or family t.
func (c *RecipeCollection) Contains(t Type) bool {
	for _, r := range c.recipes {
		if r.data.Contains(t) {
			return true
		}
	}
	return false
}

// IsAvailable reports whether any recipe's report for t was present.
func (c *RecipeCollection) IsAvailable(t Type) bool {
	for _, r := range c.recipes {
		if r.data.IsAvailable(t) {
			return true
		}
	}
	return false
}
