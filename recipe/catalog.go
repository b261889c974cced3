/*
catalog.go - Product-to-recipe lookup

CONTRACT:
  Lookup(product) returns the recipe or ErrRecipeNotFound. Pure read,
  no side effects, exact-match keys. A missing product is a signal the
  caller aggregates, not a failure that aborts an order.

  The catalog performs no name normalization. Upstream product data has
  been seen with inconsistent casing ("All-purpose flour" vs
  "All-Purpose Flour"); that is a data-quality problem to fix at the
  source, not something to paper over with fuzzy matching here.
*/
package recipe

import (
	"errors"
	"fmt"
	"sort"
)

// ErrRecipeNotFound is returned when a product has no catalog entry.
var ErrRecipeNotFound = errors.New("recipe not found")

// Catalog resolves product names to recipes. Implementations must be
// safe for concurrent readers.
type Catalog interface {
	// Lookup returns the recipe for an exact product name, or
	// ErrRecipeNotFound.
	Lookup(product ProductName) (Recipe, error)

	// List returns all recipes, ordered by product name.
	List() []Recipe
}

// =============================================================================
// STATIC CATALOG
// =============================================================================

// StaticCatalog is an immutable map-backed Catalog built at startup.
// No locking needed: it is never written after construction.
type StaticCatalog struct {
	recipes map[ProductName]Recipe
	ordered []Recipe
}

// NewStaticCatalog validates and indexes the given recipes. It rejects
// duplicate products, empty recipes, and lines with non-positive
// quantities or conversion factors.
func NewStaticCatalog(recipes []Recipe) (*StaticCatalog, error) {
	c := &StaticCatalog{recipes: make(map[ProductName]Recipe, len(recipes))}

	for _, r := range recipes {
		if r.Product == "" {
			return nil, errors.New("recipe with empty product name")
		}
		if _, ok := c.recipes[r.Product]; ok {
			return nil, fmt.Errorf("duplicate recipe for product %q", r.Product)
		}
		if len(r.Ingredients) == 0 {
			return nil, fmt.Errorf("recipe for %q has no ingredients", r.Product)
		}
		for _, ri := range r.Ingredients {
			if ri.Ingredient == "" {
				return nil, fmt.Errorf("recipe for %q has an unnamed ingredient", r.Product)
			}
			if !ri.Quantity.IsPositive() {
				return nil, fmt.Errorf("recipe for %q: quantity of %s must be positive", r.Product, ri.Ingredient)
			}
			if !ri.Factor.IsPositive() {
				return nil, fmt.Errorf("recipe for %q: conversion factor of %s must be positive", r.Product, ri.Ingredient)
			}
		}
		c.recipes[r.Product] = r
		c.ordered = append(c.ordered, r)
	}

	sort.Slice(c.ordered, func(i, j int) bool { return c.ordered[i].Product < c.ordered[j].Product })
	return c, nil
}

func (c *StaticCatalog) Lookup(product ProductName) (Recipe, error) {
	r, ok := c.recipes[product]
	if !ok {
		return Recipe{}, fmt.Errorf("%w: %q", ErrRecipeNotFound, product)
	}
	return r, nil
}

func (c *StaticCatalog) List() []Recipe {
	out := make([]Recipe, len(c.ordered))
	copy(out, c.ordered)
	return out
}
