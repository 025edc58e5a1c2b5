package service

import (
	"sort"
	"strings"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
)

// CombinationEntry is one (attribute, value) assignment inside a combination.
type CombinationEntry struct {
	AttributeID      uint   `json:"attribute_id" binding:"required"`
	AttributeValueID uint   `json:"attribute_value_id" binding:"required"`
	AttributeName    string `json:"attribute_name" binding:"required"`
	Value            string `json:"value" binding:"required"`
}

// Combination is one full assignment of exactly one value to every attribute
// under consideration, in input attribute order.
type Combination []CombinationEntry

// GenerateCombinations enumerates the Cartesian product of the given
// attributes' values: one entry per attribute, values in the order given,
// attributes in the order given. Output is deterministic for a fixed input
// ordering. Any attribute with an empty value list yields an empty overall
// result — a product cannot get variants from attributes with no selected
// values.
//
// The result size is the literal product of per-attribute value counts;
// callers bound the input (the platform variant cap and the admin UI limit
// selected values), the generator itself imposes no limit.
func GenerateCombinations(attributes []model.Attribute) []Combination {
	if len(attributes) == 0 {
		return []Combination{}
	}

	result := []Combination{}
	current := make(Combination, 0, len(attributes))

	var combine func(index int)
	combine = func(index int) {
		if index == len(attributes) {
			combo := make(Combination, len(current))
			copy(combo, current)
			result = append(result, combo)
			return
		}

		attribute := attributes[index]
		for _, value := range attribute.Values {
			current = append(current, CombinationEntry{
				AttributeID:      attribute.ID,
				AttributeValueID: value.ID,
				AttributeName:    attribute.Name,
				Value:            value.Value,
			})
			combine(index + 1)
			current = current[:len(current)-1]
		}
	}

	combine(0)
	return result
}

// CombinationKey computes the canonical, order-independent identity of a
// combination: each entry formatted as "name:value", sorted
// lexicographically, joined with "|". Two selections map to the same variant
// iff their keys match. Attribute names are unique store-wide (slug index),
// so name collisions cannot conflate distinct attributes.
func CombinationKey(combination Combination) string {
	parts := make([]string, len(combination))
	for i, entry := range combination {
		parts[i] = entry.AttributeName + ":" + entry.Value
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}
