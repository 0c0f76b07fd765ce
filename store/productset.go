package store

import (
	"sort"
	"strings"

	"catalog/domain"
)

// productSet is the map both in-process repositories keep their products in.
// Callers hold the owning repository's lock.
type productSet map[string]domain.ProductState

// put stores st, refusing a name already held by another product.
func (s productSet) put(st domain.ProductState) error {
	for id, other := range s {
		if id != st.ID.String() && other.Name == st.Name {
			return domain.NewDuplicateProductError(st.Name)
		}
	}
	s[st.ID.String()] = st
	return nil
}

func (s productSet) nameTaken(name string) bool {
	for _, st := range s {
		if st.Name == name {
			return true
		}
	}
	return false
}

// filter returns matching products ordered by creation time, then id.
func (s productSet) filter(keep func(domain.ProductState) bool) []*domain.Product {
	states := make([]domain.ProductState, 0, len(s))
	for _, st := range s {
		if keep == nil || keep(st) {
			states = append(states, st)
		}
	}
	sortStates(states)
	out := make([]*domain.Product, 0, len(states))
	for _, st := range states {
		out = append(out, domain.ReconstituteProduct(st))
	}
	return out
}

func sortStates(states []domain.ProductState) {
	sort.Slice(states, func(i, j int) bool {
		if !states[i].CreatedAt.Equal(states[j].CreatedAt) {
			return states[i].CreatedAt.Before(states[j].CreatedAt)
		}
		return states[i].ID.String() < states[j].ID.String()
	})
}

func isActive(st domain.ProductState) bool {
	return st.Status == domain.StatusActive
}

func nameContains(fragment string) func(domain.ProductState) bool {
	fragment = strings.ToLower(fragment)
	return func(st domain.ProductState) bool {
		return strings.Contains(strings.ToLower(st.Name), fragment)
	}
}
