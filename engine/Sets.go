package engine

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type idSet map[primitive.ObjectID]struct{}

func newIDSet(ids ...primitive.ObjectID) idSet {
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s idSet) add(id primitive.ObjectID) {
	s[id] = struct{}{}
}

func (s idSet) has(id primitive.ObjectID) bool {
	_, ok := s[id]
	return ok
}

// slice returns the members in no particular order.
func (s idSet) slice() []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

func contains(list []primitive.ObjectID, id primitive.ObjectID) bool {
	return slices.Contains(list, id)
}
