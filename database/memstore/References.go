package memstore

import (
	"context"
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"threadline/models"
)

// list returns a pointer to rel's slice on owner, or nil if owner is missing.
// Callers hold s.mu.
func (s *Store) list(rel models.Relation, owner primitive.ObjectID) *[]primitive.ObjectID {
	if rel.Owner() == models.PostCollection {
		p, ok := s.posts[owner]
		if !ok {
			return nil
		}
		switch rel {
		case models.Likes:
			return &p.Likes
		case models.Comments:
			return &p.Comments
		}
		return nil
	}
	u, ok := s.users[owner]
	if !ok {
		return nil
	}
	switch rel {
	case models.Followers:
		return &u.Followers
	case models.Threads:
		return &u.Threads
	case models.Replies:
		return &u.Replies
	case models.Reposts:
		return &u.Reposts
	}
	return nil
}

func (s *Store) AddMember(_ context.Context, rel models.Relation, owner, member primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.list(rel, owner)
	if l == nil {
		return mongo.ErrNoDocuments
	}
	if !slices.Contains(*l, member) {
		*l = append(*l, member)
	}
	return nil
}

func (s *Store) RemoveMember(_ context.Context, rel models.Relation, owner, member primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.list(rel, owner)
	if l == nil {
		return mongo.ErrNoDocuments
	}
	*l = slices.DeleteFunc(*l, func(id primitive.ObjectID) bool { return id == member })
	return nil
}

func (s *Store) PurgeMembers(_ context.Context, pulls ...models.Pull) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	modified := make(map[primitive.ObjectID]struct{})
	for _, pull := range pulls {
		if len(pull.Members) == 0 {
			continue
		}
		drop := make(map[primitive.ObjectID]struct{}, len(pull.Members))
		for _, id := range pull.Members {
			drop[id] = struct{}{}
		}
		for _, owner := range s.owners(pull.Relation) {
			l := s.list(pull.Relation, owner)
			before := len(*l)
			*l = slices.DeleteFunc(*l, func(id primitive.ObjectID) bool {
				_, ok := drop[id]
				return ok
			})
			if len(*l) != before {
				modified[owner] = struct{}{}
			}
		}
	}
	return int64(len(modified)), nil
}

func (s *Store) owners(rel models.Relation) []primitive.ObjectID {
	var ids []primitive.ObjectID
	if rel.Owner() == models.PostCollection {
		for id := range s.posts {
			ids = append(ids, id)
		}
		return ids
	}
	for id := range s.users {
		ids = append(ids, id)
	}
	return ids
}
