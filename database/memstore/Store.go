// Package memstore is an in-process implementation of the engine's store
// and media ports. It follows the MongoDB store's semantics (set-add,
// set-remove, mongo.ErrNoDocuments for missing documents, duplicate-key
// errors on email) so the engine behaves the same on either backend.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"threadline/models"
)

type Store struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]*models.User
	posts    map[primitive.ObjectID]*models.Post
	comments map[primitive.ObjectID]*models.Comment
}

func New() *Store {
	return &Store{
		users:    make(map[primitive.ObjectID]*models.User),
		posts:    make(map[primitive.ObjectID]*models.Post),
		comments: make(map[primitive.ObjectID]*models.Comment),
	}
}

func duplicateEmail(email string) error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{
			Code:    11000,
			Message: fmt.Sprintf("E11000 duplicate key error collection: users index: email_1 dup key: { email: %q }", email),
		}},
	}
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return slices.Clone(ids)
}

func cloneUser(u *models.User) models.User {
	c := *u
	c.Followers = cloneIDs(u.Followers)
	c.Threads = cloneIDs(u.Threads)
	c.Replies = cloneIDs(u.Replies)
	c.Reposts = cloneIDs(u.Reposts)
	return c
}

func clonePost(p *models.Post) models.Post {
	c := *p
	c.Likes = cloneIDs(p.Likes)
	c.Comments = cloneIDs(p.Comments)
	return c
}

// Users

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return duplicateEmail(user.Email)
		}
	}
	c := cloneUser(user)
	s.users[user.ID] = &c
	return nil
}

func (s *Store) FindUser(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := cloneUser(u)
	return &c, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			c := cloneUser(u)
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *Store) FindUsers(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.User
	for _, id := range dedupe(ids) {
		if u, ok := s.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (s *Store) SearchUsers(_ context.Context, query string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	var out []models.User
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (s *Store) UpdateProfile(_ context.Context, id primitive.ObjectID, update models.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.ProfilePic != nil {
		u.ProfilePic = *update.ProfilePic
	}
	if update.PublicID != nil {
		u.PublicID = *update.PublicID
	}
	return nil
}

func (s *Store) ScanUsers(_ context.Context, fn func(models.User) error) error {
	s.mu.RLock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, cloneUser(u))
	}
	s.mu.RUnlock()
	for _, u := range users {
		if err := fn(u); err != nil {
			return err
		}
	}
	return nil
}

// Posts

func (s *Store) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := clonePost(post)
	s.posts[post.ID] = &c
	return nil
}

func (s *Store) FindPost(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := clonePost(p)
	return &c, nil
}

func (s *Store) FindPosts(_ context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Post
	for _, id := range dedupe(ids) {
		if p, ok := s.posts[id]; ok {
			out = append(out, clonePost(p))
		}
	}
	return out, nil
}

func (s *Store) ListPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	s.mu.RLock()
	all := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		all = append(all, clonePost(p))
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.Hex() > all[j].ID.Hex()
	})
	if skip >= int64(len(all)) {
		return nil, nil
	}
	end := int64(len(all))
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return all[skip:end], nil
}

func (s *Store) SetPostMedia(_ context.Context, id primitive.ObjectID, url, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.Media = url
	p.PublicID = handle
	return nil
}

func (s *Store) DeletePost(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(s.posts, id)
	return nil
}

func (s *Store) ScanPosts(_ context.Context, fn func(models.Post) error) error {
	s.mu.RLock()
	posts := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, clonePost(p))
	}
	s.mu.RUnlock()
	for _, p := range posts {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

// Comments

func (s *Store) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *comment
	s.comments[comment.ID] = &c
	return nil
}

func (s *Store) FindComment(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cc := *c
	return &cc, nil
}

func (s *Store) FindComments(_ context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Comment
	for _, id := range dedupe(ids) {
		if c, ok := s.comments[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *Store) FindCommentsByPost(_ context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Comment
	for _, c := range s.comments {
		if c.Post == postID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) DeleteComment(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(s.comments, id)
	return nil
}

func (s *Store) DeleteComments(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range dedupe(ids) {
		if _, ok := s.comments[id]; ok {
			delete(s.comments, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) ScanComments(_ context.Context, fn func(models.Comment) error) error {
	s.mu.RLock()
	comments := make([]models.Comment, 0, len(s.comments))
	for _, c := range s.comments {
		comments = append(comments, *c)
	}
	s.mu.RUnlock()
	for _, c := range comments {
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
