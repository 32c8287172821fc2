package engine

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/models"
)

// Read paths. References that no longer resolve, e.g. ids left behind by an
// interrupted delete-post cascade, are dropped from the result rather than
// turned into errors.

// ListPosts returns page (1-based) of all posts, newest first.
func (e *Engine) ListPosts(ctx context.Context, page int) ([]models.PostView, error) {
	const op = "list-posts"

	if page < 1 {
		page = 1
	}
	posts, err := e.store.ListPosts(ctx, int64(page-1)*e.pageSize, e.pageSize)
	if err != nil {
		return nil, storageFailure(op, "list posts", err)
	}
	return e.hydratePosts(ctx, op, posts)
}

func (e *Engine) GetPost(ctx context.Context, postID primitive.ObjectID) (*models.PostView, error) {
	const op = "get-post"

	post, err := e.store.FindPost(ctx, postID)
	if err != nil {
		return nil, lookupFailure(op, "post", err)
	}
	views, err := e.hydratePosts(ctx, op, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GetProfile resolves a user's followers, threads, reposts and replies.
func (e *Engine) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.ProfileView, error) {
	const op = "get-profile"

	user, err := e.store.FindUser(ctx, userID)
	if err != nil {
		return nil, lookupFailure(op, "user", err)
	}

	followers, err := e.resolveUsers(ctx, op, user.Followers)
	if err != nil {
		return nil, err
	}

	postIDs := newIDSet(user.Threads...)
	for _, id := range user.Reposts {
		postIDs.add(id)
	}
	posts, err := e.store.FindPosts(ctx, postIDs.slice())
	if err != nil {
		return nil, storageFailure(op, "load posts", err)
	}
	postViews, err := e.hydratePosts(ctx, op, posts)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.PostView, len(postViews))
	for _, v := range postViews {
		byID[v.ID] = v
	}

	replies, err := e.store.FindComments(ctx, user.Replies)
	if err != nil {
		return nil, storageFailure(op, "load replies", err)
	}
	replyAuthors := make([]primitive.ObjectID, 0, len(replies))
	for _, c := range replies {
		replyAuthors = append(replyAuthors, c.Admin)
	}
	authors, err := e.resolveUsers(ctx, op, replyAuthors)
	if err != nil {
		return nil, err
	}
	repliesByID := make(map[primitive.ObjectID]models.CommentView, len(replies))
	for _, c := range replies {
		repliesByID[c.ID] = commentView(c, authors)
	}

	return &models.ProfileView{
		UserSummary: models.Summarize(user),
		Followers:   summaries(user.Followers, followers),
		Threads:     pick(user.Threads, byID),
		Replies:     pick(user.Replies, repliesByID),
		Reposts:     pick(user.Reposts, byID),
		CreatedAt:   user.CreatedAt,
	}, nil
}

// SearchUsers matches query case-insensitively against username and email.
func (e *Engine) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	const op = "search-users"

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError(op, "search query is required")
	}
	users, err := e.store.SearchUsers(ctx, query)
	if err != nil {
		return nil, storageFailure(op, "search users", err)
	}
	out := make([]models.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, models.Summarize(&users[i]))
	}
	return out, nil
}

// hydratePosts resolves admin, likers and comments (with their admins) for
// each post using one batch read per collection.
func (e *Engine) hydratePosts(ctx context.Context, op string, posts []models.Post) ([]models.PostView, error) {
	commentIDs := newIDSet()
	for _, p := range posts {
		for _, id := range p.Comments {
			commentIDs.add(id)
		}
	}
	comments, err := e.store.FindComments(ctx, commentIDs.slice())
	if err != nil {
		return nil, storageFailure(op, "load comments", err)
	}

	userIDs := newIDSet()
	for _, p := range posts {
		userIDs.add(p.Admin)
		for _, id := range p.Likes {
			userIDs.add(id)
		}
	}
	for _, c := range comments {
		userIDs.add(c.Admin)
	}
	users, err := e.resolveUsers(ctx, op, userIDs.slice())
	if err != nil {
		return nil, err
	}

	commentsByID := make(map[primitive.ObjectID]models.CommentView, len(comments))
	for _, c := range comments {
		commentsByID[c.ID] = commentView(c, users)
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		view := models.PostView{
			ID:        p.ID,
			Text:      p.Text,
			Media:     p.Media,
			Likes:     summaries(p.Likes, users),
			Comments:  pick(p.Comments, commentsByID),
			CreatedAt: p.CreatedAt,
		}
		if u, ok := users[p.Admin]; ok {
			s := models.Summarize(&u)
			view.Admin = &s
		}
		views = append(views, view)
	}
	return views, nil
}

func (e *Engine) resolveUsers(ctx context.Context, op string, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	users, err := e.store.FindUsers(ctx, ids)
	if err != nil {
		return nil, storageFailure(op, "load users", err)
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func commentView(c models.Comment, users map[primitive.ObjectID]models.User) models.CommentView {
	view := models.CommentView{
		ID:        c.ID,
		Text:      c.Text,
		Post:      c.Post,
		CreatedAt: c.CreatedAt,
	}
	if u, ok := users[c.Admin]; ok {
		s := models.Summarize(&u)
		view.Admin = &s
	}
	return view
}

func summaries(ids []primitive.ObjectID, users map[primitive.ObjectID]models.User) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			out = append(out, models.Summarize(&u))
		}
	}
	return out
}

// pick returns the resolved values for ids in list order, skipping ids that
// did not resolve.
func pick[T any](ids []primitive.ObjectID, resolved map[primitive.ObjectID]T) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if v, ok := resolved[id]; ok {
			out = append(out, v)
		}
	}
	return out
}
