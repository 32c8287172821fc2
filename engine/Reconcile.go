package engine

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/models"
)

// ReconcileReport counts the repairs a Reconcile pass made (or would make,
// in a dry run).
type ReconcileReport struct {
	OrphanComments     int `json:"orphanComments"`
	PostCommentsPulled int `json:"postCommentsPulled"`
	PostCommentsAdded  int `json:"postCommentsAdded"`
	PostLikesPulled    int `json:"postLikesPulled"`
	RepliesPulled      int `json:"repliesPulled"`
	RepliesAdded       int `json:"repliesAdded"`
	ThreadsPulled      int `json:"threadsPulled"`
	ThreadsAdded       int `json:"threadsAdded"`
	RepostsPulled      int `json:"repostsPulled"`
	FollowersPulled    int `json:"followersPulled"`
}

// Total is the number of individual repairs.
func (r ReconcileReport) Total() int {
	return r.OrphanComments + r.PostCommentsPulled + r.PostCommentsAdded + r.PostLikesPulled +
		r.RepliesPulled + r.RepliesAdded + r.ThreadsPulled + r.ThreadsAdded +
		r.RepostsPulled + r.FollowersPulled
}

// Reconcile walks every user, post and comment and restores the reference
// invariants that an interrupted cascade can leave broken: comments without
// a live parent are deleted, ids that do not resolve (or resolve to the wrong
// owner) are pulled, and live comments/posts missing from their owners'
// lists are added back. Every repair is a set operation, so a second pass
// over a repaired graph changes nothing.
//
// The whole graph is loaded into memory; this is an offline maintenance
// pass, not a request path.
func (e *Engine) Reconcile(ctx context.Context, dryRun bool) (*ReconcileReport, error) {
	const op = "reconcile"

	var users []models.User
	if err := e.store.ScanUsers(ctx, func(u models.User) error {
		users = append(users, u)
		return nil
	}); err != nil {
		return nil, storageFailure(op, "scan users", err)
	}
	var posts []models.Post
	if err := e.store.ScanPosts(ctx, func(p models.Post) error {
		posts = append(posts, p)
		return nil
	}); err != nil {
		return nil, storageFailure(op, "scan posts", err)
	}
	comments := make(map[primitive.ObjectID]models.Comment)
	if err := e.store.ScanComments(ctx, func(c models.Comment) error {
		comments[c.ID] = c
		return nil
	}); err != nil {
		return nil, storageFailure(op, "scan comments", err)
	}

	liveUsers := newIDSet()
	for _, u := range users {
		liveUsers.add(u.ID)
	}
	livePosts := make(map[primitive.ObjectID]models.Post, len(posts))
	for _, p := range posts {
		livePosts[p.ID] = p
	}

	report := &ReconcileReport{}
	r := reconciler{e: e, ctx: ctx, dryRun: dryRun}

	var orphans []primitive.ObjectID
	for id, c := range comments {
		if _, ok := livePosts[c.Post]; !ok {
			orphans = append(orphans, id)
			delete(comments, id)
		}
	}
	if len(orphans) > 0 {
		report.OrphanComments = len(orphans)
		if !dryRun {
			if _, err := e.store.DeleteComments(ctx, orphans); err != nil {
				return report, storageFailure(op, "delete orphan comments", err)
			}
		}
	}

	commentsByPost := make(map[primitive.ObjectID][]primitive.ObjectID)
	commentsByAuthor := make(map[primitive.ObjectID][]primitive.ObjectID)
	for id, c := range comments {
		commentsByPost[c.Post] = append(commentsByPost[c.Post], id)
		commentsByAuthor[c.Admin] = append(commentsByAuthor[c.Admin], id)
	}
	postsByAuthor := make(map[primitive.ObjectID][]primitive.ObjectID)
	for _, p := range posts {
		postsByAuthor[p.Admin] = append(postsByAuthor[p.Admin], p.ID)
	}

	for _, p := range posts {
		n, err := r.pullIf(models.Comments, p.ID, p.Comments, func(id primitive.ObjectID) bool {
			c, ok := comments[id]
			return !ok || c.Post != p.ID
		})
		report.PostCommentsPulled += n
		if err != nil {
			return report, err
		}
		n, err = r.addMissing(models.Comments, p.ID, p.Comments, commentsByPost[p.ID])
		report.PostCommentsAdded += n
		if err != nil {
			return report, err
		}
		n, err = r.pullIf(models.Likes, p.ID, p.Likes, func(id primitive.ObjectID) bool {
			return !liveUsers.has(id)
		})
		report.PostLikesPulled += n
		if err != nil {
			return report, err
		}
	}

	for _, u := range users {
		n, err := r.pullIf(models.Replies, u.ID, u.Replies, func(id primitive.ObjectID) bool {
			c, ok := comments[id]
			return !ok || c.Admin != u.ID
		})
		report.RepliesPulled += n
		if err != nil {
			return report, err
		}
		n, err = r.addMissing(models.Replies, u.ID, u.Replies, commentsByAuthor[u.ID])
		report.RepliesAdded += n
		if err != nil {
			return report, err
		}
		n, err = r.pullIf(models.Threads, u.ID, u.Threads, func(id primitive.ObjectID) bool {
			p, ok := livePosts[id]
			return !ok || p.Admin != u.ID
		})
		report.ThreadsPulled += n
		if err != nil {
			return report, err
		}
		n, err = r.addMissing(models.Threads, u.ID, u.Threads, postsByAuthor[u.ID])
		report.ThreadsAdded += n
		if err != nil {
			return report, err
		}
		n, err = r.pullIf(models.Reposts, u.ID, u.Reposts, func(id primitive.ObjectID) bool {
			_, ok := livePosts[id]
			return !ok
		})
		report.RepostsPulled += n
		if err != nil {
			return report, err
		}
		n, err = r.pullIf(models.Followers, u.ID, u.Followers, func(id primitive.ObjectID) bool {
			return !liveUsers.has(id)
		})
		report.FollowersPulled += n
		if err != nil {
			return report, err
		}
	}

	e.logger.Info("reconcile finished", "dry_run", dryRun, "repairs", report.Total())
	return report, nil
}

type reconciler struct {
	e      *Engine
	ctx    context.Context
	dryRun bool
}

func (r reconciler) pullIf(rel models.Relation, owner primitive.ObjectID, list []primitive.ObjectID, stale func(primitive.ObjectID) bool) (int, error) {
	n := 0
	for _, id := range list {
		if !stale(id) {
			continue
		}
		n++
		if r.dryRun {
			continue
		}
		if err := r.e.unlink(r.ctx, "reconcile", rel, owner, id); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (r reconciler) addMissing(rel models.Relation, owner primitive.ObjectID, list, want []primitive.ObjectID) (int, error) {
	have := newIDSet(list...)
	n := 0
	for _, id := range want {
		if have.has(id) {
			continue
		}
		n++
		if r.dryRun {
			continue
		}
		if err := r.e.link(r.ctx, "reconcile", rel, owner, id); err != nil {
			return n, err
		}
	}
	return n, nil
}
