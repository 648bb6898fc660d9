package projector

import (
	"context"
	"fmt"

	"social-feed/services/social/internal/entity"
)

type UserSource interface {
	GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
}

type CommentSource interface {
	ListByPostIDs(ctx context.Context, postIDs []string) ([]*entity.Comment, error)
}

type LikeSource interface {
	Aggregates(ctx context.Context, postIDs []string, viewerID string) (map[string]entity.LikeAggregate, error)
}

// Projector turns entities into viewer-relative views. Each call loads the
// relations its Includes name with one query per relation, whatever the
// number of entities.
type Projector struct {
	users    UserSource
	comments CommentSource
	likes    LikeSource
}

func New(users UserSource, comments CommentSource, likes LikeSource) *Projector {
	return &Projector{users: users, comments: comments, likes: likes}
}

func (p *Projector) Posts(ctx context.Context, viewer *entity.Identity, posts []*entity.Post, inc Includes) ([]PostView, error) {
	return p.project(ctx, viewer, posts, inc, nil)
}

func (p *Projector) Post(ctx context.Context, viewer *entity.Identity, post *entity.Post, inc Includes) (*PostView, error) {
	views, err := p.project(ctx, viewer, []*entity.Post{post}, inc, nil)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// PostWithLikes projects post using an aggregate the caller already holds,
// such as the one returned by a like mutation.
func (p *Projector) PostWithLikes(ctx context.Context, viewer *entity.Identity, post *entity.Post, agg entity.LikeAggregate, inc Includes) (*PostView, error) {
	known := map[string]entity.LikeAggregate{post.ID: agg}
	views, err := p.project(ctx, viewer, []*entity.Post{post}, inc, known)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (p *Projector) Comments(ctx context.Context, comments []*entity.Comment, inc Includes) ([]CommentView, error) {
	var authors map[string]*entity.User
	if inc.Author {
		ids := make([]string, 0, len(comments))
		for _, c := range comments {
			ids = append(ids, c.AuthorID)
		}
		var err error
		if authors, err = p.loadUsers(ctx, ids); err != nil {
			return nil, err
		}
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, commentView(c, authors[c.AuthorID]))
	}
	return views, nil
}

func (p *Projector) Comment(ctx context.Context, comment *entity.Comment, inc Includes) (*CommentView, error) {
	views, err := p.Comments(ctx, []*entity.Comment{comment}, inc)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// User projects a user whose permission row is already loaded.
func (p *Projector) User(user *entity.User, inc Includes) *UserView {
	return userView(user, inc.Permissions)
}

func (p *Projector) project(
	ctx context.Context,
	viewer *entity.Identity,
	posts []*entity.Post,
	inc Includes,
	known map[string]entity.LikeAggregate,
) ([]PostView, error) {
	if len(posts) == 0 {
		return []PostView{}, nil
	}

	postIDs := make([]string, 0, len(posts))
	for _, post := range posts {
		postIDs = append(postIDs, post.ID)
	}

	aggregates := known
	if aggregates == nil {
		var err error
		aggregates, err = p.likes.Aggregates(ctx, postIDs, viewer.UserID())
		if err != nil {
			return nil, fmt.Errorf("failed to load like aggregates: %w", err)
		}
	}

	commentsByPost := make(map[string][]*entity.Comment)
	var userIDs []string
	if inc.Comments {
		comments, err := p.comments.ListByPostIDs(ctx, postIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load comments: %w", err)
		}
		for _, c := range comments {
			commentsByPost[c.PostID] = append(commentsByPost[c.PostID], c)
			userIDs = append(userIDs, c.AuthorID)
		}
	}
	if inc.Author {
		for _, post := range posts {
			userIDs = append(userIDs, post.AuthorID)
		}
	}

	users, err := p.loadUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		agg := aggregates[post.ID]
		view := PostView{
			ID:         post.ID,
			Content:    post.Content,
			ImageURL:   post.ImageURL,
			LikesCount: agg.LikesCount,
			IsLiked:    viewer != nil && agg.IsLiked,
			CreatedAt:  post.CreatedAt.Unix(),
			UpdatedAt:  post.UpdatedAt.Unix(),
		}
		if inc.Author {
			view.Author = userView(users[post.AuthorID], true)
		}
		if inc.Comments {
			comments := make([]CommentView, 0, len(commentsByPost[post.ID]))
			for _, c := range commentsByPost[post.ID] {
				comments = append(comments, commentView(c, users[c.AuthorID]))
			}
			view.Comments = &comments
		}
		views = append(views, view)
	}
	return views, nil
}

func (p *Projector) loadUsers(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	byID := make(map[string]*entity.User)
	ids = unique(ids)
	if len(ids) == 0 {
		return byID, nil
	}

	users, err := p.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
