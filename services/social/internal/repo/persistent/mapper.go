package persistent

import (
	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}
	return &entity.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Permission:   ToPermissionEntity(m.Permission),
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}
	return &model.UserModel{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func ToPermissionEntity(m *model.PermissionModel) *entity.Permission {
	if m == nil {
		return nil
	}
	return &entity.Permission{
		ID:               m.ID,
		UserID:           m.UserID,
		CanCreatePost:    m.CanCreatePost,
		CanUpdatePost:    m.CanUpdatePost,
		CanDeletePost:    m.CanDeletePost,
		CanCreateComment: m.CanCreateComment,
		CanUpdateComment: m.CanUpdateComment,
		CanDeleteComment: m.CanDeleteComment,
		CanLikePost:      m.CanLikePost,
		CanUnlikePost:    m.CanUnlikePost,
	}
}

func ToPermissionModel(e *entity.Permission) *model.PermissionModel {
	if e == nil {
		return nil
	}
	return &model.PermissionModel{
		ID:               e.ID,
		UserID:           e.UserID,
		CanCreatePost:    e.CanCreatePost,
		CanUpdatePost:    e.CanUpdatePost,
		CanDeletePost:    e.CanDeletePost,
		CanCreateComment: e.CanCreateComment,
		CanUpdateComment: e.CanUpdateComment,
		CanDeleteComment: e.CanDeleteComment,
		CanLikePost:      e.CanLikePost,
		CanUnlikePost:    e.CanUnlikePost,
	}
}

func ToAccessTokenEntity(m *model.AccessTokenModel) *entity.AccessToken {
	if m == nil {
		return nil
	}
	return &entity.AccessToken{
		ID:         m.ID,
		UserID:     m.UserID,
		TokenID:    m.TokenID,
		Name:       m.Name,
		ExpiresAt:  m.ExpiresAt,
		LastUsedAt: m.LastUsedAt,
		CreatedAt:  m.CreatedAt,
	}
}

func ToAccessTokenModel(e *entity.AccessToken) *model.AccessTokenModel {
	if e == nil {
		return nil
	}
	return &model.AccessTokenModel{
		ID:         e.ID,
		UserID:     e.UserID,
		TokenID:    e.TokenID,
		Name:       e.Name,
		ExpiresAt:  e.ExpiresAt,
		LastUsedAt: e.LastUsedAt,
		CreatedAt:  e.CreatedAt,
	}
}

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}
	return &entity.Post{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Content:   m.Content,
		ImageURL:  m.ImageURL,
		ImageKey:  m.ImageKey,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}
	return &model.PostModel{
		ID:        e.ID,
		AuthorID:  e.AuthorID,
		Content:   e.Content,
		ImageURL:  e.ImageURL,
		ImageKey:  e.ImageKey,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToCommentEntity(m *model.CommentModel) *entity.Comment {
	if m == nil {
		return nil
	}
	return &entity.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		AuthorID:  m.AuthorID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToCommentModel(e *entity.Comment) *model.CommentModel {
	if e == nil {
		return nil
	}
	return &model.CommentModel{
		ID:        e.ID,
		PostID:    e.PostID,
		AuthorID:  e.AuthorID,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToLikeEntity(m *model.LikeModel) *entity.Like {
	if m == nil {
		return nil
	}
	return &entity.Like{
		ID:        m.ID,
		UserID:    m.UserID,
		PostID:    m.PostID,
		CreatedAt: m.CreatedAt,
	}
}
