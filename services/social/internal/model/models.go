package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	ID           string `gorm:"type:uuid;primary_key"`
	Name         string `gorm:"type:varchar(255);not null"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Permission   *PermissionModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

type PermissionModel struct {
	ID               string `gorm:"type:uuid;primary_key"`
	UserID           string `gorm:"type:uuid;not null;uniqueIndex:idx_permissions_user_id"`
	CanCreatePost    bool   `gorm:"not null"`
	CanUpdatePost    bool   `gorm:"not null"`
	CanDeletePost    bool   `gorm:"not null"`
	CanCreateComment bool   `gorm:"not null"`
	CanUpdateComment bool   `gorm:"not null"`
	CanDeleteComment bool   `gorm:"not null"`
	CanLikePost      bool   `gorm:"not null"`
	CanUnlikePost    bool   `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PermissionModel) TableName() string { return "permissions" }

func (p *PermissionModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

type AccessTokenModel struct {
	ID         string `gorm:"type:uuid;primary_key"`
	UserID     string `gorm:"type:uuid;not null;index"`
	TokenID    string `gorm:"type:varchar(64);not null;uniqueIndex:idx_access_tokens_token_id"`
	Name       string `gorm:"type:varchar(255);not null;default:'auth_token'"`
	ExpiresAt  *time.Time
	LastUsedAt *time.Time
	CreatedAt  time.Time
	User       *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (AccessTokenModel) TableName() string { return "access_tokens" }

func (t *AccessTokenModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

type PostModel struct {
	ID        string    `gorm:"type:uuid;primary_key"`
	AuthorID  string    `gorm:"type:uuid;not null;index"`
	Content   string    `gorm:"type:text"`
	ImageURL  string    `gorm:"type:varchar(500);not null;default:''"`
	ImageKey  string    `gorm:"type:varchar(500);not null;default:''"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	Author    *UserModel `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (PostModel) TableName() string { return "posts" }

func (p *PostModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

type CommentModel struct {
	ID        string `gorm:"type:uuid;primary_key"`
	PostID    string `gorm:"type:uuid;not null;index"`
	AuthorID  string `gorm:"type:uuid;not null;index"`
	Content   string `gorm:"type:varchar(1000);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Post      *PostModel `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Author    *UserModel `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (CommentModel) TableName() string { return "comments" }

func (c *CommentModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

type LikeModel struct {
	ID        string `gorm:"type:uuid;primary_key"`
	UserID    string `gorm:"type:uuid;not null;uniqueIndex:idx_user_post,priority:1"`
	PostID    string `gorm:"type:uuid;not null;uniqueIndex:idx_user_post,priority:2;index"`
	CreatedAt time.Time
	User      *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post      *PostModel `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (LikeModel) TableName() string { return "likes" }

func (l *LikeModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// All lists every model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&PermissionModel{},
		&AccessTokenModel{},
		&PostModel{},
		&CommentModel{},
		&LikeModel{},
	}
}
