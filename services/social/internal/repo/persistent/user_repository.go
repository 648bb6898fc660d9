package persistent

import (
	"context"
	"errors"

	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	// CreateWithPermission stores the user and its default permission row in one transaction.
	CreateWithPermission(ctx context.Context, user *entity.User) error
	CreatePermission(ctx context.Context, permission *entity.Permission) error
	UpdatePermission(ctx context.Context, permission *entity.Permission) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateWithPermission(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userModel).Error; err != nil {
			if isDuplicate(err) {
				return entity.ErrEmailTaken
			}
			return err
		}

		permission := user.Permission
		if permission == nil {
			permission = entity.DefaultPermission(userModel.ID)
		}
		permissionModel := ToPermissionModel(permission)
		permissionModel.UserID = userModel.ID
		if err := tx.Create(permissionModel).Error; err != nil {
			return err
		}

		userModel.Permission = permissionModel
		return nil
	})
	if err != nil {
		if errors.Is(err, entity.ErrEmailTaken) {
			return err
		}
		return wrap("create user", err)
	}

	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) CreatePermission(ctx context.Context, permission *entity.Permission) error {
	permissionModel := ToPermissionModel(permission)
	if err := r.db.WithContext(ctx).Create(permissionModel).Error; err != nil {
		if isDuplicate(err) {
			return entity.ErrPermissionExists
		}
		return wrap("create permission", err)
	}
	*permission = *ToPermissionEntity(permissionModel)
	return nil
}

func (r *userRepository) UpdatePermission(ctx context.Context, permission *entity.Permission) error {
	permissionModel := ToPermissionModel(permission)
	result := r.db.WithContext(ctx).Model(&model.PermissionModel{}).
		Where("user_id = ?", permission.UserID).
		Select(
			"can_create_post", "can_update_post", "can_delete_post",
			"can_create_comment", "can_update_comment", "can_delete_comment",
			"can_like_post", "can_unlike_post",
		).
		Updates(permissionModel)
	if result.Error != nil {
		return wrap("update permission", result.Error)
	}
	if result.RowsAffected == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var userModel model.UserModel
	err := r.db.WithContext(ctx).Preload("Permission").Where("id = ?", id).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrUserNotFound
		}
		return nil, wrap("get user", err)
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.UserModel
	err := r.db.WithContext(ctx).Preload("Permission").Where("email = ?", email).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrUserNotFound
		}
		return nil, wrap("get user by email", err)
	}
	return ToUserEntity(&userModel), nil
}

// GetByIDs loads users with their permissions in two queries regardless of len(ids).
func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var userModels []model.UserModel
	if err := r.db.WithContext(ctx).Preload("Permission").Where("id IN ?", ids).Find(&userModels).Error; err != nil {
		return nil, wrap("get users", err)
	}

	users := make([]*entity.User, len(userModels))
	for i := range userModels {
		users[i] = ToUserEntity(&userModels[i])
	}
	return users, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, wrap("check email", err)
	}
	return count > 0, nil
}
