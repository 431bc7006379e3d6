package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/newsfeed/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// ListOthersWithCounts 除 excludeID 外的全部用户及其粉丝数、帖子数，按 id 升序
	ListOthersWithCounts(ctx context.Context, excludeID int64) ([]*model.UserSummary, error)
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *userRepository) ListOthersWithCounts(ctx context.Context, excludeID int64) ([]*model.UserSummary, error) {
	res := make([]*model.UserSummary, 0)
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select(`users.id, users.username,
			(SELECT COUNT(*) FROM follows WHERE follows.followee_id = users.id) AS followers_count,
			(SELECT COUNT(*) FROM posts WHERE posts.user_id = users.id) AS posts_count`).
		Where("users.id <> ?", excludeID).
		Order("users.id ASC").
		Scan(&res).Error
	return res, err
}
