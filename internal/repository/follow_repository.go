package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/newsfeed/internal/model"
)

type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID int64) error
	Delete(ctx context.Context, followerID, followeeID int64) error
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
	ListFolloweeIDs(ctx context.Context, followerID int64) ([]int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

// Create 写入关注边；重复关注返回 ErrDuplicate（以唯一约束为准）
func (r *followRepository) Create(ctx context.Context, followerID, followeeID int64) error {
	f := &model.Follow{FollowerID: followerID, FolloweeID: followeeID}
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

// Delete 删除关注边；边不存在返回 ErrNotFound
func (r *followRepository) Delete(ctx context.Context, followerID, followeeID int64) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// ListFolloweeIDs 返回 followerID 关注的全部用户 ID
func (r *followRepository) ListFolloweeIDs(ctx context.Context, followerID int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Order("followee_id").
		Pluck("followee_id", &ids).Error
	return ids, err
}
