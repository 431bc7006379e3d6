package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/newsfeed/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	// ListByAuthors 按 created_at DESC, id DESC 分页返回 authorIDs 的帖子（含作者）
	ListByAuthors(ctx context.Context, authorIDs []int64, offset, limit int) ([]*model.Post, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(post).Error)
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Joins("User").Where("posts.id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *postRepository) ListByAuthors(ctx context.Context, authorIDs []int64, offset, limit int) ([]*model.Post, error) {
	res := make([]*model.Post, 0)
	if len(authorIDs) == 0 {
		return res, nil
	}
	// 负数 offset/limit 在 gorm 中等价于不设置
	err := r.db.WithContext(ctx).
		Joins("User").
		Where("posts.user_id IN ?", authorIDs).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}
