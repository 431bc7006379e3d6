package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/repository"
)

// FollowService 关系链服务
type FollowService interface {
	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	ListUsers(ctx context.Context, currentUserID int64) ([]*model.UserSummary, error)
}

// Observer 关注关系变化回调（指标等），可为 nil
type Observer interface {
	Followed(followerID, followeeID int64)
	Unfollowed(followerID, followeeID int64)
}

type followService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	observer   Observer
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, observer Observer) FollowService {
	return &followService{followRepo: followRepo, userRepo: userRepo, observer: observer}
}

// ParseUserID 解析路径中的用户 ID
func ParseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidUserID
	}
	return id, nil
}

func (s *followService) Follow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return ErrFollowSelf
	}
	ok, err := s.userRepo.Exists(ctx, followeeID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	// 预检查只是优化，并发下以唯一约束冲突为准
	exists, err := s.followRepo.Exists(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFollowing
	}
	if err := s.followRepo.Create(ctx, followerID, followeeID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyFollowing
		}
		return err
	}
	if s.observer != nil {
		s.observer.Followed(followerID, followeeID)
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	if err := s.followRepo.Delete(ctx, followerID, followeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFollowing
		}
		return err
	}
	if s.observer != nil {
		s.observer.Unfollowed(followerID, followeeID)
	}
	return nil
}

// ListUsers 两次查询后在内存中合并关注状态，避免逐个用户查询
func (s *followService) ListUsers(ctx context.Context, currentUserID int64) ([]*model.UserSummary, error) {
	users, err := s.userRepo.ListOthersWithCounts(ctx, currentUserID)
	if err != nil {
		return nil, err
	}
	followeeIDs, err := s.followRepo.ListFolloweeIDs(ctx, currentUserID)
	if err != nil {
		return nil, err
	}
	following := make(map[int64]struct{}, len(followeeIDs))
	for _, id := range followeeIDs {
		following[id] = struct{}{}
	}
	for _, u := range users {
		_, u.IsFollowing = following[u.ID]
	}
	return users, nil
}
