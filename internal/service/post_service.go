package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/repository"
)

// DefaultMaxContentLength 帖子内容上限（trim 之后按字符计）
const DefaultMaxContentLength = 200

// Feed 动态流分页结果
type Feed struct {
	Page  int              `json:"page"`
	Posts []model.PostView `json:"posts"`
}

// PostService 发帖与动态流
type PostService interface {
	CreatePost(ctx context.Context, userID int64, content string) (*model.PostView, error)
	GetFeed(ctx context.Context, userID int64, page, limit int) (*Feed, error)
}

// PostObserver 发帖回调，可为 nil
type PostObserver interface {
	Published(post *model.PostView)
}

type postService struct {
	followRepo repository.FollowRepository
	postRepo   repository.PostRepository
	userRepo   repository.UserRepository
	maxLen     int
	now        func() time.Time
	observer   PostObserver
}

// PostOption 可选配置
type PostOption func(*postService)

// WithMaxContentLength 覆盖内容长度上限
func WithMaxContentLength(n int) PostOption {
	return func(s *postService) {
		if n > 0 {
			s.maxLen = n
		}
	}
}

// WithClock 注入时钟（测试用）
func WithClock(now func() time.Time) PostOption {
	return func(s *postService) { s.now = now }
}

// WithPostObserver 设置发帖回调
func WithPostObserver(o PostObserver) PostOption {
	return func(s *postService) { s.observer = o }
}

func NewPostService(db *gorm.DB, followRepo repository.FollowRepository, opts ...PostOption) PostService {
	s := &postService{
		followRepo: followRepo,
		postRepo:   repository.NewPostRepository(db),
		userRepo:   repository.NewUserRepository(db),
		maxLen:     DefaultMaxContentLength,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePost 校验作者后写入帖子，再连同作者读回落库后的记录
func (s *postService) CreatePost(ctx context.Context, userID int64, content string) (*model.PostView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > s.maxLen {
		return nil, fmt.Errorf("%w: must not exceed %d characters", ErrContentTooLong, s.maxLen)
	}

	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	// postgres 只保存到微秒
	post := &model.Post{UserID: userID, Content: content, CreatedAt: s.now().Truncate(time.Microsecond)}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	stored, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	view := stored.View()
	if s.observer != nil {
		s.observer.Published(&view)
	}
	return &view, nil
}

// GetFeed 关注者的帖子，按时间倒序分页。page/limit 不做正数校验，原样参与计算。
func (s *postService) GetFeed(ctx context.Context, userID int64, page, limit int) (*Feed, error) {
	followeeIDs, err := s.followRepo.ListFolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	feed := &Feed{Page: page, Posts: make([]model.PostView, 0)}
	if len(followeeIDs) == 0 {
		return feed, nil
	}

	offset := (page - 1) * limit
	posts, err := s.postRepo.ListByAuthors(ctx, followeeIDs, offset, limit)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		feed.Posts = append(feed.Posts, p.View())
	}
	return feed, nil
}
