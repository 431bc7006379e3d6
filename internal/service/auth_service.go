package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/repository"
	"github.com/d60-Lab/newsfeed/pkg/jwt"
)

// AuthService 注册、登录、登出
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (string, *model.User, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
}

// MaxPasswordBytes bcrypt 只接受 72 字节以内的口令
const MaxPasswordBytes = 72

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	revoker  jwt.Revoker
	cost     int
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, revoker jwt.Revoker) AuthService {
	if revoker == nil {
		revoker = jwt.NopRevoker{}
	}
	return &authService{userRepo: userRepo, tokens: tokens, revoker: revoker, cost: bcrypt.DefaultCost}
}

func (s *authService) Register(ctx context.Context, username, password string) (*model.User, error) {
	// 按字节计，多字节字符可能在字符数合法时超限
	if len(password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	user := &model.User{Username: strings.TrimSpace(username), Password: string(hash)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, _, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout 吊销当前令牌直至其过期
func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	return s.revoker.Revoke(ctx, claims.ID, s.tokens.TTL(claims))
}
