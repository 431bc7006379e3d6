package handler

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/newsfeed/internal/service"
	"github.com/d60-Lab/newsfeed/pkg/response"
)

// Handler 聚合各业务服务
type Handler struct {
	followService service.FollowService
	postService   service.PostService
	authService   service.AuthService

	defaultPage  int
	defaultLimit int
	maxLen       int
}

// Options 分页默认值与内容上限
type Options struct {
	DefaultPage      int
	DefaultLimit     int
	MaxContentLength int
}

func NewHandler(followService service.FollowService, postService service.PostService, authService service.AuthService, opts Options) *Handler {
	h := &Handler{
		followService: followService,
		postService:   postService,
		authService:   authService,
		defaultPage:   opts.DefaultPage,
		defaultLimit:  opts.DefaultLimit,
		maxLen:        opts.MaxContentLength,
	}
	if h.defaultPage == 0 {
		h.defaultPage = 1
	}
	if h.defaultLimit == 0 {
		h.defaultLimit = 10
	}
	if h.maxLen <= 0 {
		h.maxLen = service.DefaultMaxContentLength
	}
	return h
}

// fail 将业务错误映射为 HTTP 状态码，未知错误统一 500
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidUserID):
		response.BadRequest(c, "Invalid user ID")
	case errors.Is(err, service.ErrFollowSelf):
		response.BadRequest(c, "You cannot follow yourself")
	case errors.Is(err, service.ErrAlreadyFollowing):
		response.BadRequest(c, "You are already following this user")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, "User not found")
	case errors.Is(err, service.ErrNotFollowing):
		response.NotFound(c, "You are not following this user")
	case errors.Is(err, service.ErrEmptyContent):
		response.BadRequest(c, "Content is required")
	case errors.Is(err, service.ErrContentTooLong):
		response.UnprocessableEntity(c, fmt.Sprintf("Content must not exceed %d characters", h.maxLen))
	case errors.Is(err, service.ErrUsernameTaken):
		response.BadRequest(c, "Username already taken")
	case errors.Is(err, service.ErrPasswordTooLong):
		response.BadRequest(c, fmt.Sprintf("Password must not exceed %d bytes", service.MaxPasswordBytes))
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, "Invalid username or password")
	default:
		response.InternalError(c, err)
	}
}

var registerOnce sync.Once

// RegisterValidators 注册自定义校验规则（username）
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("username", validateUsername)
		}
	})
}

// 字母、数字、下划线
func validateUsername(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// bindingMessage 将校验错误转换为可读信息
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "username":
			msgs = append(msgs, field+" may only contain letters, digits and underscores")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
