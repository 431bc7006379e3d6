package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/newsfeed/internal/api/middleware"
	"github.com/d60-Lab/newsfeed/pkg/response"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32,username"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Register 注册
// @Summary 注册
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "用户名与密码"
// @Success 201 {object} userResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /api/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}
	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, userResponse{ID: user.ID, Username: user.Username})
}

// Login 登录
// @Summary 登录并获取令牌
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body loginRequest true "用户名与密码"
// @Success 200 {object} loginResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /api/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}
	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, loginResponse{Token: token, User: userResponse{ID: user.ID, Username: user.Username}})
}

// Logout 吊销当前令牌
// @Summary 登出
// @Tags 账号
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.MessageBody
// @Router /api/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Unauthorized(c, "Access token required")
		return
	}
	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, "Logged out")
}
