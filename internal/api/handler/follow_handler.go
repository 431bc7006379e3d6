package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/newsfeed/internal/api/middleware"
	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/service"
	"github.com/d60-Lab/newsfeed/pkg/response"
)

type usersResponse struct {
	Users []*model.UserSummary `json:"users"`
}

// Follow 关注用户
// @Summary 关注用户
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param userid path int true "被关注用户ID"
// @Success 200 {object} response.MessageBody
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /api/follow/{userid} [post]
func (h *Handler) Follow(c *gin.Context) {
	followerID, _ := middleware.CurrentUserID(c)
	followeeID, err := service.ParseUserID(c.Param("userid"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.followService.Follow(c.Request.Context(), followerID, followeeID); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, fmt.Sprintf("You are now following user %d", followeeID))
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param userid path int true "被关注用户ID"
// @Success 200 {object} response.MessageBody
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /api/follow/{userid} [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	followerID, _ := middleware.CurrentUserID(c)
	followeeID, err := service.ParseUserID(c.Param("userid"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.followService.Unfollow(c.Request.Context(), followerID, followeeID); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, fmt.Sprintf("You unfollowed user %d", followeeID))
}

// ListUsers 用户列表（附关注状态）
// @Summary 用户列表
// @Description 除当前用户外的全部用户，含粉丝数、帖子数以及是否已关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Success 200 {object} usersResponse
// @Failure 500 {object} response.ErrorBody
// @Router /api/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	users, err := h.followService.ListUsers(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, usersResponse{Users: users})
}
