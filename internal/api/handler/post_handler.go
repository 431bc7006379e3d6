package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/newsfeed/internal/api/middleware"
	"github.com/d60-Lab/newsfeed/pkg/response"
)

type createPostRequest struct {
	Content string `json:"content"`
}

// CreatePost 发帖
// @Summary 发帖
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "帖子内容"
// @Success 201 {object} model.PostView
// @Failure 400 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /api/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	post, err := h.postService.CreatePost(c.Request.Context(), userID, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, post)
}

// GetFeed 关注流
// @Summary 关注用户的帖子（时间倒序）
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} service.Feed
// @Failure 500 {object} response.ErrorBody
// @Router /api/feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	page := queryInt(c, "page", h.defaultPage)
	limit := queryInt(c, "limit", h.defaultLimit)
	userID, _ := middleware.CurrentUserID(c)
	feed, err := h.postService.GetFeed(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, feed)
}

// queryInt 缺省、非数字或 0 时使用默认值；负数原样透传
func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n == 0 {
		return def
	}
	return n
}
