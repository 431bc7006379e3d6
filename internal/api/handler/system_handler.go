package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Version API 版本
const Version = "1.0.0"

type healthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// Health 健康检查（无需认证），数据库状态只做展示
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "up"
		if db == nil {
			dbStatus = "unknown"
		} else if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			dbStatus = "down"
		}
		c.JSON(http.StatusOK, healthResponse{
			Status:    "OK",
			Message:   "Server is running",
			Database:  dbStatus,
			Timestamp: time.Now(),
		})
	}
}

// Index API 概览
func Index(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "News Feed API",
			"version": Version,
			"endpoints": gin.H{
				"auth":   prefix + "/register, " + prefix + "/login, " + prefix + "/logout",
				"posts":  prefix + "/posts, " + prefix + "/feed",
				"follow": prefix + "/users, " + prefix + "/follow/:userid",
			},
		})
	}
}
