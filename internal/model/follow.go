package model

import (
	"time"
)

// Follow 关注关系（A 关注 B），有向边
type Follow struct {
	// 复合主键，避免重复关注
	// (follower_id, followee_id)
	FollowerID int64 `gorm:"primaryKey;autoIncrement:false"`
	FolloweeID int64 `gorm:"primaryKey;autoIncrement:false;index:idx_follow_followee"`
	CreatedAt  time.Time
}

func (Follow) TableName() string { return "follows" }
