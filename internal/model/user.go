package model

import "time"

// User 用户（注册流程创建，关注与帖子都引用它）
type User struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"type:varchar(32);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(72);not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

// UserSummary 用户列表项：聚合计数 + 当前用户是否已关注
type UserSummary struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	FollowersCount int64  `json:"followersCount"`
	PostsCount     int64  `json:"postsCount"`
	IsFollowing    bool   `json:"isFollowing" gorm:"-"`
}
