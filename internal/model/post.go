package model

import "time"

// Post 帖子，创建后不再修改
type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null;index:idx_post_user_created"`
	User      User      `gorm:"foreignKey:UserID"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_post_user_created;index:idx_post_created"`
}

func (Post) TableName() string { return "posts" }

// PostView 对外输出的帖子结构（字段名沿用前端约定）
type PostView struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userid"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdat"`
}

// View 转换为输出结构，需预加载 User
func (p *Post) View() PostView {
	return PostView{
		ID:        p.ID,
		UserID:    p.UserID,
		Username:  p.User.Username,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
}

// AllModels 需要迁移的全部模型
func AllModels() []any {
	return []any{&User{}, &Post{}, &Follow{}}
}
