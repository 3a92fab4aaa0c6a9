package model

import "time"

type Post struct {
	ID        string    `gorm:"primaryKey;size:15" json:"post_id"`
	AuthorID  string    `gorm:"size:36;not null;index:idx_post_author_time" json:"p_user_id"`
	Text      string    `gorm:"type:text;not null" json:"post_desc"`
	CreatedAt time.Time `gorm:"index:idx_post_author_time;index:idx_post_time" json:"p_content_created_time"`
}

type Comment struct {
	ID        string    `gorm:"primaryKey;size:15" json:"comment_id"`
	PostID    string    `gorm:"size:15;not null;index:idx_comment_post_time" json:"post_id"`
	AuthorID  string    `gorm:"size:36;not null;index" json:"c_user_id"`
	Text      string    `gorm:"type:text;not null" json:"comment_text"`
	CreatedAt time.Time `gorm:"index:idx_comment_post_time" json:"c_content_created_time"`
}

// PostView 帖子附带作者昵称
type PostView struct {
	ID         string    `json:"post_id"`
	AuthorID   string    `json:"p_user_id"`
	Text       string    `json:"post_desc"`
	CreatedAt  time.Time `json:"p_content_created_time"`
	AuthorName string    `json:"author_name"`
}

type CommentView struct {
	ID         string    `json:"comment_id"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"c_user_id"`
	Text       string    `json:"comment_text"`
	CreatedAt  time.Time `json:"c_content_created_time"`
	AuthorName string    `json:"author_name"`
}
