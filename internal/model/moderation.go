package model

import "time"

const (
	ContentPost    = "post"
	ContentComment = "comment"
)

// ModerationLogEntry 被拦截内容的审计记录，只追加，不随账户或帖子删除
type ModerationLogEntry struct {
	ID             string  `gorm:"primaryKey;size:15"`
	ContentType    string  `gorm:"size:16;not null"`
	AuthorID       string  `gorm:"size:36;index"`
	Content        string  `gorm:"type:text;not null"`
	PredictedLabel string  `gorm:"size:64"`
	PredictedScore float64 `gorm:"not null;default:0"`
	CreatedAt      time.Time
}

func (ModerationLogEntry) TableName() string { return "moderation_log" }
