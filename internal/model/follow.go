package model

import "time"

// FollowEdge 关注关系 follower -> followee，(follower_id, followee_id) 唯一
type FollowEdge struct {
	FollowerID string `gorm:"primaryKey;size:36"`
	FolloweeID string `gorm:"primaryKey;size:36;index:idx_followee_id"`
	CreatedAt  time.Time
}

// FollowView 关注关系另一端的账户，附带关注开始时间
type FollowView struct {
	AccountSummary
	Since time.Time `json:"following_started_time"`
}

// OutboxEvent 领域事件发件箱，与业务写入同一事务落库
type OutboxEvent struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:32;not null"` // follow / unfollow / account.deleted / post.deleted
	AggregateID string `gorm:"size:36;not null"`
	Payload     string `gorm:"type:text;not null"`
	Status      int8   `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (FollowEdge) TableName() string { return "follow_edges" }

func (OutboxEvent) TableName() string { return "outbox_events" }
