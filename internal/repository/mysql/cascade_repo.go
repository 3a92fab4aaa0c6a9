package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/juju/clock"
	"gorm.io/gorm"

	"HugHub/internal/model"
	"HugHub/internal/pkg"
)

// errPostMissing 让 DeletePost 在帖子不存在时回滚事务
var errPostMissing = errors.New("post missing")

// CascadeRepository 级联删除。数据库不声明外键级联，依赖顺序全部在这里维护：
// comments -> posts -> follow_edges -> profiles -> accounts。moderation_log 永不删除。
type CascadeRepository struct {
	DB    *gorm.DB
	Clock clock.Clock
}

// DeleteAccount 在一个事务里删除账户及其全部内容，返回删除的账户行数（0 或 1）。
// 任一步骤失败整体回滚并返回 pkg.ErrDeletionFailed
func (r *CascadeRepository) DeleteAccount(ctx context.Context, accountID string) (int64, error) {
	var removed int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownPosts := tx.Model(&model.Post{}).Select("id").Where("author_id = ?", accountID)

		// 账户写的评论，以及挂在账户帖子下的评论
		if err := tx.Where("author_id = ? OR post_id IN (?)", accountID, ownPosts).
			Delete(&model.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Where("author_id = ?", accountID).Delete(&model.Post{}).Error; err != nil {
			return fmt.Errorf("delete posts: %w", err)
		}
		if err := tx.Where("follower_id = ? OR followee_id = ?", accountID, accountID).
			Delete(&model.FollowEdge{}).Error; err != nil {
			return fmt.Errorf("delete follow edges: %w", err)
		}
		if err := tx.Where("account_id = ?", accountID).Delete(&model.Profile{}).Error; err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		res := tx.Where("id = ?", accountID).Delete(&model.Account{})
		if res.Error != nil {
			return fmt.Errorf("delete account: %w", res.Error)
		}
		removed = res.RowsAffected
		if removed == 0 {
			return nil
		}
		return insertOutbox(tx, r.Clock.Now(), "account.deleted", accountID, map[string]any{"account": accountID})
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", pkg.ErrDeletionFailed, err)
	}
	return removed, nil
}

// DeletePost 删除帖子及其评论，返回帖子是否真的被删除
func (r *CascadeRepository) DeletePost(ctx context.Context, postID string) (bool, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		res := tx.Where("id = ?", postID).Delete(&model.Post{})
		if res.Error != nil {
			return fmt.Errorf("delete post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errPostMissing
		}
		return insertOutbox(tx, r.Clock.Now(), "post.deleted", postID, map[string]any{"post": postID})
	})
	if errors.Is(err, errPostMissing) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", pkg.ErrDeletionFailed, err)
	}
	return true, nil
}

// DeleteComment 评论没有子记录，单条语句即可
func (r *CascadeRepository) DeleteComment(ctx context.Context, commentID string) (bool, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", commentID).Delete(&model.Comment{})
	if res.Error != nil {
		return false, fmt.Errorf("%w: %v", pkg.ErrDeletionFailed, res.Error)
	}
	return res.RowsAffected > 0, nil
}
