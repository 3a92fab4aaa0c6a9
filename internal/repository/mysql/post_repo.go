package mysql

import (
	"context"

	"gorm.io/gorm"

	"HugHub/internal/model"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&post).Error
	return &post, err
}

func (r *PostRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// UpdateText 返回受影响行数，0 表示帖子不存在
func (r *PostRepository) UpdateText(ctx context.Context, id, text string) (int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Update("text", text)
	return tx.RowsAffected, tx.Error
}

// List 基础分页查询，按发布时间倒序，附带作者昵称
func (r *PostRepository) List(ctx context.Context, offset, limit int) ([]model.PostView, error) {
	var list []model.PostView
	err := r.DB.WithContext(ctx).Table("posts AS p").
		Select("p.id, p.author_id, p.text, p.created_at, COALESCE(a.display_name, '') AS author_name").
		Joins("LEFT JOIN accounts a ON a.id = p.author_id").
		Order("p.created_at DESC, p.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&list).Error
	return list, err
}

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *CommentRepository) UpdateText(ctx context.Context, id, text string) (int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("text", text)
	return tx.RowsAffected, tx.Error
}

// ListByPost 评论按时间正序
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]model.CommentView, error) {
	var list []model.CommentView
	err := r.DB.WithContext(ctx).Table("comments AS c").
		Select("c.id, c.post_id, c.author_id, c.text, c.created_at, COALESCE(a.display_name, '') AS author_name").
		Joins("LEFT JOIN accounts a ON a.id = c.author_id").
		Where("c.post_id = ?", postID).
		Order("c.created_at ASC, c.id ASC").
		Scan(&list).Error
	return list, err
}
