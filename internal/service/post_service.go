package service

import (
	"context"
	"strings"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"gorm.io/gorm"

	"HugHub/internal/metrics"
	"HugHub/internal/model"
	"HugHub/internal/pkg"
	"HugHub/internal/repository/mysql"
)

type PostService struct {
	repo    *mysql.PostRepository
	cascade *mysql.CascadeRepository
	gate    *Gate
	clock   clock.Clock
	metrics *metrics.Metrics
}

func NewPostService(db *gorm.DB, gate *Gate, clk clock.Clock, m *metrics.Metrics) *PostService {
	return &PostService{
		repo:    &mysql.PostRepository{DB: db},
		cascade: &mysql.CascadeRepository{DB: db, Clock: clk},
		gate:    gate,
		clock:   clk,
		metrics: m,
	}
}

// List 基础分页，page 从 1 开始
func (s *PostService) List(ctx context.Context, page, size int) ([]model.PostView, error) {
	offset, limit := pageBounds(page, size)
	list, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

// Create 审核通过后落库
func (s *PostService) Create(ctx context.Context, authorID, text string) (*model.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.NotValidf("empty post")
	}
	if err := s.gate.Check(ctx, model.ContentPost, authorID, text); err != nil {
		return nil, err
	}

	id, err := pkg.NewShortID()
	if err != nil {
		return nil, errors.Trace(err)
	}
	post := &model.Post{ID: id, AuthorID: authorID, Text: text, CreatedAt: s.clock.Now()}
	if err = s.repo.Create(ctx, post); err != nil {
		return nil, storageError(err)
	}
	return post, nil
}

// Update 只有作者可以编辑，新内容同样需要审核
func (s *PostService) Update(ctx context.Context, requesterID, postID, text string) (*model.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.NotValidf("empty post")
	}
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, lookupError(err, "post %q", postID)
	}
	if post.AuthorID != requesterID {
		return nil, errors.Forbiddenf("editing another user's post")
	}
	if err = s.gate.Check(ctx, model.ContentPost, post.AuthorID, text); err != nil {
		return nil, err
	}

	// MySQL 内容未变化时受影响行数为 0，前面已确认记录存在
	if _, err = s.repo.UpdateText(ctx, postID, text); err != nil {
		return nil, storageError(err)
	}
	post.Text = text
	return post, nil
}

// Delete 只有作者可以删除，评论随帖子一起删除
func (s *PostService) Delete(ctx context.Context, requesterID, postID string) error {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return lookupError(err, "post %q", postID)
	}
	if post.AuthorID != requesterID {
		return errors.Forbiddenf("deleting another user's post")
	}
	ok, err := s.cascade.DeletePost(ctx, postID)
	if err != nil {
		s.countDeletion("failed")
		logger.Errorf("delete post %s: %v", postID, err)
		return err
	}
	if !ok {
		s.countDeletion("not_found")
		return errors.NotFoundf("post %q", postID)
	}
	s.countDeletion("deleted")
	return nil
}

func (s *PostService) countDeletion(result string) {
	if s.metrics != nil {
		s.metrics.Deletions.WithLabelValues("post", result).Inc()
	}
}
