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

type CommentService struct {
	repo    *mysql.CommentRepository
	posts   *mysql.PostRepository
	cascade *mysql.CascadeRepository
	gate    *Gate
	clock   clock.Clock
	metrics *metrics.Metrics
}

func NewCommentService(db *gorm.DB, gate *Gate, clk clock.Clock, m *metrics.Metrics) *CommentService {
	return &CommentService{
		repo:    &mysql.CommentRepository{DB: db},
		posts:   &mysql.PostRepository{DB: db},
		cascade: &mysql.CascadeRepository{DB: db, Clock: clk},
		gate:    gate,
		clock:   clk,
		metrics: m,
	}
}

func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]model.CommentView, error) {
	list, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

// Create 帖子必须存在，内容需通过审核
func (s *CommentService) Create(ctx context.Context, authorID, postID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if postID == "" || text == "" {
		return nil, errors.NotValidf("empty comment")
	}
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, storageError(err)
	}
	if !ok {
		return nil, errors.NotFoundf("post %q", postID)
	}
	if err = s.gate.Check(ctx, model.ContentComment, authorID, text); err != nil {
		return nil, err
	}

	id, err := pkg.NewShortID()
	if err != nil {
		return nil, errors.Trace(err)
	}
	c := &model.Comment{ID: id, PostID: postID, AuthorID: authorID, Text: text, CreatedAt: s.clock.Now()}
	if err = s.repo.Create(ctx, c); err != nil {
		return nil, storageError(err)
	}
	return c, nil
}

func (s *CommentService) Update(ctx context.Context, requesterID, commentID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.NotValidf("empty comment")
	}
	c, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return nil, lookupError(err, "comment %q", commentID)
	}
	if c.AuthorID != requesterID {
		return nil, errors.Forbiddenf("editing another user's comment")
	}
	if err = s.gate.Check(ctx, model.ContentComment, c.AuthorID, text); err != nil {
		return nil, err
	}

	// MySQL 内容未变化时受影响行数为 0，前面已确认记录存在
	if _, err = s.repo.UpdateText(ctx, commentID, text); err != nil {
		return nil, storageError(err)
	}
	c.Text = text
	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, requesterID, commentID string) error {
	c, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return lookupError(err, "comment %q", commentID)
	}
	if c.AuthorID != requesterID {
		return errors.Forbiddenf("deleting another user's comment")
	}
	ok, err := s.cascade.DeleteComment(ctx, commentID)
	if err != nil {
		s.countDeletion("failed")
		return err
	}
	if !ok {
		s.countDeletion("not_found")
		return errors.NotFoundf("comment %q", commentID)
	}
	s.countDeletion("deleted")
	return nil
}

func (s *CommentService) countDeletion(result string) {
	if s.metrics != nil {
		s.metrics.Deletions.WithLabelValues("comment", result).Inc()
	}
}
