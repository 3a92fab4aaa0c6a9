package service

import (
	"context"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"gorm.io/gorm"

	"HugHub/internal/model"
	"HugHub/internal/repository/mysql"
)

type FollowService struct {
	repo *mysql.FollowRepository
}

func NewFollowService(db *gorm.DB, clk clock.Clock) *FollowService {
	return &FollowService{
		repo: &mysql.FollowRepository{DB: db, Clock: clk},
	}
}

// Follow 返回 true 表示新建关注，false 表示已经关注过
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID string) (bool, error) {
	if followerID == "" || followeeID == "" {
		return false, errors.NotValidf("user id")
	}
	if followerID == followeeID {
		return false, errors.NewNotValid(nil, "cannot follow yourself")
	}
	created, err := s.repo.Follow(ctx, followerID, followeeID)
	if err != nil {
		return false, lookupError(err, "user %q", followeeID)
	}
	return created, nil
}

// Unfollow 关注关系不存在时返回 NotFound
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if followerID == "" || followeeID == "" {
		return errors.NotValidf("user id")
	}
	removed, err := s.repo.Unfollow(ctx, followerID, followeeID)
	if err != nil {
		return storageError(err)
	}
	if !removed {
		return errors.NotFoundf("follow relation")
	}
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	if followerID == "" || followeeID == "" {
		return false, errors.NotValidf("user id")
	}
	ok, err := s.repo.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return false, storageError(err)
	}
	return ok, nil
}

func (s *FollowService) ListFollowing(ctx context.Context, accountID string) ([]model.FollowView, error) {
	list, err := s.repo.ListFollowing(ctx, accountID)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func (s *FollowService) ListFollowers(ctx context.Context, accountID string) ([]model.FollowView, error) {
	list, err := s.repo.ListFollowers(ctx, accountID)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}
