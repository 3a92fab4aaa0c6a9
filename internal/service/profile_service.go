package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"gorm.io/gorm"

	"HugHub/internal/model"
	"HugHub/internal/repository/mysql"
)

var genders = map[string]bool{"Male": true, "Female": true, "Other": true}

type ProfileService struct {
	repo  *mysql.ProfileRepository
	clock clock.Clock
}

// ProfileInput 资料更新参数
type ProfileInput struct {
	Name       string
	Gender     string
	Location   string
	AgreeTerms bool
}

func NewProfileService(db *gorm.DB, clk clock.Clock) *ProfileService {
	return &ProfileService{repo: &mysql.ProfileRepository{DB: db}, clock: clk}
}

func (s *ProfileService) Get(ctx context.Context, accountID string) (*model.ProfileView, error) {
	view, err := s.repo.Find(ctx, accountID)
	if err != nil {
		return nil, lookupError(err, "profile %q", accountID)
	}
	return view, nil
}

// Update 只能修改自己的资料；昵称与资料在同一事务内写入
func (s *ProfileService) Update(ctx context.Context, requesterID, accountID string, in ProfileInput) (*model.ProfileView, error) {
	if requesterID != accountID {
		return nil, errors.Forbiddenf("editing another profile")
	}
	name := strings.TrimSpace(in.Name)
	location := strings.TrimSpace(in.Location)
	if !lengthBetween(name, 2, 100) {
		return nil, errors.NotValidf("name")
	}
	if !lengthBetween(location, 2, 100) {
		return nil, errors.NotValidf("location")
	}
	if !genders[in.Gender] {
		return nil, errors.NotValidf("gender %q", in.Gender)
	}
	if !in.AgreeTerms {
		return nil, errors.NewNotValid(nil, "terms must be accepted")
	}

	found, err := s.repo.Save(ctx, accountID, name, &model.Profile{
		Gender:    in.Gender,
		Location:  location,
		UpdatedAt: s.clock.Now(),
	})
	if err != nil {
		return nil, storageError(err)
	}
	if !found {
		return nil, errors.NotFoundf("account %q", accountID)
	}
	return &model.ProfileView{AccountID: accountID, Name: name, Gender: in.Gender, Location: location}, nil
}

func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}
