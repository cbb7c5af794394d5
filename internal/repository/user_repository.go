package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"demand-planner/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertFromTelegram finds or creates a user based on TelegramID and updates basic profile info.
// The authorized flag is never touched here.
func (r *UserRepository) UpsertFromTelegram(ctx context.Context, telegramID int64, firstName, lastName, username string) (*model.User, error) {
	var user model.User
	db := r.db.WithContext(ctx)
	err := db.Where("telegram_id = ?", telegramID).First(&user).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"first_name": firstName,
			"last_name":  lastName,
			"username":   username,
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.User{
			TelegramID: telegramID,
			FirstName:  firstName,
			LastName:   lastName,
			Username:   username,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetAuthorized persists the identity flag. Unknown users are created so a
// login never depends on a prior /start.
func (r *UserRepository) SetAuthorized(ctx context.Context, telegramID int64, authorized bool) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&model.User{}).Where("telegram_id = ?", telegramID).Update("authorized", authorized)
	if res.Error != nil {
		return fmt.Errorf("set authorized: %w", res.Error)
	}
	if res.RowsAffected > 0 || !authorized {
		return nil
	}
	user := model.User{TelegramID: telegramID, Authorized: true}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// IsAuthorized reports false for unknown users.
func (r *UserRepository) IsAuthorized(ctx context.Context, telegramID int64) (bool, error) {
	user, err := r.FindByTelegramID(ctx, telegramID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find user: %w", err)
	}
	return user.Authorized, nil
}

// ListAuthorized returns the users that receive periodic reports.
func (r *UserRepository) ListAuthorized(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Where("authorized = ?", true).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list authorized users: %w", err)
	}
	return users, nil
}

// UserSession is the identity session of one Telegram user.
type UserSession struct {
	repo       *UserRepository
	telegramID int64
}

func (r *UserRepository) Session(telegramID int64) *UserSession {
	return &UserSession{repo: r, telegramID: telegramID}
}

func (s *UserSession) IsAuthorized(ctx context.Context) (bool, error) {
	return s.repo.IsAuthorized(ctx, s.telegramID)
}

func (s *UserSession) SetAuthorized(ctx context.Context, authorized bool) error {
	return s.repo.SetAuthorized(ctx, s.telegramID, authorized)
}
