// internal/services/user_service.go
package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fairprice/fairprice-backend/internal/models"
	"github.com/fairprice/fairprice-backend/internal/repository"
)

type UserService struct {
	store repository.UserStore
}

func NewUserService(store repository.UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context, actor Actor) ([]models.User, error) {
	if !models.CanReview(actor.Role) {
		return nil, models.ErrUnauthorized
	}
	return s.store.ListUsers(ctx)
}

// SetActive activates or deactivates an account. Deactivated users can no
// longer log in; tokens already issued stay valid until they expire.
func (s *UserService) SetActive(ctx context.Context, actor Actor, userID uuid.UUID, active bool) error {
	if !models.CanReview(actor.Role) {
		return models.ErrUnauthorized
	}
	if err := s.store.SetUserActive(ctx, userID, active); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"admin_id": actor.UserID,
		"active":   active,
	}).Info("User status updated")
	return nil
}
