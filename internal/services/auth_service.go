// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fairprice/fairprice-backend/internal/config"
	"github.com/fairprice/fairprice-backend/internal/models"
	"github.com/fairprice/fairprice-backend/internal/repository"
	"github.com/fairprice/fairprice-backend/internal/utils"
)

type AuthStore interface {
	repository.UserStore
	repository.ReferenceStore
}

type AuthService struct {
	store AuthStore
	cfg   *config.Config
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	FullName string      `json:"full_name" validate:"required,min=2,max=100"`
	Email    string      `json:"email" validate:"required,email"`
	Phone    string      `json:"phone,omitempty" validate:"max=20"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role,omitempty" validate:"omitempty,self_role"`

	// Vendors may name the market they trade in.
	MarketID *uuid.UUID `json:"market_id,omitempty"`
	ShopName string     `json:"shop_name,omitempty" validate:"max=150"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"` // in seconds
	UserID      uuid.UUID   `json:"user_id"`
	FullName    string      `json:"full_name"`
	Role        models.Role `json:"role"`
}

func NewAuthService(store AuthStore, cfg *config.Config) *AuthService {
	return &AuthService{
		store: store,
		cfg:   cfg,
	}
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleConsumer
	}

	if req.MarketID != nil {
		if role != models.RoleVendor {
			return nil, models.NewValidationError("market_id", "only vendors can be linked to a market")
		}
		if _, err := s.store.GetMarket(ctx, *req.MarketID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.NewValidationError("market_id", "unknown market")
			}
			return nil, fmt.Errorf("failed to load market: %w", err)
		}
	}

	user := &models.User{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    req.Phone,
		Role:     role,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if req.MarketID != nil {
		profile := &models.VendorProfile{
			UserID:   user.ID,
			MarketID: *req.MarketID,
			ShopName: req.ShopName,
		}
		if err := s.store.CreateVendorProfile(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to create vendor profile: %w", err)
		}
		user.VendorProfile = profile
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User registered")

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, models.ErrInactiveAccount
	}

	accessToken, err := utils.GenerateJWT(user.ID, user.FullName, string(user.Role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenTTL * 60,
		UserID:      user.ID,
		FullName:    user.FullName,
		Role:        user.Role,
	}, nil
}
