package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService defines registration, login and per-request identity resolution.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, *ServiceError)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, *ServiceError)
	ResolveIdentity(ctx context.Context, token string) (*models.Identity, *ServiceError)
}

type authServiceImpl struct {
	users  repository.UserRepository
	tx     repository.Transactor
	tokens *TokenService
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, tx repository.Transactor, tokens *TokenService, logger *zap.Logger) AuthService {
	return &authServiceImpl{users: users, tx: tx, tokens: tokens, logger: logger, now: time.Now}
}

// Register creates the user, its customer role and its customer record in one transaction.
func (s *authServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, *ServiceError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, internal("Failed to register user")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Status:       models.UserStatusActive,
	}

	err = s.tx.WithinTransaction(ctx, func(tx repository.Repositories) error {
		if _, err := tx.Users.FindByEmail(ctx, email); err == nil {
			return alreadyExists("User already exists")
		} else if !repository.IsNotFound(err) {
			return err
		}

		if err := tx.Users.Create(ctx, user); err != nil {
			if repository.IsUniqueViolation(err, repository.ConstraintUserEmail) {
				return alreadyExists("User already exists")
			}
			return err
		}

		role, err := tx.Users.FindRoleByName(ctx, models.RoleCustomer)
		switch {
		case err == nil:
			if err := tx.Users.AssignRole(ctx, user.ID, role.ID); err != nil {
				return err
			}
		case !repository.IsNotFound(err):
			return err
		}

		return tx.Customers.Create(ctx, &models.Customer{
			UserID:         user.ID,
			CustomerNumber: fmt.Sprintf("CUST-%d", s.now().UnixMilli()),
		})
	})
	if err != nil {
		svcErr := asServiceError(err, "Failed to register user")
		if svcErr.Kind == KindInternal {
			s.logger.Error("Failed to register user", zap.String("email", email), zap.Error(err))
		}
		return nil, svcErr
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return &models.RegisterResponse{Success: true, UserID: user.ID.String()}, nil
}

func (s *authServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, *ServiceError) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, unauthenticated("invalid credentials")
		}
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, internal("Failed to login")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, unauthenticated("invalid credentials")
	}
	if user.Status != models.UserStatusActive {
		return nil, unauthenticated("account is not active")
	}

	roles, err := s.users.FindRoles(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to load roles", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, internal("Failed to login")
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return nil, internal("Failed to login")
	}

	return &models.LoginResponse{
		Token: token,
		User: models.LoginUser{
			ID:        user.ID.String(),
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Roles:     roleNames(roles),
		},
	}, nil
}

// ResolveIdentity validates the token and re-reads the user and roles so revocations apply at once.
func (s *authServiceImpl) ResolveIdentity(ctx context.Context, token string) (*models.Identity, *ServiceError) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, unauthenticated("invalid or expired token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, unauthenticated("user not found")
		}
		s.logger.Error("Failed to resolve user", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internal("Failed to authenticate")
	}
	if user.Status != models.UserStatusActive {
		return nil, unauthenticated("account is not active")
	}

	roles, err := s.users.FindRoles(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to load roles", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internal("Failed to authenticate")
	}

	return &models.Identity{
		UserID:      user.ID,
		Email:       user.Email,
		Roles:       roleNames(roles),
		Permissions: models.PermissionsFromRoles(roles),
	}, nil
}

func roleNames(roles []models.Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}
