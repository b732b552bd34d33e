package services

import (
	"context"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService defines account profile, admin listing and saved address operations.
type UserService interface {
	GetProfile(ctx context.Context, identity models.Identity) (*models.UserProfile, *ServiceError)
	UpdateProfile(ctx context.Context, identity models.Identity, req *models.UpdateProfileRequest) (*models.UserProfile, *ServiceError)
	ListUsers(ctx context.Context, identity models.Identity) (*models.UserListResponse, *ServiceError)
	ListAddresses(ctx context.Context, identity models.Identity) (*models.AddressListResponse, *ServiceError)
	AddAddress(ctx context.Context, identity models.Identity, req *models.AddAddressRequest) (*models.Address, *ServiceError)
	UpdateAddress(ctx context.Context, identity models.Identity, id uuid.UUID, req *models.UpdateAddressRequest) (*models.Address, *ServiceError)
	DeleteAddress(ctx context.Context, identity models.Identity, id uuid.UUID) *ServiceError
}

type userServiceImpl struct {
	tx        repository.Transactor
	users     repository.UserRepository
	customers repository.CustomerRepository
	addresses repository.AddressRepository
	logger    *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	tx repository.Transactor,
	users repository.UserRepository,
	customers repository.CustomerRepository,
	addresses repository.AddressRepository,
	logger *zap.Logger,
) UserService {
	return &userServiceImpl{
		tx:        tx,
		users:     users,
		customers: customers,
		addresses: addresses,
		logger:    logger,
	}
}

// GetProfile reports roles and permissions as resolved for the current request.
func (s *userServiceImpl) GetProfile(ctx context.Context, identity models.Identity) (*models.UserProfile, *ServiceError) {
	user, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("User not found")
		}
		s.logger.Error("Failed to load user", zap.String("user_id", identity.UserID.String()), zap.Error(err))
		return nil, internal("Failed to load profile")
	}

	roles := identity.Roles
	if roles == nil {
		roles = []string{}
	}
	return &models.UserProfile{
		ID:          user.ID.String(),
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		AvatarURL:   user.AvatarURL,
		Roles:       roles,
		Permissions: identity.Permissions.Strings(),
	}, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, identity models.Identity, req *models.UpdateProfileRequest) (*models.UserProfile, *ServiceError) {
	if err := s.users.UpdateProfile(ctx, identity.UserID, req); err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("User not found")
		}
		s.logger.Error("Failed to update profile", zap.String("user_id", identity.UserID.String()), zap.Error(err))
		return nil, internal("Failed to update profile")
	}
	return s.GetProfile(ctx, identity)
}

func (s *userServiceImpl) ListUsers(ctx context.Context, identity models.Identity) (*models.UserListResponse, *ServiceError) {
	if !identity.Can(models.PermUsersRead) {
		return nil, permissionDenied("Insufficient permissions")
	}

	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, internal("Failed to list users")
	}
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	roles, err := s.users.RoleNames(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load user roles", zap.Error(err))
		return nil, internal("Failed to list users")
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		userRoles := roles[u.ID]
		if userRoles == nil {
			userRoles = []string{}
		}
		summaries = append(summaries, models.UserSummary{
			ID:        u.ID.String(),
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Phone:     u.Phone,
			AvatarURL: u.AvatarURL,
			Status:    u.Status,
			Roles:     userRoles,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		})
	}
	return &models.UserListResponse{Users: summaries, Total: len(summaries)}, nil
}

// ListAddresses returns an empty list for users without a customer record.
func (s *userServiceImpl) ListAddresses(ctx context.Context, identity models.Identity) (*models.AddressListResponse, *ServiceError) {
	customer, err := s.customers.FindByUserID(ctx, identity.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return &models.AddressListResponse{Addresses: []models.Address{}}, nil
		}
		s.logger.Error("Failed to load customer", zap.String("user_id", identity.UserID.String()), zap.Error(err))
		return nil, internal("Failed to list addresses")
	}

	addresses, err := s.addresses.ListByCustomer(ctx, customer.ID)
	if err != nil {
		s.logger.Error("Failed to list addresses", zap.String("customer_id", customer.ID.String()), zap.Error(err))
		return nil, internal("Failed to list addresses")
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	return &models.AddressListResponse{Addresses: addresses}, nil
}

// AddAddress stores a new address. A default address replaces the previous default in the same
// transaction.
func (s *userServiceImpl) AddAddress(ctx context.Context, identity models.Identity, req *models.AddAddressRequest) (*models.Address, *ServiceError) {
	address := &models.Address{
		Type:      req.Type,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Address1:  req.Address1,
		Address2:  req.Address2,
		City:      req.City,
		Province:  req.Province,
		Country:   req.Country,
		Zip:       req.Zip,
		Phone:     req.Phone,
		IsDefault: req.IsDefault,
	}

	err := s.tx.WithinTransaction(ctx, func(tx repository.Repositories) error {
		// The customer row lock serializes default-address changes for the same customer.
		customer, err := tx.Customers.LockByUserID(ctx, identity.UserID)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFound("Customer not found")
			}
			return err
		}
		address.CustomerID = customer.ID

		if address.IsDefault {
			if err := tx.Addresses.ClearDefault(ctx, customer.ID); err != nil {
				return err
			}
		}
		return tx.Addresses.Create(ctx, address)
	})
	if err != nil {
		svcErr := asServiceError(err, "Failed to add address")
		if svcErr.Kind == KindInternal {
			s.logger.Error("Failed to add address", zap.String("user_id", identity.UserID.String()), zap.Error(err))
		}
		return nil, svcErr
	}
	return address, nil
}

func (s *userServiceImpl) UpdateAddress(ctx context.Context, identity models.Identity, id uuid.UUID, req *models.UpdateAddressRequest) (*models.Address, *ServiceError) {
	updates := map[string]interface{}{}
	setString := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	setString("type", req.Type)
	setString("first_name", req.FirstName)
	setString("last_name", req.LastName)
	setString("company", req.Company)
	setString("address1", req.Address1)
	setString("address2", req.Address2)
	setString("city", req.City)
	setString("province", req.Province)
	setString("country", req.Country)
	setString("zip", req.Zip)
	setString("phone", req.Phone)
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}

	var address *models.Address
	err := s.tx.WithinTransaction(ctx, func(tx repository.Repositories) error {
		// The customer row lock serializes default-address changes for the same customer.
		customer, err := tx.Customers.LockByUserID(ctx, identity.UserID)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFound("Customer not found")
			}
			return err
		}

		if _, err := tx.Addresses.FindByID(ctx, customer.ID, id); err != nil {
			if repository.IsNotFound(err) {
				return notFound("Address not found")
			}
			return err
		}

		if len(updates) > 0 {
			if req.IsDefault != nil && *req.IsDefault {
				if err := tx.Addresses.ClearDefault(ctx, customer.ID); err != nil {
					return err
				}
			}
			if err := tx.Addresses.Update(ctx, customer.ID, id, updates); err != nil {
				if repository.IsNotFound(err) {
					return notFound("Address not found")
				}
				return err
			}
		}

		address, err = tx.Addresses.FindByID(ctx, customer.ID, id)
		return err
	})
	if err != nil {
		svcErr := asServiceError(err, "Failed to update address")
		if svcErr.Kind == KindInternal {
			s.logger.Error("Failed to update address", zap.String("address_id", id.String()), zap.Error(err))
		}
		return nil, svcErr
	}
	return address, nil
}

func (s *userServiceImpl) DeleteAddress(ctx context.Context, identity models.Identity, id uuid.UUID) *ServiceError {
	customer, err := s.customers.FindByUserID(ctx, identity.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return notFound("Customer not found")
		}
		s.logger.Error("Failed to load customer", zap.String("user_id", identity.UserID.String()), zap.Error(err))
		return internal("Failed to delete address")
	}

	if err := s.addresses.Delete(ctx, customer.ID, id); err != nil {
		if repository.IsNotFound(err) {
			return notFound("Address not found")
		}
		s.logger.Error("Failed to delete address", zap.String("address_id", id.String()), zap.Error(err))
		return internal("Failed to delete address")
	}
	return nil
}
