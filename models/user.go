package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// UserStatus gates login and token resolution; only active users authenticate.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// User is an account that can sign in.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	FirstName    string     `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName     string     `gorm:"type:varchar(100);not null" json:"lastName"`
	Phone        *string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	AvatarURL    *string    `json:"avatarUrl,omitempty"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Role groups permissions. Permissions is stored as a JSON object whose true keys are granted.
type Role struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Permissions map[string]bool `gorm:"type:jsonb;serializer:json" json:"permissions"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

// UserRole links users to roles.
type UserRole struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	RoleID uuid.UUID `gorm:"type:uuid;primaryKey" json:"roleId"`
}

// RoleCustomer is assigned on registration.
const RoleCustomer = "customer"

// Permission is a capability tag checked by handlers.
type Permission string

const (
	PermOrdersReadAll        Permission = "orders.read_all"
	PermOrdersUpdate         Permission = "orders.update"
	PermProductsCreate       Permission = "products.create"
	PermProductsUpdate       Permission = "products.update"
	PermProductsDelete       Permission = "products.delete"
	PermBlogCreate           Permission = "blog.create"
	PermBlogUpdate           Permission = "blog.update"
	PermBlogDelete           Permission = "blog.delete"
	PermUsersRead            Permission = "users.read"
	PermAnalyticsRead        Permission = "analytics.read"
	PermSubscriptionsReadAll Permission = "subscriptions.read_all"
)

// PermissionSet is the flattened union of a user's role grants.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from the given permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// PermissionsFromRoles merges the granted keys of every role.
func PermissionsFromRoles(roles []Role) PermissionSet {
	set := make(PermissionSet)
	for _, r := range roles {
		for key, granted := range r.Permissions {
			if granted {
				set[Permission(key)] = struct{}{}
			}
		}
	}
	return set
}

// Has reports whether p is granted.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Strings returns the permissions sorted, for responses.
func (s PermissionSet) Strings() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

// Identity is the authenticated caller, resolved per request and passed explicitly to services.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	Roles       []string
	Permissions PermissionSet
}

// Can reports whether the caller holds p.
func (id Identity) Can(p Permission) bool {
	return id.Permissions.Has(p)
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName" binding:"required"`
	Phone     *string `json:"phone"`
}

// RegisterResponse is returned after registration.
type RegisterResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginUser is the user summary embedded in a login response.
type LoginUser struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// UserProfile is the caller's own account view.
type UserProfile struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Phone       *string  `json:"phone,omitempty"`
	AvatarURL   *string  `json:"avatarUrl,omitempty"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// UpdateProfileRequest only touches provided fields.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatarUrl"`
}

// UserSummary is a row of the admin user listing.
type UserSummary struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Phone     *string    `json:"phone,omitempty"`
	AvatarURL *string    `json:"avatarUrl,omitempty"`
	Status    UserStatus `json:"status"`
	Roles     []string   `json:"roles"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// UserListResponse is the body of GET /users.
type UserListResponse struct {
	Users []UserSummary `json:"users"`
	Total int           `json:"total"`
}
