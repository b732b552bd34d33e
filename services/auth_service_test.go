package services

import (
	"context"
	"testing"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestTokens(t *testing.T) *TokenService {
	t.Helper()
	tokens, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	return tokens
}

func newTestAuthService(t *testing.T, store *memStore) (*authServiceImpl, *memTransactor) {
	t.Helper()
	tx := &memTransactor{store: store}
	svc := NewAuthService(&memUsers{store}, tx, newTestTokens(t), testLogger()).(*authServiceImpl)
	svc.now = fixedClock(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	return svc, tx
}

func seedUser(t *testing.T, store *memStore, email, password string, status models.UserStatus, roles ...string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{ID: uuid.New(), Email: email, PasswordHash: string(hash), FirstName: "Ada", LastName: "Lovelace", Status: status}
	store.users[user.ID] = user
	store.userRoles[user.ID] = roles
	return user
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - user, role and customer", func(t *testing.T) {
		store := newMemStore()
		store.roles[models.RoleCustomer] = models.Role{ID: uuid.New(), Name: models.RoleCustomer}
		svc, _ := newTestAuthService(t, store)

		resp, svcErr := svc.Register(ctx, &models.RegisterRequest{
			Email: "  New.User@Example.com ", Password: "password123", FirstName: "New", LastName: "User",
		})

		require.Nil(t, svcErr)
		assert.True(t, resp.Success)
		userID := uuid.MustParse(resp.UserID)
		user := store.users[userID]
		assert.Equal(t, "new.user@example.com", user.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
		assert.Equal(t, []string{models.RoleCustomer}, store.userRoles[userID])
		assert.Equal(t, "CUST-1706745600000", store.customers[userID].CustomerNumber)
	})

	t.Run("Success - missing customer role is tolerated", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newTestAuthService(t, store)

		resp, svcErr := svc.Register(ctx, &models.RegisterRequest{Email: "a@example.com", Password: "password123", FirstName: "A", LastName: "B"})
		require.Nil(t, svcErr)
		assert.Empty(t, store.userRoles[uuid.MustParse(resp.UserID)])
	})

	t.Run("Failure - duplicate email", func(t *testing.T) {
		store := newMemStore()
		seedUser(t, store, "taken@example.com", "password123", models.UserStatusActive)
		svc, _ := newTestAuthService(t, store)

		_, svcErr := svc.Register(ctx, &models.RegisterRequest{Email: "Taken@example.com", Password: "password123", FirstName: "A", LastName: "B"})
		require.NotNil(t, svcErr)
		assert.Equal(t, KindAlreadyExists, svcErr.Kind)
		assert.Equal(t, "User already exists", svcErr.Message)
		assert.Len(t, store.users, 1)
		assert.Empty(t, store.customers)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.roles["admin"] = models.Role{ID: uuid.New(), Name: "admin"}
	active := seedUser(t, store, "ada@example.com", "password123", models.UserStatusActive, "admin")
	seedUser(t, store, "gone@example.com", "password123", models.UserStatusSuspended)
	svc, _ := newTestAuthService(t, store)

	t.Run("Success - 200 OK", func(t *testing.T) {
		resp, svcErr := svc.Login(ctx, &models.LoginRequest{Email: "ada@example.com", Password: "password123"})
		require.Nil(t, svcErr)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, active.ID.String(), resp.User.ID)
		assert.Equal(t, []string{"admin"}, resp.User.Roles)

		userID, err := svc.tokens.Validate(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, active.ID, userID)
	})

	tests := []struct {
		name, email, password, msg string
	}{
		{"unknown email", "nobody@example.com", "password123", "invalid credentials"},
		{"wrong password", "ada@example.com", "wrong-password", "invalid credentials"},
		{"inactive account", "gone@example.com", "password123", "account is not active"},
	}
	for _, tt := range tests {
		t.Run("Failure - "+tt.name, func(t *testing.T) {
			_, svcErr := svc.Login(ctx, &models.LoginRequest{Email: tt.email, Password: tt.password})
			require.NotNil(t, svcErr)
			assert.Equal(t, KindUnauthenticated, svcErr.Kind)
			assert.Equal(t, tt.msg, svcErr.Message)
		})
	}
}

func TestResolveIdentity(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.roles["manager"] = models.Role{ID: uuid.New(), Name: "manager", Permissions: map[string]bool{
		string(models.PermOrdersReadAll): true,
		string(models.PermOrdersUpdate):  false,
	}}
	user := seedUser(t, store, "manager@example.com", "password123", models.UserStatusActive, "manager")
	svc, _ := newTestAuthService(t, store)

	token, err := svc.tokens.Issue(user.ID, user.Email)
	require.NoError(t, err)

	identity, svcErr := svc.ResolveIdentity(ctx, token)
	require.Nil(t, svcErr)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, []string{"manager"}, identity.Roles)
	assert.True(t, identity.Can(models.PermOrdersReadAll))
	assert.False(t, identity.Can(models.PermOrdersUpdate))

	// Suspension applies to tokens already issued.
	suspended := store.users[user.ID]
	suspended.Status = models.UserStatusSuspended
	store.users[user.ID] = suspended
	_, svcErr = svc.ResolveIdentity(ctx, token)
	require.NotNil(t, svcErr)
	assert.Equal(t, KindUnauthenticated, svcErr.Kind)

	_, svcErr = svc.ResolveIdentity(ctx, "not-a-token")
	require.NotNil(t, svcErr)
	assert.Equal(t, "invalid or expired token", svcErr.Message)

	orphan, err := svc.tokens.Issue(uuid.New(), "orphan@example.com")
	require.NoError(t, err)
	_, svcErr = svc.ResolveIdentity(ctx, orphan)
	require.NotNil(t, svcErr)
	assert.Equal(t, "user not found", svcErr.Message)
}

func TestTokenService(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.Error(t, err)

	tokens := newTestTokens(t)
	userID := uuid.New()

	t.Run("round trip", func(t *testing.T) {
		token, err := tokens.Issue(userID, "ada@example.com")
		require.NoError(t, err)
		got, err := tokens.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("expired", func(t *testing.T) {
		old := newTestTokens(t)
		old.now = fixedClock(time.Now().Add(-2 * time.Hour))
		token, err := old.Issue(userID, "ada@example.com")
		require.NoError(t, err)
		_, err = tokens.Validate(token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewTokenService("another-secret", time.Hour)
		require.NoError(t, err)
		token, err := other.Issue(userID, "ada@example.com")
		require.NoError(t, err)
		_, err = tokens.Validate(token)
		assert.Error(t, err)
	})

	t.Run("unsigned token", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": userID.String()}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tokens.Validate(token)
		assert.Error(t, err)
	})

	t.Run("sub claim fallback", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": userID.String(),
			"exp": time.Now().Add(time.Minute).Unix(),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		got, err := tokens.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})
}
