package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
// When constraint is non-empty the violated constraint name must match it.
func IsUniqueViolation(err error, constraint string) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return constraint == ""
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// Constraint names produced by gorm's uniqueIndex tags and the raw migrations.
const (
	ConstraintOrderNumber    = "idx_orders_order_number"
	ConstraintIdempotencyKey = "idx_orders_idempotency_key"
	ConstraintCartLine       = "idx_cart_items_line"
	ConstraintProductSlug    = "idx_products_slug"
	ConstraintBlogSlug       = "idx_blog_posts_slug"
	ConstraintUserEmail      = "idx_users_email"
)
