package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every relational repository bound to the same handle, either the
// connection pool or an open transaction.
type Repositories struct {
	Users         UserRepository
	Customers     CustomerRepository
	Addresses     AddressRepository
	Products      ProductRepository
	Carts         CartRepository
	Orders        OrderRepository
	Subscriptions SubscriptionRepository
	Blog          BlogRepository
	Reports       ReportRepository
}

// NewRepositories binds all repositories to db.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:         NewGormUserRepository(db),
		Customers:     NewGormCustomerRepository(db),
		Addresses:     NewGormAddressRepository(db),
		Products:      NewGormProductRepository(db),
		Carts:         NewGormCartRepository(db),
		Orders:        NewGormOrderRepository(db),
		Subscriptions: NewGormSubscriptionRepository(db),
		Blog:          NewGormBlogRepository(db),
		Reports:       NewGormReportRepository(db),
	}
}

// Transactor runs fn with repositories bound to a single transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx Repositories) error) error
}

// GormTransactor implements Transactor on a gorm connection.
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a new GormTransactor.
func NewGormTransactor(db *gorm.DB) Transactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(tx Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
