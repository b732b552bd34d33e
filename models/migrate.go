package models

import "gorm.io/gorm"

// All lists every table owned by this service in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{}, &Role{}, &UserRole{}, &Customer{}, &Address{},
		&Category{}, &Product{}, &ProductVariant{},
		&CartItem{},
		&Order{}, &OrderLineItem{},
		&SubscriptionPlan{}, &Subscription{}, &SubscriptionItem{},
		&BlogPost{},
		&AnalyticsEvent{},
	}
}

// cartLineIndex makes (user, product, variant) unique even when variant_id is NULL.
const cartLineIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_line
ON cart_items (user_id, product_id, COALESCE(variant_id, '00000000-0000-0000-0000-000000000000'::uuid))`

// defaultAddressIndex allows at most one default address per customer.
const defaultAddressIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_addresses_default
ON addresses (customer_id) WHERE is_default`

// Migrate applies the schema and the indexes gorm tags cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return err
	}
	for _, stmt := range []string{cartLineIndex, defaultAddressIndex} {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
