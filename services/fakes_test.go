package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errNotImplemented = errors.New("not implemented in fake")

func uniqueErr(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// memStore is an in-memory stand-in for the relational store. memTransactor snapshots it before
// each transaction and restores the snapshot when the body fails, so rollback is observable.
type memStore struct {
	users     map[uuid.UUID]models.User
	roles     map[string]models.Role
	userRoles map[uuid.UUID][]string
	customers map[uuid.UUID]models.Customer // keyed by user id
	addresses map[uuid.UUID]models.Address
	products  map[uuid.UUID]models.Product
	variants  map[uuid.UUID]models.VariantSnapshot
	cart      map[uuid.UUID][]models.CartLine // keyed by user id
	orders    map[uuid.UUID]models.Order
	plans     map[uuid.UUID]models.SubscriptionPlan
	subs      map[uuid.UUID]models.Subscription

	// takenNumbers simulates order numbers already used by other rows.
	takenNumbers map[string]bool
	// recordOrderErr fails customer aggregate updates.
	recordOrderErr error
	// afterLockedRead runs once after a locking cart read, standing in for a concurrent writer.
	afterLockedRead func()
	// customerLocks counts LockByUserID calls.
	customerLocks int
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[uuid.UUID]models.User{},
		roles:        map[string]models.Role{},
		userRoles:    map[uuid.UUID][]string{},
		customers:    map[uuid.UUID]models.Customer{},
		addresses:    map[uuid.UUID]models.Address{},
		products:     map[uuid.UUID]models.Product{},
		variants:     map[uuid.UUID]models.VariantSnapshot{},
		cart:         map[uuid.UUID][]models.CartLine{},
		orders:       map[uuid.UUID]models.Order{},
		plans:        map[uuid.UUID]models.SubscriptionPlan{},
		subs:         map[uuid.UUID]models.Subscription{},
		takenNumbers: map[string]bool{},
	}
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() *memStore {
	cp := &memStore{
		users:           copyMap(s.users),
		roles:           copyMap(s.roles),
		userRoles:       copyMap(s.userRoles),
		customers:       copyMap(s.customers),
		addresses:       copyMap(s.addresses),
		products:        copyMap(s.products),
		variants:        copyMap(s.variants),
		cart:            make(map[uuid.UUID][]models.CartLine, len(s.cart)),
		orders:          copyMap(s.orders),
		plans:           copyMap(s.plans),
		subs:            copyMap(s.subs),
		takenNumbers:    copyMap(s.takenNumbers),
		recordOrderErr:  s.recordOrderErr,
		afterLockedRead: s.afterLockedRead,
		customerLocks:   s.customerLocks,
	}
	for k, lines := range s.cart {
		cp.cart[k] = append([]models.CartLine(nil), lines...)
	}
	return cp
}

func (s *memStore) restore(from *memStore) {
	*s = *from
}

func (s *memStore) repos() repository.Repositories {
	return repository.Repositories{
		Users:         &memUsers{s},
		Customers:     &memCustomers{s},
		Addresses:     &memAddresses{s},
		Products:      &memProducts{s},
		Carts:         &memCarts{s},
		Orders:        &memOrders{s},
		Subscriptions: &memSubscriptions{s},
	}
}

type memTransactor struct {
	store *memStore
	calls int
}

func (t *memTransactor) WithinTransaction(ctx context.Context, fn func(tx repository.Repositories) error) error {
	t.calls++
	saved := t.store.snapshot()
	if err := fn(t.store.repos()); err != nil {
		t.store.restore(saved)
		return err
	}
	return nil
}

// seeding helpers

func (s *memStore) addCustomer(userID uuid.UUID, email string) models.Customer {
	c := models.Customer{ID: uuid.New(), UserID: userID, CustomerNumber: "CUST-" + userID.String()[:8], Email: email}
	s.customers[userID] = c
	return c
}

func (s *memStore) addProduct(name string, price float64, status models.ProductStatus) models.Product {
	p := models.Product{ID: uuid.New(), Name: name, Slug: Slugify(name), Price: price, Status: status}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addVariant(product models.Product, name string, price *float64) models.ProductVariant {
	v := models.ProductVariant{ID: uuid.New(), ProductID: product.ID, Name: name, Price: price}
	p := s.products[product.ID]
	p.Variants = append(p.Variants, v)
	s.products[product.ID] = p

	effective := product.Price
	if price != nil {
		effective = *price
	}
	s.variants[v.ID] = models.VariantSnapshot{
		VariantID:    v.ID,
		ProductID:    product.ID,
		ProductName:  product.Name,
		VariantName:  name,
		Price:        effective,
		ProductState: product.Status,
	}
	return v
}

func (s *memStore) addCartLine(userID uuid.UUID, product models.Product, variantID *uuid.UUID, quantity int, price float64) models.CartLine {
	line := models.CartLine{
		ID:          uuid.New(),
		ProductID:   product.ID,
		VariantID:   variantID,
		ProductName: product.Name,
		Price:       price,
		Quantity:    quantity,
		CreatedAt:   time.Now(),
	}
	s.cart[userID] = append(s.cart[userID], line)
	return line
}

// memUsers

type memUsers struct{ s *memStore }

func (r *memUsers) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return uniqueErr(repository.ConstraintUserEmail)
		}
	}
	user.ID = uuid.New()
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUsers) FindRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	var roles []models.Role
	for _, name := range r.s.userRoles[userID] {
		roles = append(roles, r.s.roles[name])
	}
	return roles, nil
}

func (r *memUsers) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	role, ok := r.s.roles[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &role, nil
}

func (r *memUsers) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	for name, role := range r.s.roles {
		if role.ID == roleID {
			r.s.userRoles[userID] = append(r.s.userRoles[userID], name)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memUsers) UpdateProfile(ctx context.Context, id uuid.UUID, req *models.UpdateProfileRequest) error {
	u, ok := r.s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	if req.AvatarURL != nil {
		u.AvatarURL = req.AvatarURL
	}
	r.s.users[id] = u
	return nil
}

func (r *memUsers) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *memUsers) RoleNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	out := map[uuid.UUID][]string{}
	for _, id := range userIDs {
		if names, ok := r.s.userRoles[id]; ok {
			out[id] = names
		}
	}
	return out, nil
}

// memCustomers

type memCustomers struct{ s *memStore }

func (r *memCustomers) Create(ctx context.Context, customer *models.Customer) error {
	customer.ID = uuid.New()
	r.s.customers[customer.UserID] = *customer
	return nil
}

func (r *memCustomers) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	c, ok := r.s.customers[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *memCustomers) LockByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	r.s.customerLocks++
	return r.FindByUserID(ctx, userID)
}

func (r *memCustomers) RecordOrder(ctx context.Context, customerID uuid.UUID, total float64, at time.Time) error {
	if r.s.recordOrderErr != nil {
		return r.s.recordOrderErr
	}
	for userID, c := range r.s.customers {
		if c.ID == customerID {
			c.TotalSpent = fromCents(toCents(c.TotalSpent) + toCents(total))
			c.OrdersCount++
			c.LastOrderAt = &at
			r.s.customers[userID] = c
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// memAddresses

type memAddresses struct{ s *memStore }

func (r *memAddresses) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Address, error) {
	var out []models.Address
	for _, a := range r.s.addresses {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IsDefault && !out[j].IsDefault })
	return out, nil
}

func (r *memAddresses) FindByID(ctx context.Context, customerID, id uuid.UUID) (*models.Address, error) {
	a, ok := r.s.addresses[id]
	if !ok || a.CustomerID != customerID {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *memAddresses) Create(ctx context.Context, address *models.Address) error {
	address.ID = uuid.New()
	r.s.addresses[address.ID] = *address
	return nil
}

func (r *memAddresses) Update(ctx context.Context, customerID, id uuid.UUID, updates map[string]interface{}) error {
	a, ok := r.s.addresses[id]
	if !ok || a.CustomerID != customerID {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["city"].(string); ok {
		a.City = v
	}
	if v, ok := updates["is_default"].(bool); ok {
		a.IsDefault = v
	}
	r.s.addresses[id] = a
	return nil
}

func (r *memAddresses) ClearDefault(ctx context.Context, customerID uuid.UUID) error {
	for id, a := range r.s.addresses {
		if a.CustomerID == customerID && a.IsDefault {
			a.IsDefault = false
			r.s.addresses[id] = a
		}
	}
	return nil
}

func (r *memAddresses) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	a, ok := r.s.addresses[id]
	if !ok || a.CustomerID != customerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.addresses, id)
	return nil
}

// memProducts covers the lookups used by cart, order and subscription flows. Catalog administration
// is tested against testify mocks instead.

type memProducts struct{ s *memStore }

func (r *memProducts) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error) {
	return nil, 0, errNotImplemented
}

func (r *memProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *memProducts) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	for _, p := range r.s.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memProducts) Create(ctx context.Context, product *models.Product, categoryIDs []uuid.UUID) error {
	return errNotImplemented
}

func (r *memProducts) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return errNotImplemented
}

func (r *memProducts) Delete(ctx context.Context, id uuid.UUID) error {
	return errNotImplemented
}

func (r *memProducts) FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	p, ok := r.s.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for _, v := range p.Variants {
		if v.ID == variantID {
			return &v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memProducts) ResolveVariant(ctx context.Context, variantID uuid.UUID) (*models.VariantSnapshot, error) {
	v, ok := r.s.variants[variantID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

// memCarts

type memCarts struct{ s *memStore }

func (r *memCarts) ListLines(ctx context.Context, userID uuid.UUID, forUpdate bool) ([]models.CartLine, error) {
	lines := append([]models.CartLine(nil), r.s.cart[userID]...)
	for i := range lines {
		if p, ok := r.s.products[lines[i].ProductID]; ok {
			lines[i].ProductStatus = p.Status
		} else {
			lines[i].ProductMissing = true
		}
		if lines[i].VariantID != nil {
			if _, ok := r.s.variants[*lines[i].VariantID]; !ok {
				lines[i].VariantMissing = true
			}
		}
		lines[i].MarkAvailability()
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].CreatedAt.After(lines[j].CreatedAt) })
	if forUpdate && r.s.afterLockedRead != nil {
		hook := r.s.afterLockedRead
		r.s.afterLockedRead = nil
		hook()
	}
	return lines, nil
}

func sameVariant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *memCarts) AddOrMerge(ctx context.Context, item *models.CartItem) error {
	lines := r.s.cart[item.UserID]
	for i := range lines {
		if lines[i].ProductID == item.ProductID && sameVariant(lines[i].VariantID, item.VariantID) {
			lines[i].Quantity += item.Quantity
			lines[i].Price = item.Price
			item.ID = lines[i].ID
			item.Quantity = lines[i].Quantity
			return nil
		}
	}
	item.ID = uuid.New()
	r.s.cart[item.UserID] = append(lines, models.CartLine{
		ID:          item.ID,
		ProductID:   item.ProductID,
		VariantID:   item.VariantID,
		ProductName: r.s.products[item.ProductID].Name,
		Price:       item.Price,
		Quantity:    item.Quantity,
		CreatedAt:   time.Now(),
	})
	return nil
}

func (r *memCarts) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.CartItem, error) {
	for _, line := range r.s.cart[userID] {
		if line.ID == id {
			return &models.CartItem{ID: line.ID, UserID: userID, ProductID: line.ProductID, VariantID: line.VariantID, Quantity: line.Quantity, Price: line.Price}, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCarts) UpdateQuantity(ctx context.Context, userID, id uuid.UUID, quantity int) error {
	lines := r.s.cart[userID]
	for i := range lines {
		if lines[i].ID == id {
			lines[i].Quantity = quantity
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memCarts) Delete(ctx context.Context, userID, id uuid.UUID) error {
	lines := r.s.cart[userID]
	for i := range lines {
		if lines[i].ID == id {
			r.s.cart[userID] = append(lines[:i:i], lines[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memCarts) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	n := int64(len(r.s.cart[userID]))
	delete(r.s.cart, userID)
	return n, nil
}

func (r *memCarts) DeleteLines(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	remove := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}
	var kept []models.CartLine
	var n int64
	for _, line := range r.s.cart[userID] {
		if remove[line.ID] {
			n++
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		delete(r.s.cart, userID)
	} else {
		r.s.cart[userID] = kept
	}
	return n, nil
}

// memOrders

type memOrders struct{ s *memStore }

func (r *memOrders) Create(ctx context.Context, order *models.Order) error {
	if r.s.takenNumbers[order.OrderNumber] {
		return uniqueErr(repository.ConstraintOrderNumber)
	}
	for _, o := range r.s.orders {
		if o.OrderNumber == order.OrderNumber {
			return uniqueErr(repository.ConstraintOrderNumber)
		}
		if order.IdempotencyKey != nil && o.IdempotencyKey != nil && *o.IdempotencyKey == *order.IdempotencyKey {
			return uniqueErr(repository.ConstraintIdempotencyKey)
		}
	}
	order.ID = uuid.New()
	for i := range order.LineItems {
		order.LineItems[i].ID = uuid.New()
		order.LineItems[i].OrderID = order.ID
	}
	stored := *order
	stored.LineItems = append([]models.OrderLineItem(nil), order.LineItems...)
	r.s.orders[order.ID] = stored
	return nil
}

func (r *memOrders) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &o, nil
}

func (r *memOrders) FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	for _, o := range r.s.orders {
		if o.IdempotencyKey != nil && *o.IdempotencyKey == key {
			return &o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memOrders) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range r.s.orders {
		if filter.CustomerID != nil && o.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (r *memOrders) LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *memOrders) Update(ctx context.Context, id uuid.UUID, update models.OrderUpdate) error {
	o, ok := r.s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if update.Status != nil {
		o.Status = *update.Status
	}
	if update.FinancialStatus != nil {
		o.FinancialStatus = *update.FinancialStatus
	}
	if update.Notes != nil {
		o.Notes = update.Notes
	}
	if update.ProcessedAt != nil {
		o.ProcessedAt = update.ProcessedAt
	}
	if update.ShippedAt != nil {
		o.ShippedAt = update.ShippedAt
	}
	if update.DeliveredAt != nil {
		o.DeliveredAt = update.DeliveredAt
	}
	if update.CancelledAt != nil {
		o.CancelledAt = update.CancelledAt
	}
	r.s.orders[id] = o
	return nil
}

// memSubscriptions

type memSubscriptions struct{ s *memStore }

func (r *memSubscriptions) FindActivePlan(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	p, ok := r.s.plans[id]
	if !ok || !p.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *memSubscriptions) ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var out []models.SubscriptionPlan
	for _, p := range r.s.plans {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memSubscriptions) Create(ctx context.Context, sub *models.Subscription) error {
	sub.ID = uuid.New()
	for i := range sub.Items {
		sub.Items[i].ID = uuid.New()
		sub.Items[i].SubscriptionID = sub.ID
	}
	r.s.subs[sub.ID] = *sub
	return nil
}

func (r *memSubscriptions) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	sub, ok := r.s.subs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &sub, nil
}

func (r *memSubscriptions) LockByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	return r.FindByID(ctx, id)
}

func (r *memSubscriptions) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	sub, ok := r.s.subs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["status"].(models.SubscriptionStatus); ok {
		sub.Status = v
	}
	if v, ok := updates["paused_at"]; ok {
		if t, isTime := v.(time.Time); isTime {
			sub.PausedAt = &t
		} else {
			sub.PausedAt = nil
		}
	}
	if v, ok := updates["cancelled_at"].(time.Time); ok {
		sub.CancelledAt = &v
	}
	r.s.subs[id] = sub
	return nil
}

func (r *memSubscriptions) ReplaceItems(ctx context.Context, id uuid.UUID, items []models.SubscriptionItem) error {
	sub, ok := r.s.subs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sub.Items = append([]models.SubscriptionItem(nil), items...)
	r.s.subs[id] = sub
	return nil
}

func (r *memSubscriptions) List(ctx context.Context, filter models.SubscriptionFilter) ([]models.Subscription, int64, error) {
	var out []models.Subscription
	for _, sub := range r.s.subs {
		if filter.CustomerID != nil && sub.CustomerID != *filter.CustomerID {
			continue
		}
		out = append(out, sub)
	}
	return out, int64(len(out)), nil
}

// memIdempotency is a map-backed IdempotencyStore.
type memIdempotency struct {
	keys map[string]uuid.UUID
}

func (m *memIdempotency) Lookup(ctx context.Context, userID uuid.UUID, key string) (uuid.UUID, bool, error) {
	id, ok := m.keys[userID.String()+":"+key]
	return id, ok, nil
}

func (m *memIdempotency) Remember(ctx context.Context, userID uuid.UUID, key string, orderID uuid.UUID) error {
	if m.keys == nil {
		m.keys = map[string]uuid.UUID{}
	}
	m.keys[userID.String()+":"+key] = orderID
	return nil
}

// mockSNS records published messages.
type mockSNS struct {
	published []publishedMessage
}

type publishedMessage struct {
	topicArn string
	body     []byte
}

func (m *mockSNS) Publish(ctx context.Context, topicArn string, message []byte) error {
	m.published = append(m.published, publishedMessage{topicArn: topicArn, body: append([]byte(nil), message...)})
	return nil
}

// mockQueue records queued events.
type mockQueue struct {
	eventTypes []string
}

func (m *mockQueue) SendEvent(ctx context.Context, eventType, body string) error {
	m.eventTypes = append(m.eventTypes, eventType)
	return nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func customerIdentity(userID uuid.UUID) models.Identity {
	return models.Identity{UserID: userID, Email: "shopper@example.com", Roles: []string{models.RoleCustomer}, Permissions: models.NewPermissionSet()}
}

func adminIdentity(perms ...models.Permission) models.Identity {
	return models.Identity{UserID: uuid.New(), Email: "admin@example.com", Roles: []string{"admin"}, Permissions: models.NewPermissionSet(perms...)}
}

func testAddress() models.AddressSnapshot {
	return models.AddressSnapshot{FirstName: "Ada", LastName: "Lovelace", Address1: "1 Main St", City: "London", Country: "GB", Zip: "N1"}
}

func float64Ptr(v float64) *float64 { return &v }
