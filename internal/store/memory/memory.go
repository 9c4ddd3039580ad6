// Package memory keeps every aggregate in process memory with the same
// semantics as the MongoDB stores. It backs local runs without a database and
// the HTTP tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
	"storefront/internal/store"
)

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

type cartKey struct {
	userID    string
	productID int64
}

type Carts struct {
	mu    sync.Mutex
	lines map[cartKey]models.CartLine
	order []cartKey
}

func NewCarts() *Carts {
	return &Carts{lines: map[cartKey]models.CartLine{}}
}

func (s *Carts) AddOrMerge(_ context.Context, userID string, productID int64, quantity float64) (models.CartLine, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cartKey{userID: userID, productID: productID}
	line, ok := s.lines[key]
	if ok {
		line.Quantity += quantity
		s.lines[key] = line
		return line, false, nil
	}
	line = models.CartLine{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	s.lines[key] = line
	s.order = append(s.order, key)
	return line, true, nil
}

func (s *Carts) ListByUser(_ context.Context, userID string) ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CartLine, 0)
	for _, key := range s.order {
		if line, ok := s.lines[key]; ok && key.userID == userID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (s *Carts) Remove(_ context.Context, userID string, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cartKey{userID: userID, productID: productID}
	if _, ok := s.lines[key]; !ok {
		return store.ErrNotFound
	}
	delete(s.lines, key)
	s.compact()
	return nil
}

func (s *Carts) Clear(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for key := range s.lines {
		if key.userID == userID {
			delete(s.lines, key)
			n++
		}
	}
	s.compact()
	return n, nil
}

func (s *Carts) compact() {
	kept := s.order[:0]
	for _, key := range s.order {
		if _, ok := s.lines[key]; ok {
			kept = append(kept, key)
		}
	}
	s.order = kept
}

type Addresses struct {
	mu        sync.Mutex
	addresses []models.Address
}

func NewAddresses() *Addresses {
	return &Addresses{}
}

func (s *Addresses) Add(_ context.Context, userID string, fields models.AddressFields) (models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	address := models.Address{ID: primitive.NewObjectID(), UserID: userID, AddressFields: fields}
	s.addresses = append(s.addresses, address)
	return address, nil
}

func (s *Addresses) ListByUser(_ context.Context, userID string) ([]models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Address, 0)
	for _, a := range s.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	return out, nil
}

type Orders struct {
	mu     sync.Mutex
	orders []models.Order
}

func NewOrders() *Orders {
	return &Orders{}
}

func (s *Orders) Place(_ context.Context, userID string, address models.AddressFields, products models.IDList, totalPrice float64) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(models.IDList, len(products))
	copy(snapshot, products)
	at := now()
	order := models.Order{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Address:    address,
		Products:   snapshot,
		TotalPrice: totalPrice,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *Orders) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	return s.filter(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (s *Orders) ListAll(context.Context) ([]models.Order, error) {
	return s.filter(func(models.Order) bool { return true }), nil
}

func (s *Orders) filter(keep func(models.Order) bool) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Order, 0)
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out
}

func (s *Orders) MarkDelivered(_ context.Context, orderID string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID.Hex() == orderID {
			s.orders[i].DeliveryStatus = true
			s.orders[i].UpdatedAt = now()
			return s.orders[i], nil
		}
	}
	return models.Order{}, store.ErrNotFound
}

type Products struct {
	mu       sync.Mutex
	seq      int64
	products map[int64]models.Product
}

func NewProducts() *Products {
	return &Products{products: map[int64]models.Product{}}
}

func (s *Products) Create(_ context.Context, product models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	product.ObjectID = primitive.NewObjectID()
	product.ID = s.seq
	s.products[product.ID] = product
	return product, nil
}

func (s *Products) List(_ context.Context, skip, limit int64) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	n := int64(len(out))
	if skip >= n {
		return []models.Product{}, nil
	}
	if skip < 0 {
		skip = 0
	}
	end := n
	if limit > 0 && limit < n-skip {
		end = skip + limit
	}
	return out[skip:end], nil
}

func (s *Products) FindByID(_ context.Context, id int64) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return models.Product{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Products) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

type Users struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewUsers() *Users {
	return &Users{users: map[string]models.User{}}
}

func (s *Users) Create(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return models.User{}, store.ErrDuplicate
		}
	}
	at := now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = at
	user.UpdatedAt = at
	s.users[user.ID.Hex()] = user
	return user, nil
}

func (s *Users) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (s *Users) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, userID)
	return nil
}

func (s *Users) UpdateEmail(_ context.Context, userID, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	for id, u := range s.users {
		if id != userID && u.Email == email {
			return models.User{}, store.ErrDuplicate
		}
	}
	user.Email = email
	user.UpdatedAt = now()
	s.users[userID] = user
	return user, nil
}
