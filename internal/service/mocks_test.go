package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"plan-marketplace/internal/cache"
	"plan-marketplace/internal/client"
	"plan-marketplace/internal/model"
	"plan-marketplace/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockOrderRepository keeps orders in memory and honours the
// conditional paid transition.
type MockOrderRepository struct {
	mu            sync.Mutex
	orders        map[primitive.ObjectID]*model.Order
	MarkPaidCalls int
	FindErr       error
}

func newMockOrderRepository(orders ...*model.Order) *MockOrderRepository {
	m := &MockOrderRepository{orders: map[primitive.ObjectID]*model.Order{}}
	for _, o := range orders {
		if o.ID.IsZero() {
			o.ID = primitive.NewObjectID()
		}
		m.orders[o.ID] = o
	}
	return m
}

func (m *MockOrderRepository) get(id primitive.ObjectID) *model.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil
	}
	cp := *o
	return &cp
}

func (m *MockOrderRepository) Create(_ context.Context, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = primitive.NewObjectID()
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *MockOrderRepository) FindByID(_ context.Context, id primitive.ObjectID) (*model.Order, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	if o := m.get(id); o != nil {
		return o, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockOrderRepository) find(pred func(*model.Order) bool) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if pred(o) {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockOrderRepository) FindByPublicID(_ context.Context, publicID string) (*model.Order, error) {
	return m.find(func(o *model.Order) bool { return o.PublicID == publicID })
}

func (m *MockOrderRepository) FindByMerchantTransactionID(_ context.Context, merchantTxID string) (*model.Order, error) {
	return m.find(func(o *model.Order) bool { return slices.Contains(o.MerchantTransactionIDs, merchantTxID) })
}

func (m *MockOrderRepository) ListByUser(_ context.Context, userID primitive.ObjectID) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Order
	for _, o := range m.orders {
		if o.OwnedBy(userID) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockOrderRepository) List(_ context.Context, _ repository.Pagination) ([]*model.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Order
	for _, o := range m.orders {
		cp := *o
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (m *MockOrderRepository) update(id primitive.ObjectID, fn func(*model.Order)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(o)
	return nil
}

func (m *MockOrderRepository) AddRazorpayOrderID(_ context.Context, id primitive.ObjectID, razorpayOrderID string) error {
	return m.update(id, func(o *model.Order) {
		if !slices.Contains(o.RazorpayOrderIDs, razorpayOrderID) {
			o.RazorpayOrderIDs = append(o.RazorpayOrderIDs, razorpayOrderID)
		}
	})
}

func (m *MockOrderRepository) AddMerchantTransactionID(_ context.Context, id primitive.ObjectID, merchantTxID string) error {
	return m.update(id, func(o *model.Order) {
		if !slices.Contains(o.MerchantTransactionIDs, merchantTxID) {
			o.MerchantTransactionIDs = append(o.MerchantTransactionIDs, merchantTxID)
		}
	})
}

func (m *MockOrderRepository) MarkPaid(_ context.Context, id primitive.ObjectID, paid repository.PaidUpdate) (*model.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkPaidCalls++
	o, ok := m.orders[id]
	if !ok {
		return nil, false, repository.ErrNotFound
	}
	if o.IsPaid {
		cp := *o
		return &cp, false, nil
	}
	paidAt := paid.PaidAt
	result := paid.Result
	o.IsPaid = true
	o.PaidAt = &paidAt
	o.PaymentResult = &result
	o.DownloadableFiles = paid.Files
	cp := *o
	return &cp, true, nil
}

func (m *MockOrderRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *MockOrderRepository) SalesSummary(context.Context) (*model.SalesSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &model.SalesSummary{Orders: int64(len(m.orders)), Monthly: []model.MonthlySales{}}
	for _, o := range m.orders {
		if o.IsPaid {
			s.PaidOrders++
			s.Revenue += o.TotalPrice
		}
	}
	return s, nil
}

type MockProductRepository struct {
	mu           sync.Mutex
	products     map[primitive.ObjectID]*model.Product
	FindByIDHits int
	LastQuery    repository.ProductQuery
	FindManyErr  error
}

func newMockProductRepository(products ...*model.Product) *MockProductRepository {
	m := &MockProductRepository{products: map[primitive.ObjectID]*model.Product{}}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		m.products[p.ID] = p
	}
	return m
}

func (m *MockProductRepository) Create(_ context.Context, product *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product.ID = primitive.NewObjectID()
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *MockProductRepository) FindByID(_ context.Context, id primitive.ObjectID) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindByIDHits++
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProductRepository) FindMany(_ context.Context, ids []primitive.ObjectID) ([]*model.Product, error) {
	if m.FindManyErr != nil {
		return nil, m.FindManyErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockProductRepository) Search(_ context.Context, q repository.ProductQuery) ([]*model.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastQuery = q
	var out []*model.Product
	for _, p := range m.products {
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		if q.Author != nil && (p.Author == nil || *p.Author != *q.Author) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (m *MockProductRepository) Update(_ context.Context, product *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *MockProductRepository) SetReview(_ context.Context, id primitive.ObjectID, status model.ApprovalStatus, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	p.ReviewNote = note
	return nil
}

func (m *MockProductRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MockProductRepository) CountByStatus(_ context.Context, status model.ApprovalStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.products {
		if status == "" || p.Status == status {
			n++
		}
	}
	return n, nil
}

type MockPaymentEventRepository struct {
	mu        sync.Mutex
	Events    []*model.PaymentEvent
	RecordErr error
}

func (m *MockPaymentEventRepository) Record(_ context.Context, event *model.PaymentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockPaymentEventRepository) ListByOrder(_ context.Context, orderID string) ([]*model.PaymentEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PaymentEvent
	for _, e := range m.Events {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockPaymentEventRepository) outcomes() []model.PaymentOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.PaymentOutcome, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.Outcome
	}
	return out
}

type MockProductCache struct {
	mu      sync.Mutex
	items   map[string]*model.Product
	GetErr  error
	Deleted []string
}

func newMockProductCache() *MockProductCache {
	return &MockProductCache{items: map[string]*model.Product{}}
}

func (m *MockProductCache) Get(_ context.Context, id string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	p, ok := m.items[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	cp := *p
	return &cp, nil
}

func (m *MockProductCache) Set(_ context.Context, id string, product *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *product
	m.items[id] = &cp
	return nil
}

func (m *MockProductCache) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

type MockUserRepository struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*model.User
}

func newMockUserRepository(users ...*model.User) *MockUserRepository {
	m := &MockUserRepository{users: map[primitive.ObjectID]*model.User{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		m.users[u.ID] = u
	}
	return m
}

func (m *MockUserRepository) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MockUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) List(_ context.Context, role model.Role, _ repository.Pagination) ([]*model.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.User
	for _, u := range m.users {
		if role == "" || u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (m *MockUserRepository) UpdateProfile(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Name, u.Phone, u.CompanyName, u.Profession, u.Address = user.Name, user.Phone, user.CompanyName, user.Profession, user.Address
	return nil
}

func (m *MockUserRepository) SetPasswordHash(_ context.Context, id primitive.ObjectID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *MockUserRepository) SetRoleStatus(_ context.Context, id primitive.ObjectID, role model.Role, status model.ApprovalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role, u.Status = role, status
	return nil
}

func (m *MockUserRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *MockUserRepository) CountByRole(context.Context) (map[model.Role]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[model.Role]int64{}
	for _, u := range m.users {
		out[u.Role]++
	}
	return out, nil
}

type MockRazorpayClient struct {
	OrderID string
	// OrderIDs, when set, are handed out one per call.
	OrderIDs  []string
	calls     int
	Err       error
	LastAmt   int64
	LastRecpt string
}

func (m *MockRazorpayClient) CreateOrder(_ context.Context, amount int64, currency, receipt string, _ map[string]string) (*client.RazorpayOrder, error) {
	m.LastAmt = amount
	m.LastRecpt = receipt
	if m.Err != nil {
		return nil, m.Err
	}
	id := m.OrderID
	if m.calls < len(m.OrderIDs) {
		id = m.OrderIDs[m.calls]
	}
	m.calls++
	return &client.RazorpayOrder{ID: id, Amount: amount, Currency: currency}, nil
}

func (m *MockRazorpayClient) KeyID() string { return "rzp_test_key" }

type MockPhonePeClient struct {
	PayResp    *model.PhonePeResponse
	StatusResp *model.PhonePeResponse
	Err        error
	LastPay    *model.PhonePePayRequest
}

func (m *MockPhonePeClient) Pay(_ context.Context, req *model.PhonePePayRequest) (*model.PhonePeResponse, error) {
	m.LastPay = req
	if m.Err != nil {
		return nil, m.Err
	}
	return m.PayResp, nil
}

func (m *MockPhonePeClient) CheckStatus(context.Context, string) (*model.PhonePeResponse, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.StatusResp, nil
}

func (m *MockPhonePeClient) MerchantID() string { return "MERCHANTUAT" }

type MockInquiryRepository struct {
	Created []*model.Inquiry
	Open    int64
}

func (m *MockInquiryRepository) Create(_ context.Context, inquiry *model.Inquiry) error {
	inquiry.ID = primitive.NewObjectID()
	m.Created = append(m.Created, inquiry)
	return nil
}

func (m *MockInquiryRepository) List(context.Context, model.InquiryStatus, repository.Pagination) ([]*model.Inquiry, int64, error) {
	return m.Created, int64(len(m.Created)), nil
}

func (m *MockInquiryRepository) UpdateStatus(context.Context, primitive.ObjectID, model.InquiryStatus) error {
	return nil
}

func (m *MockInquiryRepository) Delete(context.Context, primitive.ObjectID) error { return nil }

func (m *MockInquiryRepository) CountByStatus(context.Context, model.InquiryStatus) (int64, error) {
	return m.Open, nil
}

type MockBlogRepository struct {
	slugs map[string]bool
	Posts []*model.BlogPost
}

func (m *MockBlogRepository) Create(_ context.Context, post *model.BlogPost) error {
	if m.slugs == nil {
		m.slugs = map[string]bool{}
	}
	if m.slugs[post.Slug] {
		return repository.ErrDuplicate
	}
	m.slugs[post.Slug] = true
	post.ID = primitive.NewObjectID()
	m.Posts = append(m.Posts, post)
	return nil
}

func (m *MockBlogRepository) FindByID(_ context.Context, id primitive.ObjectID) (*model.BlogPost, error) {
	for _, p := range m.Posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockBlogRepository) FindBySlug(_ context.Context, slug string) (*model.BlogPost, error) {
	for _, p := range m.Posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockBlogRepository) List(context.Context, bool, repository.Pagination) ([]*model.BlogPost, int64, error) {
	return m.Posts, int64(len(m.Posts)), nil
}

func (m *MockBlogRepository) Update(context.Context, *model.BlogPost) error { return nil }

func (m *MockBlogRepository) Delete(context.Context, primitive.ObjectID) error { return nil }

type MockGalleryRepository struct {
	Item *model.GalleryItem
}

func (m *MockGalleryRepository) Create(_ context.Context, item *model.GalleryItem) error {
	item.ID = primitive.NewObjectID()
	m.Item = item
	return nil
}

func (m *MockGalleryRepository) List(context.Context, string) ([]*model.GalleryItem, error) {
	if m.Item == nil {
		return nil, nil
	}
	return []*model.GalleryItem{m.Item}, nil
}

func (m *MockGalleryRepository) Delete(_ context.Context, id primitive.ObjectID) (*model.GalleryItem, error) {
	if m.Item == nil || m.Item.ID != id {
		return nil, repository.ErrNotFound
	}
	item := m.Item
	m.Item = nil
	return item, nil
}

type MockObjectStore struct {
	Deleted   []string
	DeleteErr error
}

func (m *MockObjectStore) Put(_ context.Context, key string, _ io.Reader, _ int64, _ string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func (m *MockObjectStore) Delete(_ context.Context, key string) error {
	m.Deleted = append(m.Deleted, key)
	return m.DeleteErr
}

var errBoom = errors.New("boom")
