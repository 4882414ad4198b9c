package services_test

import (
	"database/sql"
	"sort"
	"time"

	"ebike_admin_backend/internal/models"
	"ebike_admin_backend/internal/repositories"
	"ebike_admin_backend/internal/services"
)

// In-memory repository fakes. They ignore the executor argument and mimic
// the Postgres-backed implementations' observable behavior, including
// ErrNotFound on missing rows.

// fakeTx satisfies services.Tx. The repository fakes never touch the
// executor, so the SQLExecutor methods are inert; the tests only care about
// the commit/rollback outcome.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(string, ...interface{}) (sql.Result, error) { return nil, nil }

func (t *fakeTx) QueryRow(string, ...interface{}) *sql.Row { return nil }

func (t *fakeTx) Query(string, ...interface{}) (*sql.Rows, error) { return nil, nil }

func (t *fakeTx) Commit() error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeTxBeginner struct {
	txs []*fakeTx
}

func (b *fakeTxBeginner) Begin() (services.Tx, error) {
	tx := &fakeTx{}
	b.txs = append(b.txs, tx)
	return tx, nil
}

// lastTx returns the most recently started transaction.
func (b *fakeTxBeginner) lastTx() *fakeTx {
	if len(b.txs) == 0 {
		return nil
	}
	return b.txs[len(b.txs)-1]
}

type fakeBikeRepo struct {
	bikes map[string]models.Bike
}

func newFakeBikeRepo() *fakeBikeRepo {
	return &fakeBikeRepo{bikes: make(map[string]models.Bike)}
}

func (r *fakeBikeRepo) CreateBike(_ repositories.SQLExecutor, bike *models.Bike) error {
	if _, ok := r.bikes[bike.ID]; ok {
		return repositories.ErrDuplicateKey
	}
	bike.CreatedAt = time.Now()
	bike.UpdatedAt = bike.CreatedAt
	r.bikes[bike.ID] = *bike
	return nil
}

func (r *fakeBikeRepo) GetBikes() ([]models.Bike, error) {
	out := make([]models.Bike, 0, len(r.bikes))
	for _, b := range r.bikes {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBikeRepo) GetBikeByID(id string) (*models.Bike, error) {
	b, ok := r.bikes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &b, nil
}

func (r *fakeBikeRepo) UpdateBike(_ repositories.SQLExecutor, bike *models.Bike) error {
	if _, ok := r.bikes[bike.ID]; !ok {
		return repositories.ErrNotFound
	}
	bike.UpdatedAt = time.Now()
	r.bikes[bike.ID] = *bike
	return nil
}

func (r *fakeBikeRepo) UpdateBikeStock(_ repositories.SQLExecutor, id string, stock int, status string) error {
	b, ok := r.bikes[id]
	if !ok {
		return repositories.ErrNotFound
	}
	b.Stock = stock
	b.Status = status
	b.UpdatedAt = time.Now()
	r.bikes[id] = b
	return nil
}

func (r *fakeBikeRepo) DeleteBike(_ repositories.SQLExecutor, id string) error {
	if _, ok := r.bikes[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.bikes, id)
	return nil
}

func (r *fakeBikeRepo) CountBikes() (int, error) {
	return len(r.bikes), nil
}

func (r *fakeBikeRepo) CountLowStockBikes(threshold int) (int, error) {
	count := 0
	for _, b := range r.bikes {
		if b.Stock <= threshold {
			count++
		}
	}
	return count, nil
}

type fakeRequestRepo struct {
	requests map[string]models.InventoryRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]models.InventoryRequest)}
}

func (r *fakeRequestRepo) CreateRequest(_ repositories.SQLExecutor, request *models.InventoryRequest) error {
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	r.requests[request.ID] = *request
	return nil
}

func (r *fakeRequestRepo) GetRequests() ([]models.InventoryRequest, error) {
	out := make([]models.InventoryRequest, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRequestRepo) GetPendingRequests() ([]models.InventoryRequest, error) {
	var out []models.InventoryRequest
	for _, req := range r.requests {
		if req.Status == models.RequestStatusPending {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) GetRequestsBySeller(sellerID string) ([]models.InventoryRequest, error) {
	var out []models.InventoryRequest
	for _, req := range r.requests {
		if req.SellerID == sellerID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) GetRequestByID(id string) (*models.InventoryRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &req, nil
}

func (r *fakeRequestRepo) MarkProcessed(_ repositories.SQLExecutor, id, status string, approvedQuantity *int, adminNotes, processedBy *string, processedAt time.Time) error {
	req, ok := r.requests[id]
	if !ok {
		return repositories.ErrNotFound
	}
	req.Status = status
	req.ApprovedQuantity = approvedQuantity
	req.AdminNotes = adminNotes
	req.ProcessedBy = processedBy
	req.ProcessedAt = &processedAt
	req.UpdatedAt = time.Now()
	r.requests[id] = req
	return nil
}

func (r *fakeRequestRepo) MarkProcessedIfStatusIn(exec repositories.SQLExecutor, id, status string, approvedQuantity *int, adminNotes, processedBy *string, processedAt time.Time, fromStatuses []string) (bool, error) {
	req, ok := r.requests[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, from := range fromStatuses {
		if req.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	return true, r.MarkProcessed(exec, id, status, approvedQuantity, adminNotes, processedBy, processedAt)
}

func (r *fakeRequestRepo) MarkFulfilled(_ repositories.SQLExecutor, id string) error {
	req, ok := r.requests[id]
	if !ok {
		return repositories.ErrNotFound
	}
	req.Status = models.RequestStatusFulfilled
	req.UpdatedAt = time.Now()
	r.requests[id] = req
	return nil
}

func (r *fakeRequestRepo) DeleteRequest(_ repositories.SQLExecutor, id string) error {
	if _, ok := r.requests[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.requests, id)
	return nil
}

func (r *fakeRequestRepo) CountPendingRequests() (int, error) {
	count := 0
	for _, req := range r.requests {
		if req.Status == models.RequestStatusPending {
			count++
		}
	}
	return count, nil
}

type fakeShopInventoryRepo struct {
	items map[string]models.ShopInventoryItem
	// beforeApplySale, when set, runs before the guarded stock check. Tests
	// use it to model a concurrent write landing between the service's
	// point-in-time read and the decrement.
	beforeApplySale func()
}

func newFakeShopInventoryRepo() *fakeShopInventoryRepo {
	return &fakeShopInventoryRepo{items: make(map[string]models.ShopInventoryItem)}
}

func (r *fakeShopInventoryRepo) InsertItem(_ repositories.SQLExecutor, item *models.ShopInventoryItem) error {
	if _, ok := r.items[item.ID]; ok {
		return repositories.ErrDuplicateKey
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	r.items[item.ID] = *item
	return nil
}

func (r *fakeShopInventoryRepo) IncrementStock(_ repositories.SQLExecutor, id string, quantity int, restockedAt time.Time) error {
	item, ok := r.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	item.ShopStock += quantity
	item.LastRestocked = &restockedAt
	item.UpdatedAt = time.Now()
	r.items[id] = item
	return nil
}

func (r *fakeShopInventoryRepo) ApplySale(_ repositories.SQLExecutor, id string, quantity int) error {
	item, ok := r.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	item.ShopStock -= quantity
	item.TotalSold += quantity
	item.UpdatedAt = time.Now()
	r.items[id] = item
	return nil
}

func (r *fakeShopInventoryRepo) ApplySaleGuarded(exec repositories.SQLExecutor, id string, quantity int) (bool, error) {
	if r.beforeApplySale != nil {
		r.beforeApplySale()
	}
	item, ok := r.items[id]
	if !ok {
		return false, nil
	}
	if item.ShopStock < quantity {
		return false, nil
	}
	return true, r.ApplySale(exec, id, quantity)
}

func (r *fakeShopInventoryRepo) GetItemByID(id string) (*models.ShopInventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &item, nil
}

func (r *fakeShopInventoryRepo) GetSellerInventory(sellerID string) ([]models.ShopInventoryItem, error) {
	var out []models.ShopInventoryItem
	for _, item := range r.items {
		if item.SellerID == sellerID && item.Status == models.BikeStatusActive {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeShopInventoryRepo) GetLowStockItems(sellerID string, threshold int) ([]models.ShopInventoryItem, error) {
	var out []models.ShopInventoryItem
	for _, item := range r.items {
		if item.SellerID == sellerID && item.Status == models.BikeStatusActive && item.ShopStock <= threshold {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (r *fakeUserRepo) CreateUser(_ repositories.SQLExecutor, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.UID] = *user
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByUID(uid string) (*models.User, error) {
	user, ok := r.users[uid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetSellers() ([]models.User, error) {
	var out []models.User
	for _, user := range r.users {
		if user.Role == models.RoleSeller {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetPendingSellers() ([]models.User, error) {
	var out []models.User
	for _, user := range r.users {
		if user.Role == models.RoleSeller && user.Status == models.UserStatusPending {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateUserStatus(_ repositories.SQLExecutor, uid, status string) error {
	user, ok := r.users[uid]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Status = status
	user.UpdatedAt = time.Now()
	r.users[uid] = user
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ repositories.SQLExecutor, uid string, at time.Time) error {
	user, ok := r.users[uid]
	if !ok {
		return repositories.ErrNotFound
	}
	user.LastLogin = &at
	r.users[uid] = user
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ repositories.SQLExecutor, uid string, displayName, shopName, phone, photoURL *string) error {
	user, ok := r.users[uid]
	if !ok {
		return repositories.ErrNotFound
	}
	if displayName != nil {
		user.DisplayName = *displayName
	}
	if user.Seller != nil {
		if shopName != nil {
			user.Seller.ShopName = *shopName
		}
		if phone != nil {
			user.Seller.Phone = phone
		}
	}
	if photoURL != nil {
		user.PhotoURL = photoURL
	}
	user.UpdatedAt = time.Now()
	r.users[uid] = user
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ repositories.SQLExecutor, uid string) error {
	if _, ok := r.users[uid]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, uid)
	return nil
}

func (r *fakeUserRepo) CountActiveAdmins() (int, error) {
	count := 0
	for _, user := range r.users {
		if user.Role == models.RoleAdmin && user.Status == models.UserStatusActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) CountSellers() (int, error) {
	count := 0
	for _, user := range r.users {
		if user.Role == models.RoleSeller {
			count++
		}
	}
	return count, nil
}

type fakeSaleRepo struct {
	sales map[string]models.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[string]models.Sale)}
}

func (r *fakeSaleRepo) CreateSale(_ repositories.SQLExecutor, sale *models.Sale) error {
	sale.CreatedAt = time.Now()
	sale.UpdatedAt = sale.CreatedAt
	r.sales[sale.ID] = *sale
	return nil
}

func (r *fakeSaleRepo) GetSales(filters models.SaleFilters) ([]models.Sale, int, error) {
	all, _ := r.GetAllSales(filters.SellerID)
	var filtered []models.Sale
	for _, sale := range all {
		if filters.Status != nil && sale.Status != *filters.Status {
			continue
		}
		filtered = append(filtered, sale)
	}
	total := len(filtered)
	start := (filters.Page - 1) * filters.PageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + filters.PageSize
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

func (r *fakeSaleRepo) GetAllSales(sellerID *string) ([]models.Sale, error) {
	var out []models.Sale
	for _, sale := range r.sales {
		if sellerID != nil && sale.SellerID != *sellerID {
			continue
		}
		out = append(out, sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSaleRepo) GetSaleByID(id string) (*models.Sale, error) {
	sale, ok := r.sales[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &sale, nil
}

func (r *fakeSaleRepo) UpdateSale(_ repositories.SQLExecutor, id string, status *string, notes *string) error {
	sale, ok := r.sales[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if status != nil {
		sale.Status = *status
	}
	if notes != nil {
		sale.Notes = notes
	}
	sale.UpdatedAt = time.Now()
	r.sales[id] = sale
	return nil
}

func (r *fakeSaleRepo) DeleteSale(_ repositories.SQLExecutor, id string) error {
	if _, ok := r.sales[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.sales, id)
	return nil
}
