package services

import (
	"errors"
	"fmt"

	"ebike_admin_backend/internal/models"
	"ebike_admin_backend/internal/repositories"

	"github.com/google/uuid"
)

// --- Custom Service Errors for sales ---
var (
	ErrSaleNotFound      = errors.New("sale not found")
	ErrInsufficientStock = errors.New("insufficient shop stock for sale")
	ErrNotItemOwner      = errors.New("inventory item belongs to a different seller")
)

// --- DTOs ---

// RecordSalePayload records a sale against a shop inventory item. ItemID is
// the composite shop inventory key, not the catalog bike id.
type RecordSalePayload struct {
	ItemID        string  `json:"item_id" binding:"required"`
	CustomerName  string  `json:"customer_name" binding:"required"`
	CustomerPhone string  `json:"customer_phone" binding:"required"`
	CustomerEmail string  `json:"customer_email"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice     float64 `json:"unit_price" binding:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	Status        string  `json:"status"`
	Notes         string  `json:"notes"`
}

// UpdateSalePayload updates a sale's status and/or notes. Status changes do
// not touch the shop inventory counters; a refund does not restock.
type UpdateSalePayload struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// --- SaleService Interface ---
type SaleService interface {
	RecordSale(sellerID string, req RecordSalePayload) (*models.Sale, error)
	GetSales(filters models.SaleFilters) ([]models.Sale, int, error)
	GetSaleByID(id string) (*models.Sale, error)
	UpdateSale(id string, req UpdateSalePayload) (*models.Sale, error)
	DeleteSale(id string) error
}

// --- saleService Implementation ---
type saleService struct {
	saleRepo      repositories.SaleRepository
	inventoryRepo repositories.ShopInventoryRepository
	userRepo      repositories.UserRepository
	db            repositories.SQLExecutor
	txs           TxBeginner
	atomicWrites  bool
}

// NewSaleService creates a new instance of SaleService. When atomicWrites is
// set, recording runs the sale insert and a stock-guarded decrement in one
// transaction started through txs.
func NewSaleService(
	sr repositories.SaleRepository,
	ir repositories.ShopInventoryRepository,
	ur repositories.UserRepository,
	db repositories.SQLExecutor,
	txs TxBeginner,
	atomicWrites bool,
) SaleService {
	return &saleService{
		saleRepo:      sr,
		inventoryRepo: ir,
		userRepo:      ur,
		db:            db,
		txs:           txs,
		atomicWrites:  atomicWrites,
	}
}

// RecordSale writes the sale record and decrements the shop inventory item.
// The stock check happens up front against a point-in-time read; in the
// default mode the decrement afterwards is unconditional, so two concurrent
// sales can both pass the check and push stock below zero.
func (s *saleService) RecordSale(sellerID string, req RecordSalePayload) (*models.Sale, error) {
	status := req.Status
	if status == "" {
		status = models.SaleStatusCompleted
	}
	if !models.IsValidSaleStatus(status) {
		return nil, fmt.Errorf("%w: unknown sale status %q", ErrValidation, status)
	}
	if !models.IsValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}

	item, err := s.inventoryRepo.GetItemByID(req.ItemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to fetch inventory item for sale: %w", err)
	}
	if item.SellerID != sellerID {
		return nil, ErrNotItemOwner
	}
	if item.ShopStock < req.Quantity {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrInsufficientStock, item.ShopStock, req.Quantity)
	}

	seller, err := s.userRepo.GetUserByUID(sellerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch seller for sale: %w", err)
	}
	shopName := ""
	if seller.Seller != nil {
		shopName = seller.Seller.ShopName
	}

	sale := &models.Sale{
		ID:            uuid.NewString(),
		BikeID:        item.ID,
		BikeName:      item.Name,
		SellerID:      sellerID,
		SellerName:    seller.DisplayName,
		ShopName:      shopName,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		TotalPrice:    req.UnitPrice * float64(req.Quantity),
		PaymentMethod: req.PaymentMethod,
		Status:        status,
	}
	if req.CustomerEmail != "" {
		email := req.CustomerEmail
		sale.CustomerEmail = &email
	}
	if req.Notes != "" {
		notes := req.Notes
		sale.Notes = &notes
	}

	if s.atomicWrites {
		err = s.recordInTx(sale)
	} else {
		// Record first, decrement second. A failure between the two leaves
		// the sale on the books with the stock untouched.
		err = s.saleRepo.CreateSale(s.db, sale)
		if err == nil {
			err = s.inventoryRepo.ApplySale(s.db, item.ID, req.Quantity)
		}
	}
	if err != nil {
		return nil, err
	}
	return s.saleRepo.GetSaleByID(sale.ID)
}

func (s *saleService) recordInTx(sale *models.Sale) error {
	tx, err := s.txs.Begin()
	if err != nil {
		return fmt.Errorf("failed to start sale transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.saleRepo.CreateSale(tx, sale); err != nil {
		return err
	}
	applied, err := s.inventoryRepo.ApplySaleGuarded(tx, sale.BikeID, sale.Quantity)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%w: stock changed while recording sale", ErrInsufficientStock)
	}
	return tx.Commit()
}

func (s *saleService) GetSales(filters models.SaleFilters) ([]models.Sale, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	sales, total, err := s.saleRepo.GetSales(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get sales: %w", err)
	}
	return sales, total, nil
}

func (s *saleService) GetSaleByID(id string) (*models.Sale, error) {
	sale, err := s.saleRepo.GetSaleByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to get sale by ID: %w", err)
	}
	return sale, nil
}

func (s *saleService) UpdateSale(id string, req UpdateSalePayload) (*models.Sale, error) {
	if req.Status != nil && !models.IsValidSaleStatus(*req.Status) {
		return nil, fmt.Errorf("%w: unknown sale status %q", ErrValidation, *req.Status)
	}
	err := s.saleRepo.UpdateSale(s.db, id, req.Status, req.Notes)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}
	return s.saleRepo.GetSaleByID(id)
}

// DeleteSale removes the record only. Stock and sold counters on the shop
// inventory item keep whatever the sale left them at.
func (s *saleService) DeleteSale(id string) error {
	err := s.saleRepo.DeleteSale(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSaleNotFound
		}
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	return nil
}
