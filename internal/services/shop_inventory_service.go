package services

import (
	"errors"
	"fmt"
	"time"

	"ebike_admin_backend/internal/models"
	"ebike_admin_backend/internal/repositories"
)

var (
	ErrInventoryItemNotFound = errors.New("shop inventory item not found")
)

// DefaultLowStockThreshold is the shop-stock level at or below which an item
// counts as low stock on dashboards.
const DefaultLowStockThreshold = 5

// --- ShopInventoryService Interface ---
type ShopInventoryService interface {
	GetSellerInventory(sellerID string) ([]models.ShopInventoryItem, error)
	GetInventoryItem(id string) (*models.ShopInventoryItem, error)
	GetLowStockItems(sellerID string, threshold int) ([]models.ShopInventoryItem, error)
	GetInventoryStats(sellerID string) (*models.InventoryStats, error)
}

// --- shopInventoryService Implementation ---
type shopInventoryService struct {
	inventoryRepo repositories.ShopInventoryRepository
}

// NewShopInventoryService creates a new instance of ShopInventoryService.
func NewShopInventoryService(repo repositories.ShopInventoryRepository) ShopInventoryService {
	return &shopInventoryService{inventoryRepo: repo}
}

func (s *shopInventoryService) GetSellerInventory(sellerID string) ([]models.ShopInventoryItem, error) {
	items, err := s.inventoryRepo.GetSellerInventory(sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seller inventory: %w", err)
	}
	return items, nil
}

func (s *shopInventoryService) GetInventoryItem(id string) (*models.ShopInventoryItem, error) {
	item, err := s.inventoryRepo.GetItemByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to get shop inventory item: %w", err)
	}
	return item, nil
}

func (s *shopInventoryService) GetLowStockItems(sellerID string, threshold int) ([]models.ShopInventoryItem, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	items, err := s.inventoryRepo.GetLowStockItems(sellerID, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to get low stock items: %w", err)
	}
	return items, nil
}

func (s *shopInventoryService) GetInventoryStats(sellerID string) (*models.InventoryStats, error) {
	items, err := s.inventoryRepo.GetSellerInventory(sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seller inventory for stats: %w", err)
	}

	stats := &models.InventoryStats{TotalItems: len(items)}
	for _, item := range items {
		stats.TotalStock += item.ShopStock
		stats.TotalSold += item.TotalSold
		if item.ShopStock <= DefaultLowStockThreshold {
			stats.LowStockCount++
		}
		if item.ShopStock == 0 {
			stats.OutOfStockCount++
		}
	}
	return stats, nil
}

// mergeShopInventory credits quantity units of bike to the seller's ledger.
// The ledger key is the composite sellerID_bikeID: an existing entry gets its
// stock counter incremented, a missing one is created from a snapshot of the
// catalog bike taken now and never refreshed afterwards.
//
// The merge is not idempotent by request id; two merges of the same quantity
// produce two increments. Callers own at-most-once invocation.
func mergeShopInventory(executor repositories.SQLExecutor, repo repositories.ShopInventoryRepository, sellerID string, bike *models.Bike, quantity int, restockedAt time.Time) error {
	itemID := models.ShopInventoryItemID(sellerID, bike.ID)

	_, err := repo.GetItemByID(itemID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("failed to look up shop inventory item %s: %w", itemID, err)
		}
		item := &models.ShopInventoryItem{
			ID:             itemID,
			SellerID:       sellerID,
			BikeID:         bike.ID,
			Name:           bike.Name,
			Brand:          bike.Brand,
			Model:          bike.Model,
			Category:       bike.Category,
			Price:          bike.Price,
			Description:    bike.Description,
			Specifications: bike.Specifications,
			Images:         bike.Images,
			Status:         bike.Status,
			ShopStock:      quantity,
			TotalSold:      0,
			LastRestocked:  &restockedAt,
		}
		if err := repo.InsertItem(executor, item); err != nil {
			return fmt.Errorf("failed to create shop inventory item %s: %w", itemID, err)
		}
		return nil
	}

	if err := repo.IncrementStock(executor, itemID, quantity, restockedAt); err != nil {
		return fmt.Errorf("failed to increment stock for shop inventory item %s: %w", itemID, err)
	}
	return nil
}
