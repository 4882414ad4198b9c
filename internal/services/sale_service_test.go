package services_test

import (
	"errors"
	"testing"

	"ebike_admin_backend/internal/models"
	"ebike_admin_backend/internal/services"
)

type saleFixture struct {
	svc       services.SaleService
	sales     *fakeSaleRepo
	inventory *fakeShopInventoryRepo
	users     *fakeUserRepo
	txs       *fakeTxBeginner
	itemID    string
}

func newSaleFixture(t *testing.T, stock int) *saleFixture {
	t.Helper()
	return newSaleFixtureMode(t, stock, false)
}

func newAtomicSaleFixture(t *testing.T, stock int) *saleFixture {
	t.Helper()
	return newSaleFixtureMode(t, stock, true)
}

func newSaleFixtureMode(t *testing.T, stock int, atomicWrites bool) *saleFixture {
	t.Helper()
	f := &saleFixture{
		sales:     newFakeSaleRepo(),
		inventory: newFakeShopInventoryRepo(),
		users:     newFakeUserRepo(),
		txs:       &fakeTxBeginner{},
	}
	f.svc = services.NewSaleService(f.sales, f.inventory, f.users, nil, f.txs, atomicWrites)

	f.users.users["seller-1"] = models.User{
		UID:         "seller-1",
		Email:       "seller@example.com",
		DisplayName: "Dana Seller",
		Role:        models.RoleSeller,
		Status:      models.UserStatusActive,
		Seller:      &models.SellerProfile{ShopName: "Dana's Bikes"},
	}
	f.itemID = models.ShopInventoryItemID("seller-1", "bike-1")
	f.inventory.items[f.itemID] = models.ShopInventoryItem{
		ID:        f.itemID,
		SellerID:  "seller-1",
		BikeID:    "bike-1",
		Name:      "City Cruiser",
		Price:     1200,
		Status:    models.BikeStatusActive,
		ShopStock: stock,
	}
	return f
}

func TestRecordSaleDecrementsStockAndCountsSold(t *testing.T) {
	f := newSaleFixture(t, 8)

	sale, err := f.svc.RecordSale("seller-1", services.RecordSalePayload{
		ItemID:        f.itemID,
		CustomerName:  "Alex Buyer",
		CustomerPhone: "+1-555-0100",
		Quantity:      3,
		UnitPrice:     500,
		PaymentMethod: models.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	if sale.TotalPrice != 1500 {
		t.Errorf("totalPrice = %v, want 1500", sale.TotalPrice)
	}
	if sale.Status != models.SaleStatusCompleted {
		t.Errorf("status = %q, want default completed", sale.Status)
	}
	if sale.SellerName != "Dana Seller" || sale.ShopName != "Dana's Bikes" || sale.BikeName != "City Cruiser" {
		t.Errorf("denormalized names = %q / %q / %q", sale.SellerName, sale.ShopName, sale.BikeName)
	}

	item, _ := f.inventory.GetItemByID(f.itemID)
	if item.ShopStock != 5 {
		t.Errorf("shopStock = %d, want 5", item.ShopStock)
	}
	if item.TotalSold != 3 {
		t.Errorf("totalSold = %d, want 3", item.TotalSold)
	}
}

func TestRecordSaleRejectsOverStock(t *testing.T) {
	f := newSaleFixture(t, 2)

	_, err := f.svc.RecordSale("seller-1", services.RecordSalePayload{
		ItemID:        f.itemID,
		CustomerName:  "Alex Buyer",
		CustomerPhone: "+1-555-0100",
		Quantity:      3,
		UnitPrice:     500,
		PaymentMethod: models.PaymentMethodCard,
	})
	if !errors.Is(err, services.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	if len(f.sales.sales) != 0 {
		t.Errorf("sale recorded despite over-stock: %d sales", len(f.sales.sales))
	}
	item, _ := f.inventory.GetItemByID(f.itemID)
	if item.ShopStock != 2 {
		t.Errorf("shopStock = %d, want untouched 2", item.ShopStock)
	}
}

func TestRecordSaleRejectsForeignItem(t *testing.T) {
	f := newSaleFixture(t, 5)
	f.users.users["seller-2"] = models.User{
		UID:    "seller-2",
		Role:   models.RoleSeller,
		Status: models.UserStatusActive,
		Seller: &models.SellerProfile{ShopName: "Other Shop"},
	}

	_, err := f.svc.RecordSale("seller-2", services.RecordSalePayload{
		ItemID:        f.itemID,
		CustomerName:  "Alex Buyer",
		CustomerPhone: "+1-555-0100",
		Quantity:      1,
		UnitPrice:     500,
		PaymentMethod: models.PaymentMethodCash,
	})
	if !errors.Is(err, services.ErrNotItemOwner) {
		t.Fatalf("err = %v, want ErrNotItemOwner", err)
	}
}

func TestRecordSaleRejectsUnknownPaymentMethod(t *testing.T) {
	f := newSaleFixture(t, 5)

	_, err := f.svc.RecordSale("seller-1", services.RecordSalePayload{
		ItemID:        f.itemID,
		CustomerName:  "Alex Buyer",
		CustomerPhone: "+1-555-0100",
		Quantity:      1,
		UnitPrice:     500,
		PaymentMethod: "barter",
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestRecordSaleAtomicDecrementsAndCommits(t *testing.T) {
	f := newAtomicSaleFixture(t, 8)

	sale, err := f.svc.RecordSale("seller-1", services.RecordSalePayload{
		ItemID:        f.itemID,
		CustomerName:  "Alex Buyer",
		CustomerPhone: "+1-555-0100",
		Quantity:      3,
		UnitPrice:     500,
		PaymentMethod: models.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if sale.TotalPrice != 1500 {
		t.Errorf("totalPrice = %v, want 1500", sale.TotalPrice)
	}

	item, _ := f.inventory.GetItemByID(f.itemID)
	if item.ShopStock != 5 || item.TotalSold != 3 {
		t.Errorf("counters = %d/%d, want 5/3", item.ShopStock, item.TotalSold)
	}
	if tx := f.txs.lastTx(); tx == nil || !tx.committed {
		t.Error("sale transaction not committed")
	}
}

func TestRecordSaleAtomicRejectsStockChangedUnderneath(t *testing.T) {
	f := newAtomicSaleFixture(t, 3)

	// A concurrent sale drains the stock after the service's up-front read
	// passes but before the guarded decrement runs.
	f.inventory.beforeApplySale = func() {
		item := f.inventory.items[f.itemID]
		item.ShopStock = 1
		f.inventory.items[f.itemID] = item
	}

	_, err := f.svc.RecordSale("seller-1", services.RecordSalePayload{
		ItemID:        f.itemID,
		CustomerName:  "Alex Buyer",
		CustomerPhone: "+1-555-0100",
		Quantity:      2,
		UnitPrice:     500,
		PaymentMethod: models.PaymentMethodCard,
	})
	if !errors.Is(err, services.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock from the guarded decrement", err)
	}

	item, _ := f.inventory.GetItemByID(f.itemID)
	if item.ShopStock != 1 || item.TotalSold != 0 {
		t.Errorf("counters = %d/%d, want 1/0 with no decrement applied", item.ShopStock, item.TotalSold)
	}
	tx := f.txs.lastTx()
	if tx == nil || tx.committed || !tx.rolledBack {
		t.Error("failed sale transaction should have rolled back")
	}
}

func TestUpdateSaleStatusDoesNotRestock(t *testing.T) {
	f := newSaleFixture(t, 8)

	sale, err := f.svc.RecordSale("seller-1", services.RecordSalePayload{
		ItemID:        f.itemID,
		CustomerName:  "Alex Buyer",
		CustomerPhone: "+1-555-0100",
		Quantity:      2,
		UnitPrice:     600,
		PaymentMethod: models.PaymentMethodFinancing,
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	refunded := models.SaleStatusRefunded
	updated, err := f.svc.UpdateSale(sale.ID, services.UpdateSalePayload{Status: &refunded})
	if err != nil {
		t.Fatalf("UpdateSale: %v", err)
	}
	if updated.Status != models.SaleStatusRefunded {
		t.Errorf("status = %q, want refunded", updated.Status)
	}

	item, _ := f.inventory.GetItemByID(f.itemID)
	if item.ShopStock != 6 || item.TotalSold != 2 {
		t.Errorf("counters = %d/%d, want unchanged 6/2 after refund", item.ShopStock, item.TotalSold)
	}
}

func TestDeleteSaleKeepsInventoryCounters(t *testing.T) {
	f := newSaleFixture(t, 8)

	sale, err := f.svc.RecordSale("seller-1", services.RecordSalePayload{
		ItemID:        f.itemID,
		CustomerName:  "Alex Buyer",
		CustomerPhone: "+1-555-0100",
		Quantity:      4,
		UnitPrice:     300,
		PaymentMethod: models.PaymentMethodBankTransfer,
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if err := f.svc.DeleteSale(sale.ID); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}

	if _, err := f.svc.GetSaleByID(sale.ID); !errors.Is(err, services.ErrSaleNotFound) {
		t.Fatalf("err = %v, want ErrSaleNotFound", err)
	}
	item, _ := f.inventory.GetItemByID(f.itemID)
	if item.ShopStock != 4 || item.TotalSold != 4 {
		t.Errorf("counters = %d/%d, want 4/4 retained after deletion", item.ShopStock, item.TotalSold)
	}
}
