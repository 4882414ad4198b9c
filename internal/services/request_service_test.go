package services_test

import (
	"errors"
	"testing"

	"ebike_admin_backend/internal/models"
	"ebike_admin_backend/internal/services"
)

type requestFixture struct {
	svc       services.RequestService
	requests  *fakeRequestRepo
	bikes     *fakeBikeRepo
	inventory *fakeShopInventoryRepo
	users     *fakeUserRepo
	txs       *fakeTxBeginner
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	return newRequestFixtureMode(t, false)
}

func newAtomicRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	return newRequestFixtureMode(t, true)
}

func newRequestFixtureMode(t *testing.T, atomicWrites bool) *requestFixture {
	t.Helper()
	f := &requestFixture{
		requests:  newFakeRequestRepo(),
		bikes:     newFakeBikeRepo(),
		inventory: newFakeShopInventoryRepo(),
		users:     newFakeUserRepo(),
		txs:       &fakeTxBeginner{},
	}
	f.svc = services.NewRequestService(f.requests, f.bikes, f.inventory, f.users, nil, f.txs, atomicWrites)

	f.users.users["seller-1"] = models.User{
		UID:         "seller-1",
		Email:       "seller@example.com",
		DisplayName: "Dana Seller",
		Role:        models.RoleSeller,
		Status:      models.UserStatusActive,
		Seller:      &models.SellerProfile{ShopName: "Dana's Bikes"},
	}
	f.bikes.bikes["bike-1"] = models.Bike{
		ID:       "bike-1",
		Name:     "City Cruiser",
		Brand:    "Volta",
		Model:    "CC-200",
		Category: models.BikeCategoryCity,
		Price:    1200,
		Stock:    50,
		Status:   models.BikeStatusActive,
	}
	return f
}

func (f *requestFixture) createPending(t *testing.T, quantity int) *models.InventoryRequest {
	t.Helper()
	request, err := f.svc.CreateRequest("seller-1", services.CreateRequestPayload{
		BikeID:            "bike-1",
		RequestedQuantity: quantity,
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	return request
}

func TestCreateRequestDenormalizesNames(t *testing.T) {
	f := newRequestFixture(t)

	request := f.createPending(t, 10)

	if request.Status != models.RequestStatusPending {
		t.Errorf("status = %q, want %q", request.Status, models.RequestStatusPending)
	}
	if request.Priority != models.RequestPriorityMedium {
		t.Errorf("priority = %q, want default %q", request.Priority, models.RequestPriorityMedium)
	}
	if request.SellerName != "Dana Seller" || request.ShopName != "Dana's Bikes" {
		t.Errorf("seller snapshot = %q / %q", request.SellerName, request.ShopName)
	}
	if request.BikeName != "City Cruiser" {
		t.Errorf("bike snapshot = %q", request.BikeName)
	}
}

func TestCreateRequestUnknownBike(t *testing.T) {
	f := newRequestFixture(t)

	_, err := f.svc.CreateRequest("seller-1", services.CreateRequestPayload{
		BikeID:            "no-such-bike",
		RequestedQuantity: 3,
	})
	if !errors.Is(err, services.ErrBikeNotFound) {
		t.Fatalf("err = %v, want ErrBikeNotFound", err)
	}
}

func TestApproveRequestFulfillsAndCreditsInventory(t *testing.T) {
	f := newRequestFixture(t)
	request := f.createPending(t, 10)

	approved, err := f.svc.ApproveRequest(request.ID, "admin-1", services.ApproveRequestPayload{
		ApprovedQuantity: 8,
		AdminNotes:       "partial",
	})
	if err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}

	if approved.Status != models.RequestStatusFulfilled {
		t.Errorf("status = %q, want %q", approved.Status, models.RequestStatusFulfilled)
	}
	if approved.ApprovedQuantity == nil || *approved.ApprovedQuantity != 8 {
		t.Errorf("approvedQuantity = %v, want 8", approved.ApprovedQuantity)
	}
	if approved.ProcessedAt == nil || approved.ProcessedBy == nil || *approved.ProcessedBy != "admin-1" {
		t.Errorf("processing stamp missing: at=%v by=%v", approved.ProcessedAt, approved.ProcessedBy)
	}

	itemID := models.ShopInventoryItemID("seller-1", "bike-1")
	item, err := f.inventory.GetItemByID(itemID)
	if err != nil {
		t.Fatalf("inventory item not created: %v", err)
	}
	if item.ShopStock != 8 || item.TotalSold != 0 {
		t.Errorf("item stock/sold = %d/%d, want 8/0", item.ShopStock, item.TotalSold)
	}
	if item.Name != "City Cruiser" || item.Price != 1200 {
		t.Errorf("item snapshot = %q @ %v", item.Name, item.Price)
	}
	if item.LastRestocked == nil {
		t.Error("lastRestocked not set")
	}
}

func TestApproveRequestMergesAdditively(t *testing.T) {
	f := newRequestFixture(t)
	first := f.createPending(t, 5)
	second := f.createPending(t, 3)

	if _, err := f.svc.ApproveRequest(first.ID, "admin-1", services.ApproveRequestPayload{ApprovedQuantity: 5}); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if _, err := f.svc.ApproveRequest(second.ID, "admin-1", services.ApproveRequestPayload{ApprovedQuantity: 3}); err != nil {
		t.Fatalf("second approve: %v", err)
	}

	item, err := f.inventory.GetItemByID(models.ShopInventoryItemID("seller-1", "bike-1"))
	if err != nil {
		t.Fatalf("inventory item missing: %v", err)
	}
	if item.ShopStock != 8 {
		t.Errorf("shopStock = %d, want 8 (5+3)", item.ShopStock)
	}
}

func TestApproveRequestMissingBikeAbortsWithoutMutation(t *testing.T) {
	f := newRequestFixture(t)
	request := f.createPending(t, 4)
	delete(f.bikes.bikes, "bike-1")

	_, err := f.svc.ApproveRequest(request.ID, "admin-1", services.ApproveRequestPayload{ApprovedQuantity: 4})
	if !errors.Is(err, services.ErrBikeNotFound) {
		t.Fatalf("err = %v, want ErrBikeNotFound", err)
	}

	after, err := f.svc.GetRequestByID(request.ID)
	if err != nil {
		t.Fatalf("GetRequestByID: %v", err)
	}
	if after.Status != models.RequestStatusPending {
		t.Errorf("status = %q, want still pending", after.Status)
	}
	if len(f.inventory.items) != 0 {
		t.Errorf("inventory mutated: %d items", len(f.inventory.items))
	}
}

func TestRejectRequestLeavesInventoryUntouched(t *testing.T) {
	f := newRequestFixture(t)
	request := f.createPending(t, 6)

	rejected, err := f.svc.RejectRequest(request.ID, "admin-1", services.RejectRequestPayload{AdminNotes: "out of season"})
	if err != nil {
		t.Fatalf("RejectRequest: %v", err)
	}
	if rejected.Status != models.RequestStatusRejected {
		t.Errorf("status = %q, want %q", rejected.Status, models.RequestStatusRejected)
	}
	if rejected.ApprovedQuantity != nil {
		t.Errorf("approvedQuantity = %v, want nil", rejected.ApprovedQuantity)
	}
	if len(f.inventory.items) != 0 {
		t.Errorf("inventory mutated on rejection: %d items", len(f.inventory.items))
	}
}

func TestFulfillRequestFlipsStatusWithoutCrediting(t *testing.T) {
	f := newRequestFixture(t)
	request := f.createPending(t, 4)

	fulfilled, err := f.svc.FulfillRequest(request.ID)
	if err != nil {
		t.Fatalf("FulfillRequest: %v", err)
	}
	if fulfilled.Status != models.RequestStatusFulfilled {
		t.Errorf("status = %q, want fulfilled", fulfilled.Status)
	}
	if len(f.inventory.items) != 0 {
		t.Errorf("inventory mutated: %d items, want none", len(f.inventory.items))
	}
}

func TestProcessApprovedRequestRequiresApprovedStatus(t *testing.T) {
	f := newRequestFixture(t)
	request := f.createPending(t, 6)

	if _, err := f.svc.ProcessApprovedRequest(request.ID); !errors.Is(err, services.ErrRequestNotApproved) {
		t.Fatalf("pending: err = %v, want ErrRequestNotApproved", err)
	}

	if _, err := f.svc.ApproveRequest(request.ID, "admin-1", services.ApproveRequestPayload{ApprovedQuantity: 6}); err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	if _, err := f.svc.ProcessApprovedRequest(request.ID); !errors.Is(err, services.ErrRequestNotApproved) {
		t.Fatalf("fulfilled: err = %v, want ErrRequestNotApproved", err)
	}
}

func TestProcessApprovedRequestReplaysCredit(t *testing.T) {
	f := newRequestFixture(t)
	request := f.createPending(t, 7)

	// Simulate an approval whose inventory write landed but whose status
	// update did not reach fulfilled.
	quantity := 7
	req := f.requests.requests[request.ID]
	req.Status = models.RequestStatusApproved
	req.ApprovedQuantity = &quantity
	f.requests.requests[request.ID] = req

	processed, err := f.svc.ProcessApprovedRequest(request.ID)
	if err != nil {
		t.Fatalf("ProcessApprovedRequest: %v", err)
	}
	if processed.Status != models.RequestStatusFulfilled {
		t.Errorf("status = %q, want fulfilled", processed.Status)
	}

	item, err := f.inventory.GetItemByID(models.ShopInventoryItemID("seller-1", "bike-1"))
	if err != nil {
		t.Fatalf("inventory item missing: %v", err)
	}
	if item.ShopStock != 7 {
		t.Errorf("shopStock = %d, want 7", item.ShopStock)
	}
}

func TestApproveRequestAtomicCreditsAndCommits(t *testing.T) {
	f := newAtomicRequestFixture(t)
	request := f.createPending(t, 10)

	approved, err := f.svc.ApproveRequest(request.ID, "admin-1", services.ApproveRequestPayload{ApprovedQuantity: 8})
	if err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	if approved.Status != models.RequestStatusFulfilled {
		t.Errorf("status = %q, want %q", approved.Status, models.RequestStatusFulfilled)
	}

	item, err := f.inventory.GetItemByID(models.ShopInventoryItemID("seller-1", "bike-1"))
	if err != nil {
		t.Fatalf("inventory item missing: %v", err)
	}
	if item.ShopStock != 8 {
		t.Errorf("shopStock = %d, want 8", item.ShopStock)
	}
	tx := f.txs.lastTx()
	if tx == nil || !tx.committed {
		t.Error("approval transaction not committed")
	}
}

func TestApproveRequestAtomicRejectsSecondClaim(t *testing.T) {
	f := newAtomicRequestFixture(t)
	request := f.createPending(t, 10)

	if _, err := f.svc.ApproveRequest(request.ID, "admin-1", services.ApproveRequestPayload{ApprovedQuantity: 5}); err != nil {
		t.Fatalf("first approve: %v", err)
	}

	// A second claim on the now-fulfilled request must fail the status guard
	// and leave the ledger with the first credit only.
	_, err := f.svc.ApproveRequest(request.ID, "admin-2", services.ApproveRequestPayload{ApprovedQuantity: 5})
	if !errors.Is(err, services.ErrRequestAlreadyProcessed) {
		t.Fatalf("err = %v, want ErrRequestAlreadyProcessed", err)
	}

	item, err := f.inventory.GetItemByID(models.ShopInventoryItemID("seller-1", "bike-1"))
	if err != nil {
		t.Fatalf("inventory item missing: %v", err)
	}
	if item.ShopStock != 5 {
		t.Errorf("shopStock = %d, want 5 (single credit)", item.ShopStock)
	}
	tx := f.txs.lastTx()
	if tx == nil || tx.committed || !tx.rolledBack {
		t.Error("second claim transaction should have rolled back")
	}
}

func TestProcessApprovedRequestAtomicGuardsStatus(t *testing.T) {
	f := newAtomicRequestFixture(t)
	request := f.createPending(t, 7)

	quantity := 7
	req := f.requests.requests[request.ID]
	req.Status = models.RequestStatusApproved
	req.ApprovedQuantity = &quantity
	f.requests.requests[request.ID] = req

	processed, err := f.svc.ProcessApprovedRequest(request.ID)
	if err != nil {
		t.Fatalf("ProcessApprovedRequest: %v", err)
	}
	if processed.Status != models.RequestStatusFulfilled {
		t.Errorf("status = %q, want fulfilled", processed.Status)
	}
	item, err := f.inventory.GetItemByID(models.ShopInventoryItemID("seller-1", "bike-1"))
	if err != nil {
		t.Fatalf("inventory item missing: %v", err)
	}
	if item.ShopStock != 7 {
		t.Errorf("shopStock = %d, want 7", item.ShopStock)
	}
	if tx := f.txs.lastTx(); tx == nil || !tx.committed {
		t.Error("processing transaction not committed")
	}
}

func TestDeleteRequestKeepsCreditedInventory(t *testing.T) {
	f := newRequestFixture(t)
	request := f.createPending(t, 2)

	if _, err := f.svc.ApproveRequest(request.ID, "admin-1", services.ApproveRequestPayload{ApprovedQuantity: 2}); err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	if err := f.svc.DeleteRequest(request.ID); err != nil {
		t.Fatalf("DeleteRequest: %v", err)
	}

	if _, err := f.svc.GetRequestByID(request.ID); !errors.Is(err, services.ErrRequestNotFound) {
		t.Fatalf("err = %v, want ErrRequestNotFound", err)
	}
	item, err := f.inventory.GetItemByID(models.ShopInventoryItemID("seller-1", "bike-1"))
	if err != nil {
		t.Fatalf("inventory item missing after request deletion: %v", err)
	}
	if item.ShopStock != 2 {
		t.Errorf("shopStock = %d, want credit retained", item.ShopStock)
	}
}
