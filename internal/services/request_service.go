package services

import (
	"errors"
	"fmt"
	"time"

	"ebike_admin_backend/internal/models"
	"ebike_admin_backend/internal/repositories"

	"github.com/google/uuid"
)

// --- Custom Service Errors for inventory requests ---
var (
	ErrRequestNotFound         = errors.New("inventory request not found")
	ErrRequestNotApproved      = errors.New("inventory request is not in approved status")
	ErrNoApprovedQuantity      = errors.New("inventory request has no approved quantity")
	ErrRequestAlreadyProcessed = errors.New("inventory request was already processed")
)

// --- DTOs ---

// CreateRequestPayload is a seller's ask for catalog stock. Quantity bounds are
// enforced here at the binding boundary; the repository layer does not
// re-validate, so a direct caller can still write an out-of-range value.
type CreateRequestPayload struct {
	BikeID            string `json:"bike_id" binding:"required"`
	RequestedQuantity int    `json:"requested_quantity" binding:"required,gt=0"`
	Priority          string `json:"priority"`
	Notes             string `json:"notes"`
}

// ApproveRequestPayload carries the admin's approval decision.
// ApprovedQuantity is deliberately not compared against the requested
// quantity; the source system never did either.
type ApproveRequestPayload struct {
	ApprovedQuantity int    `json:"approved_quantity" binding:"required,gt=0"`
	AdminNotes       string `json:"admin_notes"`
}

// RejectRequestPayload carries the admin's rejection decision.
type RejectRequestPayload struct {
	AdminNotes string `json:"admin_notes"`
}

// --- RequestService Interface ---
type RequestService interface {
	CreateRequest(sellerID string, req CreateRequestPayload) (*models.InventoryRequest, error)
	GetRequests() ([]models.InventoryRequest, error)
	GetPendingRequests() ([]models.InventoryRequest, error)
	GetRequestsBySeller(sellerID string) ([]models.InventoryRequest, error)
	GetRequestByID(id string) (*models.InventoryRequest, error)
	ApproveRequest(id, processedBy string, req ApproveRequestPayload) (*models.InventoryRequest, error)
	RejectRequest(id, processedBy string, req RejectRequestPayload) (*models.InventoryRequest, error)
	FulfillRequest(id string) (*models.InventoryRequest, error)
	ProcessApprovedRequest(id string) (*models.InventoryRequest, error)
	DeleteRequest(id string) error
}

// --- requestService Implementation ---
type requestService struct {
	requestRepo   repositories.RequestRepository
	bikeRepo      repositories.BikeRepository
	inventoryRepo repositories.ShopInventoryRepository
	userRepo      repositories.UserRepository
	db            repositories.SQLExecutor
	txs           TxBeginner
	atomicWrites  bool
}

// NewRequestService creates a new instance of RequestService. When
// atomicWrites is set, fulfillment runs the ledger merge and a status-guarded
// request update in one transaction started through txs; otherwise the two
// writes are issued sequentially and a failure between them leaves a merged
// ledger with the request still unprocessed.
func NewRequestService(
	rr repositories.RequestRepository,
	br repositories.BikeRepository,
	ir repositories.ShopInventoryRepository,
	ur repositories.UserRepository,
	db repositories.SQLExecutor,
	txs TxBeginner,
	atomicWrites bool,
) RequestService {
	return &requestService{
		requestRepo:   rr,
		bikeRepo:      br,
		inventoryRepo: ir,
		userRepo:      ur,
		db:            db,
		txs:           txs,
		atomicWrites:  atomicWrites,
	}
}

func (s *requestService) CreateRequest(sellerID string, req CreateRequestPayload) (*models.InventoryRequest, error) {
	priority := req.Priority
	if priority == "" {
		priority = models.RequestPriorityMedium
	}
	if !models.IsValidRequestPriority(priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
	}

	seller, err := s.userRepo.GetUserByUID(sellerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch requesting seller: %w", err)
	}
	bike, err := s.bikeRepo.GetBikeByID(req.BikeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBikeNotFound
		}
		return nil, fmt.Errorf("failed to fetch requested bike: %w", err)
	}

	shopName := ""
	if seller.Seller != nil {
		shopName = seller.Seller.ShopName
	}

	request := &models.InventoryRequest{
		ID:                uuid.NewString(),
		SellerID:          seller.UID,
		SellerName:        seller.DisplayName,
		ShopName:          shopName,
		BikeID:            bike.ID,
		BikeName:          bike.Name,
		RequestedQuantity: req.RequestedQuantity,
		Status:            models.RequestStatusPending,
		Priority:          priority,
	}
	if req.Notes != "" {
		notes := req.Notes
		request.Notes = &notes
	}

	if err := s.requestRepo.CreateRequest(s.db, request); err != nil {
		return nil, fmt.Errorf("failed to create inventory request: %w", err)
	}
	return s.requestRepo.GetRequestByID(request.ID)
}

func (s *requestService) GetRequests() ([]models.InventoryRequest, error) {
	requests, err := s.requestRepo.GetRequests()
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory requests: %w", err)
	}
	return requests, nil
}

func (s *requestService) GetPendingRequests() ([]models.InventoryRequest, error) {
	requests, err := s.requestRepo.GetPendingRequests()
	if err != nil {
		return nil, fmt.Errorf("failed to get pending inventory requests: %w", err)
	}
	return requests, nil
}

func (s *requestService) GetRequestsBySeller(sellerID string) ([]models.InventoryRequest, error) {
	requests, err := s.requestRepo.GetRequestsBySeller(sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory requests by seller: %w", err)
	}
	return requests, nil
}

func (s *requestService) GetRequestByID(id string) (*models.InventoryRequest, error) {
	request, err := s.requestRepo.GetRequestByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get inventory request by ID: %w", err)
	}
	return request, nil
}

// ApproveRequest merges the approved quantity into the seller's shop inventory
// and marks the request fulfilled in the same step. Approval does not stop at
// an "approved" checkpoint: the stock is already sitting with the shop's
// supplier, so there is no shipping state worth modelling. Both lookups happen
// before any write, so a missing request or bike aborts with no mutation.
func (s *requestService) ApproveRequest(id, processedBy string, req ApproveRequestPayload) (*models.InventoryRequest, error) {
	request, err := s.requestRepo.GetRequestByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch inventory request for approval: %w", err)
	}
	bike, err := s.bikeRepo.GetBikeByID(request.BikeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBikeNotFound
		}
		return nil, fmt.Errorf("failed to fetch bike for approval: %w", err)
	}

	now := time.Now()
	approvedQuantity := req.ApprovedQuantity
	adminNotes := newOptionalString(req.AdminNotes)
	processor := newOptionalString(processedBy)

	if s.atomicWrites {
		err = s.approveInTx(request, bike, approvedQuantity, adminNotes, processor, now)
	} else {
		// Two independent writes, no compensation: if marking the request
		// fails after the merge, the ledger keeps the credit and the request
		// stays pending.
		err = mergeShopInventory(s.db, s.inventoryRepo, request.SellerID, bike, approvedQuantity, now)
		if err == nil {
			err = s.requestRepo.MarkProcessed(s.db, id, models.RequestStatusFulfilled, &approvedQuantity, adminNotes, processor, now)
		}
	}
	if err != nil {
		return nil, err
	}
	return s.requestRepo.GetRequestByID(id)
}

func (s *requestService) approveInTx(request *models.InventoryRequest, bike *models.Bike, approvedQuantity int, adminNotes, processedBy *string, now time.Time) error {
	tx, err := s.txs.Begin()
	if err != nil {
		return fmt.Errorf("failed to start approval transaction: %w", err)
	}
	defer tx.Rollback()

	applied, err := s.requestRepo.MarkProcessedIfStatusIn(tx, request.ID, models.RequestStatusFulfilled,
		&approvedQuantity, adminNotes, processedBy, now,
		[]string{models.RequestStatusPending, models.RequestStatusApproved})
	if err != nil {
		return err
	}
	if !applied {
		return ErrRequestAlreadyProcessed
	}
	if err := mergeShopInventory(tx, s.inventoryRepo, request.SellerID, bike, approvedQuantity, now); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *requestService) RejectRequest(id, processedBy string, req RejectRequestPayload) (*models.InventoryRequest, error) {
	_, err := s.requestRepo.GetRequestByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch inventory request for rejection: %w", err)
	}

	err = s.requestRepo.MarkProcessed(s.db, id, models.RequestStatusRejected, nil,
		newOptionalString(req.AdminNotes), newOptionalString(processedBy), time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to reject inventory request: %w", err)
	}
	return s.requestRepo.GetRequestByID(id)
}

// FulfillRequest flips the status to fulfilled with no inventory side effect.
// It only makes sense for a request already credited by an older approval
// flow; ProcessApprovedRequest is the variant that replays the credit too.
func (s *requestService) FulfillRequest(id string) (*models.InventoryRequest, error) {
	err := s.requestRepo.MarkFulfilled(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fulfill inventory request: %w", err)
	}
	return s.requestRepo.GetRequestByID(id)
}

// ProcessApprovedRequest is the recovery path for requests stuck in approved
// status from before approval started fulfilling inline, and for approvals
// whose second write never landed. It replays the ledger merge and marks the
// request fulfilled. The caller must only invoke it on requests verified to
// still be approved; the merge is not idempotent.
func (s *requestService) ProcessApprovedRequest(id string) (*models.InventoryRequest, error) {
	request, err := s.requestRepo.GetRequestByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch inventory request for processing: %w", err)
	}
	if request.Status != models.RequestStatusApproved {
		return nil, ErrRequestNotApproved
	}
	if request.ApprovedQuantity == nil {
		return nil, ErrNoApprovedQuantity
	}
	bike, err := s.bikeRepo.GetBikeByID(request.BikeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBikeNotFound
		}
		return nil, fmt.Errorf("failed to fetch bike for processing: %w", err)
	}

	now := time.Now()
	if s.atomicWrites {
		if err := s.processApprovedInTx(request, bike, now); err != nil {
			return nil, err
		}
	} else {
		if err := mergeShopInventory(s.db, s.inventoryRepo, request.SellerID, bike, *request.ApprovedQuantity, now); err != nil {
			return nil, err
		}
		if err := s.requestRepo.MarkFulfilled(s.db, id); err != nil {
			return nil, fmt.Errorf("failed to mark processed request as fulfilled: %w", err)
		}
	}
	return s.requestRepo.GetRequestByID(id)
}

func (s *requestService) processApprovedInTx(request *models.InventoryRequest, bike *models.Bike, now time.Time) error {
	tx, err := s.txs.Begin()
	if err != nil {
		return fmt.Errorf("failed to start processing transaction: %w", err)
	}
	defer tx.Rollback()

	applied, err := s.requestRepo.MarkProcessedIfStatusIn(tx, request.ID, models.RequestStatusFulfilled,
		request.ApprovedQuantity, request.AdminNotes, request.ProcessedBy, now,
		[]string{models.RequestStatusApproved})
	if err != nil {
		return err
	}
	if !applied {
		return ErrRequestAlreadyProcessed
	}
	if err := mergeShopInventory(tx, s.inventoryRepo, request.SellerID, bike, *request.ApprovedQuantity, now); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteRequest hard-deletes the request regardless of status. Inventory
// already credited by a fulfilled request stays credited.
func (s *requestService) DeleteRequest(id string) error {
	err := s.requestRepo.DeleteRequest(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRequestNotFound
		}
		return fmt.Errorf("failed to delete inventory request: %w", err)
	}
	return nil
}

func newOptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
