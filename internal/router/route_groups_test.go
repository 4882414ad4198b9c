package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ebike_admin_backend/internal/handlers"
	"ebike_admin_backend/internal/middleware"
	"ebike_admin_backend/internal/models"
	"ebike_admin_backend/internal/router"
	"ebike_admin_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// stubRequestService records which lifecycle operations the routes invoked.
type stubRequestService struct {
	requests  map[string]*models.InventoryRequest
	fulfilled []string
	processed []string
}

func newStubRequestService() *stubRequestService {
	return &stubRequestService{requests: make(map[string]*models.InventoryRequest)}
}

func (s *stubRequestService) CreateRequest(string, services.CreateRequestPayload) (*models.InventoryRequest, error) {
	return nil, nil
}

func (s *stubRequestService) GetRequests() ([]models.InventoryRequest, error) { return nil, nil }

func (s *stubRequestService) GetPendingRequests() ([]models.InventoryRequest, error) {
	return nil, nil
}

func (s *stubRequestService) GetRequestsBySeller(string) ([]models.InventoryRequest, error) {
	return nil, nil
}

func (s *stubRequestService) GetRequestByID(id string) (*models.InventoryRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, services.ErrRequestNotFound
	}
	return request, nil
}

func (s *stubRequestService) ApproveRequest(id, _ string, _ services.ApproveRequestPayload) (*models.InventoryRequest, error) {
	return s.GetRequestByID(id)
}

func (s *stubRequestService) RejectRequest(id, _ string, _ services.RejectRequestPayload) (*models.InventoryRequest, error) {
	return s.GetRequestByID(id)
}

func (s *stubRequestService) FulfillRequest(id string) (*models.InventoryRequest, error) {
	s.fulfilled = append(s.fulfilled, id)
	return s.GetRequestByID(id)
}

func (s *stubRequestService) ProcessApprovedRequest(id string) (*models.InventoryRequest, error) {
	s.processed = append(s.processed, id)
	return s.GetRequestByID(id)
}

func (s *stubRequestService) DeleteRequest(string) error { return nil }

// newRequestEngine mounts the request routes behind a middleware that plants
// the given identity, standing in for a validated token.
func newRequestEngine(uid, role string, svc services.RequestService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/api/v1")
	group.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uid)
		c.Set(middleware.ContextUserRoleKey, role)
	})
	router.SetupRequestRoutes(group, handlers.NewRequestHandler(svc))
	return engine
}

func postStatus(t *testing.T, engine *gin.Engine, path string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, path, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec.Code
}

func TestFulfillRouteInvokesService(t *testing.T) {
	svc := newStubRequestService()
	svc.requests["req-1"] = &models.InventoryRequest{ID: "req-1", SellerID: "seller-1", Status: models.RequestStatusFulfilled}
	engine := newRequestEngine("admin-1", models.RoleAdmin, svc)

	if code := postStatus(t, engine, "/api/v1/inventory-requests/req-1/fulfill"); code != http.StatusOK {
		t.Fatalf("fulfill status = %d, want 200", code)
	}
	if len(svc.fulfilled) != 1 || svc.fulfilled[0] != "req-1" {
		t.Errorf("fulfilled = %v, want [req-1]", svc.fulfilled)
	}
}

func TestFulfillRouteRejectsSellers(t *testing.T) {
	svc := newStubRequestService()
	engine := newRequestEngine("seller-1", models.RoleSeller, svc)

	if code := postStatus(t, engine, "/api/v1/inventory-requests/req-1/fulfill"); code != http.StatusForbidden {
		t.Fatalf("fulfill status = %d, want 403 for seller", code)
	}
	if len(svc.fulfilled) != 0 {
		t.Errorf("fulfilled = %v, want none", svc.fulfilled)
	}
}

func TestProcessRouteAllowsAdmin(t *testing.T) {
	svc := newStubRequestService()
	svc.requests["req-1"] = &models.InventoryRequest{ID: "req-1", SellerID: "seller-1", Status: models.RequestStatusApproved}
	engine := newRequestEngine("admin-1", models.RoleAdmin, svc)

	if code := postStatus(t, engine, "/api/v1/inventory-requests/req-1/process"); code != http.StatusOK {
		t.Fatalf("process status = %d, want 200", code)
	}
	if len(svc.processed) != 1 {
		t.Errorf("processed = %v, want [req-1]", svc.processed)
	}
}

func TestProcessRouteAllowsOwningSeller(t *testing.T) {
	svc := newStubRequestService()
	svc.requests["req-1"] = &models.InventoryRequest{ID: "req-1", SellerID: "seller-1", Status: models.RequestStatusApproved}
	engine := newRequestEngine("seller-1", models.RoleSeller, svc)

	if code := postStatus(t, engine, "/api/v1/inventory-requests/req-1/process"); code != http.StatusOK {
		t.Fatalf("process status = %d, want 200 for owner", code)
	}
	if len(svc.processed) != 1 {
		t.Errorf("processed = %v, want [req-1]", svc.processed)
	}
}

func TestProcessRouteForbidsForeignSeller(t *testing.T) {
	svc := newStubRequestService()
	svc.requests["req-1"] = &models.InventoryRequest{ID: "req-1", SellerID: "seller-1", Status: models.RequestStatusApproved}
	engine := newRequestEngine("seller-2", models.RoleSeller, svc)

	if code := postStatus(t, engine, "/api/v1/inventory-requests/req-1/process"); code != http.StatusForbidden {
		t.Fatalf("process status = %d, want 403 for foreign seller", code)
	}
	if len(svc.processed) != 0 {
		t.Errorf("processed = %v, want none", svc.processed)
	}
}
