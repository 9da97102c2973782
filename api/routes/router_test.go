package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockpulse/stockpulse-backend/internal/auth"
	"github.com/stockpulse/stockpulse-backend/internal/inventory"
	"github.com/stockpulse/stockpulse-backend/internal/orders"
	"github.com/stockpulse/stockpulse-backend/internal/users"
	pkgAuth "github.com/stockpulse/stockpulse-backend/pkg/auth"
	"github.com/stockpulse/stockpulse-backend/pkg/config"
	"github.com/stockpulse/stockpulse-backend/pkg/db/models"
	"github.com/stockpulse/stockpulse-backend/pkg/logger"
	"github.com/stockpulse/stockpulse-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubUserLoader struct {
	users map[string]*models.User
}

func (s stubUserLoader) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := s.users[username]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "token", TokenType: "bearer", Username: req.Username}, nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New(), Username: req.Username, IsActive: true}, nil
}

type stubAdminRegisterService struct{}

func (stubAdminRegisterService) Register(ctx context.Context, req auth.AdminRegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New(), Username: req.Username, IsAdmin: true, IsActive: true}, nil
}

type stubChangePasswordService struct{}

func (stubChangePasswordService) ChangePassword(ctx context.Context, user *models.User, req auth.ChangePasswordRequest) error {
	return nil
}

type stubInventoryService struct{}

func (stubInventoryService) List(ctx context.Context, params pagination.Params) (*inventory.ListResult, error) {
	return &inventory.ListResult{Items: []inventory.ItemDTO{}, Page: params.Page, Size: params.Size}, nil
}

func (stubInventoryService) Get(ctx context.Context, id uuid.UUID) (*inventory.ItemDTO, error) {
	return &inventory.ItemDTO{ID: id}, nil
}

func (stubInventoryService) Create(ctx context.Context, req inventory.CreateItemRequest) (*inventory.ItemDTO, error) {
	return &inventory.ItemDTO{ID: uuid.New(), Name: req.Name, Category: req.Category}, nil
}

func (stubInventoryService) Update(ctx context.Context, id uuid.UUID, req inventory.UpdateItemRequest) (*inventory.ItemDTO, error) {
	return &inventory.ItemDTO{ID: id}, nil
}

func (stubInventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubInventoryService) Summary(ctx context.Context) (*inventory.SummaryDTO, error) {
	return &inventory.SummaryDTO{}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Create(ctx context.Context, user *models.User, req orders.CreateOrderRequest) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: uuid.New(), UserID: user.ID}, nil
}

func (stubOrdersService) List(ctx context.Context, user *models.User, params pagination.Params) (*orders.ListResult, error) {
	return &orders.ListResult{Orders: []orders.OrderDTO{}, Page: params.Page, Size: params.Size}, nil
}

func (stubOrdersService) Get(ctx context.Context, user *models.User, id uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: id, UserID: user.ID}, nil
}

func (stubOrdersService) UpdateStatus(ctx context.Context, id uuid.UUID, req orders.UpdateStatusRequest) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: id}, nil
}

func testConfig(env string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: env, Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "stockpulse",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, loader stubUserLoader) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(RouterParams{
		Config:                cfg,
		Logger:                logg,
		DBPinger:              stubPinger{},
		UserLoader:            loader,
		AuthService:           stubAuthService{},
		RegisterService:       stubRegisterService{},
		AdminRegisterService:  stubAdminRegisterService{},
		ChangePasswordService: stubChangePasswordService{},
		InventoryService:      stubInventoryService{},
		OrdersService:         stubOrdersService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, username string, admin bool) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		Username: username,
		IsAdmin:  admin,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func testUsers() stubUserLoader {
	return stubUserLoader{users: map[string]*models.User{
		"alice": {ID: uuid.New(), Username: "alice", IsActive: true},
		"root":  {ID: uuid.New(), Username: "root", IsActive: true, IsAdmin: true},
	}}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig("test"), testUsers())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestHealthReady(t *testing.T) {
	router := newTestRouter(testConfig("test"), testUsers())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestOrdersRejectMissingToken(t *testing.T) {
	router := newTestRouter(testConfig("test"), testUsers())
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestInventoryListIsPublic(t *testing.T) {
	router := newTestRouter(testConfig("test"), testUsers())

	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data inventory.ListResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Page != 0 || envelope.Data.Size != pagination.DefaultSize {
		t.Fatalf("expected default paging, got %+v", envelope.Data)
	}
}

func TestInventorySummaryIsPublic(t *testing.T) {
	router := newTestRouter(testConfig("test"), testUsers())
	req := httptest.NewRequest(http.MethodGet, "/api/inventory/summary", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestInventoryCreateRequiresAdmin(t *testing.T) {
	cfg := testConfig("test")
	router := newTestRouter(cfg, testUsers())
	body := `{"name":"Widget","category":"parts","quantity":1,"price":"2.00"}`

	noToken := httptest.NewRequest(http.MethodPost, "/api/inventory", jsonBody(body))
	noToken.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, noToken)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	nonAdmin := httptest.NewRequest(http.MethodPost, "/api/inventory", jsonBody(body))
	nonAdmin.Header.Set("Content-Type", "application/json")
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "alice", false))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	asAdmin := httptest.NewRequest(http.MethodPost, "/api/inventory", jsonBody(body))
	asAdmin.Header.Set("Content-Type", "application/json")
	asAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "root", true))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asAdmin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin got %d", resp.Code)
	}
}

func TestOrderStatusRequiresAdmin(t *testing.T) {
	cfg := testConfig("test")
	router := newTestRouter(cfg, testUsers())
	orderID := uuid.New()

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "alice", false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}
}

func TestOrderStatusAllowsAdmin(t *testing.T) {
	cfg := testConfig("test")
	router := newTestRouter(cfg, testUsers())
	orderID := uuid.New()

	body := `{"status":"delivered"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String(), jsonBody(body))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "root", true))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAdminClaimInTokenIsIgnored(t *testing.T) {
	cfg := testConfig("test")
	router := newTestRouter(cfg, testUsers())
	orderID := uuid.New()

	// Alice's token claims admin, but her database row does not.
	req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "alice", true))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when db row is not admin, got %d", resp.Code)
	}
}

func TestCreateAdminHiddenInProd(t *testing.T) {
	router := newTestRouter(testConfig("production"), testUsers())
	req := httptest.NewRequest(http.MethodPost, "/api/auth/create-admin", jsonBody(`{"username":"root","password":"Secret#1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code == http.StatusCreated {
		t.Fatalf("expected create-admin to be unmounted in production, got %d", resp.Code)
	}
}

func TestLoginRouteMounted(t *testing.T) {
	router := newTestRouter(testConfig("test"), testUsers())
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody("username=alice&password=pw"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func jsonBody(payload string) io.Reader {
	return bytes.NewReader([]byte(payload))
}
