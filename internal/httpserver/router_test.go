package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"grocermart/internal/domain"
	orderrepo "grocermart/internal/repository/order"
	productrepo "grocermart/internal/repository/product"
	sessionrepo "grocermart/internal/repository/session"
	userrepo "grocermart/internal/repository/user"
	cartsvc "grocermart/internal/service/cart"
	catalogsvc "grocermart/internal/service/catalog"
	ordersvc "grocermart/internal/service/order"
	usersvc "grocermart/internal/service/user"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// memSessionStore backs the full session surface in memory: the HTTP layer's
// SessionStore plus the session slices the cart and order services need.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionrepo.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*sessionrepo.Session)}
}

func (m *memSessionStore) Create(_ context.Context, s sessionrepo.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.Token]; ok {
		return domain.ErrAlreadyExists
	}
	copied := s
	m.sessions[s.Token] = &copied
	return nil
}

func (m *memSessionStore) Get(_ context.Context, token string) (*sessionrepo.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memSessionStore) BindUser(_ context.Context, token, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return domain.ErrNotFound
	}
	s.UserID = &userID
	return nil
}

func (m *memSessionStore) UnbindUser(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return domain.ErrNotFound
	}
	s.UserID = nil
	return nil
}

func (m *memSessionStore) SaveCart(_ context.Context, token string, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return domain.ErrNotFound
	}
	s.Cart = cart
	return nil
}

func (m *memSessionStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[token]; !ok {
		return domain.ErrNotFound
	}
	delete(m.sessions, token)
	return nil
}

// memProductRepo serves the catalog and cart lookups from a fixed slice.
type memProductRepo struct {
	products []domain.Product
}

func (m *memProductRepo) Search(_ context.Context, f productrepo.SearchFilter) ([]domain.Product, int, error) {
	matched := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		if f.Status == "active" && p.IsDeleted {
			continue
		}
		if f.Status == "inactive" && !p.IsDeleted {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, p)
	}
	return matched, len(matched), nil
}

func (m *memProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			copied := p
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memProductRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	p.ID = "p-new"
	p.CreatedAt = time.Now()
	m.products = append(m.products, p)
	return &p, nil
}

func (m *memProductRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	for i := range m.products {
		if m.products[i].ID == p.ID {
			p.CreatedAt = m.products[i].CreatedAt
			m.products[i] = p
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memProductRepo) Delete(_ context.Context, id string) error {
	for i := range m.products {
		if m.products[i].ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memProductRepo) DistinctCategories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var names []string
	for _, p := range m.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			names = append(names, p.Category)
		}
	}
	return names, nil
}

// memOrderRepo keys orders by order_id.
type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]*domain.Order)}
}

func (m *memOrderRepo) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.OrderID]; ok {
		return nil, domain.ErrAlreadyExists
	}
	copied := o
	m.orders[o.OrderID] = &copied
	return &copied, nil
}

func (m *memOrderRepo) GetByOrderID(_ context.Context, orderID, userEmail string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || (userEmail != "" && o.UserEmail != userEmail) {
		return nil, domain.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *memOrderRepo) ListByEmail(_ context.Context, email string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.UserEmail == email {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrderRepo) List(_ context.Context, _ orderrepo.ListFilter) ([]domain.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *memOrderRepo) UpdateStatus(_ context.Context, orderID, status string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.OrderStatus = status
	copied := *o
	return &copied, nil
}

// memUserRepo holds a fixed account set.
type memUserRepo struct {
	users []*domain.User
}

func (m *memUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	u.ID = "u-" + u.Email
	u.CreatedAt = time.Now()
	copied := u
	m.users = append(m.users, &copied)
	return &copied, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) List(_ context.Context, _ userrepo.ListFilter) ([]domain.User, int, error) {
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *memUserRepo) UpdateProfile(_ context.Context, id, fullName, phoneNumber string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			u.FullName = fullName
			u.PhoneNumber = phoneNumber
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	for _, u := range m.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memUserRepo) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			u.Active = active
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

// testEnv bundles a fully wired router over the in-memory stores.
type testEnv struct {
	router   *gin.Engine
	sessions *memSessionStore
	products *memProductRepo
	orders   *memOrderRepo
	users    *memUserRepo
	hub      *Hub
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hashed)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := newMemSessionStore()
	products := &memProductRepo{products: []domain.Product{
		{ID: "p-apple", Title: "Apple", PriceCents: 300, Category: "fruits", ImagePath: "images/fruits/apple.png"},
		{ID: "p-bread", Title: "Sourdough Bread", PriceCents: 500, Category: "bakery", ImagePath: "images/bakery/sourdough.png"},
		{ID: "p-old", Title: "Discontinued Jam", PriceCents: 700, Category: "pantry", IsDeleted: true},
	}}
	orders := newMemOrderRepo()
	users := &memUserRepo{users: []*domain.User{
		{ID: "u-shopper", FullName: "Pat Shopper", Email: "shopper@example.com", PasswordHash: mustHash(t, "hunter2"), Active: true},
		{ID: "u-admin", FullName: "Sam Admin", Email: "admin@example.com", PasswordHash: mustHash(t, "secret4"), IsAdmin: true, Active: true},
	}}
	hub := NewHub(logDiscard())

	router, err := buildRouter(logDiscard(), nil, Deps{
		Sessions: sessions,
		Cart:     cartsvc.New(sessions, products),
		Orders:   ordersvc.New(orders, sessions, hub, logDiscard()),
		Catalog:  catalogsvc.New(products),
		Users:    usersvc.New(users),
		Feed:     hub,
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}

	return &testEnv{
		router:   router,
		sessions: sessions,
		products: products,
		orders:   orders,
		users:    users,
		hub:      hub,
	}
}

// seedSession installs a session row directly and returns its cookie value.
func (e *testEnv) seedSession(t *testing.T, userID string) string {
	t.Helper()
	token, err := randomToken()
	if err != nil {
		t.Fatalf("random token: %v", err)
	}
	s := sessionrepo.Session{
		Token:     token,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if userID != "" {
		s.UserID = &userID
	}
	if err := e.sessions.Create(context.Background(), s); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookieValue(rec *httptest.ResponseRecorder) string {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c.Value
		}
	}
	return ""
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyzWithoutDB(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/readyz", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestOrdersRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/orders", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAdminForbiddenForRegularUser(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedSession(t, "u-shopper")
	rec := env.do(t, http.MethodGet, "/api/admin/orders", "", token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAdminForbiddenWithoutSession(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/admin/users", "", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestBuildRouterRejectsMissingDeps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	if _, err := buildRouter(logDiscard(), nil, Deps{}); err == nil {
		t.Fatalf("expected error for missing dependencies")
	}
}

func preflight(t *testing.T, router *gin.Engine, origin string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCORSEchoesAllowedOrigin(t *testing.T) {
	env := newTestEnv(t)

	rec := preflight(t, env.router, "http://localhost:3000")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected origin echoed, got %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("expected credentials allowed")
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	env := newTestEnv(t)

	rec := preflight(t, env.router, "https://evil.example")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin header, got %q", got)
	}
}

func TestCORSUsesConfiguredOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	base := newTestEnv(t)

	router, err := buildRouter(logDiscard(), nil, Deps{
		Sessions:    base.sessions,
		Cart:        cartsvc.New(base.sessions, base.products),
		Orders:      ordersvc.New(base.orders, base.sessions, base.hub, logDiscard()),
		Catalog:     catalogsvc.New(base.products),
		Users:       usersvc.New(base.users),
		CORSOrigins: []string{"https://shop.example.com"},
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}

	rec := preflight(t, router, "https://shop.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("expected configured origin echoed, got %q", got)
	}
	if rec := preflight(t, router, "http://localhost:3000"); rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("expected default origin rejected once configured")
	}
}
