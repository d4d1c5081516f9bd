// Package apitest runs an in-process fake of the storefront backend for
// tests. It speaks the same JSON shapes, pagination envelope, error
// envelope and bearer-token scheme as the real server.
package apitest

import (
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/gophshop/internal/client/models"
)

const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "admin123"
	UserEmail     = "user@example.com"
	UserPassword  = "user123"
)

type account struct {
	user     models.User
	password string
}

type Server struct {
	*httptest.Server

	ttl time.Duration

	mu         sync.Mutex
	secret     []byte
	nextID     int64
	accounts   []*account
	categories []models.Category
	products   []models.Product
	carts      map[int64][]models.CartItem
	orders     []models.Order
	reviews    []models.Review
	hits       map[string]int
	intercept  func(*http.Request)
}

// New starts a server seeded with an admin and a regular account. Close it
// when done.
func New() *Server {
	s := &Server{
		ttl:    time.Hour,
		secret: newSecret(),
		carts:  make(map[int64][]models.CartItem),
		hits:   make(map[string]int),
	}
	s.addAccount(models.RegisterRequest{Name: "Admin", Email: AdminEmail, Password: AdminPassword}, true)
	s.addAccount(models.RegisterRequest{Name: "User", Email: UserEmail, Password: UserPassword}, false)

	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Get("/products/", s.handleListProducts)
	r.Get("/products/{id}", s.handleGetProduct)
	r.Get("/categories/", s.handleListCategories)
	r.Get("/reviews/product/{id}", s.handleProductReviews)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/auth/me", s.handleMe)
		r.Get("/users/me", s.handleMe)
		r.Put("/users/me", s.handleUpdateProfile)
		r.Post("/users/me/change-password", s.handleChangePassword)

		r.Get("/cart", s.handleGetCart)
		r.Delete("/cart", s.handleClearCart)
		r.Post("/cart/items", s.handleAddToCart)
		r.Put("/cart/items/{id}", s.handleUpdateCartItem)
		r.Delete("/cart/items/{id}", s.handleRemoveCartItem)

		r.Get("/orders", s.handleListOrders)
		r.Post("/orders", s.handleCreateOrder)
		r.Get("/orders/{id}", s.handleGetOrder)
		r.Put("/orders/{id}", s.handleUpdateOrder)

		r.Get("/reviews/my", s.handleMyReviews)
		r.Post("/reviews", s.handleCreateReview)
		r.Put("/reviews/{id}", s.handleUpdateReview)
		r.Delete("/reviews/{id}", s.handleDeleteReview)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Post("/products/", s.handleCreateProduct)
			r.Put("/products/{id}", s.handleUpdateProduct)
			r.Delete("/products/{id}", s.handleDeleteProduct)
			r.Post("/categories/", s.handleCreateCategory)
			r.Put("/categories/{id}", s.handleUpdateCategory)
			r.Delete("/categories/{id}", s.handleDeleteCategory)
			r.Get("/users", s.handleListUsers)
			r.Put("/users/{id}", s.handleUpdateUser)
		})
	})
	return r
}

// Token mints a valid access token for email without a login round trip.
func (s *Server) Token(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := generateToken(email, s.secret, s.ttl)
	if err != nil {
		panic(err)
	}
	return tok
}

// RotateSecret invalidates every token issued so far.
func (s *Server) RotateSecret() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = newSecret()
}

// Hits reports how many requests reached method and path, e.g.
// Hits("GET", "/products/").
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

// Intercept installs fn to run before every request is handled. Tests use
// it to hold requests back or to observe headers.
func (s *Server) Intercept(fn func(*http.Request)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intercept = fn
}

func (s *Server) AddCategory(name, description string) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Category{ID: s.id(), Name: name, Description: description, CreatedAt: now()}
	s.categories = append(s.categories, c)
	return c
}

// AddProduct stores p under a fresh id. Only products with IsActive set are
// listed to non-admin callers.
func (s *Server) AddProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	if p.Price == "" {
		p.Price = "0.00"
	}
	p.CreatedAt = now()
	s.products = append(s.products, p)
	return p
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.Method+" "+r.URL.Path]++
		fn := s.intercept
		s.mu.Unlock()

		if fn != nil {
			fn(r)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Server) addAccount(req models.RegisterRequest, admin bool) *account {
	a := &account{
		user: models.User{
			Identity: models.Identity{
				ID:      s.id(),
				Name:    req.Name,
				Email:   req.Email,
				Phone:   req.Phone,
				Address: req.Address,
				IsAdmin: models.Flag(admin),
			},
			IsActive: true,
		},
		password: req.Password,
	}
	s.accounts = append(s.accounts, a)
	return a
}

func (s *Server) accountByEmail(email string) *account {
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Email, email) {
			return a
		}
	}
	return nil
}

func newSecret() []byte {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return b
}

func now() *time.Time {
	t := time.Now().UTC().Truncate(time.Second)
	return &t
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": err.Error(), "type": "json_invalid"}},
		})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	n, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not Found")
		return 0, false
	}
	return n, true
}
