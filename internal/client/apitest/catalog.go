package apitest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophshop/internal/client/models"
)

// isAdminRequest reports whether r carries a valid admin token. Public
// endpoints use it to decide on admin-only filters.
func (s *Server) isAdminRequest(r *http.Request) bool {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found {
		return false
	}
	email, err := emailFromToken(token, s.secret)
	if err != nil {
		return false
	}
	a := s.accountByEmail(email)
	return a != nil && bool(a.user.IsAdmin)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		categoryID         int64
		minPrice, maxPrice float64
		hasMin, hasMax     bool
	)
	if v := q.Get("category_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "category_id must be an integer")
			return
		}
		categoryID = n
	}
	if v := q.Get("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			writeDetail(w, http.StatusBadRequest, "min_price must be a non-negative number")
			return
		}
		minPrice, hasMin = f, true
	}
	if v := q.Get("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			writeDetail(w, http.StatusBadRequest, "max_price must be a non-negative number")
			return
		}
		maxPrice, hasMax = f, true
	}
	search := strings.ToLower(q.Get("search"))
	inStock := q.Get("in_stock") == "true"

	s.mu.Lock()
	includeInactive := q.Get("include_inactive") == "true" && s.isAdminRequest(r)

	var items []models.Product
	for _, p := range s.products {
		price, _ := strconv.ParseFloat(string(p.Price), 64)
		switch {
		case !includeInactive && !bool(p.IsActive):
		case categoryID != 0 && (p.CategoryID == nil || *p.CategoryID != categoryID):
		case search != "" && !strings.Contains(strings.ToLower(p.Name), search):
		case hasMin && price < minPrice:
		case hasMax && price > maxPrice:
		case inStock && p.Stock <= 0:
		default:
			items = append(items, s.withCategory(p))
		}
	}
	s.mu.Unlock()

	writePage(w, r, items)
}

func (s *Server) withCategory(p models.Product) models.Product {
	if p.CategoryID == nil {
		return p
	}
	for _, c := range s.categories {
		if c.ID == *p.CategoryID {
			cat := c
			p.Category = &cat
			break
		}
	}
	return p
}

func (s *Server) productIndex(productID int64) int {
	for i, p := range s.products {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(productID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, s.withCategory(s.products[i]))
}

func applyProductInput(p *models.Product, in models.ProductInput) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.CategoryID != nil {
		id := *in.CategoryID
		p.CategoryID = &id
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.ProductInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Name == nil || *in.Name == "" || in.Price == nil {
		writeDetail(w, http.StatusBadRequest, "name and price are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := models.Product{ID: s.id(), IsActive: true, CreatedAt: now()}
	applyProductInput(&p, in)
	s.products = append(s.products, p)
	writeJSON(w, http.StatusCreated, s.withCategory(p))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.ProductInput
	if !decodeBody(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(productID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	applyProductInput(&s.products[i], in)
	s.products[i].UpdatedAt = now()
	writeJSON(w, http.StatusOK, s.withCategory(s.products[i]))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(productID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	used := 0
	for _, o := range s.orders {
		for _, it := range o.Items {
			if it.ProductID == productID {
				used++
			}
		}
	}
	if used > 0 {
		writeDetail(w, http.StatusConflict,
			"Cannot delete product: it is used in "+strconv.Itoa(used)+" order(s). Deactivate it instead.")
		return
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	writeMessage(w, "Product deleted successfully")
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := append([]models.Category(nil), s.categories...)
	s.mu.Unlock()

	writePage(w, r, items)
}

func (s *Server) categoryIndex(categoryID int64) int {
	for i, c := range s.categories {
		if c.ID == categoryID {
			return i
		}
	}
	return -1
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Name == nil || *in.Name == "" {
		writeDetail(w, http.StatusBadRequest, "name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if strings.EqualFold(c.Name, *in.Name) {
			writeDetail(w, http.StatusBadRequest, "Category already exists")
			return
		}
	}
	c := models.Category{ID: s.id(), Name: *in.Name, CreatedAt: now()}
	if in.Description != nil {
		c.Description = *in.Description
	}
	s.categories = append(s.categories, c)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.CategoryInput
	if !decodeBody(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.categoryIndex(categoryID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Category not found")
		return
	}
	if in.Name != nil {
		s.categories[i].Name = *in.Name
	}
	if in.Description != nil {
		s.categories[i].Description = *in.Description
	}
	writeJSON(w, http.StatusOK, s.categories[i])
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.categoryIndex(categoryID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Category not found")
		return
	}
	s.categories = append(s.categories[:i], s.categories[i+1:]...)
	writeMessage(w, "Category deleted successfully")
}
