package apitest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophshop/internal/client/models"
)

func amount(m models.Money) float64 {
	f, _ := strconv.ParseFloat(string(m), 64)
	return f
}

func money(f float64) models.Money {
	return models.Money(strconv.FormatFloat(f, 'f', 2, 64))
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID := currentAccount(r).user.ID
	cart := models.Cart{Items: []models.CartItem{}}
	var total float64
	for _, it := range s.carts[userID] {
		if i := s.productIndex(it.ProductID); i >= 0 {
			it.Product = s.products[i]
		}
		total += amount(it.Product.Price) * float64(it.Quantity)
		cart.Items = append(cart.Items, it)
	}
	cart.Total = money(total)
	writeJSON(w, http.StatusOK, cart)
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Quantity < 1 {
		writeDetail(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pi := s.productIndex(in.ProductID)
	if pi < 0 || !bool(s.products[pi].IsActive) {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	product := s.products[pi]

	userID := currentAccount(r).user.ID
	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID != in.ProductID {
			continue
		}
		if items[i].Quantity+in.Quantity > product.Stock {
			writeDetail(w, http.StatusBadRequest, "Insufficient stock. Available: "+strconv.Itoa(product.Stock))
			return
		}
		items[i].Quantity += in.Quantity
		items[i].Product = product
		writeJSON(w, http.StatusCreated, items[i])
		return
	}

	if in.Quantity > product.Stock {
		writeDetail(w, http.StatusBadRequest, "Insufficient stock. Available: "+strconv.Itoa(product.Stock))
		return
	}
	item := models.CartItem{
		ID:        s.id(),
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Product:   product,
		CreatedAt: now(),
	}
	s.carts[userID] = append(items, item)
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in struct {
		Quantity int `json:"quantity"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Quantity < 1 {
		writeDetail(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[currentAccount(r).user.ID]
	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		if pi := s.productIndex(items[i].ProductID); pi >= 0 && in.Quantity > s.products[pi].Stock {
			writeDetail(w, http.StatusBadRequest, "Insufficient stock. Available: "+strconv.Itoa(s.products[pi].Stock))
			return
		}
		items[i].Quantity = in.Quantity
		writeJSON(w, http.StatusOK, items[i])
		return
	}
	writeDetail(w, http.StatusNotFound, "Cart item not found")
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID := currentAccount(r).user.ID
	items := s.carts[userID]
	for i := range items {
		if items[i].ID == itemID {
			s.carts[userID] = append(items[:i], items[i+1:]...)
			writeMessage(w, "Item removed from cart")
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Cart item not found")
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	delete(s.carts, currentAccount(r).user.ID)
	s.mu.Unlock()

	writeMessage(w, "Cart cleared")
}

// handleCreateOrder turns the cart into an order, takes the quantities
// out of stock and empties the cart.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var in models.OrderRequest
	if !decodeBody(w, r, &in) {
		return
	}
	if in.ShippingAddress == "" {
		writeDetail(w, http.StatusBadRequest, "Shipping address is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID := currentAccount(r).user.ID
	cart := s.carts[userID]
	if len(cart) == 0 {
		writeDetail(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	var total float64
	for _, it := range cart {
		pi := s.productIndex(it.ProductID)
		if pi < 0 || s.products[pi].Stock < it.Quantity {
			writeDetail(w, http.StatusBadRequest, "Insufficient stock for product: "+it.Product.Name)
			return
		}
		total += amount(s.products[pi].Price) * float64(it.Quantity)
	}

	order := models.Order{
		ID:              s.id(),
		UserID:          userID,
		TotalAmount:     money(total),
		Status:          models.OrderPending,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		Notes:           in.Notes,
		CreatedAt:       now(),
	}
	for _, it := range cart {
		pi := s.productIndex(it.ProductID)
		s.products[pi].Stock -= it.Quantity
		order.Items = append(order.Items, models.OrderItem{
			ID:        s.id(),
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     s.products[pi].Price,
			Product:   s.products[pi],
		})
	}
	s.orders = append(s.orders, order)
	delete(s.carts, userID)

	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	userID := currentAccount(r).user.ID
	var mine []models.Order
	for i := len(s.orders) - 1; i >= 0; i-- {
		if s.orders[i].UserID == userID {
			mine = append(mine, s.orders[i])
		}
	}
	s.mu.Unlock()

	writePage(w, r, mine)
}

func (s *Server) ownOrder(r *http.Request, orderID int64) *models.Order {
	userID := currentAccount(r).user.ID
	for i := range s.orders {
		if s.orders[i].ID == orderID && s.orders[i].UserID == userID {
			return &s.orders[i]
		}
	}
	return nil
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.ownOrder(r, orderID)
	if o == nil {
		writeDetail(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, *o)
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in struct {
		Status models.OrderStatus `json:"status"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	if !in.Status.Valid() {
		writeDetail(w, http.StatusBadRequest, "Invalid order status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.ownOrder(r, orderID)
	if o == nil {
		writeDetail(w, http.StatusNotFound, "Order not found")
		return
	}
	o.Status = in.Status
	writeJSON(w, http.StatusOK, *o)
}
