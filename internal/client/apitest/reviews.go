package apitest

import (
	"net/http"

	"github.com/dmitrijs2005/gophshop/internal/client/models"
)

func (s *Server) handleProductReviews(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	if s.productIndex(productID) < 0 {
		s.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	var items []models.Review
	for _, rv := range s.reviews {
		if rv.ProductID == productID {
			items = append(items, rv)
		}
	}
	s.mu.Unlock()

	writePage(w, r, items)
}

func (s *Server) handleMyReviews(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	userID := currentAccount(r).user.ID
	var items []models.Review
	for _, rv := range s.reviews {
		if rv.UserID == userID {
			items = append(items, rv)
		}
	}
	s.mu.Unlock()

	writePage(w, r, items)
}

func validRating(n int) bool { return n >= 1 && n <= 5 }

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var in models.ReviewInput
	if !decodeBody(w, r, &in) {
		return
	}
	if !validRating(in.Rating) {
		writeDetail(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.productIndex(in.ProductID) < 0 {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	userID := currentAccount(r).user.ID
	for _, rv := range s.reviews {
		if rv.UserID == userID && rv.ProductID == in.ProductID {
			writeDetail(w, http.StatusBadRequest, "You have already reviewed this product")
			return
		}
	}

	rv := models.Review{ID: s.id(), UserID: userID, ProductID: in.ProductID, Rating: in.Rating, CreatedAt: now()}
	if in.Comment != nil {
		rv.Comment = *in.Comment
	}
	s.reviews = append(s.reviews, rv)
	writeJSON(w, http.StatusCreated, rv)
}

func (s *Server) ownReview(r *http.Request, reviewID int64) int {
	userID := currentAccount(r).user.ID
	for i, rv := range s.reviews {
		if rv.ID == reviewID && rv.UserID == userID {
			return i
		}
	}
	return -1
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.ReviewInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Rating != 0 && !validRating(in.Rating) {
		writeDetail(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.ownReview(r, reviewID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Review not found")
		return
	}
	if in.Rating != 0 {
		s.reviews[i].Rating = in.Rating
	}
	if in.Comment != nil {
		s.reviews[i].Comment = *in.Comment
	}
	writeJSON(w, http.StatusOK, s.reviews[i])
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.ownReview(r, reviewID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Review not found")
		return
	}
	s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
	writeMessage(w, "Review deleted successfully")
}
