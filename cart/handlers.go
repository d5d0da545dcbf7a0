package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"agrimart/models"
	"agrimart/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// actingUser returns the authenticated user id, rejecting payloads that
// name somebody else's cart.
func actingUser(w http.ResponseWriter, r *http.Request, bodyUserID string) (string, bool) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}
	if bodyUserID != "" && bodyUserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return "", false
	}
	return userID, true
}

// GetCart handles GET /api/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := actingUser(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	items, err := h.svc.GetCart(ctx, userID)
	if err != nil {
		log.Println("GetCart error:", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// AddToCart handles POST /api/cart — merge-add quantity.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var m models.CartMutation
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		log.Println("AddToCart decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	// Only an absent quantity defaults to 1; an explicit zero is rejected
	// by the service like any other non-positive value.
	qty := 1
	if m.Quantity != nil {
		qty = *m.Quantity
	}

	userID, ok := actingUser(w, r, m.UserID)
	if !ok {
		return
	}

	items, err := h.svc.Add(ctx, userID, m.ProductID, qty)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// UpdateCart handles PATCH /api/cart — set exact quantity, delete at zero.
func (h *Handler) UpdateCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var m models.CartMutation
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		log.Println("UpdateCart decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	// A missing quantity is malformed input, not a delete request.
	if m.Quantity == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	userID, ok := actingUser(w, r, m.UserID)
	if !ok {
		return
	}

	items, err := h.svc.SetQuantity(ctx, userID, m.ProductID, *m.Quantity)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// RemoveFromCart handles DELETE /api/cart. The product id may arrive as
// JSON body or query string.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var m models.CartMutation
	_ = json.NewDecoder(r.Body).Decode(&m) // body optional

	if m.ProductID == "" {
		m.ProductID = r.URL.Query().Get("productId")
	}
	if m.UserID == "" {
		m.UserID = r.URL.Query().Get("userId")
	}

	userID, ok := actingUser(w, r, m.UserID)
	if !ok {
		return
	}

	items, err := h.svc.Remove(ctx, userID, m.ProductID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}
