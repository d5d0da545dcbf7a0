package orders

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"agrimart/globals"
	"agrimart/models"
	"agrimart/utils"

	"github.com/julienschmidt/httprouter"
)

// NameSource resolves the buyer's display name for the receipt. The user
// store satisfies it.
type NameSource interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

type Handler struct {
	svc   *Service
	users NameSource
}

func NewHandler(svc *Service, users NameSource) *Handler {
	return &Handler{svc: svc, users: users}
}

// PlaceOrder handles POST /api/orders — snapshot the cart, clear it.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.svc.Place(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		log.Println("PlaceOrder error:", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GetOrders handles GET /api/orders
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := h.svc.ListMine(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		log.Println("GetOrders error:", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// PrintReceipt handles GET /api/orders/:id/receipt — PDF download.
func (h *Handler) PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	order, err := h.svc.GetMine(ctx, userID, ps.ByName("id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	buyerName := userID
	if u, err := h.users.FindByID(ctx, userID); err == nil {
		buyerName = u.Name
	}

	pdfBytes, err := BuildReceiptPDF(order, buyerName, globals.JwtSecret)
	if err != nil {
		log.Println("PrintReceipt error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", order.OrderID))
	w.Write(pdfBytes)
}
