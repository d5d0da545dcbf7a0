package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"agrimart/apperr"
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

// GetProducts handles GET /api/products?page=&limit=&search=
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)
	page, err := h.svc.List(ctx, opts.Page, opts.Limit, opts.Search)
	if err != nil {
		log.Println("GetProducts error:", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, page)
}

// GetProduct handles GET /api/products/:id
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, err := h.svc.Get(ctx, ps.ByName("id"))
	if err != nil {
		if !apperr.Is(err, apperr.NotFound) {
			log.Println("GetProduct error:", err)
		}
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, p)
}

// GetFarmerProducts handles GET /api/farmer/products?farmerId=
func (h *Handler) GetFarmerProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items, err := h.svc.ListByFarmer(ctx, r.URL.Query().Get("farmerId"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// CreateProduct handles POST /api/farmer/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		log.Println("CreateProduct decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	created, err := h.svc.Create(ctx, utils.GetUserIDFromRequest(r), p)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// UpdateProduct handles PUT /api/farmer/products/:id
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var upd models.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		log.Println("UpdateProduct decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	p, err := h.svc.Update(ctx, utils.GetUserIDFromRequest(r), ps.ByName("id"), upd)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /api/farmer/products/:id
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, utils.GetUserIDFromRequest(r), ps.ByName("id")); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
