package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"agrimart/apperr"
	"agrimart/models"
	"agrimart/rdx"
	"agrimart/session"
	"agrimart/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	users  UserStore
	tokens *session.JWTResolver
	cache  *rdx.Cache
}

func NewHandler(users UserStore, tokens *session.JWTResolver, cache *rdx.Cache) *Handler {
	return &Handler{users: users, tokens: tokens, cache: cache}
}

// publicUser strips the credential before a user goes over the wire.
func publicUser(u models.User) models.User {
	u.Password = ""
	return u
}

// Signup handles POST /api/auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	if !models.ValidRole(input.Role) {
		utils.RespondWithError(w, http.StatusBadRequest, "Role must be FARMER or BUYER")
		return
	}

	// Checked here for a friendly message; the unique email index is the
	// actual guarantee under races.
	if _, err := h.users.FindByEmail(ctx, input.Email); err == nil {
		utils.RespondWithError(w, http.StatusConflict, "User already exists")
		return
	} else if !apperr.Is(err, apperr.NotFound) {
		log.Println("Signup lookup error:", err)
		utils.RespondWithAppError(w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("Signup hash error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	user := models.User{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Password:  string(hashed),
		Role:      input.Role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.users.Insert(ctx, user); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"message": "User created",
		"user":    publicUser(user),
	})
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Println("Login lookup error:", err)
		utils.RespondWithAppError(w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Println("Login token error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	h.cache.StoreSessionToken(ctx, user.ID, token)
	session.SetCookie(w, token)

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  publicUser(user),
	})
}

// Me handles GET /api/auth/me. An unresolvable credential is the
// anonymous state, not an error.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := h.tokens.Resolve(session.CredentialFromRequest(r))
	if id == nil {
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}

	user, err := h.users.FindByID(ctx, id.ID)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			utils.RespondWithJSON(w, http.StatusOK, map[string]any{"user": nil})
			return
		}
		log.Println("Me lookup error:", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"user": publicUser(user)})
}

// UpdateProfile handles PATCH /api/auth/me (requires Authenticate).
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var upd models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"user": publicUser(user)})
}

// Logout handles POST /api/auth/logout (requires Authenticate).
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if userID := utils.GetUserIDFromRequest(r); userID != "" {
		h.cache.DropSessionToken(ctx, userID)
	}
	session.ClearCookie(w)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
