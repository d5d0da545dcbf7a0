// Package client is a Go client for the marketplace API. Besides the
// plain HTTP calls it carries the two stateful browsing behaviors the web
// UI relies on: debounced product search where only the latest request's
// result is applied, and an optimistic cart view that rolls back to the
// last server-confirmed snapshot when a mutation fails.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"agrimart/catalog"
	"agrimart/models"
)

type API struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *API {
	return &API{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (a *API) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Error != "" {
			return fmt.Errorf("%s %s: %s (%d)", method, path, payload.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// Products fetches one catalog page.
func (a *API) Products(ctx context.Context, page, limit int, search string) (catalog.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if search != "" {
		q.Set("search", search)
	}

	var out catalog.Page
	err := a.do(ctx, http.MethodGet, "/api/products?"+q.Encode(), nil, &out)
	return out, err
}

func (a *API) Cart(ctx context.Context) ([]models.CartItem, error) {
	var out []models.CartItem
	err := a.do(ctx, http.MethodGet, "/api/cart", nil, &out)
	return out, err
}

func (a *API) AddToCart(ctx context.Context, productID string, quantity int) ([]models.CartItem, error) {
	var out []models.CartItem
	err := a.do(ctx, http.MethodPost, "/api/cart",
		models.CartMutation{ProductID: productID, Quantity: &quantity}, &out)
	return out, err
}

func (a *API) SetQuantity(ctx context.Context, productID string, quantity int) ([]models.CartItem, error) {
	var out []models.CartItem
	err := a.do(ctx, http.MethodPatch, "/api/cart",
		models.CartMutation{ProductID: productID, Quantity: &quantity}, &out)
	return out, err
}

func (a *API) RemoveFromCart(ctx context.Context, productID string) ([]models.CartItem, error) {
	var out []models.CartItem
	err := a.do(ctx, http.MethodDelete, "/api/cart",
		models.CartMutation{ProductID: productID}, &out)
	return out, err
}
