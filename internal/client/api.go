package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cataloro/cataloro-probe/internal/models"
)

// Auth

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if _, err := c.Do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login authenticates and returns the session. Use WithToken(resp.Token) for authenticated calls.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if _, err := c.Do(ctx, http.MethodPost, "/auth/login", models.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("login for %s returned no token", email)
	}
	return &out, nil
}

// Marketplace

func (c *Client) Browse(ctx context.Context, q models.BrowseQuery) (*models.BrowseResult, error) {
	var out models.BrowseResult
	if _, err := c.Do(ctx, http.MethodGet, "/marketplace/browse"+browseParams(q), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func browseParams(q models.BrowseQuery) string {
	v := url.Values{}
	if q.Query != "" {
		v.Set("q", q.Query)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Condition != "" {
		v.Set("condition", q.Condition)
	}
	if q.SellerType != "" {
		v.Set("seller_type", q.SellerType)
	}
	if q.PriceFrom > 0 {
		v.Set("price_from", strconv.FormatFloat(q.PriceFrom, 'f', -1, 64))
	}
	if q.PriceTo > 0 {
		v.Set("price_to", strconv.FormatFloat(q.PriceTo, 'f', -1, 64))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// Listings

func (c *Client) CreateListing(ctx context.Context, l models.Listing) (*models.Listing, error) {
	var out models.Listing
	if _, err := c.Do(ctx, http.MethodPost, "/listings", l, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	var out models.Listing
	if _, err := c.Do(ctx, http.MethodGet, "/listings/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteListing(ctx context.Context, id string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/listings/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) PlaceTender(ctx context.Context, listingID, buyerID string, amount float64) (*models.Tender, error) {
	body := models.Tender{ListingID: listingID, BuyerID: buyerID, OfferAmount: amount}
	var out models.Tender
	if _, err := c.Do(ctx, http.MethodPost, "/listings/"+url.PathEscape(listingID)+"/tenders", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTenders(ctx context.Context, listingID string) ([]models.Tender, error) {
	var out []models.Tender
	if _, err := c.Do(ctx, http.MethodGet, "/listings/"+url.PathEscape(listingID)+"/tenders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reviews

func (c *Client) CreateReview(ctx context.Context, r models.Review) (*models.Review, error) {
	var out models.Review
	if _, err := c.Do(ctx, http.MethodPost, "/reviews/create", r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserReviews(ctx context.Context, userID string) (*models.UserReviews, error) {
	var out models.UserReviews
	if _, err := c.Do(ctx, http.MethodGet, userPath(userID, "/reviews"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Baskets

func (c *Client) Baskets(ctx context.Context, userID string) ([]models.Basket, error) {
	var out []models.Basket
	if _, err := c.Do(ctx, http.MethodGet, userPath(userID, "/baskets"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBasket(ctx context.Context, b models.Basket) (*models.Basket, error) {
	var out models.Basket
	if _, err := c.Do(ctx, http.MethodPost, userPath(b.UserID, "/baskets"), b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBasket(ctx context.Context, b models.Basket) (*models.Basket, error) {
	var out models.Basket
	if _, err := c.Do(ctx, http.MethodPut, "/baskets/"+url.PathEscape(b.ID), b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBasket(ctx context.Context, id string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/baskets/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) AddBasketItem(ctx context.Context, basketID string, item models.BasketItem) (*models.Basket, error) {
	var out models.Basket
	if _, err := c.Do(ctx, http.MethodPost, "/baskets/"+url.PathEscape(basketID)+"/items", item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Notifications

func (c *Client) Notifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	if _, err := c.Do(ctx, http.MethodGet, userPath(userID, "/notifications"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateNotification(ctx context.Context, n models.Notification) (*models.Notification, error) {
	var out models.Notification
	if _, err := c.Do(ctx, http.MethodPost, userPath(n.UserID, "/notifications"), n, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	_, err := c.Do(ctx, http.MethodPut, userPath(userID, "/notifications/"+url.PathEscape(notificationID)+"/read"), nil, nil)
	return err
}

// Admin

func (c *Client) AdminUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if _, err := c.Do(ctx, http.MethodGet, "/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateUserStatus(ctx context.Context, userID string, update models.UserStatusUpdate) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if _, err := c.Do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(userID)+"/status", update, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ExportPDF returns the raw answer so the caller can inspect headers and magic bytes.
func (c *Client) ExportPDF(ctx context.Context, req models.ExportRequest) (*Response, error) {
	return c.Do(ctx, http.MethodPost, "/admin/export-pdf", req, nil)
}

func (c *Client) Ads(ctx context.Context) (*models.AdsConfig, error) {
	var out models.AdsConfig
	if _, err := c.Do(ctx, http.MethodGet, "/admin/ads", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAds(ctx context.Context, cfg models.AdsConfig) (*models.AdsConfig, error) {
	var out models.AdsConfig
	if _, err := c.Do(ctx, http.MethodPut, "/admin/ads", cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Catalyst

func (c *Client) PriceSettings(ctx context.Context) (*models.PriceSettings, error) {
	var out models.PriceSettings
	if _, err := c.Do(ctx, http.MethodGet, "/admin/catalyst/price-settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePriceSettings(ctx context.Context, s models.PriceSettings) (*models.PriceSettings, error) {
	var out models.PriceSettings
	if _, err := c.Do(ctx, http.MethodPut, "/admin/catalyst/price-settings", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CatalystData(ctx context.Context) ([]models.Catalyst, error) {
	var out []models.Catalyst
	if _, err := c.Do(ctx, http.MethodGet, "/admin/catalyst/data", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CatalystCalculations(ctx context.Context) ([]models.CatalystCalculation, error) {
	var out []models.CatalystCalculation
	if _, err := c.Do(ctx, http.MethodGet, "/admin/catalyst/calculations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func userPath(userID, suffix string) string {
	return "/user/" + url.PathEscape(userID) + suffix
}
