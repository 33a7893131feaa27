package mockserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cataloro/cataloro-probe/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	switch {
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		abort(c, http.StatusUnprocessableEntity, "A valid email is required")
		return
	case req.Username == "":
		abort(c, http.StatusUnprocessableEntity, "Username is required")
		return
	case len(req.Password) < minPassword:
		abort(c, http.StatusUnprocessableEntity, "Password must be at least 6 characters")
		return
	case req.IsBusiness && req.CompanyName == "":
		abort(c, http.StatusUnprocessableEntity, "Company name is required for business accounts")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		abort(c, http.StatusInternalServerError, "Could not hash password")
		return
	}

	role, badge := models.UserRoleBuyer, "Buyer"
	if req.IsBusiness {
		role, badge = models.UserRoleSeller, "Seller"
	}
	u, ok := s.state.addUser(models.User{
		Username:           req.Username,
		Email:              req.Email,
		FullName:           req.FullName,
		Role:               role,
		UserRole:           "User-" + badge,
		Badge:              badge,
		IsBusiness:         req.IsBusiness,
		CompanyName:        req.CompanyName,
		RegistrationStatus: "Approved",
		IsActive:           true,
	}, hash)
	if !ok {
		abort(c, http.StatusBadRequest, "Email already registered")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully", "user": u})
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	u, hash, ok := s.state.userByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if !ok || !checkPassword(hash, req.Password) {
		abort(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !u.IsActive {
		abort(c, http.StatusForbidden, "Account suspended")
		return
	}

	token, err := s.issueToken(u)
	if err != nil {
		abort(c, http.StatusInternalServerError, "Could not issue token")
		return
	}
	c.JSON(http.StatusOK, models.LoginResponse{Token: token, User: u})
}

func (s *Server) browse(c *gin.Context) {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", defaultPageSize)
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	priceFrom := queryFloat(c, "price_from", 0)
	priceTo := queryFloat(c, "price_to", 0)
	q := strings.ToLower(c.Query("q"))

	matched := []models.Listing{}
	for _, l := range s.state.activeListings() {
		if q != "" && !strings.Contains(strings.ToLower(l.Title), q) && !strings.Contains(strings.ToLower(l.Description), q) {
			continue
		}
		if v := c.Query("category"); v != "" && !strings.EqualFold(l.Category, v) {
			continue
		}
		if v := c.Query("condition"); v != "" && !strings.EqualFold(string(l.Condition), v) {
			continue
		}
		if v := c.Query("seller_type"); v != "" && v != "all" && l.SellerType != v {
			continue
		}
		if priceFrom > 0 && l.Price < priceFrom {
			continue
		}
		if priceTo > 0 && l.Price > priceTo {
			continue
		}
		matched = append(matched, l)
	}

	start := (page - 1) * limit
	end := start + limit
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	c.JSON(http.StatusOK, models.BrowseResult{
		Listings: matched[start:end],
		Total:    len(matched),
		Page:     page,
		Limit:    limit,
	})
}

func (s *Server) createListing(c *gin.Context) {
	var l models.Listing
	if err := c.ShouldBindJSON(&l); err != nil {
		abort(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if strings.TrimSpace(l.Title) == "" {
		abort(c, http.StatusUnprocessableEntity, "Title is required")
		return
	}
	if l.Price < 0 {
		abort(c, http.StatusUnprocessableEntity, "Price must not be negative")
		return
	}

	who := callerFrom(c)
	if l.SellerID == "" {
		l.SellerID = who.ID
	}
	if l.SellerID != who.ID && !who.isAdmin() {
		abort(c, http.StatusForbidden, "Cannot create listings for another seller")
		return
	}
	if l.Condition == "" {
		l.Condition = models.ConditionUsed
	}

	c.JSON(http.StatusOK, s.state.addListing(l))
}

func (s *Server) getListing(c *gin.Context) {
	l, ok := s.state.listing(c.Param("id"))
	if !ok {
		abort(c, http.StatusNotFound, "Listing not found")
		return
	}
	c.JSON(http.StatusOK, l)
}

func (s *Server) deleteListing(c *gin.Context) {
	id := c.Param("id")
	l, ok := s.state.listing(id)
	if !ok {
		abort(c, http.StatusNotFound, "Listing not found")
		return
	}
	who := callerFrom(c)
	if l.SellerID != who.ID && !who.isAdmin() {
		abort(c, http.StatusForbidden, "Not the owner of this listing")
		return
	}
	s.state.deleteListing(id)
	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted", "id": id})
}

func (s *Server) placeTender(c *gin.Context) {
	listingID := c.Param("id")
	l, ok := s.state.listing(listingID)
	if !ok {
		abort(c, http.StatusNotFound, "Listing not found")
		return
	}

	var t models.Tender
	if err := c.ShouldBindJSON(&t); err != nil {
		abort(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	t.ListingID = listingID
	if t.BuyerID == "" {
		t.BuyerID = callerFrom(c).ID
	}
	if t.BuyerID == l.SellerID {
		abort(c, http.StatusBadRequest, "Cannot place a tender on your own listing")
		return
	}
	if t.OfferAmount <= 0 {
		abort(c, http.StatusUnprocessableEntity, "Offer amount must be positive")
		return
	}

	accepted, highest, ok := s.state.addTender(t)
	if !ok {
		abort(c, http.StatusBadRequest, "Offer must be higher than the current highest tender of "+strconv.FormatFloat(highest, 'f', 2, 64))
		return
	}

	s.notify(models.Notification{
		UserID:  l.SellerID,
		Title:   "New tender",
		Message: "A new tender of " + strconv.FormatFloat(accepted.OfferAmount, 'f', 2, 64) + " was placed on " + l.Title,
		Type:    "tender",
	})
	c.JSON(http.StatusOK, accepted)
}

func (s *Server) listTenders(c *gin.Context) {
	listingID := c.Param("id")
	if _, ok := s.state.listing(listingID); !ok {
		abort(c, http.StatusNotFound, "Listing not found")
		return
	}
	c.JSON(http.StatusOK, s.state.listTenders(listingID))
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

func queryFloat(c *gin.Context, key string, def float64) float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return def
	}
	return v
}
