package models

// The types below mirror the JSON the marketplace backend exchanges. They are
// request/response shapes only; the probe never owns this data.

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleSeller UserRole = "seller"
	UserRoleBuyer  UserRole = "buyer"
)

type User struct {
	ID                 string   `json:"id"`
	Username           string   `json:"username"`
	Email              string   `json:"email"`
	FullName           string   `json:"full_name,omitempty"`
	Role               UserRole `json:"role,omitempty"`
	UserRole           string   `json:"user_role,omitempty"`
	Badge              string   `json:"badge,omitempty"`
	IsBusiness         bool     `json:"is_business"`
	CompanyName        string   `json:"company_name,omitempty"`
	RegistrationStatus string   `json:"registration_status,omitempty"`
	IsActive           bool     `json:"is_active"`
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name,omitempty"`
	IsBusiness  bool   `json:"is_business"`
	CompanyName string `json:"company_name,omitempty"`
	Country     string `json:"country,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UserStatusUpdate struct {
	IsActive bool   `json:"is_active"`
	Reason   string `json:"reason,omitempty"`
}

type ListingCondition string

const (
	ConditionNew  ListingCondition = "New"
	ConditionUsed ListingCondition = "Used"
)

type Listing struct {
	ID            string           `json:"id,omitempty"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Price         float64          `json:"price"`
	Category      string           `json:"category"`
	Condition     ListingCondition `json:"condition"`
	SellerID      string           `json:"seller_id"`
	SellerType    string           `json:"seller_type,omitempty"`
	Status        string           `json:"status,omitempty"`
	Images        []string         `json:"images,omitempty"`
	CatalystID    string           `json:"catalyst_id,omitempty"`
	CeramicWeight float64          `json:"ceramic_weight,omitempty"`
	PtPPM         float64          `json:"pt_ppm,omitempty"`
	PdPPM         float64          `json:"pd_ppm,omitempty"`
	RhPPM         float64          `json:"rh_ppm,omitempty"`
	HighestBid    float64          `json:"highest_bid,omitempty"`
	CreatedAt     string           `json:"created_at,omitempty"`
}

type BrowseQuery struct {
	Query      string
	Category   string
	Condition  string
	SellerType string
	PriceFrom  float64
	PriceTo    float64
	Page       int
	Limit      int
}

type BrowseResult struct {
	Listings []Listing `json:"listings"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// Tender is an offer a buyer places on a listing.
type Tender struct {
	ID          string  `json:"id,omitempty"`
	ListingID   string  `json:"listing_id"`
	BuyerID     string  `json:"buyer_id"`
	OfferAmount float64 `json:"offer_amount"`
	Status      string  `json:"status,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

type Review struct {
	ID         string `json:"id,omitempty"`
	ReviewerID string `json:"reviewer_id"`
	RevieweeID string `json:"reviewee_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	Type       string `json:"type"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type UserReviews struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
	TotalReviews  int      `json:"total_reviews"`
}

type BasketItem struct {
	ID            string  `json:"id,omitempty"`
	ListingID     string  `json:"listing_id,omitempty"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	CatalystID    string  `json:"catalyst_id,omitempty"`
	CeramicWeight float64 `json:"ceramic_weight"`
	PtPPM         float64 `json:"pt_ppm"`
	PdPPM         float64 `json:"pd_ppm"`
	RhPPM         float64 `json:"rh_ppm"`
}

// BasketTotals are the precious-metal grams and value of a basket.
type BasketTotals struct {
	PtG        float64 `json:"pt_g"`
	PdG        float64 `json:"pd_g"`
	RhG        float64 `json:"rh_g"`
	TotalValue float64 `json:"total_value"`
}

type Basket struct {
	ID          string       `json:"id,omitempty"`
	UserID      string       `json:"user_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Items       []BasketItem `json:"items"`
	Totals      BasketTotals `json:"totals"`
	CreatedAt   string       `json:"created_at,omitempty"`
}

type Notification struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at,omitempty"`
}

type Catalyst struct {
	CatID         string  `json:"cat_id"`
	Name          string  `json:"name"`
	CeramicWeight float64 `json:"ceramic_weight"`
	PtPPM         float64 `json:"pt_ppm"`
	PdPPM         float64 `json:"pd_ppm"`
	RhPPM         float64 `json:"rh_ppm"`
}

// PriceSettings are the metal prices (per gram) and the share of each metal that is paid out.
type PriceSettings struct {
	PtPrice        float64 `json:"pt_price"`
	PdPrice        float64 `json:"pd_price"`
	RhPrice        float64 `json:"rh_price"`
	RenumerationPt float64 `json:"renumeration_pt"`
	RenumerationPd float64 `json:"renumeration_pd"`
	RenumerationRh float64 `json:"renumeration_rh"`
}

type CatalystCalculation struct {
	CatID      string  `json:"cat_id"`
	Name       string  `json:"name"`
	TotalPrice float64 `json:"total_price"`
}

type AdSlot struct {
	Active         bool   `json:"active"`
	Image          string `json:"image,omitempty"`
	Description    string `json:"description"`
	Runtime        string `json:"runtime"`
	ExpirationDate string `json:"expirationDate,omitempty"`
	URL            string `json:"url,omitempty"`
}

// AdsConfig is keyed by placement name, e.g. "browsePage".
type AdsConfig struct {
	Ads map[string]AdSlot `json:"ads"`
}

// ExportRequest selects what the admin PDF export should contain.
type ExportRequest struct {
	Title   string   `json:"title"`
	Section string   `json:"section"`
	Items   []string `json:"items,omitempty"`
}

type Health struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
