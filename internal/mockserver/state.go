package mockserver

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cataloro/cataloro-probe/internal/catalyst"
	"github.com/cataloro/cataloro-probe/internal/models"
)

// state is the in-memory data of the fake backend. Every method takes the lock;
// returned values are copies.
type state struct {
	mu            sync.RWMutex
	users         map[string]models.User
	passwords     map[string][]byte // user id -> bcrypt hash
	emails        map[string]string // email -> user id
	listings      map[string]listingRecord
	tenders       map[string][]models.Tender // listing id -> tenders
	reviews       []models.Review
	baskets       map[string]models.Basket
	notifications map[string][]models.Notification // user id -> newest last
	ads           models.AdsConfig
	settings      models.PriceSettings
	catalysts     []models.Catalyst
}

type listingRecord struct {
	models.Listing
	createdAt time.Time
}

func newState() *state {
	return &state{
		users:         make(map[string]models.User),
		passwords:     make(map[string][]byte),
		emails:        make(map[string]string),
		listings:      make(map[string]listingRecord),
		tenders:       make(map[string][]models.Tender),
		baskets:       make(map[string]models.Basket),
		notifications: make(map[string][]models.Notification),
		ads: models.AdsConfig{Ads: map[string]models.AdSlot{
			"browsePage": {Active: false, Description: "Browse page banner", Runtime: "1 week"},
			"favoriteAd": {Active: false, Description: "Favorites sidebar", Runtime: "1 month"},
		}},
		settings: models.PriceSettings{
			PtPrice:        28.5,
			PdPrice:        31.2,
			RhPrice:        145.0,
			RenumerationPt: 0.98,
			RenumerationPd: 0.98,
			RenumerationRh: 0.9,
		},
		catalysts: []models.Catalyst{
			{CatID: "32076", Name: "VW 1K0 178 AA", CeramicWeight: 1.32, PtPPM: 1180, PdPPM: 2870, RhPPM: 320},
			{CatID: "41125", Name: "BMW 7 545 077", CeramicWeight: 0.98, PtPPM: 2210, PdPPM: 640, RhPPM: 210},
			{CatID: "55730", Name: "Toyota 25051", CeramicWeight: 1.75, PtPPM: 430, PdPPM: 3390, RhPPM: 410},
		},
	}
}

func newID() string {
	return uuid.NewString()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// users

func (s *state) addUser(u models.User, hash []byte) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[u.Email]; exists {
		return models.User{}, false
	}
	u.ID = newID()
	s.users[u.ID] = u
	s.passwords[u.ID] = hash
	s.emails[u.Email] = u.ID
	return u, true
}

func (s *state) userByEmail(email string) (models.User, []byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return models.User{}, nil, false
	}
	return s.users[id], s.passwords[id], true
}

func (s *state) user(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *state) listUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func (s *state) setUserActive(id string, active bool) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	u.IsActive = active
	s.users[id] = u
	return u, true
}

// listings

func (s *state) addListing(l models.Listing) models.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.ID = newID()
	l.Status = "active"
	l.CreatedAt = now()
	if seller, ok := s.users[l.SellerID]; ok {
		l.SellerType = sellerType(seller)
	}
	s.listings[l.ID] = listingRecord{Listing: l, createdAt: time.Now()}
	return l
}

func (s *state) listing(id string) (models.Listing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.listings[id]
	return r.Listing, ok
}

func (s *state) deleteListing(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[id]; !ok {
		return false
	}
	delete(s.listings, id)
	delete(s.tenders, id)
	return true
}

// activeListings returns active listings, newest first.
func (s *state) activeListings() []models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]listingRecord, 0, len(s.listings))
	for _, r := range s.listings {
		if r.Status == "active" {
			records = append(records, r)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].createdAt.Equal(records[j].createdAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].createdAt.After(records[j].createdAt)
	})

	out := make([]models.Listing, 0, len(records))
	for _, r := range records {
		out = append(out, r.Listing)
	}
	return out
}

// addTender records t when it beats the current highest offer. It returns the
// highest offer seen so far and whether t was accepted.
func (s *state) addTender(t models.Tender) (models.Tender, float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.listings[t.ListingID]
	highest := r.HighestBid
	if t.OfferAmount <= highest {
		return models.Tender{}, highest, false
	}

	t.ID = newID()
	t.Status = "active"
	t.CreatedAt = now()
	for i := range s.tenders[t.ListingID] {
		s.tenders[t.ListingID][i].Status = "outbid"
	}
	s.tenders[t.ListingID] = append(s.tenders[t.ListingID], t)

	r.HighestBid = t.OfferAmount
	s.listings[t.ListingID] = r
	return t, t.OfferAmount, true
}

func (s *state) listTenders(listingID string) []models.Tender {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Tender{}, s.tenders[listingID]...)
}

// reviews

func (s *state) addReview(r models.Review) models.Review {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = newID()
	r.CreatedAt = now()
	s.reviews = append(s.reviews, r)
	return r
}

func (s *state) reviewsFor(userID string) []models.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Review{}
	for _, r := range s.reviews {
		if r.RevieweeID == userID {
			out = append(out, r)
		}
	}
	return out
}

// baskets

func (s *state) saveBasket(b models.Basket) models.Basket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == "" {
		b.ID = newID()
		b.CreatedAt = now()
	}
	if b.Items == nil {
		b.Items = []models.BasketItem{}
	}
	s.baskets[b.ID] = b
	return b
}

// updateBasket applies fn to basket id and recomputes its totals in one
// critical section. fn gets its own copy of the items.
func (s *state) updateBasket(id string, fn func(b *models.Basket)) (models.Basket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.baskets[id]
	if !ok {
		return models.Basket{}, false
	}
	b.Items = append([]models.BasketItem{}, b.Items...)
	fn(&b)
	if b.Items == nil {
		b.Items = []models.BasketItem{}
	}
	b.Totals = catalyst.BasketTotals(b.Items, s.settings)
	s.baskets[id] = b
	return b, true
}

func (s *state) basket(id string) (models.Basket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.baskets[id]
	return b, ok
}

func (s *state) deleteBasket(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.baskets[id]; !ok {
		return false
	}
	delete(s.baskets, id)
	return true
}

func (s *state) basketsFor(userID string) []models.Basket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Basket{}
	for _, b := range s.baskets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt+out[i].ID < out[j].CreatedAt+out[j].ID })
	return out
}

// notifications

func (s *state) addNotification(n models.Notification) models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = newID()
	n.IsRead = false
	n.CreatedAt = now()
	s.notifications[n.UserID] = append(s.notifications[n.UserID], n)
	return n
}

// notificationsFor returns the user's notifications, newest first.
func (s *state) notificationsFor(userID string) []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.notifications[userID]
	out := make([]models.Notification, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	return out
}

func (s *state) markRead(userID, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications[userID] {
		if n.ID == id {
			s.notifications[userID][i].IsRead = true
			return true
		}
	}
	return false
}

// admin configuration

func (s *state) adsConfig() models.AdsConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := models.AdsConfig{Ads: make(map[string]models.AdSlot, len(s.ads.Ads))}
	for k, v := range s.ads.Ads {
		out.Ads[k] = v
	}
	return out
}

func (s *state) mergeAds(update models.AdsConfig) models.AdsConfig {
	s.mu.Lock()
	for k, v := range update.Ads {
		s.ads.Ads[k] = v
	}
	s.mu.Unlock()
	return s.adsConfig()
}

func (s *state) priceSettings() models.PriceSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *state) setPriceSettings(p models.PriceSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = p
}

func (s *state) catalystData() []models.Catalyst {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Catalyst{}, s.catalysts...)
}

func sellerType(u models.User) string {
	if u.IsBusiness {
		return "business"
	}
	return "private"
}
