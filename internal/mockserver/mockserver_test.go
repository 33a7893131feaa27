package mockserver_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cataloro/cataloro-probe/internal/client"
	"github.com/cataloro/cataloro-probe/internal/mockserver"
	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/util"
	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

const (
	adminEmail    = "admin@cataloro.com"
	adminPassword = "admin123"
)

var _ = Describe("Mock backend", func() {
	var (
		ctx  context.Context
		ts   *httptest.Server
		anon *client.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		srv, err := mockserver.NewServer(mockserver.Options{
			JWTSecret:     "test-secret",
			AdminEmail:    adminEmail,
			AdminPassword: adminPassword,
		})
		Expect(err).NotTo(HaveOccurred())

		ts = httptest.NewServer(srv.Handler())
		anon, err = client.New(ts.URL)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		ts.Close()
	})

	signUp := func(business bool) (*client.Client, *models.User) {
		password := "secret123"
		req := models.RegisterRequest{
			Username:   util.UniqueName("user"),
			Email:      util.UniqueEmail("user"),
			Password:   password,
			IsBusiness: business,
		}
		if business {
			req.CompanyName = "Acme Catalysts"
		}
		_, err := anon.Register(ctx, req)
		Expect(err).NotTo(HaveOccurred())

		session, err := anon.Login(ctx, req.Email, password)
		Expect(err).NotTo(HaveOccurred())
		return anon.WithToken(session.Token), &session.User
	}

	adminClient := func() *client.Client {
		session, err := anon.Login(ctx, adminEmail, adminPassword)
		Expect(err).NotTo(HaveOccurred())
		return anon.WithToken(session.Token)
	}

	Context("construction", func() {
		It("should refuse an empty jwt secret", func() {
			_, err := mockserver.NewServer(mockserver.Options{AdminEmail: adminEmail, AdminPassword: adminPassword})
			Expect(err).To(HaveOccurred())
		})
	})

	Context("auth", func() {
		It("should report healthy", func() {
			h, err := anon.Health(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Status).To(Equal("healthy"))
			Expect(h.Version).To(Equal(mockserver.Version))
		})

		It("should give business accounts the seller role", func() {
			_, u := signUp(true)
			Expect(u.Role).To(Equal(models.UserRoleSeller))
			Expect(u.IsBusiness).To(BeTrue())
			Expect(u.CompanyName).To(Equal("Acme Catalysts"))
		})

		It("should reject a duplicate email with 400", func() {
			req := models.RegisterRequest{Username: "dup", Email: util.UniqueEmail("dup"), Password: "secret123"}
			_, err := anon.Register(ctx, req)
			Expect(err).NotTo(HaveOccurred())

			_, err = anon.Register(ctx, req)
			Expect(srvErrors.StatusCode(err)).To(Equal(http.StatusBadRequest))
		})

		It("should reject a short password with 422", func() {
			_, err := anon.Register(ctx, models.RegisterRequest{Username: "x", Email: util.UniqueEmail("x"), Password: "123"})
			Expect(srvErrors.IsValidation(err)).To(BeTrue())
		})

		It("should reject a wrong password with 401", func() {
			_, err := anon.Login(ctx, adminEmail, "wrong")
			Expect(srvErrors.IsUnauthorized(err)).To(BeTrue())
		})

		It("should reject protected routes without a token", func() {
			_, err := anon.CreateListing(ctx, models.Listing{Title: "t", Price: 1})
			Expect(srvErrors.IsUnauthorized(err)).To(BeTrue())
		})

		It("should reject a forged token", func() {
			_, err := anon.WithToken("not-a-jwt").AdminUsers(ctx)
			Expect(srvErrors.IsUnauthorized(err)).To(BeTrue())
		})
	})

	Context("listings and tenders", func() {
		// Given a seller listing and a buyer
		// When the buyer bids
		// Then only strictly higher bids are accepted and the seller is notified
		It("should accept only increasing tenders", func() {
			seller, sellerUser := signUp(true)
			buyer, buyerUser := signUp(false)

			l, err := seller.CreateListing(ctx, models.Listing{Title: "Catalyst", Price: 100, Category: "Catalysts"})
			Expect(err).NotTo(HaveOccurred())
			Expect(l.SellerID).To(Equal(sellerUser.ID))
			Expect(l.SellerType).To(Equal("business"))

			_, err = buyer.PlaceTender(ctx, l.ID, buyerUser.ID, 120)
			Expect(err).NotTo(HaveOccurred())

			_, err = buyer.PlaceTender(ctx, l.ID, buyerUser.ID, 110)
			Expect(srvErrors.StatusCode(err)).To(Equal(http.StatusBadRequest))

			_, err = seller.PlaceTender(ctx, l.ID, sellerUser.ID, 500)
			Expect(srvErrors.StatusCode(err)).To(Equal(http.StatusBadRequest))

			tenders, err := seller.ListTenders(ctx, l.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(tenders).To(HaveLen(1))

			got, err := anon.GetListing(ctx, l.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.HighestBid).To(Equal(120.0))

			notes, err := seller.Notifications(ctx, sellerUser.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(notes).To(HaveLen(1))
			Expect(notes[0].Type).To(Equal("tender"))
		})

		It("should only let the owner delete a listing", func() {
			seller, _ := signUp(true)
			other, _ := signUp(false)

			l, err := seller.CreateListing(ctx, models.Listing{Title: "Catalyst", Price: 10})
			Expect(err).NotTo(HaveOccurred())

			Expect(srvErrors.IsForbidden(other.DeleteListing(ctx, l.ID))).To(BeTrue())
			Expect(seller.DeleteListing(ctx, l.ID)).To(Succeed())

			_, err = anon.GetListing(ctx, l.ID)
			Expect(srvErrors.IsNotFound(err)).To(BeTrue())
		})

		It("should filter and paginate browse results", func() {
			seller, _ := signUp(false)
			tag := util.UniqueName("browse")
			for i, price := range []float64{10, 20, 30} {
				_, err := seller.CreateListing(ctx, models.Listing{
					Title:     tag,
					Price:     price,
					Category:  "Parts",
					Condition: []models.ListingCondition{models.ConditionNew, models.ConditionUsed, models.ConditionUsed}[i],
				})
				Expect(err).NotTo(HaveOccurred())
			}

			res, err := anon.Browse(ctx, models.BrowseQuery{Query: tag, PriceFrom: 15})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Total).To(Equal(2))

			res, err = anon.Browse(ctx, models.BrowseQuery{Query: tag, Condition: "New"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Total).To(Equal(1))

			res, err = anon.Browse(ctx, models.BrowseQuery{Query: tag, SellerType: "private", Limit: 2, Page: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Total).To(Equal(3))
			Expect(res.Listings).To(HaveLen(1))
		})
	})

	Context("baskets", func() {
		It("should compute totals from the current price settings", func() {
			buyer, u := signUp(false)

			b, err := buyer.CreateBasket(ctx, models.Basket{UserID: u.ID, Name: "batch"})
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Items).To(BeEmpty())

			b, err = buyer.AddBasketItem(ctx, b.ID, models.BasketItem{Title: "cat", CeramicWeight: 1, PtPPM: 1000})
			Expect(err).NotTo(HaveOccurred())
			// 1 kg × 1000 ppm / 1000 × 0.98 = 0.98 g at 28.5
			Expect(b.Totals.PtG).To(Equal(0.98))
			Expect(b.Totals.TotalValue).To(Equal(27.93))
		})

		It("should keep every item when items are added concurrently", func() {
			buyer, u := signUp(false)

			b, err := buyer.CreateBasket(ctx, models.Basket{UserID: u.ID, Name: "rush"})
			Expect(err).NotTo(HaveOccurred())

			const n = 20
			var wg sync.WaitGroup
			errs := make(chan error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := buyer.AddBasketItem(ctx, b.ID, models.BasketItem{Title: "cat", CeramicWeight: 1, PtPPM: 1000})
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				Expect(err).NotTo(HaveOccurred())
			}

			baskets, err := buyer.Baskets(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(baskets).To(HaveLen(1))
			Expect(baskets[0].Items).To(HaveLen(n))
			Expect(baskets[0].Totals.PtG).To(BeNumerically("~", 0.98*n, 0.001))
		})

				It("should keep baskets private to their owner", func() {
			owner, u := signUp(false)
			other, _ := signUp(false)

			b, err := owner.CreateBasket(ctx, models.Basket{UserID: u.ID, Name: "mine"})
			Expect(err).NotTo(HaveOccurred())

			_, err = other.Baskets(ctx, u.ID)
			Expect(srvErrors.IsForbidden(err)).To(BeTrue())
			Expect(srvErrors.IsForbidden(other.DeleteBasket(ctx, b.ID))).To(BeTrue())
		})
	})

	Context("admin", func() {
		It("should forbid admin routes to regular users", func() {
			buyer, _ := signUp(false)
			_, err := buyer.AdminUsers(ctx)
			Expect(srvErrors.IsForbidden(err)).To(BeTrue())
		})

		It("should block suspended users", func() {
			admin := adminClient()
			buyer, u := signUp(false)

			updated, err := admin.UpdateUserStatus(ctx, u.ID, models.UserStatusUpdate{IsActive: false})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsActive).To(BeFalse())

			_, err = buyer.Notifications(ctx, u.ID)
			Expect(srvErrors.IsForbidden(err)).To(BeTrue())
		})

		It("should export a pdf document", func() {
			resp, err := adminClient().ExportPDF(ctx, models.ExportRequest{Title: "Users (all)", Section: "users"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.ContentType()).To(Equal("application/pdf"))
			Expect(bytes.HasPrefix(resp.Body, []byte("%PDF-"))).To(BeTrue())
			Expect(bytes.HasSuffix(resp.Body, []byte("%%EOF\n"))).To(BeTrue())
		})

		It("should set an expiration date on activated ads", func() {
			admin := adminClient()
			cfg, err := admin.UpdateAds(ctx, models.AdsConfig{Ads: map[string]models.AdSlot{
				"browsePage": {Active: true, Description: "banner", Runtime: "1 week"},
			}})
			Expect(err).NotTo(HaveOccurred())

			exp, err := time.Parse(time.RFC3339, cfg.Ads["browsePage"].ExpirationDate)
			Expect(err).NotTo(HaveOccurred())
			Expect(exp).To(BeTemporally("~", time.Now().Add(7*24*time.Hour), time.Minute))
			Expect(cfg.Ads).To(HaveKey("favoriteAd"))
		})

		It("should reject an unknown ad runtime", func() {
			_, err := adminClient().UpdateAds(ctx, models.AdsConfig{Ads: map[string]models.AdSlot{
				"browsePage": {Active: true, Runtime: "2 fortnights"},
			}})
			Expect(srvErrors.IsValidation(err)).To(BeTrue())
		})

		It("should reject renumerations above one", func() {
			_, err := adminClient().UpdatePriceSettings(ctx, models.PriceSettings{PtPrice: 1, RenumerationPt: 1.5})
			Expect(srvErrors.IsValidation(err)).To(BeTrue())
		})

		It("should price the seeded catalysts", func() {
			calcs, err := adminClient().CatalystCalculations(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(calcs).To(HaveLen(3))
			for _, c := range calcs {
				Expect(c.TotalPrice).To(BeNumerically(">", 0))
			}
		})
	})

	Context("realtime", func() {
		It("should push created notifications to open sockets", func() {
			user, u := signUp(false)

			stream, err := user.DialNotifications(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			defer stream.Close()

			created, err := user.CreateNotification(ctx, models.Notification{UserID: u.ID, Title: "hello", Message: "world"})
			Expect(err).NotTo(HaveOccurred())

			readCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			ev, err := stream.Next(readCtx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Type).To(Equal("notification"))
			Expect(ev.Notification.ID).To(Equal(created.ID))
		})

		It("should refuse sockets for other users", func() {
			user, _ := signUp(false)
			_, other := signUp(false)

			_, err := user.DialNotifications(ctx, other.ID)
			Expect(err).To(HaveOccurred())
		})
	})
})
