package suites

import (
	"context"
	"net/http"

	"github.com/cataloro/cataloro-probe/internal/probe"
)

func listingsSuite() probe.Suite {
	return probe.Suite{
		Name:        "listings",
		Description: "Listing lifecycle and tenders: create, fetch, validate, bid, outbid, delete",
		Tags:        []string{"marketplace"},
		Checks: []probe.Check{
			signUpCheck("seller", true),
			signUpCheck("buyer", false),
			{Name: "create listing", Run: func(ctx context.Context, env *probe.Env) error {
				seller, err := accountOf(env, "seller")
				if err != nil {
					return err
				}
				want := testListing(seller.User.ID)
				l, err := seller.Client.CreateListing(ctx, want)
				if err != nil {
					return err
				}
				env.Set("listing_id", l.ID)
				env.Cleanup("delete listing", deleteListingCleanup(seller.Client, l.ID))
				return probe.First(
					probe.ExpectEqual("title", l.Title, want.Title),
					probe.ExpectEqual("seller_id", l.SellerID, seller.User.ID),
				)
			}},
			{Name: "fetch listing", Run: func(ctx context.Context, env *probe.Env) error {
				id, err := env.MustString("listing_id")
				if err != nil {
					return err
				}
				l, err := env.Client.GetListing(ctx, id)
				if err != nil {
					return err
				}
				return probe.First(
					probe.ExpectEqual("id", l.ID, id),
					probe.ExpectNear("price", l.Price, 150, 0.001),
				)
			}},
			{Name: "missing title rejected", Run: func(ctx context.Context, env *probe.Env) error {
				seller, err := accountOf(env, "seller")
				if err != nil {
					return err
				}
				l := testListing(seller.User.ID)
				l.Title = ""
				created, err := seller.Client.CreateListing(ctx, l)
				if err == nil && created.ID != "" {
					env.Cleanup("delete invalid listing", deleteListingCleanup(seller.Client, created.ID))
				}
				return probe.ExpectRejected(err)
			}},
			{Name: "place tender", Run: func(ctx context.Context, env *probe.Env) error {
				buyer, err := accountOf(env, "buyer")
				if err != nil {
					return err
				}
				id, err := env.MustString("listing_id")
				if err != nil {
					return err
				}
				t, err := buyer.Client.PlaceTender(ctx, id, buyer.User.ID, 175)
				if err != nil {
					return err
				}
				env.Detailf("tender %s for %.2f", t.ID, t.OfferAmount)
				return probe.ExpectNear("offer_amount", t.OfferAmount, 175, 0.001)
			}},
			{Name: "lower tender rejected", Run: func(ctx context.Context, env *probe.Env) error {
				buyer, err := accountOf(env, "buyer")
				if err != nil {
					return err
				}
				id, err := env.MustString("listing_id")
				if err != nil {
					return err
				}
				_, err = buyer.Client.PlaceTender(ctx, id, buyer.User.ID, 160)
				return probe.ExpectRejected(err)
			}},
			{Name: "tender on own listing rejected", Run: func(ctx context.Context, env *probe.Env) error {
				seller, err := accountOf(env, "seller")
				if err != nil {
					return err
				}
				id, err := env.MustString("listing_id")
				if err != nil {
					return err
				}
				_, err = seller.Client.PlaceTender(ctx, id, seller.User.ID, 1000)
				return probe.ExpectRejected(err)
			}},
			{Name: "list tenders", Run: func(ctx context.Context, env *probe.Env) error {
				seller, err := accountOf(env, "seller")
				if err != nil {
					return err
				}
				id, err := env.MustString("listing_id")
				if err != nil {
					return err
				}
				tenders, err := seller.Client.ListTenders(ctx, id)
				if err != nil {
					return err
				}
				highest := 0.0
				for _, t := range tenders {
					if t.OfferAmount > highest {
						highest = t.OfferAmount
					}
				}
				env.Detailf("%d tenders", len(tenders))
				return probe.ExpectNear("highest tender", highest, 175, 0.001)
			}},
			{Name: "delete listing", Run: func(ctx context.Context, env *probe.Env) error {
				seller, err := accountOf(env, "seller")
				if err != nil {
					return err
				}
				id, err := env.MustString("listing_id")
				if err != nil {
					return err
				}
				return seller.Client.DeleteListing(ctx, id)
			}},
			{Name: "deleted listing is gone", Run: func(ctx context.Context, env *probe.Env) error {
				id, err := env.MustString("listing_id")
				if err != nil {
					return err
				}
				l, err := env.Client.GetListing(ctx, id)
				if err == nil {
					// some deployments soft-delete and keep serving the listing
					return probe.ExpectTrue(l.Status != "active", "deleted listing still active")
				}
				return probe.ExpectAPIStatus(err, http.StatusNotFound)
			}},
		},
	}
}
