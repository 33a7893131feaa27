package suites

import (
	"context"

	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/probe"
)

func marketplaceSuite() probe.Suite {
	// browseCheck asserts that the created listing is found by q and, when
	// exclude is set, that it is not found by exclude.
	browseCheck := func(name string, q func(title string) models.BrowseQuery, exclude func(title string) models.BrowseQuery) probe.Check {
		return probe.Check{Name: name, Run: func(ctx context.Context, env *probe.Env) error {
			id, err := env.MustString("listing_id")
			if err != nil {
				return err
			}
			title, _ := env.GetString("listing_title")

			res, err := env.Client.Browse(ctx, q(title))
			if err != nil {
				return err
			}
			if err := probe.ExpectTrue(containsListing(res.Listings, id), "listing %s not in %d results", id, res.Total); err != nil {
				return err
			}
			if exclude == nil {
				env.Detailf("%d results", res.Total)
				return nil
			}

			res, err = env.Client.Browse(ctx, exclude(title))
			if err != nil {
				return err
			}
			return probe.ExpectTrue(!containsListing(res.Listings, id), "listing %s matched an excluding filter", id)
		}}
	}

	return probe.Suite{
		Name:        "marketplace",
		Description: "Browse, text search, filters and pagination of the marketplace",
		Tags:        []string{"smoke", "marketplace"},
		Checks: []probe.Check{
			signUpCheck("seller", true),
			{Name: "create listing", Run: func(ctx context.Context, env *probe.Env) error {
				acc, err := accountOf(env, "seller")
				if err != nil {
					return err
				}
				l, err := acc.Client.CreateListing(ctx, testListing(acc.User.ID))
				if err != nil {
					return err
				}
				env.Set("listing_id", l.ID)
				env.Set("listing_title", l.Title)
				env.Cleanup("delete listing", deleteListingCleanup(acc.Client, l.ID))
				env.Detailf("listing %s", l.ID)
				return probe.ExpectTrue(l.ID != "", "created listing has no id")
			}},
			{Name: "browse all", Run: func(ctx context.Context, env *probe.Env) error {
				res, err := env.Client.Browse(ctx, models.BrowseQuery{})
				if err != nil {
					return err
				}
				env.Detailf("%d listings", res.Total)
				return probe.ExpectTrue(res.Total > 0, "browse returned no listings")
			}},
			browseCheck("text search",
				func(title string) models.BrowseQuery { return models.BrowseQuery{Query: title} },
				nil),
			browseCheck("category filter",
				func(title string) models.BrowseQuery { return models.BrowseQuery{Query: title, Category: "Catalysts"} },
				func(title string) models.BrowseQuery {
					return models.BrowseQuery{Query: title, Category: "Probe-No-Such-Category"}
				}),
			browseCheck("condition filter",
				func(title string) models.BrowseQuery {
					return models.BrowseQuery{Query: title, Condition: string(models.ConditionUsed)}
				},
				func(title string) models.BrowseQuery {
					return models.BrowseQuery{Query: title, Condition: string(models.ConditionNew)}
				}),
			browseCheck("price range filter",
				func(title string) models.BrowseQuery {
					return models.BrowseQuery{Query: title, PriceFrom: 100, PriceTo: 200}
				},
				func(title string) models.BrowseQuery {
					return models.BrowseQuery{Query: title, PriceFrom: 200, PriceTo: 300}
				}),
			browseCheck("seller type filter",
				func(title string) models.BrowseQuery { return models.BrowseQuery{Query: title, SellerType: "business"} },
				func(title string) models.BrowseQuery { return models.BrowseQuery{Query: title, SellerType: "private"} }),
			{Name: "pagination", Run: func(ctx context.Context, env *probe.Env) error {
				res, err := env.Client.Browse(ctx, models.BrowseQuery{Page: 1, Limit: 1})
				if err != nil {
					return err
				}
				return probe.First(
					probe.ExpectTrue(len(res.Listings) <= 1, "limit 1 returned %d listings", len(res.Listings)),
					probe.ExpectEqual("page", res.Page, 1),
				)
			}},
		},
	}
}
