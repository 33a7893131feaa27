package suites

import (
	"context"

	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/probe"
)

func reviewsSuite() probe.Suite {
	review := func(name, reviewerKey string, rating int) probe.Check {
		return probe.Check{Name: name, Run: func(ctx context.Context, env *probe.Env) error {
			reviewer, err := accountOf(env, reviewerKey)
			if err != nil {
				return err
			}
			sellerID, err := env.MustString("seller_id")
			if err != nil {
				return err
			}
			r, err := reviewer.Client.CreateReview(ctx, models.Review{
				ReviewerID: reviewer.User.ID,
				RevieweeID: sellerID,
				Rating:     rating,
				Comment:    "Probe review, rating " + string(rune('0'+rating)),
				Type:       "seller",
			})
			if err != nil {
				return err
			}
			return probe.ExpectEqual("rating", r.Rating, rating)
		}}
	}

	return probe.Suite{
		Name:        "reviews",
		Description: "Review creation, rating validation and per-user averages",
		Tags:        []string{"users"},
		Checks: []probe.Check{
			signUpCheck("seller", true),
			signUpCheck("buyer", false),
			signUpCheck("second_buyer", false),
			review("create review", "buyer", 5),
			review("create second review", "second_buyer", 3),
			{Name: "rating out of range rejected", Run: func(ctx context.Context, env *probe.Env) error {
				buyer, err := accountOf(env, "buyer")
				if err != nil {
					return err
				}
				sellerID, err := env.MustString("seller_id")
				if err != nil {
					return err
				}
				_, err = buyer.Client.CreateReview(ctx, models.Review{
					ReviewerID: buyer.User.ID,
					RevieweeID: sellerID,
					Rating:     6,
					Comment:    "out of range",
					Type:       "seller",
				})
				return probe.ExpectRejected(err)
			}},
			{Name: "self review rejected", Run: func(ctx context.Context, env *probe.Env) error {
				seller, err := accountOf(env, "seller")
				if err != nil {
					return err
				}
				_, err = seller.Client.CreateReview(ctx, models.Review{
					ReviewerID: seller.User.ID,
					RevieweeID: seller.User.ID,
					Rating:     5,
					Comment:    "I am great",
					Type:       "seller",
				})
				return probe.ExpectRejected(err)
			}},
			{Name: "user reviews average", Run: func(ctx context.Context, env *probe.Env) error {
				buyer, err := accountOf(env, "buyer")
				if err != nil {
					return err
				}
				sellerID, err := env.MustString("seller_id")
				if err != nil {
					return err
				}
				out, err := buyer.Client.UserReviews(ctx, sellerID)
				if err != nil {
					return err
				}
				env.Detailf("%d reviews, average %.2f", out.TotalReviews, out.AverageRating)
				return probe.First(
					probe.ExpectEqual("total_reviews", out.TotalReviews, 2),
					probe.ExpectNear("average_rating", out.AverageRating, 4, 0.01),
				)
			}},
		},
	}
}
