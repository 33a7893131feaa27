package suites

import (
	"context"

	"github.com/cataloro/cataloro-probe/internal/catalyst"
	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/probe"
	"github.com/cataloro/cataloro-probe/internal/util"
)

// basketItem is a catalyst with known content so that totals can be recomputed.
var basketItem = models.BasketItem{
	Title:         "Probe converter",
	Price:         120,
	CatalystID:    "41125",
	CeramicWeight: 0.98,
	PtPPM:         2210,
	PdPPM:         640,
	RhPPM:         210,
}

func basketsSuite() probe.Suite {
	basketOf := func(env *probe.Env) (*account, string, error) {
		buyer, err := accountOf(env, "buyer")
		if err != nil {
			return nil, "", err
		}
		id, err := env.MustString("basket_id")
		if err != nil {
			return nil, "", err
		}
		return buyer, id, nil
	}

	findBasket := func(ctx context.Context, buyer *account, id string) (*models.Basket, error) {
		baskets, err := buyer.Client.Baskets(ctx, buyer.User.ID)
		if err != nil {
			return nil, err
		}
		for i := range baskets {
			if baskets[i].ID == id {
				return &baskets[i], nil
			}
		}
		return nil, nil
	}

	return probe.Suite{
		Name:          "baskets",
		Description:   "Baskets with catalyst items and their precious metal totals",
		Tags:          []string{"users", "catalyst", "admin"},
		RequiresAdmin: true,
		Checks: []probe.Check{
			signUpCheck("buyer", false),
			{Name: "create basket", Run: func(ctx context.Context, env *probe.Env) error {
				buyer, err := accountOf(env, "buyer")
				if err != nil {
					return err
				}
				b, err := buyer.Client.CreateBasket(ctx, models.Basket{
					UserID:      buyer.User.ID,
					Name:        util.UniqueName("Probe basket"),
					Description: "created by the cataloro probe",
				})
				if err != nil {
					return err
				}
				env.Set("basket_id", b.ID)
				env.Cleanup("delete basket", func(ctx context.Context) error {
					return ignoreNotFound(buyer.Client.DeleteBasket(ctx, b.ID))
				})
				return probe.ExpectTrue(len(b.Items) == 0, "new basket has %d items", len(b.Items))
			}},
			{Name: "add catalyst item", Run: func(ctx context.Context, env *probe.Env) error {
				buyer, id, err := basketOf(env)
				if err != nil {
					return err
				}
				b, err := buyer.Client.AddBasketItem(ctx, id, basketItem)
				if err != nil {
					return err
				}
				env.Set("totals", b.Totals)
				return probe.ExpectEqual("items", len(b.Items), 1)
			}},
			{Name: "totals match calculation", Run: func(ctx context.Context, env *probe.Env) error {
				v, ok := env.Get("totals")
				if !ok {
					return probe.Skipf("no basket totals")
				}
				got := v.(models.BasketTotals)

				settings, err := env.Admin.PriceSettings(ctx)
				if err != nil {
					return err
				}
				want := catalyst.BasketTotals([]models.BasketItem{basketItem}, *settings)
				env.Detailf("pt %.4fg pd %.4fg rh %.4fg, value %.2f", got.PtG, got.PdG, got.RhG, got.TotalValue)
				return probe.First(
					probe.ExpectNear("pt_g", got.PtG, want.PtG, 0.001),
					probe.ExpectNear("pd_g", got.PdG, want.PdG, 0.001),
					probe.ExpectNear("rh_g", got.RhG, want.RhG, 0.001),
					probe.ExpectNear("total_value", got.TotalValue, want.TotalValue, catalyst.DefaultTolerance),
				)
			}},
			{Name: "rename basket", Run: func(ctx context.Context, env *probe.Env) error {
				buyer, id, err := basketOf(env)
				if err != nil {
					return err
				}
				name := util.UniqueName("Probe renamed")
				b, err := buyer.Client.UpdateBasket(ctx, models.Basket{ID: id, UserID: buyer.User.ID, Name: name, Description: "renamed"})
				if err != nil {
					return err
				}
				env.Set("basket_name", name)
				return probe.ExpectEqual("name", b.Name, name)
			}},
			{Name: "list baskets", Run: func(ctx context.Context, env *probe.Env) error {
				buyer, id, err := basketOf(env)
				if err != nil {
					return err
				}
				b, err := findBasket(ctx, buyer, id)
				if err != nil {
					return err
				}
				if err := probe.ExpectTrue(b != nil, "basket %s not listed", id); err != nil {
					return err
				}
				name, _ := env.GetString("basket_name")
				return probe.First(
					probe.ExpectEqual("name", b.Name, name),
					probe.ExpectEqual("items", len(b.Items), 1),
				)
			}},
			{Name: "delete basket", Run: func(ctx context.Context, env *probe.Env) error {
				buyer, id, err := basketOf(env)
				if err != nil {
					return err
				}
				if err := buyer.Client.DeleteBasket(ctx, id); err != nil {
					return err
				}
				b, err := findBasket(ctx, buyer, id)
				if err != nil {
					return err
				}
				return probe.ExpectTrue(b == nil, "basket %s still listed after delete", id)
			}},
		},
	}
}
