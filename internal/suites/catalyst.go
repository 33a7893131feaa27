package suites

import (
	"context"
	"strings"

	"github.com/cataloro/cataloro-probe/internal/catalyst"
	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/probe"
	"github.com/cataloro/cataloro-probe/internal/util"
)

func catalystSuite() probe.Suite {
	// compare recomputes every catalyst price and matches it with the backend's.
	compare := func(ctx context.Context, env *probe.Env) error {
		settings, err := env.Admin.PriceSettings(ctx)
		if err != nil {
			return err
		}
		data, err := env.Admin.CatalystData(ctx)
		if err != nil {
			return err
		}
		actual, err := env.Admin.CatalystCalculations(ctx)
		if err != nil {
			return err
		}

		mismatches := catalyst.Compare(catalyst.Calculate(data, *settings), actual, catalyst.DefaultTolerance)
		if len(mismatches) == 0 {
			env.Detailf("%d calculations match", len(actual))
			return nil
		}
		lines := make([]string, 0, len(mismatches))
		for _, m := range mismatches {
			lines = append(lines, m.String())
		}
		return probe.ExpectTrue(false, "%d of %d prices differ: %s", len(mismatches), len(data), strings.Join(lines, "; "))
	}

	return probe.Suite{
		Name:          "catalyst",
		Description:   "Catalyst price settings, data and calculated prices",
		Tags:          []string{"admin", "catalyst"},
		RequiresAdmin: true,
		Exclusive:     true,
		Checks: []probe.Check{
			{Name: "read price settings", Run: func(ctx context.Context, env *probe.Env) error {
				s, err := env.Admin.PriceSettings(ctx)
				if err != nil {
					return err
				}
				env.Set("settings", *s)
				env.Detailf("pt %.2f pd %.2f rh %.2f", s.PtPrice, s.PdPrice, s.RhPrice)
				return catalyst.ValidateSettings(*s)
			}},
			{Name: "read catalyst data", Run: func(ctx context.Context, env *probe.Env) error {
				data, err := env.Admin.CatalystData(ctx)
				if err != nil {
					return err
				}
				env.Detailf("%d catalysts", len(data))
				if err := probe.ExpectTrue(len(data) > 0, "no catalyst data"); err != nil {
					return err
				}
				for _, c := range data {
					if c.CatID == "" {
						return probe.ExpectTrue(false, "catalyst %q has no cat_id", c.Name)
					}
				}
				return nil
			}},
			{Name: "calculations match", Run: compare},
			{Name: "update price settings", Run: func(ctx context.Context, env *probe.Env) error {
				v, ok := env.Get("settings")
				if !ok {
					return probe.Skipf("price settings not read")
				}
				original := v.(models.PriceSettings)
				env.Cleanup("restore price settings", func(ctx context.Context) error {
					_, err := env.Admin.UpdatePriceSettings(ctx, original)
					return err
				})

				changed := original
				changed.PtPrice = util.Round(original.PtPrice + 1)
				got, err := env.Admin.UpdatePriceSettings(ctx, changed)
				if err != nil {
					return err
				}
				return probe.ExpectNear("pt_price", got.PtPrice, changed.PtPrice, 0.001)
			}},
			{Name: "calculations follow new settings", Run: compare},
			{Name: "invalid settings rejected", Run: func(ctx context.Context, env *probe.Env) error {
				v, ok := env.Get("settings")
				if !ok {
					return probe.Skipf("price settings not read")
				}
				bad := v.(models.PriceSettings)
				bad.RenumerationPt = 1.5
				_, err := env.Admin.UpdatePriceSettings(ctx, bad)
				return probe.ExpectRejected(err)
			}},
		},
	}
}
