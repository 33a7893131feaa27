package suites

import (
	"context"
	"time"

	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/probe"
	"github.com/cataloro/cataloro-probe/internal/util"
)

const browsePageAd = "browsePage"

// expirationLayouts are the date formats seen in ad expiration dates.
var expirationLayouts = []string{time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02T15:04:05", "2006-01-02"}

func parseExpiration(s string) (time.Time, bool) {
	for _, layout := range expirationLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func adsSuite() probe.Suite {
	return probe.Suite{
		Name:          "ads",
		Description:   "Ads manager: read, activate the browse page ad with a runtime, read back",
		Tags:          []string{"admin"},
		RequiresAdmin: true,
		Checks: []probe.Check{
			{Name: "read ads config", Run: func(ctx context.Context, env *probe.Env) error {
				cfg, err := env.Admin.Ads(ctx)
				if err != nil {
					return err
				}
				original, ok := cfg.Ads[browsePageAd]
				if !ok {
					return probe.ExpectTrue(false, "ads config has no %s slot", browsePageAd)
				}
				env.Set("original_ad", original)
				env.Cleanup("restore browse page ad", func(ctx context.Context) error {
					_, err := env.Admin.UpdateAds(ctx, models.AdsConfig{Ads: map[string]models.AdSlot{browsePageAd: original}})
					return err
				})
				env.Detailf("%d slots", len(cfg.Ads))
				return nil
			}},
			{Name: "activate browse page ad", Run: func(ctx context.Context, env *probe.Env) error {
				if _, ok := env.Get("original_ad"); !ok {
					return probe.Skipf("ads config not read")
				}
				slot := models.AdSlot{
					Active:      true,
					Description: util.UniqueName("Probe ad"),
					Runtime:     "1 week",
					URL:         "https://example.com/probe",
				}
				if _, err := env.Admin.UpdateAds(ctx, models.AdsConfig{Ads: map[string]models.AdSlot{browsePageAd: slot}}); err != nil {
					return err
				}
				env.Set("ad_description", slot.Description)
				return nil
			}},
			{Name: "read back ad", Run: func(ctx context.Context, env *probe.Env) error {
				want, err := env.MustString("ad_description")
				if err != nil {
					return err
				}
				cfg, err := env.Admin.Ads(ctx)
				if err != nil {
					return err
				}
				got := cfg.Ads[browsePageAd]
				if err := probe.First(
					probe.ExpectEqual("description", got.Description, want),
					probe.ExpectTrue(got.Active, "ad not active"),
					probe.ExpectEqual("runtime", got.Runtime, "1 week"),
				); err != nil {
					return err
				}
				if got.ExpirationDate == "" {
					return probe.ExpectTrue(false, "active ad has no expiration date")
				}
				exp, ok := parseExpiration(got.ExpirationDate)
				if !ok {
					env.Detailf("unparsed expiration %q", got.ExpirationDate)
					return nil
				}
				env.Detailf("expires %s", exp.Format(time.RFC3339))
				return probe.ExpectTrue(exp.After(time.Now()), "expiration %s is in the past", got.ExpirationDate)
			}},
		},
	}
}
