// Package catalyst recomputes the marketplace's catalyst prices so that
// probes can assert on the numbers the backend returns.
//
// Ceramic weight is expressed in kilograms and metal content in parts per
// million, so the grams of a metal recovered from one converter are
//
//	grams = ceramic_weight × ppm / 1000 × renumeration
//
// and its value is grams × metal price per gram. The price of a catalyst is
// the sum over platinum, palladium and rhodium, rounded to cents.
package catalyst

import (
	"fmt"
	"sort"

	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/util"
)

// DefaultTolerance absorbs rounding differences between the backend and this package.
const DefaultTolerance = 0.01

// Content is the precious metal content of one converter.
type Content struct {
	CeramicWeight float64
	PtPPM         float64
	PdPPM         float64
	RhPPM         float64
}

func FromCatalyst(c models.Catalyst) Content {
	return Content{CeramicWeight: c.CeramicWeight, PtPPM: c.PtPPM, PdPPM: c.PdPPM, RhPPM: c.RhPPM}
}

func FromBasketItem(i models.BasketItem) Content {
	return Content{CeramicWeight: i.CeramicWeight, PtPPM: i.PtPPM, PdPPM: i.PdPPM, RhPPM: i.RhPPM}
}

// Grams is the paid-out metal weight per metal.
type Grams struct {
	Pt float64
	Pd float64
	Rh float64
}

// Recoverable returns the grams of each metal that are paid out, before pricing.
func Recoverable(c Content, s models.PriceSettings) Grams {
	if c.CeramicWeight <= 0 {
		return Grams{}
	}
	return Grams{
		Pt: grams(c.CeramicWeight, c.PtPPM, s.RenumerationPt),
		Pd: grams(c.CeramicWeight, c.PdPPM, s.RenumerationPd),
		Rh: grams(c.CeramicWeight, c.RhPPM, s.RenumerationRh),
	}
}

// Price is the value of a single converter, rounded to cents.
func Price(c Content, s models.PriceSettings) float64 {
	g := Recoverable(c, s)
	return util.Round(g.Pt*s.PtPrice + g.Pd*s.PdPrice + g.Rh*s.RhPrice)
}

// Calculate prices every catalyst, keeping input order.
func Calculate(catalysts []models.Catalyst, s models.PriceSettings) []models.CatalystCalculation {
	out := make([]models.CatalystCalculation, 0, len(catalysts))
	for _, c := range catalysts {
		out = append(out, models.CatalystCalculation{
			CatID:      c.CatID,
			Name:       c.Name,
			TotalPrice: Price(FromCatalyst(c), s),
		})
	}
	return out
}

// BasketTotals sums grams and value over basket items. Grams are rounded to 4 decimals.
func BasketTotals(items []models.BasketItem, s models.PriceSettings) models.BasketTotals {
	var t models.BasketTotals
	for _, item := range items {
		g := Recoverable(FromBasketItem(item), s)
		t.PtG += g.Pt
		t.PdG += g.Pd
		t.RhG += g.Rh
		t.TotalValue += g.Pt*s.PtPrice + g.Pd*s.PdPrice + g.Rh*s.RhPrice
	}
	t.PtG = round4(t.PtG)
	t.PdG = round4(t.PdG)
	t.RhG = round4(t.RhG)
	t.TotalValue = util.Round(t.TotalValue)
	return t
}

// ValidateSettings rejects negative prices and renumerations outside [0, 1].
func ValidateSettings(s models.PriceSettings) error {
	prices := map[string]float64{"pt_price": s.PtPrice, "pd_price": s.PdPrice, "rh_price": s.RhPrice}
	for _, k := range sortedKeys(prices) {
		if prices[k] < 0 {
			return fmt.Errorf("%s must not be negative, got %v", k, prices[k])
		}
	}
	shares := map[string]float64{
		"renumeration_pt": s.RenumerationPt,
		"renumeration_pd": s.RenumerationPd,
		"renumeration_rh": s.RenumerationRh,
	}
	for _, k := range sortedKeys(shares) {
		if shares[k] < 0 || shares[k] > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", k, shares[k])
		}
	}
	return nil
}

// Mismatch is a catalyst whose backend price differs from the recomputed one.
type Mismatch struct {
	CatID    string
	Expected float64
	Actual   float64
	Missing  bool
}

func (m Mismatch) String() string {
	if m.Missing {
		return fmt.Sprintf("%s: missing from backend calculations (expected %.2f)", m.CatID, m.Expected)
	}
	return fmt.Sprintf("%s: expected %.2f, got %.2f", m.CatID, m.Expected, m.Actual)
}

// Compare matches calculations by cat_id. Entries only present in actual are ignored.
func Compare(expected, actual []models.CatalystCalculation, tolerance float64) []Mismatch {
	byID := make(map[string]float64, len(actual))
	for _, a := range actual {
		byID[a.CatID] = a.TotalPrice
	}

	var out []Mismatch
	for _, e := range expected {
		got, ok := byID[e.CatID]
		if !ok {
			out = append(out, Mismatch{CatID: e.CatID, Expected: e.TotalPrice, Missing: true})
			continue
		}
		if !util.AlmostEqual(e.TotalPrice, got, tolerance) {
			out = append(out, Mismatch{CatID: e.CatID, Expected: e.TotalPrice, Actual: got})
		}
	}
	return out
}

func grams(weight, ppm, share float64) float64 {
	if ppm <= 0 || share <= 0 {
		return 0
	}
	return weight * ppm / 1000 * share
}

func round4(f float64) float64 {
	return float64(int64(f*10000+0.5)) / 10000
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
