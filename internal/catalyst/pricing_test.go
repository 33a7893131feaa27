package catalyst_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cataloro/cataloro-probe/internal/catalyst"
	"github.com/cataloro/cataloro-probe/internal/models"
)

var _ = Describe("Pricing", func() {
	var settings models.PriceSettings

	BeforeEach(func() {
		settings = models.PriceSettings{
			PtPrice:        30,
			PdPrice:        25,
			RhPrice:        150,
			RenumerationPt: 0.98,
			RenumerationPd: 0.98,
			RenumerationRh: 0.9,
		}
	})

	Context("Recoverable", func() {
		// Given a 1.5 kg ceramic with known ppm values
		// When we compute recoverable grams
		// Then each metal is weight * ppm / 1000 * renumeration
		It("should compute grams per metal", func() {
			g := catalyst.Recoverable(catalyst.Content{CeramicWeight: 1.5, PtPPM: 2000, PdPPM: 1000, RhPPM: 200}, settings)

			Expect(g.Pt).To(BeNumerically("~", 2.94, 1e-9))
			Expect(g.Pd).To(BeNumerically("~", 1.47, 1e-9))
			Expect(g.Rh).To(BeNumerically("~", 0.27, 1e-9))
		})

		It("should return zero grams for a non-positive weight", func() {
			g := catalyst.Recoverable(catalyst.Content{CeramicWeight: -1, PtPPM: 2000}, settings)
			Expect(g).To(Equal(catalyst.Grams{}))
		})
	})

	Context("Price", func() {
		It("should sum the value of all metals rounded to cents", func() {
			price := catalyst.Price(catalyst.Content{CeramicWeight: 1.5, PtPPM: 2000, PdPPM: 1000, RhPPM: 200}, settings)
			Expect(price).To(BeNumerically("~", 165.45, 0.001))
		})

		It("should ignore metals with a zero renumeration", func() {
			settings.RenumerationRh = 0
			price := catalyst.Price(catalyst.Content{CeramicWeight: 1.5, PtPPM: 2000, PdPPM: 1000, RhPPM: 200}, settings)
			Expect(price).To(BeNumerically("~", 124.95, 0.001))
		})
	})

	Context("Calculate", func() {
		It("should keep the input order", func() {
			calcs := catalyst.Calculate([]models.Catalyst{
				{CatID: "b", Name: "B", CeramicWeight: 1, PtPPM: 1000},
				{CatID: "a", Name: "A", CeramicWeight: 2, PtPPM: 1000},
			}, settings)

			Expect(calcs).To(HaveLen(2))
			Expect(calcs[0].CatID).To(Equal("b"))
			Expect(calcs[0].TotalPrice).To(BeNumerically("~", 29.4, 0.001))
			Expect(calcs[1].TotalPrice).To(BeNumerically("~", 58.8, 0.001))
		})
	})

	Context("BasketTotals", func() {
		It("should sum grams and value over all items", func() {
			items := []models.BasketItem{
				{Title: "one", CeramicWeight: 1.5, PtPPM: 2000, PdPPM: 1000, RhPPM: 200},
				{Title: "two", CeramicWeight: 1, PtPPM: 1000},
			}

			t := catalyst.BasketTotals(items, settings)

			Expect(t.PtG).To(BeNumerically("~", 3.92, 1e-4))
			Expect(t.PdG).To(BeNumerically("~", 1.47, 1e-4))
			Expect(t.RhG).To(BeNumerically("~", 0.27, 1e-4))
			Expect(t.TotalValue).To(BeNumerically("~", 194.85, 0.001))
		})

		It("should return zero totals for an empty basket", func() {
			Expect(catalyst.BasketTotals(nil, settings)).To(Equal(models.BasketTotals{}))
		})
	})

	Context("ValidateSettings", func() {
		It("should accept sane settings", func() {
			Expect(catalyst.ValidateSettings(settings)).To(Succeed())
		})

		It("should reject a renumeration above one", func() {
			settings.RenumerationPd = 1.2
			Expect(catalyst.ValidateSettings(settings)).To(MatchError(ContainSubstring("renumeration_pd")))
		})

		It("should reject a negative price", func() {
			settings.RhPrice = -1
			Expect(catalyst.ValidateSettings(settings)).To(MatchError(ContainSubstring("rh_price")))
		})
	})

	Context("Compare", func() {
		expected := []models.CatalystCalculation{
			{CatID: "c1", TotalPrice: 10},
			{CatID: "c2", TotalPrice: 20},
			{CatID: "c3", TotalPrice: 30},
		}

		It("should report nothing when all prices are within tolerance", func() {
			actual := []models.CatalystCalculation{
				{CatID: "c1", TotalPrice: 10.005},
				{CatID: "c2", TotalPrice: 20},
				{CatID: "c3", TotalPrice: 29.995},
				{CatID: "extra", TotalPrice: 99},
			}
			Expect(catalyst.Compare(expected, actual, catalyst.DefaultTolerance)).To(BeEmpty())
		})

		It("should report wrong and missing prices", func() {
			actual := []models.CatalystCalculation{
				{CatID: "c1", TotalPrice: 11},
				{CatID: "c2", TotalPrice: 20},
			}

			mismatches := catalyst.Compare(expected, actual, catalyst.DefaultTolerance)

			Expect(mismatches).To(HaveLen(2))
			Expect(mismatches[0].CatID).To(Equal("c1"))
			Expect(mismatches[0].String()).To(Equal("c1: expected 10.00, got 11.00"))
			Expect(mismatches[1].Missing).To(BeTrue())
			Expect(mismatches[1].String()).To(ContainSubstring("missing"))
		})
	})
})
