package util_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cataloro/cataloro-probe/internal/util"
)

var _ = Describe("util", func() {
	DescribeTable("Truncate",
		func(in string, n int, want string) {
			Expect(util.Truncate(in, n)).To(Equal(want))
		},
		Entry("short enough", "hello", 10, "hello"),
		Entry("cut with marker", "hello world", 8, "hello..."),
		Entry("tiny limit", "hello", 2, "he"),
		Entry("runes, not bytes", "Prüfung läuft", 6, "Prü..."),
	)

	It("should round to cents", func() {
		Expect(util.Round(27.934999)).To(Equal(27.93))
		Expect(util.Round(0.125)).To(Equal(0.13))
		Expect(util.AlmostEqual(10.004, 10.0, 0.01)).To(BeTrue())
		Expect(util.AlmostEqual(10.02, 10.0, 0.01)).To(BeFalse())
	})

	It("should generate distinct names and emails", func() {
		a, b := util.UniqueName("probe"), util.UniqueName("probe")
		Expect(a).To(HavePrefix("probe_"))
		Expect(a).To(HaveLen(len("probe_") + 10))
		Expect(a).NotTo(Equal(b))
		Expect(util.UniqueName("")).To(HaveLen(10))
		Expect(util.UniqueEmail("buyer")).To(MatchRegexp(`^buyer_[0-9a-f]{10}@example\.com$`))
	})
})
