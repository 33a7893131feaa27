package errors_test

import (
	"fmt"
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

var _ = Describe("APIError", func() {
	DescribeTable("status predicates see through wrapping",
		func(status int, notFound, unauthorized, forbidden, validation bool) {
			err := fmt.Errorf("check failed: %w", srvErrors.NewAPIError("GET", "/x", status, nil))

			Expect(srvErrors.StatusCode(err)).To(Equal(status))
			Expect(srvErrors.IsNotFound(err)).To(Equal(notFound))
			Expect(srvErrors.IsUnauthorized(err)).To(Equal(unauthorized))
			Expect(srvErrors.IsForbidden(err)).To(Equal(forbidden))
			Expect(srvErrors.IsValidation(err)).To(Equal(validation))
		},
		Entry("400", 400, false, false, false, true),
		Entry("401", 401, false, true, false, false),
		Entry("403", 403, false, false, true, false),
		Entry("404", 404, true, false, false, false),
		Entry("422", 422, false, false, false, true),
		Entry("500", 500, false, false, false, false),
	)

	It("should report 0 for other errors", func() {
		Expect(srvErrors.StatusCode(fmt.Errorf("dial tcp: refused"))).To(BeZero())
		Expect(srvErrors.StatusCode(nil)).To(BeZero())
	})

	It("should truncate long bodies in the message", func() {
		err := srvErrors.NewAPIError("POST", "/api/listings", 500, []byte(strings.Repeat("x", 500)))
		Expect(err.Error()).To(HavePrefix("POST /api/listings: unexpected status 500: "))
		Expect(err.Error()).To(HaveSuffix("..."))
		Expect(len(err.Error())).To(BeNumerically("<", 260))
	})

	It("should cut long multibyte bodies on rune boundaries", func() {
		err := srvErrors.NewAPIError("GET", "/api/baskets", 502, []byte(strings.Repeat("ü", 300)))
		msg := err.Error()
		Expect(utf8.ValidString(msg)).To(BeTrue())
		Expect(msg).To(HaveSuffix(strings.Repeat("ü", 3) + "..."))
		Expect(strings.Count(msg, "ü")).To(Equal(200))
	})
})

var _ = Describe("typed errors", func() {
	It("should match only their own type", func() {
		notFound := fmt.Errorf("get: %w", srvErrors.NewRunNotFoundError("abc"))
		Expect(srvErrors.IsResourceNotFoundError(notFound)).To(BeTrue())
		Expect(notFound.Error()).To(ContainSubstring(`run "abc" not found`))
		Expect(srvErrors.IsAssertionError(notFound)).To(BeFalse())

		Expect(srvErrors.IsAssertionError(srvErrors.NewAssertionError("expected %d", 1))).To(BeTrue())
		Expect(srvErrors.IsUnknownSuiteError(srvErrors.NewUnknownSuiteError("x"))).To(BeTrue())
		Expect(srvErrors.IsUnknownTargetError(srvErrors.NewUnknownTargetError("x"))).To(BeTrue())
		Expect(srvErrors.IsUnknownTargetError(srvErrors.NewUnknownSuiteError("x"))).To(BeFalse())
	})

	It("should describe run failures", func() {
		err := srvErrors.NewRunFailedError("2 of 10 checks failed", 2, 80)
		Expect(err.Error()).To(Equal("run failed: 2 of 10 checks failed (2 failed, success rate 80.0%)"))
		Expect(srvErrors.IsRunFailedError(fmt.Errorf("wrapped: %w", err))).To(BeTrue())
	})
})
