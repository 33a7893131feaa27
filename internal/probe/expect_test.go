package probe_test

import (
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cataloro/cataloro-probe/internal/client"
	"github.com/cataloro/cataloro-probe/internal/probe"
	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

var _ = Describe("Expectations", func() {
	It("should check status codes", func() {
		resp := &client.Response{StatusCode: http.StatusCreated}
		Expect(probe.ExpectStatus(resp, http.StatusOK, http.StatusCreated)).To(Succeed())

		err := probe.ExpectStatus(resp, http.StatusOK)
		Expect(srvErrors.IsAssertionError(err)).To(BeTrue())
		Expect(probe.ExpectStatus(nil, http.StatusOK)).NotTo(Succeed())
	})

	It("should list every missing key", func() {
		err := probe.ExpectKeys(map[string]any{"token": "x"}, "token", "user", "expires")
		Expect(err).To(MatchError(ContainSubstring("user, expires")))
		Expect(probe.ExpectKeys(map[string]any{"token": "x"}, "token")).To(Succeed())
	})

	DescribeTable("ExpectAPIStatus",
		func(err error, want int, ok bool) {
			if ok {
				Expect(probe.ExpectAPIStatus(err, want)).To(Succeed())
			} else {
				Expect(probe.ExpectAPIStatus(err, want)).NotTo(Succeed())
			}
		},
		Entry("matching status", srvErrors.NewAPIError("POST", "/auth/login", 401, nil), 401, true),
		Entry("other status", srvErrors.NewAPIError("POST", "/auth/login", 500, nil), 401, false),
		Entry("success", nil, 401, false),
		Entry("transport error", errors.New("connection refused"), 401, false),
	)

	It("should accept both validation statuses as rejection", func() {
		Expect(probe.ExpectRejected(srvErrors.NewAPIError("POST", "/x", 400, nil))).To(Succeed())
		Expect(probe.ExpectRejected(srvErrors.NewAPIError("POST", "/x", 422, nil))).To(Succeed())
		Expect(probe.ExpectRejected(srvErrors.NewAPIError("POST", "/x", 500, nil))).NotTo(Succeed())
		Expect(probe.ExpectRejected(nil)).NotTo(Succeed())
	})

	It("should compare amounts within tolerance", func() {
		Expect(probe.ExpectNear("total", 10.004, 10, 0.01)).To(Succeed())
		Expect(probe.ExpectNear("total", 10.2, 10, 0.01)).NotTo(Succeed())
	})
})
