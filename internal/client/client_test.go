package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cataloro/cataloro-probe/internal/client"
	"github.com/cataloro/cataloro-probe/internal/models"
	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

var _ = Describe("Client", func() {
	Context("New", func() {
		DescribeTable("should normalize the base url",
			func(in, want string) {
				c, err := client.New(in)
				Expect(err).NotTo(HaveOccurred())
				Expect(c.BaseURL()).To(Equal(want))
			},
			Entry("bare host", "https://shop.example.com", "https://shop.example.com/api"),
			Entry("trailing slash", "https://shop.example.com/", "https://shop.example.com/api"),
			Entry("api suffix", "https://shop.example.com/api", "https://shop.example.com/api"),
			Entry("api suffix with slash", "https://shop.example.com/api/", "https://shop.example.com/api"),
			Entry("sub path", "http://localhost:8001/preview", "http://localhost:8001/preview/api"),
		)

		DescribeTable("should reject invalid urls",
			func(in string) {
				_, err := client.New(in)
				Expect(err).To(HaveOccurred())
			},
			Entry("no scheme", "shop.example.com"),
			Entry("ftp", "ftp://shop.example.com"),
			Entry("no host", "https://"),
		)
	})

	Context("requests", func() {
		var (
			ts       *httptest.Server
			lastAuth atomic.Value
			lastUA   atomic.Value
		)

		BeforeEach(func() {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
				lastAuth.Store(r.Header.Get("Authorization"))
				lastUA.Store(r.Header.Get("User-Agent"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"status":"healthy","version":"1.2.3"}`))
			})
			mux.HandleFunc("/api/listings/missing", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"detail":"Listing not found"}`))
			})
			ts = httptest.NewServer(mux)
		})

		AfterEach(func() {
			ts.Close()
		})

		It("should decode 2xx answers", func() {
			c, err := client.New(ts.URL, client.WithUserAgent("probe-test"))
			Expect(err).NotTo(HaveOccurred())

			h, err := c.Health(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Version).To(Equal("1.2.3"))
			Expect(lastUA.Load()).To(Equal("probe-test"))
			Expect(lastAuth.Load()).To(Equal(""))
		})

		// Given a client without token
		// When WithToken is called
		// Then the copy authenticates and the original does not
		It("should not mutate the receiver in WithToken", func() {
			c, err := client.New(ts.URL)
			Expect(err).NotTo(HaveOccurred())

			authed := c.WithToken("abc")
			_, err = authed.Health(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(lastAuth.Load()).To(Equal("Bearer abc"))

			_, err = c.Health(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(lastAuth.Load()).To(Equal(""))
			Expect(c.Token()).To(BeEmpty())
		})

		It("should turn non-2xx answers into APIError", func() {
			c, err := client.New(ts.URL)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.GetListing(context.Background(), "missing")
			Expect(srvErrors.IsNotFound(err)).To(BeTrue())

			var apiErr *srvErrors.APIError
			Expect(err).To(BeAssignableToTypeOf(apiErr))
			Expect(err.Error()).To(ContainSubstring("Listing not found"))
		})

		It("should return non-2xx answers from Raw without error", func() {
			c, err := client.New(ts.URL)
			Expect(err).NotTo(HaveOccurred())

			resp, err := c.Raw(context.Background(), http.MethodGet, "/listings/missing", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))

			body, err := resp.Object()
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(HaveKeyWithValue("detail", "Listing not found"))
		})

		It("should wrap transport errors", func() {
			c, err := client.New("http://127.0.0.1:1", client.WithTimeout(time.Second))
			Expect(err).NotTo(HaveOccurred())

			_, err = c.Health(context.Background())
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.StatusCode(err)).To(BeZero())
		})
	})

	Context("WaitReady", func() {
		It("should retry until the backend answers", func() {
			var calls atomic.Int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) < 3 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				_, _ = w.Write([]byte(`{"status":"healthy"}`))
			}))
			defer ts.Close()

			c, err := client.New(ts.URL)
			Expect(err).NotTo(HaveOccurred())

			h, err := c.WaitReady(context.Background(), 20*time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Status).To(Equal("healthy"))
			Expect(calls.Load()).To(BeEquivalentTo(3))
		})

		It("should stop at once on a 404", func() {
			var calls atomic.Int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusNotFound)
			}))
			defer ts.Close()

			c, err := client.New(ts.URL)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.WaitReady(context.Background(), 20*time.Second)
			Expect(srvErrors.IsNotFound(err)).To(BeTrue())
			Expect(calls.Load()).To(BeEquivalentTo(1))
		})

		It("should give up after the max wait", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer ts.Close()

			c, err := client.New(ts.URL)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.WaitReady(context.Background(), time.Second)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("not ready after"))
		})
	})

	Context("browse parameters", func() {
		It("should send only the filters that are set", func() {
			var query atomic.Value
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				query.Store(r.URL.Query())
				_, _ = w.Write([]byte(`{"listings":[],"total":0,"page":1,"limit":5}`))
			}))
			defer ts.Close()

			c, err := client.New(ts.URL)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.Browse(context.Background(), models.BrowseQuery{Query: "bmw", PriceFrom: 12.5, Limit: 5})
			Expect(err).NotTo(HaveOccurred())

			q := query.Load().(url.Values)
			Expect(q).To(HaveKeyWithValue("q", []string{"bmw"}))
			Expect(q).To(HaveKeyWithValue("price_from", []string{"12.5"}))
			Expect(q).To(HaveKeyWithValue("limit", []string{"5"}))
			Expect(q).NotTo(HaveKey("category"))
			Expect(q).NotTo(HaveKey("page"))
		})
	})
})
