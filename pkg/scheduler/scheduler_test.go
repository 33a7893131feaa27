package scheduler_test

import (
	"context"
	"errors"
	"runtime"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cataloro/cataloro-probe/pkg/scheduler"
)

var _ = Describe("Scheduler", func() {
	var s *scheduler.Scheduler[string]

	AfterEach(func() {
		if s != nil {
			s.Close()
		}
	})

	Describe("AddWork", func() {
		It("should return a future carrying the work name and data", func() {
			s = scheduler.New[string](context.Background(), 1)

			future := s.AddWork("greeting", func(ctx context.Context) (string, error) {
				return "done", nil
			})
			Expect(future).NotTo(BeNil())

			var result scheduler.Result[string]
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Name).To(Equal("greeting"))
			Expect(result.Data).To(Equal("done"))
			Expect(result.Err).NotTo(HaveOccurred())
		})

		It("should propagate the work error", func() {
			s = scheduler.New[string](context.Background(), 1)
			boom := errors.New("boom")

			future := s.AddWork("failing", func(ctx context.Context) (string, error) {
				return "", boom
			})

			res, err := future.Wait(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Err).To(MatchError(boom))
		})

		It("should treat a zero worker count as one worker", func() {
			s = scheduler.New[string](context.Background(), 0)

			future := s.AddWork("single", func(ctx context.Context) (string, error) {
				return "ok", nil
			})

			res, err := future.Wait(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Data).To(Equal("ok"))
		})
	})

	Describe("Run work", func() {
		It("should execute multiple work items", func() {
			s = scheduler.New[string](context.Background(), 2)

			results := make(chan int, 3)
			for i := range 3 {
				s.AddWork("item", func(ctx context.Context) (string, error) {
					results <- i
					return "", nil
				})
			}

			Eventually(func() int {
				return len(results)
			}, 2*time.Second, 100*time.Millisecond).Should(Equal(3))
		})

		It("should run work in submission order with a single worker", func() {
			s = scheduler.New[string](context.Background(), 1)

			order := make(chan string, 3)
			var futures []*scheduler.Future[scheduler.Result[string]]
			for _, name := range []string{"a", "b", "c"} {
				futures = append(futures, s.AddWork(name, func(ctx context.Context) (string, error) {
					order <- name
					return name, nil
				}))
			}
			for _, f := range futures {
				_, err := f.Wait(context.Background())
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(<-order).To(Equal("a"))
			Expect(<-order).To(Equal("b"))
			Expect(<-order).To(Equal("c"))
		})

		It("should recover a panicking work function and keep the worker", func() {
			s = scheduler.New[string](context.Background(), 1)

			panicking := s.AddWork("panics", func(ctx context.Context) (string, error) {
				panic("kaboom")
			})
			res, err := panicking.Wait(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Err).To(MatchError(ContainSubstring("worker panicked: kaboom")))

			next := s.AddWork("after", func(ctx context.Context) (string, error) {
				return "still alive", nil
			})
			res, err = next.Wait(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Data).To(Equal("still alive"))
		})
	})

	Describe("Cancel work", func() {
		It("should cancel work via future.Stop()", func() {
			s = scheduler.New[string](context.Background(), 1)

			cancelled := make(chan bool, 1)
			future := s.AddWork("slow", func(ctx context.Context) (string, error) {
				select {
				case <-ctx.Done():
					cancelled <- true
					return "", ctx.Err()
				case <-time.After(5 * time.Second):
					return "completed", nil
				}
			})
			time.Sleep(100 * time.Millisecond)
			future.Stop()

			Eventually(cancelled, 2*time.Second).Should(Receive(BeTrue()))
		})

		It("should cancel work when the parent context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			s = scheduler.New[string](ctx, 1)

			future := s.AddWork("slow", func(ctx context.Context) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			})
			cancel()

			var result scheduler.Result[string]
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(context.Canceled))
		})

		It("should stop waiting when the wait context expires", func() {
			s = scheduler.New[string](context.Background(), 1)

			future := s.AddWork("slow", func(ctx context.Context) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			})

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			_, err := future.Wait(ctx)
			Expect(err).To(MatchError(context.DeadlineExceeded))
		})
	})

	Describe("Close behavior", func() {
		It("should return canceled when AddWork is called after Close", func() {
			s = scheduler.New[string](context.Background(), 1)
			s.Close()

			future := s.AddWork("late", func(ctx context.Context) (string, error) {
				return "done", nil
			})

			var result scheduler.Result[string]
			Eventually(future.C(), 1*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(context.Canceled))
		})

		It("should answer queued work with canceled on Close", func() {
			s = scheduler.New[string](context.Background(), 1)

			started := make(chan struct{})
			s.AddWork("blocking", func(ctx context.Context) (string, error) {
				close(started)
				<-ctx.Done()
				return "", ctx.Err()
			})
			Eventually(started, 1*time.Second).Should(BeClosed())

			queued := s.AddWork("queued", func(ctx context.Context) (string, error) {
				return "never", nil
			})

			s.Close()
			s = nil

			var result scheduler.Result[string]
			Eventually(queued.C(), 1*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(context.Canceled))
		})

		It("should wait for in-flight work to finish on Close", func() {
			s = scheduler.New[string](context.Background(), 1)

			started := make(chan struct{})
			unblock := make(chan struct{})
			s.AddWork("in-flight", func(ctx context.Context) (string, error) {
				close(started)
				<-unblock
				return "done", nil
			})
			Eventually(started, 1*time.Second).Should(BeClosed())

			closeDone := make(chan struct{})
			go func() {
				s.Close()
				close(closeDone)
			}()

			Consistently(closeDone, 200*time.Millisecond).ShouldNot(BeClosed())
			close(unblock)
			Eventually(closeDone, 1*time.Second).Should(BeClosed())
			s = nil
		})

		It("should not leak goroutines after Close under load", func() {
			base := runtime.NumGoroutine()
			s = scheduler.New[string](context.Background(), 4)

			for i := 0; i < 200; i++ {
				s.AddWork("load", func(ctx context.Context) (string, error) {
					<-ctx.Done()
					return "", ctx.Err()
				})
			}

			time.Sleep(100 * time.Millisecond)
			s.Close()
			s = nil

			Eventually(func() int {
				return runtime.NumGoroutine()
			}, 5*time.Second, 100*time.Millisecond).Should(BeNumerically("<=", base+10))
		})
	})
})
