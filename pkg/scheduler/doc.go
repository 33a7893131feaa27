// Package scheduler implements the worker pool the runner uses to execute suites.
//
// A Scheduler owns a fixed pool of workers. Work submitted with AddWork is queued
// in submission order and handed to the first idle worker. Every submission
// returns a Future that yields exactly one Result.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                        Scheduler[T]                           │
//	│                                                               │
//	│   ┌──────────┐        ┌──────────┐        ┌──────────┐        │
//	│   │ worker 1 │        │ worker 2 │        │ worker N │        │
//	│   └────▲─────┘        └────▲─────┘        └────▲─────┘        │
//	│        └───────────────────┼───────────────────┘              │
//	│                      dispatch()                               │
//	│                            ▲                                  │
//	│   ┌────────────────────────┴─────────────────────────┐        │
//	│   │ pending: [suite auth] [suite baskets] ...        │        │
//	│   └──────────────────────────────────────────────────┘        │
//	│                            ▲                                  │
//	│                  AddWork(name, fn)                            │
//	└───────────────────────────────────────────────────────────────┘
//
// # Event Loop
//
// The run loop reacts to three events:
//
//	for {
//	    select {
//	    case r := <-s.work:   // new work: queue it, try to dispatch
//	    case <-s.done:        // a worker finished: return it to the pool, dispatch
//	    case <-s.close:       // shutdown: fail pending work, wait for running work
//	    }
//	}
//
// # Results
//
// Result carries the submission name next to the data so callers collecting
// several futures can tell them apart. A panicking work function is recovered
// and reported as an error result; the worker goes back to the pool.
//
// # Cancellation
//
//	future.Stop()     → cancels the context of that work only
//	scheduler.Close() → cancels every work context, answers queued work with
//	                    context.Canceled and waits for running work
//	parent ctx done   → same as Close for the contexts, the loop keeps running
//	                    until Close is called
//
// Close is idempotent.
//
// # Usage Example
//
//	sched := scheduler.New[int](ctx, 2)
//	defer sched.Close()
//
//	f := sched.AddWork("answer", func(ctx context.Context) (int, error) {
//	    return 42, nil
//	})
//
//	res, err := f.Wait(ctx)
package scheduler
