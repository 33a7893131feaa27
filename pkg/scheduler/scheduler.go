package scheduler

import (
	"context"
	"fmt"
	"sync"
)

type queue[T any] []T

func (q *queue[T]) Len() int { return len(*q) }

func (q *queue[T]) Pop() T {
	old := *q
	x := old[0]
	*q = old[1:]
	return x
}

func (q *queue[T]) Push(t T) {
	*q = append(*q, t)
}

type request[T any] struct {
	name string
	fn   Work[T]
	c    chan Result[T]
	ctx  context.Context
}

type worker[T any] struct {
	done chan struct{}
	wg   *sync.WaitGroup
}

func (w worker[T]) run(r request[T]) {
	defer func() {
		if rec := recover(); rec != nil {
			r.c <- Result[T]{Name: r.name, Err: fmt.Errorf("%s: worker panicked: %v", r.name, rec)}
		}
		w.done <- struct{}{}
		w.wg.Done()
	}()

	if err := r.ctx.Err(); err != nil {
		r.c <- Result[T]{Name: r.name, Err: err}
		return
	}

	v, err := r.fn(r.ctx)
	r.c <- Result[T]{Name: r.name, Data: v, Err: err}
}

// Scheduler runs submitted work on a fixed number of workers.
// Work is dispatched in submission order.
type Scheduler[T any] struct {
	workers    *queue[worker[T]]
	pending    *queue[request[T]]
	close      chan struct{}
	done       chan struct{}
	exited     chan struct{}
	work       chan request[T]
	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

// New starts a scheduler with nbWorkers workers. Values lower than 1 are treated as 1.
// Cancelling parent cancels every piece of work, queued or running.
func New[T any](parent context.Context, nbWorkers int) *Scheduler[T] {
	if nbWorkers < 1 {
		nbWorkers = 1
	}
	ctx, cancel := context.WithCancel(parent)
	s := &Scheduler[T]{
		workers:    &queue[worker[T]]{},
		pending:    &queue[request[T]]{},
		close:      make(chan struct{}),
		done:       make(chan struct{}, nbWorkers),
		exited:     make(chan struct{}),
		work:       make(chan request[T]),
		mainCtx:    ctx,
		mainCancel: cancel,
	}
	for range nbWorkers {
		s.workers.Push(worker[T]{done: s.done, wg: &s.wg})
	}
	go s.run()
	return s
}

// AddWork queues fn under name and returns a future for its result.
// After Close the future immediately yields context.Canceled.
func (s *Scheduler[T]) AddWork(name string, fn Work[T]) *Future[Result[T]] {
	c := make(chan Result[T], 1)
	ctx, cancel := context.WithCancel(s.mainCtx)

	select {
	case <-s.mainCtx.Done():
		c <- Result[T]{Name: name, Err: context.Canceled}
	case s.work <- request[T]{name: name, fn: fn, c: c, ctx: ctx}:
	}

	return NewFuture(c, cancel)
}

// Close cancels outstanding work and waits for running workers to return.
func (s *Scheduler[T]) Close() {
	s.once.Do(func() {
		s.mainCancel()
		s.close <- struct{}{}
		<-s.exited
	})
}

func (s *Scheduler[T]) run() {
	defer close(s.exited)
	for {
		select {
		case r := <-s.work:
			s.pending.Push(r)
			s.dispatch()
		case <-s.done:
			s.workers.Push(worker[T]{done: s.done, wg: &s.wg})
			s.dispatch()
		case <-s.close:
			// queued work never started: answer it so no future blocks forever
			for s.pending.Len() > 0 {
				r := s.pending.Pop()
				r.c <- Result[T]{Name: r.name, Err: context.Canceled}
			}
			s.wg.Wait()
			return
		}
	}
}

// dispatch pairs idle workers with pending requests
func (s *Scheduler[T]) dispatch() {
	for s.workers.Len() > 0 && s.pending.Len() > 0 {
		r := s.pending.Pop()
		w := s.workers.Pop()
		s.wg.Add(1)
		go w.run(r)
	}
}
