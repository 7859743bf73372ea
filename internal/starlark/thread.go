package starlark

import (
	"sync"

	"go.starlark.net/starlark"
)

// DefaultStepBudget bounds the work one rule script call may do.
const DefaultStepBudget = 1_000_000

// ThreadPool manages a pool of Starlark threads so rule scripts can run from
// several sorting goroutines at once. A thread is used by one goroutine at a
// time.
type ThreadPool struct {
	mu         sync.Mutex
	threads    []*starlark.Thread
	maxSize    int
	stepBudget uint64
	print      func(thread *starlark.Thread, msg string)
}

// NewThreadPool creates a new thread pool with the specified maximum size.
// print receives script print() output; nil discards it.
func NewThreadPool(maxSize int, print func(*starlark.Thread, string)) *ThreadPool {
	if maxSize <= 0 {
		maxSize = 10
	}
	if print == nil {
		print = func(*starlark.Thread, string) {}
	}
	return &ThreadPool{
		threads:    make([]*starlark.Thread, 0, maxSize),
		maxSize:    maxSize,
		stepBudget: DefaultStepBudget,
		print:      print,
	}
}

// Get retrieves a thread from the pool or creates a new one, with a fresh
// step budget. The thread name is used for error reporting.
func (p *ThreadPool) Get(name string) *starlark.Thread {
	p.mu.Lock()
	var thread *starlark.Thread
	if n := len(p.threads); n > 0 {
		thread = p.threads[n-1]
		p.threads = p.threads[:n-1]
	}
	p.mu.Unlock()

	if thread == nil {
		thread = &starlark.Thread{Print: p.print}
	}
	thread.Name = name
	thread.SetMaxExecutionSteps(thread.ExecutionSteps() + p.stepBudget)
	return thread
}

// Put returns a thread to the pool for reuse.
// If the pool is full, the thread is discarded.
func (p *ThreadPool) Put(thread *starlark.Thread) {
	thread.Uncancel()
	thread.Name = ""

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.threads) < p.maxSize {
		p.threads = append(p.threads, thread)
	}
}

// Size returns the current number of threads in the pool.
func (p *ThreadPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.threads)
}
