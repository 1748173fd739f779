package loader

import "sync"

// queue collects callbacks from loader goroutines for the main thread
type queue struct {
	mu    sync.Mutex
	tasks []func()
}

func (q *queue) post(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
}

// drain runs queued callbacks in order on the calling goroutine
func (q *queue) drain() int {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}
