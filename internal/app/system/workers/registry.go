package workers

import (
	"sync"

	"go.uber.org/zap"
)

// Worker is a background task with a start/stop lifecycle.
type Worker interface {
	Name() string
	Start()
	Stop()
}

// Registry starts workers and stops them in reverse order on shutdown.
type Registry struct {
	mu      sync.Mutex
	workers []Worker
	log     *zap.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{log: logger}
}

// Start starts w and remembers it for StopAll.
func (r *Registry) Start(w Worker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.Start()
	r.workers = append(r.workers, w)
}

// StopAll stops every started worker, last started first.
func (r *Registry) StopAll() {
	r.mu.Lock()
	ws := r.workers
	r.workers = nil
	r.mu.Unlock()

	for i := len(ws) - 1; i >= 0; i-- {
		r.log.Debug("stopping worker", zap.String("worker", ws[i].Name()))
		ws[i].Stop()
	}
}
