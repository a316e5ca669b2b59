package approvals

import (
	"github.com/tonytrieu-dev/approval-workflow-service/service/notifier"
	"github.com/tonytrieu-dev/approval-workflow-service/service/store"
)

// Option customises runtime assembly.
type Option func(*Runtime)

// WithConfig supplies a full configuration; missing fields keep their
// defaults.
func WithConfig(config *Config) Option {
	return func(r *Runtime) {
		if config != nil {
			r.config = config
		}
	}
}

// WithStore injects a request store, overriding the configured vendor.
// Use it to plug a replicated-database backend satisfying the store
// contract.
func WithStore(requestStore store.Service) Option {
	return func(r *Runtime) { r.store = requestStore }
}

// WithDispatcher injects a notification dispatcher, overriding the
// configured sinks.
func WithDispatcher(dispatcher notifier.Dispatcher) Option {
	return func(r *Runtime) { r.dispatcher = dispatcher }
}
