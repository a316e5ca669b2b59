package approvals

import (
	"context"
	"fmt"

	"github.com/tonytrieu-dev/approval-workflow-service/service/engine"
	"github.com/tonytrieu-dev/approval-workflow-service/service/messaging"
	"github.com/tonytrieu-dev/approval-workflow-service/service/notifier"
	"github.com/tonytrieu-dev/approval-workflow-service/service/store"
	fsstore "github.com/tonytrieu-dev/approval-workflow-service/service/store/fs"
	memstore "github.com/tonytrieu-dev/approval-workflow-service/service/store/memory"
	"github.com/tonytrieu-dev/approval-workflow-service/service/sweeper"
)

// Runtime assembles the approval service: request store, notification
// dispatcher, lifecycle engine and timeout sweeper. The runtime itself
// holds no record state – all coordination lives in the store, so several
// runtimes may share one store backend.
type Runtime struct {
	config     *Config
	store      store.Service
	dispatcher notifier.Dispatcher
	queueSink  *notifier.QueueSink
	engine     engine.Service
	sweeper    *sweeper.Service
}

// New builds a runtime from configuration and options. Defaults: memory
// store, log-line notifications, 30s sweep cadence.
func New(options ...Option) (*Runtime, error) {
	ret := &Runtime{config: DefaultConfig()}
	for _, option := range options {
		option(ret)
	}
	if err := ret.config.Validate(); err != nil {
		return nil, err
	}
	if err := ret.init(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (r *Runtime) init() error {
	if r.store == nil {
		requestStore, err := r.newStore()
		if err != nil {
			return err
		}
		r.store = requestStore
	}
	if r.dispatcher == nil {
		r.dispatcher = r.newDispatcher()
	}
	engineService, err := engine.New(r.store, engine.WithDispatcher(r.dispatcher))
	if err != nil {
		return err
	}
	r.engine = engineService

	interval, err := r.config.Sweeper.interval()
	if err != nil {
		return err
	}
	r.sweeper = sweeper.New(r.engine, sweeper.WithInterval(interval))
	return nil
}

func (r *Runtime) newStore() (store.Service, error) {
	switch r.config.Store.Vendor {
	case "", StoreVendorMemory:
		return memstore.New(), nil
	case StoreVendorFs:
		return fsstore.New(r.config.Store.BaseURL)
	}
	return nil, fmt.Errorf("unsupported store vendor: %s", r.config.Store.Vendor)
}

func (r *Runtime) newDispatcher() notifier.Dispatcher {
	var sinks notifier.Multi
	for _, name := range r.config.Notifier.Sinks {
		switch name {
		case SinkLog:
			sinks = append(sinks, &notifier.Log{})
		case SinkQueue:
			r.queueSink = notifier.NewMemoryQueueSink()
			sinks = append(sinks, r.queueSink)
		case SinkWebhook:
			sinks = append(sinks, notifier.NewWebhook(r.config.Notifier.WebhookURL))
		}
	}
	if len(sinks) == 0 {
		return &notifier.Log{}
	}
	if len(sinks) == 1 {
		return sinks[0]
	}
	return sinks
}

// Start launches the timeout sweeper.
func (r *Runtime) Start(ctx context.Context) {
	r.sweeper.Start(ctx)
}

// Shutdown stops the sweeper, letting an in-flight cycle finish.
func (r *Runtime) Shutdown() {
	r.sweeper.Shutdown()
}

// Engine returns the lifecycle engine – the surface API layers call.
func (r *Runtime) Engine() engine.Service {
	return r.engine
}

// Store returns the request store.
func (r *Runtime) Store() store.Service {
	return r.store
}

// Sweeper returns the timeout sweeper, e.g. to drive RunCycle from a host
// scheduler instead of Start's internal ticker.
func (r *Runtime) Sweeper() *sweeper.Service {
	return r.sweeper
}

// EventQueue exposes the lifecycle-event queue when the queue sink is
// configured, nil otherwise.
func (r *Runtime) EventQueue() messaging.Queue[notifier.Event] {
	if r.queueSink == nil {
		return nil
	}
	return r.queueSink.Queue()
}
