package audit

import (
	"context"

	"github.com/y149604146/qwen-agent-scheduler/internal/domain/method"
	"github.com/y149604146/qwen-agent-scheduler/internal/infra/eventbus"
)

// Recorder consumes engine and registrar events off the bus and appends them
// to the audit log. Run it on its own goroutine; it exits when ctx is done.
type Recorder struct {
	service *Service
}

// NewRecorder creates a Recorder writing through the given service.
func NewRecorder(service *Service) *Recorder {
	return &Recorder{service: service}
}

// Start subscribes to the registration and invocation topics and records
// every event until ctx is cancelled. Write failures are swallowed: the
// audit trail is an observer and must never disturb the call path.
func (r *Recorder) Start(ctx context.Context, bus eventbus.EventBus) {
	invoked := bus.Subscribe(method.TopicMethodInvoked)
	registered := bus.Subscribe(method.TopicMethodRegistered)
	removed := bus.Subscribe(method.TopicMethodRemoved)

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-invoked:
			if payload, ok := evt.Payload.(method.InvokedEvent); ok {
				_ = r.service.Record(ctx, Entry{
					Action:     ActionInvoked,
					MethodName: payload.Method,
					Success:    payload.Success,
					ErrorKind:  string(payload.ErrorKind),
					DurationMS: payload.Duration.Milliseconds(),
				})
			}
		case evt := <-registered:
			if payload, ok := evt.Payload.(method.RegisteredEvent); ok {
				_ = r.service.Record(ctx, Entry{
					Action:     ActionRegistered,
					MethodName: payload.Method,
					Success:    true,
					Detail:     payload.Locator.String(),
				})
			}
		case evt := <-removed:
			if payload, ok := evt.Payload.(method.RegisteredEvent); ok {
				_ = r.service.Record(ctx, Entry{
					Action:     ActionRemoved,
					MethodName: payload.Method,
					Success:    true,
				})
			}
		}
	}
}
