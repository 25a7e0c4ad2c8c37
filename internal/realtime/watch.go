package realtime

import "context"

// Snapshot is one delivery of a watched query.
type Snapshot[T any] struct {
	Data T
	Err  error
}

// Watch delivers load's result immediately and again after every change on
// topic, until ctx is cancelled. A load error is delivered once and ends the
// stream. The returned channel is closed when the watch stops.
func Watch[T any](ctx context.Context, hub *Hub, topic string, load func(context.Context) (T, error)) <-chan Snapshot[T] {
	out := make(chan Snapshot[T])
	sub := hub.Subscribe(topic)

	go func() {
		defer close(out)
		defer sub.Close()

		for {
			data, err := load(ctx)
			if ctx.Err() != nil {
				return
			}
			select {
			case out <- Snapshot[T]{Data: data, Err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}

			select {
			case <-sub.C():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
