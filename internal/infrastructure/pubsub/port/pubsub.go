package port

import "context"

// Bus is the minimal publish/subscribe contract used to fan realtime frames
// out across hub nodes. Implementations must be concurrency-safe.
//
// Delivery is at-least-once at best: subscribers must tolerate duplicates
// and missed payloads, which the conversation core already does by
// reconciling from REST fetches.
type Bus interface {
	// Publish sends payload to every subscriber of topic, including ones on
	// other processes.
	Publish(ctx context.Context, topic string, payload []byte) error

	// Subscribe returns a channel of payloads published to topic. The channel
	// is closed when ctx is canceled or the underlying subscription dies.
	Subscribe(ctx context.Context, topic string) (<-chan []byte, error)

	// Close releases any resources held by the bus.
	Close() error
}
