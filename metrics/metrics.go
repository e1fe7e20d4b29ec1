// Package metrics defines the recording contract for gateway
// observability, with prometheus and no-op implementations.
package metrics

import "time"

type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
