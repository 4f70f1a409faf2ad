package realtime

import "time"

// Config holds connection tuning shared by SSE and WebSocket clients
type Config struct {
	// SendBufferSize is the number of outbound messages queued per client
	// before further messages are dropped
	SendBufferSize int
	// WriteWait bounds a single socket write
	WriteWait time.Duration
	// PingPeriod is the keepalive interval
	PingPeriod time.Duration
	// PongWait is how long a socket may stay silent before it is dropped
	PongWait time.Duration
	// MaxMessageSize caps inbound socket frames, in bytes
	MaxMessageSize int64
	// CommandRate and CommandBurst limit inbound socket commands per connection
	CommandRate  float64
	CommandBurst int
	// HubSweepInterval is how often hubs without clients are removed.
	// Zero disables the sweep.
	HubSweepInterval time.Duration
}

// DefaultConfig returns the default realtime configuration
func DefaultConfig() Config {
	return Config{
		SendBufferSize: 256,
		WriteWait:      10 * time.Second,
		PingPeriod:     30 * time.Second,
		PongWait:       60 * time.Second,
		MaxMessageSize: 4096,
		CommandRate:    5,
		CommandBurst:   10,

		HubSweepInterval: 5 * time.Minute,
	}
}
