package dispatch

// Config holds configuration for the main dispatch queue.
type Config struct {
	// QueueSize is how many closures may wait before submitters block.
	QueueSize int `mapstructure:"queue_size" default:"64"`
}
