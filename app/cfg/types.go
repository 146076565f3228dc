package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	Port          string
	WorkerCount   int
	QueueSize     int
	PruneSchedule string
	APIAccessKey  string

	// Fetch configuration
	UserAgent    string
	FetchTimeout int // seconds
	MaxRedirects int
	MaxBodyBytes int64

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
