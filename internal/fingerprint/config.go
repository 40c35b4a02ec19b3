package fingerprint

// Mode selects how much of the track the analyzer scans.
type Mode int

const (
	// FullTrack analyzes the entire input buffer.
	FullTrack Mode = iota
	// Sampling concatenates fixed-length windows at regular intervals,
	// bounding work on long tracks.
	Sampling
)

// Config controls analyzer behavior, set once at construction.
type Config struct {
	Mode Mode

	// FFTSize is the frame size used for all spectral sub-features.
	FFTSize int

	// WindowSeconds is the duration of each analyzed window in Sampling mode.
	WindowSeconds float64
	// IntervalSeconds is the spacing between successive window starts in
	// Sampling mode (default 20s per the component contract).
	IntervalSeconds float64

	// MinSamples is the minimum frame count below which the analyzer
	// returns all-neutral values rather than computing features.
	MinSamples int
}

// DefaultConfig returns the analyzer defaults from the component contract.
func DefaultConfig() Config {
	return Config{
		Mode:            FullTrack,
		FFTSize:         4096,
		WindowSeconds:   5.0,
		IntervalSeconds: 20.0,
		MinSamples:      2048,
	}
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithMode sets the analysis mode.
func WithMode(m Mode) Option { return func(c *Config) { c.Mode = m } }

// WithFFTSize overrides the spectral frame size.
func WithFFTSize(n int) Option { return func(c *Config) { c.FFTSize = n } }

// WithSampling configures the window/interval pair used in Sampling mode.
func WithSampling(windowSeconds, intervalSeconds float64) Option {
	return func(c *Config) {
		c.Mode = Sampling
		c.WindowSeconds = windowSeconds
		c.IntervalSeconds = intervalSeconds
	}
}
