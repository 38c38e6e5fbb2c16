package provision

import (
	"io"
	"time"
)

// DefaultSettleDelay is how long the device is given to reboot after a
// flash or a config push with reset.
const DefaultSettleDelay = 5 * time.Second

// Config holds the Provisioner configuration.
type Config struct {
	// StatusCallback is called on every step state change (optional)
	StatusCallback StatusCallback

	// Logger is used for diagnostics (optional)
	Logger Logger

	// Output receives tool output and old/new field values for the
	// operator (optional)
	Output io.Writer

	// SettleDelay is the fixed reset wait
	SettleDelay time.Duration
}

func defaultConfig() Config {
	return Config{
		SettleDelay: DefaultSettleDelay,
	}
}

// Option is a functional option for configuring the Provisioner.
type Option func(*Config)

// WithStatusCallback sets a callback to track step status.
func WithStatusCallback(callback StatusCallback) Option {
	return func(c *Config) {
		c.StatusCallback = callback
	}
}

// WithLogger sets a logger for the provisioning operations.
//
// Example:
//
//	prov := provision.New(paths, runner, provision.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithToolOutput sets where tool output and field changes are echoed.
//
// Example:
//
//	prov := provision.New(paths, runner, provision.WithToolOutput(os.Stdout))
func WithToolOutput(w io.Writer) Option {
	return func(c *Config) {
		c.Output = w
	}
}

// WithSettleDelay sets the reset wait. Negative values are ignored; zero
// disables the wait, which is only useful in tests.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.SettleDelay = d
		}
	}
}
