package provision

// State is the outcome shown next to a status label.
type State int

// States, in the order the operator sees them for a step.
const (
	StateProcessing State = iota
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateProcessing:
		return "Processing"
	case StateSuccess:
		return "Success"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Status labels reported by the Provisioner.
const (
	LabelCheckEnvironment = "Checking environment"
	LabelIdentify         = "Identify device"
	LabelLoad             = "Loading configuration from device"
	LabelBurn             = "Burning"
	LabelReset            = "Reset device"
	LabelRecover          = "Recover device configurations"
	LabelRename           = "Change device name"
	LabelBTAddress        = "Change bluetooth address"
	LabelSerial           = "Write Serial Number"
	LabelRestore          = "Restore configuration backup"
)

// Status is one step's progress. Every step is reported as
// StateProcessing first and then exactly once as StateSuccess or StateFailed.
type Status struct {
	// Label names the step, one of the Label* constants
	Label string

	// State is the step's current state
	State State
}

// StatusCallback receives every status change.
// Implementations should return quickly; the workflow is blocked meanwhile.
//
// Example:
//
//	prov := provision.New(paths, runner,
//	    provision.WithStatusCallback(func(s provision.Status) {
//	        fmt.Printf("%-50s: %s\n", s.Label, s.State)
//	    }),
//	)
type StatusCallback func(Status)

// Logger is an optional logging interface that can be provided to the
// Provisioner, so any structured logger can be plugged in.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
