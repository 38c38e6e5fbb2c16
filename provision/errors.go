package provision

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks operator input that failed validation. The prompt
// loop re-asks on it; it is never fatal.
var ErrInvalidInput = errors.New("invalid input")

// ErrFieldMissing reports that a field an action needs is absent from the
// pulled configuration.
var ErrFieldMissing = errors.New("field missing from configuration")

// ErrNoBackup reports that no backup was written for the attached device
// since it was last loaded.
var ErrNoBackup = errors.New("no backup for the attached device")

// EnvironmentMissingError indicates a required tool or database file is absent.
type EnvironmentMissingError struct {
	// What describes the missing item, e.g. "nvscmd tool"
	What string

	// Path is where it was expected
	Path string
}

func (e *EnvironmentMissingError) Error() string {
	return fmt.Sprintf("can not find %s at %s", e.What, e.Path)
}

// DeviceUnreachableError indicates the configuration could not be pulled
// from the device, usually because none is connected.
type DeviceUnreachableError struct {
	Err error
}

func (e *DeviceUnreachableError) Error() string {
	if e.Err == nil {
		return "can not load device configurations"
	}
	return fmt.Sprintf("can not load device configurations: %v", e.Err)
}

func (e *DeviceUnreachableError) Unwrap() error {
	return e.Err
}
