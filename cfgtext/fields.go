package cfgtext

// Key identifies one of the fields this package understands inside an
// otherwise opaque configuration file.
type Key string

// Recognised keys.
const (
	// KeyDeviceName is the advertised Bluetooth name (quoted string, dev_cfg)
	KeyDeviceName Key = "DeviceName"

	// KeyBTAddress is the Bluetooth device address (hex-byte array, dev_cfg)
	KeyBTAddress Key = "BD_ADDRESS"

	// KeySerialNumber is the serial number (hex-encoded ASCII, user_ps_apps)
	KeySerialNumber Key = "CUSTOMER0"

	// KeyFirmwareVersion is the firmware version (hex-encoded ASCII, user_ps_apps).
	// It is read-only; nothing in this module ever rewrites it.
	KeyFirmwareVersion Key = "CUSTOMER88"
)

// Token returns the substring that marks a line as carrying this key.
// The tokens match what the vendor config converter emits.
func (k Key) Token() string {
	switch k {
	case KeyDeviceName:
		return string(k) + " = "
	case KeyBTAddress:
		return string(k) + " = [ "
	default:
		return string(k) + " ="
	}
}

// Field limits.
const (
	// MaxDeviceNameLength is the longest accepted device name
	MaxDeviceNameLength = 60

	// SerialNumberLength is the exact serial number length
	SerialNumberLength = 12

	// BTAddressByteLength is the width of one address element in hex characters
	BTAddressByteLength = 2
)

// DeviceConfig is the projection of the dev_cfg partition.
type DeviceConfig struct {
	// DeviceName is the quoted DeviceName value, empty if absent
	DeviceName string

	// BTAddress holds the address bytes as hex text, element 0 first.
	// Nil if the file carries no BD_ADDRESS line.
	BTAddress []string
}

// UserConfig is the projection of the user_ps_apps partition.
type UserConfig struct {
	// SerialNumber is the decoded CUSTOMER0 value, empty if absent
	SerialNumber string

	// FirmwareVersion is the decoded CUSTOMER88 value, empty if absent
	FirmwareVersion string
}
