package provision

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/moffa90/go-qccprov/cfgtext"
	"github.com/moffa90/go-qccprov/toolcmd"
)

// DeviceNamePrefix is prepended to the serial digits to derive a device name.
const DeviceNamePrefix = "AUDIO_FRENZ"

// SerialExcludedChars may not appear in a serial number.
const SerialExcludedChars = "<>:/\\{}[]~`"

// ValidateFirmwareImage checks that path names an existing firmware image
// file and returns it cleaned. Paths dropped onto a terminal often arrive
// wrapped in quotes, which are removed.
func ValidateFirmwareImage(path string) (string, error) {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, `"'`)
	if path == "" {
		return "", fmt.Errorf("%w: firmware image path is empty", ErrInvalidInput)
	}
	if !strings.EqualFold(filepath.Ext(path), toolcmd.FirmwareImageExt) {
		return "", fmt.Errorf("%w: %s is not a %s image", ErrInvalidInput, path, toolcmd.FirmwareImageExt)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrInvalidInput, path)
	}
	return path, nil
}

// NormalizeDeviceName accepts 1 to 60 characters and returns them uppercased.
// A double quote would end the quoted value early, so it is rejected.
func NormalizeDeviceName(name string) (string, error) {
	n := utf8.RuneCountInString(name)
	if n < 1 || n > cfgtext.MaxDeviceNameLength {
		return "", fmt.Errorf("%w: device name must be 1-%d characters, got %d",
			ErrInvalidInput, cfgtext.MaxDeviceNameLength, n)
	}
	if strings.ContainsRune(name, '"') {
		return "", fmt.Errorf("%w: device name may not contain '\"'", ErrInvalidInput)
	}
	return strings.ToUpper(name), nil
}

// NormalizeBTByte accepts exactly two hex digits and returns them uppercased.
func NormalizeBTByte(b string) (string, error) {
	if len(b) != cfgtext.BTAddressByteLength {
		return "", fmt.Errorf("%w: address byte must be %d hex digits, got %q",
			ErrInvalidInput, cfgtext.BTAddressByteLength, b)
	}
	if _, err := hex.DecodeString(b); err != nil {
		return "", fmt.Errorf("%w: address byte %q is not hex", ErrInvalidInput, b)
	}
	return strings.ToUpper(b), nil
}

// ValidateSerialNumber accepts exactly 12 characters, none of them in
// SerialExcludedChars.
func ValidateSerialNumber(serial string) (string, error) {
	if n := utf8.RuneCountInString(serial); n != cfgtext.SerialNumberLength {
		return "", fmt.Errorf("%w: serial number must be %d characters, got %d",
			ErrInvalidInput, cfgtext.SerialNumberLength, n)
	}
	if i := strings.IndexAny(serial, SerialExcludedChars); i >= 0 {
		return "", fmt.Errorf("%w: serial number contains %q",
			ErrInvalidInput, serial[i:i+1])
	}
	return serial, nil
}

// DeriveDeviceName builds the device name from characters 5-7 of serial.
//
// Example:
//
//	provision.DeriveDeviceName("AB12345678CD") // "AUDIO_FRENZ678"
func DeriveDeviceName(serial string) string {
	r := []rune(serial)
	lo, hi := min(5, len(r)), min(8, len(r))
	return DeviceNamePrefix + string(r[lo:hi])
}
