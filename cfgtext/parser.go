package cfgtext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxLineLength bounds a single config line. The converter writes large
// PS key arrays on one line, so the bufio default of 64 KiB is raised.
const MaxLineLength = 1 << 20

// ParseDeviceConfig reads the dev_cfg text file at path and returns the
// fields this package understands. All other lines are ignored.
//
// Example:
//
//	dev, err := cfgtext.ParseDeviceConfig("config/dev_cfg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(dev.DeviceName, dev.BTAddress)
func ParseDeviceConfig(path string) (*DeviceConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseDeviceConfigReader(f)
}

// ParseDeviceConfigReader is ParseDeviceConfig for any io.Reader.
func ParseDeviceConfigReader(r io.Reader) (*DeviceConfig, error) {
	cfg := &DeviceConfig{}

	err := scanLines(r, func(lineNum int, line string) error {
		if strings.Contains(line, KeyBTAddress.Token()) {
			addr, err := DecodeHexByteArray(line)
			if err != nil {
				return annotate(err, KeyBTAddress, lineNum)
			}
			cfg.BTAddress = addr
		}
		if strings.Contains(line, KeyDeviceName.Token()) {
			name, err := DecodeQuotedString(line)
			if err != nil {
				return annotate(err, KeyDeviceName, lineNum)
			}
			cfg.DeviceName = name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseUserConfig reads the user_ps_apps text file at path.
func ParseUserConfig(path string) (*UserConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseUserConfigReader(f)
}

// ParseUserConfigReader is ParseUserConfig for any io.Reader.
func ParseUserConfigReader(r io.Reader) (*UserConfig, error) {
	cfg := &UserConfig{}

	err := scanLines(r, func(lineNum int, line string) error {
		if strings.Contains(line, KeyFirmwareVersion.Token()) {
			ver, err := DecodeHexEncodedASCII(line)
			if err != nil {
				return annotate(err, KeyFirmwareVersion, lineNum)
			}
			cfg.FirmwareVersion = ver
		}
		if strings.Contains(line, KeySerialNumber.Token()) {
			sn, err := DecodeHexEncodedASCII(line)
			if err != nil {
				return annotate(err, KeySerialNumber, lineNum)
			}
			cfg.SerialNumber = sn
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func scanLines(r io.Reader, fn func(lineNum int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := fn(lineNum, scanner.Text()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return nil
}

func annotate(err error, key Key, lineNum int) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Key = key
		pe.LineNum = lineNum
	}
	return err
}
