package cfgtext

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleDevCfg = `# dev_cfg generated by ConfigCmd
SomeOpaqueKey = [ 01 02 ]
DeviceName = "OLD_NAME"
BD_ADDRESS = [ 0A 1B 2C 3D 4E 5F ]
AnotherKey = 7
`

const sampleUserCfg = `user_ps_apps
CUSTOMER88 = [ 31 2e 30 2e 34 ]
CUSTOMER1 = [ 00 ]
CUSTOMER0 = [ 41 42 31 32 33 34 35 36 37 38 43 44 ]
`

func TestParseDeviceConfigReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *DeviceConfig
		wantErr bool
		errLine int
	}{
		{
			name:  "all fields",
			input: sampleDevCfg,
			want: &DeviceConfig{
				DeviceName: "OLD_NAME",
				BTAddress:  []string{"0A", "1B", "2C", "3D", "4E", "5F"},
			},
		},
		{
			name:  "no recognised lines",
			input: "foo = 1\nbar = [ 00 ]\n",
			want:  &DeviceConfig{},
		},
		{
			name:  "empty file",
			input: "",
			want:  &DeviceConfig{},
		},
		{
			name:  "crlf endings",
			input: "DeviceName = \"WIN\"\r\nBD_ADDRESS = [ 01 02 ]\r\n",
			want: &DeviceConfig{
				DeviceName: "WIN",
				BTAddress:  []string{"01", "02"},
			},
		},
		{
			name:  "last occurrence wins",
			input: "DeviceName = \"FIRST\"\nDeviceName = \"SECOND\"\n",
			want:  &DeviceConfig{DeviceName: "SECOND"},
		},
		{
			name:    "malformed device name",
			input:   "x\nDeviceName = \"BROKEN\n",
			wantErr: true,
			errLine: 2,
		},
		{
			name:    "malformed address",
			input:   "BD_ADDRESS = [ 01 02\n",
			wantErr: true,
			errLine: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDeviceConfigReader(strings.NewReader(tt.input))

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("error type = %T, want *ParseError", err)
				}
				if pe.LineNum != tt.errLine {
					t.Errorf("LineNum = %d, want %d", pe.LineNum, tt.errLine)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseUserConfigReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *UserConfig
		wantErr bool
	}{
		{
			name:  "serial and version",
			input: sampleUserCfg,
			want: &UserConfig{
				SerialNumber:    "AB12345678CD",
				FirmwareVersion: "1.0.4",
			},
		},
		{
			name:  "serial absent",
			input: "CUSTOMER88 = [ 31 ]\n",
			want:  &UserConfig{FirmwareVersion: "1"},
		},
		{
			name:    "malformed serial",
			input:   "CUSTOMER0 = [ 4 ]\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUserConfigReader(strings.NewReader(tt.input))

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *got != *tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseFromFile(t *testing.T) {
	dir := t.TempDir()
	devPath := filepath.Join(dir, "dev_cfg")
	userPath := filepath.Join(dir, "user_ps_apps")

	if err := os.WriteFile(devPath, []byte(sampleDevCfg), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userPath, []byte(sampleUserCfg), 0o644); err != nil {
		t.Fatal(err)
	}

	dev, err := ParseDeviceConfig(devPath)
	if err != nil {
		t.Fatalf("ParseDeviceConfig: %v", err)
	}
	if dev.DeviceName != "OLD_NAME" {
		t.Errorf("DeviceName = %q, want OLD_NAME", dev.DeviceName)
	}

	usr, err := ParseUserConfig(userPath)
	if err != nil {
		t.Fatalf("ParseUserConfig: %v", err)
	}
	if usr.SerialNumber != "AB12345678CD" {
		t.Errorf("SerialNumber = %q, want AB12345678CD", usr.SerialNumber)
	}

	if _, err := ParseDeviceConfig(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}
