package provision

import (
	"fmt"
	"io"
	"strings"

	"github.com/moffa90/go-qccprov/cfgtext"
)

// Session is the configuration read back from the device by Load.
type Session struct {
	Device *cfgtext.DeviceConfig
	User   *cfgtext.UserConfig
}

// WriteTo prints the session fields in the operator display layout.
func (s *Session) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Device Name: %s\n", s.Device.DeviceName)
	fmt.Fprintf(&b, "BT Address :  %s\n", strings.Join(s.Device.BTAddress, " "))
	fmt.Fprintf(&b, "Serial No  :  %s\n", s.User.SerialNumber)
	fmt.Fprintf(&b, "FW Version :  %s\n", s.User.FirmwareVersion)
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
