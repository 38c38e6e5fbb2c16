// Package provision runs the manufacturing actions for a QCC514x audio
// device: loading its configuration, flashing firmware, and changing the
// device name, Bluetooth address or serial number.
//
// # Overview
//
// Every action is a fixed pipeline over the external tools and the two local
// configuration files:
//   - Pull both partitions from the device into the local files
//   - Rewrite the one line being changed, keeping a .bak of the file
//   - Push the file back, resetting the device
//
// ChangeSerial is the exception to the first step: it edits the files left
// by the preceding Load.
//
// # Basic Usage
//
//	prov := provision.New(provision.DefaultPaths(baseDir), &toolrun.Exec{},
//	    provision.WithToolOutput(os.Stdout),
//	)
//	if err := prov.CheckEnvironment(); err != nil {
//	    log.Fatal(err)
//	}
//	session, err := prov.Load(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	session.WriteTo(os.Stdout)
//
//	err = prov.RenameDevice(ctx, "kitchen speaker")
//
// # Status Tracking
//
// Each step is reported as Processing and then Success or Failed:
//
//	prov := provision.New(paths, runner,
//	    provision.WithStatusCallback(func(s provision.Status) {
//	        fmt.Printf("%-50s: %s\n", s.Label, s.State)
//	    }),
//	)
//
// # Error Handling
//
// Validation failures wrap ErrInvalidInput. A failed pull is a
// *DeviceUnreachableError and a tool run without the success token is a
// *toolcmd.ToolError:
//
//	err := prov.ChangeBTAddress(ctx, "ZZ")
//	if errors.Is(err, provision.ErrInvalidInput) {
//	    // ask again
//	}
package provision
