package provision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/moffa90/go-qccprov/cfgtext"
	"github.com/moffa90/go-qccprov/toolcmd"
	"github.com/moffa90/go-qccprov/toolrun"
)

// Provisioner drives the provisioning actions against one attached device.
// Every action works from the configuration files on disk, and all but
// ChangeSerial pull them fresh first. The only state kept between calls is
// the record of which backups belong to the attached device.
//
// Provisioner is not safe for concurrent use; the device connection is a
// single shared resource.
type Provisioner struct {
	paths  Paths
	runner toolrun.Runner
	config Config

	// pushed maps a configuration file to the content last pushed from it
	// after a rewrite. Restore only uses the backups of files listed here.
	pushed map[string][]byte
}

// New creates a new Provisioner using runner to invoke the tools in paths.
//
// Example:
//
//	prov := provision.New(provision.DefaultPaths(baseDir), &toolrun.Exec{},
//	    provision.WithStatusCallback(statusFunc),
//	    provision.WithToolOutput(os.Stdout),
//	)
func New(paths Paths, runner toolrun.Runner, opts ...Option) *Provisioner {
	if runner == nil {
		panic("runner cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Provisioner{
		paths:  paths,
		runner: runner,
		config: cfg,
		pushed: make(map[string][]byte),
	}
}

// CheckEnvironment verifies the tools and database exist and makes sure the
// directories holding the configuration files are present.
func (p *Provisioner) CheckEnvironment() error {
	p.reportStatus(LabelCheckEnvironment, StateProcessing)

	required := []struct {
		what string
		path string
	}{
		{"nvscmd tool", p.paths.NvsTool},
		{"configcmd tool", p.paths.ConfigTool},
		{"database file", p.paths.Database},
	}
	for _, r := range required {
		if _, err := os.Stat(r.path); err != nil {
			p.logError("environment check failed", "what", r.what, "path", r.path, "error", err)
			p.reportDone(LabelCheckEnvironment, false)
			return &EnvironmentMissingError{What: r.what, Path: r.path}
		}
	}

	for _, file := range []string{p.paths.DevCfg, p.paths.UserCfg} {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			p.reportDone(LabelCheckEnvironment, false)
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	p.reportDone(LabelCheckEnvironment, true)
	return nil
}

// Identify asks the flash tool to identify the attached flash part.
func (p *Provisioner) Identify(ctx context.Context) error {
	p.reportStatus(LabelIdentify, StateProcessing)

	args, err := toolcmd.BuildIdentifyCmd(p.paths.NvsTool)
	if err == nil {
		err = p.runTool(ctx, "identify", args, true)
	}
	p.reportDone(LabelIdentify, err == nil)
	return err
}

// Pull copies both configuration partitions from the device into the local
// files. Both pulls are attempted even if the first fails.
//
// Backups stop being restorable once the pulled content no longer matches
// what was pushed after the rewrite, which is the case when another device
// has been attached.
func (p *Provisioner) Pull(ctx context.Context) error {
	p.reportStatus(LabelLoad, StateProcessing)

	devErr := p.pull(ctx, toolcmd.StoresetDevice, p.paths.DevCfg)
	usrErr := p.pull(ctx, toolcmd.StoresetUser, p.paths.UserCfg)

	if err := errors.Join(devErr, usrErr); err != nil {
		clear(p.pushed)
		p.reportDone(LabelLoad, false)
		return &DeviceUnreachableError{Err: err}
	}
	p.forgetChanged()
	p.reportDone(LabelLoad, true)
	return nil
}

// Parse reads both local configuration files. It returns whatever could be
// decoded alongside the first parse error.
func (p *Provisioner) Parse() (*Session, error) {
	s := &Session{
		Device: &cfgtext.DeviceConfig{},
		User:   &cfgtext.UserConfig{},
	}

	dev, devErr := cfgtext.ParseDeviceConfig(p.paths.DevCfg)
	if devErr == nil {
		s.Device = dev
	}
	usr, usrErr := cfgtext.ParseUserConfig(p.paths.UserCfg)
	if usrErr == nil {
		s.User = usr
	}

	if devErr != nil {
		return s, fmt.Errorf("parse %s: %w", p.paths.DevCfg, devErr)
	}
	if usrErr != nil {
		return s, fmt.Errorf("parse %s: %w", p.paths.UserCfg, usrErr)
	}
	return s, nil
}

// Load pulls both partitions and parses them. A pull failure returns a nil
// Session and a *DeviceUnreachableError. A parse failure returns the
// partial Session with the error.
func (p *Provisioner) Load(ctx context.Context) (*Session, error) {
	if err := p.Pull(ctx); err != nil {
		return nil, err
	}
	return p.Parse()
}

// Flash writes a firmware image, waits for the device to reboot, then puts
// the configuration pulled beforehand back onto it. The user partition push
// is logged only; the device partition push decides the result.
//
// Example:
//
//	if err := prov.Flash(ctx, "flash_image.xuv"); err != nil {
//	    log.Error("flash failed", "err", err)
//	}
func (p *Provisioner) Flash(ctx context.Context, image string) error {
	image, err := ValidateFirmwareImage(image)
	if err != nil {
		return err
	}

	if err := p.Pull(ctx); err != nil {
		return fmt.Errorf("flash: %w", err)
	}

	p.reportStatus(LabelBurn, StateProcessing)
	args, err := toolcmd.BuildBurnCmd(p.paths.NvsTool, image)
	if err == nil {
		err = p.runTool(ctx, "burn "+filepath.Base(image), args, true)
	}
	p.reportDone(LabelBurn, err == nil)
	if err != nil {
		return fmt.Errorf("flash: %w", err)
	}

	if err := p.ResetWait(ctx); err != nil {
		return fmt.Errorf("flash: %w", err)
	}

	p.reportStatus(LabelRecover, StateProcessing)
	p.pushUserInformational(ctx)
	err = p.push(ctx, toolcmd.StoresetDevice, p.paths.DevCfg, true)
	p.reportDone(LabelRecover, err == nil)
	if err != nil {
		return fmt.Errorf("flash: %w", err)
	}
	return nil
}

// RenameDevice sets the DeviceName field to name, uppercased.
func (p *Provisioner) RenameDevice(ctx context.Context, name string) error {
	name, err := NormalizeDeviceName(name)
	if err != nil {
		return err
	}

	if err := p.Pull(ctx); err != nil {
		return fmt.Errorf("rename device: %w", err)
	}
	dev, err := cfgtext.ParseDeviceConfig(p.paths.DevCfg)
	if err != nil {
		return fmt.Errorf("rename device: %w", err)
	}
	p.showChange("Device Name", dev.DeviceName, name)

	p.reportStatus(LabelRename, StateProcessing)
	err = p.rewriteAndPush(ctx, p.paths.DevCfg, cfgtext.Rule{
		Token:           cfgtext.KeyDeviceName.Token(),
		Line:            cfgtext.EncodeQuotedString(cfgtext.KeyDeviceName, name),
		AppendIfMissing: true,
	})
	p.reportDone(LabelRename, err == nil)
	if err != nil {
		return fmt.Errorf("rename device: %w", err)
	}
	return nil
}

// ChangeBTAddress replaces the first element of the Bluetooth address with
// b. The address must already be present in the device configuration.
func (p *Provisioner) ChangeBTAddress(ctx context.Context, b string) error {
	b, err := NormalizeBTByte(b)
	if err != nil {
		return err
	}

	if err := p.Pull(ctx); err != nil {
		return fmt.Errorf("change bluetooth address: %w", err)
	}
	dev, err := cfgtext.ParseDeviceConfig(p.paths.DevCfg)
	if err != nil {
		return fmt.Errorf("change bluetooth address: %w", err)
	}
	if len(dev.BTAddress) == 0 {
		return fmt.Errorf("change bluetooth address: %w: %s", ErrFieldMissing, cfgtext.KeyBTAddress)
	}

	addr := append([]string(nil), dev.BTAddress...)
	addr[0] = b
	p.showChange("BT Address", strings.Join(dev.BTAddress, " "), strings.Join(addr, " "))

	p.reportStatus(LabelBTAddress, StateProcessing)
	err = p.rewriteAndPush(ctx, p.paths.DevCfg, cfgtext.Rule{
		Token: cfgtext.KeyBTAddress.Token(),
		Line:  cfgtext.EncodeHexByteArray(cfgtext.KeyBTAddress, addr),
	})
	p.reportDone(LabelBTAddress, err == nil)
	if err != nil {
		return fmt.Errorf("change bluetooth address: %w", err)
	}
	return nil
}

// ChangeSerial writes serial to the user partition and the device name
// derived from it to the device partition, then waits for the reset. The
// wait runs even when a push failed, since the device push resets the
// device regardless of the result it reports.
//
// It edits the files as they were last pulled and does not pull again, so
// it must follow a Load in the same menu iteration.
func (p *Provisioner) ChangeSerial(ctx context.Context, serial string) error {
	serial, err := ValidateSerialNumber(serial)
	if err != nil {
		return err
	}
	name := DeriveDeviceName(serial)
	p.logInfo("changing serial number", "serial", serial, "device_name", name)

	p.reportStatus(LabelSerial, StateProcessing)
	writeErr := p.writeSerial(ctx, serial, name)
	p.reportDone(LabelSerial, writeErr == nil)

	waitErr := p.ResetWait(ctx)
	if err := errors.Join(writeErr, waitErr); err != nil {
		return fmt.Errorf("change serial number: %w", err)
	}
	return nil
}

func (p *Provisioner) writeSerial(ctx context.Context, serial, name string) error {
	clear(p.pushed)

	if _, err := cfgtext.Rewrite(p.paths.DevCfg, cfgtext.Rule{
		Token:           cfgtext.KeyDeviceName.Token(),
		Line:            cfgtext.EncodeQuotedString(cfgtext.KeyDeviceName, name),
		AppendIfMissing: true,
	}); err != nil {
		return err
	}
	if _, err := cfgtext.Rewrite(p.paths.UserCfg, cfgtext.Rule{
		Token:           cfgtext.KeySerialNumber.Token(),
		Line:            cfgtext.EncodeHexEncodedASCII(cfgtext.KeySerialNumber, serial),
		AppendIfMissing: true,
	}); err != nil {
		return err
	}

	p.pushUserInformational(ctx)
	err := p.push(ctx, toolcmd.StoresetDevice, p.paths.DevCfg, true)
	p.logInfo("write dev_cfg", "success", err == nil)
	if err != nil {
		return err
	}
	p.remember(p.paths.DevCfg, p.paths.UserCfg)
	return nil
}

// ResetWait sleeps for the settle delay while the device reboots.
func (p *Provisioner) ResetWait(ctx context.Context) error {
	p.reportStatus(LabelReset, StateProcessing)

	if d := p.config.SettleDelay; d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			p.reportDone(LabelReset, false)
			return fmt.Errorf("cancelled: %w", ctx.Err())
		case <-t.C:
		}
	}

	p.reportDone(LabelReset, true)
	return nil
}

// Restore puts the backups taken before the last rewrite back in place and
// pushes them to the device. Only backups written by this Provisioner for
// the attached device are used: the device configuration backup is
// required, the user configuration backup is restored only if ChangeSerial
// wrote it. Without a device configuration backup Restore returns
// ErrNoBackup and leaves the device alone.
func (p *Provisioner) Restore(ctx context.Context) error {
	p.reportStatus(LabelRestore, StateProcessing)
	err := p.restore(ctx)
	p.reportDone(LabelRestore, err == nil)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

func (p *Provisioner) restore(ctx context.Context) error {
	if _, ok := p.pushed[p.paths.DevCfg]; !ok {
		return fmt.Errorf("%w: %s", ErrNoBackup, p.paths.DevCfg)
	}
	_, withUser := p.pushed[p.paths.UserCfg]
	// A backup is put back once.
	clear(p.pushed)

	if err := cfgtext.Restore(p.paths.DevCfg); err != nil {
		return err
	}

	if withUser {
		if err := cfgtext.Restore(p.paths.UserCfg); err != nil {
			return err
		}
		p.pushUserInformational(ctx)
	} else {
		p.logDebug("no user configuration backup for this device", "path", p.paths.UserCfg+cfgtext.BackupSuffix)
	}

	return p.push(ctx, toolcmd.StoresetDevice, p.paths.DevCfg, true)
}

// rewriteAndPush rewrites path and pushes it. Restore only ever undoes the
// latest change, so earlier records are dropped first.
func (p *Provisioner) rewriteAndPush(ctx context.Context, path string, rule cfgtext.Rule) error {
	clear(p.pushed)

	res, err := cfgtext.Rewrite(path, rule)
	if err != nil {
		return err
	}
	p.logDebug("rewrote config",
		"path", path,
		"replaced", res.Replaced,
		"appended", res.Appended,
		"backup", res.BackupPath,
	)
	if err := p.push(ctx, toolcmd.StoresetDevice, path, true); err != nil {
		return err
	}
	p.remember(path)
	return nil
}

// remember records the current content of files just pushed after a
// rewrite, making their backups restorable.
func (p *Provisioner) remember(paths ...string) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			p.logDebug("backup not recorded", "path", path, "error", err)
			continue
		}
		p.pushed[path] = data
	}
}

// forgetChanged drops the record of every file whose freshly pulled content
// differs from what was pushed.
func (p *Provisioner) forgetChanged() {
	for path, want := range p.pushed {
		got, err := os.ReadFile(path)
		if err != nil || !bytes.Equal(got, want) {
			p.logDebug("backup no longer matches device", "path", path)
			delete(p.pushed, path)
		}
	}
}

func (p *Provisioner) pull(ctx context.Context, set toolcmd.Storeset, file string) error {
	args, err := toolcmd.BuildDev2TxtCmd(p.paths.ConfigTool, file, set, p.paths.Database)
	if err != nil {
		return err
	}
	return p.runTool(ctx, "pull "+string(set), args, true)
}

func (p *Provisioner) push(ctx context.Context, set toolcmd.Storeset, file string, reset bool) error {
	args, err := toolcmd.BuildTxt2DevCmd(p.paths.ConfigTool, file, set, p.paths.Database, reset)
	if err != nil {
		return err
	}
	// The user partition push runs quietly.
	return p.runTool(ctx, "push "+string(set), args, set == toolcmd.StoresetDevice)
}

// pushUserInformational pushes the user partition without a reset and only
// logs the outcome.
func (p *Provisioner) pushUserInformational(ctx context.Context) {
	err := p.push(ctx, toolcmd.StoresetUser, p.paths.UserCfg, false)
	p.logInfo("write usr_cfg", "success", err == nil)
	if err != nil {
		p.logDebug("user partition push failed", "error", err)
	}
}

// runTool runs args to completion, echoing output when echo is set. Success
// is decided by the success token alone.
func (p *Provisioner) runTool(ctx context.Context, op string, args []string, echo bool) error {
	p.logDebug("running tool", "op", op, "args", strings.Join(args, " "))

	s, err := p.runner.Run(ctx, args)
	if err != nil {
		return &toolcmd.ToolError{Operation: op, Args: args, Err: err}
	}

	ok, runErr := toolrun.Drain(s, func(line string) {
		if echo {
			p.printf("%s\n", line)
		}
	})
	if stderr := strings.TrimSpace(s.Stderr()); stderr != "" {
		p.logDebug("tool stderr", "op", op, "stderr", stderr)
	}
	p.logDebug("tool finished", "op", op, "success", ok, "exit", runErr)

	if !ok {
		return &toolcmd.ToolError{Operation: op, Args: args, Err: runErr}
	}
	return nil
}

func (p *Provisioner) showChange(field, from, to string) {
	p.printf("Old %s: %s\n", field, from)
	p.printf("New %s: %s\n", field, to)
	p.logInfo("field change", "field", field, "old", from, "new", to)
}

func (p *Provisioner) printf(format string, args ...interface{}) {
	if p.config.Output != nil {
		fmt.Fprintf(p.config.Output, format, args...)
	}
}

// reportStatus calls the status callback if configured.
func (p *Provisioner) reportStatus(label string, state State) {
	if p.config.StatusCallback != nil {
		p.config.StatusCallback(Status{Label: label, State: state})
	}
}

func (p *Provisioner) reportDone(label string, ok bool) {
	if ok {
		p.reportStatus(label, StateSuccess)
		return
	}
	p.reportStatus(label, StateFailed)
}

// logDebug logs a debug message if a logger is configured.
func (p *Provisioner) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (p *Provisioner) logInfo(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (p *Provisioner) logError(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Error(msg, keysAndValues...)
	}
}
