package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/moffa90/go-qccprov/config"
	"github.com/moffa90/go-qccprov/console"
	"github.com/moffa90/go-qccprov/provision"
	"github.com/moffa90/go-qccprov/toolcmd"
	"github.com/moffa90/go-qccprov/toolrun"
)

// fakeDevice answers ConfigCmd and NvsCmd invocations from memory.
type fakeDevice struct {
	partitions map[string]string
	offline    bool
	calls      []string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		partitions: map[string]string{
			"dev_cfg":      "DeviceName = \"OLD_NAME\"\nBD_ADDRESS = [ 0A 1B 2C ]\n",
			"user_ps_apps": "CUSTOMER88 = [ 31 2e 30 ]\n",
		},
	}
}

func (d *fakeDevice) Run(_ context.Context, args []string) (*toolrun.Stream, error) {
	set, call := "", args[len(args)-1]
	if i := slices.Index(args, "-storeset"); i >= 0 {
		set = args[i+1]
		call = args[1] + " " + set
	}
	d.calls = append(d.calls, call)

	if d.offline {
		return toolrun.NewStream(strings.NewReader("Error: no device\n"), nil, nil), nil
	}
	switch args[1] {
	case toolcmd.Dev2Txt:
		if err := os.WriteFile(args[2], []byte(d.partitions[set]), 0o644); err != nil {
			return nil, err
		}
	case toolcmd.Txt2Dev:
		data, err := os.ReadFile(args[2])
		if err != nil {
			return nil, err
		}
		d.partitions[set] = string(data)
	}
	return toolrun.NewStream(strings.NewReader("Success\n"), nil, nil), nil
}

func (d *fakeDevice) count(call string) int {
	n := 0
	for _, c := range d.calls {
		if c == call {
			n++
		}
	}
	return n
}

func kioskDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	p := provision.DefaultPaths(dir)
	for _, f := range []string{p.NvsTool, p.ConfigTool, p.Database} {
		if err := os.MkdirAll(filepath.Dir(f), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(f, nil, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

type result struct {
	err    error
	stdout string
	stderr string
}

func runWith(t *testing.T, dev *fakeDevice, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--settle-delay", "0s"}, args...)
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr, dev)
	return result{err: err, stdout: stdout.String(), stderr: stderr.String()}
}

func TestRunRename(t *testing.T) {
	dir := kioskDir(t)
	dev := newFakeDevice()

	res := runWith(t, dev, "2\nnewname\nq\n", "--base-dir", dir)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}

	if !strings.Contains(dev.partitions["dev_cfg"], `DeviceName = "NEWNAME"`) {
		t.Errorf("device partition = %q", dev.partitions["dev_cfg"])
	}
	for _, want := range []string{
		console.FormatBanner(console.BannerDeviceConfig),
		"Device Name: OLD_NAME",
		"Old Device Name: OLD_NAME",
		"New Device Name: NEWNAME",
		provision.LabelReset,
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("output missing %q", want)
		}
	}
	// Loaded at start and again after the action.
	if n := dev.count("dev2txt dev_cfg"); n != 3 {
		t.Errorf("dev_cfg pulled %d times, want 3", n)
	}
}

func TestRunInvalidChoiceReprompts(t *testing.T) {
	dir := kioskDir(t)
	dev := newFakeDevice()

	res := runWith(t, dev, "9\nflash\nq\n", "--base-dir", dir)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}

	if n := strings.Count(res.stdout, "Your choice: "); n != 3 {
		t.Errorf("menu shown %d times, want 3", n)
	}
	if n := dev.count("dev2txt dev_cfg"); n != 1 {
		t.Errorf("dev_cfg pulled %d times, want 1", n)
	}
	if strings.Contains(res.stdout, provision.LabelReset) {
		t.Error("reset wait after invalid choice")
	}
}

func TestRunChangeSerialRetriesAndHints(t *testing.T) {
	dir := kioskDir(t)
	dev := newFakeDevice()

	res := runWith(t, dev, "4\nshort\nAB12345678C~\nAB12345678CD\nq\n", "--base-dir", dir)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}

	if n := strings.Count(res.stdout, console.SerialNumberHint); n != 2 {
		t.Errorf("hint shown %d times, want 2", n)
	}
	if !strings.Contains(dev.partitions["dev_cfg"], `DeviceName = "AUDIO_FRENZ678"`) {
		t.Errorf("device partition = %q", dev.partitions["dev_cfg"])
	}
	if !strings.Contains(dev.partitions["user_ps_apps"], "CUSTOMER0 = [ 41 42 ") {
		t.Errorf("user partition = %q", dev.partitions["user_ps_apps"])
	}
	// One reset wait, done by the action itself.
	if n := strings.Count(res.stdout, provision.LabelReset); n != 2 {
		t.Errorf("reset status lines = %d, want 2 (processing and success)", n)
	}
}

func TestRunFailedActionSkipsResetWait(t *testing.T) {
	dir := kioskDir(t)
	dev := newFakeDevice()
	dev.partitions["dev_cfg"] = "DeviceName = \"X\"\n"

	res := runWith(t, dev, "3\nff\nq\n", "--base-dir", dir)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if strings.Contains(res.stdout, provision.LabelReset) {
		t.Error("reset wait after failed action")
	}
	if !strings.Contains(res.stderr, "action failed") {
		t.Errorf("failure not logged: %q", res.stderr)
	}
}

func TestRunClosedInputQuits(t *testing.T) {
	for _, stdin := range []string{"", "2\n"} {
		res := runWith(t, newFakeDevice(), stdin, "--base-dir", kioskDir(t))
		if res.err != nil {
			t.Errorf("stdin %q: run: %v", stdin, res.err)
		}
	}
}

func TestRunEnvironmentMissing(t *testing.T) {
	dir := kioskDir(t)
	if err := os.Remove(provision.DefaultPaths(dir).Database); err != nil {
		t.Fatal(err)
	}
	dev := newFakeDevice()

	res := runWith(t, dev, "\n", "--base-dir", dir)

	var missing *provision.EnvironmentMissingError
	if !errors.As(res.err, &missing) {
		t.Fatalf("error = %v, want EnvironmentMissingError", res.err)
	}
	for _, want := range []string{"Can not find database file", msgEnvironmentMissing, console.PromptExit} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if len(dev.calls) != 0 {
		t.Errorf("tools ran: %v", dev.calls)
	}
}

func TestRunDeviceUnreachable(t *testing.T) {
	dev := newFakeDevice()
	dev.offline = true

	res := runWith(t, dev, "\n", "--base-dir", kioskDir(t))

	var unreachable *provision.DeviceUnreachableError
	if !errors.As(res.err, &unreachable) {
		t.Fatalf("error = %v, want DeviceUnreachableError", res.err)
	}
	if !strings.Contains(res.stdout, msgDeviceUnreachable) {
		t.Errorf("output = %q", res.stdout)
	}
}

// failingWriter rejects every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("output closed")
}

func TestRunReportsOperatorIOErrors(t *testing.T) {
	t.Run("device configuration not shown", func(t *testing.T) {
		var stderr bytes.Buffer
		err := run(context.Background(), []string{"--settle-delay", "0s", "--base-dir", kioskDir(t)},
			strings.NewReader("q\n"), failingWriter{}, &stderr, newFakeDevice())
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if !strings.Contains(stderr.String(), "device configuration not shown") {
			t.Errorf("write failure not logged: %q", stderr.String())
		}
	})

	t.Run("exit prompt unreadable", func(t *testing.T) {
		dev := newFakeDevice()
		dev.offline = true
		var stdout, stderr bytes.Buffer
		err := run(context.Background(), []string{"--settle-delay", "0s", "--base-dir", kioskDir(t)},
			iotest.ErrReader(errors.New("console detached")), &stdout, &stderr, dev)

		var unreachable *provision.DeviceUnreachableError
		if !errors.As(err, &unreachable) {
			t.Fatalf("error = %v, want DeviceUnreachableError", err)
		}
		if !strings.Contains(stderr.String(), "console detached") {
			t.Errorf("read failure not logged: %q", stderr.String())
		}
	})
}

func TestRunIdentifyOnStart(t *testing.T) {
	dir := kioskDir(t)
	if err := os.WriteFile(filepath.Join(dir, config.DefaultFileName), []byte("identify_on_start: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	dev := newFakeDevice()

	res := runWith(t, dev, "q\n", "--base-dir", dir)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if len(dev.calls) == 0 || dev.calls[0] != toolcmd.NvsIdentify {
		t.Errorf("calls = %v, want identify first", dev.calls)
	}
	if !strings.Contains(res.stdout, provision.LabelIdentify) {
		t.Error("identify status not shown")
	}
}

func TestRunFlags(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		res := runWith(t, newFakeDevice(), "", "--help")
		if res.err != nil {
			t.Fatalf("run: %v", res.err)
		}
		if !strings.Contains(res.stderr, "Usage:") || !strings.Contains(res.stderr, "--base-dir") {
			t.Errorf("help = %q", res.stderr)
		}
	})

	t.Run("unexpected argument", func(t *testing.T) {
		res := runWith(t, newFakeDevice(), "", "extra")
		if res.err == nil || !strings.Contains(res.err.Error(), "unexpected argument") {
			t.Errorf("error = %v", res.err)
		}
	})

	t.Run("bad log level", func(t *testing.T) {
		res := runWith(t, newFakeDevice(), "", "--base-dir", kioskDir(t), "--log-level", "loud")
		if res.err == nil {
			t.Error("expected error")
		}
	})

	t.Run("write config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kiosk.yaml")
		res := runWith(t, newFakeDevice(), "", "--config", path, "--log-level", "debug", "--write-config")
		if res.err != nil {
			t.Fatalf("run: %v", res.err)
		}
		cfg, err := config.Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.LogLevel != "debug" || cfg.SettleDelay != 0 {
			t.Errorf("saved config = %+v", cfg)
		}
	})
}
