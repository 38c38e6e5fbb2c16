package provision

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/moffa90/go-qccprov/toolcmd"
	"github.com/moffa90/go-qccprov/toolrun"
)

const deviceDevCfg = `# dev_cfg
SomeOpaqueKey = [ 01 02 ]
DeviceName = "OLD_NAME"
BD_ADDRESS = [ 0A 1B 2C ]
AnotherKey = 7
`

const deviceUserCfg = `# user_ps_apps
CUSTOMER88 = [ 31 2e 30 2e 34 ]
CUSTOMER1 = [ 00 ]
`

// MockTools simulates NvsCmd, ConfigCmd and the device behind them.
type MockTools struct {
	// partitions is the content stored on the device
	partitions map[toolcmd.Storeset]string

	// fail lists operations that print no success token, e.g.
	// "dev2txt dev_cfg", "txt2dev user_ps_apps", "burn", "identify"
	fail map[string]bool

	calls  []string
	resets int
}

func NewMockTools() *MockTools {
	return &MockTools{
		partitions: map[toolcmd.Storeset]string{
			toolcmd.StoresetDevice: deviceDevCfg,
			toolcmd.StoresetUser:   deviceUserCfg,
		},
		fail: make(map[string]bool),
	}
}

func (m *MockTools) Run(_ context.Context, args []string) (*toolrun.Stream, error) {
	op := m.operation(args)
	m.calls = append(m.calls, op)

	if m.fail[op] {
		return toolrun.NewStream(strings.NewReader("Error: no device found\n"), nil, nil), nil
	}

	switch args[1] {
	case toolcmd.Dev2Txt:
		set := storesetOf(args)
		if err := os.WriteFile(args[2], []byte(m.partitions[set]), 0o644); err != nil {
			return nil, err
		}
	case toolcmd.Txt2Dev:
		data, err := os.ReadFile(args[2])
		if err != nil {
			return nil, err
		}
		m.partitions[storesetOf(args)] = string(data)
		if slices.Contains(args, "-reset") {
			m.resets++
		}
	}

	return toolrun.NewStream(strings.NewReader(op+" in progress\nSuccess\n"), nil, nil), nil
}

func (m *MockTools) operation(args []string) string {
	switch args[1] {
	case toolcmd.Dev2Txt, toolcmd.Txt2Dev:
		return args[1] + " " + string(storesetOf(args))
	}
	for _, a := range args {
		if a == toolcmd.NvsBurn || a == toolcmd.NvsIdentify {
			return a
		}
	}
	return strings.Join(args, " ")
}

func storesetOf(args []string) toolcmd.Storeset {
	i := slices.Index(args, "-storeset")
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return toolcmd.Storeset(args[i+1])
}

// testEnv lays out a kiosk directory with placeholder tools and database.
func testEnv(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()
	paths := DefaultPaths(dir)
	for _, f := range []string{paths.NvsTool, paths.ConfigTool, paths.Database} {
		if err := os.MkdirAll(filepath.Dir(f), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(f, nil, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(paths.DevCfg), 0o755); err != nil {
		t.Fatal(err)
	}
	return paths
}

// statusRecorder collects reported statuses.
type statusRecorder struct {
	got []Status
}

func (r *statusRecorder) record(s Status) {
	r.got = append(r.got, s)
}

// MockLogger captures log calls.
type MockLogger struct {
	debugCalls []string
	infoCalls  []string
	errorCalls []string
}

func (m *MockLogger) Debug(msg string, keysAndValues ...interface{}) {
	m.debugCalls = append(m.debugCalls, msg)
}

func (m *MockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.infoCalls = append(m.infoCalls, msg)
}

func (m *MockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.errorCalls = append(m.errorCalls, msg)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
