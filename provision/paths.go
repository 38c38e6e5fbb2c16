package provision

import "path/filepath"

// Paths locates the external tools, the tool database and the two local
// configuration files.
type Paths struct {
	NvsTool    string
	ConfigTool string
	Database   string
	DevCfg     string
	UserCfg    string
}

// DefaultPaths returns the standard kiosk layout under baseDir.
func DefaultPaths(baseDir string) Paths {
	return Paths{
		NvsTool:    filepath.Join(baseDir, "lib", "NvsCmd.exe"),
		ConfigTool: filepath.Join(baseDir, "lib", "ConfigCmd.exe"),
		Database:   filepath.Join(baseDir, "db", "hydracore_config.sdb"),
		DevCfg:     filepath.Join(baseDir, "config", "dev_cfg"),
		UserCfg:    filepath.Join(baseDir, "config", "user_ps_apps"),
	}
}
