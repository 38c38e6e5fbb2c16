// Package config loads the kiosk configuration file.
//
// Example qccprov.yaml:
//
//	nvs_tool: lib/NvsCmd.exe
//	config_tool: lib/ConfigCmd.exe
//	database: db/hydracore_config.sdb
//	dev_cfg: config/dev_cfg
//	user_cfg: config/user_ps_apps
//	settle_delay: 5s
//	identify_on_start: false
//	log_level: info
//
// Relative paths are resolved against the program directory.
package config
