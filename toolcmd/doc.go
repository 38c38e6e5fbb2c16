// Package toolcmd describes how the two vendor command-line tools are
// invoked and how their output is judged.
//
// # Tools
//
// NvsCmd programs the SQIF flash:
//
//	NvsCmd -usbdbg 1 -deviceid 4 0 -nvstype sqif identify
//	NvsCmd -usbdbg 1 -deviceid 4 0 -nvstype sqif burn flash_image.xuv
//
// ConfigCmd converts configuration partitions to and from text:
//
//	ConfigCmd dev2txt dev_cfg -storeset dev_cfg -usbdbg 1 -system QCC514X_CONFIG -database hydracore_config.sdb
//	ConfigCmd txt2dev dev_cfg MERGE -storeset dev_cfg -usbdbg 1 -system QCC514X_CONFIG -reset -database hydracore_config.sdb
//
// # Command Builders
//
// The Build* functions return argument vectors ready for exec, never shell
// strings, so paths with spaces need no quoting:
//
//	args, err := toolcmd.BuildDev2TxtCmd(configTool, "config/dev_cfg", toolcmd.StoresetDevice, db)
//
// # Output
//
// Both tools write free-form progress text. A line containing "Success"
// marks the step as done; exit status is not consulted. Use IsSuccess per
// line and report a *ToolError when the token never appears.
package toolcmd
