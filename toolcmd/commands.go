package toolcmd

import "fmt"

// BuildIdentifyCmd constructs the NvsCmd argument vector that identifies
// the attached flash.
//
// Command line:
//
//	<nvsTool> -usbdbg 1 -deviceid 4 0 -nvstype sqif identify
func BuildIdentifyCmd(nvsTool string) ([]string, error) {
	if nvsTool == "" {
		return nil, fmt.Errorf("nvs tool path is empty")
	}
	return append(nvsBase(nvsTool), NvsIdentify), nil
}

// BuildBurnCmd constructs the NvsCmd argument vector that writes a firmware
// image to flash.
//
// Command line:
//
//	<nvsTool> -usbdbg 1 -deviceid 4 0 -nvstype sqif burn <image>
func BuildBurnCmd(nvsTool, image string) ([]string, error) {
	if nvsTool == "" {
		return nil, fmt.Errorf("nvs tool path is empty")
	}
	if image == "" {
		return nil, fmt.Errorf("firmware image path is empty")
	}
	return append(nvsBase(nvsTool), NvsBurn, image), nil
}

// BuildDev2TxtCmd constructs the ConfigCmd argument vector that pulls a
// partition from the device into file.
//
// Command line:
//
//	<configTool> dev2txt <file> -storeset <set> -usbdbg 1 -system QCC514X_CONFIG -database <db>
func BuildDev2TxtCmd(configTool, file string, set Storeset, database string) ([]string, error) {
	if err := checkConfigArgs(configTool, file, set, database); err != nil {
		return nil, err
	}

	args := []string{configTool, Dev2Txt, file}
	args = append(args, configCommon(set)...)
	args = append(args, "-database", database)
	return args, nil
}

// BuildTxt2DevCmd constructs the ConfigCmd argument vector that merges file
// into a device partition. With reset set the device restarts afterwards.
//
// Command line:
//
//	<configTool> txt2dev <file> MERGE -storeset <set> -usbdbg 1 -system QCC514X_CONFIG [-reset] -database <db>
func BuildTxt2DevCmd(configTool, file string, set Storeset, database string, reset bool) ([]string, error) {
	if err := checkConfigArgs(configTool, file, set, database); err != nil {
		return nil, err
	}

	args := []string{configTool, Txt2Dev, file, Merge}
	args = append(args, configCommon(set)...)
	if reset {
		args = append(args, "-reset")
	}
	args = append(args, "-database", database)
	return args, nil
}

func nvsBase(nvsTool string) []string {
	return []string{
		nvsTool,
		"-usbdbg", NvsUSBDebug,
		"-deviceid", NvsDeviceIDType, NvsDeviceIDIndex,
		"-nvstype", NvsType,
	}
}

func configCommon(set Storeset) []string {
	return []string{
		"-storeset", string(set),
		"-usbdbg", ConfigUSBDebug,
		"-system", System,
	}
}

func checkConfigArgs(configTool, file string, set Storeset, database string) error {
	switch {
	case configTool == "":
		return fmt.Errorf("config tool path is empty")
	case file == "":
		return fmt.Errorf("config file path is empty")
	case set != StoresetDevice && set != StoresetUser:
		return fmt.Errorf("unknown storeset %q", set)
	case database == "":
		return fmt.Errorf("database path is empty")
	}
	return nil
}
