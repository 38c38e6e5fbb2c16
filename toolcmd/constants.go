package toolcmd

// SuccessToken is the literal both vendor tools print when a step succeeds.
const SuccessToken = "Success"

// FirmwareImageExt is the extension of a flashable firmware image.
const FirmwareImageExt = ".xuv"

// Flash/NVS tool (NvsCmd) arguments.
const (
	// NvsUSBDebug selects the USB debug transport
	NvsUSBDebug = "1"

	// NvsDeviceIDType and NvsDeviceIDIndex form the "-deviceid" pair for
	// the SQIF flash of the QCC514x
	NvsDeviceIDType  = "4"
	NvsDeviceIDIndex = "0"

	// NvsType is the flash type
	NvsType = "sqif"

	// NvsIdentify queries the attached flash
	NvsIdentify = "identify"

	// NvsBurn writes a firmware image
	NvsBurn = "burn"
)

// Config converter (ConfigCmd) arguments.
const (
	// Dev2Txt pulls a partition into a local text file
	Dev2Txt = "dev2txt"

	// Txt2Dev pushes a local text file to a partition
	Txt2Dev = "txt2dev"

	// Merge keeps keys on the device that the text file does not mention
	Merge = "MERGE"

	// System is the chip configuration system name
	System = "QCC514X_CONFIG"

	// ConfigUSBDebug selects the USB debug transport
	ConfigUSBDebug = "1"
)

// Storeset names a configuration partition on the device.
type Storeset string

// Partitions.
const (
	// StoresetDevice holds device name and Bluetooth address
	StoresetDevice Storeset = "dev_cfg"

	// StoresetUser holds application data such as serial number and firmware version
	StoresetUser Storeset = "user_ps_apps"
)
