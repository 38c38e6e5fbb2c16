package console

import "strings"

// Action is a main menu choice.
type Action int

// Menu actions.
const (
	ActionInvalid Action = iota
	ActionFlash
	ActionRename
	ActionBTAddress
	ActionSerial
	ActionRestore
	ActionQuit
)

// Banner titles.
const (
	BannerDeviceConfig = "DEVICE CONFIGURATION"
	BannerMain         = "MAIN"
	BannerFlash        = "FLASH"
)

// Operator prompts.
const (
	MenuPrompt = "Choose Action:\n" +
		"1.Flash FW\n" +
		"2.Change Device Name\n" +
		"3.Change Bluetooth Address\n" +
		"4.Change Serial Number\n" +
		"5.Restore Configuration Backup\n" +
		"q.Quit\n" +
		"Your choice: "

	PromptFirmwareImage = "Drag and drop flash_image.xuv here: "
	PromptDeviceName    = "Choose device name (1-60 letters): "
	PromptBTByte        = "Choose input address (hex value from 00 to FF): "
	PromptSerialNumber  = "Enter Serial Number (12 chars): "
	PromptExit          = "Press any key to exit!!!"

	SerialNumberHint = "Please check the S/N code again with the conditions:\n" +
		"\t* The number of characters of the SN is 12 \n" +
		"\t* And don't contain special characters. <>:/\\{}[]~`"
)

// ParseChoice maps a menu answer to an Action. Unknown answers are
// ActionInvalid.
func ParseChoice(s string) Action {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1":
		return ActionFlash
	case "2":
		return ActionRename
	case "3":
		return ActionBTAddress
	case "4":
		return ActionSerial
	case "5":
		return ActionRestore
	case "q", "quit", "exit":
		return ActionQuit
	}
	return ActionInvalid
}

func (a Action) String() string {
	switch a {
	case ActionFlash:
		return "flash"
	case ActionRename:
		return "rename"
	case ActionBTAddress:
		return "bt-address"
	case ActionSerial:
		return "serial"
	case ActionRestore:
		return "restore"
	case ActionQuit:
		return "quit"
	default:
		return "invalid"
	}
}
