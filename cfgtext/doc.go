// Package cfgtext reads and rewrites the text form of QCC514x configuration
// partitions as produced by the vendor config converter (dev2txt).
//
// # File Format
//
// A partition file is line oriented. Most lines are opaque to this package
// and are never parsed; a handful carry fields identified by a key token:
//
//	DeviceName = "AUDIO_FRENZ678"              quoted string    (dev_cfg)
//	BD_ADDRESS = [ 0A 1B 2C 3D 4E 5F ]         hex-byte array   (dev_cfg)
//	CUSTOMER0 = [ 41 42 31 32 ... ]            hex-encoded text (user_ps_apps)
//	CUSTOMER88 = [ 31 2e 30 2e 34 ]            hex-encoded text (user_ps_apps)
//
// Bluetooth address elements stay hex text; callers compare and replace them
// as strings. Hex-encoded text decodes to the serial number or firmware
// version string.
//
// # Usage
//
// Project a file onto the known fields:
//
//	dev, err := cfgtext.ParseDeviceConfig("config/dev_cfg")
//	usr, err := cfgtext.ParseUserConfig("config/user_ps_apps")
//
// Replace one field in place, keeping every other line byte for byte:
//
//	dev.BTAddress[0] = "FF"
//	_, err = cfgtext.Rewrite("config/dev_cfg", cfgtext.Rule{
//	    Token: cfgtext.KeyBTAddress.Token(),
//	    Line:  cfgtext.EncodeHexByteArray(cfgtext.KeyBTAddress, dev.BTAddress),
//	})
//
// Rewrite saves the previous content to "config/dev_cfg.bak" first; Restore
// puts it back.
//
// # Error Handling
//
// A recognised line whose quotes or brackets are malformed stops the parse
// with a *ParseError naming the key and line number. Nothing is decoded
// partially.
package cfgtext
