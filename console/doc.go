// Package console is the operator side of the provisioning kiosk: prompts
// that repeat until the answer is valid, fixed-width status lines, banners
// and the main menu.
//
// Status lines look like
//
//	Loading configuration from device                 : Success
//
// and on a terminal the final state overwrites the Processing line.
package console
