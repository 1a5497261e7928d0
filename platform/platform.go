// Package platform binds the controller to hardware. On the RP2040 it wires
// machine peripherals, the SD card and the internal flash; elsewhere it
// simulates the board so the firmware runs as an ordinary process.
//
// The wiring comes from SelectedSetup, chosen at build time:
//
//	tinygo flash -target pico -tags board_pico_logger .
//	tinygo flash -target pico-w -tags "board_pico_logger ble" .
package platform

import "datalogger-go/services/acquire"

var _ acquire.Board = (*Board)(nil)
