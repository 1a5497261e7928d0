//go:build !board_pico_logger

package platform

import "datalogger-go/types"

// SelectedSetup is a bare Pico with the logger peripherals on the default
// pins of each controller.
var SelectedSetup = types.Setup{
	Name:    "pico_default",
	Clock:   types.I2CPlan{ID: "i2c0", SDA: 4, SCL: 5, Hz: 400_000},
	SD:      types.SPIPlan{ID: "spi0", SCK: 18, SDO: 19, SDI: 16, CS: 17, Baud: 4_000_000},
	Radio:   types.UARTPlan{ID: "uart0", TX: 0, RX: 1, Baud: 9600},
	ADCPin:  26,
	LEDPin:  25,
	EnvAddr: 0x77,
}
