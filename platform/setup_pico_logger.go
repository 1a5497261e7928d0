//go:build board_pico_logger

package platform

import "datalogger-go/types"

// SelectedSetup is the logger carrier board: RTC and BMP280 on i2c1, SD
// socket on spi1, BLE bridge on uart1.
var SelectedSetup = types.Setup{
	Name:    "pico_logger",
	Clock:   types.I2CPlan{ID: "i2c1", SDA: 6, SCL: 7, Hz: 100_000},
	SD:      types.SPIPlan{ID: "spi1", SCK: 10, SDO: 11, SDI: 12, CS: 13, Baud: 8_000_000},
	Radio:   types.UARTPlan{ID: "uart1", TX: 8, RX: 9, Baud: 9600},
	ADCPin:  27,
	LEDPin:  25,
	EnvAddr: 0x76,
}
