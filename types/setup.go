package types

// Setup specifies board wiring chosen at build time. Platform code consumes it
// to configure peripherals; pins are plain GPIO numbers.
type Setup struct {
	Name string

	Clock I2CPlan // DS3231 and BMP280 share this bus
	SD    SPIPlan
	Radio UARTPlan

	ADCPin int
	LEDPin int

	EnvAddr uint16 // BMP280 address (0x76 or 0x77)
}

type I2CPlan struct {
	ID  string // e.g. "i2c0"
	SDA int
	SCL int
	Hz  uint32
}

type SPIPlan struct {
	ID   string // e.g. "spi0"
	SCK  int
	SDO  int // MOSI
	SDI  int // MISO
	CS   int
	Baud uint32
}

type UARTPlan struct {
	ID   string // e.g. "uart0"
	TX   int
	RX   int
	Baud uint32
}
