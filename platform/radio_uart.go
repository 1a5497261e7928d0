//go:build rp2040 && !ble

package platform

import (
	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"datalogger-go/errcode"
	"datalogger-go/services/telemetry"
)

// Radio drives a transparent UART-to-BLE bridge module. Payloads are framed
// with CRLF by telemetry.StreamTransport.
func (b *Board) Radio() (telemetry.Transport, error) {
	var hw *uartx.UART
	switch b.setup.Radio.ID {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, &errcode.E{C: errcode.Unsupported, Op: "radio", Msg: "no uart " + b.setup.Radio.ID}
	}
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: b.setup.Radio.Baud,
		TX:       machine.Pin(b.setup.Radio.TX),
		RX:       machine.Pin(b.setup.Radio.RX),
	}); err != nil {
		return nil, errcode.Wrap(errcode.BusError, "radio.configure", err)
	}
	return telemetry.StreamTransport{W: hw}, nil
}
