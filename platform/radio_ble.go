//go:build rp2040 && ble

package platform

import (
	"tinygo.org/x/bluetooth"

	"datalogger-go/services/telemetry"
)

// LocalName is advertised while the radio is up.
const LocalName = "datalogger"

// Radio brings up the on-board BLE controller, advertises LocalName and
// publishes payloads as notifications on the Nordic UART TX characteristic.
func (b *Board) Radio() (telemetry.Transport, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, err
	}
	var tx bluetooth.Characteristic
	if err := adapter.AddService(&bluetooth.Service{
		UUID: bluetooth.ServiceUUIDNordicUART,
		Characteristics: []bluetooth.CharacteristicConfig{{
			Handle: &tx,
			UUID:   bluetooth.CharacteristicUUIDUARTTX,
			Flags:  bluetooth.CharacteristicNotifyPermission | bluetooth.CharacteristicReadPermission,
		}},
	}); err != nil {
		return nil, err
	}
	adv := adapter.DefaultAdvertisement()
	if err := adv.Configure(bluetooth.AdvertisementOptions{
		LocalName:    LocalName,
		ServiceUUIDs: []bluetooth.UUID{bluetooth.ServiceUUIDNordicUART},
	}); err != nil {
		return nil, err
	}
	if err := adv.Start(); err != nil {
		return nil, err
	}
	return &bleTransport{ch: &tx}, nil
}

type bleTransport struct{ ch *bluetooth.Characteristic }

func (t *bleTransport) Publish(p []byte) error {
	if len(p) > telemetry.MaxPayload {
		p = p[:telemetry.MaxPayload]
	}
	_, err := t.ch.Write(p)
	return err
}
