//go:build rp2040

package platform

import (
	"machine"

	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/tinyfs/fatfs"
	"tinygo.org/x/tinyfs/littlefs"

	"datalogger-go/errcode"
	"datalogger-go/services/storage"
)

// DataVolume mounts the FAT-formatted SD card. Records are addressed under
// /sd. The card is never formatted by the firmware.
func (b *Board) DataVolume() (storage.Volume, error) {
	if b.dataVol != nil {
		return b.dataVol, nil
	}
	var spi *machine.SPI
	switch b.setup.SD.ID {
	case "spi0":
		spi = machine.SPI0
	case "spi1":
		spi = machine.SPI1
	default:
		return nil, &errcode.E{C: errcode.InvalidConfig, Op: "sd", Msg: "unknown bus " + b.setup.SD.ID}
	}
	sck, sdo, sdi, cs := machine.Pin(b.setup.SD.SCK), machine.Pin(b.setup.SD.SDO), machine.Pin(b.setup.SD.SDI), machine.Pin(b.setup.SD.CS)
	if err := spi.Configure(machine.SPIConfig{SCK: sck, SDO: sdo, SDI: sdi, Frequency: b.setup.SD.Baud}); err != nil {
		return nil, errcode.Wrap(errcode.BusError, "sd.spi", err)
	}
	sd := sdcard.New(spi, sck, sdo, sdi, cs)
	if err := sd.Configure(); err != nil {
		return nil, errcode.Wrap(errcode.NotMounted, "sd.configure", err)
	}
	fs := fatfs.New(&sd)
	fs.Configure(&fatfs.Config{SectorSize: 512})
	if err := fs.Mount(); err != nil {
		return nil, errcode.Wrap(errcode.NotMounted, "sd.mount", err)
	}
	b.dataVol = &FSVolume{FS: fs, Prefix: "/sd"}
	return b.dataVol, nil
}

// LogVolume mounts littlefs on the internal flash, formatting it on first
// boot.
func (b *Board) LogVolume() (storage.Volume, error) {
	if b.logVol != nil {
		return b.logVol, nil
	}
	fs := littlefs.New(machine.Flash)
	fs.Configure(&littlefs.Config{
		CacheSize:     512,
		LookaheadSize: 512,
		BlockCycles:   100,
	})
	if err := fs.Mount(); err != nil {
		if err := fs.Format(); err != nil {
			return nil, errcode.Wrap(errcode.NotMounted, "flash.format", err)
		}
		if err := fs.Mount(); err != nil {
			return nil, errcode.Wrap(errcode.NotMounted, "flash.mount", err)
		}
	}
	b.logVol = &FSVolume{FS: fs}
	return b.logVol, nil
}
