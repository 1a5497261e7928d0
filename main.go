package main

import (
	"context"
	"time"

	"datalogger-go/platform"
	"datalogger-go/services/acquire"
	"datalogger-go/types"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot", platform.SelectedSetup.Name)

	board := platform.New(platform.SelectedSetup)
	c, err := acquire.Boot(board, types.DefaultConfig())
	if err == nil {
		err = c.Run(context.Background())
	}
	// The reset strategy has already run; only a reset that returned gets here.
	println("halted:", err.Error())
	for {
		time.Sleep(time.Hour)
	}
}
