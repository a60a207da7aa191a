package cli

import (
	"fmt"
	"os/exec"
	"runtime"
)

const (
	darwinOpenCommand  = "open"
	windowsOpenCommand = "explorer"
	linuxOpenCommand   = "xdg-open"
)

// directoryOpener shows a folder in the platform file manager.
type directoryOpener interface {
	Open(path string) error
}

type systemOpener struct {
	operatingSystem string
	start           func(name string, arguments ...string) error
}

func newSystemOpener() systemOpener {
	return systemOpener{operatingSystem: runtime.GOOS, start: startDetached}
}

// Open launches the file manager without waiting for it to exit.
func (opener systemOpener) Open(path string) error {
	commandName := openCommandFor(opener.operatingSystem)
	if err := opener.start(commandName, path); err != nil {
		return fmt.Errorf("%s %s: %w", commandName, path, err)
	}
	return nil
}

func openCommandFor(operatingSystem string) string {
	switch operatingSystem {
	case "darwin":
		return darwinOpenCommand
	case "windows":
		return windowsOpenCommand
	default:
		return linuxOpenCommand
	}
}

func startDetached(name string, arguments ...string) error {
	command := exec.Command(name, arguments...)
	if err := command.Start(); err != nil {
		return err
	}
	go func() { _ = command.Wait() }()
	return nil
}
