package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"nanokontrol/config"
	"nanokontrol/debug"
	"nanokontrol/midi"
	"nanokontrol/surface"
	"nanokontrol/theme"
	"nanokontrol/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		if errors.Is(err, midi.ErrScanTimeout) {
			fmt.Println("CoreMIDI is hung. Fix: sudo killall coreaudiod midiserver")
		}
		if errors.Is(err, midi.ErrPortNotFound) {
			fmt.Println("Is the nanoKONTROL2 connected? Run `nktool list` to see the ports.")
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Debug {
		if dir, err := config.ConfigDir(); err == nil {
			if err := debug.Enable(dir); err != nil {
				fmt.Printf("Warning: debug log: %v\n", err)
			}
			defer debug.Disable()
		}
	}

	// Load theme
	palette, err := theme.LoadOrDefault(cfg.UI.Palette)
	if err != nil {
		return err
	}
	th := theme.New(palette)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fmt.Println("nanokontrol")
	fmt.Println("Looking for the controller...")

	nk, err := midi.Open(ctx, cfg.Device)
	if err != nil {
		return err
	}
	defer midi.CloseDriver()
	defer nk.Close()

	session := surface.NewSession(nk, cfg.Device.GlobalChannel)
	runDone := make(chan error, 1)
	go func() {
		runDone <- session.Run(ctx, nk)
	}()

	if cfg.UI.NativeMode {
		if err := session.SetNativeMode(true); err != nil {
			return err
		}
	}
	if cfg.UI.RequestSceneOnStart {
		if err := session.RequestScene(); err != nil {
			return err
		}
	}

	// Create and run TUI
	m := tui.NewModel(session, nk.ID(), th, runDone, cfg.UI.NativeMode)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}

	if cfg.UI.NativeMode {
		if err := leaveNativeMode(session); err != nil {
			fmt.Printf("Warning: %v\n", err)
		}
	}
	if debug.Enabled() {
		debug.Log("main", "exit, %d messages dropped", nk.Dropped())
	}
	return nil
}

// leaveNativeMode hands the controller back to its normal mode on exit
func leaveNativeMode(session *surface.Session) error {
	if err := session.SetNativeMode(false); err != nil {
		debug.Log("main", "leave native mode: %v", err)
		return fmt.Errorf("leave native mode: %w", err)
	}
	return nil
}
