package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"nanokontrol/config"
	"nanokontrol/debug"
	"nanokontrol/korg"
	"nanokontrol/midi"
	"nanokontrol/surface"
)

const replyTimeout = 3 * time.Second

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Debug {
		if err := enableDebug(); err != nil {
			fmt.Printf("Warning: debug log: %v\n", err)
		}
		defer debug.Disable()
	}
	defer midi.CloseDriver()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch os.Args[1] {
	case "list":
		err = listPorts(ctx, cfg)
	case "detect":
		err = detect(ctx, cfg)
	case "dump":
		err = dumpScene(ctx, cfg)
	case "watch":
		err = watch(ctx, cfg)
	case "write-default":
		err = writeDefault(ctx, cfg)
	case "config":
		err = showConfig(cfg)
	default:
		usage()
		return
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Printf("Error: %v\n", err)
		if errors.Is(err, midi.ErrScanTimeout) {
			fmt.Println("CoreMIDI is hung. Fix: sudo killall coreaudiod midiserver")
		}
		os.Exit(1)
	}
}

func enableDebug() error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	return debug.Enable(dir)
}

func usage() {
	fmt.Println("nanoKONTROL2 tool")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list           - List all MIDI ports")
	fmt.Println("  detect         - Find the controller and ask for its mode")
	fmt.Println("  dump           - Read and print the current scene")
	fmt.Println("  watch          - Print incoming messages until Ctrl-C")
	fmt.Println("  write-default  - Write the factory scene to the controller")
	fmt.Println("  config         - Write the config file if missing and print it")
}

func listPorts(ctx context.Context, cfg *config.Config) error {
	fmt.Printf("(waiting up to %s...)\n", cfg.Device.ScanTimeout())
	ports, err := midi.ScanPorts(ctx, cfg.Device.ScanTimeout())
	if err != nil {
		return err
	}

	fmt.Println("=== MIDI Input Ports ===")
	for i, name := range ports.InNames() {
		fmt.Printf("  %d: %s\n", i, name)
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, name := range ports.OutNames() {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return nil
}

// connect opens the controller and starts a session reading from it
func connect(ctx context.Context, cfg *config.Config) (*midi.NanoKontrol, *surface.Session, error) {
	nk, err := midi.Open(ctx, cfg.Device)
	if err != nil {
		return nil, nil, err
	}
	fmt.Printf("Using %s\n", nk.ID())

	session := surface.NewSession(nk, cfg.Device.GlobalChannel)
	go session.Run(ctx, nk)
	return nk, session, nil
}

// waitFor blocks until done reports true for a session snapshot
func waitFor(ctx context.Context, session *surface.Session, done func(surface.Snapshot) bool) (surface.Snapshot, error) {
	timer := time.NewTimer(replyTimeout)
	defer timer.Stop()

	for {
		snap := session.Snapshot()
		if done(snap) {
			return snap, nil
		}
		select {
		case <-session.UpdateChan:
		case <-timer.C:
			return snap, errors.New("no reply from controller")
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

func detect(ctx context.Context, cfg *config.Config) error {
	nk, session, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer nk.Close()

	if err := session.RequestMode(); err != nil {
		return err
	}
	snap, err := waitFor(ctx, session, func(s surface.Snapshot) bool { return s.HasReply })
	if err != nil {
		return err
	}
	fmt.Printf("nanoKONTROL2 detected: %s (data %#02x)\n", snap.LastReply.Function, snap.LastReply.Data)
	return nil
}

// readScene asks the controller for its current scene
func readScene(ctx context.Context, cfg *config.Config) (korg.Parameters, error) {
	nk, session, err := connect(ctx, cfg)
	if err != nil {
		return korg.Parameters{}, err
	}
	defer nk.Close()

	if err := session.RequestScene(); err != nil {
		return korg.Parameters{}, err
	}
	snap, err := waitFor(ctx, session, func(s surface.Snapshot) bool { return s.HasScene || s.Err != nil })
	if err != nil {
		return korg.Parameters{}, err
	}
	if !snap.HasScene {
		return korg.Parameters{}, snap.Err
	}
	return snap.Scene, nil
}

func dumpScene(ctx context.Context, cfg *config.Config) error {
	p, err := readScene(ctx, cfg)
	if err != nil {
		return err
	}
	printScene(&p)
	return nil
}

func printScene(p *korg.Parameters) {
	fmt.Printf("Global channel: %d\n", p.GlobalChannel+1)
	fmt.Printf("Control mode:   %s\n", p.ControlMode)
	fmt.Printf("LED mode:       %s\n", p.LedMode)
	fmt.Println("")
	fmt.Println("grp  ch      slider       knob         solo  mute  rec")
	for i, g := range p.Groups {
		fmt.Printf("%-4d %-7s %-12s %-12s %-5d %-5d %d\n", i+1, g.Channel,
			slider(g.Slider), slider(g.Knob), g.Solo.NoteNumber, g.Mute.NoteNumber, g.Record.NoteNumber)
	}
	fmt.Println("")
	fmt.Printf("Transport (%s):\n", p.TransportChannel)
	for _, b := range korg.TransportButtons() {
		bp := p.Transport(b)
		fmt.Printf("  %-8s %-4s cc%-3d %s\n", b, bp.AssignType, bp.NoteNumber, bp.Behavior)
	}
}

func slider(s korg.SliderParameters) string {
	if s.AssignType == korg.SliderDisable {
		return "off"
	}
	return fmt.Sprintf("cc%d %d-%d", s.NoteNumber, s.MinValue, s.MaxValue)
}

func watch(ctx context.Context, cfg *config.Config) error {
	nk, err := midi.Open(ctx, cfg.Device)
	if err != nil {
		return err
	}
	defer nk.Close()

	p := korg.DefaultParameters()
	p.GlobalChannel = cfg.Device.GlobalChannel
	var state korg.ControlState

	fmt.Printf("Watching %s, Ctrl-C to stop\n", nk.ID())
	for {
		select {
		case <-ctx.Done():
			if n := nk.Dropped(); n > 0 {
				fmt.Printf("\n%d messages dropped\n", n)
			}
			return nil
		case cc, ok := <-nk.ControlChanges():
			if !ok {
				return midi.ErrClosed
			}
			if c, ok := state.Apply(&p, cc); ok {
				fmt.Printf("%8dms  %-8s %3d\n", cc.Timestamp, c, cc.Value)
			} else {
				fmt.Printf("%8dms  ch%d cc%d %3d\n", cc.Timestamp, cc.Channel+1, cc.Controller, cc.Value)
			}
		case ev, ok := <-nk.SysEx():
			if !ok {
				return midi.ErrClosed
			}
			if r, ok := korg.ParseReply(ev); ok {
				fmt.Printf("%8dms  reply %s (%d)\n", ev.Timestamp, r.Function, r.Data)
				continue
			}
			if scene, err := korg.DecodeDump(ev); err == nil {
				p = scene
				fmt.Printf("%8dms  scene dump, global ch%d, %s mode\n", ev.Timestamp, p.GlobalChannel+1, p.ControlMode)
				continue
			}
			fmt.Printf("%8dms  sysex %s % X\n", ev.Timestamp, korg.Command(ev.Command), ev.Payload)
		}
	}
}

func writeDefault(ctx context.Context, cfg *config.Config) error {
	p := korg.DefaultParameters()
	p.GlobalChannel = cfg.Device.GlobalChannel
	fmt.Println("Writing factory scene...")
	return writeScene(ctx, cfg, p)
}

// writeScene loads p into the controller and waits for it to be stored
func writeScene(ctx context.Context, cfg *config.Config, p korg.Parameters) error {
	nk, session, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer nk.Close()

	if err := session.WriteScene(p); err != nil {
		return err
	}

	snap, err := waitFor(ctx, session, func(s surface.Snapshot) bool {
		return s.Write == surface.WriteDone || s.Write == surface.WriteFailed
	})
	if err != nil {
		return err
	}
	if snap.Write == surface.WriteFailed {
		return snap.Err
	}
	fmt.Println("Done! Scene stored on the controller")
	return nil
}

func showConfig(cfg *config.Config) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Wrote defaults to %s\n", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s:\n%s\n", path, data)
	return nil
}

