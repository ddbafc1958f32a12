package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pleimann/camel-input/internal/action"
	"github.com/pleimann/camel-input/internal/binding"
	"github.com/pleimann/camel-input/internal/config"
	"github.com/pleimann/camel-input/internal/controls"
	"github.com/pleimann/camel-input/internal/device"
	"github.com/pleimann/camel-input/internal/engine"
	"github.com/pleimann/camel-input/internal/evdev"
	"github.com/pleimann/camel-input/internal/event"
	"github.com/pleimann/camel-input/internal/hid"
	"github.com/pleimann/camel-input/internal/logging"
	"github.com/pleimann/camel-input/internal/monitor"
	"github.com/pleimann/camel-input/internal/ui"
	"golang.org/x/term"
)

const Version = "0.2.0"

func main() {
	args := os.Args[1:]

	// Check for subcommands first
	if len(args) > 0 {
		switch args[0] {
		case "run":
			args = args[1:]
		case "bindings":
			runBindings(args[1:])
			return
		case "list-devices":
			runListDevices()
			return
		case "set-device", "select-device":
			runSetDevice(args[1:])
			return
		case "help", "-h", "--help":
			printUsage()
			os.Exit(0)
		}
	}

	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultPath, "path to configuration file")
	bindingsPath := fs.String("bindings", "", "path to binding override file")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	plain := fs.Bool("plain", false, "log lines instead of the live monitor")
	version := fs.Bool("version", false, "print version and exit")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *version {
		ui.PrintVersion(Version)
		os.Exit(0)
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}
	if *bindingsPath != "" {
		cfg.Bindings.Path = *bindingsPath
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	interactive := !*plain && term.IsTerminal(int(os.Stdout.Fd()))

	// The live monitor owns the terminal; log lines would corrupt it
	var logOut io.Writer = os.Stderr
	if interactive {
		logOut = io.Discard
	}
	logger, err := logging.Setup(logOut, cfg.Log.Level)
	if err != nil {
		ui.PrintFatalError("Invalid log level", err.Error())
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := newApp(cfg, logger)
	if err != nil {
		ui.PrintFatalError("Failed to initialize", err.Error())
		os.Exit(1)
	}

	if err := app.Run(ctx, interactive); err != nil && ctx.Err() == nil {
		ui.PrintFatalError("Application error", err.Error())
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func printUsage() {
	ui.PrintUsage(Version)
}

// runBindings handles the bindings subcommand
func runBindings(args []string) {
	fs := flag.NewFlagSet("bindings", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultPath, "path to configuration file")
	bindingsPath := fs.String("bindings", "", "path to binding override file")
	dump := fs.Bool("dump", false, "write the merged table as override YAML")
	fs.Usage = func() {
		ui.PrintBindingsUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}
	path := cfg.Bindings.Path
	if *bindingsPath != "" {
		path = *bindingsPath
	}

	override, err := controls.LoadOverride(path)
	if err != nil {
		ui.PrintFatalError("Failed to load bindings", err.Error())
		os.Exit(1)
	}
	table := binding.Build(controls.Defaults(), override)

	if *dump {
		data, err := config.MarshalOverride(binding.Invert(table))
		if err != nil {
			ui.PrintFatalError("Failed to encode bindings", err.Error())
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	overridden := make(map[event.Event]bool)
	for el := override.Front(); el != nil; el = el.Next() {
		for _, e := range el.Value {
			overridden[e] = true
		}
	}

	rows := make([]ui.BindingRow, 0, table.Len())
	for _, entry := range table.Entries() {
		rows = append(rows, ui.BindingRow{
			Event:      entry.Event.String(),
			Action:     entry.Action.String(),
			Overridden: overridden[entry.Event],
		})
	}

	source := path
	if !config.Exists(path) {
		source = path + " (not found, defaults only)"
	}
	ui.PrintBindings(source, table.Fingerprint(), rows)
}

// runListDevices handles the list-devices subcommand
func runListDevices() {
	devices, err := hid.ListDevices()
	if err != nil {
		ui.PrintFatalError("Failed to list devices", err.Error())
		os.Exit(1)
	}
	uiDevices := make([]ui.DeviceInfo, len(devices))
	for i, d := range devices {
		uiDevices[i] = ui.DeviceInfo{
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Manufacturer: d.Manufacturer,
			Product:      d.Product,
			Gamepad:      d.IsGamepad(),
		}
	}
	ui.PrintDeviceList(uiDevices)
}

// runSetDevice handles the set-device subcommand
func runSetDevice(args []string) {
	fs := flag.NewFlagSet("set-device", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultPath, "path to configuration file")
	fs.Usage = func() {
		ui.PrintSetDeviceUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	remaining := fs.Args()

	var vendorID, productID uint16

	if len(remaining) >= 2 {
		vid, err := parseID(remaining[0])
		if err != nil {
			ui.PrintFatalError("Invalid vendor_id", fmt.Sprintf("%q: %v", remaining[0], err))
			os.Exit(1)
		}
		pid, err := parseID(remaining[1])
		if err != nil {
			ui.PrintFatalError("Invalid product_id", fmt.Sprintf("%q: %v", remaining[1], err))
			os.Exit(1)
		}
		vendorID = vid
		productID = pid
	} else if len(remaining) == 1 {
		ui.PrintFatalError("Invalid arguments", "Both vendor_id and product_id must be provided, or neither")
		os.Exit(1)
	} else {
		device, err := selectDevice()
		if err != nil {
			ui.PrintFatalError("Device selection failed", err.Error())
			os.Exit(1)
		}
		if device == nil {
			fmt.Println(ui.Muted("No device selected"))
			os.Exit(0)
		}
		vendorID = device.VendorID
		productID = device.ProductID
	}

	if config.Exists(*configPath) {
		if err := config.UpdateDeviceIDs(*configPath, vendorID, productID); err != nil {
			ui.PrintFatalError("Failed to update config", err.Error())
			os.Exit(1)
		}
		ui.PrintDeviceUpdated(*configPath, vendorID, productID)
	} else {
		if err := config.CreateDefaultConfig(*configPath, vendorID, productID); err != nil {
			ui.PrintFatalError("Failed to create config", err.Error())
			os.Exit(1)
		}
		ui.PrintDeviceCreated(*configPath, vendorID, productID)
	}
}

// parseID parses a vendor or product ID from string (supports hex with 0x prefix or decimal)
func parseID(s string) (uint16, error) {
	s = strings.TrimSpace(s)

	var val uint64
	var err error

	if strings.HasPrefix(strings.ToLower(s), "0x") {
		val, err = strconv.ParseUint(s[2:], 16, 16)
	} else {
		val, err = strconv.ParseUint(s, 10, 16)
	}

	if err != nil {
		return 0, err
	}

	return uint16(val), nil
}

// selectDevice displays an interactive device selection menu using huh
func selectDevice() (*ui.DeviceInfo, error) {
	devices, err := hid.ListDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no HID devices found")
	}

	// Deduplicate devices by vendor/product ID
	seen := make(map[uint32]bool)
	var unique []ui.DeviceInfo

	for _, d := range devices {
		key := uint32(d.VendorID)<<16 | uint32(d.ProductID)
		if seen[key] {
			continue
		}
		seen[key] = true

		// Skip devices with no vendor/product ID
		if d.VendorID == 0 && d.ProductID == 0 {
			continue
		}

		unique = append(unique, ui.DeviceInfo{
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Manufacturer: d.Manufacturer,
			Product:      d.Product,
			Gamepad:      d.IsGamepad(),
		})
	}

	if len(unique) == 0 {
		return nil, fmt.Errorf("no identifiable HID devices found")
	}

	return ui.SelectDevice(unique)
}

type App struct {
	config  *config.Config
	logger  *slog.Logger
	store   *binding.Store[controls.Action]
	engine  *engine.Engine[controls.Action]
	watcher *config.Watcher[binding.Override[controls.Action]]
	evdev   *evdev.Reader
	monitor *monitor.Server
	raw     chan device.RawEvent
	program *tea.Program
}

func newApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{
		config: cfg,
		logger: logger,
		store:  binding.NewStore(controls.Defaults()),
		raw:    make(chan device.RawEvent, 256),
	}
	app.engine = engine.New(app.store)

	// A malformed override at startup is an error; once running, reloads
	// fail open and keep the previous table
	override, err := controls.LoadOverride(cfg.Bindings.Path)
	if err != nil {
		return nil, err
	}
	app.store.Apply(override)
	logger.Info("bindings loaded", "path", cfg.Bindings.Path, "bindings", app.store.Load().Len())

	if !cfg.Bindings.DisableWatch {
		w, err := config.NewWatcher(cfg.Bindings.Path, controls.LoadOverride)
		if err != nil {
			return nil, fmt.Errorf("failed to watch bindings: %w", err)
		}
		w.OnReload(app.applyOverride)
		app.watcher = w
	}

	if len(cfg.Evdev.Devices) > 0 {
		r, err := evdev.Open(cfg.Evdev.Devices)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("failed to open input devices: %w", err)
		}
		app.evdev = r
	}

	if cfg.Monitor.Listen != "" {
		app.monitor = monitor.NewServer(logger.With("component", "monitor"), monitor.ServerConfig{})
	}

	return app, nil
}

func (a *App) applyOverride(o binding.Override[controls.Action]) {
	if !a.store.Apply(o) {
		a.logger.Debug("bindings unchanged")
		return
	}
	table := a.store.Load()
	a.logger.Info("bindings swapped", "bindings", table.Len(), "fingerprint", fmt.Sprintf("%016x", table.Fingerprint()))
	a.send(ui.ReloadMsg{Bindings: table.Len(), Fingerprint: table.Fingerprint()})
}

// send forwards msg to the live monitor, if one is running
func (a *App) send(msg tea.Msg) {
	if a.program != nil {
		a.program.Send(msg)
	}
}

func (a *App) Run(ctx context.Context, interactive bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.close()

	if interactive {
		names := make([]string, len(controls.All))
		for i, act := range controls.All {
			names[i] = act.String()
		}
		a.program = tea.NewProgram(ui.NewMonitorModel(names), tea.WithContext(ctx))
	}

	if a.watcher != nil {
		a.watcher.Start()
	}

	if a.config.GamepadEnabled() {
		go a.runGamepad(ctx)
	}

	if a.evdev != nil {
		go func() {
			if err := a.evdev.ReadEvents(ctx, a.raw); err != nil && ctx.Err() == nil {
				a.logger.Error("input devices stopped", "error", err)
				a.send(ui.ErrorMsg{Err: err})
			}
		}()
	}

	if a.monitor != nil {
		go func() {
			if err := a.monitor.ListenAndServe(ctx, a.config.Monitor.Listen); err != nil {
				a.logger.Error("monitor stopped", "error", err)
			}
		}()
	}

	rate := time.Second / time.Duration(a.config.Engine.TickRateHz)
	engineErr := make(chan error, 1)
	go func() {
		engineErr <- a.engine.Run(ctx, rate, a.raw, a.onTick)
	}()

	if a.program != nil {
		_, err := a.program.Run()
		cancel()
		<-engineErr
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	}

	err := <-engineErr
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) onTick(q action.Query[controls.Action]) {
	if a.monitor == nil && a.program == nil && !a.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	snap := monitor.Actions(a.engine.Snapshot())
	tick := a.engine.Ticks()

	if a.monitor != nil {
		a.monitor.Publish(tick, snap)
	}
	if a.program != nil {
		a.send(ui.StateMsg{Tick: tick, Actions: snap})
		return
	}
	if q.Active(controls.Pause) {
		a.logger.Debug("pause pressed", "tick", tick)
	}
	if len(snap) > 0 {
		a.logger.Debug("actions", "tick", tick, "active", describe(snap))
	}
}

// describe renders a snapshot as "jump steer=0.50" in name order
func describe(snap map[string]*float32) string {
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, len(names))
	for i, name := range names {
		if v := snap[name]; v != nil {
			parts[i] = fmt.Sprintf("%s=%.2f", name, *v)
		} else {
			parts[i] = name
		}
	}
	return strings.Join(parts, " ")
}

// runGamepad keeps the HID gamepad connected, reopening it after failures
func (a *App) runGamepad(ctx context.Context) {
	gp := a.config.Gamepad
	poll := time.Duration(gp.PollIntervalMs) * time.Millisecond
	logger := a.logger.With("component", "gamepad", "device", fmt.Sprintf("0x%04X:0x%04X", gp.VendorID, gp.ProductID))

	dev, err := hid.NewDevice(gp.VendorID, gp.ProductID, gp.Deadzone)
	if err != nil {
		logger.Warn("gamepad not available, waiting", "error", err)
		a.send(ui.ErrorMsg{Err: errors.New("gamepad not connected")})
		dev = hid.NewPendingDevice(gp.VendorID, gp.ProductID, gp.Deadzone)
		if err := dev.WaitForDevice(ctx, poll); err != nil {
			return
		}
	}
	defer dev.Close()

	for {
		if info := hid.FindDevice(gp.VendorID, gp.ProductID); info != nil {
			logger.Info("gamepad connected", "product", info.Product, "manufacturer", info.Manufacturer)
		} else {
			logger.Info("gamepad connected")
		}
		a.send(ui.ErrorMsg{})

		err := dev.ReadEvents(ctx, a.raw)
		if ctx.Err() != nil {
			return
		}
		logger.Warn("gamepad disconnected, waiting", "error", err)
		a.send(ui.ErrorMsg{Err: fmt.Errorf("gamepad disconnected: %w", err)})

		if err := dev.WaitForDevice(ctx, poll); err != nil {
			return
		}
	}
}

func (a *App) close() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.evdev != nil {
		a.evdev.Close()
	}
}
