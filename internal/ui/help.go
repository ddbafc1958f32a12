package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pleimann/camel-input/internal/utils"
)

// helpRow is one name/description pair of a help table
type helpRow struct {
	name string
	desc string
}

var (
	cmdStyle     = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
	exampleStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
)

func exe(args string) string {
	if args == "" {
		return utils.ExecutableName()
	}
	return utils.ExecutableName() + " " + args
}

func banner(version string, tag lipgloss.Color) string {
	name := TitleStyle.Render(utils.ExecutableName())
	return name + " " + lipgloss.NewStyle().Foreground(tag).Render("v"+version)
}

// printTable prints rows under title with descriptions aligned in one column
func printTable(title string, rows []helpRow, style lipgloss.Style) {
	fmt.Println(Bold(title))

	width := 0
	for _, r := range rows {
		width = max(width, len(r.name))
	}
	for _, r := range rows {
		padding := strings.Repeat(" ", width-len(r.name)+2)
		fmt.Printf("  %s%s%s\n", style.Render(r.name), padding, Muted(r.desc))
	}
	fmt.Println()
}

const configFlagDesc = `Path to configuration file (default "camel-input.yaml")`

// PrintUsage displays the styled help/usage text
func PrintUsage(version string) {
	fmt.Println(banner(version, ColorMuted))
	fmt.Println(Muted("Input binding runtime for keyboard, mouse and gamepad"))
	fmt.Println()

	printTable("Usage", []helpRow{
		{exe("[run] [flags]"), "Run the input engine"},
		{exe("bindings [flags]"), "Show the active bindings"},
		{exe("list-devices"), "List available HID devices"},
		{exe("set-device [args]"), "Configure the HID gamepad"},
		{exe("help"), "Show this help message"},
	}, lipgloss.NewStyle())

	printTable("Flags", []helpRow{
		{"-config string", configFlagDesc},
		{"-bindings string", "Path to binding override file (overrides config)"},
		{"-verbose", "Enable debug logging"},
		{"-plain", "Log lines instead of the live monitor"},
		{"-version", "Print version and exit"},
	}, SubtitleStyle)

	printTable("Commands", []helpRow{
		{"bindings", "Print the default bindings merged with the override file"},
		{"list-devices", "List HID devices, game controllers first"},
		{"set-device", "Set the HID gamepad in the config file"},
	}, cmdStyle)

	printTable("Environment", []helpRow{
		{"CAMEL_INPUT_BINDINGS_PATH", "Override file path"},
		{"CAMEL_INPUT_TICK_RATE_HZ", "Ticks per second"},
		{"CAMEL_INPUT_MONITOR_LISTEN", "WebSocket monitor address"},
		{"CAMEL_INPUT_LOG_LEVEL", "debug, info, warn or error"},
	}, SubtitleStyle)

	printTable("Examples", []helpRow{
		{exe(""), "Run with default camel-input.yaml"},
		{exe("-config my.yaml"), "Run with custom config file"},
		{exe("bindings"), "Show the merged binding table"},
		{exe("bindings -dump > bindings.yaml"), "Start an override from the defaults"},
		{exe("set-device 0x1234 0x5678"), "Set device by vendor/product ID"},
	}, exampleStyle)
}

// PrintSetDeviceUsage displays the styled help text for set-device subcommand
func PrintSetDeviceUsage() {
	fmt.Println(Bold("Usage:"), exe("set-device [options] [vendor_id product_id]"))
	fmt.Println()
	fmt.Println("Set the HID gamepad adapter in the configuration file.")
	fmt.Println(Muted("Without ids, pick from the connected devices."))
	fmt.Println()

	printTable("Arguments", []helpRow{
		{"vendor_id", "Device vendor ID (hex with 0x prefix or decimal)"},
		{"product_id", "Device product ID (hex with 0x prefix or decimal)"},
	}, SubtitleStyle)

	printTable("Options", []helpRow{
		{"-config string", configFlagDesc},
	}, SubtitleStyle)

	printTable("Examples", []helpRow{
		{exe("set-device"), "Interactive selection"},
		{exe("set-device 0x1234 0x5678"), "Direct specification"},
		{exe("set-device -config my.yaml"), "Use different config"},
	}, exampleStyle)
}

// PrintBindingsUsage displays the styled help text for the bindings subcommand
func PrintBindingsUsage() {
	fmt.Println(Bold("Usage:"), exe("bindings [options]"))
	fmt.Println()
	fmt.Println("Show the default bindings merged with the override file.")
	fmt.Println(Muted("Later entries in the override file win when an event is bound twice."))
	fmt.Println()

	printTable("Options", []helpRow{
		{"-config string", configFlagDesc},
		{"-bindings string", "Path to binding override file (overrides config)"},
		{"-dump", "Write the merged table as override YAML to stdout"},
	}, SubtitleStyle)
}

// PrintVersion displays the styled version information
func PrintVersion(version string) {
	fmt.Println(banner(version, ColorSuccess))
}

// PrintFatalError displays a styled fatal error message with context
func PrintFatalError(context, message string) {
	fmt.Println()
	fmt.Println(Error(context))
	fmt.Printf("  %s\n", Muted(message))
	fmt.Println()
}
