// Package cli implements the interactive command-line interface for
// orgbnet: device listing, color and mode control, profile and preset
// management against the connected OpenRGB server.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/orgbnet-project/orgbnet/internal/config"
	"github.com/orgbnet-project/orgbnet/internal/events"
	"github.com/orgbnet-project/orgbnet/internal/lighting"
	"github.com/orgbnet-project/orgbnet/internal/protocol"
)

// CLI provides an interactive command-line interface.
type CLI struct {
	cfg      *config.Config
	eventBus *events.EventBus
	manager  *lighting.Manager
}

// NewCLI creates a new CLI handler.
func NewCLI(cfg *config.Config, eventBus *events.EventBus, manager *lighting.Manager) *CLI {
	return &CLI{
		cfg:      cfg,
		eventBus: eventBus,
		manager:  manager,
	}
}

// Start begins the interactive CLI loop.
func (c *CLI) Start(ctx context.Context) {
	fmt.Println("\norgbnet CLI ready. Type 'help' for available commands.")
	fmt.Println("─────────────────────────────────────────────────────")

	reader := bufio.NewScanner(os.Stdin)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fmt.Print("orgbnet> ")
		if !reader.Scan() {
			if err := reader.Err(); err != nil && err != io.EOF {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		line := strings.TrimSpace(reader.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		if err := c.execute(ctx, cmd, args); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

// execute processes a single CLI command.
func (c *CLI) execute(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help", "h", "?":
		c.printHelp()
	case "list", "ls":
		c.printControllers()
	case "info", "i":
		return c.cmdInfo(args)
	case "color":
		return c.cmdColor(ctx, args)
	case "zone":
		return c.cmdZoneColor(ctx, args)
	case "led":
		return c.cmdLEDColor(ctx, args)
	case "mode":
		return c.cmdMode(ctx, args)
	case "resize":
		return c.cmdResize(ctx, args)
	case "segment":
		return c.cmdSegment(ctx, args)
	case "preset":
		return c.cmdPreset(ctx, args)
	case "presets":
		c.printPresets()
	case "profiles":
		return c.cmdProfiles()
	case "profile":
		return c.cmdProfile(ctx, args)
	case "plugins":
		return c.cmdPlugins()
	case "refresh":
		return c.manager.Refresh(ctx)
	case "rescan":
		return c.cmdRescan(ctx)
	case "reconnect":
		return c.manager.Connect(ctx)
	case "setconfig":
		return c.cmdSetConfig(args)
	case "status", "s":
		c.printStatus()
	case "quit", "exit", "q":
		fmt.Println("Shutting down orgbnet...")
		c.eventBus.Emit(ctx, events.Event{
			Type:   events.EventShutdown,
			Source: "cli",
		})
	default:
		fmt.Printf("Unknown command: '%s'. Type 'help' for available commands.\n", cmd)
	}
	return nil
}

// printHelp displays available commands.
func (c *CLI) printHelp() {
	fmt.Println("\n╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                      orgbnet CLI Commands                    ║")
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	fmt.Println("║  list               List detected RGB controllers            ║")
	fmt.Println("║  info <id>          Show zones, modes and LEDs of a device   ║")
	fmt.Println("║  color <id> <hex>   Set every LED of a device to a color     ║")
	fmt.Println("║  zone <id> <z> <hex>  Set every LED of one zone              ║")
	fmt.Println("║  led <id> <n> <hex>   Set a single LED                       ║")
	fmt.Println("║  mode <id> <name> [save]  Activate a mode by name            ║")
	fmt.Println("║  resize <id> <z> <n>  Resize a resizable zone                ║")
	fmt.Println("║  segment add|clear ...  Manage zone segments (protocol 5)    ║")
	fmt.Println("║  preset <id> <name>   Apply a local color preset             ║")
	fmt.Println("║  presets            List local color presets                 ║")
	fmt.Println("║  profiles           List server-side profiles                ║")
	fmt.Println("║  profile save|load|delete <name>  Manage profiles            ║")
	fmt.Println("║  plugins            List server plugins                      ║")
	fmt.Println("║  refresh            Re-fetch controller snapshots            ║")
	fmt.Println("║  rescan             Ask the server to re-detect devices      ║")
	fmt.Println("║  reconnect          Re-establish the server session          ║")
	fmt.Println("║  setconfig <k> <v>  Update a configuration value             ║")
	fmt.Println("║  status             Show session status                      ║")
	fmt.Println("║  quit               Shutdown orgbnet                         ║")
	fmt.Println("║  help               Show this help message                   ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Println()
}

// printControllers displays all controllers in a formatted table.
func (c *CLI) printControllers() {
	controllers := c.manager.Controllers()
	if len(controllers) == 0 {
		fmt.Println("No controllers detected. Try 'refresh' or 'rescan'.")
		return
	}

	fmt.Println()

	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"ID", "Name", "Type", "Vendor", "Active Mode", "Zones", "LEDs"})
	tw.SetBorder(true)
	tw.SetAutoWrapText(false)

	for _, ctrl := range controllers {
		activeMode := "-"
		if mode := ctrl.CurrentMode(); mode != nil {
			activeMode = mode.Name
		}
		tw.Append([]string{
			fmt.Sprintf("%d", ctrl.ID),
			ctrl.Name,
			ctrl.Type.String(),
			ctrl.Vendor,
			activeMode,
			fmt.Sprintf("%d", len(ctrl.Zones)),
			fmt.Sprintf("%d", ctrl.LEDCount()),
		})
	}

	tw.Render()
	fmt.Println()
}

// cmdInfo prints detailed info for a single controller.
func (c *CLI) cmdInfo(args []string) error {
	ctrl, err := c.controllerArg(args)
	if err != nil {
		return err
	}

	fmt.Printf("\n  Controller:   %d\n", ctrl.ID)
	fmt.Printf("  Name:         %s\n", ctrl.Name)
	fmt.Printf("  Type:         %s\n", ctrl.Type)
	fmt.Printf("  Vendor:       %s\n", ctrl.Vendor)
	fmt.Printf("  Description:  %s\n", ctrl.Description)
	fmt.Printf("  Firmware:     %s\n", ctrl.FWVersion)
	fmt.Printf("  Serial:       %s\n", ctrl.Serial)
	fmt.Printf("  Location:     %s\n", ctrl.Location)
	fmt.Printf("  LEDs:         %d\n", ctrl.LEDCount())

	if len(ctrl.Zones) > 0 {
		fmt.Println("\n  Zones:")
		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"ID", "Name", "Type", "LEDs", "Min", "Max", "Matrix"})
		for i := range ctrl.Zones {
			z := &ctrl.Zones[i]
			matrix := "-"
			if z.Matrix != nil {
				matrix = fmt.Sprintf("%dx%d", z.Matrix.Height, z.Matrix.Width)
			}
			tw.Append([]string{
				fmt.Sprintf("%d", z.ID),
				z.Name,
				z.Type.String(),
				fmt.Sprintf("%d", z.LEDsCount),
				fmt.Sprintf("%d", z.LEDsMin),
				fmt.Sprintf("%d", z.LEDsMax),
				matrix,
			})
		}
		tw.Render()
	}

	if len(ctrl.Modes) > 0 {
		fmt.Println("\n  Modes:")
		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"Index", "Name", "Color Mode", "Speed", "Brightness", "Active"})
		for i := range ctrl.Modes {
			m := &ctrl.Modes[i]
			speed := "-"
			if min, max, cur, ok := m.SpeedRange(); ok {
				speed = fmt.Sprintf("%d (%d-%d)", cur, min, max)
			}
			brightness := "-"
			if b, ok := m.BrightnessValue(); ok {
				brightness = fmt.Sprintf("%d", b)
			}
			active := ""
			if int32(i) == ctrl.ActiveMode {
				active = "*"
			}
			tw.Append([]string{
				fmt.Sprintf("%d", m.Index),
				m.Name,
				m.ColorMode.String(),
				speed,
				brightness,
				active,
			})
		}
		tw.Render()
	}
	fmt.Println()
	return nil
}

func (c *CLI) cmdColor(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: color <id> <hex>")
	}
	ctrl, err := c.controllerArg(args)
	if err != nil {
		return err
	}
	color, err := protocol.ParseColor(args[1])
	if err != nil {
		return err
	}

	if err := c.manager.SetControllerColor(ctx, ctrl.ID, color); err != nil {
		return err
	}
	fmt.Printf("Controller %d set to %s\n", ctrl.ID, color.Hex())
	return nil
}

func (c *CLI) cmdZoneColor(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: zone <id> <zone> <hex>")
	}
	ctrl, err := c.controllerArg(args)
	if err != nil {
		return err
	}
	zoneID, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid zone id: %s", args[1])
	}
	color, err := protocol.ParseColor(args[2])
	if err != nil {
		return err
	}

	if err := c.manager.SetZoneColor(ctx, ctrl.ID, uint32(zoneID), color); err != nil {
		return err
	}
	fmt.Printf("Controller %d zone %d set to %s\n", ctrl.ID, zoneID, color.Hex())
	return nil
}

func (c *CLI) cmdLEDColor(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: led <id> <led> <hex>")
	}
	ctrl, err := c.controllerArg(args)
	if err != nil {
		return err
	}
	led, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil || led < 0 {
		return fmt.Errorf("invalid led index: %s", args[1])
	}
	color, err := protocol.ParseColor(args[2])
	if err != nil {
		return err
	}

	if err := c.manager.SetLEDColor(ctx, ctrl.ID, int32(led), color); err != nil {
		return err
	}
	fmt.Printf("Controller %d led %d set to %s\n", ctrl.ID, led, color.Hex())
	return nil
}

func (c *CLI) cmdMode(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: mode <id> <name> [save]")
	}
	ctrl, err := c.controllerArg(args)
	if err != nil {
		return err
	}

	save := false
	nameArgs := args[1:]
	if len(nameArgs) > 1 && strings.EqualFold(nameArgs[len(nameArgs)-1], "save") {
		save = true
		nameArgs = nameArgs[:len(nameArgs)-1]
	}
	name := strings.Join(nameArgs, " ")

	if err := c.manager.SetMode(ctx, ctrl.ID, name, save); err != nil {
		return err
	}
	if save {
		fmt.Printf("Controller %d mode set to %q and saved to device\n", ctrl.ID, name)
	} else {
		fmt.Printf("Controller %d mode set to %q\n", ctrl.ID, name)
	}
	return nil
}

func (c *CLI) cmdResize(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: resize <id> <zone> <size>")
	}
	ctrl, err := c.controllerArg(args)
	if err != nil {
		return err
	}
	zoneID, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil || zoneID < 0 {
		return fmt.Errorf("invalid zone id: %s", args[1])
	}
	size, err := strconv.ParseInt(args[2], 10, 32)
	if err != nil || size < 0 {
		return fmt.Errorf("invalid size: %s", args[2])
	}

	if err := c.manager.ResizeZone(ctx, ctrl.ID, int32(zoneID), int32(size)); err != nil {
		return err
	}
	fmt.Printf("Controller %d zone %d resized to %d LEDs\n", ctrl.ID, zoneID, size)
	return nil
}

func (c *CLI) cmdSegment(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: segment add <id> <zone> <name> <start> <count> | segment clear <id> <zone>")
	}
	action := strings.ToLower(args[0])

	switch action {
	case "add":
		if len(args) < 6 {
			return fmt.Errorf("usage: segment add <id> <zone> <name> <start> <count>")
		}
		ctrl, err := c.controllerArg(args[1:])
		if err != nil {
			return err
		}
		zoneID, err := strconv.ParseUint(args[2], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid zone id: %s", args[2])
		}
		start, err := strconv.ParseUint(args[4], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid start index: %s", args[4])
		}
		count, err := strconv.ParseUint(args[5], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid led count: %s", args[5])
		}

		segment := protocol.SegmentData{
			Name:     args[3],
			Type:     int32(protocol.ZoneLinear),
			StartIdx: uint32(start),
			LEDCount: uint32(count),
		}
		if err := c.manager.AddSegment(ctx, ctrl.ID, uint32(zoneID), segment); err != nil {
			return err
		}
		fmt.Printf("Segment %q added to controller %d zone %d\n", args[3], ctrl.ID, zoneID)
	case "clear":
		if len(args) < 3 {
			return fmt.Errorf("usage: segment clear <id> <zone>")
		}
		ctrl, err := c.controllerArg(args[1:])
		if err != nil {
			return err
		}
		zoneID, err := strconv.ParseUint(args[2], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid zone id: %s", args[2])
		}
		if err := c.manager.ClearSegments(ctx, ctrl.ID, uint32(zoneID)); err != nil {
			return err
		}
		fmt.Printf("Segments cleared on controller %d zone %d\n", ctrl.ID, zoneID)
	default:
		return fmt.Errorf("unknown segment action: %s", action)
	}
	return nil
}

func (c *CLI) cmdPreset(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: preset <id> <name>")
	}
	ctrl, err := c.controllerArg(args)
	if err != nil {
		return err
	}
	name := strings.Join(args[1:], " ")

	if err := c.manager.ApplyPreset(ctx, ctrl.ID, name); err != nil {
		return err
	}
	fmt.Printf("Preset %q applied to controller %d\n", name, ctrl.ID)
	return nil
}

// printPresets displays the local color presets.
func (c *CLI) printPresets() {
	list := c.manager.Presets().List()
	if len(list) == 0 {
		fmt.Println("No presets found. Add YAML files to the preset directory.")
		return
	}

	fmt.Println()
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"Name", "Colors", "Description"})
	tw.SetAutoWrapText(false)
	for _, p := range list {
		tw.Append([]string{p.Name, strings.Join(p.Colors, " "), p.Description})
	}
	tw.Render()
	fmt.Println()
}

func (c *CLI) cmdProfiles() error {
	profiles, err := c.manager.Profiles()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Println("No profiles stored on the server.")
		return nil
	}
	fmt.Println("\nServer profiles:")
	for _, name := range profiles {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println()
	return nil
}

func (c *CLI) cmdProfile(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: profile save|load|delete <name>")
	}
	action := strings.ToLower(args[0])
	name := strings.Join(args[1:], " ")

	switch action {
	case "save":
		if err := c.manager.SaveProfile(ctx, name); err != nil {
			return err
		}
		fmt.Printf("Profile %q saved\n", name)
	case "load":
		if err := c.manager.LoadProfile(ctx, name); err != nil {
			return err
		}
		fmt.Printf("Profile %q loaded\n", name)
	case "delete", "del":
		if err := c.manager.DeleteProfile(ctx, name); err != nil {
			return err
		}
		fmt.Printf("Profile %q deleted\n", name)
	default:
		return fmt.Errorf("unknown profile action: %s", action)
	}
	return nil
}

func (c *CLI) cmdPlugins() error {
	plugins, err := c.manager.Plugins()
	if err != nil {
		return err
	}
	if len(plugins) == 0 {
		fmt.Println("No plugins loaded on the server.")
		return nil
	}

	fmt.Println()
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"Index", "Name", "Version", "Description"})
	tw.SetAutoWrapText(false)
	for _, p := range plugins {
		tw.Append([]string{
			fmt.Sprintf("%d", p.Index),
			p.Name,
			p.Version,
			p.Description,
		})
	}
	tw.Render()
	fmt.Println()
	return nil
}

func (c *CLI) cmdRescan(ctx context.Context) error {
	if err := c.manager.Rescan(ctx); err != nil {
		return err
	}
	fmt.Printf("Rescan requested, %d controllers detected\n", len(c.manager.Controllers()))
	return nil
}

func (c *CLI) cmdSetConfig(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: setconfig <key> <value>")
	}

	key := args[0]
	value := strings.Join(args[1:], " ")

	if err := c.cfg.UpdateServerField(key, value); err != nil {
		return err
	}

	if err := c.cfg.Save(); err != nil {
		return err
	}

	fmt.Printf("Config updated: %s = %s\n", key, value)
	return nil
}

// printStatus displays the session status.
func (c *CLI) printStatus() {
	server := c.cfg.GetServer()

	fmt.Printf("\n  Server:           %s\n", server.Address)
	if c.manager.Connected() {
		fmt.Printf("  Connected:        yes\n")
		fmt.Printf("  Protocol Version: %d\n", c.manager.Version())
		fmt.Printf("  Controllers:      %d\n", len(c.manager.Controllers()))
		if at := c.manager.RefreshedAt(); !at.IsZero() {
			fmt.Printf("  Last Refresh:     %s\n", at.Format(time.RFC3339))
		}
	} else {
		fmt.Printf("  Connected:        no\n")
	}
	fmt.Println()
}

// controllerArg resolves the first argument to a cached controller.
func (c *CLI) controllerArg(args []string) (*protocol.ControllerData, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("controller id required")
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid controller id: %s", args[0])
	}
	ctrl, ok := c.manager.Controller(uint32(id))
	if !ok {
		return nil, fmt.Errorf("controller %d not found (try 'refresh')", id)
	}
	return ctrl, nil
}
