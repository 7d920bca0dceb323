package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/piwi3910/coinpack/internal/export"
	"github.com/piwi3910/coinpack/internal/importer"
	"github.com/piwi3910/coinpack/internal/model"
	"github.com/piwi3910/coinpack/internal/project"
	"github.com/piwi3910/coinpack/internal/session"
)

// maxRecentScenarios bounds the recent list kept in the config file.
const maxRecentScenarios = 10

// cliState is the state shared by every command, populated in Before.
type cliState struct {
	configPath string
	config     model.AppConfig
	logger     *slog.Logger
}

// Report is the JSON document printed by play and seed.
type Report struct {
	Session  string                 `json:"session"`
	Scenario string                 `json:"scenario,omitempty"`
	Source   string                 `json:"source,omitempty"`
	Mode     model.Mode             `json:"mode"`
	Steps    []project.StepResult   `json:"steps,omitempty"`
	Drops    []session.DropResult   `json:"drops,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
	Circles  []model.Circle         `json:"circles"`
	Metrics  model.Metrics          `json:"metrics"`
	Display  map[string]interface{} `json:"display"`
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	rt := &cliState{}
	app := &cli.App{
		Name:    "coinpack",
		Usage:   "Headless circle packing sandbox and puzzle",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Config file path (default ~/.coinpack/config.json)"},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
		},
		Before: func(c *cli.Context) error {
			return rt.setup(c)
		},
		Commands: []*cli.Command{
			playCmd(rt),
			seedCmd(rt),
			configCmd(rt),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// setup loads the config file and installs the logger.
func (rt *cliState) setup(c *cli.Context) error {
	rt.configPath = c.String("config")
	if rt.configPath == "" {
		rt.configPath = project.DefaultConfigPath()
	}

	cfg, err := project.LoadAppConfig(rt.configPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to load config %s: %v", rt.configPath, err), 1)
	}
	rt.config = cfg

	level := parseLevel(cfg.LogLevel)
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	errWriter := c.App.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	rt.logger = slog.New(slog.NewTextHandler(errWriter, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(rt.logger)
	return nil
}

// settings returns the built-in defaults overlaid with the config file.
func (rt *cliState) settings() model.Settings {
	s := model.DefaultSettings()
	rt.config.ApplyToSettings(&s)
	return s
}

// rememberScenario records path in the recent list. Failures are logged only.
func (rt *cliState) rememberScenario(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	rt.config.AddRecentScenario(path, maxRecentScenarios)
	if err := project.SaveAppConfig(rt.configPath, rt.config); err != nil {
		rt.logger.Warn("could not update recent scenarios", "path", rt.configPath, "error", err)
	}
}

func pdfFlag() cli.Flag {
	return &cli.StringFlag{Name: "pdf", Usage: "Also write the final layout as a PDF to this path"}
}

func qrFlag() cli.Flag {
	return &cli.StringFlag{Name: "qr", Usage: "Also write the layout share code as a PNG QR image to this path"}
}

// exportLayout writes the files requested with --pdf and --qr.
func (rt *cliState) exportLayout(c *cli.Context, s *session.Session, title string) error {
	layout := export.FromSession(s, title)
	if path := c.String("pdf"); path != "" {
		if err := export.ExportPDF(path, layout); err != nil {
			return cli.Exit(fmt.Sprintf("failed to export PDF: %v", err), 1)
		}
		rt.logger.Info("exported layout", "format", "pdf", "path", path)
	}
	if path := c.String("qr"); path != "" {
		if err := export.ExportQR(path, layout); err != nil {
			return cli.Exit(fmt.Sprintf("failed to export QR code: %v", err), 1)
		}
		rt.logger.Info("exported layout", "format", "qr", "path", path)
	}
	return nil
}

// playCmd creates the play command.
func playCmd(rt *cliState) *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Replay a YAML scenario against a fresh session",
		ArgsUsage: "<scenario.yaml>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-recent", Usage: "Do not record the scenario in the recent list"},
			pdfFlag(),
			qrFlag(),
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("play requires exactly one scenario file", 1)
			}
			path := c.Args().First()

			sc, err := project.LoadScenario(path)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			s := session.New(sc.Settings(rt.settings()), session.WithLogger(rt.logger))
			rt.logger.Info("playing scenario", "session", s.ID, "name", sc.Name, "mode", s.Mode(), "steps", len(sc.Steps))
			steps := sc.Play(s)

			if !c.Bool("no-recent") {
				rt.rememberScenario(path)
			}

			if err := rt.exportLayout(c, s, sc.Name); err != nil {
				return err
			}

			report := newReport(s)
			report.Scenario = sc.Name
			report.Steps = steps
			return outputJSON(c.App.Writer, report)
		},
	}
}

// seedCmd creates the seed command.
func seedCmd(rt *cliState) *cli.Command {
	return &cli.Command{
		Name:      "seed",
		Usage:     "Drop coin positions from a CSV, XLSX, DXF or share code JSON file into a fresh session",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "Session mode: sandbox|puzzle"},
			&cli.IntFlag{Name: "radius", Aliases: []string{"r"}, Usage: "Sandbox coin radius in px"},
			pdfFlag(),
			qrFlag(),
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("seed requires exactly one input file", 1)
			}
			path := c.Args().First()

			settings := rt.settings()
			if c.IsSet("mode") {
				mode, err := model.ParseMode(c.String("mode"))
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				settings.Mode = mode
			}
			if r := c.Int("radius"); r > 0 {
				settings.Radius = r
			}

			var shared *export.ShareCode
			if isShareCode(path) {
				sc, err := readShareCode(path)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				shared = &sc
				if !c.IsSet("mode") {
					settings.Mode = sc.Mode
				}
			}

			s := session.New(settings, session.WithLogger(rt.logger))
			var result importer.ImportResult
			if shared != nil {
				result = shareCodePoints(*shared, s.Mode(), s.Radius())
			} else {
				var err error
				if result, err = importPoints(path, s.Radius()); err != nil {
					return cli.Exit(err.Error(), 1)
				}
			}
			for _, w := range result.Warnings {
				rt.logger.Warn("import", "file", path, "warning", w)
			}
			if len(result.Points) == 0 {
				return cli.Exit(fmt.Sprintf("no positions imported from %s: %s", path, strings.Join(result.Errors, "; ")), 1)
			}
			for _, e := range result.Errors {
				rt.logger.Warn("import", "file", path, "error", e)
			}

			drops := make([]session.DropResult, 0, len(result.Points))
			for _, p := range result.Points {
				drops = append(drops, s.Place(p))
			}
			rt.logger.Info("seeded session", "session", s.ID, "file", path, "points", len(result.Points), "count", s.Metrics().Count)

			if err := rt.exportLayout(c, s, filepath.Base(path)); err != nil {
				return err
			}

			report := newReport(s)
			report.Source = path
			report.Drops = drops
			report.Warnings = append(result.Warnings, result.Errors...)
			return outputJSON(c.App.Writer, report)
		},
	}
}

// configCmd creates the config command group.
func configCmd(rt *cliState) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or initialize the application config",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective config",
				Action: func(c *cli.Context) error {
					return outputJSON(c.App.Writer, map[string]interface{}{
						"path":     rt.configPath,
						"config":   rt.config,
						"settings": rt.settings(),
					})
				},
			},
			{
				Name:  "init",
				Usage: "Write the default config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite an existing config file"},
				},
				Action: func(c *cli.Context) error {
					if _, err := os.Stat(rt.configPath); err == nil && !c.Bool("force") {
						return cli.Exit(fmt.Sprintf("config file %s already exists (use --force to overwrite)", rt.configPath), 1)
					}
					if err := project.SaveAppConfig(rt.configPath, model.DefaultAppConfig()); err != nil {
						return cli.Exit(fmt.Sprintf("failed to write config: %v", err), 1)
					}
					rt.logger.Info("wrote config", "path", rt.configPath)
					return outputJSON(c.App.Writer, map[string]string{"path": rt.configPath})
				},
			},
		},
	}
}

// importPoints picks the importer from the file extension.
func importPoints(path string, radius float64) (importer.ImportResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return importer.ImportCSV(path), nil
	case ".xlsx", ".xlsm":
		return importer.ImportExcel(path), nil
	case ".dxf":
		return importer.ImportDXF(path, radius), nil
	default:
		return importer.ImportResult{}, fmt.Errorf("unsupported file type %q (want .csv, .xlsx, .dxf or .json)", filepath.Ext(path))
	}
}

func isShareCode(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

// readShareCode loads a share code written by the QR export.
func readShareCode(path string) (export.ShareCode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return export.ShareCode{}, fmt.Errorf("failed to read share code: %w", err)
	}
	return export.ParseShareCode(data)
}

// shareCodePoints turns sc into import points, warning when the session
// does not match the mode or radius it was shared with.
func shareCodePoints(sc export.ShareCode, mode model.Mode, radius float64) importer.ImportResult {
	result := importer.ImportResult{Points: sc.Points()}
	if sc.Mode != mode {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Share code mode %s, using %s", sc.Mode, mode))
	}
	if sc.Radius > 0 && math.Abs(sc.Radius-radius) > 0.01 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Share code radius %.2f, using %.2f", sc.Radius, radius))
	}
	return result
}

// newReport captures the final state of s.
func newReport(s *session.Session) Report {
	m := s.Metrics()
	return Report{
		Session: s.ID,
		Mode:    s.Mode(),
		Circles: s.Circles(),
		Metrics: m,
		Display: displayCounters(m),
	}
}

// displayCounters renders the counters the way the presentation layer shows them.
func displayCounters(m model.Metrics) map[string]interface{} {
	d := map[string]interface{}{"count": m.Count}
	if m.Mode == model.ModeSandbox {
		d["packed_area"] = m.PackedAreaString()
		d["density"] = m.DensityString()
	}
	return d
}

// parseLevel maps a config log level to slog, defaulting to info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
