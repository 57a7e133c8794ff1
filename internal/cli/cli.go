// Package cli provides the command-line interface for the development server.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/clean-dependency-project/devserve/internal/browser"
	"github.com/clean-dependency-project/devserve/internal/config"
	"github.com/clean-dependency-project/devserve/internal/console"
	"github.com/clean-dependency-project/devserve/internal/logger"
	"github.com/clean-dependency-project/devserve/internal/platform"
	"github.com/clean-dependency-project/devserve/internal/server"
	"github.com/clean-dependency-project/devserve/internal/version"
)

// NewApp creates and configures the main CLI application.
func NewApp() *cli.App {
	return NewAppWith(browser.NewLauncher())
}

// NewAppWith creates the CLI application with the given browser notifier.
func NewAppWith(notifier browser.Notifier) *cli.App {
	r := &runner{notifier: notifier}
	return &cli.App{
		Name:     "devserve",
		Usage:    "Serve a directory of front-end assets with caching disabled",
		Version:  version.Current,
		Compiled: time.Now(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML or TOML configuration file",
				EnvVars: []string{"DEVSERVE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "interface to listen on (empty for all interfaces)",
				EnvVars: []string{"DEVSERVE_HOST"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   "TCP port to listen on",
				EnvVars: []string{"DEVSERVE_PORT"},
			},
			&cli.StringFlag{
				Name:        "root",
				Aliases:     []string{"r"},
				Usage:       "directory to serve",
				DefaultText: "directory of the executable",
				EnvVars:     []string{"DEVSERVE_ROOT"},
			},
			&cli.BoolFlag{
				Name:    "no-browser",
				Usage:   "do not open a browser tab on startup",
				EnvVars: []string{"DEVSERVE_NO_BROWSER"},
			},
			&cli.StringFlag{
				Name:    "lang",
				Value:   config.DefaultLanguage,
				Usage:   "language of console messages (en, cs)",
				EnvVars: []string{"DEVSERVE_LANG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   config.DefaultLogLevel,
				Usage:   "log level for structured output (debug, info, warn, error)",
				EnvVars: []string{"DEVSERVE_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   config.DefaultLogFormat,
				Usage:   "log format (json, text)",
				EnvVars: []string{"DEVSERVE_LOG_FORMAT"},
			},
			&cli.BoolFlag{
				Name:    "access-log",
				Usage:   "log every request",
				EnvVars: []string{"DEVSERVE_ACCESS_LOG"},
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "disable colored console output",
				EnvVars: []string{"DEVSERVE_NO_COLOR"},
			},
		},
		Action: r.serve,
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Print the effective configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: "yaml",
						Usage: "output format (yaml, toml)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "write to this file instead of stdout; format follows the extension",
					},
				},
				Action: configCommand,
			},
		},
	}
}

// resolveConfig layers the config file and explicitly set flags or env vars
// over the defaults.
func resolveConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("host") {
		cfg.Server.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}
	if c.IsSet("root") {
		cfg.Server.Root = c.String("root")
	}
	if c.IsSet("no-browser") {
		cfg.Server.OpenBrowser = !c.Bool("no-browser")
	}
	if c.IsSet("lang") {
		cfg.Server.Language = c.String("lang")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	if c.IsSet("access-log") {
		cfg.Log.AccessLog = c.Bool("access-log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// toServerConfig converts the file/flag configuration to the server's own.
func toServerConfig(cfg *config.Config, root string) server.Config {
	return server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		Root:            root,
		ContentTypes:    cfg.Headers.ContentTypes,
		AccessLog:       cfg.Log.AccessLog,
		ShutdownTimeout: cfg.Server.GetShutdownTimeout(),
	}
}

type runner struct {
	notifier browser.Notifier
}

// serve implements the default command: listen, announce, serve until
// interrupted.
func (r *runner) serve(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, c.App.ErrWriter)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	out := console.New(c.App.Writer, cfg.Server.Language, !c.Bool("no-color") && !color.NoColor)

	root, err := cfg.ResolveRoot()
	if err != nil {
		out.StartupFailed(err)
		log.Error("failed to resolve document root", "error", err)
		return cli.Exit("", 1)
	}

	srv, err := server.New(toServerConfig(cfg, root), server.WithLogger(log))
	if err != nil {
		out.StartupFailed(err)
		log.Error("failed to create server", "root", root, "error", err)
		return cli.Exit("", 1)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Listen(ctx); err != nil {
		if server.IsPortInUse(err) {
			out.PortInUse(cfg.Server.Port)
		} else {
			out.StartupFailed(err)
		}
		log.Error("failed to start server", "addr", cfg.Addr(), "error", err)
		return cli.Exit("", 1)
	}

	url := srv.URL()
	out.Banner(root, url)
	log.Info("server started",
		"url", url,
		"root", root,
		"lang", out.Language().String(),
		"platform", platform.CurrentPlatform().String(),
		"access_log", cfg.Log.AccessLog)

	if cfg.Server.OpenBrowser {
		openBrowser(ctx, r.notifier, url, log)
	}

	if err := srv.Serve(ctx); err != nil {
		log.Error("server stopped with error", "error", err)
		return cli.Exit(err.Error(), 1)
	}
	out.Shutdown()
	log.Info("server stopped")
	return nil
}

// openBrowser is best effort; a failure never stops the server.
func openBrowser(ctx context.Context, n browser.Notifier, url string, log *slog.Logger) {
	if err := n.Notify(ctx, url); err != nil {
		log.Debug("could not open browser", "url", url, "error", err)
	}
}

// configCommand prints or saves the effective configuration.
func configCommand(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	if out := c.String("output"); out != "" {
		return config.SaveConfig(cfg, out)
	}

	data, err := config.Marshal(cfg, c.String("format"))
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(data)
	return err
}
