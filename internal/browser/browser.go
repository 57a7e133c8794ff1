// Package browser opens the served URL in the user's browser. Opening is best
// effort: callers log failures and carry on.
package browser

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/clean-dependency-project/devserve/internal/platform"
)

// Notifier tells the user interface that the server is ready at url.
type Notifier interface {
	Notify(ctx context.Context, url string) error
}

// Noop is a Notifier that does nothing.
type Noop struct{}

// Notify implements Notifier.
func (Noop) Notify(context.Context, string) error { return nil }

// CommandRunner starts external commands.
// This interface enables testing without actual command execution.
type CommandRunner interface {
	Start(name string, args ...string) error
}

// ExecRunner starts real processes and does not wait for them to finish.
type ExecRunner struct{}

// Start launches the command and reaps it in the background.
func (ExecRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Launcher opens URLs with the platform's opener command.
type Launcher struct {
	platform platform.Platform
	runner   CommandRunner
}

// NewLauncher returns a Launcher for the current platform.
func NewLauncher() *Launcher {
	return NewLauncherWith(platform.CurrentPlatform(), ExecRunner{})
}

// NewLauncherWith returns a Launcher using the given platform and runner.
func NewLauncherWith(p platform.Platform, runner CommandRunner) *Launcher {
	return &Launcher{platform: p, runner: runner}
}

// Notify implements Notifier by starting the opener for url.
func (l *Launcher) Notify(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, args, err := l.platform.OpenCommand(url)
	if err != nil {
		return err
	}
	if err := l.runner.Start(name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}
