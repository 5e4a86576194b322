// Package process launches local programs on behalf of the CLI.
package process

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Command names the program and arguments that open a URL.
type Command struct {
	Name string
	Args []string
}

// BrowserCommand returns the platform command that opens url in the
// default browser.
func BrowserCommand(goos, url string) Command {
	switch goos {
	case "windows":
		return Command{Name: "rundll32", Args: []string{"url.dll,FileProtocolHandler", url}}
	case "darwin":
		return Command{Name: "open", Args: []string{url}}
	default: // "linux", "freebsd", "openbsd", "netbsd"
		return Command{Name: "xdg-open", Args: []string{url}}
	}
}

// Opener starts the browser without waiting for it to exit.
type Opener struct {
	// Start runs cmd detached; defaults to exec.CommandContext(...).Start.
	Start func(ctx context.Context, cmd Command) error
}

// Open opens url in the default browser of the current platform.
func (o *Opener) Open(ctx context.Context, url string) error {
	start := o.Start
	if start == nil {
		start = startDetached
	}
	cmd := BrowserCommand(runtime.GOOS, url)
	if err := start(ctx, cmd); err != nil {
		return fmt.Errorf("failed to open browser with %s: %w", cmd.Name, err)
	}
	return nil
}

func startDetached(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	// Output is discarded: browsers are chatty on stderr.
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
