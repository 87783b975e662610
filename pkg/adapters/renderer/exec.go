// Package renderer provides core.Renderer implementations.
package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/aretw0/quicktab/pkg/core"
)

// DefaultFormat is the output format of an Exec renderer when none is given.
const DefaultFormat = "svg"

// Exec renders by running an external engine. The notation source is written
// to the command's stdin and the graphic is read from its stdout. The layout is
// passed as trailing "--scale" and "--width" flags.
type Exec struct {
	Command string
	Args    []string
	format  string
}

// NewExec returns a renderer for command. format names the produced artifacts
// ("svg" when empty).
func NewExec(command string, format string, args ...string) *Exec {
	if format == "" {
		format = DefaultFormat
	}
	return &Exec{Command: command, Args: args, format: format}
}

// ParseCommand splits a command line on whitespace into an Exec renderer.
// Quotes are not interpreted; build the renderer with NewExec when an
// argument contains spaces.
func ParseCommand(line, format string) (*Exec, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.New("empty renderer command")
	}
	return NewExec(fields[0], format, fields[1:]...), nil
}

// Format implements core.Renderer.
func (e *Exec) Format() string {
	return e.format
}

// Render implements core.Renderer.
func (e *Exec) Render(ctx context.Context, source string, l core.Layout) ([]byte, error) {
	args := append([]string{}, e.Args...)
	args = append(args,
		"--scale", strconv.FormatFloat(l.Scale, 'f', -1, 64),
		"--width", strconv.Itoa(l.Width),
	)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Command, args...)
	cmd.Stdin = strings.NewReader(source)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("renderer %s failed: %w: %s", e.Command, err, msg)
		}
		return nil, fmt.Errorf("renderer %s failed: %w", e.Command, err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("renderer %s produced no output", e.Command)
	}
	return stdout.Bytes(), nil
}

var _ core.Renderer = (*Exec)(nil)
