package media

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DurationProber reports the playable length of a media file in seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// CommandRunner executes an external command and returns its combined output.
// Tests swap it out to avoid invoking real binaries.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// FFProbe inspects media files with the ffprobe binary.
type FFProbe struct {
	Binary  string
	Timeout time.Duration
	Run     CommandRunner
}

// NewFFProbe constructs a prober that shells out to the given ffprobe binary.
func NewFFProbe(binary string, timeout time.Duration) *FFProbe {
	if binary == "" {
		binary = "ffprobe"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FFProbe{Binary: binary, Timeout: timeout, Run: defaultRunner}
}

// Duration returns the container duration of the file at path in seconds.
func (p *FFProbe) Duration(ctx context.Context, path string) (float64, error) {
	run := p.Run
	if run == nil {
		run = defaultRunner
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	out, err := run(ctx, p.Binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	raw := strings.TrimSpace(string(out))
	if raw == "" {
		return 0, fmt.Errorf("ffprobe %s: empty duration", path)
	}

	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: parse duration %q: %w", path, raw, err)
	}

	return duration, nil
}

var _ DurationProber = (*FFProbe)(nil)
