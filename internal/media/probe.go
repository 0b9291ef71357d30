// Package media resolves basic metadata for uploaded video files. The video
// create flow treats probe failures as non-fatal: the row is stored with
// default duration and thumbnail.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Metadata is what the video create flow needs from a stored file.
type Metadata struct {
	// Duration is formatted mm:ss (or h:mm:ss above one hour).
	Duration string
	// ThumbnailPath is where a poster frame was written, if any.
	ThumbnailPath string
}

// Prober resolves metadata for a video file path.
type Prober interface {
	Probe(ctx context.Context, path string) (Metadata, error)
}

// probeTimeout bounds the external ffprobe call, like every other external
// collaborator.
const probeTimeout = 10 * time.Second

// FFProbe shells out to ffprobe for the container duration.
type FFProbe struct {
	// Path to the ffprobe binary; "ffprobe" resolves via PATH.
	Path string
}

func (f *FFProbe) Probe(ctx context.Context, path string) (Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	bin := f.Path
	if bin == "" {
		bin = "ffprobe"
	}

	cmd := exec.CommandContext(ctx, bin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return Metadata{}, fmt.Errorf("media: ffprobe %s: %w", path, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(out.String()), 64)
	if err != nil {
		return Metadata{}, fmt.Errorf("media: parse ffprobe output: %w", err)
	}

	return Metadata{Duration: FormatDuration(seconds)}, nil
}

// FormatDuration renders a duration in seconds as mm:ss, or h:mm:ss when at
// least an hour.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
