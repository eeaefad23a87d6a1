// Package captcha wraps the external image-to-text recognizer behind a
// small interface so the enumeration engine can be tested with a fake.
package captcha

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("captcha")

// re-fetch a fresh image rather than keep rereading a bad one
const recognitionAttempts = 2

// reads shorter than this are treated as garbage rather than solutions
const minTextLength = 5

// Reading is one recognizer pass over a captcha image.
type Reading struct {
	Text       string
	Confidence float64
}

// Oracle is the external recognition capability. The image lives at a
// scratch path owned by the caller and is deleted after the solve.
type Oracle interface {
	Recognize(ctx context.Context, imagePath string) (Reading, error)
}

// ErrUnreadable reports that the recognition budget was spent without a
// plausible read; the caller should fetch a new image and try again.
var ErrUnreadable = fmt.Errorf("captcha: no usable read within budget")

// Solver runs an Oracle against captcha images with a bounded retry
// budget, managing the scratch file lifecycle.
type Solver struct {
	Oracle Oracle
	// directory for transient captcha images
	ScratchDir string
}

// Solve writes the image to a scratch file, runs the oracle up to the
// per-image budget, and returns the first reading of plausible length.
// The scratch file is removed before returning regardless of outcome.
func (s Solver) Solve(ctx context.Context, image []byte) (Reading, error) {
	ctx, span := tracer.Start(ctx, "solver:Solve")
	defer span.End()

	path := filepath.Join(s.ScratchDir, fmt.Sprintf("%d.jpg", time.Now().UnixMilli()))
	if err := os.WriteFile(path, image, 0o644); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write scratch image")
		return Reading{}, err
	}
	defer os.Remove(path)

	for attempt := 0; attempt < recognitionAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Reading{}, err
		}

		reading, err := s.Oracle.Recognize(ctx, path)
		if err != nil {
			slog.WarnContext(ctx, "captcha recognition failed", "attempt", attempt, "err", err)
			continue
		}
		if len(reading.Text) < minTextLength {
			slog.DebugContext(ctx, "discarding short captcha read", "attempt", attempt, "text", reading.Text)
			continue
		}

		slog.InfoContext(ctx, "captcha solved", "text", reading.Text, "confidence", reading.Confidence)
		return reading, nil
	}

	span.SetStatus(codes.Error, ErrUnreadable.Error())
	return Reading{}, ErrUnreadable
}
