// Package enumerate walks a region's candidate number space against the
// lookup API: solve a captcha, query, classify, persist, advance. The
// loop is strictly sequential because every lookup consumes a captcha
// tied to the session's server-side state.
package enumerate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/teppyboy/vn-thptqg-2024/lib/captcha"
	"github.com/teppyboy/vn-thptqg-2024/lib/ledger"
	"github.com/teppyboy/vn-thptqg-2024/lib/regions"
	"github.com/teppyboy/vn-thptqg-2024/lib/runjournal"
	"github.com/teppyboy/vn-thptqg-2024/lib/scorelookup"
	"github.com/teppyboy/vn-thptqg-2024/lib/scoretext"
)

var tracer = otel.Tracer("enumerate")

// LookupClient is the captcha-gated API surface the driver consumes.
// Implemented by scorelookup.Client, faked in tests.
type LookupClient interface {
	FetchCaptchaImage(ctx context.Context) ([]byte, error)
	Lookup(ctx context.Context, sbd string, captchaText string) (status int, body string, err error)
}

// Solver turns a fetched captcha image into text. Implemented by
// captcha.Solver.
type Solver interface {
	Solve(ctx context.Context, image []byte) (captcha.Reading, error)
}

// Ledger is the durable output store. Implemented by ledger.Ledger.
type Ledger interface {
	LastID() int
	Append(rec ledger.Record) error
}

// Recorder receives one entry per classified outcome. Implemented by
// runjournal.Journal.
type Recorder interface {
	Record(ctx context.Context, e runjournal.Entry) error
}

// Driver runs one region's enumeration. All collaborators are injected;
// only the csv ledger holds state that survives a restart.
type Driver struct {
	Region regions.Region
	Client LookupClient
	Solver Solver
	Ledger Ledger
	// optional audit trail
	Journal Recorder
	// injectable so tests run without wall-clock delay
	Sleep func(ctx context.Context, d time.Duration)
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Run enumerates candidates until the region is exhausted: once the
// cursor is past the population floor, a run of consecutive misses equal
// to the region's miss budget ends the region. A normal return means the
// region is complete; an error means the ledger can no longer be written.
func (d *Driver) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "driver:Run")
	defer span.End()
	span.SetAttributes(attribute.String("region", d.Region.Name))

	sleep := d.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	candidate := d.Ledger.LastID() + 1
	missStreak := 0

	slog.InfoContext(ctx, "starting enumeration",
		"region", d.Region.Name,
		"resume_candidate", candidate,
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		slog.InfoContext(ctx, "probing candidate", "region", d.Region.Name, "candidate", candidate)

		reading, err := d.solveNextCaptcha(ctx, sleep)
		if err != nil {
			return err
		}

		status, body, err := d.Client.Lookup(ctx, d.Region.FormatSBD(candidate), reading.Text)
		if err != nil {
			// transport failure: retry the same candidate with a
			// fresh captcha
			slog.WarnContext(ctx, "lookup request failed", "candidate", candidate, "err", err)
			sleep(ctx, d.Region.Pacing)
			continue
		}

		outcome := scorelookup.Classify(status, body)
		d.journal(ctx, candidate, outcome.Kind.String(), outcome.ErrorMessage, reading.Confidence)

		switch outcome.Kind {
		case scorelookup.InvalidCaptcha:
			// same candidate, new captcha
			slog.InfoContext(ctx, "captcha rejected, retrying", "candidate", candidate)

		case scorelookup.NotFound, scorelookup.TransientFailure:
			// transient failures count toward exhaustion the same
			// as misses, so a dying endpoint cannot spin forever
			if outcome.Kind == scorelookup.TransientFailure {
				slog.WarnContext(ctx, "unrecognized lookup failure",
					"candidate", candidate,
					"message", outcome.ErrorMessage,
				)
			}
			if candidate > d.Region.PopulationFloor {
				missStreak++
				if missStreak >= d.Region.MissBudget {
					slog.InfoContext(ctx, "region exhausted",
						"region", d.Region.Name,
						"last_candidate", candidate,
						"miss_streak", missStreak,
					)
					return nil
				}
			}
			candidate++

		case scorelookup.Found:
			err := d.record(ctx, candidate, outcome.RawText)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "ledger append failed")
				return err
			}
			missStreak = 0
			candidate++
			sleep(ctx, d.Region.Pacing)
		}
	}
}

// solveNextCaptcha fetches and recognizes captcha images until one yields
// a plausible read. Only ctx cancellation breaks the loop: a misread here
// costs another round-trip, never a skipped candidate.
func (d *Driver) solveNextCaptcha(ctx context.Context, sleep func(context.Context, time.Duration)) (captcha.Reading, error) {
	for {
		if err := ctx.Err(); err != nil {
			return captcha.Reading{}, err
		}

		image, err := d.Client.FetchCaptchaImage(ctx)
		if err != nil {
			slog.WarnContext(ctx, "captcha fetch failed", "err", err)
			sleep(ctx, d.Region.Pacing)
			continue
		}

		reading, err := d.Solver.Solve(ctx, image)
		if errors.Is(err, captcha.ErrUnreadable) {
			// the image was not worth rereading, get a new one
			continue
		}
		if err != nil {
			return captcha.Reading{}, err
		}
		return reading, nil
	}
}

func (d *Driver) record(ctx context.Context, candidate int, rawText string) error {
	scores, err := scoretext.Parse(rawText, d.Region.ExcludedSubjects)
	if err != nil {
		// the candidate exists but the payload is garbled; discard
		// the record and move on rather than abort the region
		slog.ErrorContext(ctx, "discarding unparseable score text",
			"candidate", candidate,
			"raw", rawText,
			"err", err,
		)
		d.journal(ctx, candidate, "malformed", err.Error(), 0)
		return nil
	}

	rec := ledger.Record{
		ID:     d.Region.FormatID(candidate),
		Scores: scores,
	}
	if err := d.Ledger.Append(rec); err != nil {
		return fmt.Errorf("append candidate %d: %w", candidate, err)
	}

	slog.InfoContext(ctx, "recorded candidate",
		"region", d.Region.Name,
		"candidate", candidate,
		"subjects", len(scores),
	)
	return nil
}

func (d *Driver) journal(ctx context.Context, candidate int, kind, detail string, confidence float64) {
	if d.Journal == nil {
		return
	}
	err := d.Journal.Record(ctx, runjournal.Entry{
		Region:            d.Region.Name,
		Candidate:         candidate,
		Kind:              kind,
		Detail:            detail,
		CaptchaConfidence: confidence,
	})
	if err != nil {
		slog.WarnContext(ctx, "journal write failed", "err", err)
	}
}
