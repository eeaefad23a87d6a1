// Package runjournal keeps a sqlite audit trail of every classified
// lookup outcome. It exists for diagnostics only; resume authority stays
// with the csv ledger, so losing or deleting the journal is harmless.
package runjournal

import (
	"context"
	"database/sql"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Journal struct {
	db *sql.DB
}

// Open opens (or creates) a journal database at path. Use ":memory:" in
// tests.
func Open(path string) (Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Journal{}, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return Journal{}, err
	}
	return Journal{db: db}, nil
}

func (j Journal) Close() error {
	return j.db.Close()
}

// Entry is one classified lookup outcome.
type Entry struct {
	Region    string
	Candidate int
	// outcome kind, e.g. "found" or "invalid_captcha"
	Kind string
	// server error message or parse diagnostic, "" for clean outcomes
	Detail string
	// recognizer confidence for the captcha used on this attempt
	CaptchaConfidence float64
}

func (j Journal) Record(ctx context.Context, e Entry) error {
	_, err := j.db.ExecContext(
		ctx,
		`INSERT INTO outcome (region, candidate, kind, detail, captcha_confidence, time)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Region, e.Candidate, e.Kind, e.Detail, e.CaptchaConfidence, time.Now().Unix(),
	)
	return err
}

// Summarize returns outcome counts per kind for one region.
func (j Journal) Summarize(ctx context.Context, region string) (map[string]int64, error) {
	rows, err := j.db.QueryContext(
		ctx,
		`SELECT kind, COUNT(*) FROM outcome WHERE region = ? GROUP BY kind`,
		region,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var kind string
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		counts[kind] = count
	}
	return counts, rows.Err()
}

// Regions returns every region that has journal entries.
func (j Journal) Regions(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(
		ctx,
		`SELECT DISTINCT region FROM outcome ORDER BY region`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}
