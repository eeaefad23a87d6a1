// Package ledger owns the durable per-region output file: a header-first
// csv keyed by the zero-padded candidate identifier, written append-only.
// The resume point of an interrupted run is recovered from the file itself
// (last data row's identifier + 1), so the process keeps no other state.
package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Record is one candidate's scores. Subjects absent from Scores were not
// taken by the candidate and are written as empty cells.
type Record struct {
	ID     string
	Scores map[string]float64
}

// Ledger appends validated records to a csv file whose first column is the
// identifier and whose remaining columns are a fixed ordered subject set.
type Ledger struct {
	file     *os.File
	writer   *csv.Writer
	subjects []string
	// identifier of the last persisted row, 0 when the file is new
	lastID int
}

// Open opens or creates the ledger at path with the given subject schema.
// An existing file must carry the exact same header; its last row
// determines LastID.
func Open(path string, subjects []string) (*Ledger, error) {
	header := append([]string{"SBD"}, subjects...)

	existing, err := readRows(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	lastID := 0
	fresh := len(existing) == 0
	if !fresh {
		if len(existing[0]) != len(header) {
			return nil, fmt.Errorf("ledger %s: header has %d columns, schema wants %d", path, len(existing[0]), len(header))
		}
		for i, col := range existing[0] {
			if col != header[i] {
				return nil, fmt.Errorf("ledger %s: header column %d is %q, schema wants %q", path, i, col, header[i])
			}
		}
		last := existing[len(existing)-1]
		if len(existing) > 1 {
			lastID, err = strconv.Atoi(last[0])
			if err != nil {
				return nil, fmt.Errorf("ledger %s: bad identifier in last row: %w", path, err)
			}
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	l := &Ledger{
		file:     file,
		writer:   csv.NewWriter(file),
		subjects: subjects,
		lastID:   lastID,
	}
	if fresh {
		if err := l.writeRow(header); err != nil {
			file.Close()
			return nil, err
		}
	}
	return l, nil
}

func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LastID returns the identifier of the last persisted record, 0 if none.
func (l *Ledger) LastID() int {
	return l.lastID
}

// LastRecordedID reads the resume point of a ledger file without opening
// it for writing. ok is false when the file does not exist or holds no
// data rows.
func LastRecordedID(path string) (id int, ok bool, err error) {
	rows, err := readRows(path)
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(rows) < 2 {
		return 0, false, nil
	}
	id, err = strconv.Atoi(rows[len(rows)-1][0])
	if err != nil {
		return 0, false, fmt.Errorf("ledger %s: bad identifier in last row: %w", path, err)
	}
	return id, true, nil
}

// Append persists one record. The record's identifier must be strictly
// greater than the last persisted one; the row is flushed and synced to
// disk before Append returns.
func (l *Ledger) Append(rec Record) error {
	id, err := strconv.Atoi(rec.ID)
	if err != nil {
		return fmt.Errorf("ledger: bad record identifier %q: %w", rec.ID, err)
	}
	if id <= l.lastID {
		return fmt.Errorf("ledger: identifier %d does not advance past %d", id, l.lastID)
	}

	row := make([]string, 0, len(l.subjects)+1)
	row = append(row, rec.ID)
	for _, subject := range l.subjects {
		score, ok := rec.Scores[subject]
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, strconv.FormatFloat(score, 'f', -1, 64))
	}

	if err := l.writeRow(row); err != nil {
		return err
	}
	l.lastID = id
	return nil
}

func (l *Ledger) writeRow(row []string) error {
	if err := l.writer.Write(row); err != nil {
		return err
	}
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		return err
	}
	return l.file.Sync()
}

func (l *Ledger) Close() error {
	return l.file.Close()
}
