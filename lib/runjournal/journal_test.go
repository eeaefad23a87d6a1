package runjournal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJournal(t *testing.T) {
	journal, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer journal.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	entries := []Entry{
		{Region: "hanoi", Candidate: 1, Kind: "found", CaptchaConfidence: 0.92},
		{Region: "hanoi", Candidate: 2, Kind: "found", CaptchaConfidence: 0.88},
		{Region: "hanoi", Candidate: 3, Kind: "not_found"},
		{Region: "hanoi", Candidate: 3, Kind: "invalid_captcha", Detail: "Mã xác nhận không khớp"},
		{Region: "danang", Candidate: 1, Kind: "found"},
	}
	for _, e := range entries {
		if err := journal.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	counts, err := journal.Summarize(ctx, "hanoi")
	require.NoError(t, err)
	require.Equal(t, map[string]int64{
		"found":           2,
		"not_found":       1,
		"invalid_captcha": 1,
	}, counts)

	counts, err = journal.Summarize(ctx, "unknown")
	require.NoError(t, err)
	require.Empty(t, counts)

	names, err := journal.Regions(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"danang", "hanoi"}, names)
}
