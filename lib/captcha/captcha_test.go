package captcha

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubOracle struct {
	readings []Reading
	errs     []error
	calls    int
	seen     []string
}

func (o *stubOracle) Recognize(ctx context.Context, imagePath string) (Reading, error) {
	i := o.calls
	o.calls++
	o.seen = append(o.seen, imagePath)
	if i < len(o.errs) && o.errs[i] != nil {
		return Reading{}, o.errs[i]
	}
	if i < len(o.readings) {
		return o.readings[i], nil
	}
	return Reading{}, fmt.Errorf("no scripted reading for call %d", i)
}

func TestSolveFirstReadWins(t *testing.T) {
	oracle := &stubOracle{readings: []Reading{{Text: "a7f3k", Confidence: 0.91}}}
	s := Solver{Oracle: oracle, ScratchDir: t.TempDir()}

	reading, err := s.Solve(context.Background(), []byte("jpeg"))
	require.NoError(t, err)
	require.Equal(t, "a7f3k", reading.Text)
	require.Equal(t, 1, oracle.calls)
}

func TestSolveRetriesShortReadWithinBudget(t *testing.T) {
	oracle := &stubOracle{readings: []Reading{
		{Text: "a7"},
		{Text: "a7f3k"},
	}}
	s := Solver{Oracle: oracle, ScratchDir: t.TempDir()}

	reading, err := s.Solve(context.Background(), []byte("jpeg"))
	require.NoError(t, err)
	require.Equal(t, "a7f3k", reading.Text)
	require.Equal(t, 2, oracle.calls)
}

func TestSolveExhaustsBudget(t *testing.T) {
	oracle := &stubOracle{readings: []Reading{
		{Text: "x"},
		{Text: "yz"},
		{Text: "should never be reached"},
	}}
	s := Solver{Oracle: oracle, ScratchDir: t.TempDir()}

	_, err := s.Solve(context.Background(), []byte("jpeg"))
	require.ErrorIs(t, err, ErrUnreadable)
	require.Equal(t, 2, oracle.calls)
}

func TestSolveRemovesScratchImage(t *testing.T) {
	dir := t.TempDir()

	// success path
	oracle := &stubOracle{readings: []Reading{{Text: "a7f3k"}}}
	s := Solver{Oracle: oracle, ScratchDir: dir}
	_, err := s.Solve(context.Background(), []byte("jpeg"))
	require.NoError(t, err)

	// failure path
	failing := &stubOracle{errs: []error{
		fmt.Errorf("boom"),
		fmt.Errorf("boom"),
	}}
	s = Solver{Oracle: failing, ScratchDir: dir}
	_, err = s.Solve(context.Background(), []byte("jpeg"))
	require.ErrorIs(t, err, ErrUnreadable)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
