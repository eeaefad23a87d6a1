package regions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatSBD(t *testing.T) {
	r, err := Get("hanoi")
	require.NoError(t, err)
	require.Equal(t, "01000042", r.FormatSBD(42))
	require.Equal(t, "000042", r.FormatID(42))
}

func TestGetUnknownRegion(t *testing.T) {
	_, err := Get("atlantis")
	require.Error(t, err)
}

func TestRegistryIsWellFormed(t *testing.T) {
	for _, r := range All() {
		require.NotEmpty(t, r.Name)
		require.NotEmpty(t, r.Prefix)
		require.NotEmpty(t, r.Subjects)
		require.Greater(t, r.PopulationFloor, 0)
		require.Greater(t, r.MissBudget, 0)
		for _, excluded := range r.ExcludedSubjects {
			require.NotContains(t, r.Subjects, excluded)
		}
	}
}
