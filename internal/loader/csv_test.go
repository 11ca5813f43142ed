package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantgeo/gannwheel/internal/core"
)

func TestParseCSV_WithHeader(t *testing.T) {
	input := `date,open,high,low,close,volume,amount
2025-01-02,10.0,10.5,9.8,10.2,120000,1224000.0
2025-01-03,10.2,10.8,10.1,10.7,150000,1605000.0
`
	bars, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, 10.2, bars[0].Close)
	assert.Equal(t, int64(120000), bars[0].Volume)
	assert.Equal(t, 1605000.0, bars[1].Amount)
}

func TestParseCSV_NoHeaderNoAmount(t *testing.T) {
	input := "2025-01-02,10.0,10.5,9.8,10.2,120000\n"

	bars, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, bars, 1)

	assert.Zero(t, bars[0].Amount)
}

func TestParseCSV_BadRows(t *testing.T) {
	cases := map[string]string{
		"too few fields": "2025-01-02,10.0,10.5\n",
		"bad date":       "not-a-date,10.0,10.5,9.8,10.2,120000\n",
		"bad open":       "2025-01-02,ten,10.5,9.8,10.2,120000\n",
		"bad volume":     "2025-01-02,10.0,10.5,9.8,10.2,many\n",
		"bad amount":     "2025-01-02,10.0,10.5,9.8,10.2,120000,abc\n",
		"empty file":     "",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV("/nonexistent/bars.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrLoaderFailed)
}

func TestLoadCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")
	content := "date,open,high,low,close,volume\n2025-01-02,10.0,10.5,9.8,10.2,120000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	bars, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 10.5, bars[0].High)
}
