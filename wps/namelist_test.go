package wps

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNamelist(t *testing.T, maxDom string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "namelist.wps")
	require.NoError(t, os.WriteFile(path, []byte(
		"&share\n"+
			" wrf_core = 'ARW',\n"+
			" max_dom = "+maxDom+",\n"+
			" start_date = '2006-08-16_12:00:00',\n"+
			" end_date   = '2006-08-16_18:00:00',\n"+
			" interval_seconds = 21600\n"+
			"/\n"), 0644))
	return path
}

func TestPatchNamelist(t *testing.T) {
	path := writeNamelist(t, "3")
	start := time.Date(2014, 7, 27, 0, 0, 0, 0, time.UTC)
	end := time.Date(2014, 7, 27, 6, 0, 0, 0, time.UTC)

	require.NoError(t, PatchNamelist(path, start, end))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content),
		" start_date = '2014-07-27_00:00:00', '2014-07-27_00:00:00', '2014-07-27_00:00:00',")
	assert.Contains(t, string(content),
		" end_date = '2014-07-27_06:00:00', '2014-07-27_06:00:00', '2014-07-27_06:00:00',")
	assert.Contains(t, string(content), " max_dom = 3,")
}

func TestPatchNamelistInvalidDomainCount(t *testing.T) {
	start := time.Date(2014, 7, 27, 0, 0, 0, 0, time.UTC)
	end := start.Add(6 * time.Hour)

	for _, maxDom := range []string{"0", "-1", "'two'"} {
		err := PatchNamelist(writeNamelist(t, maxDom), start, end)
		assert.ErrorIs(t, err, ErrInvalidDomainCount, "max_dom = %s", maxDom)
	}
}

func TestPatchNamelistInvalidWindow(t *testing.T) {
	path := writeNamelist(t, "1")
	end := time.Date(2014, 7, 27, 6, 0, 0, 0, time.UTC)

	err := PatchNamelist(path, time.Time{}, end)
	assert.ErrorIs(t, err, ErrInvalidTimeWindow)

	err = PatchNamelist(path, end, time.Time{})
	assert.ErrorIs(t, err, ErrInvalidTimeWindow)
}

func TestPatchNamelistMissingFile(t *testing.T) {
	start := time.Date(2014, 7, 27, 0, 0, 0, 0, time.UTC)

	err := PatchNamelist(filepath.Join(t.TempDir(), "namelist.wps"), start, start.Add(time.Hour))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
