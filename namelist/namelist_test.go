package namelist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWPS = `&share
 wrf_core = 'ARW',
 max_dom = 2,
 start_date = '2006-08-16_12:00:00', '2006-08-16_12:00:00',
 end_date   = '2006-08-16_18:00:00', '2006-08-16_18:00:00',
 interval_seconds = 21600
/

&geogrid
 parent_id         =   1,   1,
 geog_data_path = '/glade/data/geog/'
/
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "namelist.wps")
	require.NoError(t, os.WriteFile(path, []byte(sampleWPS), 0644))
	return path
}

func TestInt(t *testing.T) {
	doc, err := Read(writeSample(t))
	require.NoError(t, err)

	maxDom, err := doc.Int("share", "max_dom")
	require.NoError(t, err)
	assert.Equal(t, 2, maxDom)
}

func TestIntNotAnInteger(t *testing.T) {
	doc, err := Read(writeSample(t))
	require.NoError(t, err)

	_, err = doc.Int("share", "wrf_core")
	assert.Error(t, err)
}

func TestIntMissingField(t *testing.T) {
	doc, err := Read(writeSample(t))
	require.NoError(t, err)

	_, err = doc.Int("share", "no_such_field")
	assert.Error(t, err)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "namelist.wps"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSetStringListReplaces(t *testing.T) {
	path := writeSample(t)
	doc, err := Read(path)
	require.NoError(t, err)

	err = doc.SetStringList("share", "start_date", []string{
		"2014-07-27_00:00:00", "2014-07-27_00:00:00",
	})
	require.NoError(t, err)
	require.NoError(t, doc.Write(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content),
		" start_date = '2014-07-27_00:00:00', '2014-07-27_00:00:00',")
	// untouched lines survive verbatim
	assert.Contains(t, string(content), " interval_seconds = 21600")
	assert.Contains(t, string(content), " geog_data_path = '/glade/data/geog/'")
	// the old value is gone
	assert.NotContains(t, string(content), "2006-08-16_12:00:00")
}

func TestSetStringListInserts(t *testing.T) {
	path := writeSample(t)
	doc, err := Read(path)
	require.NoError(t, err)

	require.NoError(t, doc.SetStringList("share", "fg_name", []string{"FILE"}))
	require.NoError(t, doc.Write(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	// the new field lands inside &share, before its terminator
	shareEnd := strings.Index(string(content), "/")
	assert.Contains(t, string(content)[:shareEnd], " fg_name = 'FILE',")
}

func TestSetStringListUnknownSection(t *testing.T) {
	doc, err := Read(writeSample(t))
	require.NoError(t, err)

	assert.Error(t, doc.SetStringList("metgrid", "fg_name", []string{"FILE"}))
}
