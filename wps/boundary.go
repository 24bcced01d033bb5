package wps

import (
	"fmt"
	"os"

	"github.com/Sytse47/wrfpy/fsutil"
	"go.uber.org/zap"
)

// LinkBoundaries links every regular file found in sourceDir into the
// transaction root as GRIBFILE.<ext>, with extensions assigned in
// ascending order to the sorted file listing. It returns the number of
// links created.
func LinkBoundaries(tr *fsutil.Transaction, sourceDir fsutil.Path, log *zap.SugaredLogger) (int, error) {
	if tr.Err != nil {
		return 0, tr.Err
	}

	entries, err := os.ReadDir(sourceDir.String())
	if err != nil {
		return 0, fmt.Errorf("list boundary files in %s: %w", sourceDir, err)
	}

	var files []string
	for _, entry := range entries {
		info, err := os.Stat(sourceDir.Join(entry.Name()).String())
		if err != nil {
			return 0, fmt.Errorf("stat boundary file %s: %w", entry.Name(), err)
		}
		if info.Mode().IsRegular() {
			files = append(files, entry.Name())
		}
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("%w (in %s)", ErrNoBoundaryFiles, sourceDir)
	}

	exts, err := Extensions(len(files))
	if err != nil {
		return 0, err
	}

	for i, name := range files {
		tr.Link(sourceDir.Join(name), fsutil.Path("GRIBFILE."+exts[i]))
	}
	if tr.Err != nil {
		return 0, tr.Err
	}

	log.Infow("linked boundary files", "count", len(files), "source", sourceDir.String())
	return len(files), nil
}
