// Package suite manages cylc suite directories: creating the on-disk
// skeleton of a new suite and generating its suite.rc scheduling
// document from the suite configuration.
package suite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sytse47/wrfpy/conf"
	"github.com/Sytse47/wrfpy/fsutil"
	"go.uber.org/zap"
)

// subdirs is the fixed skeleton of a suite directory.
var subdirs = []string{"bin", "control", "doc", "inc"}

// Init creates baseDir/suiteName with its subdirectory skeleton and an
// empty configuration placeholder. Both are idempotent: existing
// directories and a pre-existing config.json are left untouched.
func Init(suiteName, baseDir string) error {
	tr := fsutil.Transaction{Root: fsutil.Path(baseDir).Join(suiteName)}
	tr.MkDir(".")
	for _, subdir := range subdirs {
		tr.MkDir(fsutil.Path(subdir))
	}
	tr.SaveIfMissing("config.json", []byte("{}\n"))
	return tr.Err
}

// WriteSuiteRC renders the suite.rc document from the suite's
// config.json and writes it into the suite directory.
func WriteSuiteRC(suiteName, baseDir string, log *zap.SugaredLogger) error {
	suiteDir := filepath.Join(baseDir, suiteName)

	cfg, err := conf.Load(filepath.Join(suiteDir, "config.json"))
	if err != nil {
		return err
	}

	text, err := NewBuilder(cfg, log).Build()
	if err != nil {
		return err
	}

	target := filepath.Join(suiteDir, "suite.rc")
	if err := os.WriteFile(target, []byte(text), 0644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	log.Infow("suite.rc written", "suite", suiteName, "path", target)
	return nil
}
