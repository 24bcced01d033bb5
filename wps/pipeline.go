// Package wps prepares the boundary data for a model run: it patches
// the WPS namelist to the requested time window, links boundary GRIB
// files and static tables into the working directory, and drives the
// geogrid, ungrib and metgrid preprocessing stages.
package wps

import (
	"fmt"
	"os"
	"time"

	"github.com/Sytse47/wrfpy/conf"
	"github.com/Sytse47/wrfpy/fsutil"
	"go.uber.org/zap"
)

// transientPatterns name the intermediate artifacts of a previous run
// that must not leak into the next one.
var transientPatterns = []string{"GRIBFILE.*", "FILE:*", "PFILE:*", "PRES:*"}

// Pipeline runs the boundary preprocessing for one forecast cycle.
// Stages run strictly in sequence; the first failure aborts the run and
// surfaces unchanged, leaving all artifacts in place for inspection.
type Pipeline struct {
	cfg         *conf.Configuration
	boundaryDir fsutil.Path
	log         *zap.SugaredLogger
}

// NewPipeline builds a pipeline reading boundary files from
// boundaryDir, or from filesystem.boundary_dir when boundaryDir is
// empty. Passing the UPP archive dir instead switches the run to
// post-processed boundaries.
func NewPipeline(cfg *conf.Configuration, boundaryDir string, log *zap.SugaredLogger) *Pipeline {
	if boundaryDir == "" {
		boundaryDir = cfg.Filesystem.BoundaryDir
	}
	return &Pipeline{
		cfg:         cfg,
		boundaryDir: fsutil.Path(boundaryDir),
		log:         log,
	}
}

// WorkDir is the wps working directory under filesystem.work_dir.
func (p *Pipeline) WorkDir() fsutil.Path {
	return fsutil.Path(p.cfg.Filesystem.WorkDir).Join("wps")
}

// Run executes one full preprocessing pass for the given time window.
func (p *Pipeline) Run(start, end time.Time) error {
	workDir := p.WorkDir()
	if err := os.MkdirAll(workDir.String(), 0755); err != nil {
		return fmt.Errorf("create work dir %s: %w", workDir, err)
	}
	wpsDir := fsutil.Path(p.cfg.Filesystem.WPSDir)

	p.log.Infow("preprocessing run",
		"start", start.Format(conf.DateLayout),
		"end", end.Format(conf.DateLayout),
		"workdir", workDir.String(),
	)

	tr := fsutil.Transaction{Root: workDir}
	p.clean(&tr)
	if tr.Err != nil {
		return p.fail("clean", tr.Err)
	}

	if err := PatchNamelist(workDir.Join("namelist.wps").String(), start, end); err != nil {
		return p.fail("namelist", err)
	}

	if _, err := LinkBoundaries(&tr, p.boundaryDir, p.log); err != nil {
		return p.fail("boundaries", err)
	}

	if err := RunStage(p.log, p.stage("geogrid", wpsDir)); err != nil {
		return p.fail("geogrid", err)
	}

	LinkTables(&tr, wpsDir)
	if tr.Err != nil {
		return p.fail("tables", tr.Err)
	}

	if err := RunStage(p.log, p.stage("ungrib", wpsDir)); err != nil {
		return p.fail("ungrib", err)
	}
	if err := RunStage(p.log, p.stage("metgrid", wpsDir)); err != nil {
		return p.fail("metgrid", err)
	}

	p.log.Infow("preprocessing completed")
	return nil
}

// clean removes leftover transient artifacts of earlier runs. Absent
// files are not an error.
func (p *Pipeline) clean(tr *fsutil.Transaction) {
	for _, pattern := range transientPatterns {
		tr.RemoveGlob(pattern)
	}
}

func (p *Pipeline) stage(name string, wpsDir fsutil.Path) Stage {
	var batchScript string
	switch name {
	case "geogrid":
		batchScript = p.cfg.Slurm.Geogrid
	case "ungrib":
		batchScript = p.cfg.Slurm.Ungrib
	case "metgrid":
		batchScript = p.cfg.Slurm.Metgrid
	}
	exe := wpsDir.Join(name).Join(name + ".exe")
	return NewStage(name, exe, batchScript, p.WorkDir())
}

// fail logs the failing step and hands the error back untouched.
func (p *Pipeline) fail(step string, err error) error {
	p.log.Errorw("preprocessing failed", "step", step, "error", err)
	return err
}
