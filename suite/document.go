package suite

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Sytse47/wrfpy/conf"
	"github.com/Sytse47/wrfpy/wps"
	"go.uber.org/zap"
)

// The section templates below must render byte-for-byte what the cylc
// engine expects, Jinja2 markers and indentation included. Template
// actions therefore use << >> delimiters so that the literal {{ START }}
// and {% ... %} sequences pass through untouched.

const headerTmpl = `#!Jinja2

{% set START = "<< .StartTime >>" %}
{% set STOP  = "<< .EndTime >>" %}

[cylc]
  # set required cylce point format
  cycle point format = %Y%m%d%H

`

const schedulingTmpl = `[scheduling]
  initial cycle point = {{ START }}
  final cycle time   = {{ STOP }}
  [[dependencies]]
    # Initial cycle point
    [[[R1/T<< .StartHour >>]]]
      graph = """
        wrf_init => wrf_real => wrfda => wrf_run
        wrf_init => obsproc_init => obsproc_run
        obsproc_run => wrfda
      """
    # Repeat every << .IncrHour >> hours, starting << .IncrHour >> hours after initial cylce point
    [[[+PT<< .IncrHour >>H/PT<< .IncrHour >>H]]]
      graph = """
        wrf_run[-PT2H] => wrf_init => wrf_real => wrfda => wrf_run
        wrf_init => obsproc_init => obsproc_run
        obsproc_run => wrfda
      """

`

const runtimeBase = `[runtime]
  [[root]] # suite defaults
    [[[job submission]]]
      method = background
`

const runtimeInit = `
  [[init]]
    script = """
wrf_init.py $CYLC_TASK_CYCLE_POINT
wrfda_obsproc_init.py $CYLC_TASK_CYCLE_POINT
"""
`

const runtimeTaskTmpl = `
  [[<< .Task >>]]
    script = """
#!/usr/bin/env bash
if [ -n "$SLURM_CPUS_PER_TASK" ]; then
  omp_threads=$SLURM_CPUS_PER_TASK
else
  omp_threads=1
fi
export OMP_NUM_THREADS=$omp_threads
srun ./<< .Exe >>
"""
    [[[environment]]]
      WORKDIR = << .WorkDir >>
      CYLC_TASK_WORK_DIR = $WORKDIR
    [[[job submission]]]
      method = << .Method >>
    [[[directives]]]
      << .Directives >>
`

const runtimeObsprocTmpl = `
  [[obsproc_run]]
    script = """
#!/usr/bin/env bash
srun ./obsproc.exe
"""
    [[[environment]]]
      WORKDIR = << .WorkDir >>
      CYLC_TASK_WORK_DIR = $WORKDIR
    [[[job submission]]]
      method = << .Method >>
    [[[directives]]]
      << .Directives >>
`

const runtimeWRFDA = `
  [[wrfda]]
    script = wrfda_run.py $CYLC_TASK_CYCLE_POINT
`

const visualization = `
[visualization]
  initial cycle point = {{ START }}
  final cycle time   = {{ STOP }}
  default node attributes = "style=filled", "fillcolor=grey"
`

// Builder assembles a suite.rc document from the suite configuration.
type Builder struct {
	cfg *conf.Configuration
	log *zap.SugaredLogger
}

// NewBuilder ...
func NewBuilder(cfg *conf.Configuration, log *zap.SugaredLogger) *Builder {
	return &Builder{cfg: cfg, log: log}
}

// Build renders the full document: header, scheduling graph, runtime
// blocks and the visualization stub, in that order.
func (b *Builder) Build() (string, error) {
	sections := []func() (string, error){
		b.header,
		b.scheduling,
		func() (string, error) { return runtimeBase, nil },
		func() (string, error) { return runtimeInit, nil },
		func() (string, error) {
			return b.taskRuntime("wrf_real", "real.exe", b.cfg.Filesystem.WRFRunDir, b.cfg.Slurm.Real)
		},
		func() (string, error) {
			return b.taskRuntime("wrf_run", "wrf.exe", b.cfg.Filesystem.WRFRunDir, b.cfg.Slurm.WRF)
		},
		b.obsprocRuntime,
		func() (string, error) { return runtimeWRFDA, nil },
		func() (string, error) { return visualization, nil },
	}

	var doc strings.Builder
	for _, section := range sections {
		text, err := section()
		if err != nil {
			return "", err
		}
		doc.WriteString(text)
	}
	return doc.String(), nil
}

func (b *Builder) header() (string, error) {
	start, err := b.cfg.StartTime()
	if err != nil {
		return "", err
	}
	end, err := b.cfg.EndTime()
	if err != nil {
		return "", err
	}
	return render(headerTmpl, map[string]string{
		"StartTime": start.Format("2006010215"),
		"EndTime":   end.Format("2006010215"),
	})
}

func (b *Builder) scheduling() (string, error) {
	start, err := b.cfg.StartTime()
	if err != nil {
		return "", err
	}
	return render(schedulingTmpl, map[string]interface{}{
		"StartHour": fmt.Sprintf("%02d", start.Hour()),
		"IncrHour":  b.cfg.General.RunHours,
	})
}

func (b *Builder) taskRuntime(task, exe, workDir, batchScript string) (string, error) {
	method, directives, err := b.resolveSubmission(task, batchScript)
	if err != nil {
		return "", err
	}
	return render(runtimeTaskTmpl, map[string]string{
		"Task":       task,
		"Exe":        exe,
		"WorkDir":    workDir,
		"Method":     method,
		"Directives": directives,
	})
}

func (b *Builder) obsprocRuntime() (string, error) {
	method, directives, err := b.resolveSubmission("obsproc_run", b.cfg.Slurm.Obsproc)
	if err != nil {
		return "", err
	}
	return render(runtimeObsprocTmpl, map[string]string{
		"WorkDir":    filepath.Join(b.cfg.Filesystem.WorkDir, "obsproc"),
		"Method":     method,
		"Directives": directives,
	})
}

// resolveSubmission picks the submission method for a task and, in
// batch mode, loads the job script to embed as directives, re-indented
// to the depth of the directives block. No batch script configured is
// not an error.
func (b *Builder) resolveSubmission(task, batchScript string) (method, directives string, err error) {
	if wps.ResolveMethod(batchScript) == wps.Background {
		return wps.Background.String(), "", nil
	}
	content, err := os.ReadFile(batchScript)
	if err != nil {
		return "", "", fmt.Errorf("read batch directives for %s: %w", task, err)
	}
	return wps.BatchQueue.String(), strings.ReplaceAll(string(content), "\n", "\n      "), nil
}

func render(tmplText string, data interface{}) (string, error) {
	tmpl, err := template.New("section").Delims("<<", ">>").Parse(tmplText)
	if err != nil {
		return "", fmt.Errorf("parse section template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render section template: %w", err)
	}
	return buf.String(), nil
}
