package wps

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/Sytse47/wrfpy/fsutil"
	"github.com/hpcloud/tail"
	"go.uber.org/zap"
)

// Method selects how a stage is launched.
type Method int

const (
	// Background runs the stage binary directly as a local process.
	Background Method = iota
	// BatchQueue submits a job script through the cluster scheduler.
	BatchQueue
)

func (m Method) String() string {
	if m == BatchQueue {
		return "slurm"
	}
	return "background"
}

// ResolveMethod picks the execution method for a task from its optional
// batch job script setting. An empty setting means Background; this is
// not an error.
func ResolveMethod(batchScript string) Method {
	if batchScript != "" {
		return BatchQueue
	}
	return Background
}

// Stage is one external preprocessing step, resolved to a concrete
// invocation.
type Stage struct {
	Name        string
	Method      Method
	Exe         fsutil.Path // stage binary, Background only
	BatchScript string      // job script, BatchQueue only
	WorkDir     fsutil.Path
	LogFile     string // log written by the binary, followed while it runs
}

// NewStage resolves a stage from its binary location and the optional
// batch job script configured for it.
func NewStage(name string, exe fsutil.Path, batchScript string, workDir fsutil.Path) Stage {
	st := Stage{
		Name:    name,
		Method:  ResolveMethod(batchScript),
		WorkDir: workDir,
		LogFile: name + ".log",
	}
	if st.Method == BatchQueue {
		st.BatchScript = batchScript
	} else {
		st.Exe = exe
	}
	return st
}

// target is the path whose existence is a precondition of running.
func (st Stage) target() string {
	if st.Method == BatchQueue {
		return st.BatchScript
	}
	return st.Exe.String()
}

// RunStage executes one stage in its working directory and blocks until
// the process exits. In BatchQueue mode the submit command returning
// zero means only that the queue accepted the job. The child's output
// is discarded; a non-zero exit becomes a StageError. While the stage
// runs, its log file is followed into the debug log.
func RunStage(log *zap.SugaredLogger, st Stage) error {
	if _, err := os.Stat(st.target()); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: stage %s needs %s", ErrMissingExecutable, st.Name, st.target())
		}
		return fmt.Errorf("stage %s: stat %s: %w", st.Name, st.target(), err)
	}

	var cmd *exec.Cmd
	if st.Method == BatchQueue {
		cmd = exec.Command("sbatch", st.BatchScript)
	} else {
		cmd = exec.Command(st.Exe.String())
	}
	cmd.Dir = st.WorkDir.String()

	var follower *tail.Tail
	if st.LogFile != "" && st.Method == Background {
		t, err := tail.TailFile(st.WorkDir.Join(st.LogFile).String(), tail.Config{
			Follow:    true,
			MustExist: false,
			ReOpen:    true,
			Logger:    tail.DiscardingLogger,
		})
		if err == nil {
			follower = t
			go func() {
				for line := range t.Lines {
					if line.Err != nil {
						return
					}
					log.Debugf("%s: %s", st.Name, line.Text)
				}
			}()
		}
	}

	log.Infow("running stage", "stage", st.Name, "method", st.Method.String())
	err := cmd.Run()
	if follower != nil {
		follower.Stop()
	}
	if err != nil {
		return &StageError{Stage: st.Name, Err: err}
	}
	return nil
}
