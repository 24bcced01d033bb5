// Package conf holds the suite configuration read from the config.json
// file living in a suite directory. The key names are fixed by the
// configuration store contract and by the batch scripts referenced from
// it, dots included.
package conf

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// DateLayout is the timestamp format used throughout the suite
// configuration and the namelist documents.
const DateLayout = "2006-01-02_15:04:05"

// FilesystemConf contains the paths of all directories the suite
// works in.
type FilesystemConf struct {
	WorkDir       string `json:"work_dir"`
	WPSDir        string `json:"wps_dir"`
	WRFRunDir     string `json:"wrf_run_dir"`
	BoundaryDir   string `json:"boundary_dir"`
	UPPArchiveDir string `json:"upp_archive_dir"`
}

// SlurmConf lists per-stage batch job scripts. An empty entry means the
// stage runs as a local background process instead of being submitted
// to the queue.
type SlurmConf struct {
	Geogrid string `json:"slurm_geogrid.exe"`
	Ungrib  string `json:"slurm_ungrib.exe"`
	Metgrid string `json:"slurm_metgrid.exe"`
	Real    string `json:"slurm_real.exe"`
	WRF     string `json:"slurm_wrf.exe"`
	Obsproc string `json:"slurm_obsproc.exe"`
}

// GeneralConf contains the run window and cycling interval.
type GeneralConf struct {
	DateStart string `json:"date_start"`
	DateEnd   string `json:"date_end"`
	RunHours  int    `json:"run_hours"`
}

// Configuration contains all configuration sub structures.
type Configuration struct {
	Filesystem FilesystemConf `json:"filesystem"`
	Slurm      SlurmConf      `json:"options_slurm"`
	General    GeneralConf    `json:"options_general"`
}

// Load reads the configuration from confPath.
func Load(confPath string) (*Configuration, error) {
	content, err := os.ReadFile(confPath)
	if err != nil {
		return nil, fmt.Errorf("read configuration %s: %w", confPath, err)
	}
	var cfg Configuration
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse configuration %s: %w", confPath, err)
	}
	return &cfg, nil
}

// StartTime parses options_general.date_start.
func (cfg *Configuration) StartTime() (time.Time, error) {
	t, err := time.Parse(DateLayout, cfg.General.DateStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid options_general.date_start: %w", err)
	}
	return t, nil
}

// EndTime parses options_general.date_end.
func (cfg *Configuration) EndTime() (time.Time, error) {
	t, err := time.Parse(DateLayout, cfg.General.DateEnd)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid options_general.date_end: %w", err)
	}
	return t, nil
}
