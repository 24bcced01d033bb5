package wps

import (
	"fmt"
	"time"

	"github.com/Sytse47/wrfpy/conf"
	"github.com/Sytse47/wrfpy/namelist"
)

// PatchNamelist rewrites the time window of the namelist document at
// path: share.start_date and share.end_date are set to the formatted
// start and end repeated once per domain, all domains sharing the same
// window. The document is replaced atomically.
func PatchNamelist(path string, start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start=%v end=%v", ErrInvalidTimeWindow, start, end)
	}

	doc, err := namelist.Read(path)
	if err != nil {
		return err
	}

	maxDom, err := doc.Int("share", "max_dom")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDomainCount, err)
	}
	if maxDom < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidDomainCount, maxDom)
	}

	if err := doc.SetStringList("share", "start_date", repeat(start.Format(conf.DateLayout), maxDom)); err != nil {
		return err
	}
	if err := doc.SetStringList("share", "end_date", repeat(end.Format(conf.DateLayout), maxDom)); err != nil {
		return err
	}

	return doc.Write(path)
}

func repeat(s string, n int) []string {
	values := make([]string, n)
	for i := range values {
		values[i] = s
	}
	return values
}
