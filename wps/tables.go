package wps

import (
	"github.com/Sytse47/wrfpy/fsutil"
)

// LinkTables makes sure the static lookup tables the ungrib and grid
// stages need are linked into the working directory: the GFS Vtable and
// the ARW geogrid/metgrid interpolation tables. Every link is created
// only when absent, so a table already in place, possibly swapped out by
// the user, is never disturbed.
func LinkTables(tr *fsutil.Transaction, wpsDir fsutil.Path) {
	ensureTable(tr, wpsDir.Join("ungrib/Variable_Tables/Vtable.GFS"), "", "Vtable")
	ensureTable(tr, wpsDir.Join("geogrid/GEOGRID.TBL.ARW"), "geogrid", "geogrid/GEOGRID.TBL")
	ensureTable(tr, wpsDir.Join("metgrid/METGRID.TBL.ARW"), "metgrid", "metgrid/METGRID.TBL")
}

func ensureTable(tr *fsutil.Transaction, source fsutil.Path, subdir, link fsutil.Path) {
	if tr.Err != nil || tr.Exists(link) {
		return
	}
	if subdir != "" {
		tr.MkDir(subdir)
	}
	tr.Link(source, link)
}
