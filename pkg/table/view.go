package table

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// SortDirection is the per-column sort cycle state.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

// next advances the asc -> desc -> none cycle.
func (d SortDirection) next() SortDirection {
	switch d {
	case SortNone:
		return SortAsc
	case SortAsc:
		return SortDesc
	default:
		return SortNone
	}
}

// Snapshot is one materialized render of the table: the active columns, the
// rows in display order, and an explicit empty marker so callers can
// distinguish "no data" from loading and error states they track themselves.
type Snapshot struct {
	Columns []Column
	Rows    []Application
	Empty   bool
}

// View holds the user-mutable presentation state for one mounted submissions
// table: the working copy of fetched rows, the shared column set, and the
// single active sort. The working copy owns display order; sorting is a view
// recomputed at materialize time and never rewrites the manual order, so
// clearing the sort returns to the manually arranged sequence.
type View struct {
	mu      sync.Mutex
	rows    []Application
	columns []Column
	sortCol string
	sortDir SortDirection
}

// NewView creates an empty view. Rows and columns arrive via SetRows and
// SetColumns once the fetches complete.
func NewView() *View {
	return &View{}
}

// SetRows replaces the working copy wholesale, resetting any manual order to
// the fetched order. The slice is copied; the caller's slice stays untouched.
func (v *View) SetRows(rows []Application) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rows = append([]Application(nil), rows...)
}

// Rows returns the working copy in its current manual order.
func (v *View) Rows() []Application {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Application(nil), v.rows...)
}

// SetColumns replaces the shared column set, typically with the server-derived
// list from a submissions fetch.
func (v *View) SetColumns(columns []Column) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.columns = append([]Column(nil), columns...)
}

// Columns returns the column set as configured, hidden entries included.
// When no fetch has populated columns yet the fixed fallback is returned; the
// fallback is display-only and is not stored back.
func (v *View) Columns() []Column {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.columnsLocked()
}

func (v *View) columnsLocked() []Column {
	if len(v.columns) == 0 {
		return DefaultColumns()
	}
	return append([]Column(nil), v.columns...)
}

// ActiveColumns returns the visible columns in configured order.
func (v *View) ActiveColumns() []Column {
	v.mu.Lock()
	defer v.mu.Unlock()
	return activeOf(v.columnsLocked())
}

func activeOf(columns []Column) []Column {
	out := make([]Column, 0, len(columns))
	for _, col := range columns {
		if col.Visible {
			out = append(out, col)
		}
	}
	return out
}

// ToggleColumn flips exactly one column's visibility and reports whether the
// id was known. Row data, row order, and sort state are unaffected. Hiding
// the last visible column is allowed.
func (v *View) ToggleColumn(columnID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.columns {
		if v.columns[i].ID == columnID {
			v.columns[i].Visible = !v.columns[i].Visible
			return true
		}
	}
	return false
}

// SortBy advances the sort cycle for the given column: ascending, then
// descending, then unsorted. Selecting a different column replaces the prior
// sort and starts at ascending. Multi-column sort is not supported.
func (v *View) SortBy(columnID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sortCol != columnID {
		v.sortCol = columnID
		v.sortDir = SortAsc
		return
	}
	v.sortDir = v.sortDir.next()
	if v.sortDir == SortNone {
		v.sortCol = ""
	}
}

// Sort returns the active sort column and direction.
func (v *View) Sort() (string, SortDirection) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sortCol, v.sortDir
}

// ClearSort drops any active sort, returning display order to the manual
// sequence.
func (v *View) ClearSort() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sortCol = ""
	v.sortDir = SortNone
}

// Reorder moves the row identified by sourceID to the position currently held
// by targetID: splice-remove, then splice-insert. Identity is the stable row
// id; positional indexes are deliberately not part of the contract because
// they shift under sorting. Dropping a row onto itself or naming an unknown
// id is a no-op. The new order becomes the manual base order.
func (v *View) Reorder(sourceID, targetID string) bool {
	if sourceID == targetID {
		return false
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	src := indexOf(v.rows, sourceID)
	dst := indexOf(v.rows, targetID)
	if src < 0 || dst < 0 {
		return false
	}

	moved := v.rows[src]
	rest := append(v.rows[:src], v.rows[src+1:]...)
	v.rows = append(rest[:dst], append([]Application{moved}, rest[dst:]...)...)
	return true
}

func indexOf(rows []Application, id string) int {
	for i := range rows {
		if rows[i].ID == id {
			return i
		}
	}
	return -1
}

// Materialize computes the displayed table: active columns plus the rows in
// manual order with the active sort, if any, applied on top. The underlying
// working copy is never mutated by sorting.
func (v *View) Materialize() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := Snapshot{
		Columns: activeOf(v.columnsLocked()),
		Rows:    append([]Application(nil), v.rows...),
		Empty:   len(v.rows) == 0,
	}

	if v.sortDir != SortNone && v.sortCol != "" {
		col := v.sortCol
		desc := v.sortDir == SortDesc
		sort.SliceStable(snap.Rows, func(i, j int) bool {
			a, _ := snap.Rows[i].Get(col)
			b, _ := snap.Rows[j].Get(col)
			less := compareValues(a, b)
			if desc {
				return less > 0
			}
			return less < 0
		})
	}

	return snap
}

// compareValues orders two cell values: numbers numerically, everything else
// by string representation. Numeric strings sort as numbers so "9" stays
// below "10".
func compareValues(a, b any) int {
	an, aNum := toNumber(a)
	bn, bNum := toNumber(b)
	if aNum && bNum {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}

	as, bs := stringify(a), stringify(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
