// Package mangle implements the two structures the code generator uses
// to keep source identifiers collision-free in the lowered target: a
// scoped lexical symbol table, and a two-tier (global/local) mangle map.
// Grounded directly on the original compiler's SymbolTable<T> and
// MangleName (parent-linked frame chain, disjoint global/local maps with
// a reserved passthrough set). The lexical table keeps the original's
// shape: each Frame links to its enclosing frame through a pointer.
package mangle

// LocalPrefix is prepended to every local identifier's mangled form.
const LocalPrefix = "____PEREGRINE____PEREGRINE____"

// defaultReserved is the fixed passthrough set from the spec; callers
// may extend it (see Table.AddReserved) without losing these two.
var defaultReserved = []string{"printf", "error"}

// Table is the two-tier mangle map: global identifiers are mangled with
// a per-file prefix, local identifiers with the fixed local prefix,
// reserved externals pass through unchanged. Lookup order is reserved →
// local → global → raw (identifiers never seen before are emitted
// unmangled only if nothing else claims them, which in practice never
// happens once the generator has visited them — see Resolve).
type Table struct {
	global   map[string]string
	local    map[string]string
	reserved map[string]bool
}

// New creates a mangle table holding only the default reserved names.
// It takes no file prefix: callers supply each global's full mangled
// form via SetGlobal.
func New() *Table {
	t := &Table{
		global:   make(map[string]string),
		local:    make(map[string]string),
		reserved: make(map[string]bool),
	}
	for _, name := range defaultReserved {
		t.reserved[name] = true
	}
	return t
}

// AddReserved extends the passthrough set beyond the spec default.
func (t *Table) AddReserved(names ...string) {
	for _, n := range names {
		t.reserved[n] = true
	}
}

// SetLocal maps name to the fixed local-prefix mangling.
func (t *Table) SetLocal(name string) {
	t.local[name] = LocalPrefix + name
}

// SetGlobal records a chosen mangled form for a global identifier.
func (t *Table) SetGlobal(name, mangled string) {
	t.global[name] = mangled
}

// Contains reports whether name has an entry (reserved, local, or
// global) already.
func (t *Table) Contains(name string) bool {
	if t.reserved[name] {
		return true
	}
	if _, ok := t.local[name]; ok {
		return true
	}
	_, ok := t.global[name]
	return ok
}

// Resolve returns the mangled form of name: reserved → local → global →
// raw (unmangled passthrough for names that were never registered,
// which should not occur for a fully-lowered program but keeps the
// function total).
func (t *Table) Resolve(name string) string {
	if t.reserved[name] {
		return name
	}
	if m, ok := t.local[name]; ok {
		return m
	}
	if m, ok := t.global[name]; ok {
		return m
	}
	return name
}

// Snapshot captures {local, localFlag-independent local map} so a
// caller can restore it after a scoped lowering pass. The global map is
// never snapshotted — globals are file-wide and never roll back.
type Snapshot struct {
	local map[string]string
}

// Snapshot returns a deep copy of the current local map.
func (t *Table) Snapshot() Snapshot {
	cp := make(map[string]string, len(t.local))
	for k, v := range t.local {
		cp[k] = v
	}
	return Snapshot{local: cp}
}

// Restore replaces the local map with a previously captured snapshot.
func (t *Table) Restore(s Snapshot) {
	t.local = s.local
}

// WithLocalScope snapshots the local map, runs fn, and restores the
// snapshot unconditionally (even if fn panics or returns an error) —
// the scoped-resource discipline spec.md §5 requires around every
// FunctionDef and ClassDef body.
func (t *Table) WithLocalScope(fn func() error) error {
	snap := t.Snapshot()
	defer t.Restore(snap)
	return fn()
}

// Frame is one level of the scoped lexical symbol table: a flat
// {name -> payload} map plus a link to its enclosing frame.
type Frame struct {
	symbols map[string]any
	parent  *Frame
}

// NewFrame creates a frame chained to parent (nil for the outermost
// frame).
func NewFrame(parent *Frame) *Frame {
	return &Frame{symbols: make(map[string]any), parent: parent}
}

// Lookup ascends the frame chain looking for name.
func (f *Frame) Lookup(name string) (any, bool) {
	for frame := f; frame != nil; frame = frame.parent {
		if v, ok := frame.symbols[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Define binds name in this frame. It fails (returns false) if name is
// already visible from this frame, matching the original's
// SymbolTable::set semantics.
func (f *Frame) Define(name string, payload any) bool {
	if _, ok := f.Lookup(name); ok {
		return false
	}
	f.symbols[name] = payload
	return true
}

// Reassign rewrites the nearest binding of name, ascending the chain.
// It fails if name is not bound anywhere in the chain.
func (f *Frame) Reassign(name string, payload any) bool {
	for frame := f; frame != nil; frame = frame.parent {
		if _, ok := frame.symbols[name]; ok {
			frame.symbols[name] = payload
			return true
		}
	}
	return false
}

// Parent returns the enclosing frame, or nil at the root.
func (f *Frame) Parent() *Frame { return f.parent }
