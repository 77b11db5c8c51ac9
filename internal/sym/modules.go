package sym

// Module is one entry of the module arena.
type Module struct {
	Name string
	Path string
	// Tracker is the import alias used to qualify names, e.g. "mm.sqrt".
	Tracker string
}

// StoreModule appends a module entry and returns its index.
func (t *Table) StoreModule(entry Module) int {
	t.Mods = append(t.Mods, entry)
	return len(t.Mods) - 1
}

// TrkSearch resolves an import alias to a module index, -1 when unknown.
func (t *Table) TrkSearch(tracker string) int {
	for i := range t.Mods {
		if t.Mods[i].Tracker == tracker && tracker != "" {
			return i
		}
	}
	return -1
}

// ModName returns the module name for diagnostics.
func (t *Table) ModName(modIndex int) string {
	if modIndex < 0 || modIndex >= len(t.Mods) {
		return "?"
	}
	return t.Mods[modIndex].Name
}
