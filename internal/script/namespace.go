package script

import "sort"

// Namespace is the persistent key→value mapping code executes against. The
// scaffold subset is restored after every Execute call regardless of what
// the fragment did to the live namespace.
type Namespace struct {
	entries  map[string]Value
	scaffold map[string]Value
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		entries:  make(map[string]Value),
		scaffold: make(map[string]Value),
	}
}

// Seed registers name as both a live entry and a scaffold entry, i.e. one
// of the initial seed names whose value is restored after every execution.
func (n *Namespace) Seed(name string, v Value) {
	n.entries[name] = v
	n.scaffold[name] = v
}

// Get looks up name in the live namespace.
func (n *Namespace) Get(name string) (Value, bool) {
	v, ok := n.entries[name]
	return v, ok
}

// Set binds name in the live namespace only — not scaffold-protected unless
// it was seeded or later passed to UpdateScaffold.
func (n *Namespace) Set(name string, v Value) {
	n.entries[name] = v
}

// UpdateScaffold adds or replaces a scaffold entry; it takes effect
// immediately and is restored after every subsequent Execute.
func (n *Namespace) UpdateScaffold(name string, v Value) {
	n.entries[name] = v
	n.scaffold[name] = v
}

// RestoreScaffold resets every scaffold entry to its registered value,
// overwriting whatever the executed fragment may have rebound.
func (n *Namespace) RestoreScaffold() {
	for name, v := range n.scaffold {
		n.entries[name] = v
	}
}

// InjectTools registers user-supplied helpers as scaffold entries. Returns
// (name, description) pairs for prompt rendering. Rejects any name
// conflicting with a reserved or scaffold name.
func (n *Namespace) InjectTools(tools map[string]Value, descriptions map[string]string) ([][2]string, error) {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic prompt rendering

	out := make([][2]string, 0, len(names))
	for _, name := range names {
		if IsReserved(name) {
			return nil, &NameConflictError{Name: name}
		}
		v := tools[name]
		n.UpdateScaffold(name, v)
		desc := descriptions[name]
		if desc == "" && v.Kind == KindCallable {
			desc = "callable(" + name + ")"
		}
		out = append(out, [2]string{name, desc})
	}
	return out, nil
}

// SnapshotVariables captures user-defined variables as strings, excluding
// scaffold names and anything starting with "_", each truncated to 200
// characters via Value.Repr.
func (n *Namespace) SnapshotVariables() map[string]string {
	out := make(map[string]string)
	for name, v := range n.entries {
		if len(name) > 0 && name[0] == '_' {
			continue
		}
		if _, isScaffold := n.scaffold[name]; isScaffold {
			continue
		}
		out[name] = v.Repr()
	}
	return out
}
