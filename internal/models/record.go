package models

// Field is one named value of a resource record. Order is preserved so list
// views render columns the way the backend returned them.
type Field struct {
	Name  string
	Value string
}

// Record is the generic view of a backend-owned entity: an opaque stable
// identifier plus an ordered field mapping. Records are never created or
// mutated locally; they always mirror the last successful fetch.
type Record struct {
	ID     string
	Fields []Field
}

// Get returns the value of the named field, or the empty string.
func (r Record) Get(name string) string {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Values flattens the record's fields into a name-value map, the shape a
// form controller is seeded from in edit mode.
func (r Record) Values() map[string]string {
	out := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		out[f.Name] = f.Value
	}
	return out
}
