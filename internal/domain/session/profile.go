package session

import (
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// DefaultIDPath is the JMESPath used to locate the identifier field when no
// override is configured.
const DefaultIDPath = "id"

// Profile is the opaque user snapshot returned by the backend. The core does
// not interpret its contents beyond the identifier field; everything else is
// passed through to screens untouched.
type Profile map[string]any

// ID extracts the user identifier from the snapshot using the given JMESPath.
// An empty path falls back to DefaultIDPath. Numeric identifiers are rendered
// in their decimal string form.
func (p Profile) ID(path string) (string, error) {
	if p == nil {
		return "", fmt.Errorf("nil profile")
	}
	if path == "" {
		path = DefaultIDPath
	}
	v, err := jmespath.Search(path, map[string]any(p))
	if err != nil {
		return "", fmt.Errorf("evaluate identifier path %q: %w", path, err)
	}
	switch id := v.(type) {
	case nil:
		return "", fmt.Errorf("identifier path %q matched nothing", path)
	case string:
		return id, nil
	case float64:
		// JSON numbers decode as float64; identifiers are integral in practice.
		return fmt.Sprintf("%.0f", id), nil
	default:
		return fmt.Sprintf("%v", id), nil
	}
}

// Clone returns a shallow copy of the snapshot. Nested values are shared;
// callers treat the snapshot as immutable.
func (p Profile) Clone() Profile {
	if p == nil {
		return nil
	}
	out := make(Profile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a copy of the snapshot with patch applied on top. Neither
// receiver nor patch is mutated.
func (p Profile) Merge(patch Profile) Profile {
	out := p.Clone()
	if out == nil {
		out = make(Profile, len(patch))
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}
