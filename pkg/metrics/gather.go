package metrics

import (
	"fmt"
	"sort"
)

// Families gathers the registry and returns the registered metric family
// names in sorted order. Vector families appear once they have a sample.
func Families() ([]string, error) {
	mfs, err := customRegistry.Gather()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGatherFailed, err)
	}
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	sort.Strings(names)
	return names, nil
}
