package sedmap

import (
	"fmt"

	"github.com/sedmap/sedmap/catalog"
)

// LoadGalaxy reads every band triplet and the exclusion mask named by a
// band catalog and assembles the filter list. The catalog's redshift is
// applied before opts, so WithRedshift can still override it.
func LoadGalaxy(cat *catalog.Catalog, opts ...ListOption) (*FilterList, error) {
	mask, err := LoadMask(cat.MaskPath())
	if err != nil {
		return nil, fmt.Errorf("galaxy %s: %w", cat.Galaxy, err)
	}
	filters := make([]*Filter, 0, len(cat.Bands))
	for _, b := range cat.Bands {
		f, err := NewFilter(b.Name, cat.FluxPath(b.Name), cat.Flux2Path(b.Name), cat.VarPath(b.Name), b.Zeropoint)
		if err != nil {
			return nil, fmt.Errorf("galaxy %s: %w", cat.Galaxy, err)
		}
		filters = append(filters, f)
	}
	opts = append([]ListOption{WithRedshift(cat.Redshift)}, opts...)
	fl, err := NewFilterList(filters, mask, opts...)
	if err != nil {
		return nil, fmt.Errorf("galaxy %s: %w", cat.Galaxy, err)
	}
	return fl, nil
}
