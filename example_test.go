package sedmap_test

import (
	"fmt"
	"strings"

	"github.com/sedmap/sedmap"
)

func Example_pipeline() {
	// Two 3x3 bands with the corner pixels masked out.
	const w, h = 3, 3
	excluded := []bool{
		true, false, true,
		false, false, false,
		true, false, true,
	}
	flux435 := []float64{2, 2, 2, 2, 2, 2, 2, 2, 2}
	flux606 := []float64{4, 4, 4, 4, 4, 4, 4, 4, 4}
	ones := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1}

	mask, err := sedmap.NewMask(excluded, w, h)
	if err != nil {
		fmt.Printf("Error building mask: %v\n", err)
		return
	}
	f435, err := sedmap.NewFilterData("435", flux435, flux435, ones, w, h, 25.0)
	if err != nil {
		fmt.Printf("Error loading band: %v\n", err)
		return
	}
	f606, err := sedmap.NewFilterData("606", flux606, flux606, ones, w, h, 26.0)
	if err != nil {
		fmt.Printf("Error loading band: %v\n", err)
		return
	}
	fl, err := sedmap.NewFilterList([]*sedmap.Filter{f435, f606}, mask, sedmap.WithRedshift(0.62))
	if err != nil {
		fmt.Printf("Error assembling filter list: %v\n", err)
		return
	}

	// One catalogue row per kept pixel, magnitudes plus errors per band.
	tbl, err := fl.GenTable()
	if err != nil {
		fmt.Printf("Error generating table: %v\n", err)
		return
	}
	fmt.Println(strings.Join(tbl.ColumnNames(), " "))
	fmt.Println("rows:", tbl.NumRows())

	// A fitted quantity comes back as one value per kept pixel and
	// scatters onto the original grid.
	fitted := []float64{1, 2, 3, 4, 5}
	m, err := fl.Reconstruct(fitted, 0, false)
	if err != nil {
		fmt.Printf("Error reconstructing map: %v\n", err)
		return
	}
	fmt.Println("at (0,1):", m.At(0, 1))
	fmt.Println("masked corner:", m.At(0, 0))

	// Output:
	// ID 435 e_435 606 e_606 Context zs
	// rows: 5
	// at (0,1): 2
	// masked corner: 0
}
