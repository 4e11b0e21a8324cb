package bench

import (
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/sedmap/sedmap"
	"golang.org/x/exp/rand"
)

// buildList assembles an in-memory galaxy of the given size with about
// a quarter of the pixels masked out.
func buildList(tb testing.TB, w, h, nbands int, opts ...sedmap.ListOption) *sedmap.FilterList {
	tb.Helper()
	rng := rand.New(rand.NewSource(1))
	excluded := make([]bool, w*h)
	for i := range excluded {
		excluded[i] = rng.Intn(4) == 0
	}
	mask, err := sedmap.NewMask(excluded, w, h)
	if err != nil {
		tb.Fatalf("Failed to build mask: %v", err)
	}
	filters := make([]*sedmap.Filter, nbands)
	for n := 0; n < nbands; n++ {
		flux := make([]float64, w*h)
		variance := make([]float64, w*h)
		for i := range flux {
			flux[i] = rng.Float64() * 100
			variance[i] = 0.5 + rng.Float64()
		}
		f, err := sedmap.NewFilterData(fmt.Sprintf("band%d", n), flux, flux, variance, w, h, 25.0,
			sedmap.WithTexp(507))
		if err != nil {
			tb.Fatalf("Failed to build band %d: %v", n, err)
		}
		filters[n] = f
	}
	opts = append([]sedmap.ListOption{sedmap.WithRedshift(0.62)}, opts...)
	fl, err := sedmap.NewFilterList(filters, mask, opts...)
	if err != nil {
		tb.Fatalf("Failed to assemble filter list: %v", err)
	}
	return fl
}

func BenchmarkGenTable(b *testing.B) {
	test := []struct {
		name string
		opts []sedmap.TableOption
	}{
		{name: "zero", opts: nil},
		{name: "min", opts: []sedmap.TableOption{
			sedmap.WithCleanMethod(sedmap.CleanMin),
		}},
		{name: "noise", opts: []sedmap.TableOption{
			sedmap.WithTexpFac(4),
			sedmap.WithNoiseSeed(1),
		}},
	}

	for _, size := range [][2]int{{64, 64}, {256, 256}, {1024, 1024}} {
		fl := buildList(b, size[0], size[1], 4)
		for _, tt := range test {
			b.Run(fmt.Sprintf("%s_%dx%d", tt.name, size[0], size[1]), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					tbl, err := fl.GenTable(tt.opts...)
					if err != nil {
						b.Fatalf("Failed to generate table (%s): %v", tt.name, err)
					}
					_ = tbl
				}
			})
		}
	}
}

func BenchmarkReconstruct(b *testing.B) {
	for _, size := range [][2]int{{256, 256}, {1024, 1024}} {
		fl := buildList(b, size[0], size[1], 4)
		tbl, err := fl.GenTable()
		if err != nil {
			b.Fatalf("Failed to generate table: %v", err)
		}
		values := make([]float64, tbl.NumRows())
		for i := range values {
			values[i] = float64(i%100) + 1
		}

		b.Run(fmt.Sprintf("plain_%dx%d", size[0], size[1]), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				m, err := fl.Reconstruct(values, math.NaN(), false)
				if err != nil {
					b.Fatalf("Failed to reconstruct: %v", err)
				}
				_ = m
			}
		})
		b.Run(fmt.Sprintf("unscale_%dx%d", size[0], size[1]), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				m, err := fl.Reconstruct(values, math.NaN(), true)
				if err != nil {
					b.Fatalf("Failed to reconstruct: %v", err)
				}
				_ = m
			}
		})
	}
}

func BenchmarkTableWrite(b *testing.B) {
	for _, code := range []sedmap.Code{sedmap.LePhare, sedmap.Cigale} {
		fl := buildList(b, 256, 256, 4, sedmap.WithCode(code))
		tbl, err := fl.GenTable()
		if err != nil {
			b.Fatalf("Failed to generate table: %v", err)
		}
		b.Run(string(code), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := tbl.WriteTo(io.Discard); err != nil {
					b.Fatalf("Failed to write table: %v", err)
				}
			}
		})
	}
}
