package lephare_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sedmap/sedmap/lephare"
)

func testParams() *lephare.Params {
	p := lephare.DefaultParams("1")
	p.FilterList = []string{"HST_ACS_WFC.F435W", "HST_ACS_WFC.F606W"}
	p.ErrScale = []float64{0.03, 0.03}
	return p
}

func TestDefaultParams(t *testing.T) {
	p := testParams()
	require.NoError(t, p.Validate())

	assert.Equal(t, "GAL_1", p.GalLibOut)
	assert.Equal(t, []string{"GAL_1", "STAR_1", "QSO_1"}, p.ZPhotLib)
	assert.Equal(t, lephare.MagAB, p.MagType)
	assert.Equal(t, lephare.MEME, p.CatFmt)
	assert.Equal(t, 0.01, p.ZStep.DZ)
	assert.Equal(t, 70.0, p.Cosmology.H0)
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*lephare.Params)
		wantErr string
	}{
		{"empty id", func(p *lephare.Params) { p.ID = "" }, "empty run ID"},
		{"no filters", func(p *lephare.Params) { p.FilterList = nil }, "empty filter list"},
		{"trans type", func(p *lephare.Params) { p.TransType = 2 }, "transmission type"},
		{"filter calib", func(p *lephare.Params) { p.FilterCalib = 5 }, "filter calibration"},
		{"zstep dz", func(p *lephare.Params) { p.ZStep.DZ = -0.01 }, "redshift step"},
		{"zstep range", func(p *lephare.Params) { p.ZStep.Max = p.ZStep.Min }, "redshift range"},
		{"H0", func(p *lephare.Params) { p.Cosmology.H0 = -70 }, "H0"},
		{"Om0", func(p *lephare.Params) { p.Cosmology.Om0 = 1.2 }, "Omega_m"},
		{"L0", func(p *lephare.Params) { p.Cosmology.L0 = -0.1 }, "Omega_lambda"},
		{"extinc range", func(p *lephare.Params) { p.ModExtinc = [2]int{5, 2} }, "extinction model range"},
		{"ebv bound", func(p *lephare.Params) { p.EBV = []float64{0, 1} }, "E(B-V)"},
		{"ebv order", func(p *lephare.Params) { p.EBV = []float64{0.2, 0.1} }, "must increase"},
		{"mag type", func(p *lephare.Params) { p.MagType = "ST" }, "magnitude type"},
		{"inp type", func(p *lephare.Params) { p.InpType = "Q" }, "catalogue unit"},
		{"cat fmt", func(p *lephare.Params) { p.CatFmt = "EEMM" }, "catalogue format"},
		{"cat type", func(p *lephare.Params) { p.CatType = "WIDE" }, "row type"},
		{"zphot lib", func(p *lephare.Params) { p.ZPhotLib = []string{} }, "empty fit library list"},
		{"err scale", func(p *lephare.Params) { p.ErrScale = []float64{0.03, 0.03, 0.03} }, "error scales"},
		{"err factor", func(p *lephare.Params) { p.ErrFactor = -1 }, "error factor"},
		{"output param", func(p *lephare.Params) { p.OutputParams = []string{"MASS_MED", "NOPE"} }, `"NOPE"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.mutate(p)
			err := p.Validate()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

// paraValue extracts the value of a key from rendered configuration
// text.
func paraValue(text, key string) string {
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == key {
			return strings.Join(fields[1:], " ")
		}
	}
	return ""
}

func TestWriteParams(t *testing.T) {
	p := testParams()
	p.CatIn = "/data/1.in"
	p.CatOut = "/work/1.out"
	p.ParaOut = "/work/1_output.para"

	var buf bytes.Buffer
	require.NoError(t, p.WriteParams(&buf))
	text := buf.String()

	assert.Equal(t, "$LEPHAREDIR/sed/GAL/BC03_CHAB/BC03_MOD.list", paraValue(text, "GAL_SED"))
	assert.Equal(t, "HST_ACS_WFC.F435W,HST_ACS_WFC.F606W", paraValue(text, "FILTER_LIST"))
	assert.Equal(t, "0.01,0,2", paraValue(text, "Z_STEP"))
	assert.Equal(t, "70,0.3,0.7", paraValue(text, "COSMOLOGY"))
	assert.Equal(t, "0,27", paraValue(text, "MOD_EXTINC"))
	assert.Equal(t, "0,0.1,0.2,0.3", paraValue(text, "EB_V"))
	assert.Equal(t, "AB", paraValue(text, "MAGTYPE"))
	assert.Equal(t, "NO", paraValue(text, "EM_LINES"))
	assert.Equal(t, "/data/1.in", paraValue(text, "CAT_IN"))
	assert.Equal(t, "M", paraValue(text, "INP_TYPE"))
	assert.Equal(t, "MEME", paraValue(text, "CAT_FMT"))
	assert.Equal(t, "LONG", paraValue(text, "CAT_TYPE"))
	assert.Equal(t, "GAL_1,STAR_1,QSO_1", paraValue(text, "ZPHOTLIB"))
	assert.Equal(t, "0.03,0.03", paraValue(text, "ERR_SCALE"))
	assert.Equal(t, "1.5", paraValue(text, "ERR_FACTOR"))
	assert.Equal(t, "NONE", paraValue(text, "PDZ_OUT"))
}

func TestWriteOutputParams(t *testing.T) {
	p := testParams()
	p.OutputParams = []string{"Z_BEST", "MASS_MED", "MAG_ABS()", "MASS_MED"}

	var buf bytes.Buffer
	require.NoError(t, p.WriteOutputParams(&buf))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{"IDENT", "Z_BEST", "MASS_MED", "MAG_ABS()"}, lines,
		"IDENT leads, duplicates collapse")

	p.OutputParams = []string{"NOPE"}
	assert.Error(t, p.WriteOutputParams(&buf))
}

func TestLoadParams(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lephare.yaml")
	src := `id: "1"
filter_list: [HST_ACS_WFC.F435W, HST_ACS_WFC.F606W]
err_scale: [0.03, 0.03]
z_step: {dz: 0.02, min: 0, max: 3}
output_params: [IDENT, Z_BEST, MASS_MED, SFR_MED]
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	p, err := lephare.LoadParams(path)
	require.NoError(t, err)
	assert.Equal(t, "1", p.ID)
	assert.Equal(t, 0.02, p.ZStep.DZ)
	assert.Equal(t, 3.0, p.ZStep.Max)
	assert.Equal(t, lephare.MEME, p.CatFmt, "defaults fill unset fields")
	assert.Equal(t, 70.0, p.Cosmology.H0)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("id: \"1\"\nnot_a_key: 1\n"), 0o644))
	_, err = lephare.LoadParams(bad)
	assert.Error(t, err, "unknown keys are rejected")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("id: \"1\"\nfilter_list: [a]\ntrans_type: 7\n"), 0o644))
	_, err = lephare.LoadParams(invalid)
	assert.ErrorContains(t, err, "transmission type")

	_, err = lephare.LoadParams(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
