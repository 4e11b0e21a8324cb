package lephare

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ZStep is the redshift grid of the fit: step size and range.
type ZStep struct {
	DZ  float64 `yaml:"dz"`
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Cosmology fixes the expansion history used for distances.
type Cosmology struct {
	H0  float64 `yaml:"h0"`
	Om0 float64 `yaml:"om0"`
	L0  float64 `yaml:"l0"`
}

// Params is the typed configuration of a fit run. Zero fields take
// conventional defaults, Validate enforces the bounds the fitting code
// expects before anything is written to disk.
type Params struct {
	ID string `yaml:"id"`

	// template libraries compiled by sedtolib
	StarSED string `yaml:"star_sed"`
	StarLib string `yaml:"star_lib"`
	QSOSED  string `yaml:"qso_sed"`
	QSOLib  string `yaml:"qso_lib"`
	GalSED  string `yaml:"gal_sed"`
	GalLib  string `yaml:"gal_lib"`

	// filter set compiled by the filter stage
	FilterList  []string `yaml:"filter_list"`
	TransType   int      `yaml:"trans_type"`
	FilterCalib int      `yaml:"filter_calib"`
	FilterFile  string   `yaml:"filter_file"`

	// theoretical magnitude grids
	StarLibIn  string    `yaml:"star_lib_in"`
	StarLibOut string    `yaml:"star_lib_out"`
	QSOLibIn   string    `yaml:"qso_lib_in"`
	QSOLibOut  string    `yaml:"qso_lib_out"`
	GalLibIn   string    `yaml:"gal_lib_in"`
	GalLibOut  string    `yaml:"gal_lib_out"`
	MagType    MagType   `yaml:"mag_type"`
	ZStep      ZStep     `yaml:"z_step"`
	Cosmology  Cosmology `yaml:"cosmology"`
	ModExtinc  [2]int    `yaml:"mod_extinc"`
	ExtincLaw  string    `yaml:"extinc_law"`
	EBV        []float64 `yaml:"eb_v"`
	EmLines    bool      `yaml:"em_lines"`

	// photometric redshift run
	CatIn     string     `yaml:"cat_in"`
	InpType   Unit       `yaml:"inp_type"`
	CatMag    MagType    `yaml:"cat_mag"`
	CatFmt    Format     `yaml:"cat_fmt"`
	CatType   RowType    `yaml:"cat_type"`
	CatOut    string     `yaml:"cat_out"`
	ParaOut   string     `yaml:"para_out"`
	ZPhotLib  []string   `yaml:"zphot_lib"`
	ErrScale  []float64  `yaml:"err_scale"`
	ErrFactor float64    `yaml:"err_factor"`
	ZRange    [2]float64 `yaml:"z_range"`
	EBVRange  [2]float64 `yaml:"ebv_range"`
	MagAbs    [2]float64 `yaml:"mag_abs"`
	MagRef    int        `yaml:"mag_ref"`
	SpecOut   bool       `yaml:"spec_out"`
	Chi2Out   bool       `yaml:"chi2_out"`
	PDZOut    string     `yaml:"pdz_out"`

	// OutputParams lists the quantities the fit reports, as registry
	// keys such as MASS_MED or MAG_ABS().
	OutputParams []string `yaml:"output_params"`
}

// DefaultParams returns the conventional configuration for a run named
// id: BC03 galaxy templates, AB magnitudes, a z grid of [0, 2] in 0.01
// steps and a flat 70/0.3/0.7 cosmology.
func DefaultParams(id string) *Params {
	p := &Params{ID: id}
	p.fillDefaults()
	return p
}

// LoadParams reads a YAML parameter file, fills unset fields with
// their defaults and validates the result. Unknown keys are rejected.
func LoadParams(path string) (*Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	p := &Params{}
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.fillDefaults()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (p *Params) fillDefaults() {
	def := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}
	def(&p.StarSED, "$LEPHAREDIR/sed/STAR/STAR_MOD.list")
	def(&p.StarLib, "LIB_STAR")
	def(&p.QSOSED, "$LEPHAREDIR/sed/QSO/QSO_MOD.list")
	def(&p.QSOLib, "LIB_QSO")
	def(&p.GalSED, "$LEPHAREDIR/sed/GAL/BC03_CHAB/BC03_MOD.list")
	def(&p.GalLib, "LIB_BC03")
	def(&p.FilterFile, "filters_"+p.ID)
	def(&p.StarLibIn, p.StarLib)
	def(&p.StarLibOut, "STAR_"+p.ID)
	def(&p.QSOLibIn, p.QSOLib)
	def(&p.QSOLibOut, "QSO_"+p.ID)
	def(&p.GalLibIn, p.GalLib)
	def(&p.GalLibOut, "GAL_"+p.ID)
	if p.MagType == "" {
		p.MagType = MagAB
	}
	if p.ZStep == (ZStep{}) {
		p.ZStep = ZStep{DZ: 0.01, Min: 0, Max: 2}
	}
	if p.Cosmology == (Cosmology{}) {
		p.Cosmology = Cosmology{H0: 70, Om0: 0.3, L0: 0.7}
	}
	if p.ModExtinc == ([2]int{}) {
		p.ModExtinc = [2]int{0, 27}
	}
	def(&p.ExtincLaw, "SMC_prevot.dat")
	if p.EBV == nil {
		p.EBV = []float64{0, 0.1, 0.2, 0.3}
	}
	if p.InpType == "" {
		p.InpType = UnitMag
	}
	if p.CatMag == "" {
		p.CatMag = MagAB
	}
	if p.CatFmt == "" {
		p.CatFmt = MEME
	}
	if p.CatType == "" {
		p.CatType = Long
	}
	if p.ZPhotLib == nil {
		p.ZPhotLib = []string{p.GalLibOut, p.StarLibOut, p.QSOLibOut}
	}
	if p.ErrFactor == 0 {
		p.ErrFactor = 1.5
	}
	if p.ZRange == ([2]float64{}) {
		p.ZRange = [2]float64{0, 99.99}
	}
	if p.EBVRange == ([2]float64{}) {
		p.EBVRange = [2]float64{0, 9}
	}
	if p.MagAbs == ([2]float64{}) {
		p.MagAbs = [2]float64{-10, -26}
	}
	if p.MagRef == 0 {
		p.MagRef = 1
	}
	def(&p.PDZOut, "NONE")
	if p.OutputParams == nil {
		p.OutputParams = []string{
			"IDENT", "Z_BEST", "CHI_BEST", "MOD_BEST",
			"MASS_BEST", "MASS_INF", "MASS_MED", "MASS_SUP",
			"SFR_BEST", "SFR_INF", "SFR_MED", "SFR_SUP",
		}
	}
}

// Validate checks every bounded field. It reports the first violation.
func (p *Params) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("empty run ID")
	}
	if len(p.FilterList) == 0 {
		return fmt.Errorf("empty filter list")
	}
	if p.TransType != 0 && p.TransType != 1 {
		return fmt.Errorf("transmission type %d not in {0, 1}", p.TransType)
	}
	if p.FilterCalib < 0 || p.FilterCalib > 4 {
		return fmt.Errorf("filter calibration %d not in 0..4", p.FilterCalib)
	}
	if p.ZStep.DZ <= 0 {
		return fmt.Errorf("redshift step %g must be positive", p.ZStep.DZ)
	}
	if p.ZStep.Min < 0 || p.ZStep.Max <= p.ZStep.Min {
		return fmt.Errorf("redshift range [%g, %g] is empty", p.ZStep.Min, p.ZStep.Max)
	}
	if p.Cosmology.H0 <= 0 {
		return fmt.Errorf("H0 %g must be positive", p.Cosmology.H0)
	}
	if p.Cosmology.Om0 < 0 || p.Cosmology.Om0 > 1 {
		return fmt.Errorf("Omega_m %g not in [0, 1]", p.Cosmology.Om0)
	}
	if p.Cosmology.L0 < 0 || p.Cosmology.L0 > 1 {
		return fmt.Errorf("Omega_lambda %g not in [0, 1]", p.Cosmology.L0)
	}
	if p.ModExtinc[0] < 0 || p.ModExtinc[1] < p.ModExtinc[0] {
		return fmt.Errorf("extinction model range [%d, %d] is empty", p.ModExtinc[0], p.ModExtinc[1])
	}
	for i, v := range p.EBV {
		if v < 0 || v >= 1 {
			return fmt.Errorf("E(B-V) %g not in [0, 1)", v)
		}
		if i > 0 && v <= p.EBV[i-1] {
			return fmt.Errorf("E(B-V) values must increase, got %g after %g", v, p.EBV[i-1])
		}
	}
	switch p.MagType {
	case MagAB, MagVega:
	default:
		return fmt.Errorf("unknown magnitude type %q", string(p.MagType))
	}
	switch p.InpType {
	case UnitMag, UnitFlux:
	default:
		return fmt.Errorf("unknown catalogue unit %q", string(p.InpType))
	}
	switch p.CatMag {
	case MagAB, MagVega:
	default:
		return fmt.Errorf("unknown catalogue magnitude type %q", string(p.CatMag))
	}
	switch p.CatFmt {
	case MEME, MMEE:
	default:
		return fmt.Errorf("unknown catalogue format %q", string(p.CatFmt))
	}
	switch p.CatType {
	case Long, Short:
	default:
		return fmt.Errorf("unknown row type %q", string(p.CatType))
	}
	if len(p.ZPhotLib) == 0 {
		return fmt.Errorf("empty fit library list")
	}
	if len(p.ErrScale) > 1 && len(p.ErrScale) != len(p.FilterList) {
		return fmt.Errorf("%d error scales for %d filters", len(p.ErrScale), len(p.FilterList))
	}
	if p.ErrFactor <= 0 {
		return fmt.Errorf("error factor %g must be positive", p.ErrFactor)
	}
	for _, name := range p.OutputParams {
		if _, ok := Lookup(name); !ok {
			return fmt.Errorf("unknown output parameter %q", name)
		}
	}
	return nil
}

// WriteParams renders the configuration file every fitting stage reads.
func (p *Params) WriteParams(w io.Writer) error {
	bw := bufio.NewWriter(w)
	kv := func(key, val string) {
		fmt.Fprintf(bw, "%-14s %s\n", key, val)
	}

	fmt.Fprintln(bw, "# SED template libraries")
	kv("STAR_SED", p.StarSED)
	kv("STAR_LIB", p.StarLib)
	kv("QSO_SED", p.QSOSED)
	kv("QSO_LIB", p.QSOLib)
	kv("GAL_SED", p.GalSED)
	kv("GAL_LIB", p.GalLib)

	fmt.Fprintln(bw, "# Filters")
	kv("FILTER_LIST", strings.Join(p.FilterList, ","))
	kv("TRANS_TYPE", strconv.Itoa(p.TransType))
	kv("FILTER_CALIB", strconv.Itoa(p.FilterCalib))
	kv("FILTER_FILE", p.FilterFile)

	fmt.Fprintln(bw, "# Theoretical magnitudes")
	kv("STAR_LIB_IN", p.StarLibIn)
	kv("STAR_LIB_OUT", p.StarLibOut)
	kv("QSO_LIB_IN", p.QSOLibIn)
	kv("QSO_LIB_OUT", p.QSOLibOut)
	kv("GAL_LIB_IN", p.GalLibIn)
	kv("GAL_LIB_OUT", p.GalLibOut)
	kv("MAGTYPE", string(p.MagType))
	kv("Z_STEP", joinFloats(p.ZStep.DZ, p.ZStep.Min, p.ZStep.Max))
	kv("COSMOLOGY", joinFloats(p.Cosmology.H0, p.Cosmology.Om0, p.Cosmology.L0))
	kv("MOD_EXTINC", fmt.Sprintf("%d,%d", p.ModExtinc[0], p.ModExtinc[1]))
	kv("EXTINC_LAW", p.ExtincLaw)
	kv("EB_V", joinFloats(p.EBV...))
	kv("EM_LINES", yesNo(p.EmLines))

	fmt.Fprintln(bw, "# Photometric redshifts")
	kv("CAT_IN", p.CatIn)
	kv("INP_TYPE", string(p.InpType))
	kv("CAT_MAG", string(p.CatMag))
	kv("CAT_FMT", string(p.CatFmt))
	kv("CAT_TYPE", string(p.CatType))
	kv("CAT_OUT", p.CatOut)
	kv("PARA_OUT", p.ParaOut)
	kv("ZPHOTLIB", strings.Join(p.ZPhotLib, ","))
	if len(p.ErrScale) > 0 {
		kv("ERR_SCALE", joinFloats(p.ErrScale...))
	}
	kv("ERR_FACTOR", formatFloat(p.ErrFactor))
	kv("Z_RANGE", joinFloats(p.ZRange[0], p.ZRange[1]))
	kv("EBV_RANGE", joinFloats(p.EBVRange[0], p.EBVRange[1]))
	kv("MAG_ABS", joinFloats(p.MagAbs[0], p.MagAbs[1]))
	kv("MAG_REF", strconv.Itoa(p.MagRef))
	kv("SPEC_OUT", yesNo(p.SpecOut))
	kv("CHI2_OUT", yesNo(p.Chi2Out))
	kv("PDZ_OUT", p.PDZOut)
	return bw.Flush()
}

// WriteOutputParams renders the output-parameter file naming the
// columns the fit reports. IDENT always leads so rows can be tied back
// to catalogue pixels.
func (p *Params) WriteOutputParams(w io.Writer) error {
	bw := bufio.NewWriter(w)
	seen := map[string]bool{}
	write := func(name string) error {
		q, ok := Lookup(name)
		if !ok {
			return fmt.Errorf("unknown output parameter %q", name)
		}
		if !seen[q.Key] {
			seen[q.Key] = true
			fmt.Fprintln(bw, q.ParaName())
		}
		return nil
	}
	if err := write("IDENT"); err != nil {
		return err
	}
	for _, name := range p.OutputParams {
		if err := write(name); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func joinFloats(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, ",")
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
