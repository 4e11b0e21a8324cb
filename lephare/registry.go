package lephare

import (
	"fmt"
	"strings"
)

// Quantity describes one output parameter the fitting code can emit:
// the raw key used in configuration and output headers, the label the
// parsed column carries, its unit, whether values are stored as log10
// and whether they inherit the table's per-pixel flux normalisation.
type Quantity struct {
	Key    string
	Label  string
	Unit   string
	Log    bool
	Scaled bool
}

// ParaName returns the key as it appears in an output-parameter file.
// Per-filter vector parameters are keyed with a () suffix there.
func (q Quantity) ParaName() string {
	if strings.HasSuffix(q.Key, "_2") {
		return strings.TrimSuffix(q.Key, "_2") + "()"
	}
	return q.Key
}

var quantities = []Quantity{
	{"IDENT", "ID", "", false, false},
	{"Z_BEST", "z_best", "", false, false},
	{"Z_BEST68_LOW", "z_best_l68", "", false, false},
	{"Z_BEST68_HIGH", "z_best_u68", "", false, false},
	{"Z_BEST90_LOW", "z_best_l90", "", false, false},
	{"Z_BEST90_HIGH", "z_best_u90", "", false, false},
	{"Z_BEST99_LOW", "z_best_l99", "", false, false},
	{"Z_BEST99_HIGH", "z_best_u99", "", false, false},
	{"Z_ML", "z_ML", "", false, false},
	{"Z_ML68_LOW", "z_ML_l68", "", false, false},
	{"Z_ML68_HIGH", "z_ML_u68", "", false, false},
	{"CHI_BEST", "chi2", "", false, false},
	{"MOD_BEST", "Mod_best", "", false, false},
	{"EXTLAW_BEST", "Ext_law_best", "", false, false},
	{"EBV_BEST", "E(B-V)_best", "", false, false},
	{"ZF_BEST", "ZF_BEST", "", false, false},
	{"MAG_ABS_BEST", "mag_abs_best", "dex", false, false},
	{"PDZ_BEST", "pdz_best", "", false, false},
	{"SCALE_BEST", "scale_best", "", false, false},
	{"DIST_MOD_BEST", "dist_mod_best", "", false, false},
	{"NBAND_USED", "nband", "", false, false},
	{"NBAND_ULIM", "nband_ulim", "", false, false},
	{"Z_SEC", "z_second", "", false, false},
	{"CHI_SEC", "chi2_second", "", false, false},
	{"MOD_SEC", "Mod_second", "", false, false},
	{"AGE_SEC", "age_second", "yr", false, false},
	{"EBV_SEC", "E(B-V)_second", "", false, false},
	{"ZF_SEC", "ZF_SEC", "", false, false},
	{"MAG_ABS_SEC", "mag_abs_second", "dex", false, false},
	{"PDZ_SEC", "pdz_second", "", false, false},
	{"SCALE_SEC", "scale_second", "", false, false},
	{"Z_QSO", "z_qso", "", false, false},
	{"CHI_QSO", "chi2_qso", "", false, false},
	{"MOD_QSO", "Mod_qso", "", false, false},
	{"MAG_ABS_QSO", "mag_abs_qso", "dex", false, false},
	{"DIST_MOD_QSO", "dist_mod_qso", "", false, false},
	{"MOD_STAR", "Mod_star", "", false, false},
	{"CHI_STAR", "chi2_star", "", false, false},
	{"MAG_OBS_2", "mag_obs()", "dex", false, false},
	{"ERR_MAG_OBS_2", "mag_obs_err()", "dex", false, false},
	{"MAG_MOD_2", "mag_mod()", "dex", false, false},
	{"K_COR_2", "K_correction()", "dex", false, false},
	{"MAG_ABS_2", "mag_abs()", "dex", false, false},
	{"MABS_FILT_2", "MABS_FILT()", "dex", false, false},
	{"K_COR_QSO_2", "K_correction_qso()", "dex", false, false},
	{"MAG_ABS_QSO_2", "mag_abs_qso()", "dex", false, false},
	{"PDZ_2", "pdz()", "", false, false},
	{"CONTEXT", "context", "", false, false},
	{"ZSPEC", "zspec", "", false, false},
	{"STRING_INPUT", "string_input", "", false, false},
	{"LUM_TIR_BEST", "luminosity_tir_best", "erg/s", false, true},
	{"LIB_FIR", "library_fir", "", false, false},
	{"MOD_FIR", "mod_fir", "", false, false},
	{"CHI2_FIR", "chi2_fir", "", false, false},
	{"FSCALE_FIR", "fscale_fir", "", false, false},
	{"NBAND_FIR", "nband_fir", "", false, false},
	{"LUM_TIR_MED", "luminosity_tir_med", "erg/s", false, true},
	{"LUM_TIR_INF", "luminosity_tir_inf", "erg/s", false, true},
	{"LUM_TIR_SUP", "luminosity_tir_sup", "erg/s", false, true},
	{"MAG_MOD_FIR_2", "mag_mod_fir", "dex", false, false},
	{"MAG_ABS_FIR_2", "mag_abs_fir", "dex", false, false},
	{"K_COR_FIR_2", "K_correction_fir", "dex", false, false},
	{"AGE_BEST", "age_best", "yr", false, false},
	{"AGE_INF", "age_inf", "yr", false, false},
	{"AGE_MED", "age_median", "yr", false, false},
	{"AGE_SUP", "age_sup", "yr", false, false},
	{"LDUST_BEST", "luminosity_dust_best", "erg/s", false, true},
	{"LDUST_INF", "luminosity_dust_inf", "erg/s", false, true},
	{"LDUST_MED", "luminosity_dust_med", "erg/s", false, true},
	{"LDUST_SUP", "luminosity_dust_sup", "erg/s", false, true},
	{"MASS_BEST", "mass_best", "Msun", true, true},
	{"MASS_INF", "mass_inf", "Msun", true, true},
	{"MASS_MED", "mass_med", "Msun", true, true},
	{"MASS_SUP", "mass_sup", "Msun", true, true},
	{"SFR_BEST", "sfr_best", "Msun/yr", true, true},
	{"SFR_INF", "sfr_inf", "Msun/yr", true, true},
	{"SFR_MED", "sfr_med", "Msun/yr", true, true},
	{"SFR_SUP", "sfr_sup", "Msun/yr", true, true},
	{"SSFR_BEST", "ssfr_best", "1/yr", true, false},
	{"SSFR_INF", "ssfr_inf", "1/yr", true, false},
	{"SSFR_MED", "ssfr_med", "1/yr", true, false},
	{"SSFR_SUP", "ssfr_sup", "1/yr", true, false},
	{"LUM_NUV_BEST", "luminosity_nuv_best", "erg/s", false, true},
	{"LUM_R_BEST", "luminosity_R_best", "erg/s", false, true},
	{"LUM_K_BEST", "luminosity_K_best", "erg/s", false, true},
	{"PHYS_CHI2_BEST", "phys_chi2_best", "", false, false},
	{"PHYS_MOD_BEST", "phys_mod_best", "", false, false},
	{"PHYS_MAG_MOD_2", "phys_mag_mod", "dex", false, false},
	{"PHYS_MAG_ABS_2", "phys_mag_abs", "dex", false, false},
	{"PHYS_K_COR_2", "phys_K_correction", "dex", false, false},
}

var (
	byKey   map[string]Quantity
	byLabel map[string]Quantity
)

func init() {
	for _, kind := range []string{"BEST", "MED", "INF", "SUP"} {
		for n := 1; n <= 27; n++ {
			quantities = append(quantities, Quantity{
				Key:   fmt.Sprintf("PHYS_PARA%d_%s", n, kind),
				Label: fmt.Sprintf("phys_para%d_%s", n, strings.ToLower(kind)),
			})
		}
	}
	byKey = make(map[string]Quantity, len(quantities))
	byLabel = make(map[string]Quantity, len(quantities))
	for _, q := range quantities {
		byKey[q.Key] = q
		byLabel[q.Label] = q
	}
}

// Lookup resolves a raw output-format key such as "MASS_MED" or
// "MAG_ABS()". Keys carrying the () suffix resolve to their vector
// entry.
func Lookup(key string) (Quantity, bool) {
	if strings.HasSuffix(key, "()") {
		key = strings.TrimSuffix(key, "()") + "_2"
	}
	q, ok := byKey[key]
	return q, ok
}

// LookupLabel resolves a parsed column label such as "mass_med".
func LookupLabel(label string) (Quantity, bool) {
	q, ok := byLabel[label]
	return q, ok
}

// Quantities lists every known output parameter in declaration order.
func Quantities() []Quantity {
	out := make([]Quantity, len(quantities))
	copy(out, quantities)
	return out
}
