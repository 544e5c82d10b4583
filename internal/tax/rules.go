package tax

import (
	"sort"
	"strings"
)

// Rule describes the sales tax regime for one Canadian province or territory.
// Exactly one of three shapes applies: HST-only (HSTRate > 0), GST+PST with
// both rates on the same base, or GST+QST where the provincial rate compounds
// on the GST-inclusive amount (CompoundPST, Quebec only).
type Rule struct {
	Code        string
	Label       string
	HSTRate     float64
	GSTRate     float64
	PSTRate     float64
	CompoundPST bool
}

// CombinedRate returns the effective single rate applied to a taxable base,
// accounting for Quebec's QST compounding on the GST-inclusive amount.
func (r Rule) CombinedRate() float64 {
	if r.HSTRate > 0 {
		return r.HSTRate
	}
	if r.CompoundPST {
		return r.GSTRate + (1+r.GSTRate)*r.PSTRate
	}
	return r.GSTRate + r.PSTRate
}

// defaultRules is the built-in registry covering all 13 jurisdictions.
var defaultRules = map[string]Rule{
	"AB": {Code: "AB", Label: "Alberta", GSTRate: 0.05},
	"BC": {Code: "BC", Label: "British Columbia", GSTRate: 0.05, PSTRate: 0.07},
	"MB": {Code: "MB", Label: "Manitoba", GSTRate: 0.05, PSTRate: 0.07},
	"NB": {Code: "NB", Label: "New Brunswick", HSTRate: 0.15},
	"NL": {Code: "NL", Label: "Newfoundland and Labrador", HSTRate: 0.15},
	"NS": {Code: "NS", Label: "Nova Scotia", HSTRate: 0.14},
	"NT": {Code: "NT", Label: "Northwest Territories", GSTRate: 0.05},
	"NU": {Code: "NU", Label: "Nunavut", GSTRate: 0.05},
	"ON": {Code: "ON", Label: "Ontario", HSTRate: 0.13},
	"PE": {Code: "PE", Label: "Prince Edward Island", HSTRate: 0.15},
	"QC": {Code: "QC", Label: "Quebec", GSTRate: 0.05, PSTRate: 0.09975, CompoundPST: true},
	"SK": {Code: "SK", Label: "Saskatchewan", GSTRate: 0.05, PSTRate: 0.06},
	"YT": {Code: "YT", Label: "Yukon", GSTRate: 0.05},
}

// fallbackProvince is applied when a code is not in the registry. Unknown
// codes deliberately price as Ontario rather than failing; callers wanting
// strict behaviour should pre-check with LookupProvince.
const fallbackProvince = "ON"

// LookupProvince returns the rule for a province code from the default
// registry. The boolean reports whether the code was actually registered.
func LookupProvince(code string) (Rule, bool) {
	return lookup(nil, code)
}

// Provinces returns every registered province code in lexical order.
func Provinces() []Rule {
	codes := make([]string, 0, len(defaultRules))
	for code := range defaultRules {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	rules := make([]Rule, 0, len(codes))
	for _, code := range codes {
		rules = append(rules, defaultRules[code])
	}
	return rules
}

func lookup(override map[string]Rule, code string) (Rule, bool) {
	rules := defaultRules
	if override != nil {
		rules = override
	}
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if rule, ok := rules[normalized]; ok {
		return rule, true
	}
	if rule, ok := rules[fallbackProvince]; ok {
		return rule, false
	}
	return defaultRules[fallbackProvince], false
}
