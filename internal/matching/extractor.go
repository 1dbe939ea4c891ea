package matching

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/IbrahimToubeh/MediConnect-sub000/internal/directory"
)

var parentheticalRE = regexp.MustCompile(`\([^)]*\)`)
var nonAlphanumericRE = regexp.MustCompile(`[^a-z0-9 ]+`)

// extractSignals pulls insurance, location and specialization hints out of
// the latest user message. It only fills fields currently blank in the
// context: the first extraction wins and later messages never override it.
func extractSignals(message string, ctx *PatientContext, doctors []directory.Doctor) {
	if isBlank(message) {
		return
	}

	if isBlank(ctx.InsuranceProvider) {
		if provider := matchInsurance(message, doctors); provider != "" {
			ctx.InsuranceProvider = provider
		}
	}
	if isBlank(ctx.City) {
		if city := extractCity(message); city != "" {
			ctx.City = city
		}
	}
	if isBlank(ctx.State) {
		if state := matchKnownValue(message, distinctStates(doctors)); state != "" {
			ctx.State = state
		}
	}
	if isBlank(ctx.Country) {
		if country := matchKnownValue(message, distinctCountries(doctors)); country != "" {
			ctx.Country = country
		}
	}
	if isBlank(ctx.PreferredSpecialization) {
		if spec := detectSpecialization(message); spec != "" {
			ctx.PreferredSpecialization = spec
		}
	}
}

// normalizeInsurance strips parenthetical text and punctuation so that
// "Aetna (PPO)" and "aetna ppo." compare equal.
func normalizeInsurance(s string) string {
	s = parentheticalRE.ReplaceAllString(s, " ")
	s = strings.ToLower(s)
	s = nonAlphanumericRE.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// insuranceTokens returns the normalized tokens longer than two characters.
func insuranceTokens(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(normalized) {
		if len(tok) > 2 {
			set[tok] = struct{}{}
		}
	}
	return set
}

func tokenSubset(sub, super map[string]struct{}) bool {
	if len(sub) == 0 {
		return false
	}
	for tok := range sub {
		if _, ok := super[tok]; !ok {
			return false
		}
	}
	return true
}

// matchInsurance compares the message against every distinct insurance name
// in the directory. The first provider (in directory order) whose token set
// is contained in the message, or whose normalized form is a substring of
// the normalized message (or vice versa), wins.
func matchInsurance(message string, doctors []directory.Doctor) string {
	normMsg := normalizeInsurance(message)
	if normMsg == "" {
		return ""
	}
	msgTokens := insuranceTokens(normMsg)

	for _, provider := range distinctInsuranceProviders(doctors) {
		normProv := normalizeInsurance(provider)
		if normProv == "" {
			continue
		}
		if tokenSubset(insuranceTokens(normProv), msgTokens) ||
			strings.Contains(normMsg, normProv) ||
			strings.Contains(normProv, normMsg) {
			return provider
		}
	}
	return ""
}

// extractCity grabs the text after the first " in " marker, e.g.
// "I'm in Boston". The capture is cut at the first period, rejected when
// longer than maxExtractedCityLength, and title-cased on its first letter.
func extractCity(message string) string {
	lower := strings.ToLower(message)
	idx := strings.Index(lower, " in ")
	if idx < 0 {
		return ""
	}
	candidate := lower[idx+len(" in "):]
	if dot := strings.Index(candidate, "."); dot >= 0 {
		candidate = candidate[:dot]
	}
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || len(candidate) > maxExtractedCityLength {
		return ""
	}
	return capitalizeFirst(candidate)
}

func capitalizeFirst(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// matchKnownValue finds the first directory value mentioned anywhere in the
// message, case-insensitively, and returns the directory's canonical casing.
func matchKnownValue(message string, values []string) string {
	lower := strings.ToLower(message)
	for _, v := range values {
		if v == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(v)) {
			return v
		}
	}
	return ""
}

// distinctInsuranceProviders preserves first-seen directory order, which
// decides ties when several providers could match a message.
func distinctInsuranceProviders(doctors []directory.Doctor) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, d := range doctors {
		for _, p := range d.InsuranceAccepted {
			key := strings.ToLower(strings.TrimSpace(p))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func distinctStates(doctors []directory.Doctor) []string {
	return distinctField(doctors, func(d directory.Doctor) string { return d.State })
}

func distinctCountries(doctors []directory.Doctor) []string {
	return distinctField(doctors, func(d directory.Doctor) string { return d.Country })
}

func distinctField(doctors []directory.Doctor, get func(directory.Doctor) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, d := range doctors {
		v := strings.TrimSpace(get(d))
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
