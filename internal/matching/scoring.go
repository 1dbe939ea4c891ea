package matching

import (
	"sort"
	"strings"

	"github.com/IbrahimToubeh/MediConnect-sub000/internal/directory"
)

// ScoringWeights are the additive terms of the per-doctor match score.
type ScoringWeights struct {
	Base                float64
	CityMatch           float64
	StateMatch          float64
	CountryMatch        float64
	InsuranceMatch      float64
	SpecializationMatch float64
	// UnspecifiedCity rewards any doctor with a listed city when the patient
	// gave no location at all. Off by default.
	UnspecifiedCity float64
}

// DefaultWeights returns the production scoring weights.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		Base:                1.0,
		CityMatch:           3.5,
		StateMatch:          1.5,
		CountryMatch:        1.0,
		InsuranceMatch:      3.0,
		SpecializationMatch: 4.0,
		UnspecifiedCity:     0,
	}
}

// scoredDoctor keeps the per-dimension terms alongside the total so the
// progressive narrowing pass and the guidance pass can reuse them.
type scoredDoctor struct {
	doctor         directory.Doctor
	location       float64
	insurance      float64
	specialization float64
	total          float64
}

// dimensionMaxima records the best score achieved per dimension across the
// capped catalogue. A zero maximum on a dimension the patient specified
// means nothing in the catalogue satisfies that preference.
type dimensionMaxima struct {
	specialization float64
	insurance      float64
	location       float64
}

// catalogue bundles the two ordered views of the directory for one turn:
// the broad capped list shared with the model, and the narrowed list the
// guidance pass reasons about.
type catalogue struct {
	prompt       []DoctorSuggestion
	broad        []scoredDoctor
	narrowed     []scoredDoctor
	maxima       dimensionMaxima
	resolvedSpec string
}

// buildCatalogue filters, scores, ranks and caps the directory snapshot for
// one chat turn. The input slice is never mutated.
func buildCatalogue(doctors []directory.Doctor, ctx PatientContext, intent Intent, w ScoringWeights) catalogue {
	var eligible []directory.Doctor
	for _, d := range doctors {
		if d.Eligible() {
			eligible = append(eligible, d)
		}
	}

	resolvedSpec := strings.TrimSpace(ctx.PreferredSpecialization)
	if resolvedSpec == "" {
		resolvedSpec = inferSpecialization(ctx, eligible)
	}

	scored := make([]scoredDoctor, 0, len(eligible))
	for _, d := range eligible {
		scored = append(scored, scoreDoctor(d, ctx, resolvedSpec, w))
	}
	// Stable sort: ties keep their original directory position.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].total > scored[j].total
	})
	if len(scored) > MaxDoctorsSharedWithModel {
		scored = scored[:MaxDoctorsSharedWithModel]
	}

	cat := catalogue{
		broad:        scored,
		maxima:       maximaOf(scored),
		resolvedSpec: resolvedSpec,
	}
	cat.narrowed = cat.broad
	if intent == IntentFindDoctor {
		cat.narrowed = progressiveNarrow(cat.broad, ctx, cat.maxima)
		cat.prompt = suggestionsOf(cat.broad)
	} else {
		// The assistant is steered toward navigation guidance on these
		// turns; matching never runs against an empty prompt catalogue.
		cat.prompt = []DoctorSuggestion{}
	}
	return cat
}

func scoreDoctor(d directory.Doctor, ctx PatientContext, resolvedSpec string, w ScoringWeights) scoredDoctor {
	sd := scoredDoctor{doctor: d}

	if !isBlank(ctx.City) {
		if strings.EqualFold(strings.TrimSpace(ctx.City), strings.TrimSpace(d.City)) {
			sd.location += w.CityMatch
		}
	} else if w.UnspecifiedCity > 0 && !isBlank(d.City) {
		sd.location += w.UnspecifiedCity
	}
	if !isBlank(ctx.State) && strings.EqualFold(strings.TrimSpace(ctx.State), strings.TrimSpace(d.State)) {
		sd.location += w.StateMatch
	}
	if !isBlank(ctx.Country) && strings.EqualFold(strings.TrimSpace(ctx.Country), strings.TrimSpace(d.Country)) {
		sd.location += w.CountryMatch
	}

	if !isBlank(ctx.InsuranceProvider) {
		ctxTokens := insuranceTokens(normalizeInsurance(ctx.InsuranceProvider))
		for _, accepted := range d.InsuranceAccepted {
			if tokenSubset(ctxTokens, insuranceTokens(normalizeInsurance(accepted))) {
				sd.insurance = w.InsuranceMatch
				break
			}
		}
	}

	if resolvedSpec != "" {
		for _, spec := range d.Specializations {
			if strings.EqualFold(spec, resolvedSpec) {
				sd.specialization = w.SpecializationMatch
				break
			}
		}
	}

	sd.total = w.Base + sd.location + sd.insurance + sd.specialization
	return sd
}

// inferSpecialization guesses a specialization when the patient never named
// one: symptom keywords over the concatenated context text first, then the
// single most frequent specialization among eligible doctors.
func inferSpecialization(ctx PatientContext, eligible []directory.Doctor) string {
	text := strings.Join([]string{
		ctx.PrimaryConcern,
		ctx.AdditionalSymptoms,
		ctx.InsuranceProvider,
		ctx.AppointmentPreference,
	}, " ")
	if spec := inferSpecializationFromText(text); spec != "" {
		return spec
	}

	counts := make(map[string]int)
	var order []string
	for _, d := range eligible {
		for _, spec := range d.Specializations {
			key := strings.ToUpper(strings.TrimSpace(spec))
			if key == "" {
				continue
			}
			if _, seen := counts[key]; !seen {
				order = append(order, key)
			}
			counts[key]++
		}
	}
	best := ""
	bestCount := 0
	for _, spec := range order {
		if counts[spec] > bestCount {
			best = spec
			bestCount = counts[spec]
		}
	}
	return best
}

func maximaOf(scored []scoredDoctor) dimensionMaxima {
	var m dimensionMaxima
	for _, sd := range scored {
		if sd.specialization > m.specialization {
			m.specialization = sd.specialization
		}
		if sd.insurance > m.insurance {
			m.insurance = sd.insurance
		}
		if sd.location > m.location {
			m.location = sd.location
		}
	}
	return m
}

// progressiveNarrow keeps only the candidates achieving the catalogue-wide
// maximum on each dimension the patient actually specified, applying the
// specialization, insurance and location filters in that order. A filter
// that would empty the set is skipped; an empty overall result falls back
// to the full sorted list.
func progressiveNarrow(capped []scoredDoctor, ctx PatientContext, maxima dimensionMaxima) []scoredDoctor {
	result := capped

	narrow := func(specified bool, best float64, term func(scoredDoctor) float64) {
		if !specified || best <= 0 {
			return
		}
		var kept []scoredDoctor
		for _, sd := range result {
			if term(sd) == best {
				kept = append(kept, sd)
			}
		}
		if len(kept) > 0 {
			result = kept
		}
	}

	narrow(!isBlank(ctx.PreferredSpecialization), maxima.specialization,
		func(sd scoredDoctor) float64 { return sd.specialization })
	narrow(!isBlank(ctx.InsuranceProvider), maxima.insurance,
		func(sd scoredDoctor) float64 { return sd.insurance })
	locationSpecified := !isBlank(ctx.City) || !isBlank(ctx.State) || !isBlank(ctx.Country)
	narrow(locationSpecified, maxima.location,
		func(sd scoredDoctor) float64 { return sd.location })

	if len(result) == 0 {
		result = capped
	}
	if len(result) > MaxDoctorsSharedWithModel {
		result = result[:MaxDoctorsSharedWithModel]
	}
	return result
}

func suggestionsOf(scored []scoredDoctor) []DoctorSuggestion {
	out := make([]DoctorSuggestion, 0, len(scored))
	for _, sd := range scored {
		out = append(out, suggestionFromDoctor(sd.doctor, sd.total))
	}
	return out
}
