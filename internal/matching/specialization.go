package matching

import (
	"sort"
	"strings"

	"github.com/IbrahimToubeh/MediConnect-sub000/internal/directory"
)

// specializationSynonyms maps lay phrasings to canonical specialization
// codes. Checked by substring first, then token-level fuzzy match.
var specializationSynonyms = map[string]string{
	"heart doctor":         directory.SpecCardiology,
	"cardiologist":         directory.SpecCardiology,
	"cardiology":           directory.SpecCardiology,
	"skin doctor":          directory.SpecDermatology,
	"dermatologist":        directory.SpecDermatology,
	"dermatology":          directory.SpecDermatology,
	"brain doctor":         directory.SpecNeurology,
	"neurologist":          directory.SpecNeurology,
	"neurology":            directory.SpecNeurology,
	"pediatrician":         directory.SpecPediatrics,
	"child doctor":         directory.SpecPediatrics,
	"kids doctor":          directory.SpecPediatrics,
	"bone doctor":          directory.SpecOrthopedics,
	"orthopedic":           directory.SpecOrthopedics,
	"orthopedist":          directory.SpecOrthopedics,
	"psychiatrist":         directory.SpecPsychiatry,
	"therapist":            directory.SpecPsychiatry,
	"mental health doctor": directory.SpecPsychiatry,
	"gynecologist":         directory.SpecGynecology,
	"womens doctor":        directory.SpecGynecology,
	"oncologist":           directory.SpecOncology,
	"cancer doctor":        directory.SpecOncology,
	"eye doctor":           directory.SpecOphthalmology,
	"ophthalmologist":      directory.SpecOphthalmology,
	"dentist":              directory.SpecDentistry,
	"tooth doctor":         directory.SpecDentistry,
	"stomach doctor":       directory.SpecGastro,
	"gastroenterologist":   directory.SpecGastro,
	"lung doctor":          directory.SpecPulmonology,
	"pulmonologist":        directory.SpecPulmonology,
	"urologist":            directory.SpecUrology,
	"endocrinologist":      directory.SpecEndocrinology,
	"diabetes doctor":      directory.SpecEndocrinology,
	"general practitioner": directory.SpecGeneralMedicine,
	"family doctor":        directory.SpecGeneralMedicine,
	"primary care":         directory.SpecGeneralMedicine,
}

// symptomKeywords maps complaint keywords to the specialization most likely
// to handle them. Used to infer a specialization when the patient never
// named one.
var symptomKeywords = []struct {
	keyword string
	spec    string
}{
	{"chest pain", directory.SpecCardiology},
	{"palpitation", directory.SpecCardiology},
	{"heart", directory.SpecCardiology},
	{"blood pressure", directory.SpecCardiology},
	{"rash", directory.SpecDermatology},
	{"acne", directory.SpecDermatology},
	{"eczema", directory.SpecDermatology},
	{"skin", directory.SpecDermatology},
	{"migraine", directory.SpecNeurology},
	{"headache", directory.SpecNeurology},
	{"seizure", directory.SpecNeurology},
	{"numbness", directory.SpecNeurology},
	{"child", directory.SpecPediatrics},
	{"baby", directory.SpecPediatrics},
	{"infant", directory.SpecPediatrics},
	{"joint", directory.SpecOrthopedics},
	{"fracture", directory.SpecOrthopedics},
	{"back pain", directory.SpecOrthopedics},
	{"knee", directory.SpecOrthopedics},
	{"anxiety", directory.SpecPsychiatry},
	{"depression", directory.SpecPsychiatry},
	{"insomnia", directory.SpecPsychiatry},
	{"pregnan", directory.SpecGynecology},
	{"period", directory.SpecGynecology},
	{"menstrual", directory.SpecGynecology},
	{"tumor", directory.SpecOncology},
	{"cancer", directory.SpecOncology},
	{"vision", directory.SpecOphthalmology},
	{"blurry", directory.SpecOphthalmology},
	{"eye", directory.SpecOphthalmology},
	{"tooth", directory.SpecDentistry},
	{"teeth", directory.SpecDentistry},
	{"gum", directory.SpecDentistry},
	{"stomach", directory.SpecGastro},
	{"nausea", directory.SpecGastro},
	{"diarrhea", directory.SpecGastro},
	{"cough", directory.SpecPulmonology},
	{"asthma", directory.SpecPulmonology},
	{"breathing", directory.SpecPulmonology},
	{"urinary", directory.SpecUrology},
	{"kidney", directory.SpecUrology},
	{"thyroid", directory.SpecEndocrinology},
	{"diabetes", directory.SpecEndocrinology},
}

const (
	fuzzyMinTokenLength = 4
	fuzzyMaxDistance    = 2
)

// detectSpecialization resolves a canonical specialization code from free
// text. Direct synonym substrings win; otherwise each token of the message
// is fuzzy-matched against the synonym keys to absorb typos like
// "dermatalogist".
func detectSpecialization(message string) string {
	lower := strings.ToLower(message)

	// Substring pass, longest synonyms first so "heart doctor" beats "heart".
	for _, synonym := range synonymKeysByLength() {
		if strings.Contains(lower, synonym) {
			return specializationSynonyms[synonym]
		}
	}

	// Fuzzy pass over individual tokens.
	for _, token := range strings.Fields(lower) {
		token = strings.Trim(token, ".,!?;:")
		if len(token) < fuzzyMinTokenLength {
			continue
		}
		for _, synonym := range synonymKeysByLength() {
			if levenshtein(token, synonym) <= fuzzyMaxDistance {
				return specializationSynonyms[synonym]
			}
		}
	}
	return ""
}

// inferSpecializationFromText runs the symptom keyword table against
// concatenated context text.
func inferSpecializationFromText(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range symptomKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.spec
		}
	}
	return ""
}

// synonymKeys holds the synonym table keys sorted longest-first so multiword
// phrases match before their shorter substrings.
var synonymKeys = func() []string {
	keys := make([]string, 0, len(specializationSynonyms))
	for k := range specializationSynonyms {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

func synonymKeysByLength() []string {
	return synonymKeys
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
