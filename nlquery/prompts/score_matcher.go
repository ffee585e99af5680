package prompts

import "strings"

// scoreTerms maps question phrasing to the module score column it refers to.
// Longer phrases are listed before their substrings so "critical reading"
// wins over "reading".
var scoreTerms = []struct {
	term   string
	column string
}{
	{"quantitative reasoning", "mod_razona_cuantitat_punt"},
	{"quantitative", "mod_razona_cuantitat_punt"},
	{"math", "mod_razona_cuantitat_punt"},
	{"critical reading", "mod_lectura_critica_punt"},
	{"reading", "mod_lectura_critica_punt"},
	{"english", "mod_ingles_punt"},
	{"citizenship", "mod_competen_ciudada_punt"},
	{"civic", "mod_competen_ciudada_punt"},
}

// MatchScore finds the module score column a question refers to.
func MatchScore(question string) (string, bool) {
	q := strings.ToLower(question)
	for _, st := range scoreTerms {
		if strings.Contains(q, st.term) {
			return st.column, true
		}
	}
	return "", false
}
