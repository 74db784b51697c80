package curriculum

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// headerWords are table and section headers that are never subject names.
// Matching is by whole-string equality so that real subjects containing one
// of these words survive.
var headerWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"disciplina", "disciplinas",
		"carga", "carga horária", "carga horaria", "ch", "c.h.",
		"horas", "aulas", "provas",
		"qde de aulas", "qde de provas", "qtd de aulas", "qtd de provas",
		"avaliação", "avaliacao", "avaliações", "avaliacoes",
		"certificação", "certificacao",
		"módulo", "modulo", "módulos", "modulos",
		"semestre", "semestres", "período", "periodo", "períodos", "periodos",
		"estrutura", "estrutura curricular",
		"matriz curricular", "grade curricular", "organização curricular", "organizacao curricular",
		"plano de estudos", "componente curricular", "componentes curriculares",
		"conteúdo programático", "conteudo programatico",
		"ementa", "objetivos", "apresentação", "apresentacao", "total",
	} {
		headerWords[w] = struct{}{}
	}
}

// footerPrefixes are total/footer banners, matched by prefix.
var footerPrefixes = []string{
	"carga horária total",
	"carga horaria total",
	"carga total",
	"total de horas",
	"total do curso",
	"total geral",
}

var (
	reDigitsOnly = regexp.MustCompile(`^\d+$`)
	reDigitsHour = regexp.MustCompile(`(?i)^\d+\s*(?:h|hs|hr|hrs|hora|horas)\.?$`)
)

// IsNoise reports whether s is a structural artifact (header, banner, bare
// number) rather than a subject name.
func IsNoise(s string) bool {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)

	if _, ok := headerWords[lower]; ok {
		return true
	}
	for _, prefix := range footerPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	if utf8.RuneCountInString(s) < 3 {
		return true
	}
	if reDigitsOnly.MatchString(s) {
		return true
	}
	return reDigitsHour.MatchString(s)
}
