package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName folds case and strips diacritics so that "José" and "jose"
// compare equal. Inner whitespace is collapsed.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(name))
	if err != nil {
		out = strings.ToLower(name)
	}
	return strings.Join(strings.Fields(out), " ")
}

// DedupKey is the import identity of a record within a week.
func DedupKey(week, partTitle, publisherName string) string {
	return week + "|" + NormalizeName(partTitle) + "|" + NormalizeName(publisherName)
}

// AllowsNamelessPublisher reports whether a part may be stored without an assignee.
func AllowsNamelessPublisher(partTitle string) bool {
	return strings.Contains(NormalizeName(partTitle), "cantico")
}

// TypeForPartNumber maps a printed part ordinal to its section:
// 1-3 Treasures, 4-6 Ministry, 7 and up Christian Life.
func TypeForPartNumber(n int) ParticipationType {
	switch {
	case n <= 3:
		return Treasures
	case n <= 6:
		return Ministry
	default:
		return ChristianLife
	}
}

var (
	ministryKeywords  = []string{"iniciando conversas", "cultivando o interesse", "fazendo discipulos", "explicando suas crencas", "discurso"}
	treasuresKeywords = []string{"tesouros", "pacto", "salvador", "agradecam", "rei jesus", "retribuir", "caminho", "perseverar", "sofrimento"}
	lifeKeywords      = []string{"amor", "dinheiro", "promessas", "necessidades locais", "organizacao", "sofrer"}
)

// InferType guesses a record's type from its title. Unknown titles are Christian Life.
func InferType(partTitle string) ParticipationType {
	title := NormalizeName(partTitle)

	switch {
	case strings.Contains(title, "presidente"):
		return President
	case strings.Contains(title, "oracao inicial"):
		return OpeningPrayer
	case strings.Contains(title, "oracao final"):
		return ClosingPrayer
	case strings.Contains(title, "cantico"):
		return Song
	case strings.Contains(title, "comentarios finais"):
		return FinalComments
	case strings.Contains(title, "ajudante"):
		return Helper
	case strings.Contains(title, "leitor"):
		return BibleStudyReader
	case strings.Contains(title, "leitura da biblia"), strings.Contains(title, "joias espirituais"):
		return Treasures
	case containsAny(title, ministryKeywords):
		return Ministry
	case strings.Contains(title, "estudo biblico de congregacao"):
		return BibleStudyConductor
	case containsAny(title, treasuresKeywords):
		return Treasures
	case containsAny(title, lifeKeywords):
		return ChristianLife
	}
	return ChristianLife
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
