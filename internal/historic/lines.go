package historic

import (
	"regexp"
	"strings"

	"github.com/rcliao/meeting-planner/internal/layout"
)

var (
	timeMarkerRe     = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)
	partHeadingRe    = regexp.MustCompile(`^\d+\.`)
	studentHeaderRe  = regexp.MustCompile(`(?i)^ESTUDANTES?`)
	helperHeaderRe   = regexp.MustCompile(`(?i)^AJUDANTES?`)
	locationHeaderRe = regexp.MustCompile(`(?i)(SAL[ÃA]O|SALA|AUDIT[ÓO]RIO)`)
	columnLabelRe    = regexp.MustCompile(`(?i)^(Estudantes?|Ajudantes?)[:\s-]*`)
	minParenRe       = regexp.MustCompile(`(?i)min\)`)
	digitsOnlyRe     = regexp.MustCompile(`^\d+$`)
	letterRe         = regexp.MustCompile(`\p{L}`)
)

var stopWords = map[string]bool{
	"ACONSELHAMENTO":       true,
	"COMENTÁRIOS INICIAIS": true,
	"COMENTARIOS INICIAIS": true,
	"COMENTÁRIOS FINAIS":   true,
	"COMENTARIOS FINAIS":   true,
}

var boundaryPrefixes = []string{
	"CÂNTICO", "CANTICO", "COMENT", "ORAÇÃO", "ORACAO",
	"PRESIDENTE", "DIRIGENTE", "LEITOR", "S-",
}

// Stop headers for the name-collection helpers.
var (
	studentStops  = []string{"AJUDANTE", "AJUDANTES", "DIRIGENTE", "LEITOR"}
	helperStops   = []string{"ESTUDANTE", "ESTUDANTES", "DIRIGENTE", "LEITOR"}
	locationStops = []string{"ESTUDANTE", "ESTUDANTES", "AJUDANTE", "AJUDANTES"}
	conductorStop = []string{"LEITOR", "ORAÇÃO", "ORACAO", "CÂNTICO", "CANTICO"}
	readerStops   = []string{"DIRIGENTE", "ORAÇÃO", "ORACAO", "CÂNTICO", "CANTICO"}
)

func isPartHeading(text string) bool {
	return partHeadingRe.MatchString(strings.TrimSpace(text))
}

// isSectionBoundary reports whether a line starts the next structural element.
// Every name-collection loop stops here.
func isSectionBoundary(text string) bool {
	upper := strings.ToUpper(strings.TrimSpace(text))
	if timeMarkerRe.MatchString(text) || layout.IsWeekHeading(text) || isPartHeading(text) || stopWords[upper] {
		return true
	}
	for _, p := range boundaryPrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

func isStudentHeader(text string) bool  { return studentHeaderRe.MatchString(text) }
func isHelperHeader(text string) bool   { return helperHeaderRe.MatchString(text) }
func isLocationHeader(text string) bool { return locationHeaderRe.MatchString(text) }

func stripColumnLabel(text string) string {
	return strings.TrimSpace(columnLabelRe.ReplaceAllString(text, ""))
}

func normalizeCandidate(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// isStandaloneName reports whether a whole line is just a person's name.
func isStandaloneName(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if isSectionBoundary(trimmed) || isStudentHeader(trimmed) || isHelperHeader(trimmed) || isLocationHeader(trimmed) {
		return false
	}
	if minParenRe.MatchString(trimmed) || digitsOnlyRe.MatchString(trimmed) {
		return false
	}
	return letterRe.MatchString(trimmed)
}

func hasStopPrefix(upper string, stops []string) bool {
	for _, s := range stops {
		if strings.HasPrefix(upper, s) {
			return true
		}
	}
	return false
}

// collectNamesAfter gathers standalone name lines following start until a stop
// header, a section boundary or a location header. It returns the names and the
// index of the last line it examined.
func collectNamesAfter(block layout.Block, start int, stops []string) ([]string, int) {
	var names []string
	idx := start + 1
	for idx < len(block) {
		candidate := block[idx].Spaced()
		if candidate == "" {
			idx++
			continue
		}
		upper := strings.ToUpper(candidate)
		if hasStopPrefix(upper, stops) || isSectionBoundary(candidate) || isLocationHeader(candidate) {
			break
		}
		if isStandaloneName(candidate) {
			names = append(names, candidate)
		}
		idx++
	}
	return names, idx - 1
}

// findNextName returns the first standalone name line after start, or -1.
func findNextName(block layout.Block, start int, stops []string) (string, int) {
	for idx := start + 1; idx < len(block); idx++ {
		candidate := block[idx].Spaced()
		if candidate == "" {
			continue
		}
		upper := strings.ToUpper(candidate)
		if hasStopPrefix(upper, stops) || isSectionBoundary(candidate) || isLocationHeader(candidate) {
			return "", -1
		}
		if isStandaloneName(candidate) {
			return candidate, idx
		}
	}
	return "", -1
}

var (
	excludedHelperWords = []string{"discurso", "necessidades locais", "coment", "estudo bíblico de congregação", "estudo biblico de congregacao"}
	helperWords         = []string{"iniciando", "cultivando", "fazendo", "revisita", "demonstra", "explicando", "estudo bíblico", "estudo biblico", "conversas"}
)

// partNeedsHelper decides whether a numbered part is a student demonstration
// that is presented with a helper.
func partNeedsHelper(title string, inMinistryBand bool) bool {
	lower := strings.ToLower(title)
	for _, w := range excludedHelperWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	if inMinistryBand {
		return true
	}
	for _, w := range helperWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
