package domain

import (
	"strings"
)

// NormalizeTerm приводит строку поиска или поле адреса к виду для сравнения.
func NormalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ContainsFold проверяет вхождение substr в s без учёта регистра.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// MatchesLocation сообщает, входит ли хотя бы одна из локаций в город или штат объекта.
// Пустые локации пропускаются: пустая строка входит в любое поле.
func MatchesLocation(p Property, locations []string) bool {
	city := NormalizeTerm(p.City)
	state := NormalizeTerm(p.State)
	for _, loc := range locations {
		loc = NormalizeTerm(loc)
		if loc == "" {
			continue
		}
		if strings.Contains(city, loc) || strings.Contains(state, loc) {
			return true
		}
	}
	return false
}
