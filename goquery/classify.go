package goquery

import (
	"regexp"
	"strings"

	"github.com/fwojciec/legalfeed"
)

var leyRe = regexp.MustCompile(`\bley(es)?\b`)

// DetectNormType classifies a norm from its title. Checks run from most to
// least specific, so "Decreto con Rango, Valor y Fuerza de Ley Orgánica"
// is an organic law and "Reglamento de la Ley" is a regulation.
func DetectNormType(text string) legalfeed.NormType {
	t := fold(text)
	switch {
	case strings.Contains(t, "constitucion"):
		return legalfeed.NormConstitucion
	case strings.Contains(t, "ley organica"):
		return legalfeed.NormLeyOrganica
	case strings.Contains(t, "codigo"):
		return legalfeed.NormCodigo
	case strings.Contains(t, "decreto con rango"), strings.Contains(t, "decreto-ley"), strings.Contains(t, "decreto ley"):
		return legalfeed.NormDecretoLey
	case strings.Contains(t, "decreto"):
		return legalfeed.NormDecreto
	case strings.Contains(t, "reglamento"):
		return legalfeed.NormReglamento
	case strings.Contains(t, "resolucion"):
		return legalfeed.NormResolucion
	case strings.Contains(t, "providencia"):
		return legalfeed.NormProvidencia
	case strings.Contains(t, "aviso"):
		return legalfeed.NormAviso
	case leyRe.MatchString(t):
		return legalfeed.NormLeyOrdinaria
	}
	return legalfeed.NormOtro
}

// DetectGacetaType classifies a gazette issue. "Extraordinaria" is checked
// first because it contains "ordinaria".
func DetectGacetaType(text string) legalfeed.GacetaType {
	t := fold(text)
	switch {
	case strings.Contains(t, "extraordinari"):
		return legalfeed.GacetaExtraordinaria
	case strings.Contains(t, "ordinari"):
		return legalfeed.GacetaOrdinaria
	}
	return legalfeed.GacetaOficial
}

// DetectNormStatus reads the validity a listing reports for a norm.
func DetectNormStatus(text string) legalfeed.NormStatus {
	t := fold(text)
	switch {
	case strings.Contains(t, "parcialmente derogad"):
		return legalfeed.NormParcialmenteDerogada
	case strings.Contains(t, "derogad"):
		return legalfeed.NormDerogada
	case strings.Contains(t, "reformad"):
		return legalfeed.NormReformada
	case strings.Contains(t, "vigente"):
		return legalfeed.NormVigente
	}
	return legalfeed.NormDesconocido
}

var gacetaNumberRe = regexp.MustCompile(`(?i)(?:N[úu]m(?:ero)?\.?|Nro\.?|N\s*[°º]|No\.)\s*(\d{1,3}(?:[.,]\d{3})+|\d+)`)

// ParseGacetaNumber extracts a gazette number such as "N° 6.152",
// "Nº 6,152" or "Número 41.000" and returns it normalized ("6.152").
// Returns "" if text carries no number marker.
func ParseGacetaNumber(text string) string {
	m := gacetaNumberRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return NormalizeGacetaNumber(m[1])
}

// NormalizeGacetaNumber formats a gazette number with dot thousands
// separators: "6152", "6,152" and "6.152" all become "6.152".
func NormalizeGacetaNumber(s string) string {
	var digits []byte
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	for len(digits) > 1 && digits[0] == '0' {
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return ""
	}

	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(c)
	}
	return b.String()
}
