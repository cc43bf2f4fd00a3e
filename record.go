package legalfeed

import "time"

// GacetaType classifies a Gaceta Oficial issue.
type GacetaType string

// Gaceta issue types.
const (
	GacetaOficial        GacetaType = "oficial"
	GacetaOrdinaria      GacetaType = "ordinaria"
	GacetaExtraordinaria GacetaType = "extraordinaria"
)

// GacetaTypes lists every issue type.
func GacetaTypes() []GacetaType {
	return []GacetaType{GacetaOrdinaria, GacetaExtraordinaria, GacetaOficial}
}

// NormType classifies a published legal instrument.
type NormType string

// Norm types, from most to least specific.
const (
	NormConstitucion NormType = "constitucion"
	NormLeyOrganica  NormType = "ley_organica"
	NormLeyOrdinaria NormType = "ley_ordinaria"
	NormCodigo       NormType = "codigo"
	NormDecretoLey   NormType = "decreto_ley"
	NormDecreto      NormType = "decreto"
	NormReglamento   NormType = "reglamento"
	NormResolucion   NormType = "resolucion"
	NormProvidencia  NormType = "providencia"
	NormAviso        NormType = "aviso"
	NormOtro         NormType = "otro"
)

// NormTypes lists every norm type.
func NormTypes() []NormType {
	return []NormType{
		NormConstitucion, NormLeyOrganica, NormLeyOrdinaria, NormCodigo,
		NormDecretoLey, NormDecreto, NormReglamento, NormResolucion,
		NormProvidencia, NormAviso, NormOtro,
	}
}

// NormStatus is the validity of a norm as reported by the listing.
type NormStatus string

// Norm statuses.
const (
	NormVigente              NormStatus = "vigente"
	NormDerogada             NormStatus = "derogada"
	NormReformada            NormStatus = "reformada"
	NormParcialmenteDerogada NormStatus = "parcialmente_derogada"
	NormDesconocido          NormStatus = "desconocido"
)

// Sala is a chamber of the Tribunal Supremo de Justicia. Its value is the
// code the TSJ site uses in decision URLs.
type Sala string

// TSJ chambers.
const (
	SalaConstitucional         Sala = "scon"
	SalaPoliticoAdministrativa Sala = "spa"
	SalaCasacionCivil          Sala = "scc"
	SalaCasacionPenal          Sala = "scp"
	SalaCasacionSocial         Sala = "scs"
	SalaElectoral              Sala = "selec"
	SalaPlena                  Sala = "sp"
)

var salaTitles = map[Sala]string{
	SalaConstitucional:         "Sala Constitucional",
	SalaPoliticoAdministrativa: "Sala Político-Administrativa",
	SalaCasacionCivil:          "Sala de Casación Civil",
	SalaCasacionPenal:          "Sala de Casación Penal",
	SalaCasacionSocial:         "Sala de Casación Social",
	SalaElectoral:              "Sala Electoral",
	SalaPlena:                  "Sala Plena",
}

// Salas lists every chamber in the order the TSJ site presents them.
func Salas() []Sala {
	return []Sala{
		SalaConstitucional, SalaPoliticoAdministrativa, SalaCasacionCivil,
		SalaCasacionPenal, SalaCasacionSocial, SalaElectoral, SalaPlena,
	}
}

// Title returns the chamber's official name, or the raw code if unknown.
func (s Sala) Title() string {
	if t, ok := salaTitles[s]; ok {
		return t
	}
	return string(s)
}

// Valid reports whether s is a known chamber code.
func (s Sala) Valid() bool {
	_, ok := salaTitles[s]
	return ok
}

// GacetaEntry is one issue of the Gaceta Oficial.
type GacetaEntry struct {
	Number    string     `json:"numero"`
	Date      string     `json:"fecha"`
	Type      GacetaType `json:"tipo"`
	PDFURL    string     `json:"pdfUrl,omitempty"`
	URL       string     `json:"url,omitempty"`
	ScrapedAt time.Time  `json:"scrapedAt"`
}

// Key returns the natural identity of the entry.
func (g *GacetaEntry) Key() string {
	return g.Number + ":" + string(g.Type)
}

// ScrapedNorm is a legal instrument found in a Gaceta Oficial listing.
type ScrapedNorm struct {
	Name         string     `json:"nombre"`
	Type         NormType   `json:"tipo"`
	GacetaNumber string     `json:"gacetaNumero"`
	GacetaDate   string     `json:"gacetaFecha"`
	GacetaType   GacetaType `json:"gacetaTipo"`
	Status       NormStatus `json:"status"`
	URL          string     `json:"url"`
	Summary      string     `json:"summary"`
	ScrapedAt    time.Time  `json:"scrapedAt"`
}

// Key returns the natural identity of the norm.
func (n *ScrapedNorm) Key() string {
	if n.URL != "" {
		return n.URL
	}
	return n.Name + ":" + n.GacetaNumber
}

// ScrapedDecision is a TSJ decision. Listing extraction fills the number,
// date, chamber and URL; detail extraction fills the rest.
type ScrapedDecision struct {
	Number     string    `json:"numero"`
	Date       string    `json:"fecha"`
	Sala       Sala      `json:"sala"`
	Expediente string    `json:"expediente"`
	Ponente    string    `json:"ponente"`
	Parties    string    `json:"parties"`
	Matter     string    `json:"matter"`
	Summary    string    `json:"summary"`
	FullText   string    `json:"fullText,omitempty"`
	URL        string    `json:"url"`
	Binding    bool      `json:"binding"`
	ScrapedAt  time.Time `json:"scrapedAt"`
}

// Key returns the natural identity of the decision.
func (d *ScrapedDecision) Key() string {
	if d.URL != "" {
		return d.URL
	}
	return string(d.Sala) + ":" + d.Number
}
