package pages

// Info describes a catalog page in the admin panel.
type Info struct {
	DisplayName string `json:"displayName"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

var catalogOrder = []string{"home", "about", "pricing", "appointment", "testimonials", "contact", "ethics"}

var catalog = map[string]Info{
	"home":         {"Accueil", "/", "Page principale avec présentation et services"},
	"about":        {"Qui suis-je ?", "/qui-suis-je", "Parcours et présentation personnelle"},
	"pricing":      {"Tarifs", "/tarifs", "Tarifs des séances et prestations"},
	"appointment":  {"Prendre rendez-vous", "/rdv", "Prise de rendez-vous en ligne"},
	"testimonials": {"Témoignages", "/temoignages", "Témoignages clients et formulaire"},
	"contact":      {"Contact", "/contact", "Coordonnées et formulaire de contact"},
	"ethics":       {"Charte éthique", "/charte", "Charte éthique et déontologique"},
}

// IDs returns the known page identifiers in menu order.
func IDs() []string {
	return append([]string(nil), catalogOrder...)
}

func Valid(pageID string) bool {
	_, ok := catalog[pageID]
	return ok
}

func Lookup(pageID string) (Info, bool) {
	i, ok := catalog[pageID]
	return i, ok
}
