// Package regions holds the fixed mapping of Brazilian state codes (UF) to
// their macro-regions.
package regions

import "sort"

const (
	Norte       = "Norte"
	Nordeste    = "Nordeste"
	CentroOeste = "Centro-Oeste"
	Sudeste     = "Sudeste"
	Sul         = "Sul"
)

// Map is an immutable state -> region lookup. The zero value is empty.
type Map struct {
	byState  map[string]string
	byRegion map[string][]string
}

// New builds a Map from a state -> region table. The input is copied.
func New(table map[string]string) Map {
	m := Map{
		byState:  make(map[string]string, len(table)),
		byRegion: make(map[string][]string),
	}
	for state, region := range table {
		m.byState[state] = region
		m.byRegion[region] = append(m.byRegion[region], state)
	}
	for _, states := range m.byRegion {
		sort.Strings(states)
	}
	return m
}

// Brazil returns the map of the 27 federative units.
func Brazil() Map {
	return brazil
}

var brazil = New(map[string]string{
	"AC": Norte, "AM": Norte, "AP": Norte, "PA": Norte, "RO": Norte, "RR": Norte, "TO": Norte,
	"AL": Nordeste, "BA": Nordeste, "CE": Nordeste, "MA": Nordeste, "PB": Nordeste,
	"PE": Nordeste, "PI": Nordeste, "RN": Nordeste, "SE": Nordeste,
	"DF": CentroOeste, "GO": CentroOeste, "MS": CentroOeste, "MT": CentroOeste,
	"ES": Sudeste, "MG": Sudeste, "RJ": Sudeste, "SP": Sudeste,
	"PR": Sul, "RS": Sul, "SC": Sul,
})

// RegionOf returns the region of a state code.
func (m Map) RegionOf(state string) (string, bool) {
	r, ok := m.byState[state]
	return r, ok
}

// StatesIn lists the states of a region in sorted order. Unknown regions yield
// an empty, non-nil slice so that a region filter built from it matches nothing.
func (m Map) StatesIn(region string) []string {
	states := m.byRegion[region]
	out := make([]string, len(states))
	copy(out, states)
	return out
}

// Regions lists the known region names in sorted order.
func (m Map) Regions() []string {
	out := make([]string, 0, len(m.byRegion))
	for r := range m.byRegion {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// States lists every known state code in sorted order.
func (m Map) States() []string {
	out := make([]string, 0, len(m.byState))
	for s := range m.byState {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
