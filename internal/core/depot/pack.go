// Package depot loads the canonical depot table from the embedded depots.json.
// The pack is fixed domain knowledge: three delivery depots, their display
// names and pin coordinates, the legacy free-text labels that map onto them,
// and the reference set of municipalities they have historically operated.
// Unknown labels are a reportable condition, never a fallthrough default
package depot

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"depotmap/internal/core/normalize"
	perr "depotmap/internal/platform/errors"
)

//go:embed depots.json
var embedded []byte

type rawDepot struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Lat            float64  `json:"lat"`
	Lon            float64  `json:"lon"`
	Synonyms       []string `json:"synonyms"`
	Municipalities []string `json:"municipalities"`
}

type rawPack struct {
	Version int        `json:"version"`
	Depots  []rawDepot `json:"depots"`
}

// Depot is one canonical delivery depot
type Depot struct {
	Code string
	Name string
	// pin coordinates for the external map UI
	Lat float64
	Lon float64
	// municipalities this depot has historically operated
	Municipalities []string
}

// Pack is the compiled depot table
type Pack struct {
	Version int
	Depots  []Depot // stable order follows depots.json

	byCode      map[string]Depot
	byLabel     map[string]string // normalized label -> code
	operational map[string]struct{}

	text *normalize.Normalizer
}

// Load compiles the embedded depots.json, validating codes and label uniqueness
func Load() (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(embedded, &rp); err != nil {
		return nil, fmt.Errorf("depot: parse depots.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("depot: unsupported depots.json version %d (want 1)", rp.Version)
	}
	if len(rp.Depots) == 0 {
		return nil, fmt.Errorf("depot: depots.json has no depots")
	}

	p := &Pack{
		Version:     rp.Version,
		byCode:      make(map[string]Depot, len(rp.Depots)),
		byLabel:     make(map[string]string, len(rp.Depots)*8),
		operational: make(map[string]struct{}, len(rp.Depots)*8),
		text:        normalize.New(),
	}

	for _, rd := range rp.Depots {
		if rd.Code == "" || rd.Name == "" {
			return nil, fmt.Errorf("depot: depot entry missing code or name")
		}
		if _, dup := p.byCode[rd.Code]; dup {
			return nil, fmt.Errorf("depot: duplicate depot code %q", rd.Code)
		}
		if rd.Lat < -90 || rd.Lat > 90 || rd.Lon < -180 || rd.Lon > 180 {
			return nil, fmt.Errorf("depot: depot %q pin out of range", rd.Code)
		}

		d := Depot{
			Code:           rd.Code,
			Name:           rd.Name,
			Lat:            rd.Lat,
			Lon:            rd.Lon,
			Municipalities: append([]string(nil), rd.Municipalities...),
		}
		p.byCode[rd.Code] = d
		p.Depots = append(p.Depots, d)

		// the code and display name are labels too, so canonical input stays canonical
		labels := append([]string{rd.Code, rd.Name}, rd.Synonyms...)
		for _, l := range labels {
			key := p.text.Normalize(l)
			if key == "" {
				return nil, fmt.Errorf("depot: depot %q has an empty label", rd.Code)
			}
			if prev, clash := p.byLabel[key]; clash && prev != rd.Code {
				return nil, fmt.Errorf("depot: label %q maps to both %q and %q", l, prev, rd.Code)
			}
			p.byLabel[key] = rd.Code
		}

		for _, m := range rd.Municipalities {
			p.operational[p.text.Normalize(m)] = struct{}{}
		}
	}

	return p, nil
}

// MustLoad panics on a broken embedded pack, for wiring in main
func MustLoad() *Pack {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}

// Canonicalize maps a raw depot label to its canonical depot.
// Idempotent on canonical codes; UnknownDepotLabel on anything outside the table
func (p *Pack) Canonicalize(label string) (Depot, error) {
	key := p.text.Normalize(label)
	code, ok := p.byLabel[key]
	if !ok {
		return Depot{}, perr.UnknownDepotf("depot label %q not in canonical table", label)
	}
	return p.byCode[code], nil
}

// ByCode returns the depot for a canonical code
func (p *Pack) ByCode(code string) (Depot, bool) {
	d, ok := p.byCode[code]
	return d, ok
}

// Codes returns the canonical code set, sorted
func (p *Pack) Codes() []string {
	out := make([]string, 0, len(p.byCode))
	for c := range p.byCode {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Operational reports whether a municipality is in the historically
// operated reference set. Input is normalized before lookup
func (p *Pack) Operational(municipality string) bool {
	_, ok := p.operational[p.text.Normalize(municipality)]
	return ok
}
