package script

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// catalog is the fixed wording bank the assembler draws from. Wording changes
// are catalog edits, not code changes, which keeps the assembler deterministic
// and the copy reviewable in one place.
type catalog struct {
	Discovery  []string         `yaml:"discovery"`
	Objections []objectionEntry `yaml:"objections"`
	Closing    closingCatalog   `yaml:"closing"`
}

// objectionEntry is one objection/counter pair. The optional adjudicated and
// delinquent lines are appended to the base response when the matching parcel
// flag is set.
type objectionEntry struct {
	ID            string `yaml:"id"`
	Objection     string `yaml:"objection"`
	Response      string `yaml:"response"`
	Adjudicated   string `yaml:"adjudicated,omitempty"`
	Delinquent    string `yaml:"delinquent,omitempty"`
	RequiresOffer bool   `yaml:"requires_offer,omitempty"`
}

// closingCatalog holds the closing variants. Delinquent is a printf template
// taking the number of delinquent years.
type closingCatalog struct {
	Generic     string `yaml:"generic"`
	Delinquent  string `yaml:"delinquent"`
	Adjudicated string `yaml:"adjudicated"`
}

func loadCatalog() (*catalog, error) {
	var c catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, eris.Wrap(err, "script: parse catalog")
	}
	if len(c.Discovery) == 0 || len(c.Objections) == 0 || c.Closing.Generic == "" {
		return nil, eris.New("script: catalog is incomplete")
	}
	return &c, nil
}
