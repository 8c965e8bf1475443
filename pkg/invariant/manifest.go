package invariant

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestEntry is one supplemental invariant definition loaded from a YAML
// manifest, mirroring config.RegionalProfile's shape: plain YAML-tagged
// fields, no custom unmarshaling.
type ManifestEntry struct {
	ID                 string   `yaml:"id"`
	Name               string   `yaml:"name"`
	Description        string   `yaml:"description"`
	Category           string   `yaml:"category"`
	ViolationMessage   string   `yaml:"violation_message"`
	Expression         string   `yaml:"expression"`
	SecurityPrinciple  string   `yaml:"security_principle,omitempty"`
	Assumptions        []string `yaml:"assumptions,omitempty"`
	BlindSpots         []string `yaml:"blind_spots,omitempty"`
	StandardsReference string   `yaml:"standards_reference,omitempty"`
}

// Manifest is a named collection of supplemental invariant definitions.
type Manifest struct {
	Invariants []ManifestEntry `yaml:"invariants"`
}

// LoadManifest parses a YAML-encoded manifest of supplemental invariants.
func LoadManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("invariant: parse manifest: %w", err)
	}
	return m, nil
}

// LoadManifestFile reads and parses a manifest from path.
func LoadManifestFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("invariant: read manifest %q: %w", path, err)
	}
	return LoadManifest(data)
}

// RegisterManifest compiles every entry's CEL expression and registers the
// resulting invariants into catalog. It stops at the first entry that fails
// to compile or register, leaving catalog with whatever prior entries in
// the manifest already succeeded.
func RegisterManifest(catalog *Catalog, m Manifest) error {
	for _, entry := range m.Invariants {
		predicate, err := CompileCELPredicate(entry.Expression)
		if err != nil {
			return fmt.Errorf("invariant: manifest entry %q: %w", entry.ID, err)
		}
		category := Category(entry.Category)
		if category == "" {
			category = Custom
		}
		inv := Invariant{
			ID:               entry.ID,
			Name:             entry.Name,
			Description:      entry.Description,
			Category:         category,
			ViolationMessage: entry.ViolationMessage,
			Provenance: Provenance{
				SecurityPrinciple:  entry.SecurityPrinciple,
				Assumptions:        entry.Assumptions,
				BlindSpots:         entry.BlindSpots,
				StandardsReference: entry.StandardsReference,
				LastReview:         time.Time{},
			},
			Check: predicate,
		}
		if err := catalog.Register(inv); err != nil {
			return fmt.Errorf("invariant: manifest entry %q: %w", entry.ID, err)
		}
	}
	return nil
}
