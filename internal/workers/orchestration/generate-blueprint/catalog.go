// internal/workers/orchestration/generate-blueprint/catalog.go
package generateblueprint

import (
	_ "embed"
	"fmt"

	"archai-workers/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type choice struct {
	Default    string `yaml:"default"`
	Enterprise string `yaml:"enterprise"`
	HighScale  string `yaml:"high_scale"`
}

func (c choice) pick(enterprise, highScale bool) string {
	switch {
	case enterprise && c.Enterprise != "":
		return c.Enterprise
	case highScale && c.HighScale != "":
		return c.HighScale
	default:
		return c.Default
	}
}

type optionalService struct {
	models.Service `yaml:",inline"`
	When           string `yaml:"when"`
}

// Catalog is the wording the assembler uses for stacks, services and
// handoff material.
type Catalog struct {
	Stack struct {
		Frontend choice `yaml:"frontend"`
		Backend  choice `yaml:"backend"`
		Database choice `yaml:"database"`
		Infra    choice `yaml:"infra"`
	} `yaml:"stack"`

	Services struct {
		Base     []models.Service  `yaml:"base"`
		Auth     models.Service    `yaml:"auth"`
		Optional []optionalService `yaml:"optional"`
	} `yaml:"services"`

	Engineering struct {
		Folders      []string `yaml:"folders"`
		Dependencies []string `yaml:"dependencies"`
		Transport    choice   `yaml:"transport"`
		CacheClient  string   `yaml:"cache_client"`
		BrokerClient string   `yaml:"broker_client"`
		Env          []string `yaml:"env"`
	} `yaml:"engineering"`

	Product struct {
		Personas         map[string]string `yaml:"personas"`
		SecondaryPersona string            `yaml:"secondary_persona"`
		Journeys         []string          `yaml:"journeys"`
		NonGoals         []string          `yaml:"non_goals"`
		SuccessCriteria  []string          `yaml:"success_criteria"`
		EdgeCases        []string          `yaml:"edge_cases"`
	} `yaml:"product"`

	Handoff struct {
		BaseURL         string   `yaml:"base_url"`
		DefaultProject  string   `yaml:"default_project"`
		NextSteps       []string `yaml:"next_steps"`
		EnterpriseSteps []string `yaml:"enterprise_steps"`
		Documentation   []string `yaml:"documentation"`
	} `yaml:"handoff"`
}

// LoadCatalog parses a catalog document. An empty payload yields the
// embedded default.
func LoadCatalog(data []byte) (*Catalog, error) {
	if len(data) == 0 {
		data = defaultCatalog
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if c.Stack.Backend.Default == "" || len(c.Services.Base) == 0 {
		return nil, fmt.Errorf("catalog: stack and base services are required")
	}
	return &c, nil
}

// MustDefaultCatalog returns the embedded catalog and panics if it is broken.
func MustDefaultCatalog() *Catalog {
	c, err := LoadCatalog(nil)
	if err != nil {
		panic(err)
	}
	return c
}
