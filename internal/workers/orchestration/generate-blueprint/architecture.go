// internal/workers/orchestration/generate-blueprint/architecture.go
package generateblueprint

import (
	"fmt"
	"strings"

	"archai-workers/internal/models"
)

const (
	repairAuthService = "Deterministic injection: Added Auth/Identity service for sensitive compliance."
	repairKafkaClient = "Bounded repair: Injected KafkaJS for high-scale message buffering."
)

// profile holds the coarse classifications every collaborator keys off.
type profile struct {
	enterprise bool
	highScale  bool
	modeLabel  string
}

func newProfile(in *models.Intake, sc *models.SanitizedConstraints, archetype models.ArchetypeDecision) profile {
	intent := in.EffectiveIntent()
	return profile{
		enterprise: intent == models.IntentEnterpriseGrade || intent == models.IntentVCReady,
		highScale: in.IsLargeScale() || sc.Scale == models.ScaleLarge || sc.Scale == models.ScaleGlobal ||
			archetype.SelectedArchetype == models.ArchetypeMicroservices,
		modeLabel: models.ModeLabel(intent),
	}
}

func (p *Pipeline) recommendStack(pr profile) models.RecommendedStack {
	s := p.catalog.Stack
	return models.RecommendedStack{
		Frontend: s.Frontend.pick(pr.enterprise, false),
		Backend:  s.Backend.pick(false, pr.highScale),
		Database: s.Database.pick(false, pr.highScale),
		Infra:    s.Infra.pick(pr.enterprise, false),
	}
}

func serviceWanted(when string, in *models.Intake) bool {
	switch when {
	case "async":
		return in.MessageQueueRequired || in.RequiresBackgroundJobs
	case "cache":
		return in.CacheLayerRequired
	case "realtime":
		return in.RequiresRealTime
	case "files":
		return in.RequiresFileStorage
	case "ai":
		return in.RequiresAI
	}
	return false
}

// decomposeServices returns the service list and any repairs applied to it.
func (p *Pipeline) decomposeServices(in *models.Intake, pr profile) ([]models.Service, []string) {
	services := append([]models.Service(nil), p.catalog.Services.Base...)
	for _, opt := range p.catalog.Services.Optional {
		if serviceWanted(opt.When, in) {
			services = append(services, opt.Service)
		}
	}

	var repairs []string
	if pr.enterprise || pr.highScale {
		services = append(services, p.catalog.Services.Auth)
		repairs = append(repairs, repairAuthService)
	}
	return services, repairs
}

// planEngineering lays out the repository for the chosen services. Every
// service except the CDN gets a folder named after it.
func (p *Pipeline) planEngineering(in *models.Intake, services []models.Service, pr profile) (models.EngineeringSpec, []string) {
	eng := p.catalog.Engineering

	spec := models.EngineeringSpec{
		FolderStructure: append([]string(nil), eng.Folders...),
		KeyDependencies: append([]string(nil), eng.Dependencies...),
		EnvVariables:    append([]string(nil), eng.Env...),
		APIContracts: []models.APIContract{{
			Endpoint:    "/api/v1/auth/login",
			Method:      "POST",
			Description: "Login",
			Response:    "{ token: string, user: Object }",
		}},
		DatabaseSchema: []models.TableSchema{{
			Table:   "Users",
			Columns: []string{"id: uuid", "email: string", "createdAt: timestamp"},
			Indexes: []string{"idx_user_email"},
		}},
	}
	spec.KeyDependencies = append(spec.KeyDependencies, eng.Transport.pick(false, pr.highScale))

	hasBroker := false
	for _, s := range services {
		if s.Name == "Global CDN" {
			continue
		}
		spec.FolderStructure = append(spec.FolderStructure, "src/services/"+slug(s.Name))
		switch s.Name {
		case "Distributed Cache":
			spec.KeyDependencies = append(spec.KeyDependencies, eng.CacheClient)
			spec.EnvVariables = append(spec.EnvVariables, "REDIS_URL")
		case "Message Broker":
			hasBroker = true
			spec.EnvVariables = append(spec.EnvVariables, "KAFKA_BROKERS")
		}
	}

	for _, feature := range in.CoreFeatures {
		name := slug(feature)
		spec.APIContracts = append(spec.APIContracts, models.APIContract{
			Endpoint:    "/api/v1/" + name,
			Method:      "POST",
			Description: fmt.Sprintf("Create %s", feature),
			Payload:     "{ data: Object }",
			Response:    "{ id: string }",
		})
		spec.DatabaseSchema = append(spec.DatabaseSchema, models.TableSchema{
			Table:   name,
			Columns: []string{"id: uuid", "user_id: uuid", "createdAt: timestamp"},
			Indexes: []string{fmt.Sprintf("idx_%s_user_id", strings.ReplaceAll(name, "-", "_"))},
		})
	}

	var repairs []string
	if (pr.highScale || hasBroker) && !containsString(spec.KeyDependencies, eng.BrokerClient) {
		spec.KeyDependencies = append(spec.KeyDependencies, eng.BrokerClient)
		repairs = append(repairs, repairKafkaClient)
	}
	return spec, repairs
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
