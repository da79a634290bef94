// internal/workers/review/validate-consistency/handler_test.go
package validateconsistency

import (
	"context"
	"testing"

	"archai-workers/internal/common/config"
	"archai-workers/internal/common/logger"
	"archai-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return LoadConfig(config.DefaultPipeline())
}

// consistentDraft is a draft that triggers no rule.
func consistentDraft() models.Blueprint {
	return models.Blueprint{
		StartupSummary:   `A lean mvp architecture for "Team task tracker".`,
		ArchitectureMode: "Lean MVP",
		ProductSpec: models.ProductSpec{
			Personas:        []string{"Technical Co-founder / CTO"},
			CoreJourneys:    []string{"Primary action flow (core feature execution)"},
			NonGoals:        []string{"No native mobile app (Web-first strategy)"},
			SuccessCriteria: []string{"API response time < 200ms"},
		},
		RecommendedStack: models.RecommendedStack{Database: "PostgreSQL (Supabase)", Infra: "Vercel"},
		Services: []models.Service{
			{Name: "Core API Gateway", Responsibility: "Main business logic handling"},
			{Name: "Global CDN", Responsibility: "Static asset delivery and edge compute"},
		},
		EngineeringSpec: models.EngineeringSpec{
			FolderStructure: []string{"src/app", "src/lib", "src/core"},
			KeyDependencies: []string{"zod"},
		},
	}
}

func critiqueIDs(r models.ValidationResult) []string {
	ids := make([]string, 0, len(r.Critiques))
	for _, c := range r.Critiques {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(bp *models.Blueprint)
		wantIDs []string
	}{
		{
			name:    "consistent draft passes",
			mutate:  func(bp *models.Blueprint) {},
			wantIDs: []string{},
		},
		{
			name:    "high scale mode without async infrastructure",
			mutate:  func(bp *models.Blueprint) { bp.ArchitectureMode = "VC-Ready Infra" },
			wantIDs: []string{"v-001"},
		},
		{
			name: "mobile folders and journeys against the web-first non-goal",
			mutate: func(bp *models.Blueprint) {
				bp.EngineeringSpec.FolderStructure = append(bp.EngineeringSpec.FolderStructure, "apps/ios")
				bp.ProductSpec.CoreJourneys = append(bp.ProductSpec.CoreJourneys, "Download from the App Store")
			},
			wantIDs: []string{"v-002", "prd-002"},
		},
		{
			name:    "global summary on a regional database",
			mutate:  func(bp *models.Blueprint) { bp.StartupSummary = `A global consumer architecture for "Global marketplace".` },
			wantIDs: []string{"v-003"},
		},
		{
			name: "qualitative success criteria",
			mutate: func(bp *models.Blueprint) {
				bp.ProductSpec.SuccessCriteria = []string{"The product is easy to use"}
			},
			wantIDs: []string{"prd-001"},
		},
		{
			name: "enterprise mode on vercel with user personas and no auth",
			mutate: func(bp *models.Blueprint) {
				bp.ArchitectureMode = "Enterprise Grade"
				bp.Services = append(bp.Services, models.Service{Name: "Distributed Cache"})
				bp.EngineeringSpec.FolderStructure = append(bp.EngineeringSpec.FolderStructure, "src/distributed-cache")
				bp.ProductSpec.Personas = []string{"Mobile-first Consumer", "Power User"}
			},
			wantIDs: []string{"arch-001", "arch-002"},
		},
		{
			name: "service without a folder and broker without a client",
			mutate: func(bp *models.Blueprint) {
				bp.Services = append(bp.Services, models.Service{Name: "Message Broker", Responsibility: "Kafka topics"})
			},
			wantIDs: []string{"repo-001", "repo-002"},
		},
	}

	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp := consistentDraft()
			tt.mutate(&bp)

			out, err := handler.Execute(context.Background(), &Input{Blueprint: bp})
			require.NoError(t, err)

			v := out.Validation
			assert.Equal(t, tt.wantIDs, critiqueIDs(v))
			assert.Equal(t, len(tt.wantIDs) == 0, v.Passed)
			assert.Equal(t, 100-15*len(tt.wantIDs), v.Score)
		})
	}
}

func TestHandler_Validate_RepoFolderMessage(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewNoOpLogger())
	bp := consistentDraft()
	bp.Services = append(bp.Services, models.Service{Name: "Auth & Identity"})

	v := handler.Validate(&bp)
	require.Len(t, v.Critiques, 1)
	assert.Equal(t, "Service 'Auth & Identity' defined in Architecture but missing dedicated folder in Repo Layout.", v.Critiques[0].Message)
	assert.Equal(t, "Add 'src/auth-&-identity' to folder structure.", v.Critiques[0].FixSuggestion)
}

func TestHandler_Validate_ScoreFloorsAtZero(t *testing.T) {
	pipeline := config.DefaultPipeline()
	pipeline.CritiquePenalty = 60
	handler := NewHandler(LoadConfig(pipeline), logger.NewNoOpLogger())

	bp := consistentDraft()
	bp.ArchitectureMode = "Enterprise Grade"
	v := handler.Validate(&bp)

	assert.Equal(t, []string{"v-001", "arch-001"}, critiqueIDs(v))
	assert.Equal(t, 0, v.Score)
	assert.False(t, v.Passed)
}

func TestHandler_Validate_RuleGroupsAreConfigurable(t *testing.T) {
	pipeline := config.DefaultPipeline()
	pipeline.RuleGroups = []string{GroupIntegrity, "unknown"}
	handler := NewHandler(LoadConfig(pipeline), logger.NewNoOpLogger())

	bp := consistentDraft()
	bp.ArchitectureMode = "Enterprise Grade"
	bp.ProductSpec.SuccessCriteria = []string{"good experience"}

	assert.Equal(t, []string{"v-001"}, critiqueIDs(handler.Validate(&bp)))
}
