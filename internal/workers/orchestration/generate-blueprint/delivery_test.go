package generateblueprint

import (
	"strings"
	"testing"

	"archai-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAuditQuality(t *testing.T) {
	tests := []struct {
		name         string
		bp           models.Blueprint
		wantScore    int
		wantSecurity []string
		wantDebt     []string
	}{
		{
			name: "plaintext secret and missing index",
			bp: models.Blueprint{
				EngineeringSpec: models.EngineeringSpec{
					APIContracts: []models.APIContract{{Endpoint: "/api/v1/auth/login"}},
					DatabaseSchema: []models.TableSchema{
						{Table: "users", Columns: []string{"id", "password_hash"}, Indexes: []string{"idx_email"}},
						{Table: "orders", Columns: []string{"id"}},
					},
				},
			},
			wantScore:    70,
			wantSecurity: []string{"[Critical] Potential plaintext secret storage detected in DB schema."},
			wantDebt: []string{
				"Refactor: Move secrets to dedicated KMS or Hashicorp Vault.",
				"Add indexes to 'orders' foreign keys and frequently queried columns.",
			},
		},
		{
			name: "enterprise without auth contract",
			bp: models.Blueprint{
				ArchitectureMode: "Enterprise Grade",
				EngineeringSpec: models.EngineeringSpec{
					DatabaseSchema: []models.TableSchema{{Table: "Users", Indexes: []string{"idx"}}},
				},
			},
			wantScore: 80,
			wantSecurity: []string{
				"[Safe] User table detected with no plaintext password storage.",
				"[High Risk] Enterprise mode selected but no explicit Auth contracts defined.",
			},
			wantDebt: []string{},
		},
		{
			name: "distributed backend with cache client",
			bp: models.Blueprint{
				RecommendedStack: models.RecommendedStack{Backend: "Distributed Go Services"},
				EngineeringSpec: models.EngineeringSpec{
					KeyDependencies: []string{"redis"},
					APIContracts:    []models.APIContract{{Endpoint: "/api/v1/auth/login"}},
				},
			},
			wantScore:    100,
			wantSecurity: []string{},
			wantDebt:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := auditQuality(&tt.bp)
			assert.Equal(t, tt.wantScore, report.Score)
			assert.Equal(t, tt.wantSecurity, report.SecurityAudit)
			assert.Equal(t, tt.wantDebt, report.TechnicalDebt)
		})
	}
}

func TestAuditQuality_ScoreFloor(t *testing.T) {
	bp := models.Blueprint{EngineeringSpec: models.EngineeringSpec{}}
	for i := 0; i < 12; i++ {
		bp.EngineeringSpec.DatabaseSchema = append(bp.EngineeringSpec.DatabaseSchema, models.TableSchema{Table: "t"})
	}
	assert.Equal(t, 0, auditQuality(&bp).Score)
}

func TestSimulateLoad(t *testing.T) {
	tests := []struct {
		name       string
		archetype  models.Archetype
		infra      string
		deps       []string
		wantUsers  int
		wantBottle string
	}{
		{"microservices", models.ArchetypeMicroservices, "AWS (EKS) + Terraform", nil, 75000, "Network Overhead / Service Mesh Latency"},
		{"serverless", models.ArchetypeModularMonolith, "Vercel", nil, 25000, "Cold Start / Concurrency Limits"},
		{"monolith with kafka", models.ArchetypeMonolith, "AWS (EKS) + Terraform", []string{"kafkajs"}, 32000, "Single Process Memory Pressure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp := models.Blueprint{
				Archetype:        models.ArchetypeDecision{SelectedArchetype: tt.archetype},
				RecommendedStack: models.RecommendedStack{Infra: tt.infra},
				EngineeringSpec:  models.EngineeringSpec{KeyDependencies: tt.deps},
			}
			report := simulateLoad(&bp)
			assert.Equal(t, tt.wantUsers, report.MaxUsers)
			assert.Equal(t, tt.wantBottle, report.Bottleneck)
		})
	}
}

func TestPlanDeployment(t *testing.T) {
	bp := models.Blueprint{
		StartupSummary:   `A lean mvp architecture for "Bakery orders".`,
		ArchitectureMode: "Lean MVP",
		RecommendedStack: models.RecommendedStack{Backend: "Node.js (NestJS)", Infra: "Vercel"},
	}

	spec := planDeployment(&bp, false)
	assert.Equal(t, "Rolling Update", spec.DeploymentStrategy)
	assert.Contains(t, spec.CIPipeline, "- name: Deploy to Vercel\n        run: npx vercel deploy --prod")
	assert.Contains(t, spec.InfraManifest, `name        = "A_lean_mvp_arch"`)
	assert.Contains(t, spec.InfraManifest, `region      = "us-east-1"`)
	assert.Equal(t, "DEPLOY_STRATEGY=Rolling Update", spec.EnvironmentConfigs[2])

	enterprise := planDeployment(&bp, true)
	assert.Equal(t, "Blue/Green with Canary Analysis", enterprise.DeploymentStrategy)
}

func TestPackageHandoff(t *testing.T) {
	p := &Pipeline{catalog: MustDefaultCatalog()}

	tests := []struct {
		name    string
		summary string
		wantURL string
	}{
		{"quoted project", `A lean mvp architecture for "Bakery Orders".`, "https://arch-ai.sh/packages/bakery-orders-r1.zip"},
		{"no quotes", "Unstructured summary", "https://arch-ai.sh/packages/archai-project-r1.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp := models.Blueprint{
				RunID:          "r1",
				StartupSummary: tt.summary,
				Stability:      models.StabilityResult{StabilityScore: 65},
			}
			h := p.packageHandoff(&bp, false)
			assert.Equal(t, tt.wantURL, h.HandoffPackageURL)
			assert.Equal(t, 65, h.ReadinessScore)
			for _, link := range h.DocumentationLinks {
				assert.Equal(t, "#", link.URL)
			}
		})
	}
}

func TestCollectRisks_Order(t *testing.T) {
	risks := collectRisks(
		models.StabilityResult{Tensions: []models.Tension{{Title: "T", Description: "d"}}},
		models.QualityGateResult{FailedChecks: []models.QualityCheckFailure{{Description: "gate"}}},
		models.SanitizedConstraints{ContradictionFlags: []string{"flag"}},
	)
	assert.Equal(t, []string{"T: d", "gate", "flag"}, risks)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "auth-identity", slug("Auth & Identity"))
	assert.Equal(t, "core-api-gateway", slug("  Core API Gateway "))
	assert.Equal(t, "claims-intake", slug("Claims intake!"))
	assert.False(t, strings.HasPrefix(slug("--x"), "-"))
}
