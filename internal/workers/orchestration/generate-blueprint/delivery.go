// internal/workers/orchestration/generate-blueprint/delivery.go
package generateblueprint

import (
	"fmt"
	"strings"

	"archai-workers/internal/models"
)

const (
	blockerPenalty = 20
	warningPenalty = 10
)

// auditQuality runs static heuristics over the engineering plan.
func auditQuality(bp *models.Blueprint) models.QAReport {
	report := models.QAReport{
		SecurityAudit:    []string{},
		PerformanceAudit: []string{},
		TechnicalDebt:    []string{},
	}
	eng := bp.EngineeringSpec

	hasUserTable, hasSecretColumn := false, false
	for _, t := range eng.DatabaseSchema {
		if strings.EqualFold(t.Table, "users") {
			hasUserTable = true
		}
		for _, c := range t.Columns {
			lower := strings.ToLower(c)
			if strings.Contains(lower, "password") || strings.Contains(lower, "secret") {
				hasSecretColumn = true
			}
		}
	}
	switch {
	case hasSecretColumn:
		report.SecurityAudit = append(report.SecurityAudit, "[Critical] Potential plaintext secret storage detected in DB schema.")
		report.TechnicalDebt = append(report.TechnicalDebt, "Refactor: Move secrets to dedicated KMS or Hashicorp Vault.")
	case hasUserTable:
		report.SecurityAudit = append(report.SecurityAudit, "[Safe] User table detected with no plaintext password storage.")
	}

	hasAuthPath := false
	for _, c := range eng.APIContracts {
		if strings.Contains(c.Endpoint, "/auth") {
			hasAuthPath = true
		}
	}
	if !hasAuthPath && bp.ArchitectureMode == "Enterprise Grade" {
		report.SecurityAudit = append(report.SecurityAudit, "[High Risk] Enterprise mode selected but no explicit Auth contracts defined.")
	}

	for _, t := range eng.DatabaseSchema {
		if len(t.Indexes) == 0 {
			report.PerformanceAudit = append(report.PerformanceAudit,
				fmt.Sprintf("[Warning] Table '%s' lacks explicit indexes. Potential full-table scans.", t.Table))
			report.TechnicalDebt = append(report.TechnicalDebt,
				fmt.Sprintf("Add indexes to '%s' foreign keys and frequently queried columns.", t.Table))
		}
	}

	distributed := strings.Contains(strings.ToLower(bp.RecommendedStack.Backend), "distributed")
	hasCache := false
	for _, d := range eng.KeyDependencies {
		if strings.Contains(d, "redis") || strings.Contains(d, "cache") {
			hasCache = true
		}
	}
	if distributed && !hasCache {
		report.PerformanceAudit = append(report.PerformanceAudit, "[Bottleneck] High-scale backend detected without a distributed caching layer.")
		report.TechnicalDebt = append(report.TechnicalDebt, "Implementation: Integrate Redis for hot-path caching.")
	}

	score := 100
	for _, s := range report.SecurityAudit {
		if strings.Contains(s, "[Critical]") || strings.Contains(s, "[High Risk]") {
			score -= blockerPenalty
		}
	}
	for _, s := range report.PerformanceAudit {
		if strings.Contains(s, "[Warning]") || strings.Contains(s, "[Bottleneck]") {
			score -= warningPenalty
		}
	}
	if score < 0 {
		score = 0
	}
	report.Score = score
	return report
}

// simulateLoad maps the architecture onto an estimated concurrency ceiling.
func simulateLoad(bp *models.Blueprint) models.PerformanceReport {
	var report models.PerformanceReport
	switch {
	case bp.Archetype.SelectedArchetype == models.ArchetypeMicroservices:
		report = models.PerformanceReport{
			MaxUsers:        75000,
			Bottleneck:      "Network Overhead / Service Mesh Latency",
			LatencyP99:      "250ms",
			Recommendations: []string{"Optimize gRPC payload serialization"},
		}
	case strings.Contains(strings.ToLower(bp.RecommendedStack.Infra), "vercel"):
		report = models.PerformanceReport{
			MaxUsers:        25000,
			Bottleneck:      "Cold Start / Concurrency Limits",
			LatencyP99:      "450ms (Tail)",
			Recommendations: []string{"Implement Provisioned Concurrency for Auth service"},
		}
	default:
		report = models.PerformanceReport{
			MaxUsers:        12000,
			Bottleneck:      "Single Process Memory Pressure",
			LatencyP99:      "120ms",
			Recommendations: []string{"Vertical scale to 8vCPU / 32GB RAM"},
		}
	}

	for _, d := range bp.EngineeringSpec.KeyDependencies {
		if strings.Contains(strings.ToLower(d), "kafka") {
			report.MaxUsers += 20000
			report.Recommendations = append(report.Recommendations, "Tune Kafka consumer group partition count")
			break
		}
	}
	return report
}

// planDeployment produces the descriptive CI pipeline and manifest.
func planDeployment(bp *models.Blueprint, enterprise bool) models.ShipSpec {
	strategy := "Rolling Update"
	if enterprise {
		strategy = "Blue/Green with Canary Analysis"
	}

	infra := bp.RecommendedStack.Infra
	deployCmd := "cdk deploy"
	if strings.Contains(strings.ToLower(infra), "vercel") {
		deployCmd = "vercel deploy --prod"
	}

	ci := strings.Join([]string{
		"# .github/workflows/deploy.yml",
		"name: CD",
		"on: [push]",
		"jobs:",
		"  deploy:",
		"    runs-on: ubuntu-latest",
		"    steps:",
		"      - uses: actions/checkout@v4",
		"      - run: npm install && npm test",
		"      - name: Deploy to " + strings.SplitN(infra, " ", 2)[0],
		"        run: npx " + deployCmd,
	}, "\n")

	name := bp.StartupSummary
	if len(name) > 15 {
		name = name[:15]
	}
	manifest := strings.Join([]string{
		"// main.tf",
		`resource "cloud_provider_service" "app" {`,
		fmt.Sprintf(`  name        = "%s"`, strings.ReplaceAll(name, " ", "_")),
		fmt.Sprintf(`  mode        = "%s"`, bp.ArchitectureMode),
		fmt.Sprintf(`  stack       = "%s"`, bp.RecommendedStack.Backend),
		`  region      = "us-east-1"`,
		`  auto_scale  = true`,
		"}",
	}, "\n")

	return models.ShipSpec{
		DeploymentStrategy: strategy,
		CIPipeline:         ci,
		InfraManifest:      manifest,
		EnvironmentConfigs: []string{
			"NODE_ENV=production",
			"DATABASE_URL=${SECRET_DB_URL}",
			"DEPLOY_STRATEGY=" + strategy,
		},
	}
}

// packageHandoff names the package after the quoted project in the summary.
func (p *Pipeline) packageHandoff(bp *models.Blueprint, enterprise bool) models.HandoffSpec {
	h := p.catalog.Handoff

	project := h.DefaultProject
	if parts := strings.Split(bp.StartupSummary, `"`); len(parts) > 1 && parts[1] != "" {
		project = parts[1]
	}

	steps := append([]string(nil), h.NextSteps...)
	if enterprise {
		steps = append(steps, h.EnterpriseSteps...)
	}

	links := make([]models.DocumentationLink, 0, len(h.Documentation))
	for _, title := range h.Documentation {
		links = append(links, models.DocumentationLink{Title: title, URL: "#"})
	}

	return models.HandoffSpec{
		ReadinessScore:     bp.Stability.StabilityScore,
		HandoffPackageURL:  fmt.Sprintf("%s/%s-%s.zip", strings.TrimRight(h.BaseURL, "/"), packageSlug(project), bp.RunID),
		NextSteps:          steps,
		DocumentationLinks: links,
	}
}

func packageSlug(project string) string {
	return strings.ReplaceAll(strings.ToLower(project), " ", "-")
}

var archetypeStrategy = map[models.Archetype]string{
	models.ArchetypeMonolith:        "Monolith",
	models.ArchetypeModularMonolith: "Modular monolith",
	models.ArchetypeMicroservices:   "Microservices",
}

func scalingPlan(archetype models.Archetype, highScale bool) []models.ScalingStage {
	scale := "Vertical scaling"
	if highScale {
		scale = "Horizontal autoscaling"
	}
	return []models.ScalingStage{
		{Stage: "Seed Phase", Strategy: archetypeStrategy[archetype]},
		{Stage: "Scale Phase", Strategy: scale},
	}
}

// collectRisks lists tension lines, then gate failures, then contradictions.
func collectRisks(stability models.StabilityResult, gate models.QualityGateResult, sc models.SanitizedConstraints) []string {
	risks := make([]string, 0, len(stability.Tensions)+len(gate.FailedChecks)+len(sc.ContradictionFlags))
	for _, t := range stability.Tensions {
		risks = append(risks, t.Title+": "+t.Description)
	}
	for _, f := range gate.FailedChecks {
		risks = append(risks, f.Description)
	}
	risks = append(risks, sc.ContradictionFlags...)
	return risks
}
