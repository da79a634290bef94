// internal/workers/analysis/analyze-stability/rules.go
package analyzestability

import (
	"archai-workers/internal/models"
)

type tensionRule struct {
	id          string
	severity    models.Severity
	title       string
	description string
	mitigation  string
	when        func(in *models.Intake) bool
}

var externalAIProviders = []string{"openai", "anthropic", "google_gemini"}

func bootstrapped(in *models.Intake) bool { return in.FundingStage == models.FundingBootstrapped }
func solo(in *models.Intake) bool { return in.DevTeamSize == models.TeamSolo }

// tensionRules is evaluated in order; every matching rule contributes one
// tension.
var tensionRules = []tensionRule{
	{
		id:          "T-BS-002",
		severity:    models.SeverityWarning,
		title:       "Bootstrap vs scale mismatch",
		description: "Bootstrapped funding with 1M+ users in 12 months is operationally high risk.",
		mitigation:  "Reduce launch scope or increase budget before scale milestones.",
		when: func(in *models.Intake) bool {
			return bootstrapped(in) && in.UsersAt12Months == models.UsersOver1m
		},
	},
	{
		id:          "T-BS-004",
		severity:    models.SeverityWarning,
		title:       "Low infra budget pressure",
		description: "Very low infrastructure budget constrains reliability and managed service choices.",
		mitigation:  "Prioritize managed essentials and postpone non-critical capabilities.",
		when: func(in *models.Intake) bool {
			return bootstrapped(in) &&
				(in.MonthlyInfrastructureBudget == "under_50" || in.MonthlyInfrastructureBudget == "50_to_200")
		},
	},
	{
		id:          "T-BS-005",
		severity:    models.SeverityCritical,
		title:       "SLA exceeds bootstrap capacity",
		description: "99.99% uptime target is typically incompatible with bootstrap operations.",
		mitigation:  "Relax SLA or fund HA multi-region operations.",
		when: func(in *models.Intake) bool {
			return bootstrapped(in) && in.AcceptableDowntimePerMonth == "under_5min"
		},
	},
	{
		id:          "T-TC-003",
		severity:    models.SeverityCritical,
		title:       "Realtime under compressed timeline",
		description: "Realtime infrastructure inside a 14-day window is unlikely to be production ready.",
		mitigation:  "Reduce realtime scope or extend MVP timeline.",
		when: func(in *models.Intake) bool {
			return in.RequiresRealTime && in.MvpTimelineDays <= 14
		},
	},
	{
		id:          "T-TC-005",
		severity:    models.SeverityCritical,
		title:       "Solo capacity overload",
		description: "Solo team + short timeline + mid-market scale is unstable.",
		mitigation:  "Reduce scope or add engineering capacity.",
		when: func(in *models.Intake) bool {
			return solo(in) && in.MvpTimelineDays <= 30 && in.IsMidMarketOrHigher()
		},
	},
	{
		id:          "T-CB-001",
		severity:    models.SeverityCritical,
		title:       "HIPAA on bootstrap",
		description: "HIPAA control and audit obligations are expensive for bootstrap operations.",
		mitigation:  "Increase budget and compliance staffing before launch.",
		when: func(in *models.Intake) bool {
			return in.HasCompliance("hipaa") && bootstrapped(in)
		},
	},
	{
		id:          "T-CB-002",
		severity:    models.SeverityCritical,
		title:       "SOC2 Type II on bootstrap",
		description: "SOC2 Type II continuous evidence and audit costs are usually incompatible with bootstrap.",
		mitigation:  "Stage compliance effort or secure additional funding.",
		when: func(in *models.Intake) bool {
			return in.HasCompliance("soc2_type2") && bootstrapped(in)
		},
	},
	{
		id:          "T-CB-003",
		severity:    models.SeverityWarning,
		title:       "GDPR operational load",
		description: "GDPR can be done on bootstrap, but requires disciplined data workflows.",
		mitigation:  "Implement DSR workflows and retention controls early.",
		when: func(in *models.Intake) bool {
			return in.HasCompliance("gdpr") && bootstrapped(in)
		},
	},
	{
		id:          "T-CB-004",
		severity:    models.SeverityCritical,
		title:       "PCI-DSS funding mismatch",
		description: "PCI-DSS obligations are heavy for pre-seed/seed budgets.",
		mitigation:  "Use tokenized third-party payment handling and defer direct card scope.",
		when: func(in *models.Intake) bool {
			return in.HasCompliance("pci_dss") && in.IsFundingAtMostSeed()
		},
	},
	{
		id:          "T-CB-005",
		severity:    models.SeverityCritical,
		title:       "FedRAMP readiness mismatch",
		description: "FedRAMP authorization typically exceeds early-stage budget and timeline.",
		mitigation:  "Target non-FedRAMP segment first or secure enterprise/government funding.",
		when: func(in *models.Intake) bool {
			return in.HasCompliance("fedramp") && in.IsFundingAtMostSeriesA()
		},
	},
	{
		id:          "T-AT-004",
		severity:    models.SeverityInfo,
		title:       "Observability setup overhead",
		description: "Full OpenTelemetry instrumentation is significant for a solo team.",
		mitigation:  "Start with critical traces and expand iteratively.",
		when: func(in *models.Intake) bool {
			return in.OpenTelemetryRequired && solo(in)
		},
	},
	{
		id:          "T-PI-001",
		severity:    models.SeverityWarning,
		title:       "Aggressive API latency without cache",
		description: "Sub-100ms p95 without caching can become fragile under load.",
		mitigation:  "Enable cache layer for hot paths and rate limits.",
		when: func(in *models.Intake) bool {
			return in.TargetAPIP95 == "under_100ms" && !in.CacheLayerRequired
		},
	},
	{
		id:          "T-PI-003",
		severity:    models.SeverityCritical,
		title:       "Zero cold-start on serverless",
		description: "Zero cold-start tolerance conflicts with serverless behavior.",
		mitigation:  "Use always-on compute or relax cold-start requirement.",
		when: func(in *models.Intake) bool {
			return in.ColdStartTolerance == "zero" && in.DeploymentPlatform == "vercel"
		},
	},
	{
		id:          "T-PI-004",
		severity:    models.SeverityWarning,
		title:       "FCP target vs CSR",
		description: "Sub-1s FCP is difficult with CSR-only rendering.",
		mitigation:  "Use SSR/SSG/ISR on critical routes.",
		when: func(in *models.Intake) bool {
			return in.TargetFCP == "under_1s" && in.RenderingStrategy == "csr"
		},
	},
	{
		id:          "T-PI-005",
		severity:    models.SeverityCritical,
		title:       "Missing DB pooling at high RPS",
		description: "High RPS without connection pooling can exhaust DB connections.",
		mitigation:  "Enable PgBouncer or managed pooler.",
		when: func(in *models.Intake) bool {
			return (in.PeakRPS == "1k_to_10k" || in.PeakRPS == "over_10k") && in.ConnectionPooling == "none"
		},
	},
	{
		id:          "T-RT-001",
		severity:    models.SeverityCritical,
		title:       "Polling at extreme realtime scale",
		description: "Polling at 10k+ concurrent users creates unsustainable server load.",
		mitigation:  "Switch to WebSocket/SSE with pub/sub.",
		when: func(in *models.Intake) bool {
			return in.RequiresRealTime && in.RealTimeScale == "over_10k_concurrent" && in.RealTimeProtocol == "polling"
		},
	},
	{
		id:          "T-RT-002",
		severity:    models.SeverityWarning,
		title:       "Exactly-once with SSE",
		description: "SSE requires deduplication to emulate exactly-once delivery.",
		mitigation:  "Add message IDs and consumer-side dedupe guarantees.",
		when: func(in *models.Intake) bool {
			return in.RequiresRealTime && in.RealTimeDeliveryGuarantee == "exactly_once" &&
				in.RealTimeProtocol == "server_sent_events"
		},
	},
	{
		id:          "T-RT-003",
		severity:    models.SeverityWarning,
		title:       "WebSocket on serverless constraints",
		description: "Persistent WebSocket connections are constrained on serverless platforms.",
		mitigation:  "Use dedicated realtime provider/service.",
		when: func(in *models.Intake) bool {
			return in.RequiresRealTime && in.DeploymentPlatform == "vercel" && in.RealTimeProtocol == "websockets"
		},
	},
	{
		id:          "T-AC-001",
		severity:    models.SeverityCritical,
		title:       "HIPAA with external AI provider",
		description: "HIPAA workloads may require strict provider agreements and controls.",
		mitigation:  "Use HIPAA-eligible deployment path and signed BAA.",
		when: func(in *models.Intake) bool {
			return in.RequiresAI && in.HasCompliance("hipaa") && in.UsesAIProvider("openai", "anthropic")
		},
	},
	{
		id:          "T-AC-002",
		severity:    models.SeverityCritical,
		title:       "AI privacy contradiction",
		description: "no_external_ai conflicts with selected external AI providers.",
		mitigation:  "Use self-hosted provider or update privacy requirement.",
		when: func(in *models.Intake) bool {
			return in.RequiresAI && in.AIDataPrivacy == "no_external_ai" && in.UsesAIProvider(externalAIProviders...)
		},
	},
	{
		id:          "T-AC-003",
		severity:    models.SeverityWarning,
		title:       "AI budget underestimation",
		description: "Meaningful text generation usage often exceeds $100/month.",
		mitigation:  "Add caching/quotas or increase AI budget tier.",
		when: func(in *models.Intake) bool {
			return in.RequiresAI && in.AIMonthlyCostCeiling == "under_100" && containsValue(in.AIFeatures, "text_generation")
		},
	},
}

type amplificationRule struct {
	id     string
	reason string
	weight func(c *Config) int
	when   func(in *models.Intake, tensions []models.Tension) bool
}

var amplificationRules = []amplificationRule{
	{
		id:     "AMP-CRITICAL-CLUSTER",
		reason: "three or more critical tensions compound each other",
		weight: func(c *Config) int { return c.Amplifications.CriticalCluster },
		when: func(_ *models.Intake, tensions []models.Tension) bool {
			r := models.StabilityResult{Tensions: tensions}
			return r.CountSeverity(models.SeverityCritical) >= 3
		},
	},
	{
		id:     "AMP-BOOTSTRAP-SCALE",
		reason: "bootstrapped funding with a 60-day timeline and mid-market scale",
		weight: func(c *Config) int { return c.Amplifications.BootstrapScale },
		when: func(in *models.Intake, _ []models.Tension) bool {
			return bootstrapped(in) && in.MvpTimelineDays <= 60 && in.IsMidMarketOrHigher()
		},
	},
	{
		id:     "AMP-COMPLIANCE-LOAD",
		reason: "three or more compliance frameworks at seed funding or earlier",
		weight: func(c *Config) int { return c.Amplifications.ComplianceLoad },
		when: func(in *models.Intake, _ []models.Tension) bool {
			return len(in.Compliance()) >= 3 && in.IsFundingAtMostSeed()
		},
	},
	{
		id:     "AMP-SOLO-COMPLEXITY",
		reason: "solo team carrying realtime or self-hosted AI",
		weight: func(c *Config) int { return c.Amplifications.SoloComplexity },
		when: func(in *models.Intake, _ []models.Tension) bool {
			return solo(in) && (in.RequiresRealTime || (in.RequiresAI && in.AIDataPrivacy == "no_external_ai"))
		},
	},
}

func containsValue(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
