// internal/models/intake.go
package models

import "strings"

// Intake is the structured requirements intake accepted at the pipeline
// boundary. It is treated as immutable once validated.
type Intake struct {
	// Identity
	ProjectName       string   `json:"projectName,omitempty"`
	Description       string   `json:"description"`
	SolutionSummary   string   `json:"solutionSummary,omitempty"`
	ProjectType       string   `json:"projectType,omitempty"`
	Industry          string   `json:"industry,omitempty"`
	TargetUsers       string   `json:"targetUsers,omitempty"`
	PrimaryUserType   string   `json:"primaryUserType,omitempty"`
	TargetGeographies []string `json:"targetGeographies,omitempty"`
	CoreFeatures      []string `json:"coreFeatures,omitempty"`

	// Free-form hints
	BudgetTier      string `json:"budgetTier,omitempty"`
	ScaleHint       string `json:"scaleHint,omitempty"`
	ComplianceHints string `json:"complianceHints,omitempty"`
	StackHints      string `json:"stackHints,omitempty"`

	// Strategic intent: lean_mvp | scalable_startup | vc_ready | enterprise_grade
	ArchitectureIntent string `json:"architectureIntent,omitempty"`

	// Scale
	UsersAtLaunch       string `json:"usersAtLaunch,omitempty"`
	UsersAt12Months     string `json:"usersAt12Months,omitempty"`
	UsersAt36Months     string `json:"usersAt36Months,omitempty"`
	PeakConcurrentUsers string `json:"peakConcurrentUsers,omitempty"`
	PeakRPS             string `json:"peakRPS,omitempty"`

	// Team and budget
	FundingStage                string `json:"fundingStage,omitempty"`
	DevTeamSize                 string `json:"devTeamSize,omitempty"`
	MvpTimelineDays             int    `json:"mvpTimelineDays,omitempty"`
	MonthlyInfrastructureBudget string `json:"monthlyInfrastructureBudget,omitempty"`

	// Reliability
	AcceptableDowntimePerMonth string `json:"acceptableDowntimePerMonth,omitempty"`
	RTO                        string `json:"rto,omitempty"`
	RPO                        string `json:"rpo,omitempty"`

	// Compliance and data
	ComplianceFrameworks []string `json:"complianceFrameworks,omitempty"`
	PIIDataCollected     []string `json:"piiDataCollected,omitempty"`
	DataClassification   []string `json:"dataClassification,omitempty"`

	// Realtime
	RequiresRealTime          bool     `json:"requiresRealTime,omitempty"`
	RealTimeFeatures          []string `json:"realTimeFeatures,omitempty"`
	RealTimeProtocol          string   `json:"realTimeProtocol,omitempty"`
	RealTimeScale             string   `json:"realTimeScale,omitempty"`
	RealTimeDeliveryGuarantee string   `json:"realTimeDeliveryGuarantee,omitempty"`

	// Async work
	RequiresBackgroundJobs bool   `json:"requiresBackgroundJobs,omitempty"`
	JobQueuePreference     string `json:"jobQueuePreference,omitempty"`
	MessageQueueRequired   bool   `json:"messageQueueRequired,omitempty"`

	// AI
	RequiresAI           bool     `json:"requiresAI,omitempty"`
	AIFeatures           []string `json:"aiFeatures,omitempty"`
	AIProvider           []string `json:"aiProvider,omitempty"`
	AIDataPrivacy        string   `json:"aiDataPrivacy,omitempty"`
	AIMonthlyCostCeiling string   `json:"aiMonthlyCostCeiling,omitempty"`

	// Performance and platform
	TargetFCP          string `json:"targetFCP,omitempty"`
	TargetAPIP95       string `json:"targetApiP95,omitempty"`
	RenderingStrategy  string `json:"renderingStrategy,omitempty"`
	ColdStartTolerance string `json:"coldStartTolerance,omitempty"`
	DeploymentPlatform string `json:"deploymentPlatform,omitempty"`

	// Data layer
	PrimaryDatabase     string `json:"primaryDatabase,omitempty"`
	ConnectionPooling   string `json:"connectionPooling,omitempty"`
	CacheLayerRequired  bool   `json:"cacheLayerRequired,omitempty"`
	CacheTechnology     string `json:"cacheTechnology,omitempty"`
	ReadReplicaRequired bool   `json:"readReplicaRequired,omitempty"`

	// Tenancy and files
	IsMultiTenant         bool   `json:"isMultiTenant,omitempty"`
	TenantIsolationModel  string `json:"tenantIsolationModel,omitempty"`
	RequiresFileStorage   bool   `json:"requiresFileStorage,omitempty"`
	ObjectStorageProvider string `json:"objectStorageProvider,omitempty"`

	// Observability
	OpenTelemetryRequired bool   `json:"openTelemetryRequired,omitempty"`
	LoggingProvider       string `json:"loggingProvider,omitempty"`
}

const (
	FundingBootstrapped     = "bootstrapped"
	FundingPreSeed          = "pre_seed"
	FundingSeed             = "seed"
	FundingSeriesA          = "series_a"
	FundingSeriesB          = "series_b"
	FundingSeriesCPlus      = "series_c_plus"
	FundingEnterpriseBudget = "enterprise_budget"
	FundingGovernment       = "government"

	TeamSolo       = "solo"
	TeamSmall      = "small"
	TeamMedium     = "medium"
	TeamLarge      = "large"
	TeamEnterprise = "enterprise"

	Users1kTo10k   = "1k_to_10k"
	Users10kTo100k = "10k_to_100k"
	Users100kTo1m  = "100k_to_1m"
	UsersOver1m    = "over_1m"

	IntentLeanMVP         = "lean_mvp"
	IntentScalableStartup = "scalable_startup"
	IntentVCReady         = "vc_ready"
	IntentEnterpriseGrade = "enterprise_grade"
)

// Compliance returns the declared frameworks with the "none" placeholder removed.
func (in *Intake) Compliance() []string {
	out := make([]string, 0, len(in.ComplianceFrameworks))
	for _, f := range in.ComplianceFrameworks {
		f = strings.TrimSpace(strings.ToLower(f))
		if f == "" || f == "none" {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (in *Intake) HasCompliance(framework string) bool {
	return containsFold(in.ComplianceFrameworks, framework)
}

func (in *Intake) UsesAIProvider(providers ...string) bool {
	for _, p := range providers {
		if containsFold(in.AIProvider, p) {
			return true
		}
	}
	return false
}

func (in *Intake) IsFundingAtMostSeed() bool {
	switch in.FundingStage {
	case FundingBootstrapped, FundingPreSeed, FundingSeed:
		return true
	}
	return false
}

func (in *Intake) IsFundingAtMostSeriesA() bool {
	return in.IsFundingAtMostSeed() || in.FundingStage == FundingSeriesA
}

func (in *Intake) IsLateFunding() bool {
	switch in.FundingStage {
	case FundingSeriesB, FundingSeriesCPlus, FundingEnterpriseBudget, FundingGovernment:
		return true
	}
	return false
}

// IsMidMarketOrHigher reports 10k+ users expected at twelve months.
func (in *Intake) IsMidMarketOrHigher() bool {
	switch in.UsersAt12Months {
	case Users10kTo100k, Users100kTo1m, UsersOver1m:
		return true
	}
	return false
}

// IsLargeScale reports 100k+ users expected at twelve months.
func (in *Intake) IsLargeScale() bool {
	return in.UsersAt12Months == Users100kTo1m || in.UsersAt12Months == UsersOver1m
}

// EffectiveIntent returns the declared architecture intent, deriving one from
// the funding stage when none was given.
func (in *Intake) EffectiveIntent() string {
	if in.ArchitectureIntent != "" {
		return in.ArchitectureIntent
	}
	switch in.FundingStage {
	case FundingEnterpriseBudget, FundingGovernment:
		return IntentEnterpriseGrade
	case FundingSeriesA, FundingSeriesB, FundingSeriesCPlus:
		return IntentVCReady
	case FundingPreSeed, FundingSeed:
		return IntentScalableStartup
	default:
		return IntentLeanMVP
	}
}

func containsFold(list []string, value string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), value) {
			return true
		}
	}
	return false
}

func containsAnyFold(s string, needles ...string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
