// internal/models/blueprint.go
package models

type ClarificationStatus string

const (
	ClarificationPending  ClarificationStatus = "pending"
	ClarificationResolved ClarificationStatus = "resolved"
	ClarificationSkipped  ClarificationStatus = "skipped"
)

type QuestionType string

const (
	QuestionText   QuestionType = "text"
	QuestionChoice QuestionType = "choice"
	QuestionScale  QuestionType = "scale"
)

type ClarificationQuestion struct {
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"`
}

type Clarification struct {
	Status         ClarificationStatus     `json:"status"`
	ClarityScore   int                     `json:"clarityScore"`
	MissingFields  []string                `json:"missingFields"`
	AmbiguousAreas []string                `json:"ambiguousAreas"`
	Questions      []ClarificationQuestion `json:"questions"`
}

type ProductSpec struct {
	Personas        []string `json:"personas"`
	CoreJourneys    []string `json:"coreJourneys"`
	NonGoals        []string `json:"nonGoals"`
	SuccessCriteria []string `json:"successCriteria"`
}

type RecommendedStack struct {
	Frontend string `json:"frontend"`
	Backend  string `json:"backend"`
	Database string `json:"database"`
	Infra    string `json:"infra"`
}

type Service struct {
	Name           string `json:"name"`
	Responsibility string `json:"responsibility"`
}

type APIContract struct {
	Endpoint    string `json:"endpoint"`
	Method      string `json:"method"`
	Description string `json:"description"`
	Payload     string `json:"payload,omitempty"`
	Response    string `json:"response"`
}

type TableSchema struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
	Indexes []string `json:"indexes,omitempty"`
}

type EngineeringSpec struct {
	FolderStructure []string      `json:"folderStructure"`
	KeyDependencies []string      `json:"keyDependencies"`
	EnvVariables    []string      `json:"envVariables"`
	APIContracts    []APIContract `json:"apiContracts"`
	DatabaseSchema  []TableSchema `json:"databaseSchema"`
}

type QAReport struct {
	Score            int      `json:"score"`
	SecurityAudit    []string `json:"securityAudit"`
	PerformanceAudit []string `json:"performanceAudit"`
	TechnicalDebt    []string `json:"technicalDebt"`
}

type PerformanceReport struct {
	MaxUsers        int      `json:"maxUsers"`
	Bottleneck      string   `json:"bottleneck"`
	LatencyP99      string   `json:"latencyP99"`
	Recommendations []string `json:"recommendations"`
}

type ShipSpec struct {
	DeploymentStrategy string   `json:"deploymentStrategy"`
	CIPipeline         string   `json:"ciPipeline"`
	InfraManifest      string   `json:"infraManifest"`
	EnvironmentConfigs []string `json:"environmentConfigs"`
}

type DocumentationLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type HandoffSpec struct {
	ReadinessScore     int                 `json:"readinessScore"`
	HandoffPackageURL  string              `json:"handoffPackageUrl"`
	NextSteps          []string            `json:"nextSteps"`
	DocumentationLinks []DocumentationLink `json:"documentationLinks"`
}

type ScalingStage struct {
	Stage    string `json:"stage"`
	Strategy string `json:"strategy"`
}

// Blueprint is the single response shape of a pipeline run. A halted run
// carries the clarification section and leaves every other section zeroed.
type Blueprint struct {
	RunID             string               `json:"runId"`
	ExecutionMode     string               `json:"executionMode"`
	StartupSummary    string               `json:"startupSummary"`
	ArchitectureMode  string               `json:"architectureMode"`
	StabilityScore    int                  `json:"stabilityScore"`
	RiskLevel         RiskLevel            `json:"riskLevel"`
	Clarification     Clarification        `json:"clarification"`
	Constraints       SanitizedConstraints `json:"constraints"`
	Stability         StabilityResult      `json:"stabilityAnalysis"`
	Archetype         ArchetypeDecision    `json:"archetype"`
	Requirements      RequirementsDoc      `json:"requirements"`
	ProductSpec       ProductSpec          `json:"productSpec"`
	QualityGate       QualityGateResult    `json:"qualityGate"`
	RecommendedStack  RecommendedStack     `json:"recommendedStack"`
	Services          []Service            `json:"services"`
	EngineeringSpec   EngineeringSpec      `json:"engineeringSpec"`
	QAReport          QAReport             `json:"qaReport"`
	PerformanceReport PerformanceReport    `json:"performanceReport"`
	ShipSpec          ShipSpec             `json:"shipSpec"`
	HandoffSpec       HandoffSpec          `json:"handoffSpec"`
	Validation        ValidationResult     `json:"validation"`
	ScalingPlan       []ScalingStage       `json:"scalingPlan"`
	Risks             []string             `json:"risks"`
	ExecutionAudit    ExecutionAudit       `json:"executionAudit"`
}

// NewBlueprint returns an empty blueprint whose list fields are all non-nil,
// so a halted run serializes every section with the same shape as a completed one.
func NewBlueprint(runID, mode string) *Blueprint {
	return &Blueprint{
		RunID:         runID,
		ExecutionMode: mode,
		Clarification: Clarification{
			MissingFields:  []string{},
			AmbiguousAreas: []string{},
			Questions:      []ClarificationQuestion{},
		},
		Constraints: SanitizedConstraints{
			Compliance:         []string{},
			ContradictionFlags: []string{},
		},
		Stability: StabilityResult{
			Tensions:       []Tension{},
			Amplifications: []Amplification{},
		},
		Archetype: ArchetypeDecision{ForcedReasons: []string{}},
		Requirements: RequirementsDoc{
			Personas:                  []string{},
			UserJourneys:              []string{},
			Features:                  []Feature{},
			AcceptanceCriteria:        []string{},
			NonFunctionalRequirements: []string{},
			EdgeCases:                 []string{},
		},
		ProductSpec: ProductSpec{
			Personas:        []string{},
			CoreJourneys:    []string{},
			NonGoals:        []string{},
			SuccessCriteria: []string{},
		},
		QualityGate: QualityGateResult{FailedChecks: []QualityCheckFailure{}},
		Services:    []Service{},
		EngineeringSpec: EngineeringSpec{
			FolderStructure: []string{},
			KeyDependencies: []string{},
			EnvVariables:    []string{},
			APIContracts:    []APIContract{},
			DatabaseSchema:  []TableSchema{},
		},
		QAReport: QAReport{
			SecurityAudit:    []string{},
			PerformanceAudit: []string{},
			TechnicalDebt:    []string{},
		},
		PerformanceReport: PerformanceReport{Recommendations: []string{}},
		ShipSpec:          ShipSpec{EnvironmentConfigs: []string{}},
		HandoffSpec: HandoffSpec{
			NextSteps:          []string{},
			DocumentationLinks: []DocumentationLink{},
		},
		Validation:     ValidationResult{Critiques: []Critique{}},
		ScalingPlan:    []ScalingStage{},
		Risks:          []string{},
		ExecutionAudit: ExecutionAudit{History: []AuditEntry{}},
	}
}

// SetClarification copies the gate result, keeping empty lists non-nil.
func (b *Blueprint) SetClarification(c Clarification) {
	if c.MissingFields == nil {
		c.MissingFields = []string{}
	}
	if c.AmbiguousAreas == nil {
		c.AmbiguousAreas = []string{}
	}
	if c.Questions == nil {
		c.Questions = []ClarificationQuestion{}
	}
	b.Clarification = c
}

// Halted reports whether the run stopped at the clarification gate.
func (b *Blueprint) Halted() bool {
	return b.Clarification.Status == ClarificationPending
}

// HasService reports whether a service with a name containing any needle exists.
func (b *Blueprint) HasService(needles ...string) bool {
	for _, s := range b.Services {
		if containsAnyFold(s.Name, needles...) {
			return true
		}
	}
	return false
}
