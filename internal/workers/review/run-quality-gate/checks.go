// internal/workers/review/run-quality-gate/checks.go
package runqualitygate

import "archai-workers/internal/models"

type check struct {
	id          string
	description string
	fix         string
	structural  bool // a failure caps the status at FAILED_SOFT
	fails       func(in *Input) bool
}

var checks = []check{
	{
		id:          "CC-001",
		description: "PRD has no personas.",
		fix:         "Add at least one concrete persona.",
		structural:  true,
		fails:       func(in *Input) bool { return len(in.Requirements.Personas) == 0 },
	},
	{
		id:          "CC-002",
		description: "PRD has no feature inventory.",
		fix:         "Generate complete feature list with priorities.",
		structural:  true,
		fails:       func(in *Input) bool { return len(in.Requirements.Features) == 0 },
	},
	{
		id:          "CC-003",
		description: "PRD has no P0 MVP features.",
		fix:         "Mark launch-critical features as P0.",
		fails: func(in *Input) bool {
			for _, f := range in.Requirements.Features {
				if models.NormalizePriority(f.Priority) == "P0" {
					return false
				}
			}
			return true
		},
	},
	{
		id:          "CC-004",
		description: "PRD has no acceptance criteria.",
		fix:         "Add GIVEN/WHEN/THEN acceptance criteria.",
		structural:  true,
		fails:       func(in *Input) bool { return len(in.Requirements.AcceptanceCriteria) == 0 },
	},
	{
		id:          "CC-006",
		description: "Compliance declared but NFR section is empty.",
		fix:         "Add compliance NFR controls and audits.",
		fails: func(in *Input) bool {
			frameworks := in.Intake.ComplianceFrameworks
			return len(frameworks) > 0 && frameworks[0] != "none" &&
				len(in.Requirements.NonFunctionalRequirements) == 0
		},
	},
	{
		id:          "CC-013",
		description: "Realtime declared but scalability NFR lacks concurrent connection handling.",
		fix:         "Add realtime connection/concurrency NFR.",
		fails: func(in *Input) bool {
			return in.Intake.RequiresRealTime && !in.Requirements.HasNFR("concurrent", "real-time")
		},
	},
	{
		id:          "CC-014",
		description: "Background jobs declared but queue/retry requirements are missing.",
		fix:         "Add queue provider and retry semantics to NFR.",
		fails: func(in *Input) bool {
			return in.Intake.RequiresBackgroundJobs && !in.Requirements.HasNFR("queue", "retry")
		},
	},
	{
		id:          "CC-015",
		description: "Read replica required but not represented in NFR.",
		fix:         "Add read-replica topology requirement.",
		fails: func(in *Input) bool {
			return in.Intake.ReadReplicaRequired && !in.Requirements.HasNFR("replica")
		},
	},
	{
		id:          "CC-011",
		description: "Forced archetype with high stability should be justified.",
		fix:         "Add explicit ADR rationale or relax forced rule.",
		fails: func(in *Input) bool {
			return in.Archetype.SelectionMethod == models.SelectionForced && in.Stability.StabilityScore >= 75
		},
	},
}
