// cmd/tools/blueprint-cli/render.go
package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"archai-workers/internal/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).MarginTop(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(18)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
)

// statusStyle colors audit statuses, risk levels and tension severities.
func statusStyle(label string) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	switch label {
	case string(models.AuditPassed), string(models.RiskLow):
		style = style.Foreground(lipgloss.Color("42"))
	case string(models.AuditRepaired), string(models.RiskMedium), string(models.SeverityWarning):
		style = style.Foreground(lipgloss.Color("214"))
	case string(models.AuditFailed), string(models.RiskHigh), string(models.RiskCritical), string(models.SeverityCritical):
		style = style.Foreground(lipgloss.Color("196"))
	}
	return style
}

func renderReport(bp *models.Blueprint) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Architecture blueprint " + bp.RunID))
	b.WriteString("\n")

	if bp.Halted() {
		b.WriteString(renderClarification(bp.Clarification))
		b.WriteString(renderAudit(bp.ExecutionAudit))
		return b.String()
	}

	b.WriteString(boxStyle.Render(bp.StartupSummary))
	b.WriteString("\n")
	b.WriteString(kv("Mode", bp.ArchitectureMode))
	b.WriteString(kv("Stability", fmt.Sprintf("%d/100", bp.StabilityScore)))
	b.WriteString(kv("Risk level", statusStyle(string(bp.RiskLevel)).Render(string(bp.RiskLevel))))
	b.WriteString(kv("Archetype", fmt.Sprintf("%s (%s)", bp.Archetype.SelectedArchetype, bp.Archetype.SelectionMethod)))
	b.WriteString(kv("Quality gate", fmt.Sprintf("%s, score %d", bp.QualityGate.Status, bp.QualityGate.Score)))

	b.WriteString(section("Stack"))
	b.WriteString(kv("Frontend", bp.RecommendedStack.Frontend))
	b.WriteString(kv("Backend", bp.RecommendedStack.Backend))
	b.WriteString(kv("Database", bp.RecommendedStack.Database))
	b.WriteString(kv("Infra", bp.RecommendedStack.Infra))

	b.WriteString(section("Services"))
	for _, svc := range bp.Services {
		b.WriteString(kv(svc.Name, svc.Responsibility))
	}

	b.WriteString(section("Tensions"))
	if len(bp.Stability.Tensions) == 0 {
		b.WriteString(mutedStyle.Render("  none") + "\n")
	}
	for _, t := range bp.Stability.Tensions {
		b.WriteString(fmt.Sprintf("  %s %s %s\n", t.ID, statusStyle(string(t.Severity)).Render(string(t.Severity)), t.Title))
	}

	b.WriteString(section("Risks"))
	if len(bp.Risks) == 0 {
		b.WriteString(mutedStyle.Render("  none") + "\n")
	}
	for _, r := range bp.Risks {
		b.WriteString("  - " + r + "\n")
	}

	b.WriteString(section("Delivery"))
	b.WriteString(kv("QA score", fmt.Sprintf("%d", bp.QAReport.Score)))
	b.WriteString(kv("Breakpoint", fmt.Sprintf("%d CCU (%s)", bp.PerformanceReport.MaxUsers, bp.PerformanceReport.Bottleneck)))
	b.WriteString(kv("Rollout", bp.ShipSpec.DeploymentStrategy))
	b.WriteString(kv("Package", bp.HandoffSpec.HandoffPackageURL))
	for _, stage := range bp.ScalingPlan {
		b.WriteString(kv(stage.Stage, stage.Strategy))
	}

	b.WriteString(renderAudit(bp.ExecutionAudit))
	return b.String()
}

func renderClarification(c models.Clarification) string {
	var b strings.Builder
	b.WriteString(section(fmt.Sprintf("Clarification needed (clarity %d/100)", c.ClarityScore)))
	for _, q := range c.Questions {
		line := fmt.Sprintf("  [%s] %s", q.ID, q.Label)
		if len(q.Options) > 0 {
			line += mutedStyle.Render(" (" + strings.Join(q.Options, " | ") + ")")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(mutedStyle.Render("  Re-run with -answers answers.json to resume.") + "\n")
	return b.String()
}

func renderAudit(audit models.ExecutionAudit) string {
	var b strings.Builder
	b.WriteString(section(fmt.Sprintf("Execution audit v%s (%d repairs, %dms)",
		audit.OrchestratorVersion, audit.TotalRepairs, audit.TotalDurationMs)))
	for _, e := range audit.History {
		status := statusStyle(string(e.Status)).Width(9).Render(string(e.Status))
		b.WriteString(fmt.Sprintf("  %-4s %s %-26s %s\n", e.ID, status, e.Stage, mutedStyle.Render(e.Details)))
		for _, r := range e.Repairs {
			b.WriteString(mutedStyle.Render("         repair: "+r) + "\n")
		}
	}
	return b.String()
}

func section(title string) string {
	return sectionStyle.Render(title) + "\n"
}

func kv(label, value string) string {
	return labelStyle.Render(label) + " " + value + "\n"
}
