package verify

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/afero"

	"github.com/sarchlab/ladderlogic/core"
	"github.com/sarchlab/ladderlogic/ladder"
)

// VerificationReport represents a complete verification report.
type VerificationReport struct {
	NetworkID       string
	ElementCount    int
	ConnectionCount int
	LintIssues      []Issue
	IssuesByType    map[IssueType][]Issue
	DryRunCycles    int
	SimulationErr   error
	SimulationOK    bool
	Variables       *core.VariableStore
}

// stepClock advances by a fixed step every time it is read.
type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// GenerateReport runs lint and a dry run of the given number of cycles.
func GenerateReport(net *ladder.Network, cycles int, opts core.Options) *VerificationReport {
	report := &VerificationReport{
		NetworkID:       net.ID,
		ElementCount:    len(net.Elements),
		ConnectionCount: len(net.Connections),
		IssuesByType:    map[IssueType][]Issue{},
		DryRunCycles:    cycles,
	}

	report.LintIssues = RunLint(net)
	for _, issue := range report.LintIssues {
		report.IssuesByType[issue.Type] = append(report.IssuesByType[issue.Type], issue)
	}

	ctx := core.NewContext(&stepClock{step: 100 * time.Millisecond}, opts)
	core.SeedVariables(net, ctx.Variables)
	for i := 0; i < cycles; i++ {
		if _, err := core.RunCycle(net, ctx); err != nil {
			report.SimulationErr = err
			break
		}
	}
	report.SimulationOK = report.SimulationErr == nil
	report.Variables = ctx.Variables

	return report
}

// Passed reports whether lint found nothing and the dry run succeeded.
func (r *VerificationReport) Passed() bool {
	return len(r.LintIssues) == 0 && r.SimulationOK
}

// WriteReport writes a formatted report to a writer.
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "NETWORK VERIFICATION REPORT: %s\n", r.NetworkID)
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "\n%d elements, %d connections\n", r.ElementCount, r.ConnectionCount)

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "No lint issues found")
	} else {
		fmt.Fprintf(w, "Found %d lint issues:\n\n", len(r.LintIssues))

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Type", "Element", "Port", "Message"})
		for _, issue := range r.LintIssues {
			t.AppendRow(table.Row{issue.Type, issue.Element, issue.Port, issue.Message})
		}
		t.Render()
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: DRY RUN")
	fmt.Fprintln(w, separator)

	if r.SimulationOK {
		fmt.Fprintf(w, "%d scan cycles completed\n", r.DryRunCycles)
		if r.Variables != nil && r.Variables.Len() > 0 {
			core.RenderVariables(w, r.Variables)
		}
	} else {
		fmt.Fprintf(w, "Dry run error: %v\n", r.SimulationErr)
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues (%d STRUCT, %d DRIVER, %d CYCLE, %d PROPERTY)\n",
		len(r.LintIssues),
		len(r.IssuesByType[IssueStruct]),
		len(r.IssuesByType[IssueDriver]),
		len(r.IssuesByType[IssueCycle]),
		len(r.IssuesByType[IssueProperty]),
	)
	status := "SUCCESS"
	if !r.SimulationOK {
		status = "FAILED: " + r.SimulationErr.Error()
	}
	fmt.Fprintf(w, "Dry Run Result: %s\n", status)

	if r.Passed() {
		fmt.Fprintln(w, "NETWORK PASSED ALL CHECKS")
	}
	fmt.Fprintln(w)
}

// SaveReportToFile saves the report to a file.
func (r *VerificationReport) SaveReportToFile(fs afero.Fs, filename string) error {
	file, err := fs.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
