// Package verify provides static and dynamic checks for ladder networks.
//
// Checking runs in two complementary stages:
//
// 1. Static lint (lint.go): structural checks that need no variables
//   - STRUCT: duplicate element ids, ports that differ from the declared
//     ports of a known type, wires that name missing elements or ports
//   - DRIVER: an input port driven by more than one wire (the simulator
//     only ever reads the first)
//   - CYCLE: an element that transitively feeds one of its own inputs
//   - PROPERTY: contacts and coils without a variable, timers and counters
//     without a usable preset, math and compare blocks without an operand
//
// 2. Dry run (report.go): a few scan cycles against seeded variables on a
//    stepping clock, to catch what only shows up at evaluation time.
//
// # Usage Example
//
//	issues := verify.RunLint(net)
//	for _, issue := range issues {
//	    log.Printf("[%s] %s: %s", issue.Type, issue.Element, issue.Message)
//	}
//
//	report := verify.GenerateReport(net, 10, core.Options{})
//	report.WriteReport(os.Stdout)
//
// # Limitations
//
//   - Cycles are reported per strongly connected path found by a depth
//     first walk, so a knot of several loops may show up as fewer issues.
//   - The dry run uses BOOL false and INT 0 for every input, so it does not
//     exercise every branch.
package verify

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// IssueType categorizes lint issues.
type IssueType string

const (
	IssueStruct   IssueType = "STRUCT"   // Malformed element or dangling wire
	IssueDriver   IssueType = "DRIVER"   // Input port with several drivers
	IssueCycle    IssueType = "CYCLE"    // Feedback loop
	IssueProperty IssueType = "PROPERTY" // Missing or unusable property
)

// Issue represents a single lint issue.
type Issue struct {
	Type    IssueType              // STRUCT, DRIVER, CYCLE or PROPERTY
	Element string                 // Element id, empty if not applicable
	Port    string                 // Port name, empty if not applicable
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}

func (i Issue) Error() string {
	switch {
	case i.Element == "":
		return fmt.Sprintf("[%s] %s", i.Type, i.Message)
	case i.Port == "":
		return fmt.Sprintf("[%s] %s: %s", i.Type, i.Element, i.Message)
	default:
		return fmt.Sprintf("[%s] %s.%s: %s", i.Type, i.Element, i.Port, i.Message)
	}
}

// AsError folds issues into one error, or nil if there are none.
func AsError(issues []Issue) error {
	var result *multierror.Error
	for _, issue := range issues {
		result = multierror.Append(result, issue)
	}
	return result.ErrorOrNil()
}

// Filter returns the issues of type t.
func Filter(issues []Issue, t IssueType) []Issue {
	var out []Issue
	for _, issue := range issues {
		if issue.Type == t {
			out = append(out, issue)
		}
	}
	return out
}
