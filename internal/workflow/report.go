package workflow

import (
	"fmt"
	"strings"
)

// buildReport renders the sourcer-facing summary of one submission. The report
// is plain text, one fact per line, so it reads cleanly in a terminal or a
// chat message.
func buildReport(res *SubmissionResult) string {
	var b strings.Builder

	switch res.AcceptedCount {
	case 1:
		b.WriteString("1 candidate accepted.\n")
	default:
		fmt.Fprintf(&b, "%d candidates accepted.\n", res.AcceptedCount)
	}

	if len(res.Duplicates) > 0 {
		fmt.Fprintf(&b, "%d duplicate URL(s) skipped (already in the system):\n", len(res.Duplicates))
		for _, url := range res.Duplicates {
			fmt.Fprintf(&b, "  - %s\n", url)
		}
	}

	if len(res.Rejected) > 0 {
		fmt.Fprintf(&b, "%d candidate(s) rejected:\n", len(res.Rejected))
		for _, r := range res.Rejected {
			fmt.Fprintf(&b, "  - %s (score %d): %s\n", r.Name, r.Score, r.Reasoning)
		}
	}

	fmt.Fprintf(&b, "JOB PROGRESS: %d/%d (%d%% complete)\n", res.TotalAccepted, res.Requested, res.Progress)

	if res.Complete {
		b.WriteString("This job is now complete. Thank you!")
	} else {
		fmt.Fprintf(&b, "Submit %d more accepted candidate(s) to complete this job.", res.StillNeeded)
	}

	return b.String()
}
