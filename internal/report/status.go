package report

import "dangerreport/internal/danger"

const (
	WarningsOnlyMessage = "Found only warnings, not failing the build."
	AllGreenMessage     = "All green. Nothing to report."
)

// MessageForResults is the short description posted with a commit status.
func MessageForResults(results danger.ResultSet) string {
	switch {
	case len(results.Fails) > 0:
		return FixableMessage
	case len(results.Warnings) > 0:
		return WarningsOnlyMessage
	default:
		return AllGreenMessage
	}
}

// StatusState maps a result set to a commit status state.
func StatusState(results danger.ResultSet) string {
	if results.HasFails() {
		return "failure"
	}
	return "success"
}
