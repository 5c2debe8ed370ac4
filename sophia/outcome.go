package sophia

// Outcome is the result of validating end-user credentials upstream.
// A zero Outcome is a denial; upstream faults are reported as errors,
// not outcomes.
type Outcome struct {
	Granted     bool
	SubjectID   string
	DisplayName string
}
