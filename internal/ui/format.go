package ui

import "fmt"

// StepFormat returns "Step n/total: message", or just message when the
// counters do not make sense.
func StepFormat(step, total int, message string) string {
	if step < 1 || total < 1 || step > total {
		return message
	}
	return fmt.Sprintf("Step %d/%d: %s", step, total, message)
}
