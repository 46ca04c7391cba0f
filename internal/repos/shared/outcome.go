package shared

// RunOutcome records how far a bulk workflow progressed.
type RunOutcome string

// Run outcomes.
const (
	// RunOutcomeNothingToDo indicates the filtered target set was empty.
	RunOutcomeNothingToDo RunOutcome = "nothing_to_do"
	// RunOutcomeCancelled indicates the confirmation gate was not passed and no mutation was issued.
	RunOutcomeCancelled RunOutcome = "cancelled"
	// RunOutcomeCompleted indicates every target received exactly one mutation attempt.
	RunOutcomeCompleted RunOutcome = "completed"
)
