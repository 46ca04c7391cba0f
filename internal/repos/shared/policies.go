package shared

// ConfirmationPolicy specifies how executors should handle user confirmations.
type ConfirmationPolicy int

const (
	// ConfirmationPrompt indicates the executor should prompt the user.
	ConfirmationPrompt ConfirmationPolicy = iota
	// ConfirmationAssumeYes indicates the executor should continue without prompting.
	ConfirmationAssumeYes
)

// ConfirmationPolicyFromBool converts boolean flags into a policy.
func ConfirmationPolicyFromBool(assumeYes bool) ConfirmationPolicy {
	if assumeYes {
		return ConfirmationAssumeYes
	}
	return ConfirmationPrompt
}

// ShouldPrompt reports whether the executor must prompt the user.
func (policy ConfirmationPolicy) ShouldPrompt() bool {
	return policy != ConfirmationAssumeYes
}

// RequestConfirmation applies the policy, consulting the prompter only when prompting is required.
// A missing prompter under the prompting policy is treated as a decline.
func (policy ConfirmationPolicy) RequestConfirmation(prompter ConfirmationPrompter, prompt string, requiredPhrase string) (bool, error) {
	if !policy.ShouldPrompt() {
		return true, nil
	}
	if prompter == nil {
		return false, nil
	}
	return prompter.Confirm(prompt, requiredPhrase)
}
