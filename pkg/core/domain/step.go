package domain

// Step is one page of the onboarding workflow.
type Step string

const (
	StepName     Step = "name"
	StepUsername Step = "username"
	StepBio      Step = "bio"
	StepLinks    Step = "links"
	StepAvatar   Step = "avatar"

	// StepFinalize follows the last step. It is never displayed.
	StepFinalize Step = "finalize"
)

// Steps is the canonical onboarding order.
var Steps = []Step{StepName, StepUsername, StepBio, StepLinks, StepAvatar}

// FirstStep is where a new or unrecognised request lands.
func FirstStep() Step {
	return Steps[0]
}

func IsValidStep(s Step) bool {
	return indexOf(s) >= 0
}

// ParseStep maps raw request input onto a step, defaulting to the first one.
func ParseStep(raw string) Step {
	s := Step(raw)
	if !IsValidStep(s) {
		return FirstStep()
	}
	return s
}

// ProgressPercent is 100*(index+1)/len(Steps). Unknown steps report the first step's value.
func ProgressPercent(s Step) int {
	i := indexOf(s)
	if i < 0 {
		i = 0
	}
	return 100 * (i + 1) / len(Steps)
}

// NextStep returns the step after s, or StepFinalize after the last one.
func NextStep(s Step) Step {
	i := indexOf(s)
	if i < 0 {
		return FirstStep()
	}
	if i == len(Steps)-1 {
		return StepFinalize
	}
	return Steps[i+1]
}

// Skippable steps may be passed over without a payload.
func (s Step) Skippable() bool {
	switch s {
	case StepBio, StepLinks, StepAvatar:
		return true
	}
	return false
}

func indexOf(s Step) int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}
