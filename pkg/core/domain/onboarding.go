package domain

// Tone classifies a username status message.
type Tone string

const (
	ToneMuted Tone = "muted"
	ToneOK    Tone = "ok"
	ToneError Tone = "error"
)

// UsernameStatus is what the live username check shows next to the input
type UsernameStatus struct {
	Tone Tone   `json:"tone"`
	Text string `json:"text"`
}

// UsernameVerdict is the checker's internal reason behind a status.
type UsernameVerdict int

const (
	UsernameBlank UsernameVerdict = iota
	UsernameBadFormat
	UsernameReserved
	UsernameTaken
	UsernameAvailable
)

// Outcome tags a workflow result.
type Outcome string

const (
	OutcomeDisplay   Outcome = "display"
	OutcomeAdvance   Outcome = "advance"
	OutcomeRedisplay Outcome = "redisplay"
	OutcomeCompleted Outcome = "completed"
)

// OnboardingResult is the answer to every workflow call. Expected outcomes are never errors.
type OnboardingResult struct {
	Outcome  Outcome           `json:"outcome"`
	Step     Step              `json:"step,omitempty"` // Step to show (display/redisplay) or advance to
	Progress int               `json:"progress,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`

	// AlreadyCompleted is set when the profile was onboarded before this call.
	AlreadyCompleted bool `json:"already_completed,omitempty"`
	// SeedLinkRow asks the caller to render one empty link row. Nothing is persisted.
	SeedLinkRow bool `json:"seed_link_row,omitempty"`
}

// AvatarUpload is an image submitted on the avatar step
type AvatarUpload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// OnboardingPayload carries the fields of whichever step is being submitted.
type OnboardingPayload struct {
	GivenName  string        `json:"given_name,omitempty"`
	FamilyName string        `json:"family_name,omitempty"`
	Username   string        `json:"username,omitempty"`
	Bio        string        `json:"bio,omitempty"`
	Links      []LinkChange  `json:"links,omitempty"`
	Avatar     *AvatarUpload `json:"avatar,omitempty"`
}
