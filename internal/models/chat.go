package models

type SafetyVerdict string

const (
	SafetyVerdictNone       SafetyVerdict = "none"
	SafetyVerdictCrisis     SafetyVerdict = "crisis"
	SafetyVerdictOutOfScope SafetyVerdict = "out_of_scope"
)

type Citation struct {
	Title   string `json:"title"`
	ChunkID string `json:"chunk_id"`
}

// SafetyFlags serializes to {} when no verdict fired.
type SafetyFlags struct {
	Crisis     bool `json:"crisis,omitempty"`
	OutOfScope bool `json:"out_of_scope,omitempty"`
}

type ChatResponse struct {
	Reply     string      `json:"reply"`
	Citations []Citation  `json:"citations"`
	Safety    SafetyFlags `json:"safety"`
}
