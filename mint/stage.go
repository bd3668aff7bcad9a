package mint

// Stage is the closed enumeration of pipeline states. Each stage carries a
// fixed progress floor, so the emitted percentage sequence is non-decreasing
// by construction rather than by convention.
type Stage int

const (
	StageIdle Stage = iota
	StageValidating
	StageUploading
	StageBuildingMetadata
	StageAwaitingSignature
	StageAwaitingConfirmation
	StageSucceeded
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageValidating:
		return "validating"
	case StageUploading:
		return "uploading"
	case StageBuildingMetadata:
		return "building_metadata"
	case StageAwaitingSignature:
		return "awaiting_signature"
	case StageAwaitingConfirmation:
		return "awaiting_confirmation"
	case StageSucceeded:
		return "succeeded"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// Percent is the stage's progress floor in [0,100].
func (s Stage) Percent() int {
	switch s {
	case StageUploading:
		return 20
	case StageBuildingMetadata:
		return 50
	case StageAwaitingSignature:
		return 70
	case StageAwaitingConfirmation:
		return 90
	case StageSucceeded:
		return 100
	}
	return 0
}

// Message is the human-readable step description shown while the stage
// runs.
func (s Stage) Message() string {
	switch s {
	case StageValidating:
		return "Validating prerequisites..."
	case StageUploading:
		return "Uploading evidence to IPFS..."
	case StageBuildingMetadata:
		return "Building metadata document..."
	case StageAwaitingSignature:
		return "Awaiting wallet signature..."
	case StageAwaitingConfirmation:
		return "Confirming on the public ledger..."
	case StageSucceeded:
		return "Evidence recorded"
	}
	return ""
}

// Progress is one emitted pipeline progress event.
type Progress struct {
	Step    int    `json:"step"`
	Message string `json:"message"`
	Percent int    `json:"progress"`
}

// ProgressFunc receives progress events during one submission run.
type ProgressFunc func(Progress)
