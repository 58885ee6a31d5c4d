package session

import (
	"time"
)

// Tab names the active panel of the studio UI.
type Tab string

const (
	TabIdeas    Tab = "ideas"
	TabMakeover Tab = "makeover"
)

// ParseTab normalizes a tab name; unknown names fall back to the ideas tab.
func ParseTab(raw string) (Tab, bool) {
	switch Tab(raw) {
	case TabIdeas, TabMakeover:
		return Tab(raw), true
	default:
		return TabIdeas, false
	}
}

// Kind identifies a workflow.
type Kind string

const (
	KindIdeas    Kind = "ideas"
	KindHero     Kind = "hero"
	KindCard     Kind = "card"
	KindMakeover Kind = "makeover"
	KindRemoval  Kind = "removal"
)

// Target is the UI slot a run writes to. Cards carry their idea ID as Key.
type Target struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key,omitempty"`
}

func (t Target) String() string {
	if t.Key == "" {
		return string(t.Kind)
	}
	return string(t.Kind) + ":" + t.Key
}

// Status is the coarse state of a workflow run.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Stage labels are for display only.
type Stage string

const (
	StageGeneratingIdeas   Stage = "GeneratingIdeas"
	StageGeneratingImage   Stage = "GeneratingImage"
	StageAnalyzingPhoto    Stage = "AnalyzingPhoto"
	StageInventoryingItems Stage = "InventoryingItems"
)

// FailureKind classifies why a run failed.
type FailureKind string

const (
	FailureTransport       FailureKind = "transport"
	FailureHTTPStatus      FailureKind = "http_status"
	FailureProviderMessage FailureKind = "provider_message"
	FailureExtraction      FailureKind = "extraction"
	FailureStageDependency FailureKind = "stage_dependency"
	FailureTimeout         FailureKind = "timeout"
	FailureCanceled        FailureKind = "canceled"
)

// Failure is the user-visible error attached to a failed run.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Stage   Stage       `json:"stage,omitempty"`
	Cause   FailureKind `json:"cause,omitempty"`
	Status  int         `json:"status,omitempty"`
	Message string      `json:"message"`
}

// Run is one invocation of a workflow for a target.
type Run struct {
	ID         string     `json:"id"`
	Seq        uint64     `json:"seq"`
	Target     Target     `json:"target"`
	Status     Status     `json:"status"`
	Stage      Stage      `json:"stage,omitempty"`
	Failure    *Failure   `json:"failure,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Settled reports whether the run reached a terminal state.
func (r Run) Settled() bool {
	return r.Status == StatusSucceeded || r.Status == StatusFailed
}

// DesignIdea is one decorating suggestion produced by the model.
type DesignIdea struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Products    []string `json:"products"`
}

// Quality selects the image generation tier.
type Quality string

const (
	QualityStandard Quality = "standard"
	QualityHD       Quality = "hd"
)

// GeneratedImage is a rendering plus the parameters that produced it.
type GeneratedImage struct {
	URL       string    `json:"url"`
	MediaKey  string    `json:"media_key,omitempty"`
	StyleID   string    `json:"style_id"`
	RoomLabel string    `json:"room_label"`
	Extra     string    `json:"extra,omitempty"`
	Quality   Quality   `json:"quality"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at"`
}

// Upload is the photo handed over by the upload collaborator.
type Upload struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Filename   string    `json:"filename"`
	MIME       string    `json:"mime"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// IdeasResult is the slice owned by the ideas workflow.
type IdeasResult struct {
	Run     Run          `json:"run"`
	StyleID string       `json:"style_id"`
	RoomID  string       `json:"room_id"`
	Ideas   []DesignIdea `json:"ideas"`
}

// ImageResult is the slice owned by the hero and card workflows.
type ImageResult struct {
	Run   Run             `json:"run"`
	Image *GeneratedImage `json:"image,omitempty"`
}

// MakeoverResult is the slice owned by the makeover workflow. Analysis
// survives a failed image stage so it can still be shown.
type MakeoverResult struct {
	Run       Run             `json:"run"`
	StyleID   string          `json:"style_id"`
	UploadKey string          `json:"upload_key,omitempty"`
	Analysis  string          `json:"analysis,omitempty"`
	Image     *GeneratedImage `json:"image,omitempty"`
}

// RemovalResult is the slice owned by the item removal workflow.
type RemovalResult struct {
	Run           Run             `json:"run"`
	SourceURL     string          `json:"source_url"`
	DetectedItems []string        `json:"detected_items,omitempty"`
	RemovedItems  []string        `json:"removed_items,omitempty"`
	Image         *GeneratedImage `json:"image,omitempty"`
}

// Snapshot is a consistent copy of the whole session.
type Snapshot struct {
	StyleID   string                 `json:"style_id,omitempty"`
	RoomID    string                 `json:"room_id,omitempty"`
	Tab       Tab                    `json:"tab"`
	Upload    *Upload                `json:"upload,omitempty"`
	Ideas     IdeasResult            `json:"ideas"`
	Hero      ImageResult            `json:"hero"`
	Cards     map[string]ImageResult `json:"cards"`
	Makeover  MakeoverResult         `json:"makeover"`
	Removal   RemovalResult          `json:"removal"`
	Rendering *GeneratedImage        `json:"rendering,omitempty"`
}
