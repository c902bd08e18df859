package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	UserID string    // learner filter
}

// ProfileRecord is the persisted form of a learner profile. Data holds the
// JSON-encoded profile; Domain and MasteryScore are denormalized for listing.
type ProfileRecord struct {
	UserID       string
	Data         json.RawMessage
	Domain       string
	MasteryScore int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileRepo loads and saves learner profiles.
type ProfileRepo interface {
	// Load returns the profile for userID, or nil if none exists.
	Load(ctx context.Context, userID string) (*ProfileRecord, error)

	// Save inserts or replaces the profile.
	Save(ctx context.Context, rec *ProfileRecord) error

	// List returns profiles ordered by most recently updated.
	List(ctx context.Context, limit int) ([]ProfileRecord, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	UserID       string // learner the call was made for, if any
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates token usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// Progress event kinds.
const (
	KindOnboarded        = "onboarded"
	KindReclassified     = "reclassified"
	KindUseCaseCompleted = "use_case_completed"
	KindProgramStarted   = "program_started"
	KindWeekSubmitted    = "week_submitted"
	KindWeekReviewed     = "week_reviewed"
	KindWeekReviewFailed = "week_review_failed"
	KindAdminChanged     = "admin_changed"
)

// ProgressEventData captures a learner progress transition.
type ProgressEventData struct {
	UserID        string
	Kind          string
	RefID         string // use case or program id
	WeekNo        *int
	MasteryBefore int
	MasteryAfter  int
	Detail        string
}

// ProgressEventRecord is a stored progress event.
type ProgressEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ProgressEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendProgressEvent records a learner progress transition.
	AppendProgressEvent(ctx context.Context, data ProgressEventData) error

	// QueryProgressEvents returns progress events, newest first.
	QueryProgressEvents(ctx context.Context, opts QueryOpts) ([]ProgressEventRecord, error)

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns a single LLM event by ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates LLM usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates LLM usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
