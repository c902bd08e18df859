package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// ProfilesColumns holds the columns for the "profiles" table.
	ProfilesColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "data", Type: field.TypeJSON},
		{Name: "domain", Type: field.TypeString, Default: ""},
		{Name: "mastery_score", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ProfilesTable holds the schema information for the "profiles" table.
	ProfilesTable = &schema.Table{
		Name:       "profiles",
		Columns:    ProfilesColumns,
		PrimaryKey: []*schema.Column{ProfilesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "profile_updated_at", Unique: false, Columns: []*schema.Column{ProfilesColumns[5]}},
		},
	}

	// ProgressEventsColumns holds the columns for the "progress_events" table.
	ProgressEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "ref_id", Type: field.TypeString, Default: ""},
		{Name: "week_no", Type: field.TypeInt, Nullable: true},
		{Name: "mastery_before", Type: field.TypeInt, Default: 0},
		{Name: "mastery_after", Type: field.TypeInt, Default: 0},
		{Name: "detail", Type: field.TypeString, Default: ""},
	}
	// ProgressEventsTable holds the schema information for the "progress_events" table.
	ProgressEventsTable = &schema.Table{
		Name:       "progress_events",
		Columns:    ProgressEventsColumns,
		PrimaryKey: []*schema.Column{ProgressEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "progressevent_user_id", Unique: false, Columns: []*schema.Column{ProgressEventsColumns[3]}},
			{Name: "progressevent_kind", Unique: false, Columns: []*schema.Column{ProgressEventsColumns[4]}},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "user_id", Type: field.TypeString, Default: ""},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_provider", Unique: false, Columns: []*schema.Column{LlmRequestEventsColumns[3]}},
			{Name: "llmrequestevent_purpose", Unique: false, Columns: []*schema.Column{LlmRequestEventsColumns[5]}},
			{Name: "llmrequestevent_success", Unique: false, Columns: []*schema.Column{LlmRequestEventsColumns[9]}},
			{Name: "llmrequestevent_user_id", Unique: false, Columns: []*schema.Column{LlmRequestEventsColumns[13]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ProfilesTable,
		ProgressEventsTable,
		LlmRequestEventsTable,
	}
)
