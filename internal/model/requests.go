package model

// Request and response bodies of the REST API.

type NewQuestion struct {
	Text     string `json:"text"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// QuestionUpdate is always sent whole: text and time frame travel together.
type QuestionUpdate struct {
	Text      string `json:"text"`
	TimeFrame string `json:"time_frame"`
	Status    string `json:"status,omitempty"`
}

type NewToResolve struct {
	Text string `json:"text"`
}

// ToResolvePatch carries only the fields being changed.
type ToResolvePatch struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

type Answer struct {
	Text string `json:"text"`
}

type MarkdownExport struct {
	Markdown string `json:"markdown"`
}
