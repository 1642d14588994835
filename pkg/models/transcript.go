package models

import "time"

// Role identifies which side of the conversation produced a record.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// BlockType identifies the kind of a typed content block.
type BlockType string

const (
	BlockText       BlockType = "text"
	BlockToolUse    BlockType = "tool_use"
	BlockToolResult BlockType = "tool_result"
)

// ContentBlock is one typed block of a structured message body. Thinking
// blocks are dropped at the parse boundary and never appear here.
type ContentBlock struct {
	Type     BlockType `json:"type"`
	Text     string    `json:"text,omitempty"`
	ToolName string    `json:"tool_name,omitempty"`
	// FilePath is the file a tool invocation targeted, when its input
	// carried one. Used for path-exclusion filtering.
	FilePath string `json:"file_path,omitempty"`
}

// TranscriptRecord is one parsed line of an assistant-session transcript,
// normalized so that downstream code never branches on the raw JSONL shape:
// Text holds all concatenated text content and Blocks the typed blocks.
// Records are immutable once parsed and are never written back to disk.
type TranscriptRecord struct {
	SessionID        string         `json:"session_id"`
	RecordID         string         `json:"record_id"`
	Timestamp        time.Time      `json:"timestamp"`
	Role             Role           `json:"role"`
	IsInternal       bool           `json:"is_internal,omitempty"`
	WorkingDirectory string         `json:"cwd"`
	Text             string         `json:"text,omitempty"`
	Blocks           []ContentBlock `json:"blocks,omitempty"`
	// ResumedFrom carries the session identifier this record's session
	// continues, when the assistant tool recorded an explicit resume
	// marker on the line. Empty for ordinary records.
	ResumedFrom string `json:"resumed_from,omitempty"`
}

// ToolBlocksOnly reports whether the record's content consists exclusively of
// tool invocations and tool results, with no text at all.
func (r TranscriptRecord) ToolBlocksOnly() bool {
	if r.Text != "" || len(r.Blocks) == 0 {
		return false
	}
	for _, b := range r.Blocks {
		if b.Type != BlockToolUse && b.Type != BlockToolResult {
			return false
		}
	}
	return true
}

// Session is a non-empty, timestamp-ordered run of records sharing one
// session identifier. Sessions live for the duration of a single
// correlation request and are never persisted.
type Session struct {
	ID      string
	Records []TranscriptRecord
	// ResumedFrom is the session this one explicitly continues, taken from
	// the first record that carries a resume marker.
	ResumedFrom string
}

// StartTime returns the timestamp of the session's first record.
func (s *Session) StartTime() time.Time {
	if len(s.Records) == 0 {
		return time.Time{}
	}
	return s.Records[0].Timestamp
}

// EndTime returns the timestamp of the session's last record.
func (s *Session) EndTime() time.Time {
	if len(s.Records) == 0 {
		return time.Time{}
	}
	return s.Records[len(s.Records)-1].Timestamp
}

// Overlaps reports whether two sessions' time ranges intersect.
func (s *Session) Overlaps(other *Session) bool {
	if len(s.Records) == 0 || len(other.Records) == 0 {
		return false
	}
	return !s.EndTime().Before(other.StartTime()) && !other.EndTime().Before(s.StartTime())
}
