package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/wiggitywhitney/commit-story-sub002/pkg/models"
)

// jsonlLine is the raw shape of one transcript line. Only the fields the
// engine needs are decoded; everything else is ignored.
type jsonlLine struct {
	Type        string          `json:"type"`
	SessionID   string          `json:"sessionId"`
	UUID        string          `json:"uuid"`
	IsMeta      bool            `json:"isMeta,omitempty"`
	CWD         string          `json:"cwd"`
	Timestamp   string          `json:"timestamp"`
	ResumedFrom string          `json:"resumedFrom,omitempty"`
	Message     json.RawMessage `json:"message,omitempty"`
}

// jsonlMessage is the message field of a transcript line.
type jsonlMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// rawBlock is one element of an array-shaped message content.
type rawBlock struct {
	Type  string         `json:"type"`
	Text  string         `json:"text,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"`
}

// blockFilePath extracts the file_path string from a tool input map, or ""
// when absent or not a string.
func blockFilePath(input map[string]any) string {
	if input == nil {
		return ""
	}
	fp, ok := input["file_path"].(string)
	if !ok {
		return ""
	}
	return fp
}

// parseFile stream-parses one JSONL transcript file. Lines that are not
// well-formed records are skipped and counted; they never fail the file.
func parseFile(path string) ([]models.TranscriptRecord, int, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from our own directory walk
	if err != nil {
		return nil, 0, fmt.Errorf("opening transcript %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var records []models.TranscriptRecord
	malformed := 0

	scanner := bufio.NewScanner(f)
	// Large buffer: assistant lines with embedded tool output routinely
	// exceed the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		rec, ok := parseLine(line)
		if !ok {
			malformed++
			continue
		}
		if rec != nil {
			records = append(records, *rec)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, malformed, fmt.Errorf("reading transcript %s: %w", path, err)
	}
	return records, malformed, nil
}

// parseLine decodes one line into a normalized record. It returns (nil, true)
// for well-formed lines of types the engine does not correlate (summaries,
// file snapshots), and (nil, false) for malformed lines.
func parseLine(line []byte) (*models.TranscriptRecord, bool) {
	var entry jsonlLine
	if err := json.Unmarshal(line, &entry); err != nil {
		return nil, false
	}

	var role models.Role
	switch entry.Type {
	case "user", "human":
		role = models.RoleHuman
	case "assistant":
		role = models.RoleAssistant
	default:
		// Known non-conversational types pass through silently.
		return nil, true
	}

	if entry.SessionID == "" || entry.Timestamp == "" {
		return nil, false
	}
	ts, err := parseTimestamp(entry.Timestamp)
	if err != nil {
		return nil, false
	}

	text, blocks := normalizeContent(entry.Message)

	return &models.TranscriptRecord{
		SessionID:        entry.SessionID,
		RecordID:         entry.UUID,
		Timestamp:        ts,
		Role:             role,
		IsInternal:       entry.IsMeta,
		WorkingDirectory: entry.CWD,
		Text:             text,
		Blocks:           blocks,
		ResumedFrom:      entry.ResumedFrom,
	}, true
}

// normalizeContent collapses the string-or-block-array union of
// message.content into one internal representation: concatenated text plus
// typed blocks. Thinking blocks are dropped here so downstream code never
// sees them.
func normalizeContent(raw json.RawMessage) (string, []models.ContentBlock) {
	if len(raw) == 0 {
		return "", nil
	}

	var msg jsonlMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", nil
	}
	if len(msg.Content) == 0 {
		return "", nil
	}

	// Plain string content first.
	var plain string
	if err := json.Unmarshal(msg.Content, &plain); err == nil {
		return plain, nil
	}

	var rawBlocks []rawBlock
	if err := json.Unmarshal(msg.Content, &rawBlocks); err != nil {
		return "", nil
	}

	var parts []string
	var blocks []models.ContentBlock
	for _, b := range rawBlocks {
		switch b.Type {
		case "text":
			if b.Text != "" {
				parts = append(parts, b.Text)
				blocks = append(blocks, models.ContentBlock{Type: models.BlockText, Text: b.Text})
			}
		case "tool_use":
			blocks = append(blocks, models.ContentBlock{
				Type:     models.BlockToolUse,
				ToolName: b.Name,
				FilePath: blockFilePath(b.Input),
			})
		case "tool_result":
			blocks = append(blocks, models.ContentBlock{Type: models.BlockToolResult})
		case "thinking":
			// Dropped.
		}
	}
	return strings.Join(parts, "\n"), blocks
}

// parseTimestamp parses an ISO 8601 timestamp, with and without sub-second
// precision.
func parseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}
