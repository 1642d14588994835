package filter

import "github.com/wiggitywhitney/commit-story-sub002/pkg/models"

// estimateTokens approximates the token cost of s with the chars/4 proxy.
func estimateTokens(s string) int {
	return (len(s) + charsPerToken - 1) / charsPerToken
}

// estimatePayload estimates the combined token cost of the commit message,
// diff, and all record text.
func estimatePayload(commit models.Commit, records []models.TranscriptRecord) int {
	total := estimateTokens(commit.Message) + estimateTokens(commit.Diff)
	for _, r := range records {
		total += estimateTokens(r.Text)
	}
	return total
}
