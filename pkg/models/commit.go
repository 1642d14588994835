package models

import "time"

// Commit is the immutable metadata of a single git commit, read once per
// correlation run and never mutated afterwards.
type Commit struct {
	Hash        string    `json:"hash"`
	Ref         string    `json:"ref"`
	Message     string    `json:"message"`
	Diff        string    `json:"diff,omitempty"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	Timestamp   time.Time `json:"timestamp"`
	// RepoPath is the absolute path of the repository the commit was read
	// from. Transcript records must match it exactly to be correlated.
	RepoPath string `json:"repo_path"`
}

// ShortHash returns the abbreviated commit hash used in journal headings.
func (c Commit) ShortHash() string {
	if len(c.Hash) < 8 {
		return c.Hash
	}
	return c.Hash[:8]
}
