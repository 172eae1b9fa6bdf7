package model

import (
	"strconv"
	"strings"
	"time"
)

// Status is the lifecycle of a set build.
type Status string

const (
	StatusPlanning   Status = "PLANNING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Session is one timed record for a single bag.
type Session struct {
	BagNumber         int    `json:"bagNumber"`
	DurationInSeconds int    `json:"durationInSeconds"`
	Timestamp         string `json:"timestamp"`
}

// Set is a tracked build project.
type Set struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SetNumber   string    `json:"setNumber"`
	TotalPieces int       `json:"totalPieces"`
	TotalBags   int       `json:"totalBags"`
	Image       string    `json:"image,omitempty"`
	Status      Status    `json:"status"`
	Sessions    []Session `json:"sessions"`
	CurrentBag  int       `json:"currentBag"`
	CreatedAt   string    `json:"createdAt"`
	Theme       string    `json:"theme,omitempty"`
}

// Clone returns a copy that does not share the sessions slice.
func (s Set) Clone() Set {
	out := s
	out.Sessions = append([]Session{}, s.Sessions...)
	return out
}

// Draft holds the new-set form. Numeric fields stay as text until the set is
// created so that partially typed or AI-filled values round-trip unchanged.
type Draft struct {
	Name        string
	SetNumber   string
	TotalPieces string
	TotalBags   string
	Theme       string
	ImageURL    string
}

// Pieces is the declared piece count, 0 when the field does not parse.
func (d Draft) Pieces() int {
	n := LeadingInt(d.TotalPieces, 0)
	if n < 0 {
		return 0
	}
	return n
}

// Bags is the declared bag count, 1 when the field does not parse or is below 1.
func (d Draft) Bags() int {
	n := LeadingInt(d.TotalBags, 1)
	if n < 1 {
		return 1
	}
	return n
}

// Merge overwrites the draft's fields with the non-empty values of other.
func (d Draft) Merge(other Draft) Draft {
	if other.Name != "" {
		d.Name = other.Name
	}
	if other.SetNumber != "" {
		d.SetNumber = other.SetNumber
	}
	if other.TotalPieces != "" {
		d.TotalPieces = other.TotalPieces
	}
	if other.TotalBags != "" {
		d.TotalBags = other.TotalBags
	}
	if other.Theme != "" {
		d.Theme = other.Theme
	}
	if other.ImageURL != "" {
		d.ImageURL = other.ImageURL
	}
	return d
}

// Citation is a web source returned by a grounded search.
type Citation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// SearchResult is a text-search lookup: draft fields plus image and sources.
type SearchResult struct {
	Draft   Draft
	Sources []Citation
}

// LeadingInt parses the leading integer of s the way a lenient form field
// does: "12 bags" is 12, "  7" is 7, "abc" and "" yield def.
func LeadingInt(s string, def int) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return def
	}
	return n
}

// Now formats t the way timestamps are stored.
func Now(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
