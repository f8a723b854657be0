package models

import (
	"encoding/json"

	"spare-manager/core/registry"
)

// RawRow is one extracted spreadsheet row.
type RawRow struct {
	ErpCode     string
	Description string
	Unit        string
}

// Candidate is an unknown device awaiting a human decision.
type Candidate struct {
	ErpCode      string `json:"erpCode"`
	Model        string `json:"model"`
	Description  string `json:"description"`
	Unit         string `json:"unit"`
	SpareCount   int    `json:"spareCount"`
	Remark       string `json:"remark"`
	IsVulnerable bool   `json:"isVulnerable"`
}

// NewCandidate builds a candidate provisionally marked vulnerable with zeroed spare fields.
func NewCandidate(erpCode, model, description, unit string) Candidate {
	return Candidate{
		ErpCode:      erpCode,
		Model:        model,
		Description:  description,
		Unit:         unit,
		IsVulnerable: true,
	}
}

// Entry is one line of the vulnerable parts report.
type Entry struct {
	ErpCode     string `json:"erpCode"`
	Description string `json:"description"`
	SpareCount  int    `json:"spareCount"`
	Unit        string `json:"unit"`
	Model       string `json:"model"`
	Remark      string `json:"remark"`
}

// VulnerableList is an ordered set of entries keyed by the registry scheme.
// A repeated key replaces the stored value and keeps its first position.
type VulnerableList struct {
	key     registry.KeyFunc
	index   map[string]int
	entries []Entry
}

// NewVulnerableList creates an empty list keyed by key.
func NewVulnerableList(key registry.KeyFunc) *VulnerableList {
	return &VulnerableList{key: key, index: make(map[string]int)}
}

// Add inserts or replaces e. It reports whether the key was new.
func (l *VulnerableList) Add(e Entry) bool {
	k := l.key(e.ErpCode, e.Model)
	if i, ok := l.index[k]; ok {
		l.entries[i] = e
		return false
	}
	l.index[k] = len(l.entries)
	l.entries = append(l.entries, e)
	return true
}

// Merge adds every entry of other in order.
func (l *VulnerableList) Merge(other *VulnerableList) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		l.Add(e)
	}
}

// Len returns the number of entries.
func (l *VulnerableList) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries in insertion order.
func (l *VulnerableList) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Clone returns an independent copy.
func (l *VulnerableList) Clone() *VulnerableList {
	c := NewVulnerableList(l.key)
	c.Merge(l)
	return c
}

// MarshalJSON encodes the list as an array.
func (l *VulnerableList) MarshalJSON() ([]byte, error) {
	if l == nil || l.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.entries)
}

// CandidateQueue is an ordered set of candidates keyed by (model, erpCode)
// whatever the registry scheme. The first candidate seen for a key wins.
type CandidateQueue struct {
	index map[string]struct{}
	items []Candidate
}

// NewCandidateQueue creates an empty queue.
func NewCandidateQueue() *CandidateQueue {
	return &CandidateQueue{index: make(map[string]struct{})}
}

func candidateKey(c Candidate) string {
	return c.Model + "\x00" + c.ErpCode
}

// Add appends c unless its key is already queued. It reports whether c was added.
func (q *CandidateQueue) Add(c Candidate) bool {
	k := candidateKey(c)
	if _, ok := q.index[k]; ok {
		return false
	}
	q.index[k] = struct{}{}
	q.items = append(q.items, c)
	return true
}

// Merge adds every candidate of other in order.
func (q *CandidateQueue) Merge(other *CandidateQueue) {
	if other == nil {
		return
	}
	for _, c := range other.items {
		q.Add(c)
	}
}

// Len returns the number of queued candidates.
func (q *CandidateQueue) Len() int {
	return len(q.items)
}

// Items returns a copy of the queued candidates.
func (q *CandidateQueue) Items() []Candidate {
	return append([]Candidate(nil), q.items...)
}

// MarshalJSON encodes the queue as an array.
func (q *CandidateQueue) MarshalJSON() ([]byte, error) {
	if q == nil || q.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(q.items)
}

// FileResult is the classification of one spreadsheet.
type FileResult struct {
	File          string
	Model         string
	TotalRows     int
	ExtractedRows int
	MatchedWhite  int
	MatchedBlack  int
	Unmatched     int
	Unknown       *CandidateQueue
	Vulnerable    *VulnerableList
}

// NewFileResult creates an empty result for file.
func NewFileResult(file, model string, key registry.KeyFunc) *FileResult {
	return &FileResult{
		File:       file,
		Model:      model,
		Unknown:    NewCandidateQueue(),
		Vulnerable: NewVulnerableList(key),
	}
}

// Summary aggregates the counters of a batch run.
type Summary struct {
	TotalFiles    int `json:"totalFiles"`
	FailedFiles   int `json:"failedFiles"`
	TotalRows     int `json:"totalRows"`
	ExtractedRows int `json:"extractedRows"`
	MatchedWhite  int `json:"matchedWhite"`
	MatchedBlack  int `json:"matchedBlack"`
	Unmatched     int `json:"unmatched"`
	Unknown       int `json:"unknown"`
	Vulnerable    int `json:"vulnerable"`
}
