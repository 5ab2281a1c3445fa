package domain

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Library maintains the deduplicated, locale-sorted exercise-name
// collection of a record. It has no error conditions: every input either
// changes the collection or is a no-op.
type Library struct {
	collator *collate.Collator
}

// NewLibrary builds a Library sorting with the collation rules of tag.
func NewLibrary(tag language.Tag) *Library {
	return &Library{collator: collate.New(tag)}
}

// Add inserts a trimmed name unless it is empty or an entry already matches
// case-insensitively, then re-sorts the collection. It reports whether the
// record changed.
func (l *Library) Add(rec *Record, name string) bool {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return false
	}
	for _, existing := range rec.Exercises {
		if strings.EqualFold(existing, clean) {
			return false
		}
	}
	rec.Exercises = append(rec.Exercises, clean)
	l.collator.SortStrings(rec.Exercises)
	return true
}
