// Package models defines the entry aggregate and its pure domain rules:
// categories, tag-driven classification, tag sanitization and title
// templates.
package models

import "time"

// Category is the inferred kind of an entry. Uncategorized is a transient
// pre-save state only; a persisted entry always carries one of the other
// three values.
type Category string

const (
	CategoryUncategorized Category = "uncategorized"
	CategoryNote          Category = "note"
	CategoryTodo          Category = "todo"
	CategoryReadLater     Category = "read_later"
)

// Field names an encrypted entry field for change tracking.
type Field string

const (
	FieldTitle Field = "title"
	FieldBody  Field = "body"
	FieldTags  Field = "tags"
)

// FieldSet is a set of changed fields. The save pipeline re-encrypts only
// the fields present in the set, so ciphertext stays stable across saves
// that do not touch the plaintext.
type FieldSet map[Field]struct{}

func NewFieldSet(fields ...Field) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

func (s FieldSet) Add(f Field)      { s[f] = struct{}{} }
func (s FieldSet) Has(f Field) bool { _, ok := s[f]; return ok }

// Entry is the aggregate record representing one note/todo/bookmark item.
//
// Title, Body and Tags hold ciphertext blobs (see cryptox); plaintext exists
// only transiently in memory while a save or read operation runs. PublicID
// is a 10-character random hex string unique within the owning user's scope,
// assigned once at first save and immutable thereafter.
type Entry struct {
	ID        string
	UserID    string
	PublicID  string
	Category  Category
	Title     []byte
	Body      []byte
	Tags      []byte
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReadEntry is the optional detail record of a read-later entry, holding the
// source URL. An entry has at most one; destroying the entry removes it.
type ReadEntry struct {
	ID        string
	EntryID   string
	URL       string
	CreatedAt time.Time
}
