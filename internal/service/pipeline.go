package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nkarpov/entrypad/internal/common"
	"github.com/nkarpov/entrypad/internal/models"
	"github.com/nkarpov/entrypad/internal/repositories/entries"
)

// pipelineState carries an entry and its transient plaintext through the
// save pipeline. The changed set decides which fields get re-encrypted at
// the end; ciphertext of untouched fields is left as stored.
type pipelineState struct {
	repo  entries.Repository
	entry *models.Entry

	title string
	body  string
	tags  string

	changed models.FieldSet
}

// pipelineStep is one ordered stage of the save pipeline. A returned error
// halts the pipeline and fails the save.
type pipelineStep struct {
	name string
	run  func(ctx context.Context, st *pipelineState) error
}

// savePipeline fixes the save-time order: assign identifier, infer and
// validate category, sanitize tags, synthesize title, encrypt changed
// fields.
func (s *EntryService) savePipeline() []pipelineStep {
	return []pipelineStep{
		{"assign public id", s.assignPublicID},
		{"classify", s.classify},
		{"sanitize tags", s.sanitizeTags},
		{"synthesize title", s.synthesizeTitle},
		{"encrypt", s.encryptChanged},
	}
}

func (s *EntryService) runPipeline(ctx context.Context, st *pipelineState) error {
	for _, step := range s.savePipeline() {
		if err := step.run(ctx, st); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

// assignPublicID gives a first-save entry its owner-scoped public id. An id
// assigned earlier is immutable and left alone.
func (s *EntryService) assignPublicID(ctx context.Context, st *pipelineState) error {
	if st.entry.PublicID != "" {
		return nil
	}

	id, err := s.generatePublicID(ctx, st)
	if err != nil {
		return err
	}
	st.entry.PublicID = id
	return nil
}

// classify reruns tag classification when the entry is still uncategorized
// or its tags changed, then validates the result. Classify defaults to Note,
// so the validation can only trip if the classifier itself regresses.
func (s *EntryService) classify(ctx context.Context, st *pipelineState) error {
	if st.entry.Category == models.CategoryUncategorized || st.changed.Has(models.FieldTags) {
		st.entry.Category = models.Classify(models.SplitTags(st.tags))
	}

	if st.entry.Category == models.CategoryUncategorized {
		return common.ErrCategoryUncategorized
	}
	return nil
}

func (s *EntryService) sanitizeTags(ctx context.Context, st *pipelineState) error {
	st.tags = models.SanitizeTags(st.tags)
	return nil
}

// synthesizeTitle fills a blank title with the per-owner sequential
// template. The sequence number can collide under concurrent creation by
// the same owner; titles are not required to be unique.
func (s *EntryService) synthesizeTitle(ctx context.Context, st *pipelineState) error {
	if strings.TrimSpace(st.title) == "" {
		count, err := st.repo.CountByOwner(ctx, st.entry.UserID)
		if err != nil {
			return err
		}
		st.title = models.SynthesizeTitle(st.entry.Category, count+1)
		st.changed.Add(models.FieldTitle)
	}

	if st.title == "" {
		return common.ErrTitleEmpty
	}
	return nil
}

// encryptChanged re-encrypts exactly the dirty fields, keeping stored
// ciphertext stable for everything else.
func (s *EntryService) encryptChanged(ctx context.Context, st *pipelineState) error {
	var err error
	if st.changed.Has(models.FieldTitle) {
		if st.entry.Title, err = s.cipher.EncryptString(st.title); err != nil {
			return err
		}
	}
	if st.changed.Has(models.FieldBody) {
		if st.entry.Body, err = s.cipher.EncryptString(st.body); err != nil {
			return err
		}
	}
	if st.changed.Has(models.FieldTags) {
		if st.entry.Tags, err = s.cipher.EncryptString(st.tags); err != nil {
			return err
		}
	}
	return nil
}
