package service

import (
	"context"
	"errors"

	"github.com/nkarpov/entrypad/internal/common"
	"github.com/nkarpov/entrypad/internal/cryptox"
)

const (
	// publicIDBytes is the entropy of a public identifier: 5 random bytes,
	// encoded as 10 hex characters. The length is part of the stored-data
	// contract and must not change.
	publicIDBytes = 5

	// maxPublicIDAttempts bounds the collision-retry loop. Legitimate
	// collisions at this length are vanishingly rare, so exhausting the
	// budget is surfaced as common.ErrIdentifierSpace instead of looping
	// forever on a broken random source.
	maxPublicIDAttempts = 100
)

// generatePublicID produces a fresh owner-scoped public identifier,
// retrying until the store reports no entry with the same (owner, id) pair.
func (s *EntryService) generatePublicID(ctx context.Context, st *pipelineState) (string, error) {
	for attempt := 1; attempt <= maxPublicIDAttempts; attempt++ {
		id, err := cryptox.RandHexString(publicIDBytes)
		if err != nil {
			return "", err
		}

		_, err = st.repo.GetByPublicID(ctx, st.entry.UserID, id)
		if errors.Is(err, common.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}

		s.logger.Warn(ctx, "public id collision, retrying",
			"user_id", st.entry.UserID, "attempt", attempt)
	}

	return "", common.ErrIdentifierSpace
}
