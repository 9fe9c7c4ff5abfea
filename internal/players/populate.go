package players

import (
	"context"

	"golang.org/x/sync/errgroup"

	"player-profiles/internal/common/errors"
	"player-profiles/internal/common/logging"
	"player-profiles/internal/models"
)

// Outcome is the result of enriching one identity ref. Exactly one of Ref and Err is set.
type Outcome struct {
	Ref *models.IdentityRef
	Err error
}

// Outcomes holds one Outcome per input ref, in input order
type Outcomes []Outcome

// Refs returns the enriched refs with nil in the slots of failed items
func (o Outcomes) Refs() []*models.IdentityRef {
	refs := make([]*models.IdentityRef, len(o))
	for i, outcome := range o {
		refs[i] = outcome.Ref
	}
	return refs
}

// Failed returns the number of failed items
func (o Outcomes) Failed() int {
	n := 0
	for _, outcome := range o {
		if outcome.Err != nil {
			n++
		}
	}
	return n
}

// PopulatePlayers attaches a profile to every ref.
//
// Each ref's profile comes from the profile store when present. Missing profiles are
// built and cached; stale ones are re-cached to restart their freshness window. Items
// run concurrently and independently: a failure is logged and recorded as a
// transient_item error in that item's Outcome while the others complete. The input
// refs are not modified.
func (s *Service) PopulatePlayers(ctx context.Context, refs []models.IdentityRef) Outcomes {
	outcomes := make(Outcomes, len(refs))

	// plain Group: one item's failure must not cancel its siblings
	var g errgroup.Group
	if s.config.BatchConcurrency > 0 {
		g.SetLimit(s.config.BatchConcurrency)
	}

	for i, ref := range refs {
		g.Go(func() error {
			enriched, err := s.populate(ctx, ref)
			if err != nil {
				s.logger.Error("Failed to populate player", err, logging.String("uuid", ref.UUID))
				outcomes[i] = Outcome{Err: errors.TransientItemError(ref.UUID, err)}
				return nil
			}
			outcomes[i] = Outcome{Ref: &enriched}
			return nil
		})
	}
	_ = g.Wait()

	if failed := outcomes.Failed(); failed > 0 {
		s.logger.Warn("Populated players with failures",
			logging.Int("total", len(refs)), logging.Int("failed", failed))
	}
	return outcomes
}

func (s *Service) populate(ctx context.Context, ref models.IdentityRef) (models.IdentityRef, error) {
	if ref.UUID == "" {
		return models.IdentityRef{}, errors.NotFoundError("identity key")
	}
	key := canonicalKey(ref.UUID)

	lookup, err := s.profiles.GetProfile(ctx, key)
	if err != nil {
		return models.IdentityRef{}, err
	}

	switch {
	case lookup.Profile == nil:
		s.logger.Debug("Profile not cached, building", logging.String("uuid", key))
		player, err := s.BuildPlayer(ctx, key)
		if err != nil {
			return models.IdentityRef{}, err
		}
		profile := player.ProfileFor(key)
		if err := s.profiles.CacheProfile(ctx, profile); err != nil {
			return models.IdentityRef{}, err
		}
		return ref.WithProfile(profile), nil

	case lookup.IsFresh:
		return ref.WithProfile(lookup.Profile), nil

	default:
		if err := s.profiles.CacheProfile(ctx, lookup.Profile); err != nil {
			return models.IdentityRef{}, err
		}
		return ref.WithProfile(lookup.Profile), nil
	}
}
