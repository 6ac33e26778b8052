// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package workspace

import (
	"context"
	"log/slog"
	"slices"

	"github.com/samber/oops"

	"github.com/collate-app/collate/internal/observability"
)

// ServiceConfig holds dependencies for Service.
type ServiceConfig struct {
	PropertyRepo PropertyRepository
	FilterRepo   FilterRepository
	Transactor   Transactor
	Logger       *slog.Logger
}

// Service orchestrates multi-repository workspace operations.
type Service struct {
	propertyRepo PropertyRepository
	filterRepo   FilterRepository
	transactor   Transactor
	logger       *slog.Logger
}

// NewService creates a new Service with the given configuration.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		propertyRepo: cfg.PropertyRepo,
		filterRepo:   cfg.FilterRepo,
		transactor:   cfg.Transactor,
		logger:       logger,
	}
}

// Reorder swaps the ordinal of a property with its immediate neighbor in the
// requested direction and returns the collection's refreshed property list.
// The collection is derived from the property itself. A move at either
// boundary is a no-op, not an error.
func (s *Service) Reorder(ctx context.Context, propID int32, dir Direction) ([]Prop, error) {
	prop, err := s.propertyRepo.Get(ctx, propID)
	if err != nil {
		return nil, oops.Code("PROP_REORDER_FAILED").With("prop_id", propID).Wrap(err)
	}
	collectionID := prop.CollectionID

	neighborOrdinal := prop.Ordinal - 1
	if dir == MoveDown {
		neighborOrdinal = prop.Ordinal + 1
	}

	neighbors, err := s.propertyRepo.ListByOrdinals(ctx, collectionID, []int16{neighborOrdinal})
	if err != nil {
		return nil, oops.Code("PROP_REORDER_FAILED").With("prop_id", propID).Wrap(err)
	}
	if len(neighbors) == 0 {
		// Already first or last.
		return s.propertyRepo.ListByCollection(ctx, collectionID)
	}
	if len(neighbors) != 1 {
		return nil, oops.Code("PROP_ORDINAL_CONFLICT").
			With("collection_id", collectionID).
			With("ordinal", neighborOrdinal).
			With("count", len(neighbors)).
			Errorf("collection %d does not have exactly one property at ordinal %d", collectionID, neighborOrdinal)
	}
	neighbor := neighbors[0]

	prop.Ordinal, neighbor.Ordinal = neighbor.Ordinal, prop.Ordinal

	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.propertyRepo.Save(ctx, prop); err != nil {
			return err
		}
		return s.propertyRepo.Save(ctx, neighbor)
	})
	if err != nil {
		return nil, oops.Code("PROP_REORDER_FAILED").With("prop_id", propID).Wrap(err)
	}

	observability.RecordWorkspaceOp("property_reorder")
	s.logger.Debug("reordered property",
		"prop_id", prop.ID,
		"direction", dir.String(),
		"ordinal", prop.Ordinal,
	)

	return s.propertyRepo.ListByCollection(ctx, collectionID)
}

// CreateFilter creates a filter on a property after verifying that the
// predicate is supported for the property's type and that the collection
// still has filter capacity.
func (s *Service) CreateFilter(ctx context.Context, propID int32, ft FilterType) (Filter, error) {
	prop, err := s.propertyRepo.Get(ctx, propID)
	if err != nil {
		return Filter{}, oops.Code("FILTER_CREATE_FAILED").With("prop_id", propID).Wrap(err)
	}

	if !slices.Contains(SupportedFilterTypes(prop.Type), ft) {
		return Filter{}, oops.Code("FILTER_COMBINATION_UNSUPPORTED").
			With("prop_type", prop.Type.String()).
			With("filter_type", ft.DisplayName()).
			Wrapf(ErrUnsupportedCombination, "%s filters are not supported for %s properties", ft, prop.Type)
	}

	hasCapacity, err := s.filterRepo.HasCapacity(ctx, prop.CollectionID)
	if err != nil {
		return Filter{}, oops.Code("FILTER_CREATE_FAILED").With("prop_id", propID).Wrap(err)
	}
	if !hasCapacity {
		return Filter{}, oops.Code("FILTER_CAPACITY_EXHAUSTED").
			With("collection_id", prop.CollectionID).
			Errorf("collection %d has no filter capacity left", prop.CollectionID)
	}

	f, err := s.filterRepo.Create(ctx, propID, ft, prop.Type)
	if err != nil {
		return Filter{}, oops.Code("FILTER_CREATE_FAILED").With("prop_id", propID).Wrap(err)
	}

	observability.RecordWorkspaceOp("filter_create")
	s.logger.Debug("created filter",
		"filter_id", f.ID,
		"prop_id", propID,
		"filter_type", ft.DisplayName(),
	)
	return f, nil
}
