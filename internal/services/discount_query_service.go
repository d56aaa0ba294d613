package services

import (
	"context"
	"time"

	"discount-system/vitrina/internal/common"
	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/db/repositories"
	"discount-system/vitrina/internal/metrics"
	"discount-system/vitrina/internal/models/dtos"
)

// Lookups cached in a shared backend are dropped by every batch, wherever it runs.
// A process-local cache never sees batches run by cmd/sync, so it keeps values briefly.
const (
	SharedDiscountCacheTTL = 10 * time.Minute
	LocalDiscountCacheTTL  = time.Minute
)

// DiscountQueryService answers discount lookups for the dashboard and the JSON API
type DiscountQueryService struct {
	discounts *repositories.DiscountRepo
	matrix    *repositories.DiscountMatrixRepo
	cache     common.CacheInterface
	cacheTTL  time.Duration
	metrics   *metrics.MetricsRegistry
}

func NewDiscountQueryService(
	discounts *repositories.DiscountRepo,
	matrix *repositories.DiscountMatrixRepo,
	cache common.CacheInterface,
	cacheTTL time.Duration,
	metrics *metrics.MetricsRegistry,
) *DiscountQueryService {
	return &DiscountQueryService{
		discounts: discounts,
		matrix:    matrix,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
	}
}

// GetDiscount returns the stored values for the triple; an unknown triple yields zeros
func (s *DiscountQueryService) GetDiscount(ctx context.Context, complexID, typeID, paymentTypeID uint) (dtos.DiscountValues, error) {
	key := common.DiscountCacheKey(complexID, typeID, paymentTypeID)

	if s.cache != nil {
		if val, found := s.cache.Get(key); found {
			if values, ok := common.DecodeCached[dtos.DiscountValues](val); ok {
				s.countCache(true)
				return values, nil
			}
		}
		s.countCache(false)
	}

	// A batch committing while the row is read bumps the generation; the read is then not cached
	generation := s.generation()

	row, err := s.discounts.FindByKey(ctx, repositories.DiscountKey{
		ComplexID:     complexID,
		TypeID:        typeID,
		PaymentTypeID: paymentTypeID,
	})
	if err != nil {
		return dtos.DiscountValues{}, err
	}

	var values dtos.DiscountValues
	if row != nil {
		values = dtos.DiscountValues{
			MppDiscount: row.MppDiscount,
			OptDiscount: row.OptDiscount,
			KdDiscount:  row.KdDiscount,
		}
	}

	if s.cache != nil && s.generation() == generation {
		s.cache.Set(key, values, s.cacheTTL)
	}
	return values, nil
}

// generation returns the id of the last batch that invalidated discount lookups
func (s *DiscountQueryService) generation() string {
	if s.cache == nil {
		return ""
	}
	val, found := s.cache.Get(constants.CacheKeyDiscountGeneration)
	if !found {
		return ""
	}
	id, _ := val.(string)
	return id
}

// Matrix lists discount rows with names; complexID 0 lists every complex
func (s *DiscountQueryService) Matrix(ctx context.Context, complexID uint) ([]dtos.DiscountMatrixRow, error) {
	if complexID == 0 {
		return s.matrix.List(ctx)
	}
	return s.matrix.ListForComplex(ctx, complexID)
}

func (s *DiscountQueryService) countCache(hit bool) {
	if s.metrics == nil {
		return
	}
	pattern := string(constants.CachePrefixDiscount)
	if hit {
		s.metrics.CacheHitsTotal.WithLabelValues(pattern).Inc()
		return
	}
	s.metrics.CacheMissesTotal.WithLabelValues(pattern).Inc()
}
