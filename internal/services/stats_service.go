package services

import (
	"context"
	"sort"

	"github.com/Devik-code/rust-ai-auditor/internal/models"
	"go.uber.org/zap"
)

const (
	// errorBucketLen: diagnostics are bucketed by their first 200
	// characters; diagnostics differing only past that point share a bucket.
	errorBucketLen = 200
	commonErrorCap = 10
)

type StatsService struct {
	store AuditStore
	log   *zap.Logger
}

func NewStatsService(store AuditStore, log *zap.Logger) *StatsService {
	return &StatsService{store: store, log: log}
}

// Compute derives summary statistics from the full record set. Invalid is
// total minus valid by construction, and the rate is 0.0 on an empty store.
func (s *StatsService) Compute(ctx context.Context) (*models.AuditStats, error) {
	total, valid, err := s.store.CountTotalAndValid(ctx)
	if err != nil {
		return nil, err
	}

	rate := 0.0
	if total > 0 {
		rate = float64(valid) / float64(total)
	}

	buckets, err := s.store.ErrorFrequencies(ctx, errorBucketLen, commonErrorCap)
	if err != nil {
		return nil, err
	}

	// The SQL already orders this way; re-sorting keeps the ranking
	// deterministic for any store implementation.
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Frequency != buckets[j].Frequency {
			return buckets[i].Frequency > buckets[j].Frequency
		}
		return buckets[i].ErrorMessage < buckets[j].ErrorMessage
	})
	if len(buckets) > commonErrorCap {
		buckets = buckets[:commonErrorCap]
	}
	if buckets == nil {
		buckets = []models.CommonError{}
	}

	return &models.AuditStats{
		TotalAudits:    total,
		ValidAudits:    valid,
		InvalidAudits:  total - valid,
		ValidationRate: rate,
		CommonErrors:   buckets,
	}, nil
}
