package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	shipmentDocPrefix  = "shipments:doc:"
	shipmentCodePrefix = "shipments:code:"
	shipmentIndexKey   = "shipments:index:created"
	shipmentSeqKey     = "shipments:seq"

	// maxUpdateRetries bounds the optimistic-concurrency retry loop.
	maxUpdateRetries = 3

	defaultPageLimit = 20
	maxPageLimit     = 100
)

// RedisShipmentRepository persists shipments as JSON documents in Redis.
// Each shipment lives under its own doc key; a code key maps the tracking
// code to the document id and doubles as the uniqueness claim; a sorted set
// indexes documents by an insertion sequence so listings are creation-time
// descending with stable ties.
type RedisShipmentRepository struct {
	client *redis.Client
}

// NewRedisShipmentRepository creates a repository over an existing client.
func NewRedisShipmentRepository(client *redis.Client) *RedisShipmentRepository {
	return &RedisShipmentRepository{client: client}
}

func docKey(id string) string {
	return shipmentDocPrefix + id
}

func codeKey(code string) string {
	return shipmentCodePrefix + domain.NormalizeTrackingCode(code)
}

// Create persists a new shipment, claiming its tracking code atomically.
func (r *RedisShipmentRepository) Create(ctx context.Context, s *domain.Shipment) error {
	claimed, err := r.client.SetNX(ctx, codeKey(s.TrackingCode), s.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim tracking code: %w", err)
	}
	if !claimed {
		return domain.ErrCodeConflict
	}

	seq, err := r.client.Incr(ctx, shipmentSeqKey).Result()
	if err != nil {
		r.releaseClaim(s.TrackingCode)
		return fmt.Errorf("failed to advance shipment sequence: %w", err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		r.releaseClaim(s.TrackingCode)
		return fmt.Errorf("failed to marshal shipment: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, docKey(s.ID), data, 0)
		pipe.ZAdd(ctx, shipmentIndexKey, redis.Z{Score: float64(seq), Member: s.ID})
		return nil
	})
	if err != nil {
		r.releaseClaim(s.TrackingCode)
		return fmt.Errorf("failed to persist shipment: %w", err)
	}

	return nil
}

// releaseClaim undoes a SetNX code claim after a failed create so the code
// does not stay reserved with no document behind it. Best effort: a fresh
// context because the caller's may already be dead, and the failure is only
// logged.
func (r *RedisShipmentRepository) releaseClaim(code string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.client.Del(ctx, codeKey(code)).Err(); err != nil {
		logger.Get().Warn("Failed to release tracking code claim",
			zap.String("tracking_code", code),
			zap.Error(err),
		)
	}
}

// GetByID fetches one shipment document.
func (r *RedisShipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	data, err := r.client.Get(ctx, docKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment %s: %w", id, err)
	}

	var s domain.Shipment
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipment %s: %w", id, err)
	}
	return &s, nil
}

// GetByTrackingCode resolves the code to a document id and fetches it.
func (r *RedisShipmentRepository) GetByTrackingCode(ctx context.Context, code string) (*domain.Shipment, error) {
	id, err := r.client.Get(ctx, codeKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tracking code: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Update loads the current document under WATCH, applies mutate, bumps the
// version stamp, and writes back transactionally. A concurrent write aborts
// the transaction; the whole cycle retries up to maxUpdateRetries times so
// appends on one shipment serialize in commit order.
func (r *RedisShipmentRepository) Update(ctx context.Context, id string, mutate func(*domain.Shipment) error) (*domain.Shipment, error) {
	key := docKey(id)

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		var updated *domain.Shipment

		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return domain.ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to get shipment %s: %w", id, err)
			}

			var s domain.Shipment
			if err := json.Unmarshal(data, &s); err != nil {
				return fmt.Errorf("failed to unmarshal shipment %s: %w", id, err)
			}

			if err := mutate(&s); err != nil {
				return err
			}
			s.Version++

			out, err := json.Marshal(&s)
			if err != nil {
				return fmt.Errorf("failed to marshal shipment %s: %w", id, err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, out, 0)
				return nil
			})
			if err != nil {
				return err
			}

			updated = &s
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	return nil, domain.ErrUpdateConflict
}

// List materializes the index newest-first, applies scope and filters before
// pagination so totals are exact, then slices out the requested page.
func (r *RedisShipmentRepository) List(ctx context.Context, filter ports.ListFilter, scope ports.Scope) (*ports.ListResult, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	ids, err := r.client.ZRevRange(ctx, shipmentIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read shipment index: %w", err)
	}

	result := &ports.ListResult{Items: []domain.Shipment{}, Page: page, Limit: limit}
	if len(ids) == 0 {
		return result, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(id)
	}

	raw, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shipment documents: %w", err)
	}

	matched := make([]domain.Shipment, 0, len(raw))
	for _, item := range raw {
		str, ok := item.(string)
		if !ok {
			continue
		}
		var s domain.Shipment
		if err := json.Unmarshal([]byte(str), &s); err != nil {
			continue
		}
		if !scope.Allows(&s) {
			continue
		}
		if !matchesFilter(&s, filter, scope) {
			continue
		}
		matched = append(matched, s)
	}

	result.Total = len(matched)

	start := (page - 1) * limit
	if start >= len(matched) {
		return result, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	result.Items = matched[start:end]

	return result, nil
}

func matchesFilter(s *domain.Shipment, f ports.ListFilter, scope ports.Scope) bool {
	if !s.IsActive && !(f.IncludeInactive && scope.All) {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.CodeContains != "" &&
		!strings.Contains(s.TrackingCode, domain.NormalizeTrackingCode(f.CodeContains)) {
		return false
	}
	if f.CreatedBy != "" && s.CreatedBy != f.CreatedBy {
		return false
	}
	if f.CreatedFrom != nil && s.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && s.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

// Ping checks store reachability, for startup health checks.
func (r *RedisShipmentRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

var _ ports.ShipmentRepository = (*RedisShipmentRepository)(nil)
