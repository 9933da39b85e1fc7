// Package catalog_repository читает каталог объявлений из JSON-снимка в объектном хранилище.
package catalog_repository

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"rentnova/internal/config"
	"rentnova/internal/domain"
	"rentnova/internal/lib/logger/sl"
	"rentnova/internal/repository"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"
)

// ObjectFetcher отдаёт содержимое снимка.
type ObjectFetcher interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// CatalogRepository держит последний прочитанный снимок в памяти
// и перечитывает его не чаще, чем раз в refresh.
type CatalogRepository struct {
	fetcher ObjectFetcher
	refresh time.Duration
	log     *slog.Logger
	now     func() time.Time

	mu       sync.RWMutex
	snapshot []domain.Property
	loadedAt time.Time

	group      singleflight.Group
	refreshing atomic.Bool
}

const snapshotKey = "snapshot"

func NewCatalogRepository(fetcher ObjectFetcher, refresh time.Duration, log *slog.Logger) *CatalogRepository {
	return &CatalogRepository{
		fetcher: fetcher,
		refresh: refresh,
		log:     log,
		now:     time.Now,
	}
}

// ListProperties применяет фильтр к снимку.
func (r *CatalogRepository) ListProperties(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	const op = "CatalogRepository.ListProperties"

	all, err := r.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	limit := domain.NormalizePageSize(filter.Limit)
	out := make([]domain.Property, 0, min(limit, len(all)))
	for _, p := range all {
		if !matchesFilter(p, filter) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// GetByID ищет объявление в снимке.
func (r *CatalogRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error) {
	const op = "CatalogRepository.GetByID"

	all, err := r.load(ctx)
	if err != nil {
		return domain.Property{}, fmt.Errorf("%s: %w", op, err)
	}

	p, ok := lo.Find(all, func(p domain.Property) bool { return p.ID == id })
	if !ok {
		return domain.Property{}, fmt.Errorf("%s: %w", op, repository.ErrPropertyNotFound)
	}
	return p, nil
}

func (r *CatalogRepository) load(ctx context.Context) ([]domain.Property, error) {
	snap, fresh := r.current()
	if fresh {
		return snap, nil
	}
	// Пока другой запрос перечитывает снимок, остальные получают старый.
	if snap != nil && r.refreshing.Load() {
		return snap, nil
	}

	v, err, _ := r.group.Do(snapshotKey, func() (any, error) {
		r.refreshing.Store(true)
		defer r.refreshing.Store(false)
		return r.reload(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Property), nil
}

func (r *CatalogRepository) current() ([]domain.Property, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot, r.snapshot != nil && r.now().Sub(r.loadedAt) < r.refresh
}

// reload читает снимок из хранилища без блокировки и подменяет его под mu.
func (r *CatalogRepository) reload(ctx context.Context) ([]domain.Property, error) {
	if snap, fresh := r.current(); fresh {
		return snap, nil
	}

	fresh, err := r.read(ctx)
	if err != nil {
		if snap, _ := r.current(); snap != nil {
			r.log.Warn("catalog refresh failed, serving stale snapshot", sl.Err(err))
			return snap, nil
		}
		return nil, err
	}

	r.mu.Lock()
	r.snapshot = fresh
	r.loadedAt = r.now()
	r.mu.Unlock()

	r.log.Info("catalog snapshot loaded", slog.Int("count", len(fresh)))
	return fresh, nil
}

func (r *CatalogRepository) read(ctx context.Context) ([]domain.Property, error) {
	body, err := r.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrCatalogUnavailable, err)
	}
	defer body.Close()

	var props []domain.Property
	if err := json.NewDecoder(body).Decode(&props); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", repository.ErrCatalogUnavailable, err)
	}
	if props == nil {
		props = []domain.Property{}
	}
	return props, nil
}

func matchesFilter(p domain.Property, f domain.PropertyFilter) bool {
	if len(f.IDs) > 0 && !lo.Contains(f.IDs, p.ID) {
		return false
	}
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	if f.PropertyType != nil && p.PropertyType != *f.PropertyType {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.City != nil && domain.NormalizeTerm(p.City) != domain.NormalizeTerm(*f.City) {
		return false
	}
	return true
}

// MinioFetcher читает снимок из бакета MinIO/S3.
type MinioFetcher struct {
	client *minio.Client
	bucket string
	object string
}

func NewMinioFetcher(cfg config.MinioConfig) (*MinioFetcher, error) {
	const op = "catalog_repository.NewMinioFetcher"

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.User, cfg.Password, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &MinioFetcher{client: client, bucket: cfg.BucketName, object: cfg.ObjectName}, nil
}

func (f *MinioFetcher) Fetch(ctx context.Context) (io.ReadCloser, error) {
	const op = "MinioFetcher.Fetch"

	obj, err := f.client.GetObject(ctx, f.bucket, f.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// GetObject ленивый: отсутствие объекта проявляется только на Stat/Read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s: object %s/%s not found", op, f.bucket, f.object)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return obj, nil
}
