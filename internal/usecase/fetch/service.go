package fetch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/abmeta/internal/domain"
	domfetch "github.com/kailas-cloud/abmeta/internal/domain/fetch"
	domitem "github.com/kailas-cloud/abmeta/internal/domain/item"
	"github.com/kailas-cloud/abmeta/internal/metrics"
	"github.com/kailas-cloud/abmeta/internal/usecase/mapping"
)

// DefaultWorkers is the default number of items processed concurrently.
const DefaultWorkers = 4

// Service fetches AcousticBrainz documents for items and stores the mapped attributes.
type Service struct {
	items   ItemStore
	fetcher Fetcher
	mapper  Mapper
	writer  Writer
	sink    mapping.Sink
	logger  *zap.Logger
	workers int
	timeout time.Duration
	auto    bool
	now     func() time.Time
}

// New creates a fetch service. Automatic fetching on import is enabled.
func New(items ItemStore, fetcher Fetcher, mapper Mapper, logger *zap.Logger) *Service {
	return &Service{
		items:   items,
		fetcher: fetcher,
		mapper:  mapper,
		sink:    mapping.NewCountingSink(mapping.NewZapSink(logger), metrics.MappingDiagnosticsTotal),
		logger:  logger,
		workers: DefaultWorkers,
		auto:    true,
		now:     time.Now,
	}
}

// WithWriter configures the sidecar writer used when a run asks for writes.
func (s *Service) WithWriter(w Writer) *Service {
	s.writer = w
	return s
}

// WithWorkers configures the worker pool size.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// WithTimeout bounds the document fetch of a single item.
func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

// WithAuto toggles fetching from the import hook.
func (s *Service) WithAuto(auto bool) *Service {
	s.auto = auto
	return s
}

// Auto reports whether the import hook fetches.
func (s *Service) Auto() bool { return s.auto }

// FetchInfo processes items concurrently. Results keep the input order.
func (s *Service) FetchInfo(ctx context.Context, items []domitem.Item, write bool) []domfetch.Result {
	results := make([]domfetch.Result, len(items))
	if len(items) == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i := range items {
		if err := ctx.Err(); err != nil {
			results[i] = s.record(domfetch.NewError(items[i].ID(), err))
			continue
		}
		g.Go(func() error {
			results[i] = s.fetchItem(ctx, &items[i], write)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// FetchByIDs loads items from the repository and fetches them.
// Without ids every item is fetched.
func (s *Service) FetchByIDs(ctx context.Context, ids []string, write bool) ([]domfetch.Result, error) {
	if len(ids) == 0 {
		items, err := s.items.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
		return s.FetchInfo(ctx, items, write), nil
	}

	results := make([]domfetch.Result, len(ids))
	loaded := make([]domitem.Item, 0, len(ids))
	loadedIdx := make([]int, 0, len(ids))

	for i, id := range ids {
		it, err := s.items.Get(ctx, id)
		if err != nil {
			results[i] = s.record(domfetch.NewError(id, fmt.Errorf("get item: %w", err)))
			continue
		}
		loaded = append(loaded, it)
		loadedIdx = append(loadedIdx, i)
	}

	for j, r := range s.FetchInfo(ctx, loaded, write) {
		results[loadedIdx[j]] = r
	}
	return results, nil
}

// ImportTaskFiles runs after items are imported. It fetches without writing
// sidecars and does nothing when automatic fetching is disabled.
func (s *Service) ImportTaskFiles(ctx context.Context, ids []string) ([]domfetch.Result, error) {
	if !s.auto || len(ids) == 0 {
		return nil, nil
	}
	return s.FetchByIDs(ctx, ids, false)
}

func (s *Service) fetchItem(ctx context.Context, it *domitem.Item, write bool) domfetch.Result {
	if err := ctx.Err(); err != nil {
		return s.record(domfetch.NewError(it.ID(), err))
	}
	if !it.HasMBTrackID() {
		return s.record(domfetch.NewSkipped(it.ID()))
	}

	s.logger.Info("Getting data for item", zap.Stringer("item", it))

	doc, err := s.fetchDocument(ctx, it.MBTrackID())
	if err != nil {
		return s.record(domfetch.NewError(it.ID(), err))
	}
	if len(doc) == 0 {
		return s.record(domfetch.NewNotFound(it.ID()))
	}

	attrs := s.mapper.Map(doc, s.sink)
	for _, a := range attrs {
		value := a.String()
		it.SetAttribute(a.Name, value)
		s.logger.Info("Attribute set",
			zap.String("attribute", a.Name),
			zap.Stringer("item", it),
			zap.String("value", value),
		)
	}
	metrics.MappedAttributesTotal.Add(float64(len(attrs)))

	it.Touch(s.now().UTC())
	if err := s.items.Store(ctx, it); err != nil {
		return s.record(domfetch.NewError(it.ID(), fmt.Errorf("store item: %w", err)))
	}

	if !write || s.writer == nil || !s.writer.Enabled() {
		return s.record(domfetch.NewOK(it.ID(), len(attrs), false))
	}
	if err := s.writer.Write(it); err != nil {
		s.logger.Warn("Failed to write sidecar", zap.Stringer("item", it), zap.Error(err))
		return s.record(domfetch.NewOK(it.ID(), len(attrs), false).WithWriteError(err))
	}
	return s.record(domfetch.NewOK(it.ID(), len(attrs), true))
}

func (s *Service) fetchDocument(ctx context.Context, mbid string) (domain.Document, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	doc, err := s.fetcher.Fetch(ctx, mbid)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	return doc, nil
}

func (s *Service) record(r domfetch.Result) domfetch.Result {
	metrics.FetchItemsTotal.WithLabelValues(string(r.Status())).Inc()
	return r
}
