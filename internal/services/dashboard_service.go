package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"discount-system/vitrina/internal/common"
	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/db/repositories"
	"discount-system/vitrina/internal/models/dtos"
	gormModels "discount-system/vitrina/internal/models/gorm"

	"golang.org/x/sync/errgroup"
)

const catalogCacheTTL = 5 * time.Minute

// DashboardService assembles the main page and the admin page
type DashboardService struct {
	catalog  *repositories.CatalogRepo
	comments *repositories.CommentRepo
	runs     *repositories.SyncRunRepo
	cache    common.CacheInterface
}

func NewDashboardService(
	catalog *repositories.CatalogRepo,
	comments *repositories.CommentRepo,
	runs *repositories.SyncRunRepo,
	cache common.CacheInterface,
) *DashboardService {
	return &DashboardService{
		catalog:  catalog,
		comments: comments,
		runs:     runs,
		cache:    cache,
	}
}

// Load reads the three catalogs, the newest comment and the last successful sync concurrently
func (s *DashboardService) Load(ctx context.Context) (*dtos.DashboardView, error) {
	view := &dtos.DashboardView{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		entries, err := s.listCatalog(gctx, repositories.KindComplex)
		view.Complexes = entries
		return err
	})
	g.Go(func() error {
		entries, err := s.listCatalog(gctx, repositories.KindPropertyType)
		view.PropertyTypes = entries
		return err
	})
	g.Go(func() error {
		entries, err := s.listCatalog(gctx, repositories.KindPaymentType)
		view.PaymentTypes = entries
		return err
	})
	g.Go(func() error {
		comment, err := s.comments.Latest(gctx)
		if err != nil || comment == nil {
			return err
		}
		view.LatestComment = &dtos.CommentView{Text: comment.Text, CreatedAt: comment.CreatedAt}
		return nil
	})
	g.Go(func() error {
		run, err := s.runs.GetLastSuccess(gctx)
		if err != nil || run == nil {
			return err
		}
		runView := toSyncRunView(*run)
		view.LastSync = &runView
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

// AddComment validates and stores a dashboard note
func (s *DashboardService) AddComment(ctx context.Context, text string) (*dtos.CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentEmpty
	}
	if utf8.RuneCountInString(text) > constants.MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	comment, err := s.comments.Create(ctx, text)
	if err != nil {
		return nil, err
	}
	return &dtos.CommentView{Text: comment.Text, CreatedAt: comment.CreatedAt}, nil
}

// RecentRuns returns the newest sync runs for the admin page
func (s *DashboardService) RecentRuns(ctx context.Context, limit int) ([]dtos.SyncRunView, error) {
	runs, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	views := make([]dtos.SyncRunView, 0, len(runs))
	for _, run := range runs {
		views = append(views, toSyncRunView(run))
	}
	return views, nil
}

// WarmCatalogs drops the cached catalogs and loads them again
func (s *DashboardService) WarmCatalogs(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	s.cache.DeletePrefix(string(constants.CachePrefixCatalog))

	for _, kind := range []repositories.EntityKind{
		repositories.KindComplex,
		repositories.KindPropertyType,
		repositories.KindPaymentType,
	} {
		if _, err := s.listCatalog(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}

func (s *DashboardService) listCatalog(ctx context.Context, kind repositories.EntityKind) ([]dtos.CatalogEntry, error) {
	key := string(constants.CachePrefixCatalog) + kind.String()

	if s.cache == nil {
		return s.catalog.List(ctx, kind)
	}

	val, err := s.cache.GetOrSet(key, catalogCacheTTL, func() (any, error) {
		return s.catalog.List(ctx, kind)
	})
	if err != nil {
		return nil, err
	}

	entries, ok := common.DecodeCached[[]dtos.CatalogEntry](val)
	if !ok {
		s.cache.Delete(key)
		return s.catalog.List(ctx, kind)
	}
	return entries, nil
}

func toSyncRunView(run gormModels.SyncRun) dtos.SyncRunView {
	return dtos.SyncRunView{
		ID:          run.ID,
		Trigger:     run.Trigger,
		Source:      run.Source,
		Status:      run.Status,
		RowsTotal:   run.RowsTotal,
		RowsApplied: run.RowsApplied,
		RowsSkipped: run.RowsSkipped,
		Error:       run.Error,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
	}
}
