package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"discount-system/vitrina/internal/common"
	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/db/repositories"
	"discount-system/vitrina/internal/logging"
	"discount-system/vitrina/internal/metrics"
	"discount-system/vitrina/internal/models/dtos"
	gormModels "discount-system/vitrina/internal/models/gorm"
	"discount-system/vitrina/internal/providers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const notifyTimeout = 2 * time.Minute

// DiscountSyncService applies spreadsheet rows to the discount tables in one transaction per batch
type DiscountSyncService struct {
	db       *gorm.DB
	source   providers.TabularSource
	cache    common.CacheInterface
	runs     *repositories.SyncRunRepo
	metrics  *metrics.MetricsRegistry
	notifier common.Notifier
	notifyTo string

	// Batches in this process run one at a time
	mu sync.Mutex

	notifications sync.WaitGroup
}

// NewDiscountSyncService wires the orchestrator. cache, runs, metrics and notifier are optional.
func NewDiscountSyncService(
	db *gorm.DB,
	source providers.TabularSource,
	cache common.CacheInterface,
	runs *repositories.SyncRunRepo,
	metrics *metrics.MetricsRegistry,
	notifier common.Notifier,
	notifyTo string,
) *DiscountSyncService {
	return &DiscountSyncService{
		db:       db,
		source:   source,
		cache:    cache,
		runs:     runs,
		metrics:  metrics,
		notifier: notifier,
		notifyTo: notifyTo,
	}
}

// SyncFromFile reads the workbook at path and applies it
func (s *DiscountSyncService) SyncFromFile(ctx context.Context, trigger, path string, opts providers.ReadOptions) (*dtos.SyncReport, error) {
	rows, err := s.source.ReadFile(ctx, path, opts)
	if err != nil {
		s.finish(ctx, s.newReport(trigger, path, 0), err)
		return nil, err
	}
	return s.SyncRows(ctx, trigger, path, rows)
}

// SyncFromUpload reads an uploaded workbook and applies it
func (s *DiscountSyncService) SyncFromUpload(ctx context.Context, filename string, r io.Reader, opts providers.ReadOptions) (*dtos.SyncReport, error) {
	rows, err := s.source.Read(ctx, r, opts)
	if err != nil {
		s.finish(ctx, s.newReport(constants.SyncTriggerUpload, filename, 0), err)
		return nil, err
	}
	return s.SyncRows(ctx, constants.SyncTriggerUpload, filename, rows)
}

// SyncRows runs one batch: resolve property types, payment types and complexes,
// then upsert every row, then commit. Bad rows are skipped and reported;
// a store or commit failure rolls the whole batch back.
func (s *DiscountSyncService) SyncRows(ctx context.Context, trigger, source string, rows []providers.SourceRow) (*dtos.SyncReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := s.newReport(trigger, source, len(rows))
	err := s.applyBatch(ctx, rows, report)
	s.finish(ctx, report, err)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *DiscountSyncService) newReport(trigger, source string, total int) *dtos.SyncReport {
	return &dtos.SyncReport{
		BatchID:   uuid.New().String(),
		Trigger:   trigger,
		Source:    source,
		RowsTotal: total,
		Skipped:   []dtos.RowSkip{},
		StartedAt: time.Now(),
	}
}

func (s *DiscountSyncService) applyBatch(ctx context.Context, rows []providers.SourceRow, report *dtos.SyncReport) error {
	log := logging.WithBatch(report.BatchID, report.Source)
	log.Infow("Sync batch started", "trigger", report.Trigger, "rows", len(rows))

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin sync transaction: %w", tx.Error)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	resolver := NewEntityResolver(repositories.NewCatalogRepo(tx))

	propertyTypes, err := resolver.ResolveAll(ctx, repositories.KindPropertyType, columnNames(rows, constants.ColumnType))
	if err != nil {
		return err
	}
	paymentTypes, err := resolver.ResolveAll(ctx, repositories.KindPaymentType, columnNames(rows, constants.ColumnPaymentType))
	if err != nil {
		return err
	}
	complexes, err := resolver.ResolveAll(ctx, repositories.KindComplex, columnNames(rows, constants.ColumnComplex))
	if err != nil {
		return err
	}

	report.PropertyTypesCreated = resolver.Created(repositories.KindPropertyType)
	report.PaymentTypesCreated = resolver.Created(repositories.KindPaymentType)
	report.ComplexesCreated = resolver.Created(repositories.KindComplex)

	discounts := repositories.NewDiscountRepo(tx)

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		complexName := row.Get(constants.ColumnComplex).String()
		typeName := row.Get(constants.ColumnType).String()
		paymentName := row.Get(constants.ColumnPaymentType).String()
		mppCell := row.Get(constants.ColumnMPP)
		ropCell := row.Get(constants.ColumnROP)

		skip := func(reason string, cause error) {
			report.Skipped = append(report.Skipped, dtos.RowSkip{Row: row.Line, Reason: reason, Detail: cause.Error()})
			log.Warnw("Skipping spreadsheet row",
				"row", row.Line,
				"complex", complexName,
				"type", typeName,
				"payment", paymentName,
				"mpp", mppCell.String(),
				"opt", ropCell.String(),
				"reason", reason,
				"error", cause,
			)
		}

		if missing := firstEmpty(map[string]string{
			constants.ColumnComplex:     complexName,
			constants.ColumnType:        typeName,
			constants.ColumnPaymentType: paymentName,
		}); missing != "" {
			skip(constants.SkipMissingRequiredField, fmt.Errorf("%w: %s", ErrMissingRequiredField, missing))
			continue
		}

		mpp, err := NormalizeDiscount(mppCell)
		if err != nil {
			skip(constants.SkipDiscountParseError, fmt.Errorf("%s: %w", constants.ColumnMPP, err))
			continue
		}
		opt, err := NormalizeDiscount(ropCell)
		if err != nil {
			skip(constants.SkipDiscountParseError, fmt.Errorf("%s: %w", constants.ColumnROP, err))
			continue
		}

		key, err := resolveKey(complexes, propertyTypes, paymentTypes, complexName, typeName, paymentName)
		if err != nil {
			skip(constants.SkipEntityNotResolved, err)
			continue
		}

		created, err := discounts.Upsert(ctx, key, mpp, opt)
		if err != nil {
			return fmt.Errorf("row %d: %w", row.Line, err)
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%w: %w", ErrCommitFailure, err)
	}
	committed = true

	log.Infow("Sync batch committed",
		"created", report.Created,
		"updated", report.Updated,
		"skipped", len(report.Skipped),
		"complexes_created", report.ComplexesCreated,
		"property_types_created", report.PropertyTypesCreated,
		"payment_types_created", report.PaymentTypesCreated,
	)
	return nil
}

// finish runs the post-batch steps; none of them can fail the batch
func (s *DiscountSyncService) finish(ctx context.Context, report *dtos.SyncReport, batchErr error) {
	report.Duration = time.Since(report.StartedAt)

	status := constants.SyncStatusSuccess
	if batchErr != nil {
		status = constants.SyncStatusFailed
		logging.WithBatch(report.BatchID, report.Source).Errorw("Sync batch failed", "trigger", report.Trigger, "error", batchErr)
	} else if s.cache != nil {
		// Bump before dropping so a lookup that read the old row does not cache it
		s.cache.Set(constants.CacheKeyDiscountGeneration, report.BatchID, 0)
		s.cache.DeletePrefix(string(constants.CachePrefixDiscount))
		s.cache.DeletePrefix(string(constants.CachePrefixCatalog))
	}

	s.recordRun(ctx, report, status, batchErr)
	s.observe(report, status)

	if s.notifier != nil && s.notifyTo != "" {
		subject, body := notificationText(report, batchErr)
		s.notifications.Add(1)
		go func() {
			defer s.notifications.Done()
			notifyCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := s.notifier.Send(notifyCtx, s.notifyTo, subject, body); err != nil {
				logging.Error("Failed to send sync notification", "batch_id", report.BatchID, "error", err)
			}
		}()
	}
}

// WaitNotifications blocks until every notification started so far has been delivered or given up
func (s *DiscountSyncService) WaitNotifications() {
	s.notifications.Wait()
}

func (s *DiscountSyncService) recordRun(ctx context.Context, report *dtos.SyncReport, status string, batchErr error) {
	if s.runs == nil {
		return
	}

	run := gormModels.SyncRun{
		ID:          report.BatchID,
		Trigger:     report.Trigger,
		Source:      report.Source,
		Status:      status,
		RowsTotal:   report.RowsTotal,
		RowsApplied: report.RowsApplied(),
		RowsSkipped: len(report.Skipped),
		StartedAt:   report.StartedAt,
		FinishedAt:  report.StartedAt.Add(report.Duration),
	}
	if batchErr != nil {
		run.Error = batchErr.Error()
	}

	// The request context may already be cancelled when the batch failed because of it
	recordCtx := ctx
	if ctx.Err() != nil {
		recordCtx = context.Background()
	}
	if err := s.runs.RecordRun(recordCtx, &run); err != nil {
		logging.Error("Failed to record sync run", "batch_id", report.BatchID, "error", err)
	}
}

func (s *DiscountSyncService) observe(report *dtos.SyncReport, status string) {
	if s.metrics == nil {
		return
	}

	s.metrics.SyncBatchesTotal.WithLabelValues(report.Trigger, status).Inc()
	s.metrics.SyncBatchDuration.WithLabelValues(report.Trigger).Observe(report.Duration.Seconds())

	if status != constants.SyncStatusSuccess {
		return
	}
	s.metrics.SyncRowsTotal.WithLabelValues(constants.RowResultCreated).Add(float64(report.Created))
	s.metrics.SyncRowsTotal.WithLabelValues(constants.RowResultUpdated).Add(float64(report.Updated))
	for _, skipped := range report.Skipped {
		s.metrics.SyncRowsTotal.WithLabelValues(skipped.Reason).Inc()
	}
}

// columnNames collects the non-empty names of one column in row order
func columnNames(rows []providers.SourceRow, column string) []string {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name := row.Get(column).String(); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// firstEmpty returns the label of the first empty field in sheet order, or ""
func firstEmpty(fields map[string]string) string {
	for _, column := range constants.DiscountColumns {
		if value, ok := fields[column]; ok && value == "" {
			return column
		}
	}
	return ""
}

func resolveKey(complexes, propertyTypes, paymentTypes map[string]uint, complexName, typeName, paymentName string) (repositories.DiscountKey, error) {
	complexID, err := Lookup(complexes, repositories.KindComplex, complexName)
	if err != nil {
		return repositories.DiscountKey{}, err
	}
	typeID, err := Lookup(propertyTypes, repositories.KindPropertyType, typeName)
	if err != nil {
		return repositories.DiscountKey{}, err
	}
	paymentID, err := Lookup(paymentTypes, repositories.KindPaymentType, paymentName)
	if err != nil {
		return repositories.DiscountKey{}, err
	}
	return repositories.DiscountKey{ComplexID: complexID, TypeID: typeID, PaymentTypeID: paymentID}, nil
}

func notificationText(report *dtos.SyncReport, batchErr error) (string, string) {
	if batchErr != nil {
		return "Discount sync failed",
			fmt.Sprintf("Source: %s\nTrigger: %s\nError: %v\n", report.Source, report.Trigger, batchErr)
	}

	body := fmt.Sprintf(
		"Source: %s\nTrigger: %s\nRows: %d\nCreated: %d\nUpdated: %d\nSkipped: %d\nDuration: %s\n",
		report.Source, report.Trigger, report.RowsTotal, report.Created, report.Updated,
		len(report.Skipped), report.Duration.Round(time.Millisecond),
	)
	for _, skipped := range report.Skipped {
		body += fmt.Sprintf("  row %d: %s (%s)\n", skipped.Row, skipped.Reason, skipped.Detail)
	}
	return "Discount sync completed", body
}

// IsSourceError reports whether err came from reading the spreadsheet rather than from the store
func IsSourceError(err error) bool {
	return errors.Is(err, ErrSourceNotFound) || errors.Is(err, ErrSourceFormat)
}
