package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"discount-system/vitrina/internal/common"
	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/db/repositories"
	"discount-system/vitrina/internal/metrics"
	gormModels "discount-system/vitrina/internal/models/gorm"
	"discount-system/vitrina/internal/providers"
	"discount-system/vitrina/internal/testutil"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Mock TabularSource
type mockSource struct {
	readFileFunc func(ctx context.Context, path string, opts providers.ReadOptions) ([]providers.SourceRow, error)
	readFunc     func(ctx context.Context, r io.Reader, opts providers.ReadOptions) ([]providers.SourceRow, error)
}

func (m *mockSource) ReadFile(ctx context.Context, path string, opts providers.ReadOptions) ([]providers.SourceRow, error) {
	return m.readFileFunc(ctx, path, opts)
}

func (m *mockSource) Read(ctx context.Context, r io.Reader, opts providers.ReadOptions) ([]providers.SourceRow, error) {
	return m.readFunc(ctx, r, opts)
}

// Mock Notifier
type mockNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (m *mockNotifier) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	m.sent = append(m.sent, subject)
	m.mu.Unlock()
	return nil
}

var errCommitRefused = errors.New("commit refused")

// refusingCommitPool hands out transactions that roll back instead of committing
type refusingCommitPool struct {
	*sql.DB
}

func (p refusingCommitPool) BeginTx(ctx context.Context, opts *sql.TxOptions) (gorm.ConnPool, error) {
	tx, err := p.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return refusingCommitTx{Tx: tx}, nil
}

type refusingCommitTx struct {
	*sql.Tx
}

func (t refusingCommitTx) Commit() error {
	_ = t.Tx.Rollback()
	return errCommitRefused
}

// row builds a source row; nil values are missing cells, strings become string cells, numbers number cells
func row(line int, complexName, typeName, payment, mpp, opt interface{}) providers.SourceRow {
	values := map[string]providers.Cell{}
	set := func(label string, v interface{}) {
		switch x := v.(type) {
		case nil:
			values[label] = providers.MissingCell()
		case string:
			values[label] = providers.StringCell(x)
		case float64:
			values[label] = providers.NumberCell(x)
		case int:
			values[label] = providers.NumberCell(float64(x))
		}
	}
	set(constants.ColumnComplex, complexName)
	set(constants.ColumnType, typeName)
	set(constants.ColumnPaymentType, payment)
	set(constants.ColumnMPP, mpp)
	set(constants.ColumnROP, opt)
	return providers.SourceRow{Line: line, Values: values}
}

func newSyncService(gdb *gorm.DB, cache common.CacheInterface) *DiscountSyncService {
	return NewDiscountSyncService(gdb, providers.NewSpreadsheetProvider(""), cache, repositories.NewSyncRunRepo(gdb), nil, nil, "")
}

// discountFor looks a triple up by names
func discountFor(t *testing.T, gdb *gorm.DB, complexName, typeName, payment string) *gormModels.DiscountObject {
	t.Helper()
	ctx := context.Background()
	catalog := repositories.NewCatalogRepo(gdb)

	ids := func(kind repositories.EntityKind, name string) uint {
		found, err := catalog.FindByNames(ctx, kind, []string{name})
		require.NoError(t, err)
		id, ok := found[name]
		require.True(t, ok, "%s %q not stored", kind, name)
		return id
	}

	d, err := repositories.NewDiscountRepo(gdb).FindByKey(ctx, repositories.DiscountKey{
		ComplexID:     ids(repositories.KindComplex, complexName),
		TypeID:        ids(repositories.KindPropertyType, typeName),
		PaymentTypeID: ids(repositories.KindPaymentType, payment),
	})
	require.NoError(t, err)
	return d
}

func countRows(t *testing.T, gdb *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}

func TestSyncRows_LastRowWinsForSameTriple(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	svc := newSyncService(gdb, nil)

	report, err := svc.SyncRows(context.Background(), constants.SyncTriggerUpload, "prices.xlsx", []providers.SourceRow{
		row(2, "Alpha", "Studio", "Cash", "10%", "5%"),
		row(3, "Alpha", "Studio", "Cash", "12%", "6%"),
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, countRows(t, gdb, &gormModels.Complex{}))
	assert.EqualValues(t, 1, countRows(t, gdb, &gormModels.PropertyType{}))
	assert.EqualValues(t, 1, countRows(t, gdb, &gormModels.PaymentType{}))
	assert.EqualValues(t, 1, countRows(t, gdb, &gormModels.DiscountObject{}))

	d := discountFor(t, gdb, "Alpha", "Studio", "Cash")
	require.NotNil(t, d)
	assert.Equal(t, 12.0, d.MppDiscount)
	assert.Equal(t, 6.0, d.OptDiscount)
	assert.Equal(t, 0.0, d.KdDiscount)

	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.ComplexesCreated)
	assert.Empty(t, report.Skipped)
}

func TestSyncRows_Idempotent(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	svc := newSyncService(gdb, nil)
	ctx := context.Background()

	batch := []providers.SourceRow{
		row(2, "Alpha", "Studio", "Cash", 10, 5),
		row(3, "Alpha", "1BR", "Mortgage", "3", nil),
		row(4, "Beta", "Studio", "Cash", 8.5, "2%"),
	}

	_, err := svc.SyncRows(ctx, constants.SyncTriggerFile, "a.xlsx", batch)
	require.NoError(t, err)
	second, err := svc.SyncRows(ctx, constants.SyncTriggerFile, "a.xlsx", batch)
	require.NoError(t, err)

	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 3, second.Updated)
	assert.Equal(t, 0, second.ComplexesCreated)
	assert.EqualValues(t, 3, countRows(t, gdb, &gormModels.DiscountObject{}))
	assert.EqualValues(t, 2, countRows(t, gdb, &gormModels.Complex{}))

	d := discountFor(t, gdb, "Alpha", "1BR", "Mortgage")
	assert.Equal(t, 3.0, d.MppDiscount)
	assert.Equal(t, 0.0, d.OptDiscount)

	d = discountFor(t, gdb, "Beta", "Studio", "Cash")
	assert.Equal(t, 8.5, d.MppDiscount)
	assert.Equal(t, 2.0, d.OptDiscount)
}

func TestSyncRows_SkipsBadRowsAndCommitsTheRest(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	svc := newSyncService(gdb, nil)

	report, err := svc.SyncRows(context.Background(), constants.SyncTriggerUpload, "prices.xlsx", []providers.SourceRow{
		row(2, "Alpha", nil, "Cash", 1, 1),
		row(3, "Alpha", "Studio", "Cash", "abc", 1),
		row(4, "Alpha", "Studio", "Cash", 4, 2),
		row(5, nil, nil, nil, 9, 9),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created)
	require.Len(t, report.Skipped, 3)
	assert.Equal(t, 2, report.Skipped[0].Row)
	assert.Equal(t, constants.SkipMissingRequiredField, report.Skipped[0].Reason)
	assert.Contains(t, report.Skipped[0].Detail, constants.ColumnType)
	assert.Equal(t, constants.SkipDiscountParseError, report.Skipped[1].Reason)
	assert.Equal(t, constants.SkipMissingRequiredField, report.Skipped[2].Reason)

	assert.EqualValues(t, 1, countRows(t, gdb, &gormModels.DiscountObject{}))
	d := discountFor(t, gdb, "Alpha", "Studio", "Cash")
	assert.Equal(t, 4.0, d.MppDiscount)
}

func TestSyncRows_ParseFailureLeavesExistingRowUntouched(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	svc := newSyncService(gdb, nil)
	ctx := context.Background()

	_, err := svc.SyncRows(ctx, constants.SyncTriggerUpload, "a", []providers.SourceRow{row(2, "Alpha", "Studio", "Cash", 7, 3)})
	require.NoError(t, err)

	report, err := svc.SyncRows(ctx, constants.SyncTriggerUpload, "b", []providers.SourceRow{row(2, "Alpha", "Studio", "Cash", 1, "n/a")})
	require.NoError(t, err)
	require.Len(t, report.Skipped, 1)

	d := discountFor(t, gdb, "Alpha", "Studio", "Cash")
	assert.Equal(t, 7.0, d.MppDiscount)
	assert.Equal(t, 3.0, d.OptDiscount)
}

func TestSyncRows_BarePercentSignSkipsRow(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	svc := newSyncService(gdb, nil)
	ctx := context.Background()

	_, err := svc.SyncRows(ctx, constants.SyncTriggerUpload, "a", []providers.SourceRow{row(2, "Alpha", "Studio", "Cash", 7, 3)})
	require.NoError(t, err)

	report, err := svc.SyncRows(ctx, constants.SyncTriggerUpload, "b", []providers.SourceRow{
		row(2, "Alpha", "Studio", "Cash", "%", 4),
		row(3, "Alpha", "Studio", "Cash", 8, " % "),
	})
	require.NoError(t, err)
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, constants.SkipDiscountParseError, report.Skipped[0].Reason)
	assert.Equal(t, constants.SkipDiscountParseError, report.Skipped[1].Reason)
	assert.Equal(t, 0, report.RowsApplied())

	d := discountFor(t, gdb, "Alpha", "Studio", "Cash")
	assert.Equal(t, 7.0, d.MppDiscount)
	assert.Equal(t, 3.0, d.OptDiscount)
}

func TestSyncRows_SurroundingSpacesAreDistinctNames(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	svc := newSyncService(gdb, nil)

	report, err := svc.SyncRows(context.Background(), constants.SyncTriggerUpload, "a", []providers.SourceRow{
		row(2, "Alpha", "Studio", "Cash", 1, 1),
		row(3, "Alpha ", " Studio", "Cash", 2, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.EqualValues(t, 2, countRows(t, gdb, &gormModels.Complex{}))
	assert.EqualValues(t, 2, countRows(t, gdb, &gormModels.PropertyType{}))

	assert.Equal(t, 1.0, discountFor(t, gdb, "Alpha", "Studio", "Cash").MppDiscount)
	assert.Equal(t, 2.0, discountFor(t, gdb, "Alpha ", " Studio", "Cash").MppDiscount)
}

func TestSyncRows_EntitiesFromSkippedRowsStillCreated(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	svc := newSyncService(gdb, nil)

	report, err := svc.SyncRows(context.Background(), constants.SyncTriggerUpload, "a", []providers.SourceRow{
		row(2, "Gamma", "Penthouse", "Cash", "bad", 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.ComplexesCreated)
	assert.Equal(t, 1, report.PropertyTypesCreated)
	assert.EqualValues(t, 0, countRows(t, gdb, &gormModels.DiscountObject{}))
}

func TestSyncRows_EmptyBatch(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	svc := newSyncService(gdb, nil)

	report, err := svc.SyncRows(context.Background(), constants.SyncTriggerUpload, "empty.xlsx", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.RowsTotal)
	assert.Equal(t, 0, report.RowsApplied())
	assert.EqualValues(t, 0, countRows(t, gdb, &gormModels.Complex{}))
	assert.EqualValues(t, 0, countRows(t, gdb, &gormModels.DiscountObject{}))
}

func TestSyncRows_NamesAreCaseSensitive(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	svc := newSyncService(gdb, nil)

	_, err := svc.SyncRows(context.Background(), constants.SyncTriggerUpload, "a", []providers.SourceRow{
		row(2, "Alpha", "Studio", "Cash", 1, 1),
		row(3, "alpha", "Studio", "Cash", 2, 2),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, countRows(t, gdb, &gormModels.Complex{}))
	assert.EqualValues(t, 2, countRows(t, gdb, &gormModels.DiscountObject{}))
}

func TestSyncRows_KdSurvivesResync(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	svc := newSyncService(gdb, nil)
	ctx := context.Background()

	_, err := svc.SyncRows(ctx, constants.SyncTriggerUpload, "a", []providers.SourceRow{row(2, "Alpha", "Studio", "Cash", 1, 1)})
	require.NoError(t, err)
	require.NoError(t, gdb.Model(&gormModels.DiscountObject{}).Where("1 = 1").Update("kd_discount", 4.0).Error)

	_, err = svc.SyncRows(ctx, constants.SyncTriggerUpload, "b", []providers.SourceRow{row(2, "Alpha", "Studio", "Cash", 2, 2)})
	require.NoError(t, err)

	d := discountFor(t, gdb, "Alpha", "Studio", "Cash")
	assert.Equal(t, 4.0, d.KdDiscount)
	assert.Equal(t, 2.0, d.MppDiscount)
}

func TestSyncRows_StoreFailureRollsBack(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	svc := newSyncService(gdb, nil)

	// No discount table: resolution succeeds, the first upsert fails
	require.NoError(t, gdb.Migrator().DropTable(&gormModels.DiscountObject{}))

	_, err := svc.SyncRows(context.Background(), constants.SyncTriggerUpload, "a", []providers.SourceRow{row(2, "Alpha", "Studio", "Cash", 1, 1)})
	require.Error(t, err)
	assert.EqualValues(t, 0, countRows(t, gdb, &gormModels.Complex{}), "entities created in the batch are rolled back")

	last, err := repositories.NewSyncRunRepo(gdb).ListRecent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, constants.SyncStatusFailed, last[0].Status)
}

func TestSyncRows_CommitFailureRollsBack(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	refusing, err := gorm.Open(sqlite.Dialector{Conn: refusingCommitPool{DB: sqlDB}}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	svc := NewDiscountSyncService(refusing, providers.NewSpreadsheetProvider(""), nil, repositories.NewSyncRunRepo(gdb), nil, nil, "")

	report, err := svc.SyncRows(context.Background(), constants.SyncTriggerUpload, "a", []providers.SourceRow{row(2, "Alpha", "Studio", "Cash", 1, 1)})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrCommitFailure)
	assert.ErrorIs(t, err, errCommitRefused)

	assert.EqualValues(t, 0, countRows(t, gdb, &gormModels.Complex{}))
	assert.EqualValues(t, 0, countRows(t, gdb, &gormModels.PropertyType{}))
	assert.EqualValues(t, 0, countRows(t, gdb, &gormModels.DiscountObject{}))

	runs, err := repositories.NewSyncRunRepo(gdb).ListRecent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, constants.SyncStatusFailed, runs[0].Status)
}

func TestSyncRows_InvalidatesDiscountCache(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	cache := common.NewCacheService(60, 120)
	svc := newSyncService(gdb, cache)
	ctx := context.Background()

	cache.Set("discount:1:1:1", "stale", time.Minute)
	cache.Set("catalog:complex", "stale", time.Minute)

	_, err := svc.SyncRows(ctx, constants.SyncTriggerUpload, "a", []providers.SourceRow{row(2, "Alpha", "Studio", "Cash", 1, 1)})
	require.NoError(t, err)

	_, found := cache.Get("discount:1:1:1")
	assert.False(t, found)
	_, found = cache.Get("catalog:complex")
	assert.False(t, found)
}

func TestSyncRows_RecordsRunAndMetrics(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	notifier := &mockNotifier{}
	svc := NewDiscountSyncService(gdb, providers.NewSpreadsheetProvider(""), nil, repositories.NewSyncRunRepo(gdb), reg, notifier, "admin@example.com")

	report, err := svc.SyncRows(context.Background(), constants.SyncTriggerScheduled, "/data/prices.xlsx", []providers.SourceRow{
		row(2, "Alpha", "Studio", "Cash", 1, 1),
		row(3, "Alpha", "Studio", nil, 1, 1),
	})
	require.NoError(t, err)

	run, err := repositories.NewSyncRunRepo(gdb).GetLastSuccess(context.Background())
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, report.BatchID, run.ID)
	assert.Equal(t, constants.SyncTriggerScheduled, run.Trigger)
	assert.Equal(t, 2, run.RowsTotal)
	assert.Equal(t, 1, run.RowsApplied)
	assert.Equal(t, 1, run.RowsSkipped)

	assert.Equal(t, 1.0, promtest.ToFloat64(reg.SyncBatchesTotal.WithLabelValues(constants.SyncTriggerScheduled, constants.SyncStatusSuccess)))
	assert.Equal(t, 1.0, promtest.ToFloat64(reg.SyncRowsTotal.WithLabelValues(constants.RowResultCreated)))
	assert.Equal(t, 1.0, promtest.ToFloat64(reg.SyncRowsTotal.WithLabelValues(constants.SkipMissingRequiredField)))

	svc.WaitNotifications()
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []string{"Discount sync completed"}, notifier.sent)
}

func TestSyncFromFile_SourceErrorAbortsBeforeResolution(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	source := &mockSource{
		readFileFunc: func(ctx context.Context, path string, opts providers.ReadOptions) ([]providers.SourceRow, error) {
			return nil, providers.ErrSourceNotFound
		},
	}
	svc := NewDiscountSyncService(gdb, source, nil, repositories.NewSyncRunRepo(gdb), nil, nil, "")

	report, err := svc.SyncFromFile(context.Background(), constants.SyncTriggerFile, "/missing.xlsx", providers.ReadOptions{})
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, ErrSourceNotFound))
	assert.True(t, IsSourceError(err))

	runs, err := repositories.NewSyncRunRepo(gdb).ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, constants.SyncStatusFailed, runs[0].Status)
}

func TestSyncFromUpload_Workbook(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	svc := newSyncService(gdb, nil)

	f := excelize.NewFile()
	sheet := [][]interface{}{
		{"Название", "Тип", "Вид оплаты", "Скидка МПП", "Скидка РОП"},
		{"Alpha", "Studio", "Cash", "10%", "5%"},
		{"Alpha", "Studio", "Cash", "12%", "6%"},
	}
	for r, values := range sheet {
		axis, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", axis, &values))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	report, err := svc.SyncFromUpload(context.Background(), "prices.xlsx", bytes.NewReader(buf.Bytes()), providers.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, constants.SyncTriggerUpload, report.Trigger)
	assert.Equal(t, 2, report.RowsTotal)

	d := discountFor(t, gdb, "Alpha", "Studio", "Cash")
	assert.Equal(t, 12.0, d.MppDiscount)
	assert.Equal(t, 6.0, d.OptDiscount)
}
