package constants

// Sync triggers recorded in sync_runs
const (
	SyncTriggerUpload    = "upload"
	SyncTriggerFile      = "file"
	SyncTriggerScheduled = "scheduled"
)

// Sync run outcomes
const (
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
)

// Row results, also used as metric labels
const (
	RowResultCreated = "created"
	RowResultUpdated = "updated"

	SkipMissingRequiredField = "missing_required_field"
	SkipDiscountParseError   = "discount_parse_error"
	SkipEntityNotResolved    = "entity_not_resolved"
)

// Spreadsheet column labels of the discount price list
const (
	ColumnComplex     = "Название"
	ColumnType        = "Тип"
	ColumnPaymentType = "Вид оплаты"
	ColumnMPP         = "Скидка МПП"
	ColumnROP         = "Скидка РОП"
)

// DiscountColumns lists the columns the sync pipeline reads, in sheet order.
var DiscountColumns = []string{
	ColumnComplex,
	ColumnType,
	ColumnPaymentType,
	ColumnMPP,
	ColumnROP,
}
