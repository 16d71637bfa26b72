package logging

// Field names used across the ledger's log output.
const (
	FieldFile          = "file_path"
	FieldTransactionID = "transaction_id"
	FieldRuleID        = "rule_id"
	FieldCategory      = "category"
	FieldAccount       = "account"
	FieldBatchID       = "batch_id"
	FieldRow           = "row"
	FieldColumn        = "column"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldCount         = "count"
	FieldSkipped       = "skipped"
	FieldLimit         = "limit"
	FieldPeriodStart   = "period_start"
	FieldPeriodEnd     = "period_end"
	FieldDatabase      = "database"
)
