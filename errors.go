package sqlkit

import "errors"

var (
	// ErrSchemaMismatch is returned when a primary key column does not
	// correspond to any reflected field of the record.
	ErrSchemaMismatch = errors.New("primary key column not covered by record fields")

	// ErrTableNameMismatch is returned when an entity-driven builder is used
	// with a record whose derived table name differs from the model's table.
	ErrTableNameMismatch = errors.New("record table name does not match model table name")

	// ErrUnsupportedByDialect is returned when a requested feature is not
	// available under the active dialect, for example RETURNING under MySQL.
	ErrUnsupportedByDialect = errors.New("feature not supported by dialect")

	// ErrInvalidPage is returned for a non-positive page number or page size,
	// or when the resulting offset would overflow.
	ErrInvalidPage = errors.New("page number and page size must be greater than 0")

	// ErrPlaceholderMismatch indicates that the number of placeholder markers
	// in a fragment differs from the number of bound values. This is always a
	// defect in statement construction, never a recoverable condition.
	ErrPlaceholderMismatch = errors.New("placeholder count does not match bound value count")

	// ErrInvalidKey is returned when a key tuple does not match the shape of
	// the configured primary key.
	ErrInvalidKey = errors.New("key does not match primary key shape")

	// ErrNoRecords is returned by entity-driven many-record builders when the
	// record slice is empty.
	ErrNoRecords = errors.New("no records provided")

	// ErrNoColumns is returned when an entity-driven builder derives an empty
	// column list from the record.
	ErrNoColumns = errors.New("no columns derived from record")

	// ErrSoftDeleteNotConfigured is returned by restore operations on a table
	// without soft delete configured.
	ErrSoftDeleteNotConfigured = errors.New("soft delete not configured for table")

	// ErrInvalidRecord is returned when a record is not a struct or a pointer
	// to a struct.
	ErrInvalidRecord = errors.New("record must be a struct or pointer to struct")

	// ErrNoConnection is returned when an operation requires a database
	// connection but none was set.
	ErrNoConnection = errors.New("no connection")

	// ErrTxFailed is returned by Commit after any operation in the shared
	// transactional context failed. The caller must roll back explicitly.
	ErrTxFailed = errors.New("transaction is in a failed state and must be rolled back")

	// ErrTxDone is returned when a finished transactional context is reused.
	ErrTxDone = errors.New("transaction already committed or rolled back")
)
