// Package sqlkit builds parameterized SQL statements from Go structs for
// Sqlite, MySQL and PostgreSQL.
//
// # Overview
//
// Package sqlkit maps Go structs to tables and provides fluent builders for
// SELECT, INSERT, UPDATE and DELETE statements. Statements are written with
// "?" markers internally and rendered for the target dialect at the end, so
// PostgreSQL's numbered placeholders never need renumbering when fragments
// are spliced together.
//
// Key features include:
//   - Entity-driven statements: column names and values come from struct
//     fields, nil pointer fields are omitted
//   - A typed Table facade with CRUD, pagination and keyset pagination
//   - Soft deletion and global filters injected into every statement
//   - Upserts rendered per dialect (ON CONFLICT vs ON DUPLICATE KEY UPDATE)
//   - Composite primary keys, batch deletes as a single statement
//   - Transaction support with context
//
// # Basic Usage
//
// Create a table facade for a struct and perform CRUD operations:
//
//	type User struct {
//		Id        int64
//		Name      string
//		Age       int
//		CreatedAt time.Time
//	}
//
//	users := sqlkit.MustNewTable[User](sqlkit.Key("id", true), conn, sqlkit.Postgres)
//
//	// Insert a record
//	users.InsertOne(ctx, User{Name: "Alice", Age: 40})
//
//	// Find records
//	adults, err := users.GetList(ctx, func(s *sqlkit.SelectSQL) {
//		s.Where("age >= ?", 18).OrderBy("created_at DESC")
//	})
//
//	// Update a record
//	users.UpdateByCond(ctx, func(s *sqlkit.UpdateSQL) {
//		s.Set("name = ?", "Bob").Where("id = ?", 1)
//	})
//
//	// Delete a record
//	users.DeleteByKey(ctx, 1)
//
// # Table and Column Naming
//
// Table names are the underscored struct name (User becomes user,
// OrderItem becomes order_item), so the mapping inverts cleanly in both
// directions. Column names are derived from field names the same way; the
// "column" struct tag overrides per field, and "-" skips a field. NewModel
// takes the table name verbatim for tables that follow other conventions.
//
// # Statement Builders
//
// Builders can be used without the facade, and without a connection, to
// produce SQL text and bound values for any driver:
//
//	m := sqlkit.NewModel("users", sqlkit.Key("id", true), sqlkit.MySQL)
//	sql, args, err := m.Select("id", "name").
//		Where("age > ?", 18).
//		OrderBy("id").
//		Render()
//
// Values bind in marker order; the render fails if the marker and value
// counts diverge.
//
// # Soft Deletion and Global Filters
//
// SetSoftDelete("deleted") turns deletes into updates that set the column to
// TRUE, hides marked rows from every read and enables RestoreByKey. Tables
// named in the exclude list keep physical deletes. SetGlobalFilter injects a
// predicate, such as a tenant scope, into every statement:
//
//	sqlkit.SetSoftDelete("deleted", "audit_logs")
//	sqlkit.SetGlobalFilter(func(table string) (string, []interface{}, bool) {
//		return "tenant_id = ?", []interface{}{tenantId}, true
//	})
//
// # Transactions
//
// Execute multiple operations in a transaction:
//
//	users.Model().MustTransaction(func(ctx context.Context, tx db.Tx) error {
//		// statements on tx
//		return nil // commit; return error to rollback
//	})
//
// Or hold an explicit handle; once any statement in it fails, the rest are
// skipped and Commit refuses until the transaction is rolled back:
//
//	tx, err := users.Model().Begin(ctx)
//	defer tx.Rollback(ctx)
//	users.WithTx(tx).InsertOne(ctx, alice)
//	users.WithTx(tx).InsertOne(ctx, bob)
//	err = tx.Commit(ctx)
//
// # Database Drivers
//
// Execution goes through the db.DB interface from github.com/gopsql/db, so
// any driver wrapped for it works. For database/sql drivers:
//
//	import (
//		"database/sql"
//		"github.com/gopsql/standard"
//	)
//
//	sqlDB, _ := sql.Open("postgres", connStr)
//	conn := standard.NewDB("postgres", sqlDB)
//	users := sqlkit.MustNewTable[User](sqlkit.Key("id", true), conn)
package sqlkit
