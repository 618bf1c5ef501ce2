package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ruslano69/cellscan/pkg/core/record"
)

const driverSqlite = "sqlite"

// Compile-time check: SQLiteStore должен реализовывать интерфейс Store
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore хранит снапшоты в SQLite, по таблице на регион.
// Все колонки объявлены TEXT: ячейки сохраняются строками как есть,
// чтобы round-trip не менял их представление для diff
type SQLiteStore struct {
	db    *sql.DB
	table string
}

// NewSQLiteStore открывает (или создает) базу снапшотов.
// table - имя таблицы снапшота, обычно производное от региона
func NewSQLiteStore(ctx context.Context, dsn, table string) (*SQLiteStore, error) {
	if table == "" {
		return nil, fmt.Errorf("snapshot table name is required")
	}
	if !validTableName(table) {
		return nil, fmt.Errorf("invalid snapshot table name: %s", table)
	}

	db, err := sql.Open(driverSqlite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// PRAGMA оптимизации для пакетной записи
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	return &SQLiteStore{db: db, table: table}, nil
}

// validTableName - только буквы, цифры и подчёркивания
func validTableName(name string) bool {
	for _, r := range name {
		ok := r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9')
		if !ok {
			return false
		}
	}
	return name != ""
}

// Save перезаписывает снапшот в транзакции
func (s *SQLiteStore) Save(ctx context.Context, rs record.RecordSet) error {
	names := rs.Schema.Names()

	quoted := make([]string, len(names))
	placeholders := make([]string, len(names))
	for i, name := range names {
		quoted[i] = `"` + name + `"` // "range" - зарезервированное слово SQL
		placeholders[i] = "?"
	}

	createSQL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (%s TEXT)`,
		s.table, strings.Join(quoted, " TEXT, "))
	insertSQL := fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s)`,
		s.table, strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM "%s"`, s.table)); err != nil {
		return fmt.Errorf("failed to clear snapshot table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rs.Rows {
		args := make([]any, len(row))
		for j, cell := range row {
			args[j] = cell
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// Load загружает прежний снапшот.
// Отсутствующая таблица - не ошибка: возвращается (nil, nil)
func (s *SQLiteStore) Load(ctx context.Context) (*record.RecordSet, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		s.table).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check snapshot table: %w", err)
	}
	if exists == 0 {
		return nil, nil
	}

	schema := record.ProjectedSchema()
	names := schema.Names()
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = `"` + name + `"`
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM "%s"`, strings.Join(quoted, ", "), s.table))
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer rows.Close()

	var data [][]string
	for rows.Next() {
		row := make([]string, len(names))
		scan := make([]any, len(names))
		for i := range row {
			scan[i] = &row[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot rows: %w", err)
	}

	return &record.RecordSet{Schema: schema, Rows: data}, nil
}

// Close закрывает соединение с БД
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
