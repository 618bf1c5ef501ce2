package sink

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruslano69/cellscan/pkg/core/record"
)

// PostgresConfig - конфигурация реляционного приёмника
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	Table    string `yaml:"table"`
	Truncate bool   `yaml:"truncate"` // очищать таблицу перед записью
}

// Postgres - приёмник очищенных записей в PostgreSQL.
// Массовая загрузка через COPY, типизация ячеек по схеме набора
type Postgres struct {
	pool   *pgxpool.Pool
	config PostgresConfig
}

// NewPostgres создает приёмник и проверяет подключение
func NewPostgres(ctx context.Context, config PostgresConfig) (*Postgres, error) {
	if config.Table == "" {
		return nil, fmt.Errorf("sink table name is required")
	}

	pool, err := pgxpool.New(ctx, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool, config: config}, nil
}

// Write загружает набор в целевую таблицу.
// Возвращает число записанных строк
func (p *Postgres) Write(ctx context.Context, rs record.RecordSet) (int64, error) {
	if err := p.ensureTable(ctx, rs.Schema); err != nil {
		return 0, err
	}

	if p.config.Truncate {
		ident := pgx.Identifier{p.config.Table}.Sanitize()
		if _, err := p.pool.Exec(ctx, "TRUNCATE TABLE "+ident); err != nil {
			return 0, fmt.Errorf("failed to truncate %s: %w", p.config.Table, err)
		}
	}

	converter := record.NewConverter()
	rows := make([][]any, len(rs.Rows))
	for i, row := range rs.Rows {
		typed := make([]any, len(row))
		for j, cell := range row {
			tv, err := converter.ParseValue(cell, rs.Schema.Fields[j])
			if err != nil {
				return 0, fmt.Errorf("row %d: %w", i+1, err)
			}
			switch {
			case tv.IsNull:
				typed[j] = nil
			case tv.IntValue != nil:
				typed[j] = *tv.IntValue
			case tv.FloatValue != nil:
				typed[j] = *tv.FloatValue
			default:
				typed[j] = tv.RawValue
			}
		}
		rows[i] = typed
	}

	copied, err := p.pool.CopyFrom(ctx,
		pgx.Identifier{p.config.Table},
		rs.Schema.Names(),
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to copy rows into %s: %w", p.config.Table, err)
	}

	return copied, nil
}

// ensureTable создает целевую таблицу по схеме набора, если её нет
func (p *Postgres) ensureTable(ctx context.Context, schema record.Schema) error {
	cols := ""
	for i, f := range schema.Fields {
		if i > 0 {
			cols += ", "
		}
		cols += pgx.Identifier{f.Name}.Sanitize() + " " + postgresType(f.Type)
	}

	ident := pgx.Identifier{p.config.Table}.Sanitize()
	sql := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", ident, cols)

	if _, err := p.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to create table %s: %w", p.config.Table, err)
	}
	return nil
}

// postgresType отображает тип поля на тип колонки PostgreSQL
func postgresType(t record.DataType) string {
	switch t {
	case record.TypeInteger:
		return "BIGINT"
	case record.TypeReal:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

// Close закрывает пул соединений
func (p *Postgres) Close() {
	p.pool.Close()
}
