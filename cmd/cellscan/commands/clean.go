package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ruslano69/cellscan/pkg/audit"
	"github.com/ruslano69/cellscan/pkg/cleaning"
	"github.com/ruslano69/cellscan/pkg/core/record"
	"github.com/ruslano69/cellscan/pkg/diff"
	"github.com/ruslano69/cellscan/pkg/export"
	"github.com/ruslano69/cellscan/pkg/publish"
	"github.com/ruslano69/cellscan/pkg/regions"
	"github.com/ruslano69/cellscan/pkg/resultlog"
	"github.com/ruslano69/cellscan/pkg/retry"
	"github.com/ruslano69/cellscan/pkg/sink"
	"github.com/ruslano69/cellscan/pkg/snapshot"
)

// CleanOptions - опции команды clean
type CleanOptions struct {
	InputFile  string
	Region     string
	Bounds     regions.Bounds
	Operators  map[int64]bool
	CountryMCC int64
	Provider   string // Имя провайдера для уведомлений (опционально)

	OutputFile string // Пустая строка = stdout
	XLSXFile   string
	SheetName  string

	Store          snapshot.Store // nil = без снапшота
	DiffSnapshot   bool           // Сравнить с прежним снапшотом, вывести только новые записи
	UpdateSnapshot bool           // Сохранить очищенные записи как новый снапшот

	Publisher *publish.Config           // nil = без публикации
	Sink      *sink.PostgresConfig      // nil = без записи в PostgreSQL
	ResultLog *resultlog.RedisPublisher // nil = без отчета в Redis
	Retryer   *retry.Retryer            // Повторы для publish/resultlog
	Audit     *audit.Logger
}

// cleanCounts - счетчики прогона для отчета в Redis
type cleanCounts struct {
	raw     int
	cleaned int
	added   int
}

// Clean выполняет полный прогон очистки: загрузка сырого CSV,
// пайплайн очистки, опциональное сравнение со снапшотом и доставка
// результата. Отчет о прогоне публикуется в Redis независимо от исхода
func Clean(ctx context.Context, options CleanOptions) error {
	started := time.Now().UTC()
	var counts cleanCounts

	runErr := runClean(ctx, options, &counts)

	if options.ResultLog != nil {
		finished := time.Now().UTC()
		result := resultlog.RunResult{
			Region:      options.Region,
			StartedAt:   started,
			FinishedAt:  finished,
			DurationMs:  finished.Sub(started).Milliseconds(),
			RowsRaw:     counts.raw,
			RowsCleaned: counts.cleaned,
			RowsNew:     counts.added,
		}

		publishFn := func(ctx context.Context) error {
			return options.ResultLog.Publish(ctx, result, runErr)
		}

		var pubErr error
		if options.Retryer != nil {
			pubErr = options.Retryer.Do(ctx, publishFn)
		} else {
			pubErr = publishFn(ctx)
		}
		if pubErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to publish run result: %v\n", pubErr)
		}
	}

	return runErr
}

// runClean - тело прогона, вынесено отдельно ради отчета в Redis
func runClean(ctx context.Context, options CleanOptions, counts *cleanCounts) error {
	// Загружаем сырой CSV
	loadStart := time.Now()
	raw, err := record.ReadRowsFile(options.InputFile)
	if err != nil {
		if options.Audit != nil {
			options.Audit.LogFailure(ctx, audit.OpLoad, err)
		}
		return err
	}
	counts.raw = len(raw)
	if options.Audit != nil {
		entry := options.Audit.LogSuccess(ctx, audit.OpLoad)
		entry.WithResource(options.InputFile).
			WithRowCounts(len(raw), len(raw)).
			WithDuration(time.Since(loadStart))
	}

	// Собираем и запускаем пайплайн
	pipeline, err := cleaning.New(cleaning.Config{
		Bounds:     options.Bounds,
		Operators:  options.Operators,
		CountryMCC: options.CountryMCC,
	})
	if err != nil {
		return err
	}

	cleanStart := time.Now()
	cleaned, stats, err := pipeline.Clean(ctx, raw)
	if err != nil {
		if options.Audit != nil {
			options.Audit.LogFailure(ctx, audit.OpClean, err)
		}
		return err
	}
	counts.cleaned = cleaned.Len()
	if options.Audit != nil {
		entry := options.Audit.LogSuccess(ctx, audit.OpClean)
		entry.WithResource(options.InputFile).
			WithRowCounts(len(raw), cleaned.Len()).
			WithDuration(time.Since(cleanStart))
		options.Audit.LogStages(ctx, stats)
	}
	fmt.Print(stats.FormatText())

	// Результат команды: очищенные записи либо только новые
	output := cleaned

	if options.DiffSnapshot {
		if options.Store == nil {
			return fmt.Errorf("snapshot diff requested but no snapshot store configured")
		}

		old, err := options.Store.Load(ctx)
		if err != nil {
			if options.Audit != nil {
				options.Audit.LogFailure(ctx, audit.OpSnapshotLoad, err)
			}
			return fmt.Errorf("failed to load snapshot: %w", err)
		}
		if options.Audit != nil {
			entry := options.Audit.LogSuccess(ctx, audit.OpSnapshotLoad)
			if old == nil {
				entry.WithMetadata("note", "no previous snapshot")
			} else {
				entry.WithRowCounts(old.Len(), old.Len())
			}
		}

		differ := diff.NewDiffer()
		added, diffStats, err := differ.NewRows(cleaned, old)
		if err != nil {
			if options.Audit != nil {
				options.Audit.LogFailure(ctx, audit.OpDiff, err)
			}
			return err
		}
		counts.added = added.Len()
		if options.Audit != nil {
			entry := options.Audit.LogSuccess(ctx, audit.OpDiff)
			entry.WithRowCounts(cleaned.Len(), added.Len())
		}
		fmt.Print(diffStats.FormatText())

		output = added

		// Публикуем новые записи в брокер
		if options.Publisher != nil {
			if err := publishAdded(ctx, options, added, diffStats); err != nil {
				return err
			}
		}
	}

	// Обновляем снапшот очищенными записями (не только новыми)
	if options.UpdateSnapshot {
		if options.Store == nil {
			return fmt.Errorf("snapshot update requested but no snapshot store configured")
		}
		if err := options.Store.Save(ctx, cleaned); err != nil {
			if options.Audit != nil {
				options.Audit.LogFailure(ctx, audit.OpSnapshotSave, err)
			}
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		if options.Audit != nil {
			entry := options.Audit.LogSuccess(ctx, audit.OpSnapshotSave)
			entry.WithRowCounts(cleaned.Len(), cleaned.Len())
		}
	}

	// Пишем результат: файл или stdout
	if options.OutputFile != "" {
		if err := record.WriteFile(options.OutputFile, output); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Printf("✓ Wrote %d rows to %s\n", output.Len(), options.OutputFile)
	} else {
		if err := record.Write(os.Stdout, output); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	// Дополнительный XLSX экспорт
	if options.XLSXFile != "" {
		if err := export.ToXLSX(output, options.XLSXFile, options.SheetName); err != nil {
			if options.Audit != nil {
				options.Audit.LogFailure(ctx, audit.OpExport, err)
			}
			return fmt.Errorf("failed to export XLSX: %w", err)
		}
		if options.Audit != nil {
			entry := options.Audit.LogSuccess(ctx, audit.OpExport)
			entry.WithResource(options.XLSXFile).WithRowCounts(output.Len(), output.Len())
		}
		fmt.Printf("✓ Wrote %d rows to %s\n", output.Len(), options.XLSXFile)
	}

	// Запись в PostgreSQL
	if options.Sink != nil {
		pg, err := sink.NewPostgres(ctx, *options.Sink)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL sink: %w", err)
		}
		defer pg.Close()

		written, err := pg.Write(ctx, cleaned)
		if err != nil {
			return fmt.Errorf("failed to write to PostgreSQL sink: %w", err)
		}
		fmt.Printf("✓ Wrote %d rows to table %s\n", written, options.Sink.Table)
	}

	return nil
}

// publishAdded отправляет уведомление о новых записях в брокер
func publishAdded(ctx context.Context, options CleanOptions, added record.RecordSet, stats diff.Stats) error {
	publisher, err := publish.New(*options.Publisher)
	if err != nil {
		return err
	}
	defer publisher.Close()

	if err := publisher.Connect(ctx); err != nil {
		if options.Audit != nil {
			options.Audit.LogFailure(ctx, audit.OpPublish, err)
		}
		return fmt.Errorf("failed to connect to broker: %w", err)
	}

	notification := publish.NewNotification(options.Region, options.Provider, added, stats)
	message, err := notification.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	publishFn := func(ctx context.Context) error {
		return publisher.Publish(ctx, message)
	}

	if options.Retryer != nil {
		err = options.Retryer.Do(ctx, publishFn)
	} else {
		err = publishFn(ctx)
	}
	if err != nil {
		if options.Audit != nil {
			options.Audit.LogFailure(ctx, audit.OpPublish, err)
		}
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	if options.Audit != nil {
		entry := options.Audit.LogSuccess(ctx, audit.OpPublish)
		entry.WithResource(publisher.BrokerType()).
			WithRowCounts(added.Len(), added.Len())
	}
	fmt.Printf("✓ Published %d new rows to %s\n", added.Len(), publisher.BrokerType())
	return nil
}
