package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/xxh3"

	"github.com/ruslano69/cellscan/pkg/core/record"
)

// Meta - сайдкар-метаданные снапшота.
// Checksum - XXH3 (64-bit, hex) несжатого CSV содержимого:
// быстрая проверка целостности перед сравнением с новым набором
type Meta struct {
	Rows       int       `json:"rows"`
	Checksum   string    `json:"checksum"`
	Compressed bool      `json:"compressed"`
	CreatedAt  time.Time `json:"created_at"`
}

// FileConfig - конфигурация файлового хранилища снапшотов
type FileConfig struct {
	Path          string // путь к CSV файлу снапшота
	Compress      bool   // zstd сжатие содержимого
	CompressLevel int    // уровень zstd: 1-19 (0 = 3)
}

// FileStore хранит снапшот как CSV файл с метаданными.
// Ячейки сохраняются строками как есть: round-trip не должен менять
// их представление, иначе ломается полнострочное равенство в diff
type FileStore struct {
	config FileConfig
}

// NewFileStore создает файловое хранилище снапшотов
func NewFileStore(config FileConfig) (*FileStore, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	if config.CompressLevel == 0 {
		config.CompressLevel = 3
	}
	return &FileStore{config: config}, nil
}

// metaPath - путь к сайдкар-файлу метаданных
func (s *FileStore) metaPath() string {
	return s.config.Path + ".meta.json"
}

// Save сохраняет набор, перезаписывая прежний снапшот
func (s *FileStore) Save(_ context.Context, rs record.RecordSet) error {
	var buf bytes.Buffer
	if err := record.Write(&buf, rs); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	checksum := fmt.Sprintf("%016x", xxh3.Hash(buf.Bytes()))

	payload := buf.Bytes()
	if s.config.Compress {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(s.config.CompressLevel)))
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		payload = encoder.EncodeAll(payload, nil)
		encoder.Close()
	}

	if err := os.WriteFile(s.config.Path, payload, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	meta := Meta{
		Rows:       rs.Len(),
		Checksum:   checksum,
		Compressed: s.config.Compress,
		CreatedAt:  time.Now().UTC(),
	}
	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot meta: %w", err)
	}
	if err := os.WriteFile(s.metaPath(), metaData, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot meta: %w", err)
	}

	return nil
}

// Load загружает прежний снапшот.
// Отсутствующий файл - не ошибка: возвращается (nil, nil)
func (s *FileStore) Load(_ context.Context) (*record.RecordSet, error) {
	payload, err := os.ReadFile(s.config.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	meta, err := s.loadMeta()
	if err != nil {
		return nil, err
	}

	if meta != nil && meta.Compressed || meta == nil && s.config.Compress {
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		payload, err = decoder.DecodeAll(payload, nil)
		decoder.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
		}
	}

	if meta != nil {
		actual := fmt.Sprintf("%016x", xxh3.Hash(payload))
		if actual != meta.Checksum {
			return nil, fmt.Errorf("snapshot checksum mismatch: expected %s, got %s (data corruption detected)",
				meta.Checksum, actual)
		}
	}

	rs, err := record.Read(bytes.NewReader(payload), record.ProjectedSchema(), s.config.Path)
	if err != nil {
		return nil, err
	}
	return &rs, nil
}

// loadMeta читает сайдкар-метаданные (nil если файла нет)
func (s *FileStore) loadMeta() (*Meta, error) {
	data, err := os.ReadFile(s.metaPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot meta: %w", err)
	}

	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot meta: %w", err)
	}
	return &meta, nil
}

// Close - noop для файлового хранилища
func (s *FileStore) Close() error {
	return nil
}
