package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ruslano69/cellscan/pkg/core/record"
)

// Compile-time check: S3Store должен реализовывать интерфейс Store
var _ Store = (*S3Store)(nil)

// S3Config - конфигурация S3 хранилища снапшотов
type S3Config struct {
	Bucket   string
	Key      string // ключ объекта, например "snapshots/muenchen.csv"
	Region   string
	Endpoint string // кастомный endpoint (MinIO, R2); пустой = AWS
}

// S3Store хранит снапшот как CSV объект в S3-совместимом хранилище.
// Учётные данные берутся из стандартной цепочки AWS (env, профиль, IAM)
type S3Store struct {
	client     *s3.Client
	uploader   *manager.Uploader
	downloader *manager.Downloader
	config     S3Config
}

// NewS3Store создает S3 хранилище снапшотов
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3 bucket and key are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:     client,
		uploader:   manager.NewUploader(client),
		downloader: manager.NewDownloader(client),
		config:     cfg,
	}, nil
}

// Save загружает набор в S3, перезаписывая прежний объект
func (s *S3Store) Save(ctx context.Context, rs record.RecordSet) error {
	var buf bytes.Buffer
	if err := record.Write(&buf, rs); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	contentType := "text/csv"
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &s.config.Bucket,
		Key:         &s.config.Key,
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot to s3://%s/%s: %w",
			s.config.Bucket, s.config.Key, err)
	}
	return nil
}

// Load скачивает прежний снапшот.
// Отсутствующий объект - не ошибка: возвращается (nil, nil)
func (s *S3Store) Load(ctx context.Context) (*record.RecordSet, error) {
	buf := manager.NewWriteAtBuffer(nil)

	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: &s.config.Bucket,
		Key:    &s.config.Key,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to download snapshot from s3://%s/%s: %w",
			s.config.Bucket, s.config.Key, err)
	}

	rs, err := record.Read(bytes.NewReader(buf.Bytes()), record.ProjectedSchema(),
		fmt.Sprintf("s3://%s/%s", s.config.Bucket, s.config.Key))
	if err != nil {
		return nil, err
	}
	return &rs, nil
}

// Close - noop для S3 хранилища
func (s *S3Store) Close() error {
	return nil
}
