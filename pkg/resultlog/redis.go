package resultlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config определяет параметры публикации результата прогона.
// Позволяет оркестратору отслеживать состояния через Redis (GET/SUBSCRIBE)
type Config struct {
	Address  string `yaml:"address"`  // Адрес Redis, например "127.0.0.1:6379"
	Name     string `yaml:"name"`     // Имя результата (ключ/канал), например "MUENCHEN_TELEKOM"
	Password string `yaml:"password"` // Пароль Redis (опционально)
	DB       int    `yaml:"db"`       // Индекс базы данных Redis (по умолчанию 0)
	TTL      int    `yaml:"ttl"`      // TTL ключа в секундах (по умолчанию 3600)
}

// RunResult представляет состояние прогона очистки, публикуемое в Redis
// после завершения (успешного или с ошибкой).
//
// Redis-ключи:
//
//	SET  cellscan:run:<name>:state  <JSON>  EX <ttl>  - для GET-запросов оркестратора
//	PUB  cellscan:run:<name>                          - для event-driven маршрутизации
type RunResult struct {
	RunName     string    `json:"run_name"`
	Region      string    `json:"region"`
	Status      string    `json:"status"` // "success" | "failed"
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	DurationMs  int64     `json:"duration_ms"`
	RowsRaw     int       `json:"rows_raw"`
	RowsCleaned int       `json:"rows_cleaned"`
	RowsNew     int       `json:"rows_new"`
	Error       *string   `json:"error,omitempty"`
}

// RedisPublisher публикует результат прогона в Redis
type RedisPublisher struct {
	client *redis.Client
	config Config
}

// NewRedisPublisher создает новый Redis publisher на основе конфигурации
func NewRedisPublisher(config Config) *RedisPublisher {
	if config.TTL <= 0 {
		config.TTL = 3600
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
	})
	return &RedisPublisher{client: client, config: config}
}

// Publish публикует результат прогона:
//   - SET cellscan:run:<name>:state <JSON> EX <ttl>  → для опроса (polling)
//   - PUBLISH cellscan:run:<name> <JSON>             → для подписки (pub/sub)
//
// Вызывается независимо от результата выполнения.
// execErr == nil означает успешный прогон
func (p *RedisPublisher) Publish(ctx context.Context, result RunResult, execErr error) error {
	result.RunName = p.config.Name

	if execErr != nil {
		result.Status = "failed"
		errStr := execErr.Error()
		result.Error = &errStr
	} else {
		result.Status = "success"
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	stateKey := fmt.Sprintf("cellscan:run:%s:state", p.config.Name)
	eventChannel := fmt.Sprintf("cellscan:run:%s", p.config.Name)
	ttl := time.Duration(p.config.TTL) * time.Second

	if err := p.client.Set(ctx, stateKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}
	if err := p.client.Publish(ctx, eventChannel, payload).Err(); err != nil {
		return fmt.Errorf("redis PUBLISH failed: %w", err)
	}

	return nil
}

// Close закрывает соединение с Redis
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
