package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ruslano69/cellscan/pkg/core/record"
	"github.com/ruslano69/cellscan/pkg/diff"
)

// Notification - сообщение о новых записях, найденных прогоном.
// Публикуется в очередь после сравнения с прежним снапшотом
type Notification struct {
	Region      string     `json:"region"`
	Provider    string     `json:"provider,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
	Stats       diff.Stats `json:"stats"`
	Fields      []string   `json:"fields"`
	Rows        [][]string `json:"rows"`
}

// NewNotification собирает уведомление из результата diff
func NewNotification(region, provider string, added record.RecordSet, stats diff.Stats) *Notification {
	return &Notification{
		Region:      region,
		Provider:    provider,
		GeneratedAt: time.Now().UTC(),
		Stats:       stats,
		Fields:      added.Schema.Names(),
		Rows:        added.Rows,
	}
}

// Marshal сериализует уведомление в JSON
func (n *Notification) Marshal() ([]byte, error) {
	return json.Marshal(n)
}

// Publisher представляет универсальный интерфейс публикации уведомлений.
// Поддерживает RabbitMQ и Apache Kafka
type Publisher interface {
	// Connect устанавливает соединение с брокером
	Connect(ctx context.Context) error

	// Publish отправляет сообщение в очередь/topic
	Publish(ctx context.Context, message []byte) error

	// Ping проверяет доступность брокера
	Ping(ctx context.Context) error

	// Close закрывает соединение с брокером
	Close() error

	// BrokerType возвращает тип брокера (rabbitmq, kafka)
	BrokerType() string
}

// Config содержит параметры подключения к message broker
type Config struct {
	Type     string `yaml:"type"`     // rabbitmq, kafka
	Host     string `yaml:"host"`     // Хост (для RabbitMQ)
	Port     int    `yaml:"port"`     // Порт (для RabbitMQ)
	User     string `yaml:"user"`     // Пользователь (для RabbitMQ)
	Password string `yaml:"password"` // Пароль (для RabbitMQ)
	Queue    string `yaml:"queue"`    // Имя очереди (для RabbitMQ)
	VHost    string `yaml:"vhost"`    // Virtual host (для RabbitMQ, по умолчанию "/")
	Durable  bool   `yaml:"durable"`  // Очередь переживает перезапуск RabbitMQ

	// Kafka специфичные параметры
	Brokers []string `yaml:"brokers"` // Список Kafka brokers
	Topic   string   `yaml:"topic"`   // Имя Kafka topic
}

// New создает новый Publisher на основе конфигурации
func New(cfg Config) (Publisher, error) {
	switch cfg.Type {
	case "rabbitmq":
		return NewRabbitMQ(cfg)
	case "kafka":
		return NewKafka(cfg)
	default:
		return nil, fmt.Errorf("unsupported broker type: %s (supported: rabbitmq, kafka)", cfg.Type)
	}
}
