package engine

import "time"

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. От него зависят разброс и поиск всех вышек:
	// вышка N получает Seed + N.
	Seed int64

	// TickInterval - шаг симуляции. dt всегда равен ему, даже если тик опоздал.
	TickInterval time.Duration

	// PublishEvery - телеметрия уходит подписчикам раз в столько тиков.
	PublishEvery int

	// SaveDir - куда писать сейв при остановке. Пусто - не сохранять.
	SaveDir string
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:         time.Now().UnixNano(),
		TickInterval: 50 * time.Millisecond,
		PublishEvery: 2,
		SaveDir:      "saves",
	}
}
