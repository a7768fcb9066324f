package domain

import (
	"encoding/json"

	"sentry-server/internal/core/types"
)

// InternalCommand - команда для движка, уже разобранная из JSON.
// Применяется между тиками, никогда не внутри Update.
type InternalCommand struct {
	Action  ActionType      // Число! Быстро и безопасно.
	Tower   types.EntityID  // Какой вышке адресована
	Payload json.RawMessage // Сырые данные (парсятся хендлером)
}
