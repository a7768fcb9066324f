package metrics

import (
	"strconv"

	"sentry-server/internal/core/types"
)

func formatID(id types.EntityID) string {
	return strconv.FormatUint(uint64(id), 10)
}
