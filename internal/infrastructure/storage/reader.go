package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"sentry-server/internal/core/types"
	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
)

func (s *SaveService) Load(path string) (*domain.SaveSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open save file: %w", err)
	}
	defer f.Close()

	return readBinary(bufio.NewReader(f))
}

func readBinary(r io.Reader) (*domain.SaveSession, error) {
	// 1. Читаем заголовок целиком
	var header SaveFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.TowerCount < 0 || header.TowerCount > maxTowers {
		return nil, fmt.Errorf("invalid tower count: %d", header.TowerCount)
	}

	session := &domain.SaveSession{
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
		Towers:    make([]domain.SentrySnapshot, header.TowerCount),
	}

	// 2. Читаем вышки
	for i := range session.Towers {
		var rec TowerRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("failed to read tower #%d: %w", i, err)
		}
		session.Towers[i] = fromRecord(rec)
	}

	return session, nil
}

func fromRecord(rec TowerRecord) domain.SentrySnapshot {
	state := enums.SentryState(rec.State)
	if state > enums.SentryStateEnemyLost {
		state = enums.SentryStateIdle
	}
	return domain.SentrySnapshot{
		Tower:                  types.EntityID(rec.Tower),
		Enabled:                rec.Flags&flagEnabled != 0,
		Sleeping:               rec.Flags&flagSleeping != 0,
		EnemyHasEverBeenInView: rec.Flags&flagEverSeen != 0,
		State:                  state,
		IdleMovementEntity:     types.EntityID(rec.IdleMovement),
		AlertGroupID:           rec.AlertGroupID,
		LastKnownPosition:      domain.Vec3{X: rec.LastKnown[0], Y: rec.LastKnown[1], Z: rec.LastKnown[2]},
	}
}
