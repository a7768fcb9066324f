package engine

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"sentry-server/internal/domain"
)

var ErrStorageDisabled = errors.New("storage is not configured")

// Save пишет состояние всех вышек на диск и возвращает путь к файлу.
// Вызывать, когда цикл симуляции не запущен (до Start или после Done).
func (s *SentryService) Save() (string, error) {
	if s.Storage == nil {
		return "", ErrStorageDisabled
	}

	session := &domain.SaveSession{
		Seed:      s.cfg.Seed,
		Timestamp: time.Now().Unix(),
		Towers:    make([]domain.SentrySnapshot, 0, len(s.order)),
	}
	for _, id := range s.order {
		session.Towers = append(session.Towers, s.towers[id].Controller.Snapshot())
	}

	path, err := s.Storage.Save(session)
	if err != nil {
		return "", err
	}
	s.log.WithFields(logrus.Fields{
		"path":   path,
		"towers": len(session.Towers),
	}).Info("Session saved")
	return path, nil
}

// Load читает сейв и восстанавливает вышки. Вышки, которых нет в конфиге,
// пропускаются. Вызывать до Start.
func (s *SentryService) Load(path string) error {
	if s.Storage == nil {
		return ErrStorageDisabled
	}

	session, err := s.Storage.Load(path)
	if err != nil {
		return err
	}
	s.Restore(session)
	return nil
}

// Restore применяет снапшоты к вышкам с совпадающими ID.
func (s *SentryService) Restore(session *domain.SaveSession) {
	restored := 0
	for _, snap := range session.Towers {
		t, ok := s.towers[snap.Tower]
		if !ok {
			s.log.WithField("tower", snap.Tower.String()).Warn("Saved tower not found in config, skipping.")
			continue
		}
		t.Controller.Restore(snap)
		restored++
	}

	if session.Seed != s.cfg.Seed {
		s.log.WithFields(logrus.Fields{
			"saved":   session.Seed,
			"current": s.cfg.Seed,
		}).Warn("Save was made with a different seed.")
	}

	s.refresh()
	s.log.WithField("towers", restored).Info("Session restored")
}
