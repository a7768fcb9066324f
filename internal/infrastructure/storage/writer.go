package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sentry-server/internal/domain"
)

const (
	MagicHeader string = `SNTY` // 4 байта
	Version1    uint32 = 1

	// maxTowers - защита от битого заголовка при чтении.
	maxTowers = 1 << 16
)

const (
	flagEnabled uint8 = 1 << iota
	flagSleeping
	flagEverSeen
)

// SaveFileHeader - это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type SaveFileHeader struct {
	Magic      [4]byte // 4 байта
	Version    uint32  // 4 байта
	Seed       int64   // 8 байт
	Timestamp  int64   // 8 байт
	TowerCount int32   // 4 байта
}

// TowerRecord - запись одной вышки фиксированного размера (48 байт).
type TowerRecord struct {
	Tower        uint64     // 8
	Flags        uint8      // 1
	State        uint8      // 1
	_            [2]byte    // 2
	AlertGroupID int32      // 4
	IdleMovement uint64     // 8
	LastKnown    [3]float64 // 24
}

type SaveService struct {
	SaveDir string
}

func NewSaveService(dir string) *SaveService {
	// Создаем папку если нет
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.MkdirAll(dir, 0755)
	}
	return &SaveService{SaveDir: dir}
}

// Save пишет сейв в SaveDir и возвращает путь к файлу.
func (s *SaveService) Save(session *domain.SaveSession) (string, error) {
	filename := fmt.Sprintf("sentry_%d_%d.snty", session.Seed, session.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create save file: %w", err)
	}
	if err := writeAndClose(f, session); err != nil {
		return "", err
	}
	return path, nil
}

// writeAndClose пишет сейв и закрывает файл. Ошибка Close тоже ошибка
// записи: без неё сейв мог не дойти до диска.
func writeAndClose(wc io.WriteCloser, session *domain.SaveSession) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close save file: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(wc)
	if err := writeBinary(bw, session); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush save file: %w", err)
	}
	return nil
}

func writeBinary(w io.Writer, s *domain.SaveSession) error {
	if len(s.Towers) > maxTowers {
		return fmt.Errorf("too many towers: %d", len(s.Towers))
	}

	// 1. Заголовок
	header := SaveFileHeader{
		Version:    Version1,
		Seed:       s.Seed,
		Timestamp:  s.Timestamp,
		TowerCount: int32(len(s.Towers)),
	}
	copy(header.Magic[:], MagicHeader) // Копируем строку в массив [4]byte

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Вышки
	for _, t := range s.Towers {
		rec := toRecord(t)
		if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("failed to write tower %d: %w", t.Tower, err)
		}
	}
	return nil
}

func toRecord(t domain.SentrySnapshot) TowerRecord {
	var flags uint8
	if t.Enabled {
		flags |= flagEnabled
	}
	if t.Sleeping {
		flags |= flagSleeping
	}
	if t.EnemyHasEverBeenInView {
		flags |= flagEverSeen
	}
	return TowerRecord{
		Tower:        uint64(t.Tower),
		Flags:        flags,
		State:        uint8(t.State),
		AlertGroupID: t.AlertGroupID,
		IdleMovement: uint64(t.IdleMovementEntity),
		LastKnown:    [3]float64{t.LastKnownPosition.X, t.LastKnownPosition.Y, t.LastKnownPosition.Z},
	}
}
