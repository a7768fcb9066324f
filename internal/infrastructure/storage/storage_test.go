package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"

	"sentry-server/internal/core/types"
	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
)

func sampleSession() *domain.SaveSession {
	return &domain.SaveSession{
		Seed:      42,
		Timestamp: 1700000000,
		Towers: []domain.SentrySnapshot{
			{
				Tower:                  types.PackEntityID(enums.EntityKindTower, 0, 1),
				Enabled:                true,
				EnemyHasEverBeenInView: true,
				State:                  enums.SentryStateEnemyLost,
				IdleMovementEntity:     types.PackEntityID(enums.EntityKindMarker, 0, 5),
				AlertGroupID:           7,
				LastKnownPosition:      domain.Vec3{X: 1.5, Y: -2, Z: 0.25},
			},
			{
				Tower:        types.PackEntityID(enums.EntityKindTower, 0, 2),
				Sleeping:     true,
				AlertGroupID: -1,
			},
		},
	}
}

func TestRecordSize(t *testing.T) {
	if got := binary.Size(TowerRecord{}); got != 48 {
		t.Errorf("tower record size = %d, want 48", got)
	}
	if got := binary.Size(SaveFileHeader{}); got != 28 {
		t.Errorf("header size = %d, want 28", got)
	}
}

func TestSaveLoad(t *testing.T) {
	svc := NewSaveService(filepath.Join(t.TempDir(), "saves"))
	in := sampleSession()

	path, err := svc.Save(in)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := svc.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if out.Seed != in.Seed || out.Timestamp != in.Timestamp {
		t.Errorf("header mismatch: %+v", out)
	}
	if len(out.Towers) != len(in.Towers) {
		t.Fatalf("expected %d towers, got %d", len(in.Towers), len(out.Towers))
	}
	for i := range in.Towers {
		if out.Towers[i] != in.Towers[i] {
			t.Errorf("tower #%d: got %+v, want %+v", i, out.Towers[i], in.Towers[i])
		}
	}
}

func TestReadBinary_Errors(t *testing.T) {
	valid := func() []byte {
		var buf bytes.Buffer
		if err := writeBinary(&buf, sampleSession()); err != nil {
			t.Fatalf("write: %v", err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name   string
		mutate func(b []byte) []byte
	}{
		{"Bad magic", func(b []byte) []byte { b[0] = 'X'; return b }},
		{"Bad version", func(b []byte) []byte { b[4] = 9; return b }},
		{"Negative count", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[24:], 0xFFFFFFFF); return b }},
		{"Truncated record", func(b []byte) []byte { return b[:len(b)-10] }},
		{"Truncated header", func(b []byte) []byte { return b[:10] }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := readBinary(bytes.NewReader(tt.mutate(valid()))); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFromRecord_UnknownStateFallsBackToIdle(t *testing.T) {
	s := fromRecord(TowerRecord{State: 200})
	if s.State != enums.SentryStateIdle {
		t.Errorf("expected Idle, got %s", s.State)
	}
}

// failingFile пишет в буфер, но падает на Close.
type failingFile struct {
	bytes.Buffer
	closed   bool
	closeErr error
}

func (f *failingFile) Close() error {
	f.closed = true
	return f.closeErr
}

func TestWriteAndClose(t *testing.T) {
	errDisk := errors.New("disk full")

	tests := []struct {
		name         string
		closeErr     error
		session      *domain.SaveSession
		wantErr      error
		wantWriteErr bool
	}{
		{name: "ok", session: sampleSession()},
		{name: "close error", closeErr: errDisk, session: sampleSession(), wantErr: errDisk},
		{
			name:         "write error wins over close error",
			closeErr:     errDisk,
			session:      &domain.SaveSession{Towers: make([]domain.SentrySnapshot, maxTowers+1)},
			wantWriteErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := &failingFile{closeErr: tt.closeErr}
			err := writeAndClose(f, tt.session)

			if !f.closed {
				t.Error("file must be closed")
			}
			switch {
			case tt.wantWriteErr:
				if err == nil || errors.Is(err, errDisk) {
					t.Errorf("expected write error, got %v", err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if _, err := readBinary(bytes.NewReader(f.Bytes())); err != nil {
					t.Errorf("written save does not read back: %v", err)
				}
			}
		})
	}
}
