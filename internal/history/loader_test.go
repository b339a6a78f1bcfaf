package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	nchess "github.com/corentings/chess/v2"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "match.json")
	if err := os.WriteFile(path, nativeRecord, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rec, err := NewLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Source != "native" || rec.WhiteName != "Alice" {
		t.Fatalf("unexpected record: source=%q white=%q", rec.Source, rec.WhiteName)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
}

func TestLoadRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	if err := mr.Set("match:42", string(nativeRecord)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	source := fmt.Sprintf("redis://%s/0?key=match:42", mr.Addr())
	rec, err := NewLoader().Load(context.Background(), source)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.NumTurns(nchess.White) != 1 {
		t.Fatalf("white turns = %d", rec.NumTurns(nchess.White))
	}
}

func TestLoadRedisMissingKey(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })

	source := fmt.Sprintf("redis://%s/0?key=absent", mr.Addr())
	_, err = NewLoader().Load(context.Background(), source)
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}

	// A source without a key parameter never reaches the server.
	_, err = NewLoader().Load(context.Background(), fmt.Sprintf("redis://%s/0", mr.Addr()))
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
}

func TestLoadRedisTimeout(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	if err := mr.Set("match:42", string(nativeRecord)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	source := fmt.Sprintf("redis://%s/0?key=match:42", mr.Addr())
	_, err = NewLoader(WithRedisTimeout(time.Nanosecond)).Load(context.Background(), source)
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
}

func TestDecodeSniffing(t *testing.T) {
	rec, err := decode("games/1.pgn", []byte(samplePGN))
	if err != nil {
		t.Fatalf("decode pgn path: %v", err)
	}
	if rec.Source != "pgn" {
		t.Fatalf("source = %q", rec.Source)
	}

	rec, err = decode("games/1", []byte(samplePGN))
	if err != nil {
		t.Fatalf("decode pgn content: %v", err)
	}
	if rec.Source != "pgn" {
		t.Fatalf("source = %q", rec.Source)
	}

	rec, err = decode("games/1", nativeRecord)
	if err != nil {
		t.Fatalf("decode native: %v", err)
	}
	if rec.Source != "native" {
		t.Fatalf("source = %q", rec.Source)
	}
}
