package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/upgrowth/domain/federation"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/memory"
)

func sampleSession(id string) federation.Session {
	return federation.Session{
		ID:        id,
		ClientID:  "client-1",
		Round:     0,
		Status:    federation.SessionActive,
		CreatedAt: time.Now(),
	}
}

func TestSessionStore_PutAndGet(t *testing.T) {
	t.Parallel()

	store := memory.NewSessionStore()
	ctx := context.Background()

	if err := store.Put(ctx, sampleSession("s-1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	sess, err := store.Get(ctx, "s-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sess.ClientID != "client-1" {
		t.Errorf("ClientID = %q, want client-1", sess.ClientID)
	}
}

func TestSessionStore_PutRejectsEmptyID(t *testing.T) {
	t.Parallel()

	store := memory.NewSessionStore()

	err := store.Put(context.Background(), federation.Session{})
	if !errors.Is(err, federation.ErrInvalidSessionID) {
		t.Errorf("Put() error = %v, want ErrInvalidSessionID", err)
	}
}

func TestSessionStore_PutReplaces(t *testing.T) {
	t.Parallel()

	store := memory.NewSessionStore()
	ctx := context.Background()

	sess := sampleSession("s-1")
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	sess.Round = 3
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(ctx, "s-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Round != 3 {
		t.Errorf("Round = %d, want 3", got.Round)
	}
}

func TestSessionStore_GetMissing(t *testing.T) {
	t.Parallel()

	store := memory.NewSessionStore()

	_, err := store.Get(context.Background(), "absent")
	if !errors.Is(err, federation.ErrSessionNotFound) {
		t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	t.Parallel()

	store := memory.NewSessionStore()
	ctx := context.Background()

	if err := store.Put(ctx, sampleSession("s-1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Delete(ctx, "s-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "s-1"); !errors.Is(err, federation.ErrSessionNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrSessionNotFound", err)
	}
	if err := store.Delete(ctx, "s-1"); err != nil {
		t.Errorf("Delete() of missing session error = %v", err)
	}
}

func TestSessionStore_List(t *testing.T) {
	t.Parallel()

	store := memory.NewSessionStore()
	ctx := context.Background()

	for _, id := range []string{"s-2", "s-1", "s-3"} {
		if err := store.Put(ctx, sampleSession(id)); err != nil {
			t.Fatalf("Put(%q) error = %v", id, err)
		}
	}

	sessions, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("List() returned %d sessions, want 3", len(sessions))
	}
	for i, want := range []string{"s-1", "s-2", "s-3"} {
		if sessions[i].ID != want {
			t.Errorf("List()[%d].ID = %q, want %q", i, sessions[i].ID, want)
		}
	}
}
