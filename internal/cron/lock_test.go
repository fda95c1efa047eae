package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memoryStore struct {
	values      map[string]string
	failRelease bool
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memoryStore) CompareAndDelete(_ context.Context, key string, value string) (bool, error) {
	if m.failRelease {
		return false, errors.New("connection reset")
	}
	if m.values[key] != value {
		return false, nil
	}
	delete(m.values, key)
	return true, nil
}

func TestRedisLockAcquireRelease(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{values: map[string]string{}}
	first, err := NewRedisLock(store, "advship:lock:cron:dev", 0)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	second, _ := NewRedisLock(store, "advship:lock:cron:dev", time.Minute)

	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("expected first acquire to succeed, got %v %v", ok, err)
	}
	if ok, _ := second.Acquire(ctx); ok {
		t.Fatal("expected second acquire to fail while held")
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("release without ownership: %v", err)
	}
	if _, held := store.values["advship:lock:cron:dev"]; !held {
		t.Fatal("non-owner release must not delete the lock")
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _ := second.Acquire(ctx); !ok {
		t.Fatal("expected acquire after release to succeed")
	}
}

func TestRedisLockReleaseAfterTakeover(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{values: map[string]string{}}
	lock, _ := NewRedisLock(store, "k", time.Minute)
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatal("expected acquire")
	}
	store.values["k"] = "someone-else"
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.values["k"] != "someone-else" {
		t.Fatal("expected foreign lock to survive")
	}
}

func TestNewRedisLockValidates(t *testing.T) {
	if _, err := NewRedisLock(nil, "k", time.Minute); err == nil {
		t.Fatal("expected nil client to fail")
	}
	if _, err := NewRedisLock(&memoryStore{}, "", time.Minute); err == nil {
		t.Fatal("expected empty key to fail")
	}
}

func TestRedisLockReleaseReportsStoreErrors(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{values: map[string]string{}, failRelease: true}
	lock, _ := NewRedisLock(store, "k", time.Minute)
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatal("expected acquire")
	}
	if err := lock.Release(ctx); err == nil {
		t.Fatal("expected release error to surface")
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("second release should be a no-op, got %v", err)
	}
}
