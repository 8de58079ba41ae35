package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testAccount(id, email string) *models.Account {
	return &models.Account{
		ID:           id,
		FirstName:    "Asha",
		LastName:     "Rao",
		Email:        email,
		PasswordHash: []byte("$2a$10$hash"),
		Role:         "responder",
		Organization: "District EOC",
		CreatedAt:    time.Now(),
	}
}

func TestSQLiteDB_CreateAndGetAccount(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.CreateAccount(ctx, testAccount("acc_1", "Asha@Example.org")); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	got, err := db.GetAccountByEmail(ctx, "asha@example.org ")
	if err != nil {
		t.Fatalf("GetAccountByEmail failed: %v", err)
	}
	if got.ID != "acc_1" {
		t.Errorf("expected id acc_1, got %s", got.ID)
	}
	if got.Email != "asha@example.org" {
		t.Errorf("expected normalized email, got %s", got.Email)
	}
	if string(got.PasswordHash) != "$2a$10$hash" {
		t.Errorf("password hash not round-tripped: %q", got.PasswordHash)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestSQLiteDB_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.CreateAccount(ctx, testAccount("acc_1", "dup@example.org")); err != nil {
		t.Fatalf("first CreateAccount failed: %v", err)
	}

	err := db.CreateAccount(ctx, testAccount("acc_2", "DUP@example.org"))
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestSQLiteDB_GetAccountNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetAccountByEmail(context.Background(), "nobody@example.org")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteDB_Watches(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, city := range []string{"Pune", "Chennai", "Guwahati"} {
		w := &models.WatchedLocation{
			ID:         fmt.Sprintf("w_%d", i),
			City:       city,
			Coordinate: models.Coordinate{Lat: float64(10 + i), Lon: float64(70 + i)},
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.AddWatch(ctx, w); err != nil {
			t.Fatalf("AddWatch failed: %v", err)
		}
	}

	watches, err := db.ListWatches(ctx)
	if err != nil {
		t.Fatalf("ListWatches failed: %v", err)
	}
	if len(watches) != 3 {
		t.Fatalf("expected 3 watches, got %d", len(watches))
	}
	if watches[0].City != "Pune" || watches[2].City != "Guwahati" {
		t.Errorf("expected creation order, got %s..%s", watches[0].City, watches[2].City)
	}

	got, err := db.GetWatch(ctx, "w_1")
	if err != nil {
		t.Fatalf("GetWatch failed: %v", err)
	}
	if got.Coordinate.Lat != 11 || got.Coordinate.Lon != 71 {
		t.Errorf("unexpected coordinate %+v", got.Coordinate)
	}

	if err := db.RemoveWatch(ctx, "w_1"); err != nil {
		t.Fatalf("RemoveWatch failed: %v", err)
	}
	if _, err := db.GetWatch(ctx, "w_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after removal, got %v", err)
	}
	if err := db.RemoveWatch(ctx, "w_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second removal, got %v", err)
	}
}

func TestSQLiteDB_ListWatchesEmpty(t *testing.T) {
	db := setupTestDB(t)

	watches, err := db.ListWatches(context.Background())
	if err != nil {
		t.Fatalf("ListWatches failed: %v", err)
	}
	if watches == nil || len(watches) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", watches)
	}
}

func TestSQLiteDB_ConcurrentWatches(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = db.AddWatch(ctx, &models.WatchedLocation{
				ID:        fmt.Sprintf("c_%d", n),
				City:      "City",
				CreatedAt: time.Now(),
			})
		}(i)
	}
	wg.Wait()

	watches, err := db.ListWatches(ctx)
	if err != nil {
		t.Fatalf("ListWatches failed: %v", err)
	}
	if len(watches) != 20 {
		t.Errorf("expected 20 watches, got %d", len(watches))
	}
}
