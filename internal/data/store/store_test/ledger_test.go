package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/docuchat/RagAPI/internal/config"
	"github.com/docuchat/RagAPI/internal/data/redisStore"
	"github.com/docuchat/RagAPI/internal/data/store"
	"github.com/docuchat/RagAPI/internal/domain/docModel"
	"github.com/redis/go-redis/v9"
)

func newTestLedger(t *testing.T) (*store.RedisFileLedger, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestFileLedger(redisStore.NewTestStore(client)), mr
}

func TestRedisFileLedger_Lifecycle(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	record := docModel.FileRecord{
		FileHash:   "abc123",
		Filename:   "report.pdf",
		Extension:  ".pdf",
		SizeBytes:  2048,
		Status:     docModel.StatusReceived,
		UploadedAt: time.Now().UTC(),
	}

	t.Run("Register and Get Roundtrip", func(t *testing.T) {
		_, accepted, err := ledger.RegisterIfNew(ctx, record)
		if err != nil {
			t.Fatalf("RegisterIfNew failed: %v", err)
		}
		if !accepted {
			t.Fatal("first registration should be accepted")
		}

		got, found := ledger.Get(ctx, "abc123")
		if !found {
			t.Fatal("record was registered but not found")
		}
		if got.Filename != record.Filename {
			t.Errorf("data mismatch! Got %s, want %s", got.Filename, record.Filename)
		}
	})

	t.Run("Duplicate Registration Returns Existing", func(t *testing.T) {
		later := record
		later.Filename = "renamed.pdf"

		existing, accepted, err := ledger.RegisterIfNew(ctx, later)
		if err != nil {
			t.Fatalf("RegisterIfNew failed: %v", err)
		}
		if accepted {
			t.Error("second registration of the same hash must be rejected")
		}
		if existing.Filename != "report.pdf" {
			t.Errorf("expected the original record back, got %s", existing.Filename)
		}
	})

	t.Run("Update Changes Status", func(t *testing.T) {
		updated := record
		updated.Status = docModel.StatusCompleted
		updated.TotalChunks = 7
		if err := ledger.Update(ctx, updated); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		got, _ := ledger.Get(ctx, "abc123")
		if got.Status != docModel.StatusCompleted || got.TotalChunks != 7 {
			t.Errorf("update not persisted: %+v", got)
		}
	})

	t.Run("List and Stats", func(t *testing.T) {
		second := docModel.FileRecord{
			FileHash:    "def456",
			Filename:    "notes.txt",
			Extension:   ".txt",
			SizeBytes:   100,
			TotalChunks: 2,
			Status:      docModel.StatusCompleted,
		}
		if _, _, err := ledger.RegisterIfNew(ctx, second); err != nil {
			t.Fatalf("RegisterIfNew failed: %v", err)
		}

		records, err := ledger.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}

		stats, err := ledger.Stats(ctx)
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats.TotalFiles != 2 || stats.TotalSizeBytes != 2148 {
			t.Errorf("unexpected stats: %+v", stats)
		}
		if stats.FileTypes[".pdf"] != 1 || stats.FileTypes[".txt"] != 1 {
			t.Errorf("unexpected file type breakdown: %v", stats.FileTypes)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if !ledger.Remove(ctx, "abc123") {
			t.Error("expected Remove to report success")
		}
		if _, found := ledger.Get(ctx, "abc123"); found {
			t.Error("record still present after Remove")
		}
		if ledger.Remove(ctx, "abc123") {
			t.Error("second Remove of the same hash must report false")
		}
	})
}

func TestInMemoryFileLedger_MirrorsRedisBehaviour(t *testing.T) {
	ledger := store.InitInMemoryFileLedger()
	ctx := context.Background()

	record := docModel.FileRecord{FileHash: "mem1", Filename: "a.md", Extension: ".md", SizeBytes: 10}

	_, accepted, _ := ledger.RegisterIfNew(ctx, record)
	if !accepted {
		t.Fatal("first registration should be accepted")
	}
	_, accepted, _ = ledger.RegisterIfNew(ctx, record)
	if accepted {
		t.Error("duplicate registration accepted")
	}

	if err := ledger.Update(ctx, docModel.FileRecord{FileHash: "ghost"}); err == nil {
		t.Error("expected an error updating an unknown hash")
	}

	if !ledger.Remove(ctx, "mem1") || ledger.Remove(ctx, "mem1") {
		t.Error("Remove must succeed once then report false")
	}
}
