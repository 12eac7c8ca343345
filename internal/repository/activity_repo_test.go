package repository

import (
	"context"
	"testing"
	"time"

	"github.com/yuqie6/LearnPulse/internal/schema"
	"github.com/yuqie6/LearnPulse/internal/testutil"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestActivityRepositoryAddCountAccumulates(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	if err := repo.AddCount(ctx, &schema.Activity{UserID: "u1", Date: "2025-03-01", Count: 2, Type: "learning"}); err != nil {
		t.Fatalf("AddCount error: %v", err)
	}
	if err := repo.AddCount(ctx, &schema.Activity{UserID: "u1", Date: "2025-03-01", Count: 3, Type: "practice", Description: "kata"}); err != nil {
		t.Fatalf("AddCount error: %v", err)
	}

	got, err := repo.GetByDate(ctx, "u1", "2025-03-01")
	if err != nil {
		t.Fatalf("GetByDate error: %v", err)
	}
	if got == nil || got.Count != 5 || got.Type != "practice" || got.Description != "kata" {
		t.Fatalf("got=%+v, want count 5 type practice", got)
	}

	all, _ := repo.ListByUser(ctx, "u1")
	if len(all) != 1 {
		t.Fatalf("rows=%d, want 1 (unique per user/date)", len(all))
	}
}

func TestActivityRepositoryGetByDateMissing(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewActivityRepository(db)
	got, err := repo.GetByDate(context.Background(), "u1", "2025-03-01")
	if err != nil || got != nil {
		t.Fatalf("got=%v err=%v, want nil,nil", got, err)
	}
}

func TestActivityRepositoryRanges(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	rows := []schema.Activity{
		{UserID: "u1", Date: "2025-03-03", Count: 4},
		{UserID: "u1", Date: "2025-03-01", Count: 1},
		{UserID: "u1", Date: "2025-03-02", Count: 0},
		{UserID: "u1", Date: "2025-02-20", Count: 7},
		{UserID: "u2", Date: "2025-03-02", Count: 9},
	}
	for i := range rows {
		if err := repo.Upsert(ctx, &rows[i]); err != nil {
			t.Fatalf("Upsert error: %v", err)
		}
	}

	inRange, err := repo.ListByDateRange(ctx, "u1", "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("ListByDateRange error: %v", err)
	}
	if len(inRange) != 3 || inRange[0].Date != "2025-03-01" || inRange[2].Date != "2025-03-03" {
		t.Fatalf("inRange=%+v", inRange)
	}

	// 2025-03-02 起共 2 天
	trailing, err := repo.ListTrailing(ctx, "u1", mustDay(t, "2025-03-03").Add(15*time.Hour), 2)
	if err != nil {
		t.Fatalf("ListTrailing error: %v", err)
	}
	if len(trailing) != 2 || trailing[0].Date != "2025-03-02" || trailing[1].Date != "2025-03-03" {
		t.Fatalf("trailing=%+v", trailing)
	}
	if _, err := repo.ListTrailing(ctx, "u1", mustDay(t, "2025-03-03"), 0); err == nil {
		t.Fatalf("expected error for days=0")
	}

	if ok, _ := repo.HasAny(ctx, "u3"); ok {
		t.Fatalf("u3 should have no activities")
	}
	if ok, _ := repo.HasAny(ctx, "u2"); !ok {
		t.Fatalf("u2 should have activities")
	}
}

func TestActivityRepositoryUpsertOverwrites(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	if err := repo.Upsert(ctx, &schema.Activity{UserID: "u1", Date: "2025-03-01", Count: 6, Type: "learning"}); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if err := repo.Upsert(ctx, &schema.Activity{UserID: "u1", Date: "2025-03-01", Count: 2, Type: "review"}); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	got, err := repo.GetByDate(ctx, "u1", "2025-03-01")
	if err != nil {
		t.Fatalf("GetByDate error: %v", err)
	}
	if got == nil || got.Count != 2 || got.Type != "review" {
		t.Fatalf("got=%+v, want count 2 type review", got)
	}
}
