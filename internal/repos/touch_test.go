package repos_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"petstore/internal/repos"
)

// The updated_at triggers advance the timestamp on every update and discard
// caller-supplied values. Timestamps are millisecond-precision strings that
// order lexicographically, so plain string comparison works here.

func TestCatalogUpdatedAtAdvances(t *testing.T) {
	db := testDB(t)
	ch := seedChain(t, db)
	cat := repos.NewCatalogRepo(db)

	time.Sleep(10 * time.Millisecond)
	if err := cat.UpdateDisplayName(ch.catalog.ID, "Acme Dog Chow Deluxe"); err != nil {
		t.Fatal(err)
	}

	after, err := cat.Get(ch.catalog.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !(after.UpdatedAt > ch.catalog.UpdatedAt) {
		t.Fatalf("updated_at did not advance: %s -> %s", ch.catalog.UpdatedAt, after.UpdatedAt)
	}
	if after.CreatedAt != ch.catalog.CreatedAt {
		t.Fatalf("created_at changed on update: %s -> %s", ch.catalog.CreatedAt, after.CreatedAt)
	}
}

func TestCatalogItemUpdatedAtAdvances(t *testing.T) {
	db := testDB(t)
	ch := seedChain(t, db)
	cat := repos.NewCatalogRepo(db)

	time.Sleep(10 * time.Millisecond)
	if err := cat.UpdateItemWeight(ch.item.ID, decimal.NullDecimal{
		Decimal: decimal.RequireFromString("3.000"),
		Valid:   true,
	}); err != nil {
		t.Fatal(err)
	}

	after, err := cat.GetItem(ch.item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !(after.UpdatedAt > ch.item.UpdatedAt) {
		t.Fatalf("updated_at did not advance: %s -> %s", ch.item.UpdatedAt, after.UpdatedAt)
	}
}

func TestStorageUpdatedAtAdvances(t *testing.T) {
	db := testDB(t)
	ch := seedChain(t, db)
	stock := repos.NewStorageRepo(db)

	time.Sleep(10 * time.Millisecond)
	if err := stock.SetQuantity(ch.storage.ID, 7); err != nil {
		t.Fatal(err)
	}

	after, err := stock.Get(ch.storage.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !(after.UpdatedAt > ch.storage.UpdatedAt) {
		t.Fatalf("updated_at did not advance: %s -> %s", ch.storage.UpdatedAt, after.UpdatedAt)
	}
}

func TestCallerSuppliedUpdatedAtDiscarded(t *testing.T) {
	db := testDB(t)
	ch := seedChain(t, db)
	cat := repos.NewCatalogRepo(db)

	const supplied = "1999-01-01T00:00:00.000Z"
	if _, err := db.Exec(`UPDATE catalog SET updated_at = ? WHERE id = ?`, supplied, ch.catalog.ID); err != nil {
		t.Fatal(err)
	}

	after, err := cat.Get(ch.catalog.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.UpdatedAt == supplied {
		t.Fatal("caller-supplied updated_at was stored")
	}
	if !(after.UpdatedAt >= ch.catalog.UpdatedAt) {
		t.Fatalf("updated_at moved backwards: %s -> %s", ch.catalog.UpdatedAt, after.UpdatedAt)
	}
}
