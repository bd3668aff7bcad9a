package dao

import (
	"errors"
	"testing"

	"github.com/ctsync/ctsync/model"
	"github.com/ctsync/ctsync/server/tables"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatal(err)
	}
	if err := gdb.AutoMigrate(tables.Tables...); err != nil {
		t.Fatal(err)
	}
	return &DB{DB: gdb}
}

func openRecord(recordId, owner string) *tables.Records {
	return &tables.Records{
		RecordId: recordId,
		Owner:    owner,
		Title:    "Broken streetlight",
		Urgency:  "High",
		Status:   "Open",
	}
}

func TestMarkResolvedExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	if err := db.SaveRecord(openRecord("7", "0xowner")); err != nil {
		t.Fatal(err)
	}

	ok, err := db.MarkResolved("7", "0xother")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("a non-owner must not resolve the record")
	}

	ok, err = db.MarkResolved("7", "0xowner")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("the owner's first resolve must transition the record")
	}
	rec, err := db.GetRecordByRecordId("7")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != "Resolved" {
		t.Fatalf("status %q after resolve", rec.Status)
	}

	// The transition happens at most once, even for the owner.
	ok, err = db.MarkResolved("7", "0xowner")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("a second resolve must not transition again")
	}

	ok, err = db.MarkResolved("missing", "0xowner")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("an absent record must not resolve")
	}
}

func TestSaveRecordKeepsAnchoredColumns(t *testing.T) {
	db := newTestDB(t)
	if err := db.SaveRecord(openRecord("7", "0xowner")); err != nil {
		t.Fatal(err)
	}

	// A re-sync of the same record refreshes only the mutable columns.
	again := openRecord("7", "0xhijack")
	again.Title = "rewritten"
	again.Urgency = "Low"
	again.Status = "Resolved"
	if err := db.SaveRecord(again); err != nil {
		t.Fatal(err)
	}

	rec, err := db.GetRecordByRecordId("7")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Owner != "0xowner" || rec.Title != "Broken streetlight" {
		t.Fatalf("anchored columns changed on upsert: %+v", rec)
	}
	if rec.Urgency != "Low" || rec.Status != "Resolved" {
		t.Fatalf("mutable columns not refreshed: %+v", rec)
	}
}

func TestFindRecordsByPageOrder(t *testing.T) {
	db := newTestDB(t)
	for i, id := range []string{"1", "2", "3"} {
		rec := openRecord(id, "0xowner")
		rec.Timestamp = int64(100 + i)
		if err := db.SaveRecord(rec); err != nil {
			t.Fatal(err)
		}
	}
	recs, err := db.FindRecordsByPage(1, 100, model.SortNewest)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 || recs[0].RecordId != "3" || recs[2].RecordId != "1" {
		t.Fatalf("newest-first order broken: %+v", recs)
	}
	recs, err = db.FindRecordsByPage(1, 100, model.SortOldest)
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].RecordId != "1" {
		t.Fatalf("oldest-first order broken: %+v", recs)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	db := newTestDB(t)
	err := db.Transaction(func(tx *DB) error {
		if err := tx.SaveRecord(openRecord("7", "0xowner")); err != nil {
			return err
		}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("the transaction error must surface")
	}
	rec, err := db.GetRecordByRecordId("7")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Id != 0 {
		t.Fatal("a rolled back write must not be visible")
	}
}
