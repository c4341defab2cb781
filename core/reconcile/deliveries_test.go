package reconcile

import (
	"fmt"
	"testing"
	"time"

	"github.com/fuelops/atgmon/core/model"
)

func TestDeliveryRecords_UnlinkedIsMissing(t *testing.T) {
	e := testEngine()
	end := testNow.Add(-2 * time.Hour)
	addDelivery(e, "d1", "t-reg", end, 7500)

	recs := e.DeliveryRecords("s1")
	if len(recs) != 1 {
		t.Fatalf("records: got %d want 1", len(recs))
	}
	rec := recs[0]
	if rec.Status != model.DeliveryMissing {
		t.Fatalf("status: got %s want MISSING", rec.Status)
	}
	if rec.BOLGallons != 0 || rec.ATGReceivedGallons != 7500 {
		t.Fatalf("gallons: bol %v received %v", rec.BOLGallons, rec.ATGReceivedGallons)
	}
	if rec.Supplier != "Unknown" {
		t.Fatalf("supplier: got %s", rec.Supplier)
	}
	if rec.Grade != model.GradeRegular {
		t.Fatalf("grade: got %s", rec.Grade)
	}
	want := fmt.Sprintf("DROP-s1-%d", end.Unix())
	if rec.DropKey != want {
		t.Fatalf("drop key: got %s want %s", rec.DropKey, want)
	}
	if rec.IssueNote == "" {
		t.Fatalf("missing record should carry an issue note")
	}
}

func TestDeliveryRecords_LinkedClassification(t *testing.T) {
	e := testEngine()
	addDelivery(e, "d-ok", "t-reg", testNow.Add(-3*time.Hour), 7450)
	addDelivery(e, "d-short", "t-sup", testNow.Add(-2*time.Hour), 7000)
	addDelivery(e, "d-over", "t-dsl", testNow.Add(-1*time.Hour), 7700)

	for id, bol := range map[string]float64{"d-ok": 7500, "d-short": 7500, "d-over": 7500} {
		if _, err := e.LinkDelivery(LinkRequest{DeliveryID: id, BOLGallons: bol, JobberID: "jobber-1"}); err != nil {
			t.Fatalf("link %s: %v", id, err)
		}
	}

	recs := e.DeliveryRecords("s1")
	want := map[string]model.DeliveryStatus{
		"d-ok":    model.DeliveryOK,
		"d-short": model.DeliveryShort,
		"d-over":  model.DeliveryOver,
	}
	for id, status := range want {
		rec, ok := recordByID(recs, id)
		if !ok {
			t.Fatalf("record %s not found", id)
		}
		if rec.Status != status {
			t.Fatalf("%s status: got %s want %s", id, rec.Status, status)
		}
		if rec.Supplier != "jobber-1" {
			t.Fatalf("%s supplier: got %s", id, rec.Supplier)
		}
		if rec.UpdatedBy != "User" {
			t.Fatalf("%s updated by: got %s", id, rec.UpdatedBy)
		}
	}
	if rec, _ := recordByID(recs, "d-ok"); rec.IssueNote != "" {
		t.Fatalf("ok record should carry no issue note, got %q", rec.IssueNote)
	}
}

func TestDeliveryRecords_NewestFirst(t *testing.T) {
	e := testEngine()
	addDelivery(e, "d-old", "t-reg", testNow.Add(-5*time.Hour), 5000)
	addDelivery(e, "d-new", "t-reg", testNow.Add(-1*time.Hour), 5000)

	recs := e.DeliveryRecords("s1")
	if len(recs) != 2 || recs[0].ID != "d-new" || recs[1].ID != "d-old" {
		t.Fatalf("order: %+v", recs)
	}
}

func TestDeliveryRecords_AllSites(t *testing.T) {
	e := testEngine()
	addDelivery(e, "d1", "t-reg", testNow.Add(-1*time.Hour), 5000)

	if got := len(e.DeliveryRecords("")); got != 1 {
		t.Fatalf("all-site records: got %d want 1", got)
	}
	if got := len(e.DeliveryRecords("other")); got != 0 {
		t.Fatalf("unknown site records: got %d want 0", got)
	}
}
