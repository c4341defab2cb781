package reconcile

import (
	"fmt"
	"testing"
	"time"

	"github.com/fuelops/atgmon/core/faults"
	"github.com/fuelops/atgmon/core/model"
)

func TestCreateOrder(t *testing.T) {
	e := testEngine()
	order, err := e.CreateOrder("s1", "jobber-1", []OrderLineRequest{
		{TankID: "t-reg", RequestedGallons: 500},
		{TankID: "t-sup", RequestedGallons: 300},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.OrderNumber != "ORD-000001" {
		t.Fatalf("order number: got %s", order.OrderNumber)
	}
	if order.Status != model.OrderPending {
		t.Fatalf("status: got %s want PENDING", order.Status)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("lines: got %d", len(order.Lines))
	}
	if order.Lines[0].Grade != model.GradeRegular || order.Lines[1].Grade != model.GradeSuper {
		t.Fatalf("line grades: %+v", order.Lines)
	}
	if !order.CreatedAt.Equal(testNow) {
		t.Fatalf("created at: got %v", order.CreatedAt)
	}
}

func TestCreateOrder_Rejections(t *testing.T) {
	e := testEngine()
	cases := []struct {
		name   string
		siteID string
		lines  []OrderLineRequest
		kind   faults.Kind
	}{
		{"empty site", "", []OrderLineRequest{{TankID: "t-reg", RequestedGallons: 100}}, faults.KindValidation},
		{"unknown site", "s9", []OrderLineRequest{{TankID: "t-reg", RequestedGallons: 100}}, faults.KindNotFound},
		{"no lines", "s1", nil, faults.KindValidation},
		{"unknown tank", "s1", []OrderLineRequest{{TankID: "t-x", RequestedGallons: 100}}, faults.KindNotFound},
		{"zero gallons", "s1", []OrderLineRequest{{TankID: "t-reg", RequestedGallons: 0}}, faults.KindValidation},
	}
	for _, tc := range cases {
		_, err := e.CreateOrder(tc.siteID, "", tc.lines)
		if faults.KindOf(err) != tc.kind {
			t.Fatalf("%s: got %v want kind %s", tc.name, err, tc.kind)
		}
	}
}

func TestApplyOrderStatus_Confirm(t *testing.T) {
	e := testEngine()
	order, _ := e.CreateOrder("s1", "", []OrderLineRequest{{TankID: "t-reg", RequestedGallons: 500}})

	confirmed, err := e.ApplyOrderStatus(order.ID, ActionConfirm, "", "User")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != model.OrderConfirmed {
		t.Fatalf("status: got %s", confirmed.Status)
	}
	want := fmt.Sprintf("PO-%d", testNow.Unix())
	if confirmed.JobberPONumber != want {
		t.Fatalf("placeholder PO: got %s want %s", confirmed.JobberPONumber, want)
	}

	// Confirming again with an explicit PO replaces the placeholder.
	confirmed, err = e.ApplyOrderStatus(order.ID, ActionConfirm, "PO-real", "User")
	if err != nil {
		t.Fatalf("reconfirm: %v", err)
	}
	if confirmed.JobberPONumber != "PO-real" {
		t.Fatalf("explicit PO: got %s", confirmed.JobberPONumber)
	}
}

func TestApplyOrderStatus_DispatchBlocked(t *testing.T) {
	e := testEngine()
	order, _ := e.CreateOrder("s1", "", []OrderLineRequest{{TankID: "t-reg", RequestedGallons: 500}})

	_, err := e.ApplyOrderStatus(order.ID, ActionDispatch, "", "User")
	if faults.KindOf(err) != faults.KindInvalidTransition {
		t.Fatalf("dispatch: got %v", err)
	}
}

func TestApplyOrderStatus_Deliver(t *testing.T) {
	e := testEngine()
	order, _ := e.CreateOrder("s1", "", []OrderLineRequest{
		{TankID: "t-reg", RequestedGallons: 500},
		{TankID: "t-sup", RequestedGallons: 300},
	})
	addDelivery(e, "d-reg", "t-reg", testNow.Add(time.Hour), 495)
	addDelivery(e, "d-sup", "t-sup", testNow.Add(2*time.Hour), 300)

	delivered, err := e.ApplyOrderStatus(order.ID, ActionDeliver, "", "User")
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	// 795 of 800 requested is within the 1% tolerance.
	if delivered.Status != model.OrderDelivered {
		t.Fatalf("status: got %s want DELIVERED", delivered.Status)
	}
	if delivered.Lines[0].DeliveredGallons != 495 || delivered.Lines[1].DeliveredGallons != 300 {
		t.Fatalf("delivered gallons: %+v", delivered.Lines)
	}
}

func TestApplyOrderStatus_DeliverShort(t *testing.T) {
	e := testEngine()
	order, _ := e.CreateOrder("s1", "", []OrderLineRequest{
		{TankID: "t-reg", RequestedGallons: 500},
		{TankID: "t-sup", RequestedGallons: 300},
	})
	addDelivery(e, "d-reg", "t-reg", testNow.Add(time.Hour), 400)
	addDelivery(e, "d-sup", "t-sup", testNow.Add(time.Hour), 300)

	delivered, err := e.ApplyOrderStatus(order.ID, ActionDeliver, "", "User")
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if delivered.Status != model.OrderDeliveredShort {
		t.Fatalf("status: got %s want DELIVERED_SHORT", delivered.Status)
	}
}

func TestApplyOrderStatus_DeliverOver(t *testing.T) {
	e := testEngine()
	order, _ := e.CreateOrder("s1", "", []OrderLineRequest{{TankID: "t-reg", RequestedGallons: 500}})
	addDelivery(e, "d-reg", "t-reg", testNow.Add(time.Hour), 600)

	delivered, err := e.ApplyOrderStatus(order.ID, ActionDeliver, "", "User")
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if delivered.Status != model.OrderDeliveredOver {
		t.Fatalf("status: got %s want DELIVERED_OVER", delivered.Status)
	}
}

func TestApplyOrderStatus_DeliverWithoutEvents(t *testing.T) {
	e := testEngine()
	order, _ := e.CreateOrder("s1", "", []OrderLineRequest{{TankID: "t-reg", RequestedGallons: 500}})
	// A drop before the order was created does not count.
	addDelivery(e, "d-old", "t-reg", testNow.Add(-time.Hour), 500)

	_, err := e.ApplyOrderStatus(order.ID, ActionDeliver, "", "User")
	if faults.KindOf(err) != faults.KindInvalidTransition {
		t.Fatalf("deliver without events: got %v", err)
	}
}

func TestApplyOrderStatus_CancelAndTerminal(t *testing.T) {
	e := testEngine()
	order, _ := e.CreateOrder("s1", "", []OrderLineRequest{{TankID: "t-reg", RequestedGallons: 500}})

	cancelled, err := e.ApplyOrderStatus(order.ID, ActionCancel, "", "User")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != model.OrderCancelled {
		t.Fatalf("status: got %s", cancelled.Status)
	}

	for _, action := range []string{ActionConfirm, ActionDeliver, ActionCancel} {
		if _, err := e.ApplyOrderStatus(order.ID, action, "", "User"); faults.KindOf(err) != faults.KindInvalidTransition {
			t.Fatalf("%s on cancelled order: got %v", action, err)
		}
	}
}

func TestApplyOrderStatus_UnknownInputs(t *testing.T) {
	e := testEngine()
	if _, err := e.ApplyOrderStatus("nope", ActionConfirm, "", "User"); faults.KindOf(err) != faults.KindNotFound {
		t.Fatalf("unknown order: got %v", err)
	}
	order, _ := e.CreateOrder("s1", "", []OrderLineRequest{{TankID: "t-reg", RequestedGallons: 500}})
	if _, err := e.ApplyOrderStatus(order.ID, "teleport", "", "User"); faults.KindOf(err) != faults.KindValidation {
		t.Fatalf("unknown action: got %v", err)
	}
}
