package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/diewo77/cafe-billing/internal/models"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestDraft(t *testing.T, c *Catalog) *Draft {
	t.Helper()
	return NewDraft(c, seqIDs("o"), WithClock(func() time.Time { return fixedNow }))
}

func TestDraftAddLineMergesSameItemAndNote(t *testing.T) {
	d := newTestDraft(t, newTestCatalog(t, nil))

	if err := d.AddLine("m1", 2, "oat milk"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := d.AddLine("m1", 3, " oat milk "); err != nil {
		t.Fatalf("add: %v", err)
	}
	lines := d.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 merged line got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5 got %d", lines[0].Quantity)
	}

	if err := d.AddLine("m1", 1, ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	lines = d.Lines()
	if len(lines) != 2 {
		t.Fatalf("a different note must start a new line, got %d lines", len(lines))
	}
	if lines[0].Note != "" || lines[1].Note != "oat milk" {
		t.Fatalf("new line should come first: %+v", lines)
	}
	if d.ItemCount() != 6 {
		t.Fatalf("expected 6 units got %d", d.ItemCount())
	}
	if d.State() != DraftBuilding {
		t.Fatalf("expected building got %s", d.State())
	}
}

func TestDraftAddLineErrors(t *testing.T) {
	d := newTestDraft(t, newTestCatalog(t, nil))

	if err := d.AddLine("missing", 1, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	if err := d.AddLine("m1", 0, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
	if err := d.AddLine("m1", -2, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
	if d.State() != DraftEmpty || len(d.Lines()) != 0 {
		t.Fatalf("rejected adds must leave the draft empty")
	}
}

func TestDraftAddLineRejectsQuantityOverflow(t *testing.T) {
	d := newTestDraft(t, newTestCatalog(t, nil))
	if err := d.AddLine("m1", 1, ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := d.AddLine("m1", math.MaxInt, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
	if q := d.Lines()[0].Quantity; q != 1 {
		t.Fatalf("rejected merge must keep quantity 1, got %d", q)
	}
	if _, err := d.ComputeTotals(); err != nil {
		t.Fatalf("totals after rejected merge: %v", err)
	}
	if err := d.AddLine("m1", math.MaxInt-1, ""); err != nil {
		t.Fatalf("merge up to MaxInt: %v", err)
	}
}

func TestDraftRemoveAndSetQuantity(t *testing.T) {
	d := newTestDraft(t, newTestCatalog(t, nil))
	_ = d.AddLine("m1", 1, "")
	_ = d.AddLine("m2", 1, "")

	if err := d.SetLineQuantity(0, 4); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if d.Lines()[0].Quantity != 4 {
		t.Fatalf("expected 4 got %d", d.Lines()[0].Quantity)
	}
	if err := d.SetLineQuantity(0, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
	if err := d.SetLineQuantity(2, 1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange got %v", err)
	}
	if err := d.RemoveLine(-1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange got %v", err)
	}

	if err := d.RemoveLine(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := d.RemoveLine(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if d.State() != DraftEmpty {
		t.Fatalf("removing every line should empty the draft, got %s", d.State())
	}
}

func TestDraftComputeTotalsLatte(t *testing.T) {
	d := newTestDraft(t, newTestCatalog(t, nil))
	if err := d.AddLine("m1", 3, ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	totals, err := d.ComputeTotals()
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	want := map[string]string{
		"subtotal": "13.5",
		"tax":      "1.08",
		"total":    "14.58",
	}
	got := map[string]decimal.Decimal{
		"subtotal": totals.Subtotal,
		"tax":      totals.Tax,
		"total":    totals.Total,
	}
	for k, v := range want {
		if !got[k].Equal(decimal.RequireFromString(v)) {
			t.Errorf("%s: expected %s got %s", k, v, got[k])
		}
	}
}

func TestDraftSetTaxRate(t *testing.T) {
	d := newTestDraft(t, newTestCatalog(t, nil))
	_ = d.AddLine("m2", 2, "")

	if err := d.SetTaxRate(-0.1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
	if err := d.SetTaxRate(0); err != nil {
		t.Fatalf("set rate: %v", err)
	}
	totals, _ := d.ComputeTotals()
	if !totals.Tax.IsZero() || !totals.Total.Equal(decimal.RequireFromString("5.50")) {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestDraftFinalize(t *testing.T) {
	d := newTestDraft(t, newTestCatalog(t, nil))
	_ = d.AddLine("m1", 3, "extra hot")

	order, err := d.Finalize("  ", "card")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if order.ID != "o1" {
		t.Fatalf("expected id o1 got %q", order.ID)
	}
	if order.CustomerName != models.GuestCustomer {
		t.Fatalf("blank customer should become Guest, got %q", order.CustomerName)
	}
	if order.PaymentMethod != models.PaymentCard || order.Status != models.OrderStatusPaid {
		t.Fatalf("unexpected method/status %s/%s", order.PaymentMethod, order.Status)
	}
	if !order.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected timestamp %s", order.CreatedAt)
	}
	if !order.Total.Equal(decimal.RequireFromString("14.58")) {
		t.Fatalf("expected total 14.58 got %s", order.Total)
	}
	if len(order.Items) != 1 || order.Items[0].Note != "extra hot" {
		t.Fatalf("unexpected items %+v", order.Items)
	}
	if d.State() != DraftFinalized || len(d.Lines()) != 0 {
		t.Fatalf("draft should be finalized and cleared")
	}
}

func TestDraftFinalizeRoundsSubtotal(t *testing.T) {
	c := NewCatalog(nil, seqIDs("m"), nil)
	item, _ := c.Add(context.Background(), MenuItemInput{Name: "Refill", Price: 0.125})
	d := newTestDraft(t, c)
	_ = d.AddLine(item.ID, 1, "")

	order, err := d.Finalize("Ana", models.PaymentCash)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !order.Subtotal.Equal(decimal.RequireFromString("0.13")) {
		t.Fatalf("stored subtotal should be rounded, got %s", order.Subtotal)
	}
	if !order.Total.Equal(decimal.RequireFromString("0.14")) {
		t.Fatalf("expected total 0.14 got %s", order.Total)
	}
}

func TestDraftFinalizeErrors(t *testing.T) {
	d := newTestDraft(t, newTestCatalog(t, nil))
	if _, err := d.Finalize("Ana", models.PaymentCash); !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder got %v", err)
	}
	_ = d.AddLine("m1", 1, "")
	if _, err := d.Finalize("Ana", "Cheque"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
	if d.State() != DraftBuilding {
		t.Fatalf("a failed checkout must keep the draft, got %s", d.State())
	}
}

func TestDraftCheckoutRecordsThenCloses(t *testing.T) {
	saver := &recordingSaver{}
	ledger := NewLedger(nil, saver)
	d := newTestDraft(t, newTestCatalog(t, nil))
	_ = d.AddLine("m1", 1, "")

	order, err := d.Checkout(context.Background(), ledger, "Ana", models.PaymentCash)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if _, ok := ledger.Find(order.ID); !ok {
		t.Fatalf("order %s not recorded", order.ID)
	}
	if d.State() != DraftFinalized || len(d.Lines()) != 0 {
		t.Fatalf("draft should be finalized and cleared")
	}
}

func TestDraftCheckoutKeepsDraftWhenRejected(t *testing.T) {
	ledger := NewLedger(nil, nil)
	sameID := IDFunc(func() string { return "o1" })
	c := newTestCatalog(t, nil)

	first := NewDraft(c, sameID)
	_ = first.AddLine("m1", 1, "")
	if _, err := first.Checkout(context.Background(), ledger, "Ana", models.PaymentCash); err != nil {
		t.Fatalf("first checkout: %v", err)
	}

	second := NewDraft(c, sameID)
	_ = second.AddLine("m2", 2, "")
	_, err := second.Checkout(context.Background(), ledger, "Ben", models.PaymentCard)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a duplicate id got %v", err)
	}
	if second.State() != DraftBuilding || second.ItemCount() != 2 {
		t.Fatalf("rejected checkout must keep the draft, got %s with %d units", second.State(), second.ItemCount())
	}
	if ledger.Len() != 1 {
		t.Fatalf("expected 1 recorded order got %d", ledger.Len())
	}
}

func TestDraftCheckoutClosesOnFailedSave(t *testing.T) {
	ledger := NewLedger(nil, &recordingSaver{fail: errDiskFull})
	d := newTestDraft(t, newTestCatalog(t, nil))
	_ = d.AddLine("m2", 1, "")

	order, err := d.Checkout(context.Background(), ledger, "", models.PaymentOnline)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence got %v", err)
	}
	if order.ID != "o1" || order.CustomerName != models.GuestCustomer {
		t.Fatalf("order should still be returned, got %+v", order)
	}
	if _, ok := ledger.Find("o1"); !ok {
		t.Fatalf("order should stay recorded in memory")
	}
	if d.State() != DraftFinalized {
		t.Fatalf("expected finalized got %s", d.State())
	}
}

func TestDraftCannotBeReused(t *testing.T) {
	d := newTestDraft(t, newTestCatalog(t, nil))
	_ = d.AddLine("m1", 1, "")
	if _, err := d.Finalize("Ana", models.PaymentOnline); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	checks := map[string]error{
		"add":      d.AddLine("m1", 1, ""),
		"remove":   d.RemoveLine(0),
		"quantity": d.SetLineQuantity(0, 2),
		"tax":      d.SetTaxRate(0.1),
	}
	_, err := d.Finalize("Ana", models.PaymentCash)
	checks["finalize"] = err
	for name, err := range checks {
		if !errors.Is(err, ErrDraftFinalized) {
			t.Errorf("%s: expected ErrDraftFinalized got %v", name, err)
		}
	}
}

func TestDraftLinesSnapshotMenu(t *testing.T) {
	c := newTestCatalog(t, nil)
	d := newTestDraft(t, c)
	_ = d.AddLine("m1", 1, "")

	price := 9.99
	if _, err := c.Update(context.Background(), "m1", MenuItemPatch{Price: &price}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := c.Remove(context.Background(), "m1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	order, err := d.Finalize("Ana", models.PaymentCash)
	if err != nil {
		t.Fatalf("finalize after menu removal: %v", err)
	}
	if order.Items[0].Name != "Latte" || !order.Items[0].UnitPrice.Equal(decimal.RequireFromString("4.50")) {
		t.Fatalf("line should keep the price it was added at: %+v", order.Items[0])
	}
}
