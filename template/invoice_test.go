package template

import (
	"errors"
	"math"
	"testing"
)

func TestParseInvoice(t *testing.T) {
	inv, err := ParseInvoice(map[string]interface{}{
		"invoice_number": "INV-1",
		"issue_date":     "2026-01-10",
		"due_date":       "2026-02-09",
		"items": []interface{}{
			map[string]interface{}{"description": "A", "quantity": 2.0, "unit_price": 5.0, "tax_rate": 0.1},
			map[string]interface{}{"description": "B", "unit_price": 3.0},
		},
	})
	if err != nil {
		t.Fatalf("ParseInvoice() error = %v", err)
	}
	if inv.Number != "INV-1" || len(inv.Items) != 2 {
		t.Fatalf("unexpected invoice: %+v", inv)
	}
	if got := inv.Items[1].Subtotal(); got != 3.0 {
		t.Fatalf("quantity should default to 1, subtotal = %v", got)
	}
	if got := inv.Total(); math.Abs(got-14.0) > 1e-9 {
		t.Fatalf("total = %v, want 14.0", got)
	}
	if got := inv.TaxTotal(); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("tax total = %v, want 1.0", got)
	}
}

func TestParseInvoiceBatchedViolations(t *testing.T) {
	_, err := ParseInvoice(map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"quantity": 1.0, "unit_price": 5.0, "tax_rate": 2.0},
		},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	// Missing invoice number plus two line item violations, all in one pass.
	fields := make(map[string]bool)
	for _, v := range verr.Violations {
		fields[v.Field] = true
	}
	if !fields["invoice_number"] {
		t.Errorf("missing invoice number not reported: %v", verr.Violations)
	}
	if !fields["items.0.description"] {
		t.Errorf("missing description not reported: %v", verr.Violations)
	}
	if !fields["items.0.tax_rate"] {
		t.Errorf("out-of-range tax rate not reported: %v", verr.Violations)
	}
}

func TestParseInvoiceDueBeforeIssue(t *testing.T) {
	_, err := ParseInvoice(map[string]interface{}{
		"invoice_number": "INV-2",
		"issue_date":     "2026-03-01",
		"due_date":       "2026-02-01",
		"items": []interface{}{
			map[string]interface{}{"description": "A", "unit_price": 1.0},
		},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	found := false
	for _, v := range verr.Violations {
		if v.Field == "due_date" {
			found = true
		}
	}
	if !found {
		t.Fatalf("due date ordering not enforced: %v", verr.Violations)
	}
}

func TestInvoiceDiscount(t *testing.T) {
	inv := Invoice{
		Number:   "INV-3",
		Items:    []LineItem{{Description: "A", Quantity: 1, UnitPrice: 10}},
		Discount: 2.5,
	}
	if got := inv.Total(); math.Abs(got-7.5) > 1e-9 {
		t.Fatalf("total = %v, want 7.5", got)
	}
}

func TestInvoiceTemplateData(t *testing.T) {
	inv := Invoice{
		Number: "INV-4",
		Items:  []LineItem{{Description: "A", Quantity: 2, UnitPrice: 5, TaxRate: 0.1}},
	}
	data, err := inv.TemplateData()
	if err != nil {
		t.Fatalf("TemplateData() error = %v", err)
	}
	if data["invoice_number"] != "INV-4" {
		t.Fatalf("unexpected number: %v", data["invoice_number"])
	}
	if got := data["total"].(float64); math.Abs(got-11.0) > 1e-9 {
		t.Fatalf("total = %v, want 11.0", got)
	}

	r := NewRenderer("")
	out, err := r.Render("invoice.html", data)
	if err != nil {
		t.Fatalf("model data should satisfy the invoice template: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("empty render")
	}
}
