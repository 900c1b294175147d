package template

import (
	"encoding/json"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// LineItem is one billable row of an invoice. Quantity defaults to 1 and
// TaxRate is a decimal fraction (0.2 means 20%).
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TaxRate     float64 `json:"tax_rate"`
}

func (i LineItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Description, validation.Required),
		validation.Field(&i.Quantity, validation.Min(0.0)),
		validation.Field(&i.UnitPrice, validation.Min(0.0)),
		validation.Field(&i.TaxRate, validation.Min(0.0), validation.Max(1.0)),
	)
}

// Subtotal is quantity times unit price, before tax.
func (i LineItem) Subtotal() float64 {
	qty := i.Quantity
	if qty == 0 {
		qty = 1
	}
	return qty * i.UnitPrice
}

// TaxAmount is the tax owed on this line.
func (i LineItem) TaxAmount() float64 { return i.Subtotal() * i.TaxRate }

// Total is the tax-inclusive line total.
func (i LineItem) Total() float64 { return i.Subtotal() + i.TaxAmount() }

// Party identifies one side of an invoice.
type Party struct {
	Name       string `json:"name"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

func (p Party) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Email, is.Email),
	)
}

// Invoice is the validated data model behind the built-in invoice template.
// Dates are ISO 8601 strings so a JSON-shaped document maps onto the model
// without conversion.
type Invoice struct {
	Number    string     `json:"invoice_number"`
	IssueDate string     `json:"issue_date,omitempty"`
	DueDate   string     `json:"due_date,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Terms     string     `json:"terms,omitempty"`
	Company   *Party     `json:"company,omitempty"`
	Client    *Party     `json:"client,omitempty"`
	Items     []LineItem `json:"items"`
	Discount  float64    `json:"discount,omitempty"`
}

func (inv Invoice) Validate() error {
	return validation.ValidateStruct(&inv,
		validation.Field(&inv.Number, validation.Required),
		validation.Field(&inv.IssueDate, validation.Date("2006-01-02")),
		validation.Field(&inv.DueDate, validation.Date("2006-01-02"), validation.By(inv.dueAfterIssue)),
		validation.Field(&inv.Items, validation.Required),
		validation.Field(&inv.Discount, validation.Min(0.0)),
		validation.Field(&inv.Company),
		validation.Field(&inv.Client),
	)
}

// dueAfterIssue rejects a due date earlier than the issue date. ISO dates
// compare correctly as strings.
func (inv Invoice) dueAfterIssue(value interface{}) error {
	due, _ := value.(string)
	if due == "" || inv.IssueDate == "" {
		return nil
	}
	if due < inv.IssueDate {
		return fmt.Errorf("must not be before issue date")
	}
	return nil
}

// Subtotal sums line subtotals before tax.
func (inv Invoice) Subtotal() float64 {
	var sum float64
	for _, item := range inv.Items {
		sum += item.Subtotal()
	}
	return sum
}

// TaxTotal sums line tax amounts.
func (inv Invoice) TaxTotal() float64 {
	var sum float64
	for _, item := range inv.Items {
		sum += item.TaxAmount()
	}
	return sum
}

// Total is the amount due: subtotal plus tax minus discount.
func (inv Invoice) Total() float64 {
	return inv.Subtotal() + inv.TaxTotal() - inv.Discount
}

// TemplateData flattens the invoice, with computed totals, into the mapping
// shape the invoice template consumes.
func (inv Invoice) TemplateData() (map[string]interface{}, error) {
	raw, err := json.Marshal(inv)
	if err != nil {
		return nil, err
	}
	data := make(map[string]interface{})
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	data["subtotal"] = inv.Subtotal()
	data["tax_amount"] = inv.TaxTotal()
	data["total"] = inv.Total()
	return data, nil
}

// ParseInvoice maps a JSON-shaped document onto the invoice model and
// validates it, reporting every violation at once.
func ParseInvoice(data map[string]interface{}) (*Invoice, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var inv Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, &ValidationError{Violations: []Violation{{Message: err.Error()}}}
	}
	if err := inv.Validate(); err != nil {
		return nil, &ValidationError{Violations: flattenViolations("", err)}
	}
	return &inv, nil
}

// flattenViolations converts nested validation errors into a flat list with
// dotted field paths, sorted for deterministic reporting.
func flattenViolations(prefix string, err error) []Violation {
	errs, ok := err.(validation.Errors)
	if !ok {
		return []Violation{{Field: prefix, Message: err.Error()}}
	}
	var out []Violation
	for field, ferr := range errs {
		path := field
		if prefix != "" {
			path = prefix + "." + field
		}
		out = append(out, flattenViolations(path, ferr)...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}
