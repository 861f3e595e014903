// Package view renders the printable HTML pages.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/diewo77/cafe-billing/internal/models"
	"github.com/diewo77/cafe-billing/internal/money"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTitle heads every receipt.
const DefaultTitle = "Cafe Receipt"

var templates = template.Must(
	template.New("").Funcs(Funcs(time.Local)).ParseFS(templateFS, "templates/*.html"),
)

// Funcs returns the helpers available to templates. Timestamps are shown in loc.
func Funcs(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"money": money.Format,
		"datetime": func(t time.Time) string {
			return t.In(loc).Format("Jan 2, 2006 3:04 PM")
		},
	}
}

// ReceiptData is the input of the receipt template.
type ReceiptData struct {
	Title     string
	Order     models.Order
	AutoPrint bool
}

// Receipt renders order as a standalone HTML document. Timestamps are shown in loc.
func Receipt(order models.Order, loc *time.Location, autoPrint bool) ([]byte, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := templates.Clone()
	if err != nil {
		return nil, err
	}
	t = t.Funcs(Funcs(loc))

	var buf bytes.Buffer
	data := &ReceiptData{Title: DefaultTitle, Order: order, AutoPrint: autoPrint}
	if err := t.ExecuteTemplate(&buf, "receipt.html", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReceipt renders the receipt into w as text/html.
func WriteReceipt(w http.ResponseWriter, order models.Order, loc *time.Location, autoPrint bool) error {
	body, err := Receipt(order, loc, autoPrint)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(body)
	return err
}
