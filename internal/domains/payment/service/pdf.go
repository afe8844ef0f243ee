package service

import (
	"bytes"
	"fmt"
	"seva/internal/domains/payment/model"
	"seva/shared/constant"
	"seva/shared/timezone"

	"github.com/phpdave11/gofpdf"
)

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 7
	pdfAmountCol  = 50
)

func renderInvoice(invoice model.Invoice, bookingNumber string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+invoice.InvoiceNumber, false)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont(pdfFont, "", 11)

	for _, line := range []string{
		"Invoice no : " + invoice.InvoiceNumber,
		"Booking no : " + bookingNumber,
		"Issued at  : " + timezone.Format(invoice.IssuedAt, constant.DateOnlyFormat),
	} {
		pdf.Cell(0, pdfLineHeight, line)
		pdf.Ln(pdfLineHeight)
	}

	pdf.Ln(4)

	pdf.SetFont(pdfFont, "B", 11)
	pdf.CellFormat(0, pdfLineHeight, "Description", "B", 0, "L", false, 0, "")
	pdf.Ln(pdfLineHeight)

	pdf.SetFont(pdfFont, "", 11)

	row := func(label string, amount float64) {
		width, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()

		pdf.CellFormat(width-left-right-pdfAmountCol, pdfLineHeight, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(pdfAmountCol, pdfLineHeight, fmt.Sprintf("%s %.2f", invoice.Currency, amount), "", 1, "R", false, 0, "")
	}

	for _, item := range invoice.LineItems.Data {
		row(item.Description, item.Amount)
	}

	pdf.Ln(2)
	row("Subtotal", invoice.Subtotal)

	if invoice.Discount > 0 {
		row("Discount", -invoice.Discount)
	}

	if invoice.TaxPercent > 0 {
		row(fmt.Sprintf("Includes tax (%.2f%%)", invoice.TaxPercent), invoice.Tax)
	}

	pdf.SetFont(pdfFont, "B", 12)
	row("Total", invoice.Total)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}

	return buf.Bytes(), nil
}
