package orders

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"agrimart/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// receiptQRPayload returns orderId|userId|signature so a scanned receipt
// can be verified against tampering.
func receiptQRPayload(o models.Order, secret []byte) string {
	data := fmt.Sprintf("%s|%s", o.OrderID, o.UserID)
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// BuildReceiptPDF renders an order receipt with a verification QR code.
func BuildReceiptPDF(o models.Order, buyerName string, secret []byte) ([]byte, error) {
	qrPNG, err := qrcode.Encode(receiptQRPayload(o, secret), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order ID: %s", o.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Buyer: %s", buyerName))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Placed: %s", o.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(70, 8, "Item")
	pdf.Cell(30, 8, "Qty")
	pdf.Cell(40, 8, "Unit Price")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	for _, line := range o.Lines {
		pdf.Cell(70, 8, line.Name)
		pdf.Cell(30, 8, fmt.Sprintf("%d %s", line.Quantity, line.Unit))
		pdf.Cell(40, 8, fmt.Sprintf("%.2f", line.Price))
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", o.Total))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
