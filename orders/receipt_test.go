package orders

import (
	"strings"
	"testing"
	"time"

	"agrimart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() models.Order {
	return models.Order{
		OrderID: "ORD1234",
		UserID:  "u1",
		Lines: []models.OrderLine{
			{ProductID: "p1", Name: "Tomato", Unit: "kg", Price: 40, Quantity: 2},
		},
		Total:     80,
		Status:    "pending",
		CreatedAt: time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestReceiptQRPayloadIsSigned(t *testing.T) {
	secret := []byte("test-secret")
	payload := receiptQRPayload(sampleOrder(), secret)

	parts := strings.Split(payload, "|")
	require.Len(t, parts, 3)
	assert.Equal(t, "ORD1234", parts[0])
	assert.Equal(t, "u1", parts[1])
	assert.NotEmpty(t, parts[2])

	// Same input, same signature; different secret, different signature.
	assert.Equal(t, payload, receiptQRPayload(sampleOrder(), secret))
	assert.NotEqual(t, payload, receiptQRPayload(sampleOrder(), []byte("other")))
}

func TestBuildReceiptPDF(t *testing.T) {
	raw, err := BuildReceiptPDF(sampleOrder(), "Asha", []byte("test-secret"))
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}
