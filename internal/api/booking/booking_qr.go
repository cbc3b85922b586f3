package booking

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/ojasmehta/yatra/internal/types"
)

const qrSize = 256

// QRCodePNG encodes a booking's check-in payload as a PNG QR code.
func QRCodePNG(b *types.Booking) ([]byte, error) {
	payload := types.BookingQRPayload{
		ID:     b.ID.String(),
		Item:   b.ItemName,
		Status: string(b.Status),
	}
	return encodeQR(payload)
}

// PreviewQRCodePNG renders a QR for an item that has no booking yet.
// The id is a throwaway placeholder and the status marks it as a
// preview so scanners never mistake it for a real booking.
func PreviewQRCodePNG(itemName string) ([]byte, error) {
	payload := types.BookingQRPayload{
		ID:     uuid.NewString(),
		Item:   itemName,
		Status: "preview",
	}
	return encodeQR(payload)
}

func encodeQR(payload types.BookingQRPayload) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR payload: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
