package booking

import (
	"bytes"
	"encoding/json"
	"image/png"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ojasmehta/yatra/internal/types"
)

func TestQRCodePNG_EncodesBookingPayload(t *testing.T) {
	b := &types.Booking{
		ID:       uuid.New(),
		ItemName: "Taj Mahal sunrise tour",
		Status:   types.BookingStatusBooked,
	}

	data, err := QRCodePNG(b)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestPreviewQRCodePNG(t *testing.T) {
	data, err := PreviewQRCodePNG("Colosseum tour")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestBookingQRPayloadShape(t *testing.T) {
	payload := types.BookingQRPayload{
		ID:     "abc",
		Item:   "Petra hike",
		Status: "preview",
	}

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","item":"Petra hike","status":"preview"}`, string(raw))
}
