package qrcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRCodeService_GenerateBookShareQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	png, err := svc.GenerateBookShareQR(42)
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestQRCodeService_ParseBookShareQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	bookID, err := svc.ParseBookShareQR(`{"book_id":42,"type":"book"}`)
	require.NoError(t, err)
	assert.Equal(t, int64(42), bookID)

	_, err = svc.ParseBookShareQR(`{"book_id":42,"type":"subscription"}`)
	assert.Error(t, err)

	_, err = svc.ParseBookShareQR(`{"book_id":0,"type":"book"}`)
	assert.Error(t, err)

	_, err = svc.ParseBookShareQR(`not json`)
	assert.Error(t, err)
}

func TestQRCodeService_DefaultsToMediumRecovery(t *testing.T) {
	svc := NewQRCodeService(128, "bogus")

	png, err := svc.GenerateBookShareQR(1)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}
