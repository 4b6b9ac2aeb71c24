package service

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateBookShareQR generates a QR code encoding a book's share link
	GenerateBookShareQR(bookID int64) ([]byte, error)

	// ParseBookShareQR parses QR code data and returns the book ID
	ParseBookShareQR(qrData string) (int64, error)
}
