package scanning

// Scanner defines the interface for OCR text extraction
type Scanner interface {
	// ExtractText recognizes the text in a receipt image and returns it as
	// an unstructured string, no layout or geometry preserved. An unreadable
	// image or engine failure returns an error; recognized-empty text is a
	// valid "" result.
	ExtractText(imageData []byte, contentType string) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}
