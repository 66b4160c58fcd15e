package scanning

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"
)

// ErrUnsupportedFormat is returned for uploads outside the accepted
// JPEG/PNG list. The upload dialog only offers those two, and PDF is
// rejected here as well in case the browser filter is bypassed.
var ErrUnsupportedFormat = errors.New("unsupported file format: only JPEG and PNG are accepted")

// ocrPrompt is the shared prompt used by all engines for plain-text OCR
const ocrPrompt = `You are performing OCR on a receipt image. Transcribe ALL visible text in the image, line by line, top to bottom, exactly as printed.

Important:
- Output plain text only, one receipt line per output line
- Preserve numbers, dates and currency amounts exactly as printed
- Do not summarize, interpret, translate or reorder anything
- Do not add any commentary before or after the transcription
- Do not use markdown code blocks
- If the image contains no readable text, output nothing`

// imageToPNG decodes a JPEG or PNG image and re-encodes it as PNG
func imageToPNG(imageData []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// prepareImageData normalizes the MIME type and converts the image to PNG.
// Everything the engines see is PNG afterwards.
func prepareImageData(imageData []byte, contentType string) ([]byte, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "image/jpeg" // default
	}

	switch mimeType {
	case "image/png":
		// Verify it actually decodes before handing it to an engine
		if _, err := png.Decode(bytes.NewReader(imageData)); err != nil {
			return nil, fmt.Errorf("decoding PNG: %w", err)
		}
		return imageData, nil
	case "image/jpeg", "image/jpg":
		return imageToPNG(imageData)
	default:
		return nil, fmt.Errorf("%w (got %s)", ErrUnsupportedFormat, mimeType)
	}
}

// stripCodeFences removes markdown code blocks some models wrap output in
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
