package scanning

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func makeTestImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	return img
}

var _ = Describe("prepareImageData", func() {
	var (
		data        []byte
		contentType string
		result      []byte
		err         error
	)

	JustBeforeEach(func() {
		result, err = prepareImageData(data, contentType)
	})

	When("given a PNG image", func() {
		BeforeEach(func() {
			var buf bytes.Buffer
			Expect(png.Encode(&buf, makeTestImage())).To(Succeed())
			data = buf.Bytes()
			contentType = "image/png"
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the data unchanged", func() {
			Expect(result).To(Equal(data))
		})
	})

	When("given a JPEG image", func() {
		BeforeEach(func() {
			var buf bytes.Buffer
			Expect(jpeg.Encode(&buf, makeTestImage(), nil)).To(Succeed())
			data = buf.Bytes()
			contentType = "image/jpeg"
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should convert to PNG", func() {
			_, decodeErr := png.Decode(bytes.NewReader(result))
			Expect(decodeErr).NotTo(HaveOccurred())
		})
	})

	When("the content type is missing", func() {
		BeforeEach(func() {
			var buf bytes.Buffer
			Expect(jpeg.Encode(&buf, makeTestImage(), nil)).To(Succeed())
			data = buf.Bytes()
			contentType = ""
		})

		It("should assume JPEG and convert", func() {
			Expect(err).NotTo(HaveOccurred())
			_, decodeErr := png.Decode(bytes.NewReader(result))
			Expect(decodeErr).NotTo(HaveOccurred())
		})
	})

	When("given a PDF", func() {
		BeforeEach(func() {
			data = []byte("%PDF-1.4 not really a pdf")
			contentType = "application/pdf"
		})

		It("should reject it as unsupported", func() {
			Expect(err).To(MatchError(ErrUnsupportedFormat))
		})
	})

	When("given unreadable image bytes", func() {
		BeforeEach(func() {
			data = []byte("definitely not an image")
			contentType = "image/jpeg"
		})

		It("should return a decode error", func() {
			Expect(err).To(HaveOccurred())
		})
	})
})
