package receipt

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalArchive", func() {
	var archive *LocalArchive

	BeforeEach(func() {
		var err error
		archive, err = NewLocalArchive(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
	})

	It("should round-trip a file", func() {
		name, err := archive.Save("receipt.jpg", []byte("image bytes"))
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("receipt.jpg"))

		data, err := archive.Get("receipt.jpg")
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("image bytes")))
	})

	It("should delete a stored file", func() {
		_, err := archive.Save("receipt.jpg", []byte("image bytes"))
		Expect(err).NotTo(HaveOccurred())

		Expect(archive.Delete("receipt.jpg")).To(Succeed())

		_, err = archive.Get("receipt.jpg")
		Expect(err).To(HaveOccurred())
	})

	It("should error when getting a missing file", func() {
		_, err := archive.Get("missing.jpg")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("sanitizeFilename", func() {
	It("should strip special characters", func() {
		Expect(sanitizeFilename("my:re/ceipt?.jpg")).To(Equal("myreceipt.jpg"))
	})

	It("should collapse whitespace", func() {
		Expect(sanitizeFilename("my   receipt  scan.png")).To(Equal("my receipt scan.png"))
	})

	It("should truncate long names but keep the extension", func() {
		long := strings.Repeat("a", 80) + ".jpg"
		got := sanitizeFilename(long)
		Expect(got).To(HaveSuffix(".jpg"))
		Expect(got).To(HaveLen(50 + len(".jpg")))
	})

	It("should fall back when nothing survives", func() {
		Expect(sanitizeFilename("???.jpg")).To(Equal("receipt.jpg"))
	})
})
