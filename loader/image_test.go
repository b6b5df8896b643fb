package loader_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvemu/loader"
)

var _ = Describe("LoadImage", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "rvemu-image-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	It("reads the image bytes unchanged", func() {
		path := filepath.Join(tempDir, "prog.bin")
		content := []byte{0x93, 0x07, 0x40, 0x00, 0x73, 0x00, 0x10, 0x00}
		Expect(os.WriteFile(path, content, 0o644)).To(Succeed())

		img, err := loader.LoadImage(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(img).To(Equal(content))
	})

	It("returns an error for a missing file", func() {
		_, err := loader.LoadImage(filepath.Join(tempDir, "missing.bin"))

		Expect(err).To(HaveOccurred())
	})
})
