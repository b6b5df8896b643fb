package loader_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvemu/loader"
)

var _ = Describe("LoadSymbols", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "rvemu-symbols-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	It("parses objdump-style symbol lines and skips the rest", func() {
		path := filepath.Join(tempDir, "symbols.txt")
		listing := "0000000000010074 <main>:\n" +
			"  10074:\t00400793\taddi a5,zero,4\n" +
			"00000000000100a0 <helper>:\n" +
			"not a symbol line at all\n"
		Expect(os.WriteFile(path, []byte(listing), 0o644)).To(Succeed())

		symbols, err := loader.LoadSymbols(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(symbols).To(HaveKeyWithValue(uint64(0x10074), "main"))
		Expect(symbols).To(HaveKeyWithValue(uint64(0x100a0), "helper"))
		Expect(symbols).To(HaveLen(2))
	})
})
