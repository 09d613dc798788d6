package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/verolang/verogen/internal/scanner"
)

func TestScanner(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Scanner Suite")
}

var _ = Describe("Scanner", func() {
	var (
		s    *scanner.FileScanner
		root string
	)

	write := func(rel string) {
		path := filepath.Join(root, rel)
		Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
		Expect(os.WriteFile(path, []byte("pages: []\n"), 0644)).To(Succeed())
	}

	BeforeEach(func() {
		s = scanner.NewScanner(true)
		root = GinkgoT().TempDir()
		write("checkout.vero.yaml")
		write("login.vero.yaml")
		write("shared/admin.vero.yaml")
		write("notes.txt")
		write("node_modules/dep/pkg.vero.yaml")
	})

	It("should find program files by pattern", func() {
		files, err := s.Scan(root, []string{"*.vero.yaml"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(HaveLen(4))
	})

	It("should return sorted file paths", func() {
		files, err := s.Scan(root, []string{"*.vero.yaml"}, []string{"node_modules/**"})
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(HaveLen(3))
		Expect(filepath.Base(files[0])).To(Equal("checkout.vero.yaml"))
		Expect(filepath.Base(files[1])).To(Equal("login.vero.yaml"))
		Expect(filepath.Base(files[2])).To(Equal("admin.vero.yaml"))
	})

	It("should respect exclude patterns", func() {
		files, err := s.Scan(root, []string{"*.vero.yaml"}, []string{"node_modules/**", "login.vero.yaml"})
		Expect(err).ToNot(HaveOccurred())
		for _, f := range files {
			Expect(filepath.Base(f)).ToNot(Equal("login.vero.yaml"))
		}
	})

	It("should handle non-recursive mode", func() {
		s = scanner.NewScanner(false)
		files, err := s.Scan(root, []string{"*.vero.yaml"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(HaveLen(2))
	})

	It("should return error for nonexistent directory", func() {
		_, err := s.Scan(filepath.Join(root, "missing"), []string{"*.vero.yaml"}, nil)
		Expect(err).To(HaveOccurred())
	})
})
