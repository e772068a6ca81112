package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/newsvec/pkg/dotdir"
)

var _ = Describe("dotdir", func() {
	var tmpDir string
	var m *dotdir.Manager

	chdir := func(dir string) {
		origDir, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(dir)).To(Succeed())
		DeferCleanup(func() { _ = os.Chdir(origDir) })
	}

	BeforeEach(func() {
		var err error
		// Resolve symlinks so paths match filepath.Abs results
		// (e.g. on macOS /var -> /private/var).
		tmpDir, err = filepath.EvalSymlinks(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		m = dotdir.NewManager()
	})

	Describe("Target", func() {
		It("creates the override directory if it doesn't exist", func() {
			dir := filepath.Join(tmpDir, "newdir")
			result, err := m.Target(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(dir))

			info, err := os.Stat(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})

		It("prefers the override dir over a local .newsvec dir", func() {
			Expect(os.Mkdir(filepath.Join(tmpDir, ".newsvec"), 0o755)).To(Succeed())
			chdir(tmpDir)

			overrideDir := filepath.Join(tmpDir, "override")
			result, err := m.Target(overrideDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(overrideDir))
		})

		It("returns the local .newsvec dir when it exists", func() {
			local := filepath.Join(tmpDir, ".newsvec")
			Expect(os.Mkdir(local, 0o755)).To(Succeed())
			chdir(tmpDir)

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(local))
		})

		It("falls back to creating ~/.newsvec", func() {
			emptyDir := filepath.Join(tmpDir, "empty")
			Expect(os.Mkdir(emptyDir, 0o755)).To(Succeed())
			chdir(emptyDir)
			GinkgoT().Setenv("HOME", emptyDir)
			GinkgoT().Setenv("NEWSVEC_HOME", "")

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(filepath.Join(emptyDir, ".newsvec")))
			Expect(filepath.Join(emptyDir, ".newsvec")).To(BeADirectory())
		})

		It("uses NEWSVEC_HOME when there is no local dir", func() {
			emptyDir := filepath.Join(tmpDir, "empty")
			Expect(os.Mkdir(emptyDir, 0o755)).To(Succeed())
			chdir(emptyDir)

			home := filepath.Join(tmpDir, "news-home")
			GinkgoT().Setenv("NEWSVEC_HOME", home)

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(home))
			Expect(home).To(BeADirectory())
		})

		It("prefers a local dir over NEWSVEC_HOME", func() {
			local := filepath.Join(tmpDir, ".newsvec")
			Expect(os.Mkdir(local, 0o755)).To(Succeed())
			chdir(tmpDir)
			GinkgoT().Setenv("NEWSVEC_HOME", filepath.Join(tmpDir, "news-home"))

			Expect(m.Target("")).To(Equal(local))
		})
	})

	Describe("InitLocal", func() {
		It("creates ./.newsvec once", func() {
			chdir(tmpDir)

			dir, created, err := m.InitLocal()
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())
			Expect(dir).To(Equal(filepath.Join(tmpDir, ".newsvec")))

			again, created, err := m.InitLocal()
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeFalse())
			Expect(again).To(Equal(dir))
		})

		It("fails when .newsvec is a file", func() {
			Expect(os.WriteFile(filepath.Join(tmpDir, ".newsvec"), nil, 0o600)).To(Succeed())
			chdir(tmpDir)

			_, _, err := m.InitLocal()
			Expect(err).To(MatchError(ContainSubstring("creating newsvec directory")))
		})
	})
})
