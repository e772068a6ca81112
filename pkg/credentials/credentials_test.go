package credentials_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/newsvec/pkg/credentials"
)

var _ = Describe("Manager", func() {
	var (
		tmpDir string
		mgr    *credentials.Manager
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		GinkgoT().Setenv("OPENAI_API_KEY", "")
		GinkgoT().Setenv("QDRANT_API_KEY", "")

		var err error
		mgr, err = credentials.NewManager(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	writeFile := func(data string) {
		Expect(os.WriteFile(filepath.Join(tmpDir, "credentials.toml"), []byte(data), 0o600)).To(Succeed())
	}

	It("targets credentials.toml in the override directory", func() {
		Expect(mgr.GetTarget()).To(Equal(filepath.Join(tmpDir, "credentials.toml")))
	})

	Describe("Load", func() {
		It("returns empty credentials when no file exists", func() {
			creds, err := mgr.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.Providers).NotTo(BeNil())
			Expect(creds.Providers).To(BeEmpty())
		})

		It("loads existing credentials", func() {
			writeFile("version = 0\n\n[providers.qdrant]\napi_key = \"qd-key\"\n")

			creds, err := mgr.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.Providers).To(HaveKeyWithValue("qdrant", HaveField("APIKey", "qd-key")))
		})

		It("returns error for malformed TOML", func() {
			writeFile("not valid [[[")

			creds, err := mgr.Load()
			Expect(err).To(MatchError(ContainSubstring("parsing credentials")))
			Expect(creds).To(BeNil())
		})

		It("rejects an unknown version", func() {
			writeFile("version = 3\n")

			_, err := mgr.Load()
			Expect(err).To(MatchError(ContainSubstring("unsupported credentials version 3")))
		})
	})

	Describe("Save", func() {
		It("writes the file with 0600 permissions", func() {
			Expect(mgr.Save(&credentials.Credentials{
				Providers: map[string]credentials.ProviderCredential{"openai": {APIKey: "sk-test"}},
			})).To(Succeed())

			info, err := os.Stat(mgr.GetTarget())
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
		})

		It("leaves no temp files behind", func() {
			Expect(mgr.SetKey("openai", "sk-test")).To(Succeed())

			entries, err := os.ReadDir(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Name()).To(Equal("credentials.toml"))
		})

		It("returns error for nil credentials", func() {
			Expect(mgr.Save(nil)).To(HaveOccurred())
		})
	})

	Describe("SetKey", func() {
		It("stores and overwrites keys", func() {
			Expect(mgr.SetKey("openai", "sk-old")).To(Succeed())
			Expect(mgr.SetKey("openai", "sk-new")).To(Succeed())

			key, err := mgr.GetKey("openai")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("sk-new"))
		})

		It("records when the key was stored", func() {
			Expect(mgr.SetKey("qdrant", "qd-key")).To(Succeed())

			creds, err := mgr.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.Providers["qdrant"].UpdatedAt).NotTo(BeZero())
		})

		It("keeps other providers", func() {
			Expect(mgr.SetKey("openai", "sk-test")).To(Succeed())
			Expect(mgr.SetKey("qdrant", "qd-key")).To(Succeed())

			Expect(mgr.ListProviders()).To(Equal([]string{"openai", "qdrant"}))
		})

		It("rejects unsupported providers", func() {
			Expect(mgr.SetKey("anthropic", "sk-ant")).To(MatchError(credentials.ErrUnsupportedProvider))
		})

		It("rejects empty keys", func() {
			Expect(mgr.SetKey("openai", "")).To(MatchError(credentials.ErrEmptyKey))
		})
	})

	Describe("RemoveKey", func() {
		It("removes a stored key", func() {
			Expect(mgr.SetKey("openai", "sk-test")).To(Succeed())
			Expect(mgr.RemoveKey("openai")).To(Succeed())

			key, err := mgr.GetKey("openai")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(BeEmpty())
		})

		It("succeeds when nothing is stored", func() {
			Expect(mgr.RemoveKey("qdrant")).To(Succeed())
		})
	})

	Describe("Resolve", func() {
		It("prefers the environment variable", func() {
			Expect(mgr.SetKey("openai", "sk-file")).To(Succeed())
			GinkgoT().Setenv("OPENAI_API_KEY", "sk-env")

			key, err := mgr.Resolve("openai")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal(credentials.Key{Value: "sk-env", Source: credentials.SourceEnv}))
		})

		It("falls back to the stored key", func() {
			Expect(mgr.SetKey("qdrant", "qd-file")).To(Succeed())

			key, err := mgr.Resolve("qdrant")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal(credentials.Key{Value: "qd-file", Source: credentials.SourceFile}))
		})

		It("returns an empty key when neither is set", func() {
			key, err := mgr.Resolve("openai")
			Expect(err).NotTo(HaveOccurred())
			Expect(key.Source).To(Equal(credentials.SourceNone))

			value, err := mgr.ResolveKey("openai")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(BeEmpty())
		})
	})
})

var _ = Describe("Providers", func() {
	It("lists openai and qdrant", func() {
		Expect(credentials.SupportedProviders()).To(Equal([]string{"openai", "qdrant"}))
		Expect(credentials.IsSupportedProvider("qdrant")).To(BeTrue())
		Expect(credentials.IsSupportedProvider("ollama")).To(BeFalse())
	})

	It("maps providers to environment variables", func() {
		Expect(credentials.EnvVarForProvider("openai")).To(Equal("OPENAI_API_KEY"))
		Expect(credentials.EnvVarForProvider("qdrant")).To(Equal("QDRANT_API_KEY"))
		Expect(credentials.EnvVarForProvider("unknown")).To(BeEmpty())
	})

	It("describes each provider", func() {
		p, ok := credentials.LookupProvider("qdrant")
		Expect(ok).To(BeTrue())
		Expect(p.Usage).NotTo(BeEmpty())
		Expect(credentials.Providers()).To(HaveLen(2))
	})
})
