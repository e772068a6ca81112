package versioncmder_test

import (
	"bytes"
	"encoding/json"
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	versioncmder "github.com/papercomputeco/newsvec/cmd/version"
	"github.com/papercomputeco/newsvec/pkg/utils"
)

var _ = Describe("NewVersionCmd", func() {
	run := func(args ...string) (string, error) {
		cmd := versioncmder.NewVersionCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), err
	}

	It("prints the version, sha and toolchain", func() {
		out, err := run()
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HavePrefix("newsvec " + utils.BuildVersion()))
		Expect(out).To(ContainSubstring("Sha: " + utils.Sha))
		Expect(out).To(ContainSubstring(runtime.Version()))
	})

	It("prints JSON with --json", func() {
		out, err := run("--json")
		Expect(err).NotTo(HaveOccurred())

		var info versioncmder.Info
		Expect(json.Unmarshal([]byte(out), &info)).To(Succeed())
		Expect(info.Version).To(Equal(utils.BuildVersion()))
		Expect(info.Platform).To(Equal(runtime.GOOS + "/" + runtime.GOARCH))
	})

	It("rejects arguments", func() {
		_, err := run("extra")
		Expect(err).To(HaveOccurred())
	})
})
