package root_test

import (
	"bytes"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/milpkit/milpkit/cmd/root"
)

func TestRoot(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Root Suite")
}

var _ = Describe("Root command", func() {
	It("should register the sub-commands", func() {
		cmd := root.NewRootCmd()
		var names []string
		for _, c := range cmd.Commands() {
			names = append(names, c.Name())
		}
		Expect(names).To(ContainElements("solve", "serve"))
	})

	It("should print help", func() {
		cmd := root.NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--help"})
		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("milpkit"))
	})
})
