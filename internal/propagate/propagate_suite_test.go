package propagate_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPropagate(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Propagate Suite")
}
