package heat_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestHeat(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Heat Suite")
}
