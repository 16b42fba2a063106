package server

import (
	"os"
	"testing"

	"github.com/procdoc/sopgov/internal/tester"
)

func TestMain(m *testing.M) {
	tester.Setup()
	code := m.Run()

	os.Exit(code)
}
