package gdocs

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// the client shares a token cache across goroutines; make sure no
	// test leaks one
	goleak.VerifyTestMain(m)
}
