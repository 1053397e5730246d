// Package testing switches binaries into test mode when imported for side effects.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

var defaults = map[string]string{
	"UTS_TEST_MODE":  "1",
	"SESSION_SECRET": "test-session-secret",
	"CSRF_SECRET":    "test-csrf-secret",
	"JWT_SECRET":     "test-jwt-secret",
	"GOTENBERG_URL":  "http://127.0.0.1:0",
}

func ensureTestMode() {
	once.Do(func() {
		for key, value := range defaults {
			if os.Getenv(key) == "" {
				_ = os.Setenv(key, value)
			}
		}
	})
}

func init() {
	ensureTestMode()
}

// TestMain can be assigned by packages that want test mode without the import side effect.
func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
