package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

var testDefaults = map[string]string{
	"CTP_REGION":        "europe-west1.gcp",
	"CTP_PROJECT_KEY":   "test-project",
	"CTP_CLIENT_ID":     "test-client-id",
	"CTP_CLIENT_SECRET": "test-client-secret",
	"OG_API_URL":        "http://127.0.0.1:0",
	"OG_API_KEY":        "test-api-key",
}

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("CONNECTOR_TEST_MODE", "1")
		for key, value := range testDefaults {
			if os.Getenv(key) == "" {
				_ = os.Setenv(key, value)
			}
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
