package nlquery

import (
	"fmt"
	"os"
	"sync/atomic"
)

// KeyManager rotates through the configured Gemini API keys so that a single
// key's rate limit does not stall the whole session.
type KeyManager struct {
	keys    []string
	current uint32
}

// NewKeyManager loads GEMINI_API_KEY plus any numbered GEMINI_API_KEY_1..4
// variants from the environment.
func NewKeyManager() *KeyManager {
	keys := make([]string, 0, 5)
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		keys = append(keys, key)
	}
	for i := 1; i <= 4; i++ {
		if key := os.Getenv(fmt.Sprintf("GEMINI_API_KEY_%d", i)); key != "" {
			keys = append(keys, key)
		}
	}
	return &KeyManager{keys: keys}
}

// HasKeys reports whether any API key is configured.
func (km *KeyManager) HasKeys() bool {
	return len(km.keys) > 0
}

// NextKey returns the next API key in rotation.
func (km *KeyManager) NextKey() string {
	if len(km.keys) == 0 {
		return ""
	}
	current := atomic.AddUint32(&km.current, 1)
	return km.keys[(current-1)%uint32(len(km.keys))]
}
