package utils

import (
	"crypto/md5"
	"fmt"
	"math/rand"
	"time"
)

// GenerateIdentity returns a short, collision-resistant id used for
// subscription/callback handles (lib/event.EventEmitter.On/Once).
func GenerateIdentity() string {
	seed := fmt.Sprintf("%d-%d", time.Now().UnixMicro(), rand.Int63())
	h := md5.New()
	h.Write([]byte(seed))
	return fmt.Sprintf("%x", h.Sum(nil))
}
