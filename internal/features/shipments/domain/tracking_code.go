package domain

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

const (
	trackingCodePrefix  = "ST"
	trackingCodeBase36  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	trackingCodeRandLen = 6
)

// GenerateTrackingCode produces a new public tracking code: a fixed prefix, a
// time-derived base36 component, and a crypto-random tail. Codes are uppercase
// alphanumeric and short enough to read over the phone. Uniqueness is enforced
// by the store; the random tail makes collisions negligible in practice.
func GenerateTrackingCode(now time.Time) string {
	timePart := strings.ToUpper(strconv.FormatInt(now.Unix(), 36))
	if len(timePart) > 4 {
		timePart = timePart[len(timePart)-4:]
	}

	buf := make([]byte, trackingCodeRandLen)
	// rand.Read only fails when the OS entropy source is broken.
	if _, err := rand.Read(buf); err != nil {
		panic("tracking code entropy source unavailable: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = trackingCodeBase36[int(b)%len(trackingCodeBase36)]
	}

	return trackingCodePrefix + timePart + string(buf)
}

// NormalizeTrackingCode maps any caller-supplied form of a code to the stored
// canonical form: trimmed and uppercase. Lookups and storage both go through
// this so tracking codes compare case-insensitively.
func NormalizeTrackingCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
