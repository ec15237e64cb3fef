package delivery

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const trackingCodePrefix = "ECO"

const trackingCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewTrackingCode produces a human-readable tracking identifier of the form
// "ECO" + base36 millisecond timestamp + 3 random characters. Uniqueness is
// additionally guarded by a unique index in storage.
func NewTrackingCode(now time.Time) string {
	var b strings.Builder
	b.WriteString(trackingCodePrefix)
	b.WriteString(strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)))
	for i := 0; i < 3; i++ {
		b.WriteByte(trackingCodeAlphabet[randomInt(len(trackingCodeAlphabet))])
	}
	return b.String()
}

// NewConfirmationCode produces a fixed-length numeric code. Leading zeros are
// preserved, so the code is a string, never a number.
func NewConfirmationCode(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteByte(byte('0' + randomInt(10)))
	}
	return b.String()
}

func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is broken
		panic(err)
	}
	return int(v.Int64())
}
