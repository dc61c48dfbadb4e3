package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNumber builds a human-readable order token of the form
// ORD-<unix millis>-<9 char random suffix>. The generation scheme is not
// the uniqueness guarantee; the unique index on orders.order_number is.
func GenerateOrderNumber() string {
	var sb strings.Builder
	for i := 0; i < 9; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(orderNumberAlphabet))))
		if err != nil {
			// fallback: time-based entropy
			n = big.NewInt(time.Now().UnixNano() % int64(len(orderNumberAlphabet)))
		}
		sb.WriteByte(orderNumberAlphabet[n.Int64()])
	}

	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), sb.String())
}
