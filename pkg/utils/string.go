package utils

import (
	"crypto/rand"
	"html"
	"math/big"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var charsetLen = big.NewInt(int64(len(charset)))

// GenerateRandomString returns a random alphanumeric string, used for stored file names.
func GenerateRandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			panic(err)
		}
		b[i] = charset[n.Int64()]
	}
	return string(b)
}

var strictPolicy = bluemonday.StrictPolicy()

// CleanText trims s and strips any HTML markup from it. The sanitizer
// output is unescaped again so text like "<3" or "R&B" is stored as typed.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
