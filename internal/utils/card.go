package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// NormalizeCardNumber strips spaces and dashes from a card number
func NormalizeCardNumber(number string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)
}

// ValidateCardNumber checks length and the Luhn checksum of a card number
func ValidateCardNumber(number string) error {
	number = NormalizeCardNumber(number)
	if len(number) < 13 || len(number) > 19 {
		return fmt.Errorf("invalid card number length: %d", len(number))
	}

	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return fmt.Errorf("card number contains a non-digit character")
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	if sum%10 != 0 {
		return fmt.Errorf("card number failed Luhn check")
	}
	return nil
}

// LastFourDigits returns the last four digits of a card number
func LastFourDigits(number string) string {
	number = NormalizeCardNumber(number)
	if len(number) < 4 {
		return number
	}
	return number[len(number)-4:]
}

// CardFingerprint generates an HMAC of the full card number so equal cards
// can be recognized without storing the number itself
func CardFingerprint(number, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(NormalizeCardNumber(number)))
	return hex.EncodeToString(h.Sum(nil))
}
