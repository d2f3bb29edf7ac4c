package gateway

import (
	"errors"
	"strings"
)

// ErrInvalidPhoneNumber is returned when a payer number cannot be brought
// into canonical form. Such numbers are never sent to the gateway.
var ErrInvalidPhoneNumber = errors.New("invalid phone number")

// NormalizePhone converts a Kenyan mobile number into the canonical
// international form the gateway expects: 12 digits, country code 254,
// no plus sign. Accepted inputs: 07XXXXXXXX, 01XXXXXXXX, 7XXXXXXXX,
// 1XXXXXXXX, 2547XXXXXXXX, 2541XXXXXXXX and the same with a leading +.
func NormalizePhone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "+")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")

	if s == "" {
		return "", ErrInvalidPhoneNumber
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", ErrInvalidPhoneNumber
		}
	}

	switch {
	case len(s) == 12 && strings.HasPrefix(s, "254"):
		// already canonical
	case len(s) == 10 && (strings.HasPrefix(s, "07") || strings.HasPrefix(s, "01")):
		s = "254" + s[1:]
	case len(s) == 9 && (strings.HasPrefix(s, "7") || strings.HasPrefix(s, "1")):
		s = "254" + s
	default:
		return "", ErrInvalidPhoneNumber
	}

	if s[3] != '7' && s[3] != '1' {
		return "", ErrInvalidPhoneNumber
	}

	return s, nil
}
