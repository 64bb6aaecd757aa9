package domain

import "regexp"

// Moroccan mobile numbers: a leading 0 plus area digit 6 or 7 and 8 digits,
// or the same shape behind the 212 calling code with an optional +.
var phonePattern = regexp.MustCompile(`^(?:0|\+?212)[67]\d{8}$`)

// ValidPhone reports whether the given string is an accepted mobile number.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
