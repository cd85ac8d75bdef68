// utils/validation.go
package utils

import (
	"net/mail"
	"regexp"
	"strings"
)

// International numbers carry a + and no leading zero; national numbers such
// as "022 2345 6789" or "09876543210" may start with a trunk zero.
var (
	internationalPhone = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)
	nationalPhone      = regexp.MustCompile(`^\d{7,15}$`)
)

// ValidatePhone checks for an international or national phone number,
// ignoring spaces, dashes, dots and parentheses.
func ValidatePhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "").Replace(phone)
	return internationalPhone.MatchString(cleaned) || nationalPhone.MatchString(cleaned)
}

// ValidateEmail checks for a single bare address such as "a@b.com".
func ValidateEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// Field pairs a payload field name with its submitted value.
type Field struct {
	Name  string
	Value string
}

// MissingFields returns the names of blank fields, in the order given.
func MissingFields(fields ...Field) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
