package models

import "strings"

// CountryOther is the country choice that enables the free-text country.
const CountryOther = "Other"

// SignupOTPLength is the number of digits in a signup verification code.
const SignupOTPLength = 4

// SignupDraft holds the signup form while it is being filled in.
type SignupDraft struct {
	Name          string
	Email         string
	Username      string
	Password      string
	AgreedToTerms bool

	country      string
	otherCountry string
}

// Country returns the selected country option.
func (d *SignupDraft) Country() string { return d.country }

// OtherCountry returns the free-text country; it is empty unless Country is
// CountryOther.
func (d *SignupDraft) OtherCountry() string { return d.otherCountry }

// SetCountry selects a country option. Choosing anything but CountryOther
// clears the free-text country.
func (d *SignupDraft) SetCountry(country string) {
	d.country = country
	if country != CountryOther {
		d.otherCountry = ""
	}
}

// SetOtherCountry stores the free-text country. It is ignored unless
// CountryOther is selected.
func (d *SignupDraft) SetOtherCountry(country string) {
	if d.country != CountryOther {
		return
	}
	d.otherCountry = country
}

// ResolvedCountry is the value sent to the server.
func (d *SignupDraft) ResolvedCountry() string {
	if d.country == CountryOther {
		return d.otherCountry
	}
	return d.country
}

// SanitizeSignupOTP keeps only digits and caps the code at SignupOTPLength.
func SanitizeSignupOTP(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == SignupOTPLength {
			break
		}
	}
	return b.String()
}
