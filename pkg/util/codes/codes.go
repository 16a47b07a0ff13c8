package codes

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

var ErrInvalidLength = errors.New("invalid code length")

const (
	AppointmentPrefix = "APP-"
	PatientPrefix     = "PAT-"

	// Patient numbers are four digits, 1000-9999.
	patientNoMin  = 1000
	patientNoSpan = 9000
)

// GenerateNumericCode creates a zero-padded numeric code of the given length.
func GenerateNumericCode(length int) (string, error) {
	if length < 1 {
		return "", ErrInvalidLength
	}

	max := new(big.Int)
	max.Exp(big.NewInt(10), big.NewInt(int64(length)), nil)

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}

	format := fmt.Sprintf("%%0%dd", length)
	return fmt.Sprintf(format, n), nil
}

// AppointmentNo returns a human facing number such as "APP-04211".
func AppointmentNo(digits int) (string, error) {
	n, err := GenerateNumericCode(digits)
	if err != nil {
		return "", err
	}
	return AppointmentPrefix + n, nil
}

// AppointmentNoGenerator adapts AppointmentNo to the candidate callback the
// booking writer retries on collision.
func AppointmentNoGenerator(digits int) func() (string, error) {
	return func() (string, error) { return AppointmentNo(digits) }
}

// PatientNo returns a number such as "PAT-4821".
func PatientNo() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(patientNoSpan))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return fmt.Sprintf("%s%d", PatientPrefix, patientNoMin+n.Int64()), nil
}
