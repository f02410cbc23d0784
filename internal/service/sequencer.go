package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// PaymentSequencer produces unique, human-readable payment numbers per
// tenant: PAY-{year}-{seq}. The year always reflects "now"; the sequence
// continues from the last-seen number.
type PaymentSequencer struct {
	payments PaymentStore
	now      func() time.Time
}

func NewPaymentSequencer(payments PaymentStore) *PaymentSequencer {
	return &PaymentSequencer{payments: payments, now: time.Now}
}

func (s *PaymentSequencer) NextPaymentNumber(companyID uint) (string, error) {
	year := s.now().Year()
	seq := int64(1)

	last, err := s.payments.LatestByCompany(companyID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if err == nil {
		if _, n, ok := parseNumber(last.PaymentNumber); ok {
			// The year component always reflects now; the sequence
			// continues from the last-seen number even across a rollover.
			seq = n + 1
		} else {
			// Prior number in an unknown format; a timestamp-derived
			// sequence keeps the payment moving instead of failing it.
			seq = s.now().Unix() % 1_000_000
		}
	}

	// Candidates are re-checked against existing numbers and bumped until
	// free, so the fallback path cannot collide either.
	for attempts := 0; attempts < 100; attempts++ {
		number := fmt.Sprintf("PAY-%d-%03d", year, seq)
		exists, err := s.payments.NumberExists(companyID, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
		seq++
	}
	return "", fmt.Errorf("could not allocate a unique payment number for company %d", companyID)
}

func parseNumber(number string) (year int, seq int64, ok bool) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != "PAY" {
		return 0, 0, false
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil || y < 2000 {
		return 0, 0, false
	}
	n, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || n < 0 {
		return 0, 0, false
	}
	return y, n, true
}
