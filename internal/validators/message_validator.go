package validators

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"xelaConnect/internal/errs"
)

const MaxMessageLength = 4000

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ComposerText returns the trimmed text that would be sent, or ErrEmptyMessage
// when nothing is left. Length is left for the service to judge.
func ComposerText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", errs.ErrEmptyMessage
	}
	return trimmed, nil
}

// ValidateMessageText is the service side check: ComposerText plus the
// MaxMessageLength cap.
func ValidateMessageText(text string) (string, error) {
	trimmed, err := ComposerText(text)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLength {
		return "", errs.ErrMessageTooLong
	}
	return trimmed, nil
}

func ValidatePartnerID(partnerID string) error {
	if strings.TrimSpace(partnerID) == "" {
		return errs.ErrEmptyPartnerID
	}
	return nil
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}
