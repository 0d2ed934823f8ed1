package security

import (
	"fmt"
	"strconv"
)

func formatSubject(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

func parseSubject(subject string) (uint, error) {
	parsed, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject: %w", err)
	}
	return uint(parsed), nil
}
