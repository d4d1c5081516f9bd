package cli

import (
	"strconv"
	"time"
)

func formatID(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(time.DateOnly)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func parseID(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 0, errUsage
	}
	return n, nil
}

func oneID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	return parseID(args[0])
}
