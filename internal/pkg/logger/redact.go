package logger

import "strings"

// RedactEmail masks an address for safe logging, keeping at most the first
// two characters of the local part: "john.doe@example.com" becomes
// "jo***@example.com". Anything that doesn't look like an address is masked
// entirely.
func RedactEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at < 0 || at != strings.LastIndexByte(email, '@') {
		return "***@***"
	}
	local, host := email[:at], email[at+1:]
	if len(local) <= 2 {
		return "***@" + host
	}
	return local[:2] + "***@" + host
}
