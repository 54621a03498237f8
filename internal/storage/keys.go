package storage

import (
	"fmt"
	"regexp"
	"time"
)

// Storage key namespaces. Cleanup purges by these prefixes on delete,
// so every upload must stay under one of them.
const (
	CaseNamespace    = "cases/"
	ProfileNamespace = "profiles/"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFileName collapses anything outside [A-Za-z0-9._-] so
// user-supplied names cannot smuggle path separators into object keys.
func SanitizeFileName(name string) string {
	cleaned := unsafeNameChars.ReplaceAllString(name, "_")
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "file"
	}
	return cleaned
}

func CasePrefix(caseID string) string {
	return CaseNamespace + caseID + "/"
}

func ProfilePrefix(userID string) string {
	return ProfileNamespace + userID + "/"
}

// DocumentKey builds the content-addressed-by-time key for a case
// attachment.
func DocumentKey(caseID, fileName string, now time.Time) string {
	return fmt.Sprintf("%s%d_%s", CasePrefix(caseID), now.UnixNano(), SanitizeFileName(fileName))
}

func ProfileImageKey(userID, fileName string, now time.Time) string {
	return fmt.Sprintf("%s%d_%s", ProfilePrefix(userID), now.UnixNano(), SanitizeFileName(fileName))
}
