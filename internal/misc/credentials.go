package misc

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// Separator used to visually group related log lines.
var credentialSeparator = strings.Repeat("-", 67)

// LogCredentialSeparator adds a visual separator around the login steps in debug logs.
func LogCredentialSeparator() {
	log.Debug(credentialSeparator)
}
