package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// redactedFields are attribute keys whose values never reach the output.
// Configuration values are logged under "value"; their keys stay visible.
var redactedFields = []string{
	"authorization",
	"cookie",
	"x-api-key",
	"password",
	"secret",
	"token",
	"value",
	"connection_string",
	"account_key",
	"secret_access_key",
}

var redactedPrefixes = []string{"secret_", "api_key"}

// Raw values that leak through error strings from storage SDKs or request
// dumps. JWT segments need ten characters each so version strings pass.
var redactedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
	regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`),
	regexp.MustCompile(`(?i)(api[_\-]?key|apikey)\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)(AccountKey|SharedAccessSignature|sig)=[^;&\s]+`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
}

// newRedactAttr returns the masq ReplaceAttr used by every handler New builds.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(redactedFields)+len(redactedPrefixes)+len(redactedPatterns))
	for _, name := range redactedFields {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, prefix := range redactedPrefixes {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}
	for _, re := range redactedPatterns {
		opts = append(opts, masq.WithRegex(re))
	}
	return masq.New(opts...)
}
