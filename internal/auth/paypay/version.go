package paypay

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

// versionScriptID is the id of the App Store script element holding the cached app metadata.
const versionScriptID = "shoebox-media-api-cache-apps"

// versionPath locates the latest version string inside the cached app metadata.
const versionPath = "d.0.attributes.platformAttributes.ios.versionHistory.0.versionDisplay"

// VersionResolver reads the current app version from its public store listing.
type VersionResolver struct {
	session *Session
	pageURL string
}

// NewVersionResolver creates a resolver fetching pageURL through the app flow of session.
func NewVersionResolver(session *Session, pageURL string) *VersionResolver {
	if strings.TrimSpace(pageURL) == "" {
		pageURL = DefaultVersionURL
	}
	return &VersionResolver{session: session, pageURL: pageURL}
}

// Resolve fetches the store page and extracts the latest version, e.g. "4.64.0".
func (r *VersionResolver) Resolve(ctx context.Context) (string, error) {
	resp, err := r.session.Do(ctx, FlowApp, &Request{
		Method: http.MethodGet,
		URL:    r.pageURL,
		Header: http.Header{"Accept": {acceptDocument}, "Accept-Encoding": {acceptEncoding}},
	})
	if err != nil {
		return "", err
	}
	version, err := ExtractVersion(resp.Body)
	if err != nil {
		return "", err
	}
	log.Debugf("resolved app version %s", version)
	return version, nil
}

// ExtractVersion finds the app metadata script in a store page and returns the latest version.
// The script text is a JSON object whose first value is itself an encoded JSON document.
func ExtractVersion(page []byte) (string, error) {
	if len(bytes.TrimSpace(page)) == 0 {
		return "", newFormatError("version page is empty")
	}
	script, ok := findScriptText(page, versionScriptID)
	if !ok {
		return "", newFormatError("version page has no %s script", versionScriptID)
	}
	if !gjson.Valid(script) {
		return "", newFormatError("version script is not JSON")
	}

	var inner string
	gjson.Parse(script).ForEach(func(_, value gjson.Result) bool {
		inner = value.String()
		return false
	})
	if inner == "" || !gjson.Valid(inner) {
		return "", newFormatError("version script has no embedded app document")
	}

	version := gjson.Get(inner, versionPath)
	if !version.Exists() || strings.TrimSpace(version.String()) == "" {
		return "", newFormatError("app document has no %s", versionPath)
	}
	return strings.TrimSpace(version.String()), nil
}

// findScriptText returns the text content of the first <script> element with the given id.
func findScriptText(page []byte, id string) (string, bool) {
	tokenizer := html.NewTokenizer(bytes.NewReader(page))
	inTarget := false
	var text strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if inTarget {
				return text.String(), true
			}
			return "", false
		case html.StartTagToken:
			name, hasAttr := tokenizer.TagName()
			if string(name) != "script" || !hasAttr {
				continue
			}
			for {
				key, val, more := tokenizer.TagAttr()
				if string(key) == "id" && string(val) == id {
					inTarget = true
					break
				}
				if !more {
					break
				}
			}
		case html.TextToken:
			if inTarget {
				text.Write(tokenizer.Text())
			}
		case html.EndTagToken:
			if inTarget {
				return text.String(), true
			}
		}
	}
}
