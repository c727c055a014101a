package misc

import (
	"fmt"
	"net/url"
	"strings"
)

// CallbackParams captures the parameters carried by a sign-in callback or
// one-time-link URL.
type CallbackParams struct {
	// ID is the one-time-link identifier ("id" query parameter).
	ID               string
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// Value returns the identifier the second-factor endpoint expects: the one-time-link id
// when present, otherwise the authorization code.
func (p *CallbackParams) Value() string {
	if p == nil {
		return ""
	}
	if p.ID != "" {
		return p.ID
	}
	return p.Code
}

// ParseCallbackURL extracts callback parameters from a URL pasted by the user.
// It accepts full URLs, custom-scheme redirects (paypay://oauth2/callback?code=...),
// bare query strings, and parameters carried in the fragment.
func ParseCallbackURL(input string) (*CallbackParams, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, fmt.Errorf("callback URL is empty")
	}

	candidate := trimmed
	if !strings.Contains(candidate, "://") {
		if strings.HasPrefix(candidate, "?") {
			candidate = "http://localhost" + candidate
		} else if strings.ContainsAny(candidate, "/?#") || strings.Contains(candidate, ":") {
			candidate = "http://" + candidate
		} else if strings.Contains(candidate, "=") {
			candidate = "http://localhost/?" + candidate
		} else {
			return nil, fmt.Errorf("invalid callback URL")
		}
	}

	parsedURL, err := url.Parse(candidate)
	if err != nil {
		return nil, err
	}

	query := parsedURL.Query()
	params := &CallbackParams{
		ID:               strings.TrimSpace(query.Get("id")),
		Code:             strings.TrimSpace(query.Get("code")),
		State:            strings.TrimSpace(query.Get("state")),
		Error:            strings.TrimSpace(query.Get("error")),
		ErrorDescription: strings.TrimSpace(query.Get("error_description")),
	}

	if parsedURL.Fragment != "" {
		if fragQuery, errFrag := url.ParseQuery(parsedURL.Fragment); errFrag == nil {
			fill := func(dst *string, key string) {
				if *dst == "" {
					*dst = strings.TrimSpace(fragQuery.Get(key))
				}
			}
			fill(&params.ID, "id")
			fill(&params.Code, "code")
			fill(&params.State, "state")
			fill(&params.Error, "error")
			fill(&params.ErrorDescription, "error_description")
		}
	}

	if params.Error == "" && params.ErrorDescription != "" {
		params.Error = params.ErrorDescription
		params.ErrorDescription = ""
	}

	if params.Value() == "" && params.Error == "" {
		return nil, fmt.Errorf("callback URL missing id or code")
	}
	return params, nil
}
