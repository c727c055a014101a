package paypay

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paypay-go/paypay/internal/misc"
)

// Fixed device profile of the emulated Android handset.
const (
	deviceName         = "SM-G955N"
	deviceManufacturer = "samsung"
	deviceHardware     = "samsungexynox8895"
	osVersion          = "28.0.0"
	osReleaseVersion   = "9"
	deviceBuild        = "NRD90M.G955NKSU1AQDC"
	webViewChrome      = "92.0.4515.131"
	androidPackage     = "jp.ne.paypay.android.app"
	acceptLanguage     = "ja-JP,ja;q=0.9,en-US;q=0.8,en;q=0.7"
	acceptDocument     = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9"
	acceptXHR          = "application/json, text/plain, */*"
)

// HeaderProfile produces the header sets of the emulated app. It is built once per
// client so device and client identifiers stay stable for the client's lifetime.
type HeaderProfile struct {
	DeviceUUID    string
	ClientUUID    string
	ClientVersion string

	endpoints Endpoints
	now       func() time.Time
}

// NewHeaderProfile creates a header profile. Empty UUIDs are generated.
func NewHeaderProfile(deviceUUID, clientUUID, clientVersion string, endpoints Endpoints) *HeaderProfile {
	if strings.TrimSpace(deviceUUID) == "" {
		deviceUUID = uuid.NewString()
	}
	if strings.TrimSpace(clientUUID) == "" {
		clientUUID = uuid.NewString()
	}
	return &HeaderProfile{
		DeviceUUID:    deviceUUID,
		ClientUUID:    clientUUID,
		ClientVersion: clientVersion,
		endpoints:     endpoints.WithDefaults(),
		now:           time.Now,
	}
}

// AppUserAgent is the OkHttp user agent of the app backend client.
func (p *HeaderProfile) AppUserAgent() string {
	return fmt.Sprintf("PaypayApp/%s Android%s", p.ClientVersion, osReleaseVersion)
}

// WebViewUserAgent is the user agent of the app's embedded WebView.
func (p *HeaderProfile) WebViewUserAgent() string {
	return fmt.Sprintf("Mozilla/5.0 (Linux; Android %s; %s Build/%s; wv) AppleWebKit/537.36 (KHTML, like Gecko) Version/4.0 Chrome/%s Mobile Safari/537.36 jp.pay2.app.android/%s",
		osReleaseVersion, deviceName, deviceBuild, webViewChrome, p.ClientVersion)
}

// SignInReferer is the portal page the WebView shows during sign-in.
func (p *HeaderProfile) SignInReferer() string {
	return p.endpoints.Web("/portal/oauth2/sign-in") + "?" + url.Values{
		"client_id": {ClientID},
		"mode":      {"landing"},
	}.Encode()
}

// AppHeaders returns the headers of every app backend call.
func (p *HeaderProfile) AppHeaders() http.Header {
	h := http.Header{}
	h.Set("Client-Os-Type", "ANDROID")
	h.Set("Device-Acceleration-2", "NULL")
	h.Set("Device-Name", deviceName)
	h.Set("Is-Emulator", "false")
	h.Set("Device-Rotation", "NULL")
	h.Set("Device-Manufacturer-Name", deviceManufacturer)
	h.Set("Client-Os-Version", osVersion)
	h.Set("Device-Brand-Name", deviceManufacturer)
	h.Set("Device-Orientation", "NULL")
	h.Set("Device-Uuid", p.DeviceUUID)
	h.Set("Device-Acceleration", "NULL")
	h.Set("Device-Rotation-2", "NULL")
	h.Set("Client-Os-Release-Version", osReleaseVersion)
	h.Set("Client-Type", "PAYPAYAPP")
	h.Set("Client-Uuid", p.ClientUUID)
	h.Set("Device-Hardware-Name", deviceHardware)
	h.Set("Device-Orientation-2", "NULL")
	h.Set("Network-Status", "WIFI")
	h.Set("Client-Mode", "NORMAL")
	h.Set("System-Locale", DefaultLanguage)
	h.Set("Timezone", "Asia/Tokyo")
	h.Set("Accept-Charset", "UTF-8")
	h.Set("Accept", "*/*")
	h.Set("Accept-Encoding", acceptEncoding)
	h.Set("Client-Version", p.ClientVersion)
	h.Set("User-Agent", p.AppUserAgent())
	return h
}

// NavigateHeaders returns the headers of a top-level WebView page load.
func (p *HeaderProfile) NavigateHeaders() http.Header {
	h := http.Header{}
	h.Set("Pragma", "no-cache")
	h.Set("Cache-Control", "no-cache")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("User-Agent", p.WebViewUserAgent())
	h.Set("Accept", acceptDocument)
	h.Set("X-Requested-With", androidPackage)
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Accept-Encoding", acceptEncoding)
	h.Set("Accept-Language", acceptLanguage)
	return h
}

// PortalHeaders returns the headers of an XHR issued by the sign-in portal inside the WebView.
func (p *HeaderProfile) PortalHeaders() http.Header {
	h := http.Header{}
	h.Set("Pragma", "no-cache")
	h.Set("Cache-Control", "no-cache")
	h.Set("User-Agent", p.WebViewUserAgent())
	h.Set("Accept", acceptXHR)
	h.Set("Client-Os-Version", osVersion)
	h.Set("Client-Version", p.ClientVersion)
	h.Set("Client-Type", "PAYPAYAPP")
	h.Set("Client-App-Load-Start", strconv.FormatInt(p.now().Unix(), 10))
	h.Set("Client-Id", ClientID)
	h.Set("Sentry-Trace", "NULL")
	h.Set("Baggage", "NULL")
	h.Set("Origin", p.endpoints.WebBaseURL)
	h.Set("X-Requested-With", androidPackage)
	h.Set("Sec-Fetch-Site", "same-origin")
	h.Set("Sec-Fetch-Mode", "cors")
	h.Set("Sec-Fetch-Dest", "empty")
	h.Set("Referer", p.SignInReferer())
	h.Set("Accept-Encoding", acceptEncoding)
	h.Set("Accept-Language", acceptLanguage)
	return h
}

// BrowserHeaders returns the headers of the phone browser that opens the one-time link.
// referer defaults to the one-time-link landing page.
func (p *HeaderProfile) BrowserHeaders(referer string) http.Header {
	h := http.Header{}
	h.Set("Pragma", "no-cache")
	h.Set("Cache-Control", "no-cache")
	h.Set("Client-Os-Version", osVersion)
	h.Set("User-Agent", p.WebViewUserAgent())
	h.Set("Accept", acceptXHR)
	h.Set("Client-Type", "PAYPAYWEB")
	h.Set("Sentry-Trace", "NULL")
	h.Set("Baggage", "NULL")
	h.Set("Origin", p.endpoints.WebBaseURL)
	h.Set("Sec-Fetch-Site", "same-origin")
	h.Set("Sec-Fetch-Mode", "cors")
	h.Set("Sec-Fetch-Dest", "empty")
	h.Set("Accept-Encoding", acceptEncoding+", zstd")
	h.Set("Accept-Language", acceptLanguage)
	misc.EnsureHeader(h, nil, "Referer", referer)
	misc.EnsureHeader(h, nil, "Referer", p.endpoints.Web("/portal/oauth2/l"))
	return h
}
