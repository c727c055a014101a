// This file implements an HTTP transport using utls so that TLS handshakes present the
// ClientHello of the emulated Android stack instead of the Go default.
package paypay

import (
	"net/http"
	"strings"
	"sync"

	tls "github.com/refraction-networking/utls"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/proxy"

	"github.com/paypay-go/paypay/internal/util"
)

// utlsRoundTripper implements http.RoundTripper using utls with a fixed ClientHello.
// Plain-HTTP requests are delegated to fallback.
type utlsRoundTripper struct {
	// mu protects the connections map and pending map
	mu sync.Mutex
	// connections caches HTTP/2 client connections per host
	connections map[string]*http2.ClientConn
	// pending tracks hosts that are currently being connected to
	pending map[string]*sync.Cond
	// dialer is used to create network connections, supporting proxies
	dialer proxy.Dialer
	// hello is the ClientHello to mimic
	hello tls.ClientHelloID
	// fallback serves requests that are not https
	fallback http.RoundTripper
}

// newUtlsRoundTripper creates a utls-based round tripper with optional proxy support.
func newUtlsRoundTripper(proxyURL string, hello tls.ClientHelloID, fallback http.RoundTripper) *utlsRoundTripper {
	var dialer proxy.Dialer = proxy.Direct
	if strings.TrimSpace(proxyURL) != "" {
		pDialer, err := util.ProxyDialer(proxyURL)
		if err != nil {
			log.Errorf("failed to create proxy dialer for %q: %v", proxyURL, err)
		} else {
			dialer = pDialer
		}
	}
	if fallback == nil {
		fallback = http.DefaultTransport
	}

	return &utlsRoundTripper{
		connections: make(map[string]*http2.ClientConn),
		pending:     make(map[string]*sync.Cond),
		dialer:      dialer,
		hello:       hello,
		fallback:    fallback,
	}
}

// getOrCreateConnection gets an existing connection or creates a new one.
// Only one goroutine dials a given host at a time.
func (t *utlsRoundTripper) getOrCreateConnection(host, addr string) (*http2.ClientConn, error) {
	t.mu.Lock()

	if h2Conn, ok := t.connections[host]; ok && h2Conn.CanTakeNewRequest() {
		t.mu.Unlock()
		return h2Conn, nil
	}

	if cond, ok := t.pending[host]; ok {
		cond.Wait()
		if h2Conn, ok := t.connections[host]; ok && h2Conn.CanTakeNewRequest() {
			t.mu.Unlock()
			return h2Conn, nil
		}
	}

	cond := sync.NewCond(&t.mu)
	t.pending[host] = cond
	t.mu.Unlock()

	h2Conn, err := t.createConnection(host, addr)

	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.pending, host)
	cond.Broadcast()

	if err != nil {
		return nil, err
	}

	t.connections[host] = h2Conn
	return h2Conn, nil
}

// createConnection creates a new HTTP/2 connection with the configured fingerprint.
func (t *utlsRoundTripper) createConnection(host, addr string) (*http2.ClientConn, error) {
	conn, err := t.dialer.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{ServerName: host, NextProtos: []string{"h2"}}
	tlsConn := tls.UClient(conn, tlsConfig, t.hello)

	if err = tlsConn.Handshake(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	tr := &http2.Transport{}
	h2Conn, err := tr.NewClientConn(tlsConn)
	if err != nil {
		_ = tlsConn.Close()
		return nil, err
	}

	return h2Conn, nil
}

// RoundTrip implements http.RoundTripper
func (t *utlsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.fallback.RoundTrip(req)
	}

	host := req.URL.Host
	addr := host
	if req.URL.Port() == "" {
		addr += ":443"
	}
	hostname := req.URL.Hostname()

	h2Conn, err := t.getOrCreateConnection(hostname, addr)
	if err != nil {
		return nil, err
	}

	resp, err := h2Conn.RoundTrip(req)
	if err != nil {
		t.mu.Lock()
		if cached, ok := t.connections[hostname]; ok && cached == h2Conn {
			delete(t.connections, hostname)
		}
		t.mu.Unlock()
		return nil, err
	}

	return resp, nil
}

// helloForFlow returns the ClientHello the given flow presents: the OkHttp stack of the
// app for app traffic, the Chrome WebView for the browser flow.
func helloForFlow(flow Flow) tls.ClientHelloID {
	if flow == FlowBrowser {
		return tls.HelloChrome_Auto
	}
	return tls.HelloAndroid_11_OkHttp
}
