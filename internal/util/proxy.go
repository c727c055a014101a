// Package util provides utility functions for the PayPay client.
// It includes helper functions for proxy configuration, HTTP client setup,
// and log level management.
package util

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/proxy"
)

// ProxyTransport builds an *http.Transport routed through proxyURL on top of the
// http.DefaultTransport settings. An empty proxyURL keeps ProxyFromEnvironment.
func ProxyTransport(proxyURL string) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	trimmed := strings.TrimSpace(proxyURL)
	if trimmed == "" {
		return transport, nil
	}
	parsed, errParse := url.Parse(trimmed)
	if errParse != nil {
		return nil, fmt.Errorf("parse proxy URL %q: %w", trimmed, errParse)
	}

	switch parsed.Scheme {
	case "socks5", "socks5h":
		dialer, errDialer := ProxyDialer(trimmed)
		if errDialer != nil {
			return nil, errDialer
		}
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
		return transport, nil
	case "http", "https":
		transport.Proxy = http.ProxyURL(parsed)
		return transport, nil
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", parsed.Scheme)
	}
}

// ProxyDialer returns a dialer for raw TCP connections through proxyURL.
// An empty proxyURL yields proxy.Direct.
func ProxyDialer(proxyURL string) (proxy.Dialer, error) {
	trimmed := strings.TrimSpace(proxyURL)
	if trimmed == "" {
		return proxy.Direct, nil
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse proxy URL %q: %w", trimmed, err)
	}
	if parsed.Scheme == "socks5" || parsed.Scheme == "socks5h" {
		var proxyAuth *proxy.Auth
		if parsed.User != nil {
			username := parsed.User.Username()
			password, _ := parsed.User.Password()
			proxyAuth = &proxy.Auth{User: username, Password: password}
		}
		dialer, errSOCKS5 := proxy.SOCKS5("tcp", parsed.Host, proxyAuth, proxy.Direct)
		if errSOCKS5 != nil {
			return nil, fmt.Errorf("create SOCKS5 dialer: %w", errSOCKS5)
		}
		return dialer, nil
	}
	if parsed.Scheme == "http" || parsed.Scheme == "https" {
		return &connectDialer{proxyURL: parsed, forward: proxy.Direct}, nil
	}
	dialer, err := proxy.FromURL(parsed, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("create proxy dialer for %q: %w", trimmed, err)
	}
	return dialer, nil
}

// connectDialer tunnels raw TCP connections through an HTTP proxy with CONNECT.
type connectDialer struct {
	proxyURL *url.URL
	forward  proxy.Dialer
}

// Dial opens a tunnel to addr through the proxy.
func (d *connectDialer) Dial(network, addr string) (net.Conn, error) {
	proxyAddr := d.proxyURL.Host
	if d.proxyURL.Port() == "" {
		port := "80"
		if d.proxyURL.Scheme == "https" {
			port = "443"
		}
		proxyAddr = net.JoinHostPort(d.proxyURL.Hostname(), port)
	}
	conn, err := d.forward.Dial(network, proxyAddr)
	if err != nil {
		return nil, fmt.Errorf("dial proxy %s: %w", proxyAddr, err)
	}
	if d.proxyURL.Scheme == "https" {
		tlsConn := tls.Client(conn, &tls.Config{ServerName: d.proxyURL.Hostname()})
		if errHandshake := tlsConn.Handshake(); errHandshake != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("proxy TLS handshake: %w", errHandshake)
		}
		conn = tlsConn
	}

	req := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: addr},
		Host:   addr,
		Header: make(http.Header),
	}
	if user := d.proxyURL.User; user != nil {
		password, _ := user.Password()
		credentials := base64.StdEncoding.EncodeToString([]byte(user.Username() + ":" + password))
		req.Header.Set("Proxy-Authorization", "Basic "+credentials)
	}
	if err = req.Write(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("write CONNECT: %w", err)
	}
	resp, err := http.ReadResponse(bufio.NewReader(conn), req)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read CONNECT response: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_ = conn.Close()
		return nil, fmt.Errorf("proxy CONNECT to %s failed: %s", addr, resp.Status)
	}
	return conn, nil
}
