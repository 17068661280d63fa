package boorusnap

import (
	"context"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/proxy"

	"github.com/Doist/boorusnap/internal/tracing"
	"github.com/Doist/boorusnap/internal/useragent"
)

const (
	requestTimeout = 5000 * time.Millisecond
	connectTimeout = 2500 * time.Millisecond
	fixedUserAgent = "curl/7.83.1" // some providers gate responses on recognizable agents
)

// NewHTTPClient builds an http.Client per §4.1: fixed timeouts, a cookie jar,
// a fixed User-Agent, an optional proxy, and a tracing RoundTripper wrapper.
// checkRedirect controls whether the client follows redirects (pass
// http.ErrUseLastResponse-returning CheckRedirect to disable them, as the
// DeviantArt adapter's old-hires probe does).
func NewHTTPClient(config *Configuration, log Logger, checkRedirect func(req *http.Request, via []*http.Request) error) (*http.Client, error) {
	dialer := &net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   connectTimeout,
		ExpectContinueTimeout: time.Second,
	}

	if config.HTTPProxy != "" {
		if err := applyProxy(transport, dialer, config.HTTPProxy); err != nil {
			return nil, err
		}
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	var rt http.RoundTripper = transport
	rt = useragent.Set(rt, fixedUserAgent)
	rt = tracing.Wrap(rt, log)

	return &http.Client{
		Timeout:       requestTimeout,
		Jar:           jar,
		Transport:     rt,
		CheckRedirect: checkRedirect,
	}, nil
}

// applyProxy configures transport to dial outbound connections through the
// proxy described by rawProxyURL. Accepted schemes are http, https, socks and
// socks5 (§4.1); anything else is a fatal configuration error.
func applyProxy(transport *http.Transport, dialer *net.Dialer, rawProxyURL string) error {
	proxyURL, err := url.Parse(rawProxyURL)
	if err != nil {
		return &configError{"HTTP_PROXY is not a valid URL: " + err.Error()}
	}
	switch proxyURL.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(proxyURL)
		return nil
	case "socks", "socks5":
		var auth *proxy.Auth
		if proxyURL.User != nil {
			auth = &proxy.Auth{User: proxyURL.User.Username()}
			if pw, ok := proxyURL.User.Password(); ok {
				auth.Password = pw
			}
		}
		socksDialer, err := proxy.SOCKS5("tcp", proxyURL.Host, auth, dialer)
		if err != nil {
			return &configError{"could not build SOCKS5 dialer: " + err.Error()}
		}
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return socksDialer.Dial(network, addr)
		}
		return nil
	default:
		return &configError{"unknown client proxy protocol " + proxyURL.Scheme + ", specify http, https, socks or socks5"}
	}
}
