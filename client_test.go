package boorusnap

import (
	"net/http"
	"testing"
)

func TestNewHTTPClientRejectsUnknownProxyScheme(t *testing.T) {
	config := &Configuration{HTTPProxy: "ftp://proxy.example.com"}
	if _, err := NewHTTPClient(config, nil, nil); err == nil {
		t.Fatal("expected error for unsupported proxy scheme")
	}
}

func TestNewHTTPClientAcceptsHTTPProxy(t *testing.T) {
	config := &Configuration{HTTPProxy: "http://proxy.example.com:8080"}
	client, err := NewHTTPClient(config, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if client.Jar == nil {
		t.Error("expected cookie jar to be configured")
	}
	if client.Timeout != requestTimeout {
		t.Errorf("unexpected timeout: %v", client.Timeout)
	}
}

func TestNewHTTPClientNoProxy(t *testing.T) {
	client, err := NewHTTPClient(&Configuration{}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := client.Transport.(http.RoundTripper); !ok {
		t.Error("expected a RoundTripper transport")
	}
}
