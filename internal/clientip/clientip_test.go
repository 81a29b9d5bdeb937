package clientip

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "no headers falls back to remote addr",
			remoteAddr: "203.0.113.9:1234",
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded-for public address wins",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.23"},
			remoteAddr: "10.0.0.1:1234",
			want:       "198.51.100.23",
		},
		{
			name:       "forwarded-for chain uses first hop",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.23, 10.0.0.2, 172.16.0.1"},
			remoteAddr: "10.0.0.1:1234",
			want:       "198.51.100.23",
		},
		{
			name:       "private forwarded-for is not trusted",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.50"},
			remoteAddr: "203.0.113.9:1234",
			want:       "203.0.113.9",
		},
		{
			name:       "loopback forwarded-for is not trusted",
			headers:    map[string]string{"X-Forwarded-For": "127.0.0.1"},
			remoteAddr: "203.0.113.9:1234",
			want:       "203.0.113.9",
		},
		{
			name:       "garbage forwarded-for is not trusted",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			remoteAddr: "203.0.113.9:1234",
			want:       "203.0.113.9",
		},
		{
			name: "real-ip considered after forwarded-for",
			headers: map[string]string{
				"X-Forwarded-For": "10.1.2.3",
				"X-Real-Ip":       "198.51.100.99",
			},
			remoteAddr: "10.0.0.1:1234",
			want:       "198.51.100.99",
		},
		{
			name:       "ipv6 public address",
			headers:    map[string]string{"X-Forwarded-For": "2001:db8::1"},
			remoteAddr: "10.0.0.1:1234",
			want:       "2001:db8::1",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "203.0.113.9",
			want:       "203.0.113.9",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/contact", nil)
			r.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, FromRequest(r))
		})
	}
}
