// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
})

func TestFilterInvalidHosts(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		host    string
		code    int
	}{
		{"allowed host", []string{"localhost"}, "localhost:9650", http.StatusOK},
		{"case insensitive", []string{"LocalHost"}, "localhost", http.StatusOK},
		{"raw ip", []string{"localhost"}, "10.0.0.1:9650", http.StatusOK},
		{"no host", []string{"localhost"}, "", http.StatusOK},
		{"wildcard", []string{"*"}, "evil.example", http.StatusOK},
		{"rejected", []string{"localhost"}, "evil.example", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			h := filterInvalidHosts(okHandler, tt.allowed)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(tt.code, rec.Code)
		})
	}
}

func TestRouterRejectsDuplicates(t *testing.T) {
	require := require.New(t)
	r := newRouter()
	require.NoError(r.AddRouter("/ext/dex", "/admin", okHandler))
	require.ErrorIs(r.AddRouter("/ext/dex", "/admin", okHandler), errAlreadyReserved)
	require.NoError(r.AddRouter("/ext/dex", "/state", okHandler))
	require.Equal([]string{"/ext/dex/admin", "/ext/dex/state"}, r.Paths())
}

func TestUpgradeSkipsGzip(t *testing.T) {
	large := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("a"), 4096))
	})
	r := newRouter()
	require.NoError(t, r.AddRouter("/ext/dex", "/ws", large))
	h := newHandler(r, NewDefaultConfig(), nil)

	tests := []struct {
		name     string
		upgrade  string
		encoding string
	}{
		{name: "plain request", encoding: "gzip"},
		{name: "websocket upgrade", upgrade: "websocket"},
		{name: "upgrade header is case insensitive", upgrade: "WebSocket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ext/dex/ws", nil)
			req.Host = "localhost"
			req.Header.Set("Accept-Encoding", "gzip")
			if tt.upgrade != "" {
				req.Header.Set("Upgrade", tt.upgrade)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tt.encoding, rec.Header().Get("Content-Encoding"))
		})
	}
}

func TestServer(t *testing.T) {
	require := require.New(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)

	var wrapped atomic.Int32
	counter := WrapperFunc(func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped.Add(1)
			h.ServeHTTP(w, r)
		})
	})
	srv := New(logging.NoLog{}, listener, NewDefaultConfig(), counter)
	require.NoError(srv.AddRoute(okHandler, "dex", "/admin"))
	require.NoError(srv.AddRoute(okHandler, "metrics", ""))
	require.Equal([]string{"/ext/dex/admin", "/ext/metrics"}, srv.Routes())

	done := make(chan error, 1)
	go func() {
		done <- srv.Dispatch()
	}()

	resp, err := http.Get("http://" + srv.Addr().String() + "/ext/dex/admin")
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal(http.StatusOK, resp.StatusCode)
	require.Equal("ok", string(body))
	require.Equal(int32(1), wrapped.Load())

	require.NoError(srv.Shutdown())
	require.NoError(<-done)
}
