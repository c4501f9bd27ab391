package logging

import (
	"net/http"
	"net/http/httptrace"
)

// TracingTransport reports HTTP connection-pool activity of the harness
// client on the ConnectionPoolLogger logger. New and reused connections are
// logged at DEBUG, failed round trips at WARNING, so the default
// configuration only keeps failures.
type TracingTransport struct {
	Base http.RoundTripper
	log  LeveledLogger
}

// NewTracingTransport wraps base (http.DefaultTransport when nil).
func NewTracingTransport(base http.RoundTripper, reg *Registry) *TracingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &TracingTransport{Base: base, log: reg.Logger(ConnectionPoolLogger)}
}

func (t *TracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	host := req.URL.Host

	trace := &httptrace.ClientTrace{
		ConnectStart: func(network, addr string) {
			t.log.DebugWith().Str("network", network).Msgf("Starting new %s connection: %s", req.URL.Scheme, addr)
		},
		ConnectDone: func(network, addr string, err error) {
			if err != nil {
				return
			}
			t.log.DebugWith().Str("network", network).Msgf("Connected to %s", addr)
		},
		GotConn: func(info httptrace.GotConnInfo) {
			if !info.Reused {
				return
			}
			t.log.DebugWith().Dur("idle", info.IdleTime).Msgf("Reusing connection to %s", host)
		},
	}

	resp, err := t.Base.RoundTrip(req.WithContext(httptrace.WithClientTrace(req.Context(), trace)))
	if err != nil {
		t.log.WarnWith().Err(err).Msgf("%s %s failed", req.Method, req.URL.Redacted())
		return nil, err
	}
	t.log.DebugWith().Int("status", resp.StatusCode).Msgf("%s://%s \"%s %s\" %d", req.URL.Scheme, host, req.Method, req.URL.RequestURI(), resp.StatusCode)
	return resp, nil
}
