package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient_ExplicitTransientError(t *testing.T) {
	assert.True(t, IsTransient(NewTransientError(errors.New("server overloaded"))))
}

func TestIsTransient_WrappedTransientError(t *testing.T) {
	wrapped := fmt.Errorf("fetch failed: %w", NewTransientError(errors.New("reset")))
	assert.True(t, IsTransient(wrapped))
}

func TestIsTransient_NilError(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTimeout(nil))
}

func TestIsTransient_RegularError(t *testing.T) {
	assert.False(t, IsTransient(errors.New("invalid input: missing field")))
}

func TestIsTransient_ConnectionErrors(t *testing.T) {
	assert.True(t, IsTransient(fmt.Errorf("write tcp: %w", syscall.ECONNRESET)))
	assert.True(t, IsTransient(fmt.Errorf("dial tcp: %w", syscall.ECONNREFUSED)))
}

func TestIsTransient_DNSNotFound(t *testing.T) {
	err := &url.Error{Op: "Get", URL: "https://nowhere.invalid", Err: &net.DNSError{Err: "no such host", Name: "nowhere.invalid", IsNotFound: true}}
	assert.True(t, IsTransient(err))
}

func TestIsTransient_TimeoutIsNotTransient(t *testing.T) {
	dnsTimeout := &net.DNSError{IsTimeout: true, Err: "timeout"}
	assert.True(t, IsTimeout(dnsTimeout))
	assert.False(t, IsTransient(dnsTimeout))

	wrapped := fmt.Errorf("get: %w", context.DeadlineExceeded)
	assert.True(t, IsTimeout(wrapped))
	assert.False(t, IsTransient(wrapped))
}

func TestIsTransient_CanceledIsNotTransient(t *testing.T) {
	assert.False(t, IsTransient(fmt.Errorf("get: %w", context.Canceled)))
}

func TestIsTransient_StringPatterns(t *testing.T) {
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"server closed idle connection",
		"unexpected EOF",
	} {
		assert.True(t, IsTransient(errors.New(p)), p)
	}
}

func TestIsTimeout_StringPatterns(t *testing.T) {
	assert.True(t, IsTimeout(errors.New("net/http: TLS handshake timeout")))
	assert.True(t, IsTimeout(errors.New("Client.Timeout exceeded while awaiting headers")))
	assert.False(t, IsTimeout(errors.New("connection refused")))
}
