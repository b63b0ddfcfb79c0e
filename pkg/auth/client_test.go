package auth

import (
	"bytes"
	"io"
	"net/http"
	"testing"
)

type fakeTransport struct {
	responses []*http.Response
	calls     int
}

func (f *fakeTransport) Do(req *http.Request) (*http.Response, error) {
	idx := f.calls
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	f.calls++
	return f.responses[idx], nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func TestHasJoinedSuccess(t *testing.T) {
	ft := &fakeTransport{responses: []*http.Response{
		jsonResponse(http.StatusOK, `{"id":"abc123","name":"Steve","properties":[{"name":"textures","value":"v","signature":"s"}]}`),
	}}
	c := &Client{HTTPClient: ft}

	profile, err := c.HasJoined("Steve", "somehash", "1.2.3.4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Name != "Steve" || len(profile.Properties) != 1 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestHasJoinedAuthFailureNoRetry(t *testing.T) {
	ft := &fakeTransport{responses: []*http.Response{
		jsonResponse(http.StatusNoContent, ``),
	}}
	c := &Client{HTTPClient: ft}

	_, err := c.HasJoined("Steve", "badhash", "")
	if err != ErrAuthFailure {
		t.Fatalf("expected ErrAuthFailure, got %v", err)
	}
	if ft.calls != 1 {
		t.Fatalf("expected no retry on 204, got %d extra calls", ft.calls-1)
	}
}

func TestHasJoinedRetriesOnServerErrorThenSucceeds(t *testing.T) {
	ft := &fakeTransport{responses: []*http.Response{
		jsonResponse(http.StatusInternalServerError, ``),
		jsonResponse(http.StatusInternalServerError, ``),
		jsonResponse(http.StatusOK, `{"id":"abc","name":"Steve","properties":[]}`),
	}}
	c := &Client{HTTPClient: ft}

	profile, err := c.HasJoined("Steve", "hash", "")
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if profile.Name != "Steve" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestHasJoinedExhaustsRetries(t *testing.T) {
	ft := &fakeTransport{responses: []*http.Response{
		jsonResponse(http.StatusInternalServerError, ``),
	}}
	c := &Client{HTTPClient: ft}

	_, err := c.HasJoined("Steve", "hash", "")
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
}
