package remote

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
		wantErr  bool
	}{
		{"full", `{"message":"bad","errors":[{"code":"EXPIRED_AUTH","message":"expired","details":{"token":["expired"]}}]}`, "EXPIRED_AUTH", false},
		{"null details", `{"errors":[{"code":"MATCH_CANDIDATE_EMPTY","message":"empty","details":null}]}`, "MATCH_CANDIDATE_EMPTY", false},
		{"message only", `{"message":"boom"}`, "", true},
		{"missing code", `{"errors":[{"message":"x"}]}`, "", true},
		{"html", `<h1>502</h1>`, "", true},
		{"empty", ``, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := DecodeEnvelope([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeEnvelope() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && env.Errors[0].Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Errors[0].Code, tt.wantCode)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"transport", &TransportError{Err: errors.New("connection reset")}, true},
		{"wrapped transport", fmt.Errorf("call: %w", &TransportError{Err: errors.New("eof")}), true},
		{"500", &RemoteError{Status: http.StatusInternalServerError}, true},
		{"503", &RemoteError{Status: http.StatusServiceUnavailable}, true},
		{"404", &RemoteError{Status: http.StatusNotFound}, false},
		{"429", &RemoteError{Status: http.StatusTooManyRequests}, false},
		{"schema", &SchemaViolation{Field: "data"}, false},
		{"plain", errors.New("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoteError_Error(t *testing.T) {
	err := &RemoteError{Method: "GET", Path: "matchs", Status: 404, DomainCode: "MATCH_CANDIDATE_EMPTY"}
	want := "GET matchs: status 404 (MATCH_CANDIDATE_EMPTY)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
