package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/stockpulse/stockpulse-backend/pkg/errors"
)

type samplePayload struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ok","count":2}`))

	var payload samplePayload
	if err := DecodeJSONBody(r, &payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload.Name != "ok" || payload.Count != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ok","bogus":true}`))

	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	assertValidationError(t, err)
}

func TestDecodeJSONBodyValidationFailure(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"count":-1}`))

	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	assertValidationError(t, err)

	typed := pkgerrors.As(err)
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if _, found := details["name"]; !found {
		t.Fatalf("expected details keyed by json tag, got %v", details)
	}
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=3", nil)

	got, err := ParseQueryInt(r, "page", 1, 1, 100)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}

	got, err = ParseQueryInt(r, "size", 10, 1, 100)
	if err != nil {
		t.Fatalf("default failed: %v", err)
	}
	if got != 10 {
		t.Fatalf("expected default 10, got %d", got)
	}
}

func TestParseQueryIntOutOfRange(t *testing.T) {
	r := httptest.NewRequest("GET", "/?size=5000", nil)

	_, err := ParseQueryInt(r, "size", 10, 1, 100)
	assertValidationError(t, err)
}

func TestParsePathUUID(t *testing.T) {
	if _, err := ParsePathUUID("not-a-uuid", "id"); err == nil {
		t.Fatalf("expected error for malformed uuid")
	}
	if _, err := ParsePathUUID("2fb1ae12-9c4b-4b87-a44d-73b178dd1a57", "id"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
