package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-configurator/pkg/errors"
)

type openPayload struct {
	ProductID *string `json:"product_id,omitempty" validate:"omitempty,uuid"`
	Shape     *string `json:"shape,omitempty" validate:"omitempty,oneof=simple variable bundle"`
}

func TestDecodeJSONBody(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "empty body", body: ""},
		{name: "valid", body: `{"shape":"variable"}`},
		{name: "unknown field", body: `{"colour":"red"}`, wantErr: true},
		{name: "bad shape", body: `{"shape":"kit"}`, wantErr: true},
		{name: "bad uuid", body: `{"product_id":"nope"}`, wantErr: true},
		{name: "malformed", body: `{"shape":`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var payload openPayload
			err := DecodeJSONBody(req, &payload)
			if tc.wantErr {
				if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDecodeJSONBodyReportsFieldNames(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"shape":"kit"}`))
	var payload openPayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %#v", typed.Details())
	}
	if details["shape"] != "must be one of [simple variable bundle]" {
		t.Fatalf("unexpected shape message %q", details["shape"])
	}
}

func TestReadBodyLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 11)))
	if _, err := ReadBody(req, 10); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected too large error, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789"))
	raw, err := ReadBody(req, 10)
	if err != nil || string(raw) != "0123456789" {
		t.Fatalf("expected body at the limit to be accepted, got %q %v", raw, err)
	}
}

func TestQueryInts(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?axis=1&value=x&big=100", nil)

	if v, err := RequireQueryInt(req, "axis", 0, 10); err != nil || v != 1 {
		t.Fatalf("expected axis=1, got %d %v", v, err)
	}
	if _, err := RequireQueryInt(req, "missing", 0, 10); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected required error, got %v", err)
	}
	if _, err := RequireQueryInt(req, "value", 0, 10); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected numeric error, got %v", err)
	}
	if _, err := RequireQueryInt(req, "big", 0, 10); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected range error, got %v", err)
	}
}
