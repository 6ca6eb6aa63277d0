package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeSessionExpired, status: http.StatusGone, publicMsg: "edit session expired"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := fmt.Errorf("load session: %w", New(CodeSessionExpired, "gone"))
	if got := As(err); got == nil || got.Code() != CodeSessionExpired {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
	if !Is(err, CodeSessionExpired) || Is(err, CodeNotFound) {
		t.Fatalf("Is did not match the wrapped code")
	}
	if Is(stdErrors.New("plain"), CodeInternal) {
		t.Fatalf("Is should ignore untyped errors")
	}
}

func TestDumpCollectsChainAndPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "product_variants_product_id_position_key", TableName: "product_variants"}
	err := Wrap(CodeConflict, fmt.Errorf("insert variant: %w", pgErr), "save product")

	dump := Dump(err)
	if dump.Code != CodeConflict {
		t.Fatalf("expected conflict code, got %s", dump.Code)
	}
	if dump.PGCode != "23505" || dump.PGTable != "product_variants" {
		t.Fatalf("unexpected pg fields %+v", dump)
	}
	if len(dump.Chain) != 3 {
		t.Fatalf("expected three chain entries, got %v", dump.Chain)
	}

	pqDump := Dump(&pq.Error{Code: "23503", Table: "product_bundle_items"})
	if pqDump.PGCode != "23503" || pqDump.PGTable != "product_bundle_items" {
		t.Fatalf("unexpected pq fields %+v", pqDump)
	}

	if Dump(nil).TopMessage != "" {
		t.Fatal("expected empty dump for nil")
	}

	fields := dump.Fields()
	if fields["pg_code"] != "23505" || fields["error_code"] != CodeConflict {
		t.Fatalf("unexpected log fields %+v", fields)
	}
	if _, ok := fields["retryable"]; ok {
		t.Fatal("expected conflict to be non-retryable")
	}
	depFields := Dump(Wrap(CodeDependency, fmt.Errorf("dial tcp: refused"), "load session")).Fields()
	if depFields["retryable"] != true {
		t.Fatalf("expected dependency errors to be retryable, got %+v", depFields)
	}
	if _, ok := depFields["pg_code"]; ok {
		t.Fatal("expected no pg fields without a driver error")
	}
}
