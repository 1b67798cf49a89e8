package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMatchesByCode(t *testing.T) {
	err := fmt.Errorf("create user: %w", DuplicateKey("username"))
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatal("field error does not match sentinel")
	}
	if errors.Is(err, ErrDuplicateEntry) {
		t.Fatal("matched a different code")
	}
	if got := Field(err); got != "username" {
		t.Fatalf("Field = %q", got)
	}
	if got := Code(err); got != "duplicate_key" {
		t.Fatalf("Code = %q", got)
	}
	if got := KindOf(err); got != KindDuplicate {
		t.Fatalf("KindOf = %v", got)
	}
}

func TestKindOfPlainError(t *testing.T) {
	err := errors.New("boom")
	if KindOf(err) != KindInternal || Code(err) != "" || Field(err) != "" {
		t.Fatal("plain error should be internal with no code")
	}
	if KindInternal.String() != "internal" || KindNotFound.String() != "not_found" {
		t.Fatal("kind names changed")
	}
}

func TestErrorMessage(t *testing.T) {
	if got := Required("name").Error(); got != "field is required (name)" {
		t.Fatalf("Error() = %q", got)
	}
	if got := ErrEventNotFound.Error(); got != "event not found" {
		t.Fatalf("Error() = %q", got)
	}
}
