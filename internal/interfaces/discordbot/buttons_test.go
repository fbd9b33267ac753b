package discordbot

import (
	"errors"
	"testing"

	"github.com/riskibarqy/haxball-league/internal/usecase"
)

func TestTransferButtonRoundTrip(t *testing.T) {
	t.Parallel()

	customID := EncodeTransferButton(usecase.DecisionAccept, 42)
	if customID != "transfer:accept:42" {
		t.Fatalf("unexpected custom id: %q", customID)
	}

	decision, offerID, err := DecodeTransferButton(customID)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decision != usecase.DecisionAccept || offerID != 42 {
		t.Fatalf("unexpected decode: decision=%s offer=%d", decision, offerID)
	}
}

func TestDecodeTransferButtonRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, customID := range []string{
		"",
		"transfer:accept",
		"transfer:maybe:1",
		"transfer:reject:abc",
		"transfer:reject:0",
		"transfer:reject:-3",
		"offer:accept:1",
		"transfer:accept:1:extra",
	} {
		if _, _, err := DecodeTransferButton(customID); !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("custom id %q: expected ErrInvalidInput, got %v", customID, err)
		}
	}
}
