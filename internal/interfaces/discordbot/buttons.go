package discordbot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/haxball-league/internal/usecase"
)

const transferButtonPrefix = "transfer"

// EncodeTransferButton builds the custom id carried by an offer's buttons.
// The offer id is the only state the button needs; everything else is read
// back from the store when the player clicks.
func EncodeTransferButton(decision usecase.Decision, offerID int64) string {
	return transferButtonPrefix + ":" + string(decision) + ":" + strconv.FormatInt(offerID, 10)
}

// DecodeTransferButton parses "transfer:<accept|reject>:<offerID>".
func DecodeTransferButton(customID string) (usecase.Decision, int64, error) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 || parts[0] != transferButtonPrefix {
		return "", 0, fmt.Errorf("%w: unknown button %q", usecase.ErrInvalidInput, customID)
	}

	decision := usecase.Decision(parts[1])
	if decision != usecase.DecisionAccept && decision != usecase.DecisionReject {
		return "", 0, fmt.Errorf("%w: unknown decision %q", usecase.ErrInvalidInput, parts[1])
	}

	offerID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || offerID <= 0 {
		return "", 0, fmt.Errorf("%w: invalid offer id %q", usecase.ErrInvalidInput, parts[2])
	}

	return decision, offerID, nil
}
