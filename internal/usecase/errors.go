package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConfigurationMissing  = errors.New("bot is not configured")
	ErrAuthorizationDenied   = errors.New("authorization denied")
	ErrCapacityExceeded      = errors.New("roster capacity exceeded")
	ErrDuplicateRegistration = errors.New("team role already registered")
	ErrDuplicateOffer        = errors.New("pending offer already exists for this player and team")
	ErrOfferResolved         = errors.New("offer already resolved")
	ErrManagerTeamAmbiguous  = errors.New("manager holds more than one team role")
	ErrPersistence           = errors.New("persistence failure")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrMembershipSync        = errors.New("membership update failed")
	ErrAnnouncementFailed    = errors.New("offer announcement failed")
)

// Authorization failures; each matches ErrAuthorizationDenied with errors.Is.
var (
	ErrNotManager        = fmt.Errorf("%w: actor does not hold the manager role", ErrAuthorizationDenied)
	ErrNoTeamAssigned    = fmt.Errorf("%w: manager holds no registered team role", ErrAuthorizationDenied)
	ErrNotFreeAgent      = fmt.Errorf("%w: player is not a free agent", ErrAuthorizationDenied)
	ErrNotOfferRecipient = fmt.Errorf("%w: only the named player can answer this offer", ErrAuthorizationDenied)
	ErrPlayerNotOnTeam   = fmt.Errorf("%w: player is not on the manager's team", ErrAuthorizationDenied)
)

var refusals = []error{
	ErrInvalidInput,
	ErrNotFound,
	ErrConfigurationMissing,
	ErrAuthorizationDenied,
	ErrCapacityExceeded,
	ErrDuplicateRegistration,
	ErrDuplicateOffer,
	ErrOfferResolved,
	ErrManagerTeamAmbiguous,
}

// IsRefusal reports whether err is a rule saying no to the caller, as opposed
// to a store or Discord fault. Refusals are answered, not alerted on.
func IsRefusal(err error) bool {
	for _, target := range refusals {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

func membershipErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrMembershipSync, op, err)
}

func directoryErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)
}
