package memory

import "fmt"

func errUnknownMember(userID string) error {
	return fmt.Errorf("unknown guild member %s", userID)
}
