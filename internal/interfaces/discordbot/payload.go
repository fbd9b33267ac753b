package discordbot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/haxball-league/internal/usecase"
)

// Discord snowflakes are decimal strings.
type configPayload struct {
	FreeAgentRoleID  string `validate:"required,numeric"`
	PlayerRoleID     string `validate:"required,numeric,nefield=FreeAgentRoleID"`
	ManagerRoleID    string `validate:"required,numeric,nefield=FreeAgentRoleID"`
	OfferChannelID   string `validate:"required,numeric"`
	WelcomeChannelID string `validate:"required,numeric"`
	WelcomeImageURL  string `validate:"omitempty,url"`
}

type registerTeamPayload struct {
	RoleID  string `validate:"required,numeric"`
	Name    string `validate:"required,max=64"`
	LogoURL string `validate:"required,url"`
}

type signPayload struct {
	PlayerID     string `validate:"required,numeric"`
	Position     string `validate:"required,max=32"`
	JerseyNumber int    `validate:"gte=0,lte=99"`
}

type releasePayload struct {
	PlayerID string `validate:"required,numeric"`
	Reason   string `validate:"max=200"`
}

type teamInfoPayload struct {
	RoleID string `validate:"required,numeric"`
}

// commandOptions indexes the top-level options of a slash command by name.
type commandOptions map[string]*discordgo.ApplicationCommandInteractionDataOption

func newCommandOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) commandOptions {
	out := make(commandOptions, len(opts))
	for _, o := range opts {
		if o != nil {
			out[o.Name] = o
		}
	}
	return out
}

// str returns a string option. User, role and channel options carry their
// snowflake as a string too.
func (o commandOptions) str(name string) string {
	opt, ok := o[name]
	if !ok {
		return ""
	}
	if v, ok := opt.Value.(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// integer tolerates the float64 the gateway JSON decodes numbers into.
func (o commandOptions) integer(name string) int {
	opt, ok := o[name]
	if !ok {
		return 0
	}
	switch v := opt.Value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func validatePayload(v *validator.Validate, payload any) error {
	if err := v.Struct(payload); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
