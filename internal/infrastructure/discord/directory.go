// Package discord adapts the Discord REST API to the roster directory.
package discord

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/haxball-league/internal/domain/roster"
	"github.com/riskibarqy/haxball-league/internal/platform/logging"
	"github.com/riskibarqy/haxball-league/internal/platform/resilience"
)

// memberPageSize is the largest page the members endpoint serves.
const memberPageSize = 1000

var errGuildUnbound = crerr.New("discord guild is not bound")

// GuildAPI is the slice of *discordgo.Session the directory needs.
type GuildAPI interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMembers(guildID, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// Directory implements roster.Directory for one guild. Calls go through the
// circuit breaker so a Discord outage fails fast instead of piling up
// interaction workers.
type Directory struct {
	api     GuildAPI
	breaker *resilience.Breaker
	logger  *logging.Logger

	mu      sync.RWMutex
	guildID string
}

func NewDirectory(api GuildAPI, guildID string, breaker *resilience.Breaker, logger *logging.Logger) *Directory {
	if logger == nil {
		logger = logging.Default()
	}
	return &Directory{
		api:     api,
		breaker: breaker,
		logger:  logger.Named("discord_directory"),
		guildID: strings.TrimSpace(guildID),
	}
}

// BindGuild sets the guild when none was configured. The first guild wins.
func (d *Directory) BindGuild(guildID string) bool {
	guildID = strings.TrimSpace(guildID)
	if guildID == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.guildID != "" {
		return d.guildID == guildID
	}
	d.guildID = guildID
	return true
}

func (d *Directory) GuildID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.guildID
}

func (d *Directory) Member(ctx context.Context, userID string) (roster.Actor, bool, error) {
	guildID, err := d.boundGuild()
	if err != nil {
		return roster.Actor{}, false, err
	}

	var member *discordgo.Member
	err = d.breaker.Do(func() error {
		var callErr error
		member, callErr = d.api.GuildMember(guildID, userID, discordgo.WithContext(ctx))
		return callErr
	})
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return roster.Actor{}, false, nil
		}
		return roster.Actor{}, false, crerr.Wrapf(err, "fetch guild member %s", userID)
	}

	return toActor(member), true, nil
}

// MembersWithRole pages through the whole member list; the guild is expected
// to be a single league server of modest size.
func (d *Directory) MembersWithRole(ctx context.Context, roleID string) ([]roster.Actor, error) {
	guildID, err := d.boundGuild()
	if err != nil {
		return nil, err
	}

	out := make([]roster.Actor, 0)
	after := ""
	for {
		var page []*discordgo.Member
		err := d.breaker.Do(func() error {
			var callErr error
			page, callErr = d.api.GuildMembers(guildID, after, memberPageSize, discordgo.WithContext(ctx))
			return callErr
		})
		if err != nil {
			return nil, crerr.Wrapf(err, "list guild members after %q", after)
		}

		for _, m := range page {
			if m == nil || m.User == nil {
				continue
			}
			actor := toActor(m)
			if actor.HasRole(roleID) {
				out = append(out, actor)
			}
			after = m.User.ID
		}
		if len(page) < memberPageSize {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, crerr.Wrap(err, "list guild members")
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *Directory) GrantRoles(ctx context.Context, userID string, roleIDs ...string) error {
	guildID, err := d.boundGuild()
	if err != nil {
		return err
	}

	for _, roleID := range roleIDs {
		if roleID == "" {
			continue
		}
		err := d.breaker.Do(func() error {
			return d.api.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx))
		})
		if err != nil {
			return crerr.Wrapf(err, "grant role %s to %s", roleID, userID)
		}
		d.logger.DebugContext(ctx, "role granted", "user_id", userID, "role_id", roleID)
	}

	return nil
}

func (d *Directory) RevokeRoles(ctx context.Context, userID string, roleIDs ...string) error {
	guildID, err := d.boundGuild()
	if err != nil {
		return err
	}

	for _, roleID := range roleIDs {
		if roleID == "" {
			continue
		}
		err := d.breaker.Do(func() error {
			return d.api.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx))
		})
		if err != nil {
			return crerr.Wrapf(err, "revoke role %s from %s", roleID, userID)
		}
		d.logger.DebugContext(ctx, "role revoked", "user_id", userID, "role_id", roleID)
	}

	return nil
}

func (d *Directory) boundGuild() (string, error) {
	guildID := d.GuildID()
	if guildID == "" {
		return "", errGuildUnbound
	}
	return guildID, nil
}

func toActor(m *discordgo.Member) roster.Actor {
	if m == nil || m.User == nil {
		return roster.Actor{}
	}
	actor := roster.NewActor(m.User.ID, DisplayName(m), m.Roles...)
	actor.AvatarURL = m.AvatarURL("256")
	return actor
}

// DisplayName prefers the guild nickname, then the global name.
func DisplayName(m *discordgo.Member) string {
	if m == nil || m.User == nil {
		return ""
	}
	if m.Nick != "" {
		return m.Nick
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

// IsOutage separates Discord being unhealthy (rate limits, 5xx, transport
// errors) from client mistakes such as an unknown member. Only outages should
// trip the breaker.
func IsOutage(err error) bool {
	var restErr *discordgo.RESTError
	if crerr.As(err, &restErr) && restErr.Response != nil {
		code := restErr.Response.StatusCode
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}
	return true
}

func isStatus(err error, status int) bool {
	var restErr *discordgo.RESTError
	return crerr.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == status
}
