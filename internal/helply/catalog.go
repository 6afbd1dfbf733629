// Package helply introspects the registered application commands to build
// help output: per context command lists, overview pages and detail views.
package helply

import (
	"slices"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Command is one invocable slash command; subcommands are flattened into
// "parent sub" entries.
type Command struct {
	Name               string
	Description        string
	Options            []*discordgo.ApplicationCommandOption
	DMPermission       bool
	DefaultPermissions *int64
	GuildIDs           []string

	nameLocalizations []map[discordgo.Locale]string
	descLocalizations map[discordgo.Locale]string
	baseName          string
}

type Catalog struct {
	commands []Command
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

// Add records def. guildIDs lists the guilds it is registered in; none
// means global.
func (c *Catalog) Add(def *discordgo.ApplicationCommand, guildIDs ...string) {
	if def == nil || (def.Type != 0 && def.Type != discordgo.ChatApplicationCommand) {
		return
	}
	dm := def.DMPermission == nil || *def.DMPermission
	if len(guildIDs) > 0 {
		dm = false
	}
	base := Command{
		DMPermission:       dm,
		DefaultPermissions: def.DefaultMemberPermissions,
		GuildIDs:           append([]string(nil), guildIDs...),
	}
	c.flatten(base, def.Name, localizations(def.NameLocalizations), nil, def.Description, localizations(def.DescriptionLocalizations), def.Options)
	sort.SliceStable(c.commands, func(i, j int) bool { return c.commands[i].baseName < c.commands[j].baseName })
}

func (c *Catalog) flatten(base Command, name string, nameLoc map[discordgo.Locale]string, parents []map[discordgo.Locale]string, description string, descLoc map[discordgo.Locale]string, options []*discordgo.ApplicationCommandOption) {
	names := append(slices.Clone(parents), nameLoc)
	leaf := true
	for _, opt := range options {
		if opt.Type == discordgo.ApplicationCommandOptionSubCommand || opt.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
			leaf = false
			c.flatten(base, name+" "+opt.Name, opt.NameLocalizations, names, opt.Description, opt.DescriptionLocalizations, opt.Options)
		}
	}
	if !leaf {
		return
	}
	cmd := base
	cmd.Name = name
	cmd.baseName = name
	cmd.Description = description
	cmd.Options = options
	cmd.nameLocalizations = names
	cmd.descLocalizations = descLoc
	c.commands = append(c.commands, cmd)
}

func localizations(m *map[discordgo.Locale]string) map[discordgo.Locale]string {
	if m == nil {
		return nil
	}
	return *m
}

func (c *Catalog) Len() int {
	return len(c.commands)
}

// GuildCommands lists the commands a member holding perms can use in guildID.
func (c *Catalog) GuildCommands(guildID string, perms int64, locale discordgo.Locale) []Command {
	var out []Command
	for _, cmd := range c.commands {
		if len(cmd.GuildIDs) > 0 && !slices.Contains(cmd.GuildIDs, guildID) {
			continue
		}
		if !Permitted(cmd.DefaultPermissions, perms) {
			continue
		}
		out = append(out, cmd.localized(locale))
	}
	return out
}

// DMCommands lists the commands usable in direct messages.
func (c *Catalog) DMCommands(locale discordgo.Locale) []Command {
	var out []Command
	for _, cmd := range c.commands {
		if cmd.DMPermission {
			out = append(out, cmd.localized(locale))
		}
	}
	return out
}

// Permitted applies the default member permission rule: no requirement lets
// everyone in, administrators bypass, anyone else needs every required bit.
func Permitted(required *int64, perms int64) bool {
	if required == nil {
		return true
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	if *required == 0 {
		return false
	}
	return perms&*required == *required
}

// CommandNamed finds name among cmds, matching either the localized or the
// base name case-insensitively.
func CommandNamed(cmds []Command, name string) (Command, bool) {
	name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "/"))
	for _, cmd := range cmds {
		if strings.EqualFold(cmd.Name, name) || strings.EqualFold(cmd.baseName, name) {
			return cmd, true
		}
	}
	return Command{}, false
}

func (cmd Command) localized(locale discordgo.Locale) Command {
	if locale == "" {
		return cmd
	}
	parts := strings.Split(cmd.baseName, " ")
	if len(parts) == len(cmd.nameLocalizations) {
		for i, loc := range cmd.nameLocalizations {
			if value, ok := loc[locale]; ok && value != "" {
				parts[i] = value
			}
		}
		cmd.Name = strings.Join(parts, " ")
	}
	if value, ok := cmd.descLocalizations[locale]; ok && value != "" {
		cmd.Description = value
	}
	return cmd
}
