package helply

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

const (
	DefaultMaxFieldChars = 700
	DefaultMaxFields     = 1
	blankField           = "\u200b"
)

type OverviewOptions struct {
	Title         string
	MaxFieldChars int
	MaxFields     int
	Color         int
	// Footer renders the page label; page is 1-based.
	Footer func(page, total int) string
}

// OverviewEmbeds splits the command list into pages. Each field holds at most
// MaxFieldChars characters and each page at most MaxFields fields.
func OverviewEmbeds(cmds []Command, opts OverviewOptions) []*discordgo.MessageEmbed {
	if opts.MaxFieldChars <= 0 {
		opts.MaxFieldChars = DefaultMaxFieldChars
	}
	if opts.MaxFields <= 0 {
		opts.MaxFields = DefaultMaxFields
	}

	var fields []string
	var current strings.Builder
	for _, cmd := range cmds {
		line := truncate(overviewLine(cmd), opts.MaxFieldChars)
		if current.Len() > 0 && utf8.RuneCountInString(current.String())+1+utf8.RuneCountInString(line) > opts.MaxFieldChars {
			fields = append(fields, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		fields = append(fields, current.String())
	}
	if len(fields) == 0 {
		return nil
	}

	var embeds []*discordgo.MessageEmbed
	for start := 0; start < len(fields); start += opts.MaxFields {
		end := min(start+opts.MaxFields, len(fields))
		embed := &discordgo.MessageEmbed{Title: opts.Title, Color: opts.Color}
		for _, value := range fields[start:end] {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: blankField, Value: value})
		}
		embeds = append(embeds, embed)
	}
	if opts.Footer != nil {
		for i, embed := range embeds {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: opts.Footer(i+1, len(embeds))}
		}
	}
	return embeds
}

func overviewLine(cmd Command) string {
	if cmd.Description == "" {
		return "`/" + cmd.Name + "`"
	}
	return "`/" + cmd.Name + "` - " + cmd.Description
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

type DetailLabels struct {
	Options     string
	Permissions string
	DM          string
	Yes         string
	No          string
	Required    string
}

func DefaultDetailLabels() DetailLabels {
	return DetailLabels{
		Options:     "Options",
		Permissions: "Required permissions",
		DM:          "Usable in direct messages",
		Yes:         "Yes",
		No:          "No",
		Required:    "required",
	}
}

func DetailEmbed(cmd Command, labels DetailLabels, color int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "/" + cmd.Name,
		Description: cmd.Description,
		Color:       color,
	}

	if len(cmd.Options) > 0 {
		lines := make([]string, 0, len(cmd.Options))
		for _, opt := range cmd.Options {
			line := "`" + opt.Name + "`"
			if opt.Required {
				line += " (" + labels.Required + ")"
			}
			if opt.Description != "" {
				line += " - " + opt.Description
			}
			lines = append(lines, line)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: labels.Options, Value: truncate(strings.Join(lines, "\n"), 1024)})
	}

	if cmd.DefaultPermissions != nil && *cmd.DefaultPermissions != 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  labels.Permissions,
			Value: strings.Join(PermissionNames(*cmd.DefaultPermissions), ", "),
		})
	}

	dm := labels.No
	if cmd.DMPermission {
		dm = labels.Yes
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: labels.DM, Value: dm, Inline: true})
	return embed
}

var permissionNames = []struct {
	bit  int64
	name string
}{
	{discordgo.PermissionAdministrator, "Administrator"},
	{discordgo.PermissionManageServer, "Manage Server"},
	{discordgo.PermissionManageChannels, "Manage Channels"},
	{discordgo.PermissionManageRoles, "Manage Roles"},
	{discordgo.PermissionManageWebhooks, "Manage Webhooks"},
	{discordgo.PermissionManageMessages, "Manage Messages"},
	{discordgo.PermissionManageNicknames, "Manage Nicknames"},
	{discordgo.PermissionKickMembers, "Kick Members"},
	{discordgo.PermissionBanMembers, "Ban Members"},
	{discordgo.PermissionModerateMembers, "Timeout Members"},
	{discordgo.PermissionViewAuditLogs, "View Audit Log"},
	{discordgo.PermissionMentionEveryone, "Mention Everyone"},
	{discordgo.PermissionViewChannel, "View Channel"},
	{discordgo.PermissionSendMessages, "Send Messages"},
}

// PermissionNames lists readable names for bits; unknown bits are shown in hex.
func PermissionNames(bits int64) []string {
	var names []string
	for _, p := range permissionNames {
		if bits&p.bit != 0 {
			names = append(names, p.name)
			bits &^= p.bit
		}
	}
	if bits != 0 {
		names = append(names, fmt.Sprintf("0x%x", bits))
	}
	return names
}
