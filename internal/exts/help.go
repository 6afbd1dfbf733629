package exts

import (
	"context"
	"strconv"
	"strings"

	"bot-template/internal/bot"
	"bot-template/internal/components"
	"bot-template/internal/helply"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// NoCommand is offered by autocomplete when the invoker can use no command.
// Submitting it yields a notice instead of a lookup.
const NoCommand = "No commands available."

// maxChoices is Discord's limit on autocomplete suggestions.
const maxChoices = 25

type help struct {
	bot *bot.Bot
}

func Help(b *bot.Bot) bot.Plugin {
	h := &help{bot: b}
	return bot.Plugin{
		Name: "help",
		Commands: []bot.Command{{
			Definition:   helpDefinition(),
			Handler:      h.command,
			Autocomplete: h.autocomplete,
		}},
		Components: map[string]bot.ComponentFunc{
			helply.PagePrefix: h.turnPage,
		},
	}
}

func helpDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "help",
		Description: "View bot's commands and their details [USAGE: /help {command}].",
		DescriptionLocalizations: &map[discordgo.Locale]string{
			discordgo.French:    "Voir les commandes du bot et leurs details [USAGE: /help {command}].",
			discordgo.EnglishUS: "View bot's commands and their details [USAGE: /help {command}].",
			discordgo.SpanishES: "Ver los comandos del bot y sus detalles [USO: /help {command}].",
		},
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "command",
				Description: "Select a command to view its details.",
				DescriptionLocalizations: map[discordgo.Locale]string{
					discordgo.French:    "Choisir une commande pour voir ses details.",
					discordgo.EnglishUS: "Select a command to view its details.",
					discordgo.SpanishES: "Elegir un comando para ver sus detalles.",
				},
				Autocomplete: true,
			},
		},
	}
}

func (h *help) command(_ context.Context, ic *discordgo.InteractionCreate) error {
	i := ic.Interaction
	if err := h.bot.Defer(i, false); err != nil {
		return err
	}
	userID, err := components.ParseSnowflake(bot.UserID(i))
	if err != nil {
		return err
	}

	if name, ok := bot.StringOption(ic.ApplicationCommandData().Options, "command"); ok && name != "" {
		return h.detail(i, name, userID)
	}

	cmds := h.available(i)
	if len(cmds) == 0 {
		if i.GuildID == "" {
			content := h.bot.T(i, "help.none_dm", "Unable to find any commands you're permitted to use outside of a guild.", nil)
			return h.bot.EditResponse(i, &discordgo.WebhookEdit{Content: &content})
		}
		return h.privateNotice(i, h.bot.T(i, "help.none_guild", "Unable to find any commands you're permitted to use.", nil))
	}

	embeds := h.overview(i, cmds)
	rows := h.rows(0, len(embeds), userID)
	return h.bot.EditResponse(i, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embeds[0]},
		Components: &rows,
	})
}

func (h *help) detail(i *discordgo.Interaction, name string, userID uint64) error {
	if name == NoCommand {
		return h.privateNotice(i, h.bot.T(i, "help.no_commands", NoCommand, nil))
	}
	cmd, ok := helply.CommandNamed(h.available(i), name)
	if !ok {
		return h.privateNotice(i, h.bot.T(i, "help.not_found",
			"Unable to find a command you're permitted to use with the name **{command}**.",
			map[string]string{"command": name}))
	}

	embed := helply.DetailEmbed(cmd, h.labels(i), h.bot.Config().EmbedColor)
	rows := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{components.TrashButton(userID, true, 0)}},
	}
	return h.bot.EditResponse(i, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &rows,
	})
}

// privateNotice swaps the deferred public response for an ephemeral one.
func (h *help) privateNotice(i *discordgo.Interaction, content string) error {
	if err := h.bot.DeleteResponse(i); err != nil {
		return err
	}
	return h.bot.FollowupEphemeral(i, content)
}

func (h *help) autocomplete(_ context.Context, ic *discordgo.InteractionCreate) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	cmds := h.available(ic.Interaction)
	if len(cmds) == 0 {
		return []*discordgo.ApplicationCommandOptionChoice{{Name: NoCommand, Value: NoCommand}}, nil
	}

	input := ""
	if focused := bot.FocusedOption(ic.ApplicationCommandData().Options); focused != nil {
		input, _ = focused.Value.(string)
	}
	fold := cases.Fold()
	needle := fold.String(input)

	choices := []*discordgo.ApplicationCommandOptionChoice{}
	for _, cmd := range cmds {
		if !strings.Contains(fold.String(cmd.Name), needle) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: cmd.Name, Value: cmd.Name})
		if len(choices) == maxChoices {
			break
		}
	}
	return choices, nil
}

// turnPage re-renders the overview at the page carried in the button id.
// Only the user who ran /help may turn its pages.
func (h *help) turnPage(_ context.Context, ic *discordgo.InteractionCreate) error {
	i := ic.Interaction
	token, err := helply.DecodePage(ic.MessageComponentData().CustomID)
	if err != nil {
		h.bot.Logger().Warn("malformed paginator id", zap.Error(err))
		return h.bot.RespondEphemeral(i, h.bot.T(i, "error.generic", "Something went wrong while running this command.", nil))
	}
	userID, err := components.ParseSnowflake(bot.UserID(i))
	if err != nil {
		return err
	}
	if userID != token.UserID {
		return h.bot.RespondEphemeral(i, h.bot.T(i, "help.paginator_denied",
			"Only {user} can turn the pages of this help message.",
			map[string]string{"user": "<@" + strconv.FormatUint(token.UserID, 10) + ">"}))
	}

	cmds := h.available(i)
	if len(cmds) == 0 {
		return h.bot.RespondEphemeral(i, h.bot.T(i, "help.none_guild", "Unable to find any commands you're permitted to use.", nil))
	}
	embeds := h.overview(i, cmds)
	page := helply.ClampPage(token.Page, len(embeds))
	return h.bot.UpdateMessage(i, &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{embeds[page]},
		Components: h.rows(page, len(embeds), userID),
	})
}

// available lists the commands usable where the interaction happened.
func (h *help) available(i *discordgo.Interaction) []helply.Command {
	if i.GuildID != "" {
		return h.bot.Catalog().GuildCommands(i.GuildID, bot.MemberPermissions(i), i.Locale)
	}
	return h.bot.Catalog().DMCommands(i.Locale)
}

func (h *help) overview(i *discordgo.Interaction, cmds []helply.Command) []*discordgo.MessageEmbed {
	return helply.OverviewEmbeds(cmds, helply.OverviewOptions{
		Title: h.bot.T(i, "help.overview_title", "Commands", nil),
		Color: h.bot.Config().EmbedColor,
		Footer: func(page, total int) string {
			return h.bot.T(i, "help.page", "Page {page}/{total}", map[string]string{
				"page":  strconv.Itoa(page),
				"total": strconv.Itoa(total),
			})
		},
	})
}

// rows returns the message components for one overview page: the paginator
// when there is more than one page, then the trash and support buttons.
func (h *help) rows(page, total int, userID uint64) []discordgo.MessageComponent {
	buttons := discordgo.ActionsRow{Components: []discordgo.MessageComponent{components.TrashButton(userID, true, 0)}}
	if code := h.bot.Config().Support.InviteCode; code != "" {
		buttons.Components = append(buttons.Components, components.SupportButton(code))
	}
	if total <= 1 {
		return []discordgo.MessageComponent{buttons}
	}
	return []discordgo.MessageComponent{helply.PaginatorRow(page, total, userID), buttons}
}

func (h *help) labels(i *discordgo.Interaction) helply.DetailLabels {
	def := helply.DefaultDetailLabels()
	return helply.DetailLabels{
		Options:     h.bot.T(i, "help.detail.options", def.Options, nil),
		Permissions: h.bot.T(i, "help.detail.permissions", def.Permissions, nil),
		DM:          h.bot.T(i, "help.detail.dm", def.DM, nil),
		Yes:         h.bot.T(i, "help.detail.yes", def.Yes, nil),
		No:          h.bot.T(i, "help.detail.no", def.No, nil),
		Required:    h.bot.T(i, "help.detail.required", def.Required, nil),
	}
}
