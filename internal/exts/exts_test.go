package exts

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"bot-template/internal/bot"
	"bot-template/internal/bot/bottest"
	"bot-template/internal/components"
	"bot-template/internal/config"
	"bot-template/internal/localize"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestBot(t *testing.T, cfg config.Config, extra ...bot.Plugin) (*bot.Bot, *bottest.Session, *observer.ObservedLogs) {
	t.Helper()
	store, err := localize.LoadBundled()
	if err != nil {
		t.Fatalf("load bundled: %v", err)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	session := bottest.NewSession()
	b := bot.NewWithSession(cfg, zap.New(core), session, localize.New(store), nil)
	b.LoadPlugins(append(All(b), extra...)...)
	return b, session, logs
}

func handle(b *bot.Bot, i *discordgo.InteractionCreate) {
	b.HandleInteraction(context.Background(), i)
}

func TestTrashDeletedByOwner(t *testing.T) {
	b, session, _ := newTestBot(t, config.DefaultConfig())

	handle(b, bottest.Component(components.EncodeTrash(42, false, 0), bottest.GuildMember("42", 0)))

	responses := session.Responses()
	if len(responses) != 1 || responses[0].Type != discordgo.InteractionResponseDeferredMessageUpdate {
		t.Fatalf("expected a deferred update, got %+v", responses)
	}
	if len(session.CallsTo("InteractionResponseDelete")) != 1 {
		t.Fatalf("expected the message to be deleted")
	}
	if len(session.CallsTo("FollowupMessageCreate")) != 0 {
		t.Fatalf("no notice expected")
	}
}

func TestTrashRejectedForOtherUser(t *testing.T) {
	b, session, _ := newTestBot(t, config.DefaultConfig())

	handle(b, bottest.Component(components.EncodeTrash(42, false, 0), bottest.GuildMember("99", discordgo.PermissionSendMessages)))

	responses := session.Responses()
	if len(responses) != 1 {
		t.Fatalf("expected one response, got %d", len(responses))
	}
	data := responses[0].Data
	if data.Flags != discordgo.MessageFlagsEphemeral || data.Content != "Sorry. You are not permitted to delete this message." {
		t.Fatalf("unexpected notice: %+v", data)
	}
	if len(session.CallsTo("InteractionResponseDelete")) != 0 || len(session.CallsTo("ChannelMessageDelete")) != 0 {
		t.Fatalf("message must survive")
	}
}

func TestTrashAllowedForModerator(t *testing.T) {
	b, session, _ := newTestBot(t, config.DefaultConfig())

	handle(b, bottest.Component(components.EncodeTrash(42, true, 0), bottest.GuildMember("99", discordgo.PermissionManageMessages)))

	if len(session.CallsTo("InteractionResponseDelete")) != 1 {
		t.Fatalf("moderator should be able to delete")
	}
}

func TestTrashInDirectMessages(t *testing.T) {
	b, session, _ := newTestBot(t, config.DefaultConfig())
	id := components.EncodeTrash(42, true, 0)

	handle(b, bottest.DM(bottest.Component(id, nil), "99"))
	responses := session.Responses()
	if len(responses) != 1 || responses[0].Data.Content != "Sorry. You are not permitted to delete this message." {
		t.Fatalf("expected the denied notice, got %+v", responses)
	}
	if len(session.CallsTo("InteractionResponseDelete")) != 0 {
		t.Fatalf("non-owner must not delete in a DM")
	}

	handle(b, bottest.Component(id, nil))
	if len(session.CallsTo("InteractionResponseDelete")) != 1 {
		t.Fatalf("owner should delete in a DM")
	}
}

func TestTrashDeletesOriginMessage(t *testing.T) {
	b, session, logs := newTestBot(t, config.DefaultConfig())
	session.Errors["ChannelMessageDelete"] = bottest.RESTError(http.StatusNotFound, 10008)

	handle(b, bottest.Component(components.EncodeTrash(42, false, 7), bottest.GuildMember("42", 0)))

	calls := session.CallsTo("ChannelMessageDelete")
	if len(calls) != 1 || calls[0].ChannelID != "300" || calls[0].MessageID != "7" {
		t.Fatalf("expected origin message delete, got %+v", calls)
	}
	if logs.FilterMessage("interaction handler failed").Len() != 0 {
		t.Fatalf("already deleted origin message should be benign")
	}
}

func TestTrashMalformedToken(t *testing.T) {
	b, session, logs := newTestBot(t, config.DefaultConfig())

	handle(b, bottest.Component("TRASH:x:42", bottest.GuildMember("42", 0)))

	if logs.FilterMessage("malformed trash button").Len() != 1 {
		t.Fatalf("expected a warning")
	}
	responses := session.Responses()
	if len(responses) != 1 || responses[0].Data.Flags != discordgo.MessageFlagsEphemeral {
		t.Fatalf("expected an ephemeral notice, got %+v", responses)
	}
	if len(session.CallsTo("InteractionResponseDelete")) != 0 {
		t.Fatalf("nothing may be deleted")
	}
}

// noCommandsConfig registers every command in another guild, so neither
// guild 200 nor direct messages have anything available.
func noCommandsConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.TestGuilds = []string{"elsewhere"}
	return cfg
}

func TestAutocompleteSentinelWhenNothingAvailable(t *testing.T) {
	b, session, _ := newTestBot(t, noCommandsConfig())

	handle(b, bottest.Autocomplete("help", bottest.GuildMember("42", 0), bottest.StringOpt("command", "", true)))

	responses := session.Responses()
	if len(responses) != 1 {
		t.Fatalf("expected one response")
	}
	choices := responses[0].Data.Choices
	if len(choices) != 1 || choices[0].Name != NoCommand || choices[0].Value != NoCommand {
		t.Fatalf("unexpected choices: %+v", choices)
	}
}

func TestSelectingSentinelGivesNotice(t *testing.T) {
	b, session, _ := newTestBot(t, noCommandsConfig())

	handle(b, bottest.Command("help", bottest.GuildMember("42", 0), bottest.StringOpt("command", NoCommand, false)))

	if len(session.CallsTo("InteractionResponseDelete")) != 1 {
		t.Fatalf("deferred response should be removed")
	}
	followups := session.CallsTo("FollowupMessageCreate")
	if len(followups) != 1 {
		t.Fatalf("expected one follow-up")
	}
	params := followups[0].Params
	if params.Content != NoCommand || params.Flags != discordgo.MessageFlagsEphemeral {
		t.Fatalf("unexpected notice: %+v", params)
	}
	if len(session.CallsTo("InteractionResponseEdit")) != 0 {
		t.Fatalf("sentinel must not be looked up")
	}
}

func TestAutocompleteFiltersCaseInsensitively(t *testing.T) {
	b, session, _ := newTestBot(t, config.DefaultConfig())

	handle(b, bottest.Autocomplete("help", bottest.GuildMember("42", 0), bottest.StringOpt("command", "PIN", true)))

	choices := session.Responses()[0].Data.Choices
	if len(choices) != 1 || choices[0].Value != "example ping" {
		t.Fatalf("unexpected choices: %+v", choices)
	}
}

func TestHelpOverview(t *testing.T) {
	b, session, _ := newTestBot(t, config.DefaultConfig())

	handle(b, bottest.Command("help", bottest.GuildMember("42", 0)))

	responses := session.Responses()
	if len(responses) != 1 || responses[0].Type != discordgo.InteractionResponseDeferredChannelMessageWithSource {
		t.Fatalf("expected a deferred response, got %+v", responses)
	}
	edits := session.CallsTo("InteractionResponseEdit")
	if len(edits) != 1 {
		t.Fatalf("expected one edit")
	}
	edit := edits[0].Edit
	embeds := *edit.Embeds
	if len(embeds) != 1 || !strings.Contains(embeds[0].Fields[0].Value, "`/example ping`") || !strings.Contains(embeds[0].Fields[0].Value, "`/help`") {
		t.Fatalf("unexpected overview: %+v", embeds)
	}
	rows := *edit.Components
	if len(rows) != 1 {
		t.Fatalf("single page should carry no paginator, got %d rows", len(rows))
	}
	trash := rows[0].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	if trash.CustomID != "TRASH:8192:42" {
		t.Fatalf("unexpected trash button %q", trash.CustomID)
	}
}

func TestHelpDetail(t *testing.T) {
	b, session, _ := newTestBot(t, config.DefaultConfig())

	handle(b, bottest.Command("help", bottest.GuildMember("42", 0), bottest.StringOpt("command", "Example Ping", false)))

	edits := session.CallsTo("InteractionResponseEdit")
	if len(edits) != 1 {
		t.Fatalf("expected one edit")
	}
	embed := (*edits[0].Edit.Embeds)[0]
	if embed.Title != "/example ping" {
		t.Fatalf("unexpected detail title %q", embed.Title)
	}
}

func TestHelpNotFound(t *testing.T) {
	b, session, _ := newTestBot(t, config.DefaultConfig())

	handle(b, bottest.Command("help", bottest.GuildMember("42", 0), bottest.StringOpt("command", "nope", false)))

	followups := session.CallsTo("FollowupMessageCreate")
	if len(followups) != 1 {
		t.Fatalf("expected a follow-up")
	}
	want := "Unable to find a command you're permitted to use with the name **nope**."
	if followups[0].Params.Content != want || followups[0].Params.Flags != discordgo.MessageFlagsEphemeral {
		t.Fatalf("unexpected notice: %+v", followups[0].Params)
	}
}

func TestHelpNothingAvailableInDM(t *testing.T) {
	b, session, _ := newTestBot(t, noCommandsConfig())

	handle(b, bottest.DM(bottest.Command("help", nil), "42"))

	edits := session.CallsTo("InteractionResponseEdit")
	if len(edits) != 1 || edits[0].Edit.Content == nil {
		t.Fatalf("expected content edit, got %+v", edits)
	}
	if *edits[0].Edit.Content != "Unable to find any commands you're permitted to use outside of a guild." {
		t.Fatalf("unexpected content %q", *edits[0].Edit.Content)
	}
}

func manyCommands() bot.Plugin {
	p := bot.Plugin{Name: "filler"}
	for n := 0; n < 40; n++ {
		p.Commands = append(p.Commands, bot.Command{
			Definition: &discordgo.ApplicationCommand{
				Name:        fmt.Sprintf("cmd%02d", n),
				Description: strings.Repeat("x", 60),
			},
			Handler: func(context.Context, *discordgo.InteractionCreate) error { return nil },
		})
	}
	return p
}

func TestHelpPaginator(t *testing.T) {
	b, session, _ := newTestBot(t, config.DefaultConfig(), manyCommands())

	handle(b, bottest.Command("help", bottest.GuildMember("42", 0)))
	rows := *session.CallsTo("InteractionResponseEdit")[0].Edit.Components
	if len(rows) != 2 {
		t.Fatalf("expected paginator and button rows, got %d", len(rows))
	}
	next := rows[0].(discordgo.ActionsRow).Components[3].(discordgo.Button)
	if next.CustomID != "HELP:next:1:42" {
		t.Fatalf("unexpected next id %q", next.CustomID)
	}

	handle(b, bottest.Component(next.CustomID, bottest.GuildMember("42", 0)))
	responses := session.Responses()
	update := responses[len(responses)-1]
	if update.Type != discordgo.InteractionResponseUpdateMessage {
		t.Fatalf("expected message update, got %v", update.Type)
	}
	if footer := update.Data.Embeds[0].Footer.Text; !strings.HasPrefix(footer, "Page 2/") {
		t.Fatalf("unexpected footer %q", footer)
	}
}

func TestHelpPaginatorOwnerOnly(t *testing.T) {
	b, session, _ := newTestBot(t, config.DefaultConfig(), manyCommands())

	handle(b, bottest.Component("HELP:next:1:42", bottest.GuildMember("99", discordgo.PermissionAdministrator)))

	responses := session.Responses()
	if len(responses) != 1 || responses[0].Data.Flags != discordgo.MessageFlagsEphemeral {
		t.Fatalf("expected ephemeral denial, got %+v", responses)
	}
	if !strings.Contains(responses[0].Data.Content, "<@42>") {
		t.Fatalf("unexpected denial %q", responses[0].Data.Content)
	}
}

func TestExamplePing(t *testing.T) {
	b, session, _ := newTestBot(t, config.DefaultConfig())

	handle(b, bottest.Command("example", bottest.GuildMember("42", 0), bottest.SubcommandOpt("ping")))
	es := bottest.Command("example", bottest.GuildMember("42", 0), bottest.SubcommandOpt("ping"))
	es.Locale = discordgo.SpanishES
	handle(b, es)

	responses := session.Responses()
	if len(responses) != 2 {
		t.Fatalf("expected two responses, got %d", len(responses))
	}
	if responses[0].Data.Content != "Pong!" || responses[1].Data.Content != "¡Pong!" {
		t.Fatalf("unexpected replies %q %q", responses[0].Data.Content, responses[1].Data.Content)
	}
}
