package bot

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Discord JSON error codes.
const (
	codeUnknownMessage     = 10008
	codeMissingPermissions = 50013
)

func (b *Bot) Respond(i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	return b.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func (b *Bot) RespondText(i *discordgo.Interaction, content string) error {
	return b.Respond(i, &discordgo.InteractionResponseData{Content: content})
}

// RespondEphemeral answers with a notice only the invoker can see.
func (b *Bot) RespondEphemeral(i *discordgo.Interaction, content string) error {
	return b.Respond(i, &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// Defer acknowledges a command; the response is filled in later with
// EditResponse.
func (b *Bot) Defer(i *discordgo.Interaction, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return b.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

// DeferUpdate acknowledges a component click without changing its message.
func (b *Bot) DeferUpdate(i *discordgo.Interaction) error {
	return b.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

// UpdateMessage replaces the message a clicked component belongs to.
func (b *Bot) UpdateMessage(i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	return b.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: data,
	})
}

func (b *Bot) RespondAutocomplete(i *discordgo.Interaction, choices []*discordgo.ApplicationCommandOptionChoice) error {
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	return b.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

func (b *Bot) EditResponse(i *discordgo.Interaction, edit *discordgo.WebhookEdit) error {
	_, err := b.session.InteractionResponseEdit(i, edit)
	return err
}

// DeleteResponse removes the original response, or for a component click the
// message carrying the component. A message that is already gone is not an
// error.
func (b *Bot) DeleteResponse(i *discordgo.Interaction) error {
	return b.deleteResult(b.session.InteractionResponseDelete(i))
}

// FollowupEphemeral sends a private follow-up after a deferred response.
func (b *Bot) FollowupEphemeral(i *discordgo.Interaction, content string) error {
	_, err := b.session.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}

// DeleteMessage removes a message outside any interaction response. A
// message that is already gone is ignored; missing permissions are logged
// and swallowed.
func (b *Bot) DeleteMessage(channelID, messageID string) error {
	return b.deleteResult(b.session.ChannelMessageDelete(channelID, messageID))
}

func (b *Bot) deleteResult(err error) error {
	switch {
	case err == nil, isNotFound(err):
		return nil
	case isForbidden(err):
		b.logger.Warn("could not delete message, cache may be unreliable", zap.Error(err))
		return nil
	}
	return err
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == codeUnknownMessage {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

func isForbidden(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == codeMissingPermissions {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden
}
