package bot

import "github.com/bwmarrin/discordgo"

// Session is the part of *discordgo.Session the bot talks to.
type Session interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	SelfID() string

	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	UpdateStatusComplex(usd discordgo.UpdateStatusData) error
}

type gatewaySession struct {
	*discordgo.Session
}

// SelfID returns the bot user id once the gateway has sent READY.
func (s gatewaySession) SelfID() string {
	if s.State == nil || s.State.User == nil {
		return ""
	}
	return s.State.User.ID
}
