package exts

import (
	"context"
	"errors"
	"strconv"

	"bot-template/internal/bot"
	"bot-template/internal/components"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Delete handles trash buttons. The button can sit on any message the bot
// sends, not only interaction responses.
func Delete(b *bot.Bot) bot.Plugin {
	d := &deleter{bot: b}
	return bot.Plugin{
		Name: "delete",
		Components: map[string]bot.ComponentFunc{
			components.TrashPrefix: d.trash,
		},
	}
}

type deleter struct {
	bot *bot.Bot
}

func (d *deleter) trash(_ context.Context, ic *discordgo.InteractionCreate) error {
	i := ic.Interaction
	token, err := components.DecodeTrash(ic.MessageComponentData().CustomID)
	if errors.Is(err, components.ErrForeignToken) {
		return nil
	}
	if err != nil {
		d.bot.Logger().Warn("malformed trash button", zap.Error(err))
		return d.bot.RespondEphemeral(i, d.bot.T(i, "error.generic", "Something went wrong while running this command.", nil))
	}

	userID, err := components.ParseSnowflake(bot.UserID(i))
	if err != nil {
		return err
	}
	if !token.Authorized(userID, bot.MemberPermissions(i)) {
		return d.bot.RespondEphemeral(i, d.bot.T(i, "trash.denied", "Sorry. You are not permitted to delete this message.", nil))
	}

	if err := d.bot.DeferUpdate(i); err != nil {
		return err
	}
	if err := d.bot.DeleteResponse(i); err != nil {
		return err
	}
	if token.HasMessage {
		return d.bot.DeleteMessage(i.ChannelID, strconv.FormatUint(token.MessageID, 10))
	}
	return nil
}
