package bot

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	b.HandleInteraction(b.runContext(), i)
}

// HandleInteraction routes one interaction to its handler. Unknown commands
// and component ids owned by no plugin are ignored without a response.
func (b *Bot) HandleInteraction(ctx context.Context, i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("interaction handler panicked",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
			)
			_ = b.RespondEphemeral(i.Interaction, b.T(i.Interaction, "error.generic", "Something went wrong while running this command.", nil))
		}
	}()

	var (
		name string
		err  error
	)
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name = i.ApplicationCommandData().Name
		err = b.runCommand(ctx, i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		name = i.ApplicationCommandData().Name
		err = b.runAutocomplete(ctx, i)
	case discordgo.InteractionMessageComponent:
		name = i.MessageComponentData().CustomID
		handler, ok := b.components.Lookup(name)
		if !ok {
			return
		}
		err = handler(ctx, i)
	default:
		return
	}
	if err != nil {
		b.logger.Error("interaction handler failed",
			zap.String("interaction", name),
			zap.String("guild", i.GuildID),
			zap.String("user", UserID(i.Interaction)),
			zap.Error(err),
		)
	}
}

func (b *Bot) runCommand(ctx context.Context, i *discordgo.InteractionCreate) error {
	data := i.ApplicationCommandData()
	cmd, ok := b.commands[data.Name]
	if !ok {
		return nil
	}
	if len(cmd.Subcommands) == 0 {
		return cmd.Handler(ctx, i)
	}
	path := SubcommandPath(data.Options)
	handler, ok := cmd.Subcommands[path]
	if !ok {
		if cmd.Handler == nil {
			return fmt.Errorf("no handler for /%s %s", data.Name, path)
		}
		handler = cmd.Handler
	}
	return handler(ctx, i)
}

func (b *Bot) runAutocomplete(ctx context.Context, i *discordgo.InteractionCreate) error {
	cmd, ok := b.commands[i.ApplicationCommandData().Name]
	if !ok || cmd.Autocomplete == nil {
		return nil
	}
	choices, err := cmd.Autocomplete(ctx, i)
	if err != nil {
		return err
	}
	return b.RespondAutocomplete(i.Interaction, choices)
}

// SubcommandPath returns "sub" or "group sub" for the invoked subcommand,
// or "" for a plain command.
func SubcommandPath(options []*discordgo.ApplicationCommandInteractionDataOption) string {
	if len(options) == 0 {
		return ""
	}
	opt := options[0]
	switch opt.Type {
	case discordgo.ApplicationCommandOptionSubCommand:
		return opt.Name
	case discordgo.ApplicationCommandOptionSubCommandGroup:
		if sub := SubcommandPath(opt.Options); sub != "" {
			return opt.Name + " " + sub
		}
		return opt.Name
	}
	return ""
}

// LeafOptions returns the options passed to the invoked leaf command.
func LeafOptions(options []*discordgo.ApplicationCommandInteractionDataOption) []*discordgo.ApplicationCommandInteractionDataOption {
	for len(options) > 0 {
		t := options[0].Type
		if t != discordgo.ApplicationCommandOptionSubCommand && t != discordgo.ApplicationCommandOptionSubCommandGroup {
			break
		}
		options = options[0].Options
	}
	return options
}

// StringOption returns the named string option, if present.
func StringOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) (string, bool) {
	for _, opt := range LeafOptions(options) {
		if opt.Name == name {
			if value, ok := opt.Value.(string); ok {
				return value, true
			}
		}
	}
	return "", false
}

// FocusedOption returns the option being autocompleted.
func FocusedOption(options []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range LeafOptions(options) {
		if opt.Focused {
			return opt
		}
	}
	return nil
}

// UserID returns the id of the user behind the interaction in guilds and DMs.
func UserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// MemberPermissions returns the invoker's computed channel permissions, or
// 0 outside a guild.
func MemberPermissions(i *discordgo.Interaction) int64 {
	if i.Member != nil {
		return i.Member.Permissions
	}
	return 0
}
