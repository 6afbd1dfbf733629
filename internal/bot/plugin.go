package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type (
	CommandFunc      func(ctx context.Context, i *discordgo.InteractionCreate) error
	AutocompleteFunc func(ctx context.Context, i *discordgo.InteractionCreate) ([]*discordgo.ApplicationCommandOptionChoice, error)
	ComponentFunc    func(ctx context.Context, i *discordgo.InteractionCreate) error
)

// Command binds a slash command definition to its handlers. Commands with
// subcommands route through Subcommands, keyed "sub" or "group sub".
type Command struct {
	Definition   *discordgo.ApplicationCommand
	Handler      CommandFunc
	Subcommands  map[string]CommandFunc
	Autocomplete AutocompleteFunc
}

// Plugin is a named bundle of commands and component handlers keyed by
// custom id prefix.
type Plugin struct {
	Name       string
	Commands   []Command
	Components map[string]ComponentFunc
}

var ErrNoEntryPoint = errors.New("plugin has no entry points")

// LoadPlugins registers every plugin it can. A plugin without entry points,
// or an entry point that clashes with one already loaded, is logged as
// critical and skipped; the remaining plugins still load.
func (b *Bot) LoadPlugins(plugins ...Plugin) {
	for _, p := range plugins {
		if err := b.loadPlugin(p); err != nil {
			b.logger.Error("plugin load failed",
				zap.String("plugin", p.Name),
				zap.Bool("critical", true),
				zap.Error(err),
			)
			continue
		}
		b.plugins = append(b.plugins, p.Name)
		b.logger.Info("plugin loaded", zap.String("plugin", p.Name))
	}
}

func (b *Bot) loadPlugin(p Plugin) error {
	if len(p.Commands) == 0 && len(p.Components) == 0 {
		return ErrNoEntryPoint
	}
	for _, cmd := range p.Commands {
		if cmd.Definition == nil || cmd.Definition.Name == "" {
			return errors.New("command without definition")
		}
		if cmd.Handler == nil && len(cmd.Subcommands) == 0 {
			return fmt.Errorf("command %q has no handler", cmd.Definition.Name)
		}
		if _, exists := b.commands[cmd.Definition.Name]; exists {
			return fmt.Errorf("command %q already registered", cmd.Definition.Name)
		}
	}
	if err := b.components.RegisterAll(p.Components); err != nil {
		return fmt.Errorf("components: %w", err)
	}
	for _, cmd := range p.Commands {
		b.commands[cmd.Definition.Name] = cmd
		b.catalog.Add(cmd.Definition, b.cfg.TestGuilds...)
	}
	return nil
}

// Definitions lists the loaded command definitions sorted by name.
func (b *Bot) Definitions() []*discordgo.ApplicationCommand {
	defs := make([]*discordgo.ApplicationCommand, 0, len(b.commands))
	for _, cmd := range b.commands {
		defs = append(defs, cmd.Definition)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
