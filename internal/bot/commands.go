package bot

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// registerCommands overwrites the application's commands with the loaded
// definitions: per test guild when test guilds are configured, globally
// otherwise.
func (b *Bot) registerCommands() error {
	appID := b.session.SelfID()
	if appID == "" {
		return errors.New("register commands: application id unknown")
	}
	defs := b.Definitions()

	guilds := b.cfg.TestGuilds
	if len(guilds) == 0 {
		guilds = []string{""}
	}
	for _, guildID := range guilds {
		created, err := b.session.ApplicationCommandBulkOverwrite(appID, guildID, defs)
		if err != nil {
			return fmt.Errorf("register commands in %q: %w", guildID, err)
		}
		b.logger.Info("commands registered", zap.String("guild", guildID), zap.Int("count", len(created)))
	}
	return nil
}
