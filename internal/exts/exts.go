// Package exts holds the bot's plugins.
package exts

import "bot-template/internal/bot"

// All returns every plugin in load order.
func All(b *bot.Bot) []bot.Plugin {
	return []bot.Plugin{
		Delete(b),
		Example(b),
		Help(b),
	}
}
