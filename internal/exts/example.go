package exts

import (
	"context"

	"bot-template/internal/bot"

	"github.com/bwmarrin/discordgo"
)

// Example is the smallest useful plugin: /example ping answers Pong!.
func Example(b *bot.Bot) bot.Plugin {
	return bot.Plugin{
		Name: "example",
		Commands: []bot.Command{{
			Definition: &discordgo.ApplicationCommand{
				Name:        "example",
				Description: "Parent Interaction Example.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "ping",
						Description: "Ping, Pong! [USAGE: /example ping].",
						DescriptionLocalizations: map[discordgo.Locale]string{
							discordgo.French:    "Ping, Pong ! [USAGE: /example ping].",
							discordgo.SpanishES: "¡Ping, Pong! [USO: /example ping].",
						},
					},
				},
			},
			Subcommands: map[string]bot.CommandFunc{
				"ping": func(_ context.Context, ic *discordgo.InteractionCreate) error {
					return b.RespondText(ic.Interaction, b.T(ic.Interaction, "ping.pong", "Pong!", nil))
				},
			},
		}},
	}
}
