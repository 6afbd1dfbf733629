package components

import "github.com/bwmarrin/discordgo"

const SupportEmoji = "🆘"

// SupportButton links to the support server invite.
func SupportButton(inviteCode string) discordgo.Button {
	return discordgo.Button{
		Style: discordgo.LinkButton,
		URL:   "https://discord.gg/" + inviteCode,
		Emoji: &discordgo.ComponentEmoji{Name: SupportEmoji},
	}
}
