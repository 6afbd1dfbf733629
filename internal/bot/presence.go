package bot

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

const defaultActivityInterval = 5 * time.Minute

var activityTypes = map[string]discordgo.ActivityType{
	"playing":   discordgo.ActivityTypeGame,
	"streaming": discordgo.ActivityTypeStreaming,
	"listening": discordgo.ActivityTypeListening,
	"watching":  discordgo.ActivityTypeWatching,
	"competing": discordgo.ActivityTypeCompeting,
}

func startupTable(name, id string, owners []string, now time.Time) string {
	var buf strings.Builder
	tb := tablewriter.NewWriter(&buf)
	tb.SetAutoWrapText(false)
	tb.SetAlignment(tablewriter.ALIGN_LEFT)
	tb.AppendBulk([][]string{
		{"Started", now.UTC().Format("01/02/2006 - 15:04:05")},
		{"Go Version", runtime.Version()},
		{"Discordgo Version", discordgo.VERSION},
		{"Bot Version", Version},
		{"Connected as", name + " (" + id + ")"},
		{"Owners", strings.Join(owners, ", ")},
	})
	tb.Render()
	return buf.String()
}

// rotateActivities cycles the configured activities until ctx ends. With no
// activities it clears the presence once and stops.
func (b *Bot) rotateActivities(ctx context.Context) {
	interval := time.Duration(b.cfg.ActivityIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultActivityInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for next := 0; ; next++ {
		if !b.updatePresence(next) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// updatePresence sets activity n (mod the list) and reports whether the
// rotation should continue.
func (b *Bot) updatePresence(n int) bool {
	status := b.cfg.ActivityStatus
	if status == "" {
		status = string(discordgo.StatusOnline)
	}
	if len(b.cfg.Activities) == 0 {
		b.logger.Warn("there are no activities provided")
		if err := b.session.UpdateStatusComplex(discordgo.UpdateStatusData{Status: status}); err != nil {
			b.logger.Warn("presence update failed", zap.Error(err))
		}
		return false
	}

	activity := &discordgo.Activity{
		Name: b.cfg.Activities[n%len(b.cfg.Activities)],
		Type: activityTypes[b.cfg.ActivityType],
	}
	if _, ok := activityTypes[b.cfg.ActivityType]; !ok {
		activity.Type = discordgo.ActivityTypeWatching
	}
	err := b.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{activity},
		Status:     status,
	})
	if err != nil {
		b.logger.Warn("presence update failed", zap.Error(err))
	}
	return true
}
