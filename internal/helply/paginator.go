package helply

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bot-template/internal/components"

	"github.com/bwmarrin/discordgo"
)

// PagePrefix starts every paginator custom id:
// HELP:<action>:<target page>:<owner id>
// The target page travels in the id so page turns need no stored state.
const PagePrefix = "HELP:"

const (
	ActionFirst   = "first"
	ActionPrev    = "prev"
	ActionCurrent = "current"
	ActionNext    = "next"
	ActionLast    = "last"
)

type PageToken struct {
	Action string
	Page   int
	UserID uint64
}

func EncodePage(action string, page int, userID uint64) string {
	return PagePrefix + action + ":" + strconv.Itoa(page) + ":" + strconv.FormatUint(userID, 10)
}

func DecodePage(customID string) (PageToken, error) {
	rest, ok := strings.CutPrefix(customID, PagePrefix)
	if !ok {
		return PageToken{}, components.ErrForeignToken
	}
	fields := strings.Split(rest, ":")
	if len(fields) != 3 {
		return PageToken{}, &components.DecodeError{Token: customID, Field: "fields", Err: fmt.Errorf("expected 3 fields, got %d", len(fields))}
	}
	switch fields[0] {
	case ActionFirst, ActionPrev, ActionCurrent, ActionNext, ActionLast:
	default:
		return PageToken{}, &components.DecodeError{Token: customID, Field: "action", Err: errors.New("unknown action")}
	}
	page, err := strconv.Atoi(fields[1])
	if err == nil && page < 0 {
		err = errors.New("negative page")
	}
	if err != nil {
		return PageToken{}, &components.DecodeError{Token: customID, Field: "page", Err: err}
	}
	userID, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return PageToken{}, &components.DecodeError{Token: customID, Field: "user", Err: err}
	}
	return PageToken{Action: fields[0], Page: page, UserID: userID}, nil
}

// ClampPage keeps page inside [0, total).
func ClampPage(page, total int) int {
	if total <= 0 || page < 0 {
		return 0
	}
	if page >= total {
		return total - 1
	}
	return page
}

// PaginatorRow renders the navigation buttons for page (0-based) of total.
func PaginatorRow(page, total int, userID uint64) discordgo.ActionsRow {
	page = ClampPage(page, total)
	last := max(total-1, 0)
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{CustomID: EncodePage(ActionFirst, 0, userID), Label: "⏮", Style: discordgo.SecondaryButton, Disabled: page == 0},
			discordgo.Button{CustomID: EncodePage(ActionPrev, max(page-1, 0), userID), Label: "◀", Style: discordgo.PrimaryButton, Disabled: page == 0},
			discordgo.Button{CustomID: EncodePage(ActionCurrent, page, userID), Label: fmt.Sprintf("%d/%d", page+1, max(total, 1)), Style: discordgo.SecondaryButton, Disabled: true},
			discordgo.Button{CustomID: EncodePage(ActionNext, min(page+1, last), userID), Label: "▶", Style: discordgo.PrimaryButton, Disabled: page >= last},
			discordgo.Button{CustomID: EncodePage(ActionLast, last, userID), Label: "⏭", Style: discordgo.SecondaryButton, Disabled: page >= last},
		},
	}
}
