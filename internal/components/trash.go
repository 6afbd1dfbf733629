package components

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// TrashPrefix starts every delete-button custom id:
// TRASH:<permission bits>:<user id>[:<origin message id>]
const TrashPrefix = "TRASH:"

const TrashEmoji = "🗑️"

var ErrForeignToken = errors.New("custom id does not belong to this component family")

type DecodeError struct {
	Token string
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %s: %v", e.Token, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TrashToken is the state carried by a delete button. Nothing about it is
// stored server side.
type TrashToken struct {
	Permissions int64
	UserID      uint64
	MessageID   uint64
	HasMessage  bool
}

// EncodeTrash builds the custom id. messageID 0 means no origin message.
func EncodeTrash(userID uint64, allowManageMessages bool, messageID uint64) string {
	token := TrashToken{UserID: userID, MessageID: messageID, HasMessage: messageID != 0}
	if allowManageMessages {
		token.Permissions |= discordgo.PermissionManageMessages
	}
	return token.Encode()
}

// DecodeTrash returns ErrForeignToken for ids without the prefix and a
// *DecodeError for malformed fields.
func DecodeTrash(customID string) (TrashToken, error) {
	rest, ok := strings.CutPrefix(customID, TrashPrefix)
	if !ok {
		return TrashToken{}, ErrForeignToken
	}

	fields := strings.Split(rest, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return TrashToken{}, &DecodeError{Token: customID, Field: "fields", Err: fmt.Errorf("expected 2 or 3 fields, got %d", len(fields))}
	}

	perms, err := parseCanonical(fields[0], 63)
	if err != nil {
		return TrashToken{}, &DecodeError{Token: customID, Field: "permissions", Err: err}
	}
	userID, err := parseCanonical(fields[1], 64)
	if err != nil {
		return TrashToken{}, &DecodeError{Token: customID, Field: "user", Err: err}
	}

	token := TrashToken{Permissions: int64(perms), UserID: userID}
	if len(fields) == 3 {
		messageID, err := parseCanonical(fields[2], 64)
		if err != nil {
			return TrashToken{}, &DecodeError{Token: customID, Field: "message", Err: err}
		}
		token.MessageID = messageID
		token.HasMessage = true
	}
	return token, nil
}

var errNotCanonical = errors.New("not a canonical decimal")

// parseCanonical accepts only the form Encode writes: digits without sign
// or leading zeros.
func parseCanonical(field string, bits int) (uint64, error) {
	if field == "" || (len(field) > 1 && field[0] == '0') {
		return 0, errNotCanonical
	}
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0, errNotCanonical
		}
	}
	return strconv.ParseUint(field, 10, bits)
}

func (t TrashToken) Encode() string {
	id := TrashPrefix + strconv.FormatInt(t.Permissions, 10) + ":" + strconv.FormatUint(t.UserID, 10)
	if t.HasMessage {
		id += ":" + strconv.FormatUint(t.MessageID, 10)
	}
	return id
}

// Authorized reports whether a user may use the button. The owner always
// may; anyone else needs at least one of the token's permission bits, not
// all of them.
func (t TrashToken) Authorized(userID uint64, perms int64) bool {
	if userID == t.UserID {
		return true
	}
	return t.Permissions&perms != 0
}

// TrashButton returns a delete button owned by userID. It is red when it
// also removes an origin message.
func TrashButton(userID uint64, allowManageMessages bool, messageID uint64) discordgo.Button {
	style := discordgo.SecondaryButton
	if messageID != 0 {
		style = discordgo.DangerButton
	}
	return discordgo.Button{
		CustomID: EncodeTrash(userID, allowManageMessages, messageID),
		Style:    style,
		Emoji:    &discordgo.ComponentEmoji{Name: TrashEmoji},
	}
}

// ParseSnowflake parses a discord id string.
func ParseSnowflake(id string) (uint64, error) {
	return strconv.ParseUint(id, 10, 64)
}
