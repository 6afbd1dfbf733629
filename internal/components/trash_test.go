package components

import (
	"errors"
	"math"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestTrashRoundTrip(t *testing.T) {
	cases := []struct {
		userID    uint64
		manage    bool
		messageID uint64
	}{
		{userID: 42},
		{userID: 42, manage: true},
		{userID: 1105214826830483456, manage: true, messageID: 1105214826830483457},
		{userID: math.MaxUint64, messageID: 1},
	}
	for _, tc := range cases {
		id := EncodeTrash(tc.userID, tc.manage, tc.messageID)
		token, err := DecodeTrash(id)
		if err != nil {
			t.Fatalf("decode %q: %v", id, err)
		}
		if token.UserID != tc.userID || token.MessageID != tc.messageID {
			t.Fatalf("round trip mismatch for %q: %+v", id, token)
		}
		if token.HasMessage != (tc.messageID != 0) {
			t.Fatalf("unexpected HasMessage for %q", id)
		}
		wantPerms := int64(0)
		if tc.manage {
			wantPerms = discordgo.PermissionManageMessages
		}
		if token.Permissions != wantPerms {
			t.Fatalf("expected perms %d, got %d", wantPerms, token.Permissions)
		}
		if token.Encode() != id {
			t.Fatalf("re-encode mismatch: %q vs %q", token.Encode(), id)
		}
	}
}

func TestEncodeTrashFormat(t *testing.T) {
	if got := EncodeTrash(42, false, 0); got != "TRASH:0:42" {
		t.Fatalf("unexpected id: %q", got)
	}
	if got := EncodeTrash(42, true, 7); got != "TRASH:8192:42:7" {
		t.Fatalf("unexpected id: %q", got)
	}
}

func TestDecodeForeignToken(t *testing.T) {
	for _, id := range []string{"", "HELP:next:1:42", "trash:0:42", "TRASH", "xTRASH:0:42:::garbage"} {
		if _, err := DecodeTrash(id); !errors.Is(err, ErrForeignToken) {
			t.Fatalf("expected ErrForeignToken for %q, got %v", id, err)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, id := range []string{
		"TRASH:",
		"TRASH:abc:42",
		"TRASH:0:abc",
		"TRASH:0:",
		"TRASH:-1:42",
		"TRASH:0:-42",
		"TRASH:0:42:msg",
		"TRASH:0:42:1:2",
		"TRASH:+5:42",
		"TRASH:5:042",
		"TRASH:5:42:007",
		"TRASH:5: 42",
		"TRASH:9223372036854775808:42",
	} {
		_, err := DecodeTrash(id)
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("expected DecodeError for %q, got %v", id, err)
		}
		if errors.Is(err, ErrForeignToken) {
			t.Fatalf("malformed token %q reported as foreign", id)
		}
	}
}

func TestAuthorized(t *testing.T) {
	owner := TrashToken{UserID: 42}
	if !owner.Authorized(42, 0) {
		t.Fatalf("owner must be authorized")
	}
	if owner.Authorized(99, discordgo.PermissionAdministrator|discordgo.PermissionManageMessages) {
		t.Fatalf("zero permission bits must never authorize others")
	}

	manage := TrashToken{UserID: 42, Permissions: discordgo.PermissionManageMessages | discordgo.PermissionBanMembers}
	if !manage.Authorized(42, 0) {
		t.Fatalf("owner must be authorized regardless of permissions")
	}
	if !manage.Authorized(99, discordgo.PermissionBanMembers) {
		t.Fatalf("any overlapping bit should authorize")
	}
	if manage.Authorized(99, discordgo.PermissionKickMembers) {
		t.Fatalf("non overlapping bits must not authorize")
	}
}

func TestTrashButtonStyle(t *testing.T) {
	if b := TrashButton(1, true, 0); b.Style != discordgo.SecondaryButton || b.CustomID != "TRASH:8192:1" {
		t.Fatalf("unexpected button: %+v", b)
	}
	if b := TrashButton(1, false, 5); b.Style != discordgo.DangerButton {
		t.Fatalf("expected danger style with origin message, got %v", b.Style)
	}
}

func TestSupportButton(t *testing.T) {
	b := SupportButton("abc")
	if b.Style != discordgo.LinkButton || b.URL != "https://discord.gg/abc" || b.CustomID != "" {
		t.Fatalf("unexpected button: %+v", b)
	}
}
