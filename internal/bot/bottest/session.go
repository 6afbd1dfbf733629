// Package bottest provides an in-memory discord session for handler tests.
package bottest

import (
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"
)

type Call struct {
	Method    string
	Response  *discordgo.InteractionResponse
	Edit      *discordgo.WebhookEdit
	Params    *discordgo.WebhookParams
	ChannelID string
	MessageID string
	GuildID   string
	Commands  []*discordgo.ApplicationCommand
	Status    discordgo.UpdateStatusData
}

// Session records every call. Errors can be injected per method name.
type Session struct {
	mu       sync.Mutex
	calls    []Call
	handlers int
	removed  int
	opened   bool
	closed   bool

	AppID  string
	Errors map[string]error
}

func NewSession() *Session {
	return &Session{AppID: "1000", Errors: make(map[string]error)}
}

func (s *Session) record(c Call) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
	return s.Errors[c.Method]
}

func (s *Session) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the recorded calls of one method.
func (s *Session) CallsTo(method string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Responses returns the interaction responses sent so far.
func (s *Session) Responses() []*discordgo.InteractionResponse {
	var out []*discordgo.InteractionResponse
	for _, c := range s.CallsTo("InteractionRespond") {
		out = append(out, c.Response)
	}
	return out
}

// Lifecycle reports whether Open and Close ran and how many handlers are
// still attached.
func (s *Session) Lifecycle() (opened, closed bool, activeHandlers int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.closed, s.handlers - s.removed
}

func (s *Session) AddHandler(interface{}) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers++
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.removed++
		})
	}
}

func (s *Session) Open() error {
	err := s.record(Call{Method: "Open"})
	if err == nil {
		s.mu.Lock()
		s.opened = true
		s.mu.Unlock()
	}
	return err
}

func (s *Session) Close() error {
	err := s.record(Call{Method: "Close"})
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return err
}

func (s *Session) SelfID() string {
	return s.AppID
}

func (s *Session) ApplicationCommandBulkOverwrite(_ string, guildID string, commands []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	if err := s.record(Call{Method: "ApplicationCommandBulkOverwrite", GuildID: guildID, Commands: commands}); err != nil {
		return nil, err
	}
	return commands, nil
}

func (s *Session) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	return s.record(Call{Method: "InteractionRespond", Response: resp})
}

func (s *Session) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if err := s.record(Call{Method: "InteractionResponseEdit", Edit: edit}); err != nil {
		return nil, err
	}
	return &discordgo.Message{}, nil
}

func (s *Session) InteractionResponseDelete(_ *discordgo.Interaction, _ ...discordgo.RequestOption) error {
	return s.record(Call{Method: "InteractionResponseDelete"})
}

func (s *Session) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if err := s.record(Call{Method: "FollowupMessageCreate", Params: data}); err != nil {
		return nil, err
	}
	return &discordgo.Message{}, nil
}

func (s *Session) ChannelMessageDelete(channelID, messageID string, _ ...discordgo.RequestOption) error {
	return s.record(Call{Method: "ChannelMessageDelete", ChannelID: channelID, MessageID: messageID})
}

func (s *Session) UpdateStatusComplex(usd discordgo.UpdateStatusData) error {
	return s.record(Call{Method: "UpdateStatusComplex", Status: usd})
}

// RESTError builds the error discordgo returns for a failed REST call.
func RESTError(status, code int) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status},
		Message:  &discordgo.APIErrorMessage{Code: code, Message: "test"},
	}
}

func GuildMember(userID string, perms int64) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: userID}, Permissions: perms}
}

func Command(name string, member *discordgo.Member, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return commandOfType(discordgo.InteractionApplicationCommand, name, member, options)
}

func Autocomplete(name string, member *discordgo.Member, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return commandOfType(discordgo.InteractionApplicationCommandAutocomplete, name, member, options)
}

func commandOfType(t discordgo.InteractionType, name string, member *discordgo.Member, options []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	i := &discordgo.Interaction{
		ID:        "1",
		Type:      t,
		ChannelID: "300",
		Data:      discordgo.ApplicationCommandInteractionData{Name: name, Options: options},
	}
	attach(i, member)
	return &discordgo.InteractionCreate{Interaction: i}
}

func Component(customID string, member *discordgo.Member) *discordgo.InteractionCreate {
	i := &discordgo.Interaction{
		ID:        "2",
		Type:      discordgo.InteractionMessageComponent,
		ChannelID: "300",
		Message:   &discordgo.Message{ID: "500", ChannelID: "300"},
		Data:      discordgo.MessageComponentInteractionData{CustomID: customID, ComponentType: discordgo.ButtonComponent},
	}
	attach(i, member)
	return &discordgo.InteractionCreate{Interaction: i}
}

// attach places member in guild 200. A nil member means a direct message
// from user 42.
func attach(i *discordgo.Interaction, member *discordgo.Member) {
	if member == nil {
		i.User = &discordgo.User{ID: "42"}
		return
	}
	i.GuildID = "200"
	i.Member = member
}

// DM returns an interaction from userID outside a guild.
func DM(i *discordgo.InteractionCreate, userID string) *discordgo.InteractionCreate {
	i.GuildID = ""
	i.Member = nil
	i.User = &discordgo.User{ID: userID}
	return i
}

func StringOpt(name, value string, focused bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionString,
		Value:   value,
		Focused: focused,
	}
}

func SubcommandOpt(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: options,
	}
}
