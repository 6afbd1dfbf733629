package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bot-template/internal/apiclient"
	"bot-template/internal/components"
	"bot-template/internal/config"
	"bot-template/internal/helply"
	"bot-template/internal/localize"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const Version = "0.1.0"

// closeDisallowedIntents is the gateway close code sent when the
// application requests privileged intents it has not been granted.
const closeDisallowedIntents = 4014

var ErrPrivilegedIntents = errors.New("missing privileged intents")

type Bot struct {
	cfg       config.Config
	logger    *zap.Logger
	session   Session
	localizer *localize.Localizer
	http      *apiclient.Client
	catalog   *helply.Catalog

	commands   map[string]Command
	components *components.Registry[ComponentFunc]
	plugins    []string

	mu       sync.Mutex
	ctx      context.Context
	removers []func()
	presence sync.Once
}

// New opens nothing yet; Run connects to the gateway.
func New(cfg config.Config, logger *zap.Logger, localizer *localize.Localizer, http *apiclient.Client) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsAll
	return NewWithSession(cfg, logger, gatewaySession{session}, localizer, http), nil
}

func NewWithSession(cfg config.Config, logger *zap.Logger, session Session, localizer *localize.Localizer, http *apiclient.Client) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	if localizer == nil {
		localizer = localize.New(nil)
	}
	return &Bot{
		cfg:        cfg,
		logger:     logger.Named("bot"),
		session:    session,
		localizer:  localizer,
		http:       http,
		catalog:    helply.NewCatalog(),
		commands:   make(map[string]Command),
		components: components.NewRegistry[ComponentFunc](),
		ctx:        context.Background(),
	}
}

func (b *Bot) Config() config.Config { return b.cfg }
func (b *Bot) Logger() *zap.Logger { return b.logger }
func (b *Bot) Catalog() *helply.Catalog { return b.catalog }

// T resolves key for the interaction's locale, falling back to def.
func (b *Bot) T(i *discordgo.Interaction, key, def string, placeholders map[string]string) string {
	locale := ""
	if i != nil {
		locale = string(i.Locale)
	}
	return b.localizer.Get(def, locale, key, placeholders)
}

// Run connects, registers commands and blocks until ctx is cancelled. The
// returned error is ctx.Err() after a clean shutdown.
func (b *Bot) Run(ctx context.Context) error {
	b.mu.Lock()
	b.ctx = ctx
	b.removers = append(b.removers,
		b.session.AddHandler(b.onReady),
		b.session.AddHandler(b.onInteractionCreate),
	)
	b.mu.Unlock()

	if err := b.session.Open(); err != nil {
		b.removeHandlers()
		if missingIntents(err) {
			return fmt.Errorf("%w: %v", ErrPrivilegedIntents, err)
		}
		return fmt.Errorf("open gateway: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		b.shutdown()
		return err
	}
	b.logger.Info("bot started", zap.Strings("plugins", b.plugins))

	<-ctx.Done()
	b.shutdown()
	return ctx.Err()
}

func (b *Bot) shutdown() {
	b.removeHandlers()
	if err := b.session.Close(); err != nil {
		b.logger.Warn("gateway close failed", zap.Error(err))
	}
	b.logger.Info("gateway closed")
	if b.http != nil {
		b.http.Close()
	}
}

func (b *Bot) removeHandlers() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, remove := range b.removers {
		remove()
	}
	b.removers = nil
}

func (b *Bot) runContext() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx
}

func missingIntents(err error) bool {
	var closeErr *websocket.CloseError
	return errors.As(err, &closeErr) && closeErr.Code == closeDisallowedIntents
}

func (b *Bot) onReady(_ *discordgo.Session, event *discordgo.Ready) {
	name, id := "", ""
	if event != nil && event.User != nil {
		name, id = event.User.Username, event.User.ID
	}
	b.logger.Info("discord ready\n" + startupTable(name, id, b.cfg.OwnerIDs, time.Now()))
	b.presence.Do(func() {
		go b.rotateActivities(b.runContext())
	})
}
