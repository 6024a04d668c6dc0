package bot

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"ewager/bot/common"
	"ewager/bot/features/ledger"
	"ewager/bot/features/rolls"
	"ewager/bot/features/tournaments"
	"ewager/infrastructure/observability"
	"ewager/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token           string
	GuildID         string
	CommandPrefixes []string
	CatalogSize     int

	TournamentMinSize           int
	TournamentMaxSize           int
	TournamentDefaultSize       int
	TournamentMinParticipants   int
	TournamentCreateRequiresMod bool

	TradeChannelKeywords []string
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	detector *service.RollDetector
	router   service.ReactionRouter
	trades   *TradeChannelMatcher
	ledger   service.LedgerService

	tournamentsFeature *tournaments.Feature
	rollsFeature       *rolls.Feature
	ledgerFeature      *ledger.Feature
}

func New(config Config, tournamentService service.TournamentService, ledgerService service.LedgerService, rollService service.RollService) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	emojis := service.DefaultReactionEmojis()
	authorizer := NewDiscordAuthorizer(dg)

	bot := &Bot{
		config:   config,
		session:  dg,
		detector: service.NewRollDetector(service.DefaultRollDetectorConfig(config.CatalogSize)),
		router:   service.NewReactionRouter(tournamentService, authorizer, emojis),
		trades:   NewTradeChannelMatcher(config.TradeChannelKeywords),
		ledger:   ledgerService,
		tournamentsFeature: tournaments.NewFeature(dg, tournamentService, authorizer, tournaments.Config{
			DefaultSize:       config.TournamentDefaultSize,
			MinParticipants:   config.TournamentMinParticipants,
			CreateRequiresMod: config.TournamentCreateRequiresMod,
			Emojis:            emojis,
		}),
		rollsFeature:  rolls.NewFeature(dg, rollService),
		ledgerFeature: ledger.NewFeature(dg, ledgerService, rollService),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register chat and reaction handlers
	dg.AddHandler(bot.handleMessage)
	dg.AddHandler(bot.handleReactionAdd)
	dg.AddHandler(bot.handleReactionRemove)
	dg.AddHandler(bot.handleChannelUpdate)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// SummaryPoster exposes the ledger feature to the scheduler
func (b *Bot) SummaryPoster() SummaryPoster {
	return b.ledgerFeature
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// handleCommands routes slash commands to their feature
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	observability.GetMetrics().RecordMessageRead(observability.MessageTypeInteraction)

	switch i.ApplicationCommandData().Name {
	case "tournament":
		b.tournamentsFeature.HandleCommand(s, i)
	case "gamble":
		b.ledgerFeature.HandleGambleCommand(s, i)
	case "logs":
		b.ledgerFeature.HandleLogsCommand(s, i)
	case "stats":
		b.ledgerFeature.HandleStatsCommand(s, i)
	case "roll":
		b.rollsFeature.HandleRollCommand(s, i)
	case "recent":
		b.rollsFeature.HandleRecentCommand(s, i)
	case "help":
		if err := common.RespondWithEmbed(s, i, buildHelpEmbed(b.primaryPrefix(), b.config.CatalogSize), true); err != nil {
			log.Errorf("Error sending help: %v", err)
		}
	}
}

// handleMessage runs the trade audit, then the prefix table, then free-text roll detection
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	observability.GetMetrics().RecordMessageRead(observability.MessageTypeMessage)

	ctx := context.Background()

	if m.GuildID != "" && b.trades.Matches(m.ChannelID, b.channelName(s)) {
		userID := common.ParseSnowflake(m.Author.ID)
		channelID := common.ParseSnowflake(m.ChannelID)
		if err := b.ledger.LogTradeMessage(ctx, userID, channelID, m.Content); err != nil {
			log.WithError(err).WithField("channel_id", m.ChannelID).Warn("Failed to log trade message")
		}
	}

	if cmd, ok := ParsePrefixCommand(m.Content, b.config.CommandPrefixes); ok {
		if b.dispatchPrefix(ctx, s, m, cmd) {
			observability.GetMetrics().RecordMessageRead(observability.MessageTypeCommand)
			return
		}
	}

	inv := common.InvocationFromMessage(m)
	switch b.detector.Classify(m.Content) {
	case service.IntentCatalogRoll:
		b.rollsFeature.Catalog(ctx, common.NewMessageResponder(s, m), inv)
	case service.IntentNumericRoll:
		b.rollsFeature.Numeric(ctx, common.NewMessageResponder(s, m), inv)
	}
}

// dispatchPrefix runs a prefix command and reports whether the name was recognized
func (b *Bot) dispatchPrefix(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, cmd PrefixCommand) bool {
	r := common.NewMessageResponder(s, m)
	inv := common.InvocationFromMessage(m)
	catalogToken := strconv.Itoa(b.config.CatalogSize)

	switch cmd.Name {
	case "w", "wish":
		if mentions := cmd.Mentions(); len(mentions) == 2 {
			b.ledgerFeature.LogResult(ctx, r, inv, mentions[0], mentions[1])
			return true
		}
		b.rollsFeature.Catalog(ctx, r, inv)
	case catalogToken, "pokemon", "poke":
		b.rollsFeature.Catalog(ctx, r, inv)
	case "roll":
		if len(cmd.Args) > 0 && (cmd.Args[0] == catalogToken || cmd.Args[0] == "pokemon" || cmd.Args[0] == "poke") {
			b.rollsFeature.Catalog(ctx, r, inv)
			return true
		}
		b.rollsFeature.Numeric(ctx, r, inv)
	case "number":
		b.rollsFeature.Numeric(ctx, r, inv)
	case "recent":
		target := inv.UserID
		if mentions := cmd.Mentions(); len(mentions) > 0 {
			target = mentions[0]
		}
		b.rollsFeature.Recent(ctx, r, inv, target, limitArg(cmd.Args, common.DefaultRecentRolls))
	case "logs":
		if len(cmd.Args) > 0 && cmd.Args[0] == "leaderboard" {
			b.ledgerFeature.Leaderboard(ctx, r, inv, limitArg(cmd.Args[1:], common.DefaultRecentLogs))
			return true
		}
		b.ledgerFeature.Recent(ctx, r, inv, limitArg(cmd.Args, common.DefaultRecentLogs))
	case "leaderboard", "lb":
		b.ledgerFeature.Leaderboard(ctx, r, inv, limitArg(cmd.Args, common.DefaultRecentLogs))
	case "stats":
		target := inv.UserID
		if mentions := cmd.Mentions(); len(mentions) > 0 {
			target = mentions[0]
		}
		b.ledgerFeature.Stats(ctx, r, inv, target)
	case "gamble":
		mentions := cmd.Mentions()
		if len(cmd.Args) == 0 || cmd.Args[0] != "log" || len(mentions) != 2 {
			r.Error(fmt.Sprintf("Usage: %sgamble log @winner @loser", cmd.Prefix), false)
			return true
		}
		b.ledgerFeature.LogResult(ctx, r, inv, mentions[0], mentions[1])
	case "tournament", "t":
		b.tournamentsFeature.HandlePrefix(s, m, cmd.Args)
	case "help":
		if _, err := r.Embed(buildHelpEmbed(cmd.Prefix, b.config.CatalogSize)); err != nil {
			log.Errorf("Error sending help: %v", err)
		}
	default:
		return false
	}
	return true
}

func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	b.routeReaction(s, r.MessageReaction, true)
}

func (b *Bot) handleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	b.routeReaction(s, r.MessageReaction, false)
}

func (b *Bot) routeReaction(s *discordgo.Session, r *discordgo.MessageReaction, added bool) {
	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	observability.GetMetrics().RecordMessageRead(observability.MessageTypeReaction)

	outcome := b.router.Route(context.Background(), service.ReactionEvent{
		MessageID: common.ParseSnowflake(r.MessageID),
		GuildID:   common.ParseSnowflake(r.GuildID),
		ChannelID: common.ParseSnowflake(r.ChannelID),
		UserID:    common.ParseSnowflake(r.UserID),
		Emoji:     r.Emoji.Name,
		Added:     added,
	})
	b.tournamentsFeature.HandleReactionOutcome(r.GuildID, outcome)
}

// handleChannelUpdate drops the cached trade classification of renamed channels
func (b *Bot) handleChannelUpdate(s *discordgo.Session, c *discordgo.ChannelUpdate) {
	if c.Channel != nil {
		b.trades.Forget(c.ID)
	}
}

// channelName looks channels up in the state cache before asking the API
func (b *Bot) channelName(s *discordgo.Session) func(string) (string, error) {
	return func(channelID string) (string, error) {
		if s.State != nil {
			if ch, err := s.State.Channel(channelID); err == nil {
				return ch.Name, nil
			}
		}
		ch, err := s.Channel(channelID)
		if err != nil {
			return "", err
		}
		return ch.Name, nil
	}
}

func (b *Bot) primaryPrefix() string {
	if len(b.config.CommandPrefixes) > 0 {
		return b.config.CommandPrefixes[0]
	}
	return "e!"
}

// limitArg reads an optional positive count from the first argument
func limitArg(args []string, fallback int) int {
	for _, a := range args {
		if n, err := strconv.Atoi(a); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
