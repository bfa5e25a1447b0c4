package main

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"

	"leaderboard-bot/internal/board"
	"leaderboard-bot/internal/bot"
	"leaderboard-bot/internal/config"
	"leaderboard-bot/internal/roster"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:   "leaderbot",
	Short: "Discord bot that publishes a match leaderboard",
	Long: `leaderbot keeps a ranked player leaderboard in a Discord channel.

It answers /ranks, /place, /mh and /score for everyone and /mng for
administrators in the config channel. The board is republished when the
roster changes, on a fixed interval and when the data file is edited.

Settings come from the environment (D_TOKEN, LEADERBOARD_CHANNEL,
CONFIG_BOT_CHANNEL, DATA_FILE, ...), optionally loaded from .env.`,
	Version:      Version,
	SilenceUsage: true,
	RunE:         runBot,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(
		&envFiles, "env-file", nil, "dotenv files to load (default: .env)",
	)

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(ranksCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(envFiles...)
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := cfg.NewLogger()

	ids, err := roster.NewIDRule(cfg.PlayfabIDPattern)
	if err != nil {
		return err
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	store := roster.NewStore(cfg.DataFile, logger)
	pub := board.NewPublisher(board.PublisherConfig{
		Messenger: dg,
		ChannelID: cfg.LeaderboardChannel,
		IDFile:    cfg.MessageIDFile,
		Logger:    logger,
	})
	b := bot.New(bot.Config{
		Session:            dg,
		Store:              store,
		Publisher:          pub,
		IDs:                ids,
		LeaderboardChannel: cfg.LeaderboardChannel,
		ConfigChannel:      cfg.ConfigBotChannel,
		RefreshInterval:    cfg.RefreshInterval,
		WatchDataFile:      cfg.WatchDataFile,
		Logger:             logger,
	})

	logger.Info("starting leaderbot",
		"version", Version,
		"data_file", store.Path(),
		"leaderboard_channel", cfg.LeaderboardChannel,
		"config_channel", cfg.ConfigBotChannel,
		"refresh", cfg.RefreshInterval,
	)
	if err := b.Run(ctx, dg); err != nil {
		return err
	}
	logger.Info("leaderbot stopped")
	return nil
}
