package bot

import "github.com/bwmarrin/discordgo"

// Commands returns the slash command definitions the bot serves.
func Commands() []*discordgo.ApplicationCommand {
	var (
		adminPerm  int64 = discordgo.PermissionAdministrator
		memberPerm int64 = discordgo.PermissionSendMessages
		inDM             = false
	)
	player := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "playfab_or_user_name",
		Description: "PlayFab ID or player name",
		Required:    true,
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "ranks",
			Description:              "show all available ranks",
			DefaultMemberPermissions: &memberPerm,
			DMPermission:             &inDM,
		},
		{
			Name:                     "place",
			Description:              "show player leaderboard placement",
			DefaultMemberPermissions: &memberPerm,
			DMPermission:             &inDM,
			Options:                  []*discordgo.ApplicationCommandOption{player},
		},
		{
			Name:                     "mh",
			Description:              "show player match history",
			DefaultMemberPermissions: &memberPerm,
			DMPermission:             &inDM,
			Options:                  []*discordgo.ApplicationCommandOption{player},
		},
		{
			Name:                     "score",
			Description:              "show player score stats",
			DefaultMemberPermissions: &memberPerm,
			DMPermission:             &inDM,
			Options:                  []*discordgo.ApplicationCommandOption{player},
		},
		{
			Name:                     "mng",
			Description:              "Admin commands",
			DefaultMemberPermissions: &adminPerm,
			DMPermission:             &inDM,
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("reload", "republish the leaderboard",
					option(discordgo.ApplicationCommandOptionBoolean, "force_rewrite", "send fresh messages instead of editing", false)),
				subcommand("set_rank", "add or rename a rank",
					option(discordgo.ApplicationCommandOptionInteger, "score_gate", "score needed for the rank", true),
					option(discordgo.ApplicationCommandOptionString, "rank_name", "rank label", true)),
				subcommand("max_leaderboard", "set how many players the board shows",
					option(discordgo.ApplicationCommandOptionInteger, "max", "number of players", true)),
				subcommand("add_player", "add a player to the roster",
					option(discordgo.ApplicationCommandOptionString, "playfab_id", "PlayFab ID", true),
					option(discordgo.ApplicationCommandOptionString, "user_name", "display name", true)),
				subcommand("add_match", "record a match for a player",
					option(discordgo.ApplicationCommandOptionString, "playfab_or_user_name", "PlayFab ID or player name", true),
					option(discordgo.ApplicationCommandOptionInteger, "structure_damage_percent", "structure damage in percent", false),
					option(discordgo.ApplicationCommandOptionInteger, "score", "match score", false),
					option(discordgo.ApplicationCommandOptionInteger, "kills", "kills", false),
					option(discordgo.ApplicationCommandOptionInteger, "deaths", "deaths", false)),
				subcommand("metadata", "show data file statistics"),
			},
		},
	}
}

func subcommand(name, description string, opts ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options:     opts,
	}
}

func option(typ discordgo.ApplicationCommandOptionType, name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        typ,
		Name:        name,
		Description: description,
		Required:    required,
	}
}
