package config

import "github.com/urfave/cli/v3"

// Zulip holds chat delivery configuration
type Zulip struct {
	BaseURL   string
	Stream    string
	BotEmail  string
	BotAPIKey string
}

// Flags returns CLI flags for Zulip configuration
func (c *Zulip) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "zulip-url",
			Usage:       "Zulip server base URL",
			Required:    true,
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("HERALD_ZULIP_URL"),
		},
		&cli.StringFlag{
			Name:        "zulip-stream",
			Usage:       "Destination stream for notifications",
			Value:       "commits",
			Destination: &c.Stream,
			Sources:     cli.EnvVars("HERALD_ZULIP_STREAM"),
		},
		&cli.StringFlag{
			Name:        "zulip-bot-email",
			Usage:       "Bot account email",
			Required:    true,
			Destination: &c.BotEmail,
			Sources:     cli.EnvVars("HERALD_ZULIP_BOT_EMAIL"),
		},
		&cli.StringFlag{
			Name:        "zulip-bot-api-key",
			Usage:       "Bot account API key",
			Required:    true,
			Destination: &c.BotAPIKey,
			Sources:     cli.EnvVars("HERALD_ZULIP_BOT_API_KEY"),
		},
	}
}
