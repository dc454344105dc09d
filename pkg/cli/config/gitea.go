package config

import "github.com/urfave/cli/v3"

// Gitea holds upstream webhook configuration
type Gitea struct {
	WebhookSecret string
}

// Flags returns CLI flags for Gitea configuration
func (c *Gitea) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gitea-webhook-secret",
			Usage:       "Shared secret for webhook signature verification (empty disables verification)",
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("HERALD_GITEA_WEBHOOK_SECRET"),
		},
	}
}
