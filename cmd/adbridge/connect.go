package main

import (
	"bufio"
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/adbridge/adbridge/internal/providers"
)

var (
	connectName         string
	connectAccountID    string
	connectPixelID      string
	connectLocationID   string
	connectPropertyID   string
	connectCustomerID   string
	connectSecretsStdin bool
)

var connectCmd = &cobra.Command{
	Use:   "connect <provider>",
	Short: "Validate credentials and connect a provider integration.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConnect(cmd, args[0])
	},
}

func init() {
	connectCmd.Flags().StringVar(&connectName, "name", "", "Display name for the integration")
	connectCmd.Flags().StringVar(&connectAccountID, "account-id", "", "Ad account id")
	connectCmd.Flags().StringVar(&connectPixelID, "pixel-id", "", "Pixel id (optional)")
	connectCmd.Flags().StringVar(&connectLocationID, "location-id", "", "Location id")
	connectCmd.Flags().StringVar(&connectPropertyID, "property-id", "", "Analytics property id (optional)")
	connectCmd.Flags().StringVar(&connectCustomerID, "customer-id", "", "Customer id")
	connectCmd.Flags().BoolVar(&connectSecretsStdin, "secrets-stdin", false, "Read secret credentials from stdin, one per line")
}

func runConnect(cmd *cobra.Command, kind string) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}

	creds := providers.CredentialSet{
		AccountID:  connectAccountID,
		PixelID:    connectPixelID,
		LocationID: connectLocationID,
		PropertyID: connectPropertyID,
		CustomerID: connectCustomerID,
	}
	if err := fillSecrets(cmd, kind, &creds); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	summary, err := deps.orch.Connect(ctx, deps.session, kind, creds, connectName)
	if err != nil {
		return err
	}

	cmd.Printf("connected %s (%s)\n", summary.Integration.Name, summary.Integration.ID)
	cmd.Printf("permission level: %s\n", summary.PermissionLevel)
	if len(summary.Capabilities) > 0 {
		cmd.Printf("capabilities: %s\n", strings.Join(summary.Capabilities, ", "))
	}
	for _, limitation := range summary.Limitations {
		cmd.Printf("limitation: %s\n", limitation)
	}
	for _, step := range summary.NextSteps.Immediate {
		cmd.Printf("next: %s\n", step)
	}
	for _, step := range summary.NextSteps.Recommended {
		cmd.Printf("recommended: %s\n", step)
	}
	for _, step := range summary.NextSteps.Advanced {
		cmd.Printf("advanced: %s\n", step)
	}
	return nil
}

type secretPrompt struct {
	label string
	set   func(*providers.CredentialSet, string)
}

func secretPromptsFor(kind string) []secretPrompt {
	switch kind {
	case "facebook_ads":
		return []secretPrompt{
			{"Access token", func(c *providers.CredentialSet, v string) { c.AccessToken = v }},
		}
	case "google_ads":
		return []secretPrompt{
			{"OAuth refresh token", func(c *providers.CredentialSet, v string) { c.AccessToken = v }},
			{"Developer token", func(c *providers.CredentialSet, v string) { c.APIKey = v }},
		}
	case "gohighlevel", "klaviyo":
		return []secretPrompt{
			{"API key", func(c *providers.CredentialSet, v string) { c.APIKey = v }},
		}
	default:
		return []secretPrompt{
			{"Secret credential", func(c *providers.CredentialSet, v string) { c.AccessToken = v }},
		}
	}
}

// fillSecrets collects secret credentials without ever taking them as
// flags: a terminal gets hidden prompts, scripts use --secrets-stdin.
func fillSecrets(cmd *cobra.Command, kind string, creds *providers.CredentialSet) error {
	prompts := secretPromptsFor(kind)

	if connectSecretsStdin {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for _, prompt := range prompts {
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return err
				}
				return errors.New("not enough secret lines on stdin")
			}
			value := strings.TrimRight(scanner.Text(), "\r\n")
			if value == "" {
				return errors.New("empty secret on stdin")
			}
			prompt.set(creds, value)
		}
		return nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal; use --secrets-stdin")
	}

	for _, prompt := range prompts {
		cmd.Printf("%s: ", prompt.label)
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err != nil {
			return err
		}
		if len(secret) == 0 {
			return errors.New(strings.ToLower(prompt.label) + " is empty")
		}
		prompt.set(creds, string(secret))
	}
	return nil
}
