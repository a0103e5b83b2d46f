// Outbound dialer CLI: places a call that connects the callee to the
// voice application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sukanya1426/Voice-Agent/internal/config"
	"github.com/sukanya1426/Voice-Agent/internal/dialer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		to   string
		from string
	)

	cmd := &cobra.Command{
		Use:           "outbound",
		Short:         "Place an outbound call through the voice agent",
		Long:          "Places an outbound call and connects the callee to the configured voice application.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDial(cmd, to, from)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "number to call, in E.164 format (required)")
	cmd.Flags().StringVar(&from, "from", "", "caller ID number, in E.164 format (required)")
	cobra.CheckErr(cmd.MarkFlagRequired("to"))
	cobra.CheckErr(cmd.MarkFlagRequired("from"))

	return cmd
}

func runDial(cmd *cobra.Command, to, from string) error {
	if err := godotenv.Load(); err == nil {
		cmd.Println("Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		return reportDialError(cmd, err)
	}

	if !dialer.ValidE164(to) {
		return reportDialError(cmd, fmt.Errorf("--to %q: %w", to, dialer.ErrInvalidNumber))
	}
	if !dialer.ValidE164(from) {
		return reportDialError(cmd, fmt.Errorf("--from %q: %w", from, dialer.ErrInvalidNumber))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	cmd.Printf("Calling %s from %s...\n", to, from)

	client := dialer.New(cfg.Fonoster)
	call, err := client.CreateCall(ctx, dialer.Request{
		From:   from,
		To:     to,
		AppRef: cfg.Fonoster.AppRef,
		Metadata: map[string]string{
			"purpose": "outbound",
		},
	})
	if err != nil {
		return reportDialError(cmd, err)
	}

	cmd.Printf("Call created: %s (status: %s)\n", call.CallID, call.Status)
	return nil
}

// reportDialError prints the error with a hint for the known failure
// categories before returning it.
func reportDialError(cmd *cobra.Command, err error) error {
	cmd.PrintErrf("Error: %v\n", err)

	switch {
	case errors.Is(err, dialer.ErrInvalidNumber):
		cmd.PrintErrln("Hint: numbers must include the country code, e.g. +15551234567.")
	case errors.Is(err, dialer.ErrMissingCredentials):
		cmd.PrintErrln("Hint: set FONOSTER_ACCESS_KEY_ID, FONOSTER_API_KEY and FONOSTER_API_SECRET.")
	case errors.Is(err, dialer.ErrMissingApplication):
		cmd.PrintErrln("Hint: set FONOSTER_APP_REF to your voice application reference.")
	case errors.Is(err, dialer.ErrAuthentication):
		cmd.PrintErrln("Hint: the platform rejected the credentials; verify the API key and secret.")
	case errors.Is(err, dialer.ErrApplicationNotFound):
		cmd.PrintErrln("Hint: no voice application matches FONOSTER_APP_REF.")
	}
	return err
}
