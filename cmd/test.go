package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/cobra"
)

var testAttempts uint

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test [sensor...]",
	Short: "Test connections to the configured providers",
	Long:  `Test the connection of each configured sensor's provider, retrying transient failures.`,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().UintVar(&testAttempts, "attempts", 3, "connection attempts per provider")
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := buildApp(ctx, cfg, appOptions{only: args})
	if err != nil {
		return err
	}
	defer a.Close()

	var failed int
	for _, s := range a.scheduler.Sensors() {
		p := a.providers[s.Name()]
		fmt.Printf("Testing %s (%s)...\n", s.Name(), s.Kind())

		err := retry.Do(
			func() error {
				ctx, cancel := context.WithTimeout(ctx, cfg.Poll.Timeout)
				defer cancel()
				return p.tester.TestConnection(ctx)
			},
			retry.Context(ctx),
			retry.Attempts(testAttempts),
			retry.Delay(time.Second),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(n uint, err error) {
				logger.Debug().Err(err).Uint("attempt", n+1).Str("sensor", s.Name()).Msg("Retrying connection")
			}),
		)
		if err != nil {
			failed++
			fmt.Printf("✗ %s: %v\n", s.Name(), err)
			continue
		}
		fmt.Printf("✓ %s connection successful!\n", s.Name())
	}

	if a.library.Len() > 0 {
		fmt.Printf("\nReading libraries for hide_existing...\n")
		if err := a.library.Refresh(ctx); err != nil {
			fmt.Printf("✗ Library snapshot: %v\n", err)
		} else if snap, err := a.library.Snapshot(ctx); err == nil {
			fmt.Printf("✓ Library snapshot: %d titles\n", snap.Len())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d provider(s) failed the connection test", failed)
	}
	return nil
}
