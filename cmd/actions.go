package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/mediarr/sensor"
)

var requestMediaType string

var actionDone = map[sensor.Action]string{
	sensor.ActionRequest: "Requested",
	sensor.ActionApprove: "Approved",
	sensor.ActionDeny:    "Declined",
}

// requestCmd represents the request command
var requestCmd = &cobra.Command{
	Use:   "request <sensor> <tmdb-id>",
	Short: "Request a title through a Seer sensor",
	Args:  cobra.ExactArgs(2),
	RunE:  runAction(sensor.ActionRequest),
}

// approveCmd represents the approve command
var approveCmd = &cobra.Command{
	Use:   "approve <sensor> <request-id>",
	Short: "Approve a pending Seer request",
	Args:  cobra.ExactArgs(2),
	RunE:  runAction(sensor.ActionApprove),
}

// denyCmd represents the deny command
var denyCmd = &cobra.Command{
	Use:   "deny <sensor> <request-id>",
	Short: "Decline a pending Seer request",
	Args:  cobra.ExactArgs(2),
	RunE:  runAction(sensor.ActionDeny),
}

func init() {
	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(denyCmd)

	requestCmd.Flags().StringVarP(&requestMediaType, "media-type", "t", "movie", "media type (movie or tv)")
}

func runAction(action sensor.Action) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		name, id := args[0], args[1]

		a, err := buildApp(ctx, cfg, appOptions{only: []string{name}})
		if err != nil {
			return err
		}
		defer a.Close()

		s, _ := a.scheduler.Get(name)
		req, err := s.Do(ctx, action, id, requestMediaType)
		if err != nil {
			return err
		}

		msg := fmt.Sprintf("✓ %s %s", actionDone[action], id)
		if req != nil && req.ID > 0 {
			msg += fmt.Sprintf(" (request %d)", req.ID)
		}
		fmt.Println(msg)
		return nil
	}
}
