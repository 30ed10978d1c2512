package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evlab/chargeprofile/core/model"
	"github.com/evlab/chargeprofile/core/schedule"
	"github.com/evlab/chargeprofile/infra/logger"
)

var planCmd = &cobra.Command{
	Use:   "plan <request.json>",
	Short: "Compute a charging plan from a request file",
	Args:  cobra.ExactArgs(1),
	RunE:  plan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func plan(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	var req model.ChargeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	svc := schedule.NewService(logger.New("plan-command"))
	if res := svc.Validate(req); !res.Valid {
		return fmt.Errorf("invalid request: %s", res.Reason)
	}
	resp, err := svc.Build(req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
