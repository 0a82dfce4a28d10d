package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrale/webos-remote/internal/tvremotectl/client"
	"github.com/wrale/webos-remote/internal/tvremotectl/util"
)

type queryFunc func(c *client.Client, ctx context.Context) (json.RawMessage, error)

// newQueryCmd creates a command that prints a raw TV response
func newQueryCmd(o *options, use, short, what string, query queryFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}

			raw, err := query(c, cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing %s: %w", what, err)
			}
			return util.PrintRawJSON(cmd.OutOrStdout(), raw)
		},
	}
}

func newAppsCmd(o *options) *cobra.Command {
	return newQueryCmd(o, "apps", "List installed applications", "apps", (*client.Client).ListApps)
}

func newInputsCmd(o *options) *cobra.Command {
	return newQueryCmd(o, "inputs", "List external inputs", "inputs", (*client.Client).ListInputs)
}

func newSystemCmd(o *options) *cobra.Command {
	return newQueryCmd(o, "system", "Show TV system information", "system info", (*client.Client).SystemInfo)
}
