package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	v1 "github.com/wrale/webos-remote/api/types/v1"
	"github.com/wrale/webos-remote/internal/tvremotectl/util"
)

// newComboCmd runs a sequence of actions read from a file
func newComboCmd(o *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "combo -f FILE",
		Short: "Run a sequence of actions",
		Long: `Run a sequence of actions one after another. The file holds either a JSON
list of actions or an object with an "actions" list. Each action has a type
(volume, message, app or channel), its data and an optional delay in
milliseconds to wait after it. Use "-" to read from standard input.

The command waits until every action has run.`,
		Example: `  # combo.json
  # [
  #   {"type": "volume", "data": {"action": "mute"}, "delay": 500},
  #   {"type": "message", "data": {"message": "Movie time"}},
  #   {"type": "app", "data": {"appId": "netflix"}}
  # ]
  tvremotectl combo -f combo.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			actions, err := parseActions(data)
			if err != nil {
				return err
			}

			c, err := o.client()
			if err != nil {
				return err
			}

			res, err := c.Combo(cmd.Context(), actions)
			if err != nil {
				return fmt.Errorf("error running combo: %w", err)
			}

			return o.print(cmd, res, func(w io.Writer) error {
				tw := util.NewTabWriter(w)
				fmt.Fprintln(tw, "STEP\tACTION\tSUCCESS\tERROR")
				for i, r := range res.Results {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, r.Action, util.YesNo(r.Success), r.Error)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "file with the actions, - for stdin (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

// parseActions accepts a bare list or an {"actions": [...]} wrapper
func parseActions(data []byte) ([]v1.ComboAction, error) {
	data = bytes.TrimSpace(data)

	var actions []v1.ComboAction
	if len(data) > 0 && data[0] == '{' {
		var wrapper struct {
			Actions []v1.ComboAction `json:"actions"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("invalid combo file: %w", err)
		}
		actions = wrapper.Actions
	} else if err := json.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("invalid combo file: %w", err)
	}

	if len(actions) == 0 {
		return nil, fmt.Errorf("combo file contains no actions")
	}
	return actions, nil
}

// newShutdownCmd schedules an announcement sequence ending in power off
func newShutdownCmd(o *options) *cobra.Command {
	var (
		fast   bool
		custom v1.CustomMessages
	)

	cmd := &cobra.Command{
		Use:   "shutdown",
		Short: "Schedule the shutdown announcement sequence",
		Long: `Schedule three announcements followed by power off. The standard sequence
shows messages at 0s, 60s and 120s and turns the TV off at 125s. --fast runs
the same sequence at 0s, 10s, 20s and 30s for testing.

The texts of the standard sequence can be replaced with --first, --second
and --third. The command returns as soon as the sequence is scheduled.`,
		Example: `  tvremotectl shutdown --third "Good night!"
  tvremotectl shutdown --fast`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}

			var res *v1.ShutdownResponse
			if fast {
				if custom != (v1.CustomMessages{}) {
					return fmt.Errorf("custom messages cannot be used with --fast")
				}
				res, err = c.ShutdownFast(cmd.Context())
			} else {
				var messages *v1.CustomMessages
				if custom != (v1.CustomMessages{}) {
					messages = &custom
				}
				res, err = c.Shutdown(cmd.Context(), messages)
			}
			if err != nil {
				return fmt.Errorf("error scheduling shutdown: %w", err)
			}

			return o.print(cmd, res, func(w io.Writer) error {
				fmt.Fprintf(w, "%s (plan %s)\n", res.Message, res.PlanID)
				tw := util.NewTabWriter(w)
				fmt.Fprintln(tw, "TIME\tACTION")
				for _, e := range res.Schedule {
					fmt.Fprintf(tw, "%s\t%s\n", e.Time, e.Action)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&fast, "fast", false, "use the short test timings")
	cmd.Flags().StringVar(&custom.First, "first", "", "text of the first announcement")
	cmd.Flags().StringVar(&custom.Second, "second", "", "text of the second announcement")
	cmd.Flags().StringVar(&custom.Third, "third", "", "text of the last announcement")
	return cmd
}

// newCancelShutdownCmd shows the cancellation notice
func newCancelShutdownCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-shutdown",
		Short: "Announce that the shutdown is cancelled",
		Long: `Show the cancellation notice on the TV. Steps of a sequence that is
already scheduled still run; this only informs the viewer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}

			res, err := c.CancelShutdown(cmd.Context())
			if err != nil {
				return fmt.Errorf("error cancelling shutdown: %w", err)
			}

			return o.print(cmd, res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s\nNote: %s\n", res.Message, res.Note)
				return err
			})
		},
	}
}
