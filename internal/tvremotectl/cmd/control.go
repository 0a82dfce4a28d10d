package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/wrale/webos-remote/api/types/v1"
	"github.com/wrale/webos-remote/internal/tvremotectl/util"
)

// newStatusCmd shows the device link state
func newStatusCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the TV connection status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}

			status, err := c.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("error getting status: %w", err)
			}

			return o.print(cmd, status, func(w io.Writer) error {
				tw := util.NewTabWriter(w)
				fmt.Fprintf(tw, "CONNECTED:\t%t\n", status.Connected)
				fmt.Fprintf(tw, "STATE:\t%s\n", status.State)
				fmt.Fprintf(tw, "TV:\t%s:%d\n", status.TVIP, status.TVPort)
				fmt.Fprintf(tw, "TIMESTAMP:\t%s\n", status.Timestamp.Format("2006-01-02 15:04:05"))
				return tw.Flush()
			})
		},
	}
}

// newConnectCmd starts a new connection attempt
func newConnectCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Start a new connection attempt to the TV",
		Long: `Ask the gateway to (re)connect to the TV. The command returns as soon as
the attempt has started; use "tvremotectl status" to follow it. The first
connection shows a pairing prompt on the TV that must be accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}

			res, err := c.Connect(cmd.Context())
			if err != nil {
				return fmt.Errorf("error connecting: %w", err)
			}

			return o.print(cmd, res, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, res.Message)
				return err
			})
		},
	}
}

// newVolumeCmd changes the volume
func newVolumeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:       "volume up|down|mute|unmute|set LEVEL",
		Short:     "Change the volume",
		ValidArgs: []string{"up", "down", "mute", "unmute", "set"},
		Example: `  # Turn the volume up one step
  tvremotectl volume up

  # Set an absolute level
  tvremotectl volume set 15`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := v1.VolumeRequest{Action: args[0]}
			if len(args) == 2 {
				if req.Action != "set" {
					return fmt.Errorf("volume %s takes no level", req.Action)
				}
				level, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid volume level %q: %w", args[1], err)
				}
				req.Level = &level
			}

			c, err := o.client()
			if err != nil {
				return err
			}

			res, err := c.Volume(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("error changing volume: %w", err)
			}

			return o.print(cmd, res, func(w io.Writer) error {
				if res.Level != nil {
					_, err := fmt.Fprintf(w, "Volume %s %d\n", res.Action, *res.Level)
					return err
				}
				_, err := fmt.Fprintf(w, "Volume %s\n", res.Action)
				return err
			})
		},
	}
}

// newChannelCmd changes the channel
func newChannelCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:       "channel up|down|set NUMBER",
		Short:     "Change the channel",
		ValidArgs: []string{"up", "down", "set"},
		Example: `  # Tune to a channel by number
  tvremotectl channel set 5-1`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := v1.ChannelRequest{Action: args[0]}
			if len(args) == 2 {
				if req.Action != "set" {
					return fmt.Errorf("channel %s takes no number", req.Action)
				}
				req.Number = v1.NewChannelNumber(args[1])
			}

			c, err := o.client()
			if err != nil {
				return err
			}

			res, err := c.Channel(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("error changing channel: %w", err)
			}

			return o.print(cmd, res, func(w io.Writer) error {
				if res.Number != nil {
					_, err := fmt.Fprintf(w, "Channel %s %s\n", res.Action, res.Number)
					return err
				}
				_, err := fmt.Fprintf(w, "Channel %s\n", res.Action)
				return err
			})
		},
	}
}

// newPowerCmd turns the TV on or off
func newPowerCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "power on|off",
		Short: "Turn the TV on or off",
		Long: `Turn the TV off, or on. Turning on sends a Wake-on-LAN packet and only
works when the gateway is configured with the TV's MAC address.`,
		ValidArgs: []string{"on", "off"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}

			res, err := c.Power(cmd.Context(), v1.PowerRequest{Action: args[0]})
			if err != nil {
				return fmt.Errorf("error changing power: %w", err)
			}

			return o.print(cmd, res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Power %s\n", res.Action)
				return err
			})
		},
	}
}

// newNavigateCmd sends a remote key
func newNavigateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "navigate DIRECTION",
		Short: "Send a navigation key",
		Long: `Send a remote control key to the TV. home opens the launcher; any other
value is sent upper-cased as a key code, e.g. up, down, left, right, enter
or back.`,
		ValidArgs: []string{"up", "down", "left", "right", "enter", "back", "home"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}

			res, err := c.Navigate(cmd.Context(), v1.NavigateRequest{Direction: args[0]})
			if err != nil {
				return fmt.Errorf("error sending key: %w", err)
			}

			return o.print(cmd, res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Sent %s\n", res.Direction)
				return err
			})
		},
	}
}

// newAppCmd launches an application
func newAppCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "app APP_ID",
		Short: "Launch an application",
		Long: `Launch an application on the TV. The short names netflix, youtube, prime,
disney, spotify and browser map to their webOS ids; any other value is used
as the webOS id directly.`,
		Example: `  tvremotectl app netflix
  tvremotectl app com.webos.app.livetv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}

			res, err := c.LaunchApp(cmd.Context(), v1.AppRequest{AppID: args[0]})
			if err != nil {
				return fmt.Errorf("error launching app: %w", err)
			}

			return o.print(cmd, res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Launched %s\n", res.AppID)
				return err
			})
		},
	}
}

// newInputCmd switches the external input
func newInputCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "input INPUT_ID",
		Short:   "Switch the external input",
		Example: `  tvremotectl input HDMI_1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}

			res, err := c.SwitchInput(cmd.Context(), v1.InputRequest{InputID: args[0]})
			if err != nil {
				return fmt.Errorf("error switching input: %w", err)
			}

			return o.print(cmd, res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Switched to %s\n", res.InputID)
				return err
			})
		},
	}
}

// newMessageCmd shows a toast notification
func newMessageCmd(o *options) *cobra.Command {
	var duration int

	cmd := &cobra.Command{
		Use:     "message TEXT...",
		Short:   "Show a notification on the TV",
		Example: `  tvremotectl message "Dinner is ready"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := v1.ToastRequest{Message: strings.Join(args, " ")}
			if cmd.Flags().Changed("duration") {
				req.Duration = &duration
			}

			c, err := o.client()
			if err != nil {
				return err
			}

			res, err := c.ShowMessage(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("error showing message: %w", err)
			}

			return o.print(cmd, res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Message shown: %s\n", res.Message)
				return err
			})
		},
	}

	cmd.Flags().IntVar(&duration, "duration", 0, "display duration in milliseconds (gateway default when unset)")
	return cmd
}

// newMessageMuteCmd mutes or unmutes and shows a toast
func newMessageMuteCmd(o *options) *cobra.Command {
	var (
		duration int
		unmute   bool
	)

	cmd := &cobra.Command{
		Use:   "message-mute TEXT...",
		Short: "Mute the TV and show a notification",
		Long: `Mute (or with --unmute, unmute) the TV, then show a notification. The
notification is sent by the gateway shortly after the command returns.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := v1.MessageMuteRequest{Message: strings.Join(args, " "), MuteAction: "mute"}
			if unmute {
				req.MuteAction = "unmute"
			}
			if cmd.Flags().Changed("duration") {
				req.Duration = &duration
			}

			c, err := o.client()
			if err != nil {
				return err
			}

			res, err := c.MessageMute(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("error sending message: %w", err)
			}

			return o.print(cmd, res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Volume %s, message queued: %s\n", res.MuteAction, res.Message)
				return err
			})
		},
	}

	cmd.Flags().IntVar(&duration, "duration", 0, "display duration in milliseconds (gateway default when unset)")
	cmd.Flags().BoolVar(&unmute, "unmute", false, "unmute instead of mute")
	return cmd
}
