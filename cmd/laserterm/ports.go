package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"laserlink/internal/app"
	"laserlink/internal/config"
)

func newPortsCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports with USB details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(v, *cfgFile)
			if err != nil {
				return err
			}
			a, err := app.New(app.Options{Settings: settings})
			if err != nil {
				return err
			}
			defer a.Close()

			infos, err := a.Connection.DescribePorts()
			if err != nil {
				return fmt.Errorf("list ports: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintln(out, "No ports found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PORT\tUSB\tVID:PID\tSERIAL\tPRODUCT")
			for _, p := range infos {
				usb, ids := "no", "-"
				if p.IsUSB {
					usb = "yes"
					ids = p.VID + ":" + p.PID
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, usb, ids, dash(p.SerialNumber), dash(p.Product))
			}
			return w.Flush()
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
