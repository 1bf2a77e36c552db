package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"laserlink/internal/app"
	"laserlink/internal/config"
	"laserlink/internal/infrastructure/logger"
	"laserlink/internal/ui/tui"
	"laserlink/pkg/linkport"
)

// runUI подменяется в тестах.
var runUI = tui.Run

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "laserterm",
		Short: "Terminal console for the laser link device",
		Long: `laserterm connects to the laser module over a serial port (9600 baud)
and sends CAL, TX and RX commands. Replies are shown in the log pane.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(v, cfgFile)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./laserterm.yaml)")
	flags.String("port", "", "port to select on start")
	flags.String("encoding", linkport.DefaultEncoding, "charset of device lines")
	flags.Bool("simulate", false, "use emulated ports instead of real hardware")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("log-file", config.Default().LogFile, "diagnostics log file")

	bind := map[string]string{
		config.KeyPort:     "port",
		config.KeyEncoding: "encoding",
		config.KeySimulate: "simulate",
		config.KeyDebug:    "debug",
		config.KeyLogFile:  "log-file",
	}
	for key, flag := range bind {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	cmd.AddCommand(newPortsCmd(v, &cfgFile))
	return cmd
}

func runConsole(v *viper.Viper, cfgFile string) error {
	settings, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	// stdout занят интерфейсом, поэтому журнал диагностики пишем в файл
	log, closeLog, err := logger.NewJSONFile(settings.LogFile, settings.Debug)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	log.Info("laserterm starting (simulate=%v, encoding=%s)", settings.Simulate, settings.Encoding)

	a, err := app.New(app.Options{Settings: settings, Logger: log})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := runUI(a.Controller, settings.Port); err != nil {
		log.Error("terminal UI: %v", err)
		return err
	}
	log.Info("laserterm stopped")
	return nil
}
