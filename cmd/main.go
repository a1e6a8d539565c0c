package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "appointment-service",
	Short: "Запись граждан на прием в государственные отделы",
	Long: `SMC-AppointmentService выдает свободные слоты услуг, записывает граждан на прием
и ведет жизненный цикл записи (подтверждение, прием, отмена, перенос, отзыв).`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "путь к файлу конфигурации")

	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newNotifyWorkerCommand(),
		newTokenCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
