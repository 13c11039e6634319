package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vitoramaral10/regex-classifier/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var errMissingMapping = errors.New("arquivo de mapeamento não informado (use --mapping ou RCLASSIFIER_MAPPING_PATH)")

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "regex-classifier",
		Short: "Classifica valores usando regex de um arquivo CSV",
		Long: `regex-classifier classifica valores de acordo com um arquivo CSV de
mapeamento no formato:

  "<classe1>", "<regex1-1>", "<regex1-2>", ...
  "<classe2>", "<regex2-1>", ...

O primeiro padrão (linha, depois coluna) que casa com o valor inteiro define
a classe. Se nenhum casar, o valor original é retornado.

Também calcula hashes com salt (md5, sha1, sha256, sha512).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	// Flags globais
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "arquivo de configuração (padrão: ~/.config/regex-classifier/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "nível de log (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("mapping", "", "arquivo CSV com os pares (classe, regex...)")
	rootCmd.PersistentFlags().String("algorithm", "sha256", "algoritmo de hash (md5, sha1, sha256, sha512)")
	rootCmd.PersistentFlags().String("salt", "", "salt concatenado ao valor antes do hash")
	rootCmd.PersistentFlags().String("null", `\N`, "marcador de valor ausente")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("mapping_path", rootCmd.PersistentFlags().Lookup("mapping"))
	viper.BindPFlag("hash_algorithm", rootCmd.PersistentFlags().Lookup("algorithm"))
	viper.BindPFlag("hash_salt", rootCmd.PersistentFlags().Lookup("salt"))
	viper.BindPFlag("null_value", rootCmd.PersistentFlags().Lookup("null"))

	// Subcomandos
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newHashCmd())
	rootCmd.AddCommand(newBatchCmd())

	return rootCmd
}

func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("erro na configuração: %w", err)
	}

	// Setup logging
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	return nil
}
