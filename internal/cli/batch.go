package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vitoramaral10/regex-classifier/internal/batch"
	"github.com/vitoramaral10/regex-classifier/internal/classifier"
	"github.com/vitoramaral10/regex-classifier/internal/digest"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Processa um CSV linha a linha",
		Long: `Lê um CSV, aplica a função escolhida (classify ou hash) a uma coluna
e escreve cada linha com o resultado acrescentado como última coluna.
Campos iguais ao marcador de nulo (--null) são tratados como ausentes.`,
		Args: cobra.NoArgs,
		RunE: runBatch,
	}

	cmd.Flags().String("func", "classify", "função aplicada: classify ou hash")
	cmd.Flags().StringP("input", "i", "-", "arquivo CSV de entrada (- para stdin)")
	cmd.Flags().StringP("output", "o", "-", "arquivo CSV de saída (- para stdout)")
	cmd.Flags().Int("column", 0, "índice (a partir de 0) da coluna de entrada")
	cmd.Flags().Int("workers", 4, "linhas processadas em paralelo")
	cmd.Flags().Bool("progress", true, "mostra barra de progresso no stderr")
	cmd.Flags().Duration("load-retry", 30*time.Second, "tempo máximo tentando carregar o mapeamento (0 desativa)")

	viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	viper.BindPFlag("show_progress", cmd.Flags().Lookup("progress"))
	viper.BindPFlag("load_retry_max_elapsed", cmd.Flags().Lookup("load-retry"))

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			slog.Warn("interrupção recebida, encerrando")
			cancel()
		case <-ctx.Done():
		}
	}()

	funcName, _ := cmd.Flags().GetString("func")
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	column, _ := cmd.Flags().GetInt("column")

	log := slog.With("run", uuid.NewString(), "func", funcName)

	fn, err := rowFunc(ctx, funcName, log)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(cmd, inputPath)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(cmd, outputPath)
	if err != nil {
		return err
	}

	opts := batch.Options{
		Column:  column,
		Workers: cfg.Workers,
		Null:    cfg.NullValue,
	}

	var bar *progressbar.ProgressBar
	if cfg.ShowProgress {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("   Processando"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerPadding: "░",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
		opts.OnRow = func() { bar.Add(1) }
	}

	log.Info("iniciando processamento", "input", inputPath, "output", outputPath, "workers", cfg.Workers)
	stats, err := batch.Process(ctx, in, out, opts, fn)
	if bar != nil {
		bar.Finish()
	}
	if cerr := closeOut(); cerr != nil && err == nil {
		err = fmt.Errorf("erro ao fechar saída: %w", cerr)
	}
	if err != nil {
		log.Error("processamento interrompido", "rows", stats.Rows, "error", err)
		return err
	}

	log.Info("processamento concluído", "rows", stats.Rows, "nulls", stats.Nulls)
	return nil
}

func rowFunc(ctx context.Context, name string, log *slog.Logger) (batch.RowFunc, error) {
	switch name {
	case "classify":
		if cfg.MappingPath == "" {
			return nil, errMissingMapping
		}

		cls := classifier.New()
		policy := classifier.DefaultRetryPolicy()
		policy.MaxElapsed = cfg.LoadRetryMaxElapsed
		if err := cls.Preload(ctx, cfg.MappingPath, policy); err != nil {
			return nil, err
		}

		path := cfg.MappingPath
		return func(value *string) (*string, error) {
			return cls.Evaluate(&path, value)
		}, nil

	case "hash":
		if digest.ParseAlgorithm(cfg.HashAlgorithm) == digest.Unsupported {
			log.Warn("algoritmo de hash não suportado, todas as linhas ficarão nulas", "algorithm", cfg.HashAlgorithm)
		}

		algorithm, salt := cfg.HashAlgorithm, cfg.HashSalt
		return func(value *string) (*string, error) {
			return digest.Evaluate(value, &algorithm, &salt), nil
		}, nil

	default:
		return nil, fmt.Errorf("função desconhecida '%s' (use classify ou hash)", name)
	}
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func() error, error) {
	if path == "-" {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao abrir entrada: %w", err)
	}
	return f, f.Close, nil
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao criar saída: %w", err)
	}
	return f, f.Close, nil
}
