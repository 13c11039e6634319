package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vitoramaral10/regex-classifier/internal/digest"
)

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash VALOR...",
		Short: "Calcula o hash com salt de cada valor",
		Long: fmt.Sprintf(`Calcula o hash hexadecimal de valor+salt e imprime um por linha.
Algoritmos: %s. Um algoritmo desconhecido não gera resultado (imprime o marcador de nulo).`,
			strings.Join(digest.Supported(), ", ")),
		Args: cobra.MinimumNArgs(1),
		RunE: runHash,
	}
}

func runHash(cmd *cobra.Command, args []string) error {
	if digest.ParseAlgorithm(cfg.HashAlgorithm) == digest.Unsupported {
		slog.Warn("algoritmo de hash não suportado", "algorithm", cfg.HashAlgorithm)
	}

	out := cmd.OutOrStdout()
	for _, value := range args {
		sum, ok := digest.Sum(value, cfg.HashAlgorithm, cfg.HashSalt)
		if !ok {
			sum = cfg.NullValue
		}
		fmt.Fprintln(out, sum)
	}
	return nil
}
