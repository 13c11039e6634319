package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vitoramaral10/regex-classifier/internal/classifier"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify VALOR...",
		Short: "Classifica valores usando o arquivo de mapeamento",
		Long: `Classifica cada valor informado e imprime uma classe por linha.
Valores que não casam com nenhum padrão são impressos inalterados.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	if cfg.MappingPath == "" {
		return errMissingMapping
	}

	cls := classifier.New()
	out := cmd.OutOrStdout()
	for _, value := range args {
		label, err := cls.Classify(cfg.MappingPath, value)
		if err != nil {
			return fmt.Errorf("erro ao classificar '%s': %w", value, err)
		}
		fmt.Fprintln(out, label)
	}
	return nil
}
