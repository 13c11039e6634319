// Package batch aplica uma função linha a linha sobre um CSV, acrescentando o
// resultado como última coluna.
package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// DefaultNull é a representação textual de valor ausente (a mesma do Hive).
const DefaultNull = `\N`

const chunkSize = 512

// RowFunc calcula o resultado de um valor. value nil significa ausente; um
// resultado nil é escrito como Options.Null.
type RowFunc func(value *string) (*string, error)

// Options configura Process.
type Options struct {
	// Column é o índice (a partir de 0) da coluna de entrada.
	Column int
	// Workers limita as linhas processadas em paralelo. Zero ou negativo usa 1.
	Workers int
	// Null é o marcador de valor ausente. Vazio usa DefaultNull.
	Null string
	// OnRow é chamado uma vez por linha processada, possivelmente de várias
	// goroutines ao mesmo tempo.
	OnRow func()
}

// Stats resume uma execução.
type Stats struct {
	Rows  int
	Nulls int
}

// Process lê registros de r, aplica fn à coluna escolhida e escreve em w os
// registros com o resultado no final, na mesma ordem da entrada.
func Process(ctx context.Context, r io.Reader, w io.Writer, opts Options, fn RowFunc) (Stats, error) {
	if opts.Column < 0 {
		return Stats{}, fmt.Errorf("coluna inválida: %d", opts.Column)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Null == "" {
		opts.Null = DefaultNull
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	writer := csv.NewWriter(w)

	var stats Stats
	chunk := make([][]string, 0, chunkSize)
	for {
		record, err := reader.Read()
		if err != nil && !errors.Is(err, io.EOF) {
			return stats, fmt.Errorf("erro ao ler linha %d: %w", stats.Rows+len(chunk)+1, err)
		}
		if record != nil {
			chunk = append(chunk, record)
		}

		if len(chunk) == chunkSize || (errors.Is(err, io.EOF) && len(chunk) > 0) {
			if cerr := ctx.Err(); cerr != nil {
				return stats, cerr
			}
			if perr := processChunk(chunk, stats.Rows, writer, opts, fn, &stats); perr != nil {
				return stats, perr
			}
			chunk = chunk[:0]
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return stats, fmt.Errorf("erro ao escrever saída: %w", err)
	}

	slog.Debug("lote processado", "rows", stats.Rows, "nulls", stats.Nulls)
	return stats, nil
}

func processChunk(chunk [][]string, offset int, writer *csv.Writer, opts Options, fn RowFunc, stats *Stats) error {
	results := make([]*string, len(chunk))

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, record := range chunk {
		i, record := i, record
		g.Go(func() error {
			out, err := fn(column(record, opts))
			if err != nil {
				return fmt.Errorf("erro na linha %d: %w", offset+i+1, err)
			}
			results[i] = out
			if opts.OnRow != nil {
				opts.OnRow()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, record := range chunk {
		value := opts.Null
		if results[i] != nil {
			value = *results[i]
		} else {
			stats.Nulls++
		}
		if err := writer.Write(append(record, value)); err != nil {
			return fmt.Errorf("erro ao escrever linha %d: %w", offset+i+1, err)
		}
		stats.Rows++
	}
	writer.Flush()
	return writer.Error()
}

func column(record []string, opts Options) *string {
	if opts.Column >= len(record) {
		return nil
	}
	value := record[opts.Column]
	if value == opts.Null {
		return nil
	}
	return &value
}
