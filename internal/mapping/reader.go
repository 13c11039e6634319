// Package mapping lê arquivos CSV de mapeamento (classe, regex...) e compila
// as expressões em uma tabela ordenada.
//
// Formato esperado, uma classe por linha:
//
//	"<classe1>", "<regex1-1>", "<regex1-2>", ...
//	"<classe2>", "<regex2-1>", ...
//
// As aspas são importantes: uma regex pode conter vírgulas.
package mapping

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"regexp"
)

// Entry é um par (regex compilada, classe) vindo de uma coluna do arquivo.
type Entry struct {
	Pattern *regexp.Regexp
	Source  string
	Label   string
	Row     int
	Column  int
}

// Matches retorna true se a regex casa com o valor inteiro, não só com parte dele.
func (e Entry) Matches(value string) bool {
	loc := e.Pattern.FindStringIndex(value)
	return loc != nil && loc[0] == 0 && loc[1] == len(value)
}

// Table é a sequência de entradas na ordem linha, depois coluna.
type Table []Entry

// Load lê e compila o arquivo de mapeamento em path.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("arquivo de mapeamento não encontrado", "path", path, "error", err)
		return nil, &ResourceUnavailableError{Path: path, Err: err}
	}
	defer f.Close()

	table, err := Read(f, path)
	if err != nil {
		return nil, err
	}

	slog.Info("padrões lidos do arquivo", "path", path, "entries", len(table))
	return table, nil
}

// Read compila os padrões lidos de r. source identifica o recurso nas mensagens
// de erro. Nenhuma tabela parcial é retornada em caso de erro.
func Read(r io.Reader, source string) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var table Table
	row := 0
	for {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Error("erro ao ler arquivo de mapeamento", "path", source, "error", err)
			return nil, &ResourceUnavailableError{Path: source, Err: err}
		}
		row++

		if len(values) < 2 {
			continue
		}

		label := values[0]
		for i := 1; i < len(values); i++ {
			slog.Debug("compilando entrada", "pattern", values[i], "label", label)

			pattern, err := compile(values[i])
			if err != nil {
				return nil, &PatternCompileError{
					Path:    source,
					Row:     row,
					Column:  i + 1,
					Pattern: values[i],
					Err:     err,
				}
			}

			table = append(table, Entry{
				Pattern: pattern,
				Source:  values[i],
				Label:   label,
				Row:     row,
				Column:  i + 1,
			})
		}
	}

	return table, nil
}

// compile usa a semântica leftmost-longest: se existe casamento com o valor
// inteiro, ele é o casamento encontrado a partir da posição 0.
func compile(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	re.Longest()
	return re, nil
}
