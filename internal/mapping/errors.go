package mapping

import "fmt"

// ResourceUnavailableError indica que o arquivo de mapeamento não pôde ser
// aberto ou lido (inexistente, sem permissão, CSV malformado).
type ResourceUnavailableError struct {
	Path string
	Err  error
}

func (e *ResourceUnavailableError) Error() string {
	return fmt.Sprintf("arquivo de mapeamento indisponível [%s]: %v", e.Path, e.Err)
}

func (e *ResourceUnavailableError) Unwrap() error {
	return e.Err
}

// PatternCompileError indica uma coluna que não é uma expressão regular válida.
// Row e Column começam em 1.
type PatternCompileError struct {
	Path    string
	Row     int
	Column  int
	Pattern string
	Err     error
}

func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("regex inválida em [%s] linha %d coluna %d %q: %v",
		e.Path, e.Row, e.Column, e.Pattern, e.Err)
}

func (e *PatternCompileError) Unwrap() error {
	return e.Err
}
