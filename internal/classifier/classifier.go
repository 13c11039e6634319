// Package classifier classifica valores em classes usando a tabela de regex
// de um arquivo de mapeamento. O primeiro padrão que casa com o valor inteiro
// define a classe; sem nenhum casamento, o valor original é retornado.
package classifier

import (
	"github.com/vitoramaral10/regex-classifier/internal/mapping"
)

// Classifier mantém a tabela de padrões carregada na primeira chamada e a
// reutiliza durante toda a vida da instância.
type Classifier struct {
	load  Loader
	cache *Cache
}

// Option configura um Classifier.
type Option func(*Classifier)

// WithLoader substitui a função que carrega o arquivo de mapeamento.
func WithLoader(load Loader) Option {
	return func(c *Classifier) {
		c.load = load
	}
}

// New cria um classificador com o cache vazio.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		load:  mapping.Load,
		cache: NewCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify retorna a classe do primeiro padrão que casa com input inteiro, ou
// input inalterado se nenhum casar. Erros de carga do mapeamento são
// repassados e a próxima chamada tenta carregar de novo.
func (c *Classifier) Classify(path, input string) (string, error) {
	table, err := c.cache.GetOrLoad(path, c.load)
	if err != nil {
		return "", err
	}
	return classify(table, input), nil
}

// Evaluate é a versão por linha de Classify: se path ou input estiver ausente
// (nil), não há resultado.
func (c *Classifier) Evaluate(path, input *string) (*string, error) {
	if path == nil || input == nil {
		return nil, nil
	}

	label, err := c.Classify(*path, *input)
	if err != nil {
		return nil, err
	}
	return &label, nil
}

// Table garante a carga e retorna a tabela. Não deve ser modificada.
func (c *Classifier) Table(path string) (mapping.Table, error) {
	return c.cache.GetOrLoad(path, c.load)
}

// Loaded indica se a tabela já está em cache.
func (c *Classifier) Loaded() bool {
	_, ok := c.cache.Get()
	return ok
}

func classify(table mapping.Table, input string) string {
	for _, entry := range table {
		if entry.Matches(input) {
			return entry.Label
		}
	}
	return input
}
