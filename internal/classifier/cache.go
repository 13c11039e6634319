package classifier

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vitoramaral10/regex-classifier/internal/mapping"
)

// Loader carrega a tabela de padrões de um recurso.
type Loader func(path string) (mapping.Table, error)

type loaded struct {
	source string
	table  mapping.Table
}

// Cache guarda a tabela compilada de um classificador. É preenchido uma única
// vez e nunca invalidado; uma carga com erro deixa o cache vazio.
type Cache struct {
	mu   sync.Mutex
	slot atomic.Pointer[loaded]
}

// NewCache cria um cache vazio.
func NewCache() *Cache {
	return &Cache{}
}

// Get retorna a tabela carregada, ou false se ainda não houve carga.
func (c *Cache) Get() (mapping.Table, bool) {
	l := c.slot.Load()
	if l == nil {
		return nil, false
	}
	return l.table, true
}

// Source retorna o recurso de onde a tabela foi carregada.
func (c *Cache) Source() string {
	if l := c.slot.Load(); l != nil {
		return l.source
	}
	return ""
}

// GetOrLoad retorna a tabela em cache ou executa load uma única vez, mesmo com
// chamadas concorrentes.
func (c *Cache) GetOrLoad(path string, load Loader) (mapping.Table, error) {
	if l := c.slot.Load(); l != nil {
		if l.source != path {
			slog.Debug("usando tabela já carregada de outro arquivo", "requested", path, "loaded", l.source)
		}
		return l.table, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if l := c.slot.Load(); l != nil {
		return l.table, nil
	}

	table, err := load(path)
	if err != nil {
		return nil, err
	}

	c.slot.Store(&loaded{source: path, table: table})
	return table, nil
}
