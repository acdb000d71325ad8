package contract

import (
	"fmt"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/langcheck/langcheck/selector"
)

var log = commonlog.GetLogger("langcheck.contract")

// ---------------------------------------------------------------------------
// Registry: the instrumentation boundary
// ---------------------------------------------------------------------------

// Registry is the registration table the source-rewriting tool populates at
// setup time: language types by name, contracts by callable identity. Looked
// up before each guarded call.
type Registry struct {
	mu        sync.RWMutex
	types     map[string]*LanguageType
	contracts map[string]*Contract
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:     make(map[string]*LanguageType),
		contracts: make(map[string]*Contract),
	}
}

// DeclareType compiles rule source text and registers the resulting language
// type. Redeclaring a name is a setup error.
func (r *Registry) DeclareType(name, rules string) (*LanguageType, error) {
	t, err := Lang(name, rules)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[name]; ok {
		return nil, fmt.Errorf("language type %s is already declared", name)
	}
	r.types[name] = t
	return t, nil
}

// RegisterType registers an already-constructed language type (built-ins,
// composed grammars).
func (r *Registry) RegisterType(t *LanguageType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[t.Name]; ok {
		return fmt.Errorf("language type %s is already declared", t.Name)
	}
	r.types[t.Name] = t
	return nil
}

// Type looks up a declared language type by name.
func (r *Registry) Type(name string) (*LanguageType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Declare validates and registers a contract under its callable identity.
// Declared selectors are vetted against their grammars: a selector that can
// never match is a setup error; a statically non-unique one is the grammar
// author's obligation and only logged.
func (r *Registry) Declare(c *Contract) (*Contract, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	for _, tp := range c.Selectors {
		path, err := selector.ParsePath(tp.Path)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", c.Name, err)
		}
		warning, err := selector.Vet(path, tp.Type.Grammar)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", c.Name, err)
		}
		if warning != "" {
			log.Warningf("contract %s: %s", c.Name, warning)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contracts[c.Name]; ok {
		return nil, fmt.Errorf("contract %s is already declared", c.Name)
	}
	r.contracts[c.Name] = c
	return c, nil
}

// Contract looks up a declared contract by callable identity.
func (r *Registry) Contract(name string) (*Contract, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[name]
	return c, ok
}

// CheckCall looks up the contract for a callable identity and runs the full
// call machine against the given arguments.
func (r *Registry) CheckCall(name string, args []string) (*Result, error) {
	c, ok := r.Contract(name)
	if !ok {
		return nil, fmt.Errorf("no contract declared for %s", name)
	}
	return CheckCall(c, args), nil
}
