package qnty

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-logr/logr"
)

// ============================================================
// Registry
// ============================================================

// Registry maps unit aliases to Units. It is assembled once by a
// RegistryBuilder and is read-only afterwards, except for the cache of derived
// result units that Quantity multiplication fills lazily.
type Registry struct {
	exact     map[string]*Unit    // symbols and names, case-sensitive
	aliases   map[string]*Unit    // NormalizeAlias keys
	units     []*Unit             // registration order
	preferred map[Signature]*Unit // display unit per dimension
	coherent  map[Signature]*Unit // registered SI-coherent unit per dimension
	derived   map[Signature]*Unit // lazily built result units
	mu        sync.Mutex          // guards derived

	log logr.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for synonym and derived-unit events.
func WithRegistryLogger(l logr.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// UnitDef is one row of a unit catalog.
type UnitDef struct {
	Name      string
	Symbol    string
	Sig       Signature
	Factor    float64
	Offset    float64
	Aliases   []string
	Preferred bool // default display unit for Sig
}

// Unit builds the Unit described by the row.
func (d UnitDef) Unit() *Unit {
	return NewAffineUnit(d.Name, d.Symbol, d.Sig, d.Factor, d.Offset)
}

// ============================================================
// Builder
// ============================================================

// RegistryBuilder accumulates registrations and hands out the Registry once.
type RegistryBuilder struct {
	reg   *Registry
	built bool
}

func NewRegistryBuilder(opts ...RegistryOption) *RegistryBuilder {
	r := &Registry{
		exact:     map[string]*Unit{},
		aliases:   map[string]*Unit{},
		preferred: map[Signature]*Unit{},
		coherent:  map[Signature]*Unit{},
		derived:   map[Signature]*Unit{},
		log:       logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return &RegistryBuilder{reg: r}
}

// Register adds u under its name, symbol and the given aliases. A normalized
// alias that already belongs to a different unit with the same dimension and
// name but a different SI factor is a data error; any other clash keeps the
// first unit and is treated as a synonym. A rejected registration leaves the
// builder unchanged.
func (b *RegistryBuilder) Register(u *Unit, aliases ...string) error {
	if b.built {
		return newError(CodeInvalidUnit, "registry already built; cannot register %s", u.name)
	}
	if err := u.validate(); err != nil {
		return err
	}
	r := b.reg

	exactKeys := []string{u.name}
	if u.symbol != "" {
		exactKeys = append(exactKeys, u.symbol)
	}
	all := append(append([]string{u.name, u.symbol}, u.aliases...), aliases...)
	normKeys := make([]string, 0, len(all))
	seen := map[string]bool{}
	for _, a := range all {
		k := NormalizeAlias(a)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		normKeys = append(normKeys, k)
	}

	for _, k := range exactKeys {
		if err := checkCollision(r.exact[k], u, k); err != nil {
			return err
		}
	}
	for _, k := range normKeys {
		if err := checkCollision(r.aliases[k], u, k); err != nil {
			return err
		}
	}

	for _, k := range exactKeys {
		if prev, ok := r.exact[k]; ok && prev != u {
			r.log.V(1).Info("unit symbol already taken, keeping first", "symbol", k, "kept", prev.name, "skipped", u.name)
			continue
		}
		r.exact[k] = u
	}
	for _, k := range normKeys {
		if prev, ok := r.aliases[k]; ok && prev != u {
			r.log.V(1).Info("unit alias already taken, keeping first", "alias", k, "kept", prev.name, "skipped", u.name)
			continue
		}
		r.aliases[k] = u
	}

	u.aliases = append(u.aliases, aliases...)
	u.reg = r
	r.units = append(r.units, u)
	if _, ok := r.coherent[u.sig]; !ok && u.IsCoherent() {
		r.coherent[u.sig] = u
	}
	return nil
}

// Prefer marks u as the display unit for its dimension.
func (b *RegistryBuilder) Prefer(u *Unit) {
	b.reg.preferred[u.sig] = u
}

// Build seals the builder and returns the registry.
func (b *RegistryBuilder) Build() *Registry {
	b.built = true
	return b.reg
}

func checkCollision(prev, u *Unit, key string) error {
	if prev == nil || prev == u {
		return nil
	}
	if prev.sig == u.sig && prev.name == u.name && prev.factor != u.factor {
		return withMeta(CodeDuplicateUnit,
			map[string]string{"alias": key, "unit": u.name},
			"alias %q: unit %s already registered with SI factor %g, got %g",
			key, u.name, prev.factor, u.factor)
	}
	return nil
}

// BuildRegistry is the one-time startup builder: it registers every catalog
// row and returns the sealed registry.
func BuildRegistry(defs []UnitDef, opts ...RegistryOption) (*Registry, error) {
	b := NewRegistryBuilder(opts...)
	for _, d := range defs {
		u := d.Unit()
		if err := b.Register(u, d.Aliases...); err != nil {
			return nil, err
		}
		if d.Preferred {
			b.Prefer(u)
		}
	}
	return b.Build(), nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry built from StandardCatalog.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := BuildRegistry(StandardCatalog())
		if err != nil {
			panic(fmt.Sprintf("qnty: standard catalog: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// ============================================================
// Lookup and conversion
// ============================================================

// Get resolves an alias, trying the exact spelling before the normalized key.
func (r *Registry) Get(alias string) (*Unit, error) {
	if u, ok := r.exact[alias]; ok {
		return u, nil
	}
	if u, ok := r.aliases[NormalizeAlias(alias)]; ok {
		return u, nil
	}
	return nil, withMeta(CodeUnknownUnit, map[string]string{"unit": alias}, "unknown unit %q", alias)
}

// MustGet is Get for catalog units known to exist; it panics on a miss.
func (r *Registry) MustGet(alias string) *Unit {
	u, err := r.Get(alias)
	if err != nil {
		panic("qnty: " + err.Error())
	}
	return u
}

// Convert expresses value, measured in from, in to.
func (r *Registry) Convert(value float64, from, to *Unit) (float64, error) {
	if from.sig != to.sig {
		return 0, dimensionMismatch("convert", from.sig, to.sig)
	}
	if from == to {
		return value, nil
	}
	return to.FromSI(from.ToSI(value)), nil
}

// PreferredFor returns the display unit for a dimension: the catalog's
// preferred unit, else the registered SI-coherent one.
func (r *Registry) PreferredFor(sig Signature) (*Unit, bool) {
	if u, ok := r.preferred[sig]; ok {
		return u, true
	}
	u, ok := r.coherent[sig]
	return u, ok
}

// ResultUnit returns the SI-coherent unit used to express products and
// quotients of signature sig, creating and caching a derived one when the
// catalog has none.
func (r *Registry) ResultUnit(sig Signature) *Unit {
	sig = sig.valid()
	if u, ok := r.coherent[sig]; ok {
		return u
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.derived[sig]; ok {
		return u
	}
	sym := derivedSymbol(sig)
	u := &Unit{name: sym, symbol: sym, sig: sig, factor: 1, reg: r}
	r.derived[sig] = u
	r.log.V(2).Info("derived result unit", "unit", sym, "dimension", sig.String())
	return u
}

// Units returns the registered units in registration order.
func (r *Registry) Units() []*Unit {
	return append([]*Unit(nil), r.units...)
}

// UnitsFor returns the registered units of one dimension.
func (r *Registry) UnitsFor(sig Signature) []*Unit {
	var out []*Unit
	for _, u := range r.units {
		if u.sig == sig {
			out = append(out, u)
		}
	}
	return out
}

// Aliases returns every normalized alias key, sorted.
func (r *Registry) Aliases() []string {
	keys := make([]string, 0, len(r.aliases))
	for k := range r.aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var baseSymbols = [numBaseDimensions]string{"m", "kg", "s", "A", "K", "mol", "cd"}

var superscripts = strings.NewReplacer(
	"0", "⁰", "1", "¹", "2", "²", "3", "³", "4", "⁴",
	"5", "⁵", "6", "⁶", "7", "⁷", "8", "⁸", "9", "⁹",
)

// derivedSymbol spells a signature in SI base symbols, e.g. "kg·m²/s³".
func derivedSymbol(sig Signature) string {
	e := sig.Exponents()
	var num, den []string
	for i, x := range e {
		switch {
		case x > 0:
			num = append(num, baseSymbols[i]+sup(x))
		case x < 0:
			den = append(den, baseSymbols[i]+sup(-x))
		}
	}
	n := strings.Join(num, "·")
	if n == "" {
		if len(den) == 0 {
			return "1"
		}
		n = "1"
	}
	if len(den) == 0 {
		return n
	}
	return n + "/" + strings.Join(den, "·")
}

func sup(x int) string {
	if x == 1 {
		return ""
	}
	return superscripts.Replace(fmt.Sprint(x))
}
