package qnty

import (
	"github.com/go-logr/logr"
)

// ============================================================
// System
// ============================================================

// Step records one resolution: Variable was computed from Equation.
type Step struct {
	Equation string `json:"equation"`
	Variable string `json:"variable"`
}

// System is a set of equations over named variables, solved by greedy
// forward chaining. It is not a simultaneous-equation solver: cyclic or
// coupled unknowns are left unsolved.
type System struct {
	equations []*Equation
	vars      map[string]*Variable
	order     []string

	known, unknown []string // memoized partitions; nil when stale

	cfg Config
	log logr.Logger
}

// SystemOption configures a System.
type SystemOption func(*System)

func WithConfig(cfg Config) SystemOption {
	return func(s *System) { s.cfg = cfg }
}

func WithLogger(l logr.Logger) SystemOption {
	return func(s *System) { s.log = l }
}

func NewSystem(opts ...SystemOption) *System {
	s := &System{
		vars: map[string]*Variable{},
		cfg:  DefaultConfig(),
		log:  logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.MaxIterations <= 0 {
		s.cfg.MaxIterations = DefaultConfig().MaxIterations
	}
	return s
}

// AddEquation appends eq. Variables that eq references by pointer and that
// the system does not hold yet are added too.
func (s *System) AddEquation(eq *Equation) *System {
	s.equations = append(s.equations, eq)
	bound := map[string]*Variable{}
	boundVariables(eq.lhs, bound)
	boundVariables(eq.rhs, bound)
	for _, name := range eq.Variables() {
		if v, ok := bound[name]; ok {
			if _, have := s.vars[name]; !have {
				s.addVariable(v)
			}
		}
	}
	s.invalidate()
	return s
}

// AddVariable adds v, replacing any variable of the same name.
func (s *System) AddVariable(v *Variable) *System {
	s.addVariable(v)
	s.invalidate()
	return s
}

func (s *System) addVariable(v *Variable) {
	if _, ok := s.vars[v.name]; !ok {
		s.order = append(s.order, v.name)
	}
	s.vars[v.name] = v
}

func (s *System) Variable(name string) (*Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Variables returns the variables in insertion order.
func (s *System) Variables() []*Variable {
	out := make([]*Variable, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.vars[name])
	}
	return out
}

func (s *System) Equations() []*Equation {
	return append([]*Equation(nil), s.equations...)
}

// Equation returns the equation with the given name.
func (s *System) Equation(name string) (*Equation, bool) {
	for _, eq := range s.equations {
		if eq.name == name {
			return eq, true
		}
	}
	return nil, false
}

// Env binds every system variable by name.
func (s *System) Env() Env {
	env := make(Env, len(s.vars))
	for k, v := range s.vars {
		env[k] = v
	}
	return env
}

func (s *System) invalidate() {
	s.known, s.unknown = nil, nil
}

func (s *System) partition() {
	if s.known != nil && s.unknown != nil {
		return
	}
	s.known, s.unknown = []string{}, []string{}
	for _, name := range s.order {
		if s.vars[name].IsKnown() {
			s.known = append(s.known, name)
		} else {
			s.unknown = append(s.unknown, name)
		}
	}
}

// KnownVariables returns the names of known variables in insertion order.
func (s *System) KnownVariables() []string {
	s.partition()
	return copyNames(s.known)
}

// UnknownVariables returns the names of unknown variables in insertion order.
func (s *System) UnknownVariables() []string {
	s.partition()
	return copyNames(s.unknown)
}

// ============================================================
// Solving
// ============================================================

// Solve resolves unknowns one at a time: each iteration takes the first
// (equation, unknown) pair in insertion order that the equation can compute
// from known values, solves it and rescans. It stops when a scan makes no
// progress, every variable is known, or Config.MaxIterations is reached, and
// reports whether every variable ended up known. Variables that are not
// resolved keep their prior state. A step that fails with an expected error
// (see IsExpected) is skipped; other failures are returned.
func (s *System) Solve() (bool, error) {
	for iter := 0; iter < s.cfg.MaxIterations; iter++ {
		unknown := s.UnknownVariables()
		if len(unknown) == 0 {
			break
		}
		progressed, err := s.step(NewNameSet(s.KnownVariables()...), unknown)
		if err != nil {
			return false, err
		}
		if !progressed {
			s.log.V(1).Info("no further progress", "iteration", iter, "unknown", unknown)
			break
		}
	}
	return len(s.UnknownVariables()) == 0, nil
}

func (s *System) step(known NameSet, unknown []string) (bool, error) {
	env := s.Env()
	for _, eq := range s.equations {
		for _, name := range unknown {
			if !eq.CanSolveFor(name, known) || !eq.directlySolvable(name, known) {
				continue
			}
			v, err := eq.SolveFor(name, env)
			if err != nil {
				if IsExpected(err) {
					s.log.V(2).Info("skipping step", "equation", eq.name, "variable", name, "reason", err.Error())
					continue
				}
				return false, err
			}
			s.invalidate()
			s.log.V(1).Info("solved", "equation", eq.name, "variable", name, "value", v.quantity.String())
			return true, nil
		}
	}
	return false, nil
}

// SolvingOrder runs the same greedy walk as Solve on a copy of the known set,
// without evaluating anything or touching a Variable, and returns the order in
// which unknowns would be resolved.
func (s *System) SolvingOrder() []Step {
	known := NewNameSet(s.KnownVariables()...)
	unknown := s.UnknownVariables()
	var steps []Step
	for iter := 0; iter < s.cfg.MaxIterations && len(steps) < len(unknown); iter++ {
		found := false
	scan:
		for _, eq := range s.equations {
			for _, name := range unknown {
				if known.Has(name) {
					continue
				}
				if eq.CanSolveFor(name, known) && eq.directlySolvable(name, known) {
					steps = append(steps, Step{Equation: eq.name, Variable: name})
					known.Add(name)
					found = true
					break scan
				}
			}
		}
		if !found {
			break
		}
	}
	return steps
}

// Verify checks every equation's residual against the current bindings and
// returns the names of the equations that are not satisfied.
func (s *System) Verify(tolerance float64) ([]string, error) {
	if tolerance <= 0 {
		tolerance = s.cfg.ResidualTolerance
	}
	env := s.Env()
	var failed []string
	for _, eq := range s.equations {
		ok, err := eq.CheckResidual(env, tolerance)
		if err != nil {
			return nil, err
		}
		if !ok {
			failed = append(failed, eq.name)
		}
	}
	return failed, nil
}
