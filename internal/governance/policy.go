package governance

import (
	"fmt"
	"regexp"
)

// Effect is the result of a policy evaluation.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Request describes a step about to be executed.
type Request struct {
	Tool      string
	Arguments string // JSON-encoded step args
	Channel   string
}

// Result is the outcome of a policy evaluation.
type Result struct {
	Effect Effect
	Reason string
}

// Engine evaluates planned steps against denylists before the controller
// runs them. Rules come from config: tool names and argument patterns.
type Engine struct {
	deniedTools map[string]bool
	deniedRegex []*regexp.Regexp
}

func NewEngine() *Engine {
	return &Engine{deniedTools: make(map[string]bool)}
}

// FromRules builds an engine from config-supplied rules. Invalid regexes
// are a configuration error.
func FromRules(tools []string, patterns []string) (*Engine, error) {
	e := NewEngine()
	for _, t := range tools {
		e.DenyTool(t)
	}
	for _, p := range patterns {
		if err := e.DenyArguments(p); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) DenyTool(name string) {
	e.deniedTools[name] = true
}

func (e *Engine) DenyArguments(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid policy pattern %q: %w", pattern, err)
	}
	e.deniedRegex = append(e.deniedRegex, re)
	return nil
}

func (e *Engine) Evaluate(req Request) Result {
	if e.deniedTools[req.Tool] {
		return Result{
			Effect: EffectDeny,
			Reason: fmt.Sprintf("tool %q is restricted by policy", req.Tool),
		}
	}
	for _, re := range e.deniedRegex {
		if re.MatchString(req.Arguments) {
			return Result{
				Effect: EffectDeny,
				Reason: fmt.Sprintf("arguments match restricted pattern %q", re.String()),
			}
		}
	}
	return Result{Effect: EffectAllow, Reason: "approved by default policy"}
}
