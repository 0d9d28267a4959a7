package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/tianbot/pkg/log"
)

// ErrUnknownTool is the outcome error when no tool has the requested name.
var ErrUnknownTool = errors.New("unknown tool")

// Param types understood by argument validation.
const (
	TypeString = "string"
	TypeNumber = "number"
	TypeArray  = "array"
	TypeObject = "object"
)

type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Param declares one argument. An empty Type accepts any JSON value.
type Param struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

type Descriptor struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

// CallError reports a tool that was found but failed.
type CallError struct {
	Tool string
	Err  error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("Error calling %s: %v", e.Tool, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Outcome is the result of one dispatch. Err is nil on success,
// ErrUnknownTool or a *CallError otherwise.
type Outcome struct {
	Tool string
	Text string
	Err  error
}

func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Observation renders the outcome the way it is fed back to the model.
func (o Outcome) Observation() string {
	switch {
	case o.Err == nil:
		return o.Text
	case errors.Is(o.Err, ErrUnknownTool):
		return fmt.Sprintf("Error: Tool %s not found.", o.Tool)
	default:
		var ce *CallError
		if errors.As(o.Err, &ce) {
			return ce.Error()
		}
		return fmt.Sprintf("Error calling %s: %v", o.Tool, o.Err)
	}
}

// Registry is an ordered, immutable set of tools.
type Registry struct {
	descs []Descriptor
	index map[string]int
}

func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{
		descs: make([]Descriptor, 0, len(descs)),
		index: make(map[string]int, len(descs)),
	}
	for _, d := range descs {
		if d.Name == "" {
			return nil, errors.New("tool name must not be empty")
		}
		if d.Handler == nil {
			return nil, fmt.Errorf("tool %s has no handler", d.Name)
		}
		if _, dup := r.index[d.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", d.Name)
		}
		r.index[d.Name] = len(r.descs)
		r.descs = append(r.descs, d)
	}
	return r, nil
}

func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descs))
	copy(out, r.descs)
	return out
}

func (r *Registry) Lookup(name string) (Descriptor, bool) {
	i, ok := r.index[name]
	if !ok {
		return Descriptor{}, false
	}
	return r.descs[i], true
}

// Describe lists tools one per line as `name: description (Args: {a: desc, ...})`.
func (r *Registry) Describe() string {
	var sb strings.Builder
	for i, d := range r.descs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.Name)
		sb.WriteString(": ")
		sb.WriteString(d.Description)
		sb.WriteString(" (Args: {")
		for j, p := range d.Params {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.Name)
			sb.WriteString(": ")
			sb.WriteString(p.Description)
		}
		sb.WriteString("})")
	}
	return sb.String()
}

// JSONSchema builds an object schema from the tool's params.
func (r *Registry) JSONSchema(name string) (json.RawMessage, error) {
	d, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	props := make(map[string]any, len(d.Params))
	required := []string{}
	for _, p := range d.Params {
		prop := map[string]any{"description": p.Description}
		if p.Type != "" {
			prop["type"] = p.Type
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	sort.Strings(required)

	return json.Marshal(map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	})
}

// Invoke dispatches to the named tool. It never panics and never returns a
// bare error: every problem is folded into the Outcome.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (out Outcome) {
	out.Tool = name

	d, ok := r.Lookup(name)
	if !ok {
		out.Err = ErrUnknownTool
		return out
	}

	if err := validateArgs(d.Params, args); err != nil {
		out.Err = &CallError{Tool: name, Err: err}
		return out
	}

	defer func() {
		if p := recover(); p != nil {
			log.FromCtx(ctx).Error().Str("tool", name).Interface("panic", p).Msg("tool panicked")
			out.Text = ""
			out.Err = &CallError{Tool: name, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	text, err := d.Handler(ctx, args)
	if err != nil {
		out.Err = &CallError{Tool: name, Err: err}
		return out
	}
	out.Text = text
	return out
}

func validateArgs(params []Param, args json.RawMessage) error {
	if len(params) == 0 {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(args, &fields); err != nil || fields == nil {
		return errors.New("arguments must be a JSON object")
	}

	for _, p := range params {
		raw, present := fields[p.Name]
		if !present || isNull(raw) {
			if p.Required {
				return fmt.Errorf("missing required argument %q", p.Name)
			}
			continue
		}
		if !matchesType(p.Type, raw) {
			return fmt.Errorf("argument %q must be of type %s", p.Name, p.Type)
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func matchesType(typ string, raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return false
	}
	switch typ {
	case TypeString:
		return s[0] == '"'
	case TypeNumber:
		var f float64
		return json.Unmarshal(raw, &f) == nil
	case TypeArray:
		return s[0] == '['
	case TypeObject:
		return s[0] == '{'
	default:
		return true
	}
}
