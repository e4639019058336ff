package commands

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// OptionKind uses the application command option type codes of the chat
// gateway so definitions can be published unchanged.
type OptionKind int

const (
	OptionKindSubCommand OptionKind = 1
	OptionKindString     OptionKind = 3
	OptionKindInteger    OptionKind = 4
)

func (k OptionKind) String() string {
	switch k {
	case OptionKindSubCommand:
		return "sub-command"
	case OptionKindString:
		return "string"
	case OptionKindInteger:
		return "integer"
	default:
		return "unknown"
	}
}

type Option struct {
	Name        string
	Description string
	Kind        OptionKind
	Required    bool
	Min         *int64
	Max         *int64
	// Default is used when an optional option is omitted. Integer options
	// take an int64, string options a string.
	Default interface{}
}

func StringOption(name, description string, required bool) Option {
	return Option{Name: name, Description: description, Kind: OptionKindString, Required: required}
}

func IntegerOption(name, description string, min, max, def int64) Option {
	return Option{
		Name:        name,
		Description: description,
		Kind:        OptionKindInteger,
		Min:         &min,
		Max:         &max,
		Default:     def,
	}
}

// Options are the validated values of one invocation.
type Options struct {
	values map[string]interface{}
}

func (o Options) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

func (o Options) Int(name string) int {
	if v, ok := o.values[name].(int64); ok {
		return int(v)
	}
	return 0
}

func (o Options) String(name string) string {
	if v, ok := o.values[name].(string); ok {
		return v
	}
	return ""
}

func (o Option) validate() error {
	if !nameRegex.MatchString(o.Name) {
		return definitionError(o.Name, "option name must match %s", nameRegex)
	}
	if err := validateDescription(o.Name, o.Description); err != nil {
		return err
	}
	switch o.Kind {
	case OptionKindString:
		if o.Min != nil || o.Max != nil {
			return definitionError(o.Name, "string options do not take bounds")
		}
		if o.Default != nil {
			if _, ok := o.Default.(string); !ok {
				return definitionError(o.Name, "default must be a string")
			}
		}
	case OptionKindInteger:
		if o.Min != nil && o.Max != nil && *o.Min > *o.Max {
			return definitionError(o.Name, "min %d is greater than max %d", *o.Min, *o.Max)
		}
		if o.Default != nil {
			def, ok := o.Default.(int64)
			if !ok {
				return definitionError(o.Name, "default must be an int64")
			}
			if err := o.checkBounds(def); err != nil {
				return definitionError(o.Name, "default %s", err.(*OptionError).Reason)
			}
		}
	default:
		return definitionError(o.Name, "unsupported option kind %d", o.Kind)
	}
	if o.Required && o.Default != nil {
		return definitionError(o.Name, "required options cannot have a default")
	}
	return nil
}

func (o Option) checkBounds(v int64) error {
	if o.Min != nil && v < *o.Min {
		return optionError(o.Name, "must be at least %d, got %d", *o.Min, v)
	}
	if o.Max != nil && v > *o.Max {
		return optionError(o.Name, "must be at most %d, got %d", *o.Max, v)
	}
	return nil
}

func (o Option) parse(raw interface{}) (interface{}, error) {
	switch o.Kind {
	case OptionKindString:
		s, ok := raw.(string)
		if !ok {
			return nil, optionError(o.Name, "must be a string")
		}
		s = strings.TrimSpace(s)
		if o.Required && s == "" {
			return nil, optionError(o.Name, "must not be empty")
		}
		return s, nil
	case OptionKindInteger:
		v, err := parseInteger(raw)
		if err != nil {
			return nil, optionError(o.Name, "must be an integer")
		}
		if err := o.checkBounds(v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, optionError(o.Name, "has an unsupported kind")
	}
}

func parseInteger(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, strconv.ErrSyntax
		}
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return 0, strconv.ErrSyntax
	}
}

// parseOptions checks raw values against the declared options. Undeclared
// options are refused.
func parseOptions(declared []Option, raw map[string]interface{}) (Options, error) {
	known := make(map[string]struct{}, len(declared))
	for _, option := range declared {
		known[option.Name] = struct{}{}
	}
	unknown := make([]string, 0)
	for name := range raw {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Options{}, &OptionError{Reason: "unknown option " + strconv.Quote(unknown[0])}
	}

	values := make(map[string]interface{}, len(declared))
	for _, option := range declared {
		v, ok := raw[option.Name]
		if !ok || v == nil {
			if option.Required {
				return Options{}, optionError(option.Name, "is required")
			}
			if option.Default != nil {
				values[option.Name] = option.Default
			}
			continue
		}
		parsed, err := option.parse(v)
		if err != nil {
			return Options{}, err
		}
		values[option.Name] = parsed
	}
	return Options{values: values}, nil
}
