package router

import (
	"fmt"
	"maps"

	rverrors "github.com/vango-dev/routeview/internal/errors"
	"github.com/vango-dev/routeview/pkg/vdom"
)

// PropsMode is the kind of props configuration.
type PropsMode int

const (
	// PropsNone passes no props.
	PropsNone PropsMode = iota
	// PropsParams passes the route params.
	PropsParams
	// PropsStatic passes a fixed map.
	PropsStatic
	// PropsFunc passes the result of a function of the route.
	PropsFunc
)

// String returns the mode name.
func (m PropsMode) String() string {
	switch m {
	case PropsNone:
		return "none"
	case PropsParams:
		return "params"
	case PropsStatic:
		return "static"
	case PropsFunc:
		return "func"
	default:
		return fmt.Sprintf("PropsMode(%d)", int(m))
	}
}

// PropsFunction derives props from the current location.
type PropsFunction func(loc *Location) (map[string]any, error)

// PropsConfig is a normalized props configuration.
type PropsConfig struct {
	Mode   PropsMode
	Static map[string]any
	Func   PropsFunction
}

// NormalizeProps validates a raw props configuration. Accepted values:
// nil, a bool, a PropsConfig, a map with string keys, a PropsFunction or
// an equivalent func literal. Anything else is an E101 error.
func NormalizeProps(raw any) (PropsConfig, error) {
	switch v := raw.(type) {
	case nil:
		return PropsConfig{}, nil
	case bool:
		if v {
			return PropsConfig{Mode: PropsParams}, nil
		}
		return PropsConfig{}, nil
	case PropsConfig:
		return checkConfig(v)
	case *PropsConfig:
		if v == nil {
			return PropsConfig{}, nil
		}
		return checkConfig(*v)
	case map[string]any:
		return PropsConfig{Mode: PropsStatic, Static: maps.Clone(v)}, nil
	case vdom.Props:
		return PropsConfig{Mode: PropsStatic, Static: maps.Clone(map[string]any(v))}, nil
	case map[string]string:
		static := make(map[string]any, len(v))
		for k, s := range v {
			static[k] = s
		}
		return PropsConfig{Mode: PropsStatic, Static: static}, nil
	case PropsFunction:
		if v == nil {
			return PropsConfig{}, malformed(raw, "nil props function")
		}
		return PropsConfig{Mode: PropsFunc, Func: v}, nil
	case func(*Location) (map[string]any, error):
		if v == nil {
			return PropsConfig{}, malformed(raw, "nil props function")
		}
		return PropsConfig{Mode: PropsFunc, Func: v}, nil
	case func(*Location) map[string]any:
		if v == nil {
			return PropsConfig{}, malformed(raw, "nil props function")
		}
		return PropsConfig{Mode: PropsFunc, Func: func(loc *Location) (map[string]any, error) {
			return v(loc), nil
		}}, nil
	default:
		return PropsConfig{}, malformed(raw, "")
	}
}

func checkConfig(c PropsConfig) (PropsConfig, error) {
	switch c.Mode {
	case PropsNone, PropsParams:
		return PropsConfig{Mode: c.Mode}, nil
	case PropsStatic:
		return PropsConfig{Mode: PropsStatic, Static: maps.Clone(c.Static)}, nil
	case PropsFunc:
		if c.Func == nil {
			return PropsConfig{}, malformed(c, "func mode without a function")
		}
		return c, nil
	default:
		return PropsConfig{}, malformed(c, "unknown mode "+c.Mode.String())
	}
}

func malformed(raw any, reason string) error {
	detail := fmt.Sprintf("got %T", raw)
	if reason != "" {
		detail += " (" + reason + ")"
	}
	return rverrors.New("E101").
		WithDetail(detail).
		WithSuggestion("use nil, true, a map[string]any or a router.PropsFunction")
}

// normalizeRecordProps builds the per-slot props of a record.
func normalizeRecordProps(rec *RouteRecord, components map[string]*vdom.Definition) (map[string]PropsConfig, error) {
	out := make(map[string]PropsConfig)

	if rec.Props != nil {
		cfg, err := NormalizeProps(rec.Props)
		if err != nil {
			return nil, annotate(err, rec.Path, DefaultSlot)
		}
		if cfg.Mode != PropsNone {
			for slot := range components {
				out[slot] = cfg
			}
		}
	}

	for slot, raw := range rec.SlotProps {
		cfg, err := NormalizeProps(raw)
		if err != nil {
			return nil, annotate(err, rec.Path, slot)
		}
		out[slot] = cfg
	}
	return out, nil
}

func annotate(err error, path, slot string) error {
	if ve := rverrors.FromError(err, "E101"); ve != nil {
		ve.Detail = fmt.Sprintf("route %q slot %q: %s", path, slot, ve.Detail)
		return ve
	}
	return err
}
