package ollama

import (
	"time"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Opt func(*opt) error

type opt struct {
	tools     []Tool
	stream    func(*Response)
	options   map[string]any
	keepalive *time.Duration
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func apply(opts ...Opt) (*opt, error) {
	o := new(opt)
	for _, fn := range opts {
		if err := fn(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithTools offers function definitions to the model
func WithTools(tools ...Tool) Opt {
	return func(o *opt) error {
		o.tools = append(o.tools, tools...)
		return nil
	}
}

// WithStream enables streaming; the callback receives the accumulated
// response after each delta
func WithStream(fn func(*Response)) Opt {
	return func(o *opt) error {
		o.stream = fn
		return nil
	}
}

// WithOption sets a model option such as temperature
func WithOption(key string, value any) Opt {
	return func(o *opt) error {
		if o.options == nil {
			o.options = make(map[string]any)
		}
		o.options[key] = value
		return nil
	}
}

// WithKeepAlive sets how long the model stays loaded after the request
func WithKeepAlive(d time.Duration) Opt {
	return func(o *opt) error {
		o.keepalive = &d
		return nil
	}
}
