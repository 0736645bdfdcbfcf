package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Args are the JSON decoded arguments of a widget call.
type Args map[string]any

// Result is the mapping returned by a widget method.
type Result map[string]any

// UserMessageKey marks a result entry delivered to the browser by cookie instead of in the body.
const UserMessageKey = "_user_message"

// CallContext carries what a method knows about the caller.
type CallContext struct {
	BrowserID string
}

type Handler func(ctx context.Context, call *CallContext, args Args) (Result, error)

// Param declares one named argument of a method.
type Param struct {
	Name     string
	Required bool
}

// Method is a registered widget method with its argument shape.
type Method struct {
	Params  []Param
	Handler Handler
}

// RPCProvider exposes a set of widget methods by name.
type RPCProvider interface {
	Methods() map[string]Method
}

// ValidateProviders checks that every provider declares the same methods, each
// with a handler and unique parameter names.
func ValidateProviders(providers ...RPCProvider) error {
	if len(providers) == 0 {
		return fmt.Errorf("no rpc providers")
	}
	reference := methodNames(providers[0])
	for i, p := range providers {
		names := methodNames(p)
		if strings.Join(names, ",") != strings.Join(reference, ",") {
			return fmt.Errorf("provider %d declares methods %v, expected %v", i, names, reference)
		}
		for name, m := range p.Methods() {
			if strings.HasPrefix(name, "_") {
				return fmt.Errorf("provider %d: method %s is private", i, name)
			}
			if m.Handler == nil {
				return fmt.Errorf("provider %d: method %s has no handler", i, name)
			}
			seen := make(map[string]struct{}, len(m.Params))
			for _, param := range m.Params {
				if _, dup := seen[param.Name]; dup {
					return fmt.Errorf("provider %d: method %s declares %s twice", i, name, param.Name)
				}
				seen[param.Name] = struct{}{}
			}
		}
	}
	return nil
}

func methodNames(p RPCProvider) []string {
	methods := p.Methods()
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkArity reports a missing required or an unexpected argument.
func (m Method) checkArity(name string, args Args) error {
	declared := make(map[string]struct{}, len(m.Params))
	for _, p := range m.Params {
		declared[p.Name] = struct{}{}
		if _, ok := args[p.Name]; p.Required && !ok {
			return fmt.Errorf("%s() missing required argument '%s'", name, p.Name)
		}
	}
	unexpected := make([]string, 0)
	for k := range args {
		if _, ok := declared[k]; !ok {
			unexpected = append(unexpected, k)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return fmt.Errorf("%s() got an unexpected keyword argument '%s'", name, unexpected[0])
	}
	return nil
}
