package trigger

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Rule reacts to one kind of document event.
type Rule interface {
	Handle(ctx context.Context, ev Event) error
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(ctx context.Context, ev Event) error

func (f RuleFunc) Handle(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Binding maps a collection path pattern and change kind to a rule.
type Binding struct {
	Name    string
	Pattern string
	Kind    Kind
	Rule    Rule
}

// Dispatcher routes events to every binding that matches them.
type Dispatcher struct {
	bindings []Binding
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher over bindings.
func NewDispatcher(bindings []Binding, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{bindings: bindings, logger: logger.Named("dispatcher")}
}

// Dispatch invokes each matching binding in turn; a failing binding does not
// stop the remaining ones. The returned error joins every binding failure
// and signals the event platform to redeliver.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	log := d.logger.With(zap.String("event_id", ev.ID), zap.String("document", ev.Document), zap.String("kind", string(ev.Kind)))

	var errs []error
	matched := 0
	for _, b := range d.bindings {
		if b.Kind != ev.Kind {
			continue
		}
		params, ok := Match(b.Pattern, ev.Document)
		if !ok {
			continue
		}
		matched++

		bound := ev
		bound.Params = params
		if err := d.invoke(ctx, b, bound); err != nil {
			log.Error("Rule failed", zap.String("rule", b.Name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
			continue
		}
		log.Debug("Rule completed", zap.String("rule", b.Name))
	}

	if matched == 0 {
		log.Info("No rule bound to event")
	}
	return errors.Join(errs...)
}

// invoke converts a panicking rule into an error so sibling bindings still run.
func (d *Dispatcher) invoke(ctx context.Context, b Binding, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return b.Rule.Handle(ctx, ev)
}

// Instrument wraps every binding's rule so observe sees each invocation's
// result. Panics are still recovered by the dispatcher.
func Instrument(bindings []Binding, observe func(rule string, err error)) []Binding {
	out := make([]Binding, len(bindings))
	for i, b := range bindings {
		name, rule := b.Name, b.Rule
		b.Rule = RuleFunc(func(ctx context.Context, ev Event) error {
			err := rule.Handle(ctx, ev)
			observe(name, err)
			return err
		})
		out[i] = b
	}
	return out
}
