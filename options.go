package disposal

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/imdario/mergo"
)

// Options control how failures and releases are reported.
// The zero value of each field means not set.
type Options struct {
	// Logger receives errors that cannot be returned to the caller
	// and release traces.  Defaults to logr.Discard().
	Logger logr.Logger

	// Policy resolves a callback error combined with a release error.
	// Defaults to Aggregate.
	Policy Policy

	// Verbosity is the V level of release traces.  Defaults to 1.
	Verbosity Option[int]
}

// Option is a value that distinguishes not set from the zero value.
type Option[T any] struct {
	value T
	set   bool
}

// settings are the resolved Options used by a single call.
type settings struct {
	logger    logr.Logger
	policy    Policy
	verbosity int
}

var (
	current atomic.Pointer[Options]
	lock    sync.Mutex
)

// Set returns an Option holding value.
func Set[T any](value T) Option[T] {
	return Option[T]{value, true}
}

func (o Option[T]) Set() bool {
	return o.set
}

func (o Option[T]) Value() T {
	return o.value
}

func (o Option[T]) ValueOrDefault(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// Configure applies config to a copy of the current Options
// and installs the result for subsequent calls.
// Calls are serialized so concurrent updates are not lost.
func Configure(config ...func(options *Options)) {
	lock.Lock()
	defer lock.Unlock()
	options := CurrentOptions()
	for _, configure := range config {
		if configure != nil {
			configure(&options)
		}
	}
	current.Store(&options)
}

// Reset restores the default Options.
func Reset() {
	lock.Lock()
	defer lock.Unlock()
	current.Store(nil)
}

// CurrentOptions returns a snapshot of the installed Options.
func CurrentOptions() Options {
	if options := current.Load(); options != nil {
		return *options
	}
	return Options{}
}

// WithLogger sets the Logger.
func WithLogger(logger logr.Logger) func(options *Options) {
	return func(options *Options) {
		options.Logger = logger
	}
}

// WithPolicy sets the release failure Policy.
func WithPolicy(policy Policy) func(options *Options) {
	return func(options *Options) {
		options.Policy = policy
	}
}

// WithVerbosity sets the V level of release traces.
func WithVerbosity(verbosity int) func(options *Options) {
	return func(options *Options) {
		options.Verbosity = Set(verbosity)
	}
}

// WithOptions merges the fields set in from into the Options
// being configured, leaving fields already set untouched.
func WithOptions(from Options) func(options *Options) {
	return func(options *Options) {
		MergeOptions(from, options)
	}
}

// MergeOptions copies the fields set in from into the unset
// fields of into.
func MergeOptions(from Options, into *Options) bool {
	if into == nil {
		panic("into cannot be nil")
	}
	return mergo.Merge(into, from, mergo.WithTransformers(optionsMerge{})) == nil
}

func load() settings {
	options := CurrentOptions()
	s := settings{
		logger:    options.Logger,
		policy:    options.Policy,
		verbosity: options.Verbosity.ValueOrDefault(1),
	}
	if s.logger.GetSink() == nil {
		s.logger = logr.Discard()
	}
	if s.policy == 0 {
		s.policy = Aggregate
	}
	s.logger = s.logger.WithName("disposal")
	return s
}

// optionsMerge treats a logr.Logger without a sink and an Option
// not set as unset, since their fields are not visible to mergo.
type optionsMerge struct{}

func (optionsMerge) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	switch {
	case typ == loggerType:
		return mergeUnset(func(v reflect.Value) bool {
			return v.Interface().(logr.Logger).GetSink() == nil
		})
	case typ.Implements(optionalType):
		return mergeUnset(func(v reflect.Value) bool {
			return !v.Interface().(optional).Set()
		})
	}
	return nil
}

func mergeUnset(unset func(reflect.Value) bool) func(dst, src reflect.Value) error {
	return func(dst, src reflect.Value) error {
		if dst.CanSet() && unset(dst) {
			dst.Set(src)
		}
		return nil
	}
}

type optional interface {
	Set() bool
}

var (
	loggerType   = reflect.TypeOf(logr.Logger{})
	optionalType = reflect.TypeOf((*optional)(nil)).Elem()
)
