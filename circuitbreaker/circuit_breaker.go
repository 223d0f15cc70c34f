package circuitbreaker

import (
	"context"
	"fmt"

	"github.com/afex/hystrix-go/hystrix"
)

// ProviderFunc is one attempt in a fallback chain, typically a call to a
// single upstream provider.
type ProviderFunc func() (any, error)

type Result struct {
	value any
	err   error
}

func (r Result) Value() any {
	return r.value
}

func (r Result) Error() error {
	return r.err
}

// Attempt binds a ProviderFunc to a named hystrix circuit. Each upstream
// operation gets its own circuit so one misbehaving endpoint does not open
// the breaker for the others.
type Attempt struct {
	call        ProviderFunc
	circuitName string
}

func NewAttempt(call ProviderFunc, circuitName string) *Attempt {
	return &Attempt{call: call, circuitName: circuitName}
}

// Command is an ordered fallback chain of attempts. The first attempt whose
// circuit admits the call and whose call succeeds wins.
type Command struct {
	ctx      context.Context
	attempts []*Attempt
}

func NewCommand(ctx context.Context, attempts ...*Attempt) *Command {
	return &Command{ctx: ctx, attempts: attempts}
}

func (cmd *Command) Add(attempt *Attempt) {
	cmd.attempts = append(cmd.attempts, attempt)
}

func (cmd *Command) IsEmpty() bool {
	return len(cmd.attempts) == 0
}

type Config struct {
	Timeout                int
	MaxConcurrentRequests  int
	RequestVolumeThreshold int
	SleepWindow            int
	ErrorPercentThreshold  int
}

type CircuitBreaker struct {
	config Config
}

func NewCircuitBreaker(config Config) *CircuitBreaker {
	return &CircuitBreaker{config: config}
}

// Execute runs the command's attempts in order until one succeeds. Circuits
// are configured lazily on first use with the breaker's config. Errors of
// failed attempts accumulate so the caller sees the whole chain's story.
// Blocking.
func (cb *CircuitBreaker) Execute(cmd *Command) Result {
	if cmd == nil || cmd.IsEmpty() {
		return Result{err: fmt.Errorf("command is nil or empty")}
	}

	ctx := cmd.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	var result Result
	for _, attempt := range cmd.attempts {
		if ctx.Err() != nil {
			if result.err != nil {
				result.err = fmt.Errorf("%w, %w", ctx.Err(), result.err)
			} else {
				result.err = ctx.Err()
			}
			break
		}

		if hystrix.GetCircuitSettings()[attempt.circuitName] == nil {
			hystrix.ConfigureCommand(attempt.circuitName, hystrix.CommandConfig{
				Timeout:                cb.config.Timeout,
				MaxConcurrentRequests:  cb.config.MaxConcurrentRequests,
				RequestVolumeThreshold: cb.config.RequestVolumeThreshold,
				SleepWindow:            cb.config.SleepWindow,
				ErrorPercentThreshold:  cb.config.ErrorPercentThreshold,
			})
		}

		err := hystrix.DoC(ctx, attempt.circuitName, func(ctx context.Context) error {
			value, err := attempt.call()
			if err == nil {
				result = Result{value: value}
			}
			return err
		}, nil)

		if err == nil {
			break
		}

		if result.err != nil {
			result.err = fmt.Errorf("%w, %s: %w", result.err, attempt.circuitName, err)
		} else {
			result.err = fmt.Errorf("%s: %w", attempt.circuitName, err)
		}
		// keep trying the remaining attempts even on ErrMaxConcurrency,
		// every provider deserves the same pressure
	}

	return result
}
