package commands

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/tokamak-network/chainops-backend/internal/logger"
	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
	"github.com/tokamak-network/chainops-backend/pkg/presenter"
	"go.uber.org/zap"
)

var nameRegex = regexp.MustCompile(`^[-_a-z0-9]{1,32}$`)

const maxDescriptionLength = 100

// Interaction is one inbound command invocation from the chat gateway.
type Interaction struct {
	ID         string                 `json:"id"`
	Command    string                 `json:"command"`
	SubCommand string                 `json:"subcommand,omitempty"`
	Options    map[string]interface{} `json:"options,omitempty"`
	User       string                 `json:"user,omitempty"`
}

type Invocation struct {
	InteractionID string
	Command       string
	SubCommand    string
	User          string
	Options       Options
}

type Handler func(ctx context.Context, invocation Invocation) (presenter.Reply, error)

// Definition is either a leaf command with a Handler or a group of
// SubCommands, never both.
type Definition struct {
	Name        string
	Description string
	Options     []Option
	Handler     Handler
	SubCommands []Definition
}

// Executor runs handler work off the dispatch path.
type Executor interface {
	Submit(ctx context.Context, task func()) error
}

type ExecutorFunc func(ctx context.Context, task func()) error

func (f ExecutorFunc) Submit(ctx context.Context, task func()) error {
	return f(ctx, task)
}

// GoExecutor runs every task on its own goroutine.
var GoExecutor = ExecutorFunc(func(_ context.Context, task func()) error {
	go task()
	return nil
})

type Registry struct {
	log      *zap.Logger
	executor Executor

	mu       sync.Mutex
	commands map[string]*Definition
	order    []string
	sealed   atomic.Bool
}

func NewRegistry(log *zap.Logger, executor Executor) *Registry {
	if log == nil {
		log = logger.L()
	}
	if executor == nil {
		executor = GoExecutor
	}
	return &Registry{
		log:      log.Named("commands"),
		executor: executor,
		commands: make(map[string]*Definition),
	}
}

// Register adds command definitions. It fails on duplicate names, invalid
// definitions and once the registry has started dispatching.
func (r *Registry) Register(definitions ...Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return ErrRegistrySealed
	}
	for i := range definitions {
		definition := definitions[i]
		if err := definition.validate(); err != nil {
			return err
		}
		if _, exists := r.commands[definition.Name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateCommand, definition.Name)
		}
		r.commands[definition.Name] = &definition
		r.order = append(r.order, definition.Name)
	}
	return nil
}

// Dispatch routes one interaction to its handler. Unknown commands are
// logged and dropped without acknowledging. Known commands are acknowledged
// before any handler work starts. The handler then runs on the executor
// and its reply, or a failure notice, resolves the acknowledgment.
func (r *Registry) Dispatch(ctx context.Context, interaction Interaction, responder Responder) {
	r.seal()

	log := r.log.With(
		zap.String("command", interaction.Command),
		zap.String("interactionId", interaction.ID),
	)

	definition, ok := r.resolve(interaction)
	if !ok {
		log.Warn("Unknown command", zap.String("subcommand", interaction.SubCommand))
		return
	}

	options, validationErr := parseOptions(definition.Options, interaction.Options)

	handle, err := responder.Ack(ctx)
	if err != nil {
		log.Error("Failed to acknowledge interaction", zap.Error(err))
		return
	}

	if validationErr != nil {
		log.Info("Rejected command options", zap.Error(validationErr))
		r.deliver(ctx, log, responder, handle, presenter.Rejection(validationErr))
		return
	}

	invocation := Invocation{
		InteractionID: interaction.ID,
		Command:       interaction.Command,
		SubCommand:    interaction.SubCommand,
		User:          interaction.User,
		Options:       options,
	}
	// the handler outlives the inbound request
	taskCtx := context.WithoutCancel(ctx)
	task := func() {
		reply := r.invoke(taskCtx, log, definition.Handler, invocation)
		r.deliver(taskCtx, log, responder, handle, reply)
	}
	if err := r.executor.Submit(ctx, task); err != nil {
		log.Error("Failed to schedule command handler", zap.Error(err))
		r.deliver(taskCtx, log, responder, handle, presenter.Failure())
	}
}

func (r *Registry) invoke(ctx context.Context, log *zap.Logger, handler Handler, invocation Invocation) (reply presenter.Reply) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Error("Command handler panicked", zap.Any("panic", recovered), zap.Stack("stack"))
			reply = presenter.Failure()
		}
	}()

	reply, err := handler(ctx, invocation)
	if err != nil {
		reply = presenter.FromError(err, invocation.Options.String("id"))
		if errors.Is(err, entities.ErrInvalidArgument) || errors.Is(err, entities.ErrDeploymentNotFound) {
			log.Info("Command handler rejected input", zap.Error(err))
		} else {
			log.Error("Command handler failed", zap.Error(err))
		}
	}
	return reply
}

func (r *Registry) deliver(ctx context.Context, log *zap.Logger, responder Responder, handle Handle, reply presenter.Reply) {
	if err := responder.Resolve(ctx, handle, reply); err != nil {
		log.Error("Failed to resolve interaction", zap.String("handle", string(handle)), zap.Error(err))
	}
}

func (r *Registry) resolve(interaction Interaction) (*Definition, bool) {
	definition, ok := r.commands[interaction.Command]
	if !ok {
		return nil, false
	}
	if len(definition.SubCommands) == 0 {
		return definition, interaction.SubCommand == ""
	}
	for i := range definition.SubCommands {
		if definition.SubCommands[i].Name == interaction.SubCommand {
			return &definition.SubCommands[i], true
		}
	}
	return nil, false
}

// seal freezes the command table. Reads after sealing need no lock.
func (r *Registry) seal() {
	if r.sealed.Load() {
		return
	}
	r.mu.Lock()
	r.sealed.Store(true)
	r.mu.Unlock()
}

func (d *Definition) validate() error {
	if !nameRegex.MatchString(d.Name) {
		return definitionError(d.Name, "name must match %s", nameRegex)
	}
	if err := validateDescription(d.Name, d.Description); err != nil {
		return err
	}

	hasHandler := d.Handler != nil
	hasSubCommands := len(d.SubCommands) > 0
	if hasHandler == hasSubCommands {
		return definitionError(d.Name, "exactly one of handler or sub-commands is required")
	}

	if hasSubCommands {
		if len(d.Options) > 0 {
			return definitionError(d.Name, "command groups cannot declare options")
		}
		seen := make(map[string]struct{}, len(d.SubCommands))
		for i := range d.SubCommands {
			sub := &d.SubCommands[i]
			if len(sub.SubCommands) > 0 {
				return definitionError(sub.Name, "sub-commands cannot be nested")
			}
			if err := sub.validate(); err != nil {
				return err
			}
			if _, exists := seen[sub.Name]; exists {
				return fmt.Errorf("%w: %s %s", ErrDuplicateCommand, d.Name, sub.Name)
			}
			seen[sub.Name] = struct{}{}
		}
		return nil
	}

	seen := make(map[string]struct{}, len(d.Options))
	optional := false
	for _, option := range d.Options {
		if err := option.validate(); err != nil {
			return err
		}
		if _, exists := seen[option.Name]; exists {
			return definitionError(d.Name, "option %q declared twice", option.Name)
		}
		seen[option.Name] = struct{}{}
		if option.Required && optional {
			return definitionError(d.Name, "required option %q must come before optional ones", option.Name)
		}
		optional = optional || !option.Required
	}
	return nil
}

func validateDescription(name, description string) error {
	length := utf8.RuneCountInString(description)
	if length < 1 || length > maxDescriptionLength {
		return definitionError(name, "description must be 1-%d characters", maxDescriptionLength)
	}
	return nil
}
