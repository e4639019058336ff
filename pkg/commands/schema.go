package commands

// chatInputCommand is the application command type of slash commands.
const chatInputCommand = 1

type CommandSchema struct {
	Type        int            `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Options     []OptionSchema `json:"options,omitempty"`
}

type OptionSchema struct {
	Type        OptionKind     `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Required    bool           `json:"required,omitempty"`
	MinValue    *int64         `json:"min_value,omitempty"`
	MaxValue    *int64         `json:"max_value,omitempty"`
	Options     []OptionSchema `json:"options,omitempty"`
}

// Definitions returns the published command surface in registration order.
func (r *Registry) Definitions() []CommandSchema {
	r.mu.Lock()
	defer r.mu.Unlock()

	schemas := make([]CommandSchema, 0, len(r.order))
	for _, name := range r.order {
		definition := r.commands[name]
		schema := CommandSchema{
			Type:        chatInputCommand,
			Name:        definition.Name,
			Description: definition.Description,
		}
		if len(definition.SubCommands) > 0 {
			for _, sub := range definition.SubCommands {
				schema.Options = append(schema.Options, OptionSchema{
					Type:        OptionKindSubCommand,
					Name:        sub.Name,
					Description: sub.Description,
					Options:     optionSchemas(sub.Options),
				})
			}
		} else {
			schema.Options = optionSchemas(definition.Options)
		}
		schemas = append(schemas, schema)
	}
	return schemas
}

func optionSchemas(options []Option) []OptionSchema {
	if len(options) == 0 {
		return nil
	}
	schemas := make([]OptionSchema, 0, len(options))
	for _, option := range options {
		schemas = append(schemas, OptionSchema{
			Type:        option.Kind,
			Name:        option.Name,
			Description: option.Description,
			Required:    option.Required,
			MinValue:    option.Min,
			MaxValue:    option.Max,
		})
	}
	return schemas
}
