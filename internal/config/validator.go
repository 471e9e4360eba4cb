package config

import "fmt"

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	// Validate general config
	if c.General == nil {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "general",
			Message:   "configuration must contain 'general' section",
		})
		return validationErrors
	}

	if err := validate.Struct(c.General); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "general", "")...)
	}

	// Validate sources
	if len(c.Sources) == 0 {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "source",
			Message:   "configuration must contain at least one source",
		})
	} else {
		validationErrors = append(validationErrors, c.validateSources()...)
	}

	// Validate serve-mode config when present
	if c.Server != nil {
		if err := validate.Struct(c.Server); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, "server", "")...)
		}
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

func (c *Config) validateSources() ValidationErrors {
	var validationErrors ValidationErrors

	seenNames := make(map[string]bool)

	for i, source := range c.Sources {
		itemName := source.Name
		if itemName == "" {
			itemName = fmt.Sprintf("source[%d]", i)
		}

		if err := validate.Struct(source); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("source.%d", i), itemName)...)
		}

		if seenNames[source.Name] {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: "name",
				Message:   fmt.Sprintf("duplicate source name: %s", source.Name),
			})
		}
		seenNames[source.Name] = true
	}

	return validationErrors
}
