package ui

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/commitollama/commitollama/internal/pkg/config"
)

// SetupStore is the part of the config manager the wizard writes to.
type SetupStore interface {
	Init() error
	Set(key, value string) error
	GetConfigPath() string
}

// SetupAnswers holds what the setup wizard collected.
type SetupAnswers struct {
	Model        string
	CustomModel  string
	Endpoint     string
	UseEmojis    bool
	UseUppercase bool
}

// DefaultSetupAnswers returns the answers preselected in the wizard.
func DefaultSetupAnswers() SetupAnswers {
	return SetupAnswers{
		Model:    config.DefaultModel,
		Endpoint: config.DefaultEndpoint,
	}
}

// RunInteractiveSetup asks for the model, endpoint and decoration options
// and writes them to the config file.
func RunInteractiveSetup(store SetupStore) error {
	fmt.Println("No configuration found. Let's set up commitollama.")
	fmt.Println()

	answers := DefaultSetupAnswers()

	options := make([]huh.Option[string], 0, len(config.KnownModels)+1)
	for _, m := range config.KnownModels {
		options = append(options, huh.NewOption(m, m))
	}
	options = append(options, huh.NewOption("Other (enter a model name)", config.ModelCustom))

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Model").
				Description("Pulled with 'ollama pull <model>'").
				Options(options...).
				Value(&answers.Model),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Custom model").
				Value(&answers.CustomModel).
				Validate(validateModelName),
		).WithHideFunc(func() bool { return answers.Model != config.ModelCustom }),
		huh.NewGroup(
			huh.NewInput().
				Title("Inference endpoint").
				Description("Address of the Ollama server").
				Value(&answers.Endpoint).
				Validate(ValidateEndpoint),
			huh.NewConfirm().
				Title("Prefix commit types with emojis?").
				Value(&answers.UseEmojis),
			huh.NewConfirm().
				Title("Uppercase the commit type?").
				Value(&answers.UseUppercase),
		),
	).Run()
	if err != nil {
		return err
	}

	if err := ApplySetup(store, answers); err != nil {
		return err
	}

	fmt.Printf("\nConfiguration saved to %s\n", store.GetConfigPath())
	return nil
}

// ApplySetup writes answers through store. Init errors are ignored: the
// file may already exist.
func ApplySetup(store SetupStore, answers SetupAnswers) error {
	_ = store.Init()

	values := []struct{ key, value string }{
		{"model", answers.Model},
		{"custom.endpoint", config.NormalizeEndpoint(answers.Endpoint)},
		{"use_emojis", strconv.FormatBool(answers.UseEmojis)},
		{"use_uppercase", strconv.FormatBool(answers.UseUppercase)},
	}
	if answers.Model == config.ModelCustom {
		values = append(values, struct{ key, value string }{"custom.model", strings.TrimSpace(answers.CustomModel)})
	}

	for _, kv := range values {
		if err := store.Set(kv.key, kv.value); err != nil {
			return fmt.Errorf("failed to set %s: %w", kv.key, err)
		}
	}
	return nil
}

func validateModelName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	return nil
}

// ValidateEndpoint accepts an empty string (the default is used) or an
// absolute http(s) URL.
func ValidateEndpoint(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("endpoint must look like http://host:port")
	}
	return nil
}
