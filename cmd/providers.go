package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/catwalk/pkg/catwalk"
	"github.com/spf13/cobra"

	"github.com/yodaai/yoda/internal/config"
)

// newProvidersCmd creates the providers command group.
func newProvidersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Manage AI providers",
		Long: `Manage AI providers for yoda.

Custom providers let you chat with your own OpenAI-compatible endpoints
or enterprise LLMs that are not part of the default catwalk catalog.

Examples:
  yoda providers list                 List all providers (catwalk + custom)
  yoda providers show <provider-id>   Show provider details
  yoda providers add-template ollama  Add from a pre-built template
  yoda providers remove my-provider   Remove a custom provider
  yoda providers export               Print custom providers as JSON
  yoda providers validate             Validate custom provider configurations
  yoda providers templates            List available templates`,
	}

	cmd.AddCommand(
		newProvidersListCmd(),
		newProvidersShowCmd(),
		newProvidersAddCmd(),
		newProvidersAddTemplateCmd(),
		newProvidersRemoveCmd(),
		newProvidersExportCmd(),
		newProvidersValidateCmd(),
		newProvidersTemplatesCmd(),
	)

	return cmd
}

// customManager loads config and returns the custom provider manager
// along with the config it came from.
func customManager(cmd *cobra.Command) (*config.Config, *config.CustomProviderManager, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, config.NewProviderLoader(cfg.DataDir()).GetCustomProviderManager(), nil
}

// printModelDefaults writes the provider's default model IDs, one per line.
func printModelDefaults(w io.Writer, large, small string) {
	if large != "" {
		fmt.Fprintf(w, "    Large: %s\n", large)
	}
	if small != "" {
		fmt.Fprintf(w, "    Small: %s\n", small)
	}
}

func newProvidersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all providers",
		Long:  `List all available providers including both catwalk providers and custom providers.`,
		RunE:  runProvidersList,
	}

	cmd.Flags().Bool("catwalk-only", false, "Show only catwalk providers")
	cmd.Flags().Bool("custom-only", false, "Show only custom providers")

	return cmd
}

func runProvidersList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	catwalkOnly, _ := cmd.Flags().GetBool("catwalk-only")
	customOnly, _ := cmd.Flags().GetBool("custom-only")
	out := cmd.OutOrStdout()

	loader := config.NewProviderLoader(cfg.DataDir())
	allProviders, err := loader.LoadAllProviders(cfg)
	if err != nil {
		return fmt.Errorf("loading providers: %w", err)
	}

	customProviders, err := loader.GetCustomProviderManager().Load()
	if err != nil {
		return fmt.Errorf("loading custom providers: %w", err)
	}
	customIDs := make(map[string]bool, len(customProviders))
	for _, cp := range customProviders {
		customIDs[cp.ID] = true
	}

	fmt.Fprintln(out, "Available Providers:")
	fmt.Fprintln(out)

	if !customOnly {
		catwalkCount := 0
		for _, p := range allProviders {
			if customIDs[string(p.ID)] {
				continue
			}
			catwalkCount++
			fmt.Fprintf(out, "  %s (%s)\n", p.Name, p.ID)
			printModelDefaults(out, p.DefaultLargeModelID, p.DefaultSmallModelID)
		}
		if catwalkCount > 0 {
			fmt.Fprintf(out, "\nCatwalk providers: %d\n", catwalkCount)
		}
	}

	if catwalkOnly {
		return nil
	}

	if len(customProviders) == 0 {
		fmt.Fprintln(out, "\nNo custom providers configured.")
		fmt.Fprintln(out, "Run 'yoda providers add-template <template>' to add one.")
		return nil
	}

	if !customOnly {
		fmt.Fprintln(out)
	}
	for _, cp := range customProviders {
		fmt.Fprintf(out, "  %s (%s) [Custom]\n", cp.Name, cp.ID)
		printModelDefaults(out, cp.DefaultLargeModelID, cp.DefaultSmallModelID)
		fmt.Fprintf(out, "    API: %s\n", cp.APIEndpoint)
		fmt.Fprintf(out, "    Models: %d\n", len(cp.Models))
	}
	fmt.Fprintf(out, "\nCustom providers: %d\n", len(customProviders))

	return nil
}

func newProvidersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <provider-id>",
		Short: "Show provider details",
		Long:  `Show detailed information about a specific provider including its models.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runProvidersShow,
	}
}

func runProvidersShow(cmd *cobra.Command, args []string) error {
	providerID := args[0]
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	loader := config.NewProviderLoader(cfg.DataDir())
	allProviders, err := loader.LoadAllProviders(cfg)
	if err != nil {
		return fmt.Errorf("loading providers: %w", err)
	}

	var found *catwalk.Provider
	for i := range allProviders {
		if string(allProviders[i].ID) == providerID {
			found = &allProviders[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("provider %q not found", providerID)
	}

	fmt.Fprintf(out, "Provider: %s\n", found.Name)
	fmt.Fprintf(out, "ID: %s\n", found.ID)
	fmt.Fprintf(out, "Type: %s\n", found.Type)
	fmt.Fprintf(out, "API Endpoint: %s\n", found.APIEndpoint)

	if custom, err := loader.GetCustomProviderManager().Get(providerID); err == nil {
		fmt.Fprintln(out, "[Custom Provider]")
		if len(custom.DefaultHeaders) > 0 {
			fmt.Fprintln(out, "\nDefault Headers:")
			for k, v := range custom.DefaultHeaders {
				fmt.Fprintf(out, "  %s: %s\n", k, v)
			}
		}
	}

	fmt.Fprintf(out, "\nModels (%d):\n", len(found.Models))
	for _, model := range found.Models {
		printModelDetail(out, model)
	}

	if found.DefaultLargeModelID != "" {
		fmt.Fprintf(out, "\nDefault Large Model: %s\n", found.DefaultLargeModelID)
	}
	if found.DefaultSmallModelID != "" {
		fmt.Fprintf(out, "Default Small Model: %s\n", found.DefaultSmallModelID)
	}

	return nil
}

func printModelDetail(w io.Writer, model catwalk.Model) {
	fmt.Fprintf(w, "  %s\n", model.Name)
	fmt.Fprintf(w, "    ID: %s\n", model.ID)
	fmt.Fprintf(w, "    Context: %d tokens\n", model.ContextWindow)
	if model.DefaultMaxTokens > 0 {
		fmt.Fprintf(w, "    Max Tokens: %d\n", model.DefaultMaxTokens)
	}
	if model.CostPer1MIn > 0 || model.CostPer1MOut > 0 {
		fmt.Fprintf(w, "    Cost: $%.2f / 1M in, $%.2f / 1M out\n", model.CostPer1MIn, model.CostPer1MOut)
	}
}

func newProvidersAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Add a custom provider",
		Long:  `Show the available ways to add a custom provider.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), `To add a custom provider, use one of the following methods:

1. Use a pre-built template:
   yoda providers templates
   yoda providers add-template ollama

2. Use the interactive setup wizard:
   yoda
   (select 'Add Custom Provider')
`)
			return nil
		},
	}
}

func newProvidersAddTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-template <template-name>",
		Short: "Add a provider from a template",
		Long: `Add a custom provider from a pre-built template.

Available templates: ollama, lmstudio, openrouter, together, deepseek, groq, anthropic-compatible, azure-openai, vertexai`,
		Args: cobra.ExactArgs(1),
		RunE: runProvidersAddTemplate,
	}

	cmd.Flags().String("id", "", "Custom provider ID (defaults to template ID)")
	cmd.Flags().String("name", "", "Custom provider name (defaults to template name)")
	cmd.Flags().StringSlice("var", []string{}, "Template variables (format: key=value)")

	return cmd
}

func runProvidersAddTemplate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, manager, err := customManager(cmd)
	if err != nil {
		return err
	}

	template, ok := config.GetTemplate(args[0])
	if !ok {
		return fmt.Errorf("unknown template %q", args[0])
	}

	customID, _ := cmd.Flags().GetString("id")
	customName, _ := cmd.Flags().GetString("name")
	varValues, _ := cmd.Flags().GetStringSlice("var")

	vars := templateVars(template, varValues)
	customProvider := template.ToCustomProvider(vars, customID, customName)

	result := config.ValidateCustomProvider(&customProvider, existingProviderIDs(cfg))
	if !result.IsValid {
		fmt.Fprintln(out, "Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
		return fmt.Errorf("provider validation failed")
	}

	if err := manager.Add(customProvider); err != nil {
		return fmt.Errorf("adding provider: %w", err)
	}

	fmt.Fprintf(out, "Added provider: %s (%s)\n", customProvider.Name, customProvider.ID)
	fmt.Fprintf(out, "\nNext steps:\n")
	fmt.Fprintf(out, "  1. Set your API key in yoda.json:\n")
	fmt.Fprintf(out, "     yoda providers show %s\n", customProvider.ID)
	fmt.Fprintf(out, "  2. Or set the environment variable and run yoda\n")

	return nil
}

// templateVars parses key=value flags and fills in template defaults
// for anything not set explicitly.
func templateVars(template config.ProviderTemplate, varValues []string) map[string]string {
	vars := make(map[string]string)
	for _, v := range varValues {
		if key, value, ok := strings.Cut(v, "="); ok {
			vars[key] = value
		}
	}
	for _, tv := range template.Variables {
		if _, ok := vars[tv.Name]; !ok && tv.DefaultValue != "" {
			vars[tv.Name] = tv.DefaultValue
		}
	}
	return vars
}

func newProvidersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <provider-id>",
		Short: "Remove a custom provider",
		Long:  `Remove a custom provider by its ID.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runProvidersRemove,
	}
}

func runProvidersRemove(cmd *cobra.Command, args []string) error {
	providerID := args[0]
	out := cmd.OutOrStdout()

	_, manager, err := customManager(cmd)
	if err != nil {
		return err
	}

	if !manager.Exists(providerID) {
		return fmt.Errorf("custom provider %q not found", providerID)
	}
	if err := manager.Remove(providerID); err != nil {
		return fmt.Errorf("removing provider: %w", err)
	}

	fmt.Fprintf(out, "Removed custom provider: %s\n", providerID)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Note: Provider configuration may still exist in yoda.json.")
	fmt.Fprintln(out, "      Run 'yoda providers list' to see remaining providers.")

	return nil
}

func newProvidersExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [output-file]",
		Short: "Export custom providers as JSON",
		Long:  `Export custom providers as JSON, to stdout or to a file that can be shared and imported elsewhere.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runProvidersExport,
	}
}

func runProvidersExport(cmd *cobra.Command, args []string) error {
	_, manager, err := customManager(cmd)
	if err != nil {
		return err
	}

	customProviders, err := manager.Load()
	if err != nil {
		return fmt.Errorf("loading custom providers: %w", err)
	}
	if len(customProviders) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No custom providers to export.")
		return nil
	}

	data, err := json.MarshalIndent(config.CustomProvidersFile{
		Version:   "1.0",
		Providers: customProviders,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding providers: %w", err)
	}

	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d custom provider(s) to: %s\n", len(customProviders), args[0])

	return nil
}

func newProvidersValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate custom provider configurations",
		Long:  `Validate all custom provider configurations and report any errors or warnings.`,
		RunE:  runProvidersValidate,
	}

	cmd.Flags().Bool("verbose", false, "Show detailed validation results")

	return cmd
}

func runProvidersValidate(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	out := cmd.OutOrStdout()

	_, manager, err := customManager(cmd)
	if err != nil {
		return err
	}

	customProviders, err := manager.Load()
	if err != nil {
		return fmt.Errorf("loading custom providers: %w", err)
	}
	if len(customProviders) == 0 {
		fmt.Fprintln(out, "No custom providers configured.")
		return nil
	}

	fmt.Fprintf(out, "Validating %d custom provider(s)...\n\n", len(customProviders))

	allValid := true
	existingIDs := make([]string, 0, len(customProviders))
	for _, cp := range customProviders {
		existingIDs = append(existingIDs, cp.ID)

		result := config.ValidateCustomProvider(&cp, existingIDs)
		mark := "✓"
		if !result.IsValid {
			mark = "✗"
			allValid = false
		}
		fmt.Fprintf(out, "%s %s (%s)\n", mark, cp.Name, cp.ID)

		if verbose || !result.IsValid {
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  Error: %s\n", e)
			}
			for _, warning := range result.Warnings {
				fmt.Fprintf(out, "  Warning: %s\n", warning)
			}
		}
	}

	fmt.Fprintln(out)
	if !allValid {
		fmt.Fprintln(out, "Some custom providers have validation errors.")
		return fmt.Errorf("validation failed")
	}
	fmt.Fprintln(out, "All custom providers are valid!")

	return nil
}

func newProvidersTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available provider templates",
		Long:  `List all available provider templates that can be used with add-template.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			templates := config.ProviderTemplates()

			fmt.Fprintln(out, "Available Provider Templates:")
			fmt.Fprintln(out)
			for _, name := range config.ListTemplateNames() {
				t := templates[name]
				fmt.Fprintf(out, "  %s\n", name)
				fmt.Fprintf(out, "    %s\n", t.Description)
				if len(t.DefaultModels) > 0 {
					fmt.Fprintf(out, "    Models: %d default\n", len(t.DefaultModels))
				}
				if len(t.Variables) > 0 {
					names := make([]string, 0, len(t.Variables))
					for _, v := range t.Variables {
						names = append(names, v.Name)
					}
					fmt.Fprintf(out, "    Variables: %s\n", strings.Join(names, ", "))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

// existingProviderIDs returns all known provider IDs, catwalk and custom.
func existingProviderIDs(cfg *config.Config) []string {
	loader := config.NewProviderLoader(cfg.DataDir())
	allProviders, _ := loader.LoadAllProviders(cfg)

	ids := make([]string, 0, len(allProviders))
	for _, p := range allProviders {
		ids = append(ids, string(p.ID))
	}
	return ids
}
