package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/mcp"
)

// mcpTimeout bounds CLI calls against MCP servers, which may need to
// download and start a subprocess on first contact.
const mcpTimeout = 30 * time.Second

// newMCPCmd creates the mcp command group.
func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Manage MCP servers",
		Long: `Manage the MCP servers yoda exposes to the model as tools.

Servers are described by a spec string:
  stdio://uvx mcp-server-fetch      stdio subprocess (scheme optional)
  sse://example.com/mcp/sse         SSE endpoint
  http+stream://example.com/mcp     streamable HTTP endpoint
  https://example.com/mcp           plain URL, transport inferred

Examples:
  yoda mcp list
  yoda mcp add fetch uvx mcp-server-fetch
  yoda mcp add docs https://example.com/mcp/sse
  yoda mcp tools fetch
  yoda mcp test uvx mcp-server-fetch
  yoda mcp remove fetch`,
	}

	cmd.AddCommand(newMCPListCmd())
	cmd.AddCommand(newMCPAddCmd())
	cmd.AddCommand(newMCPRemoveCmd())
	cmd.AddCommand(newMCPToolsCmd())
	cmd.AddCommand(newMCPTestCmd())

	return cmd
}

// newMCPListCmd lists configured MCP servers.
func newMCPListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured MCP servers",
		RunE:  runMCPList,
	}
}

func runMCPList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	servers := config.NewMCPServerManager(cfg).List()
	if len(servers) == 0 {
		fmt.Println("No MCP servers configured.")
		fmt.Println("Run 'yoda mcp add <name> <spec>' to add one.")
		return nil
	}

	fmt.Println("MCP Servers:")
	fmt.Println()
	for _, server := range servers {
		marker := ""
		if server.Disabled {
			marker = " (disabled)"
		}
		fmt.Printf("  %s%s\n", server.Name, marker)
		fmt.Printf("    Transport: %s\n", server.Transport)
		switch server.Transport {
		case config.MCPTransportStdio:
			fmt.Printf("    Command: %s\n", strings.Join(append([]string{server.Command}, server.Args...), " "))
		default:
			fmt.Printf("    URL: %s\n", server.URL)
		}
	}
	fmt.Printf("\nTotal: %d\n", len(servers))

	return nil
}

// newMCPAddCmd registers a new MCP server.
func newMCPAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> <spec>...",
		Short: "Add an MCP server",
		Long: `Register an MCP server under a name. The spec is everything after
the name, so stdio command lines need no quoting:

  yoda mcp add fetch uvx mcp-server-fetch`,
		Args: cobra.MinimumNArgs(2),
		RunE: runMCPAdd,
	}

	cmd.Flags().StringSlice("env", []string{}, "Environment variables for stdio servers (format: key=value)")
	cmd.Flags().StringSlice("header", []string{}, "HTTP headers for remote servers (format: key=value)")

	return cmd
}

func runMCPAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	spec := strings.Join(args[1:], " ")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	server, err := mcp.ParseSpec(name, spec)
	if err != nil {
		return fmt.Errorf("parsing server spec: %w", err)
	}

	envValues, _ := cmd.Flags().GetStringSlice("env")
	if env := parseKeyValues(envValues); len(env) > 0 {
		server.Env = env
	}
	headerValues, _ := cmd.Flags().GetStringSlice("header")
	if headers := parseKeyValues(headerValues); len(headers) > 0 {
		server.Headers = headers
	}

	if err := config.NewMCPServerManager(cfg).Add(server); err != nil {
		return fmt.Errorf("adding server: %w", err)
	}

	fmt.Printf("Added MCP server: %s (%s)\n", server.Name, server.Transport)
	fmt.Printf("\nRun 'yoda mcp tools %s' to see what it offers.\n", server.Name)

	return nil
}

// newMCPRemoveCmd removes an MCP server by name.
func newMCPRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an MCP server",
		Args:  cobra.ExactArgs(1),
		RunE:  runMCPRemove,
	}
}

func runMCPRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	manager := config.NewMCPServerManager(cfg)
	server := manager.GetByName(name)
	if server == nil {
		return fmt.Errorf("MCP server %q not found", name)
	}
	if err := manager.Delete(server.ID); err != nil {
		return fmt.Errorf("removing server: %w", err)
	}

	fmt.Printf("Removed MCP server: %s\n", name)

	return nil
}

// newMCPToolsCmd connects to a configured server and lists its tools.
func newMCPToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools <name>",
		Short: "List the tools an MCP server offers",
		Args:  cobra.ExactArgs(1),
		RunE:  runMCPTools,
	}
}

func runMCPTools(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	server := config.NewMCPServerManager(cfg).GetByName(name)
	if server == nil {
		return fmt.Errorf("MCP server %q not found", name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mcpTimeout)
	defer cancel()

	client := mcp.NewClient(*server)
	defer client.Close()

	tools, err := client.Tools(ctx)
	if err != nil {
		return fmt.Errorf("listing tools: %w", err)
	}
	if len(tools) == 0 {
		fmt.Printf("%s offers no tools.\n", name)
		return nil
	}

	fmt.Printf("Tools from %s (%d):\n", name, len(tools))
	fmt.Println()
	for _, tool := range tools {
		fmt.Printf("  %s\n", tool.Name)
		if desc := firstLine(tool.Description); desc != "" {
			fmt.Printf("    %s\n", desc)
		}
	}

	return nil
}

// newMCPTestCmd pings a server spec without saving it.
func newMCPTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <spec>...",
		Short: "Test a server spec without saving it",
		Long: `Connect to a server described by a spec string and report whether it
answers. Nothing is written to the configuration.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runMCPTest,
	}
}

func runMCPTest(_ *cobra.Command, args []string) error {
	spec := strings.Join(args, " ")

	server, err := mcp.ParseSpec("test", spec)
	if err != nil {
		return fmt.Errorf("parsing server spec: %w", err)
	}

	fmt.Printf("Connecting (%s)...\n", server.Transport)

	ctx, cancel := context.WithTimeout(context.Background(), mcpTimeout)
	defer cancel()

	client := mcp.NewClient(server)
	defer client.Close()

	toolCount, err := client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("server did not answer: %w", err)
	}

	fmt.Printf("OK: server answered with %d tool(s).\n", toolCount)

	return nil
}

// parseKeyValues turns key=value pairs into a map, skipping malformed
// entries.
func parseKeyValues(values []string) map[string]string {
	result := make(map[string]string, len(values))
	for _, v := range values {
		parts := strings.SplitN(v, "=", 2)
		if len(parts) == 2 {
			result[parts[0]] = parts[1]
		}
	}
	return result
}

// firstLine returns the first non-empty line of s, trimmed.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
