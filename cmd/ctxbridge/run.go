package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/xeipuuv/gojsonschema"

	"github.com/ctxbridge/ctxbridge/contextserver"
	"github.com/ctxbridge/ctxbridge/tools"
)

func runCommand(ctx context.Context, cmd *cli.Command) error {
	serverID := cmd.Args().Get(0)
	toolName := cmd.Args().Get(1)
	if serverID == "" || toolName == "" {
		return fmt.Errorf("usage: ctxbridge run <server> <tool>")
	}

	_, serverStore, err := setup(cmd)
	if err != nil {
		return err
	}
	defer serverStore.StopAll()

	srv, ok := serverStore.Get(contextserver.ServerID(serverID))
	if !ok {
		return fmt.Errorf("server %q is not configured", serverID)
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}

	registry := tools.NewRegistry(nil)
	source := tools.ContextServerSource{Store: serverStore, ServerID: srv.ID()}
	if err := registry.LoadTools(ctx, source, []string{toolName}); err != nil {
		return err
	}
	tool, ok := registry.Get(toolName)
	if !ok {
		return fmt.Errorf("server %q does not advertise tool %q", serverID, toolName)
	}

	var input any
	if err := json.Unmarshal([]byte(cmd.String("input")), &input); err != nil {
		return fmt.Errorf("invalid --input JSON: %w", err)
	}
	warnOnSchemaMismatch(tool, input)

	executor := tools.NewExecutor(registry).WithHooks(&tools.Hooks{
		RequestConfirmation: confirmRun,
	})

	result := <-executor.Execute(ctx, tools.Call{ID: "cli", Name: toolName, Input: input})
	if result.Err != nil {
		return result.Err
	}
	return printOutput(result.Output, cmd.String("output"))
}

// warnOnSchemaMismatch validates the input against the tool's declared
// schema. Mismatches only warn; the server stays the authority on what it
// accepts.
func warnOnSchemaMismatch(tool tools.Tool, input any) {
	schema, err := tool.InputSchema(tools.SchemaFormatJSONSchema)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return
	}

	validation, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(input),
	)
	if err != nil {
		// Schema not validatable, the remote call proceeds regardless
		return
	}
	if !validation.Valid() {
		for _, desc := range validation.Errors() {
			fmt.Fprintf(os.Stderr, "Warning: input doesn't match schema: %s\n", errorStyle.Styled(desc.String()))
		}
	}
}

func confirmRun(_ context.Context, tool tools.Tool, call tools.Call) bool {
	if !isTerminal() {
		fmt.Fprintln(os.Stderr, errorStyle.Styled("tool requires confirmation but no terminal is attached"))
		return false
	}
	return promptYesNo(fmt.Sprintf("Run tool %s?", highlightStyle.Styled(tool.Name())), false)
}

func printOutput(out *tools.Output, imagePath string) error {
	switch out.Content.Kind {
	case tools.ContentImage:
		img := out.Content.Image
		if err := os.WriteFile(imagePath, img.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		fmt.Println(successStyle.Styled(fmt.Sprintf("wrote %dx%d image to %s", img.Width, img.Height, imagePath)))
	default:
		fmt.Println(out.Content.Text)
	}
	return nil
}
