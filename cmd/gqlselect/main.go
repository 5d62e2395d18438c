// Command gqlselect compiles a JSON selection against a schema into a
// GraphQL document or request payload.
//
//	gqlselect --schema schema.graphql --selection selection.json --typed
//
// Every flag can also be set from the environment with the GQLSELECT_
// prefix, e.g. GQLSELECT_SCHEMA.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jensneuse/abstractlogger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	graphql "github.com/llehouerou/go-graphql-builder"
	"github.com/llehouerou/go-graphql-builder/schema"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:          "gqlselect",
		Short:        "compiles a selection into a GraphQL document",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.String("schema", "", "schema file: JSON schema payload (.json) or SDL")
	flags.String("selection", "-", "selection JSON file, - reads stdin")
	flags.String("operation", string(graphql.QueryOperation), "operation kind: query, mutation or subscription")
	flags.String("name", "", "operation name")
	flags.Bool("typed", false, "declare variables with the types of their arguments")
	flags.Bool("request", false, "print the JSON request payload instead of the document")
	flags.String("variables", "", "JSON object of variable values for the request payload")
	flags.Bool("format", false, "pretty print the document")
	flags.Bool("verbose", false, "log selections left out of the document")
	_ = v.BindPFlags(flags)
	v.SetEnvPrefix("GQLSELECT")
	v.AutomaticEnv()

	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	logger, err := newLogger(v.GetBool("verbose"))
	if err != nil {
		return err
	}

	schemaPath := v.GetString("schema")
	if schemaPath == "" {
		return fmt.Errorf("--schema is required")
	}
	s, err := loadSchema(schemaPath)
	if err != nil {
		return err
	}

	data, err := readInput(v.GetString("selection"), cmd.InOrStdin())
	if err != nil {
		return err
	}
	sel, err := graphql.UnmarshalSelection(data)
	if err != nil {
		return err
	}

	kind, err := operationKind(v.GetString("operation"))
	if err != nil {
		return err
	}
	q := graphql.NewBuiltQuery(kind, sel)

	var options []graphql.Option
	if name := v.GetString("name"); name != "" {
		options = append(options, graphql.OperationName(name))
	}

	b := graphql.NewBuilder(s).
		WithLogger(logger).
		WithTypedVariables(v.GetBool("typed"))

	var out string
	if v.GetBool("request") {
		var variables map[string]any
		if raw := v.GetString("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &variables); err != nil {
				return fmt.Errorf("failed to decode --variables: %w", err)
			}
		}
		out, err = b.CompileJSON(q, variables, options...)
	} else {
		out, err = b.Compile(q, options...)
		if err == nil && v.GetBool("format") {
			out, err = graphql.Format(out)
		}
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
	return err
}

func newLogger(verbose bool) (abstractlogger.Logger, error) {
	if !verbose {
		return abstractlogger.NoopLogger, nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return abstractlogger.NewZapLogger(logger, abstractlogger.DebugLevel), nil
}

func loadSchema(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return graphql.ParseSchemaJSON(data)
	}
	return schema.FromSDL(filepath.Base(path), string(data))
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read selection from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read selection: %w", err)
	}
	return data, nil
}

func operationKind(s string) (graphql.OperationKind, error) {
	switch kind := graphql.OperationKind(s); kind {
	case graphql.QueryOperation, graphql.MutationOperation, graphql.SubscriptionOperation:
		return kind, nil
	}
	return "", fmt.Errorf("unknown operation kind %q", s)
}
