package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/service"
)

// NewSyntaxCommand creates the syntax command.
func NewSyntaxCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		metamodelPath string
		contextClass  string
	)

	cmd := &cobra.Command{
		Use:   "syntax <expression>",
		Short: "Check an OCL expression for syntax errors",
		Long: `Check a single OCL expression against a metamodel context class.

The expression may be bare ("self.age >= 18") or a full declaration
("context Person inv ValidAge: self.age >= 18"). Script-dialect tokens
fail the check before parsing. The exit code is 1 on any issue.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSyntax(rootOpts, cmd, metamodelPath, contextClass, args[0])
		},
	}

	cmd.Flags().StringVarP(&metamodelPath, "metamodel", "m", "", "metamodel YAML file")
	cmd.Flags().StringVarP(&contextClass, "context", "c", "", "context class id or name")
	_ = cmd.MarkFlagRequired("metamodel")
	_ = cmd.MarkFlagRequired("context")

	return cmd
}

func runSyntax(opts *RootOptions, cmd *cobra.Command, metamodelPath, contextClass, expression string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	mm, err := loadMetamodelFile(metamodelPath)
	if err != nil {
		_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
		return err
	}
	class := resolveClass(mm, contextClass)
	if class == nil {
		wrapped := NewExitError(ExitCommandError, fmt.Sprintf("context class %q not found in metamodel %q", contextClass, mm.ID))
		_ = formatter.Error(ErrCodeNotFound, wrapped.Message, nil)
		return wrapped
	}

	st, err := openStore("")
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return err
	}
	defer st.Close()

	svc := service.New(&fileProvider{mm: mm}, st, newLogger(opts))
	result := svc.ValidateSyntax(expression, mm, class)

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(formatter.Writer, "OK: expression is well-formed for context %q\n", class.Name)
	} else {
		for _, issue := range result.Issues {
			fmt.Fprintln(formatter.Writer, issue.Message)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "expression has syntax issues")
	}
	return nil
}
