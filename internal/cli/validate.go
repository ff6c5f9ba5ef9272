package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/service"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/store"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		metamodelPath string
		modelPath     string
		dbPath        string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a model against its metamodel's constraints",
		Long: `Validate an instance model against the OCL constraints of its metamodel.

Constraints come from the metamodel file plus, when --db is given, the
constraint store. The exit code is 1 when any issue is found.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd, metamodelPath, modelPath, dbPath)
		},
	}

	cmd.Flags().StringVarP(&metamodelPath, "metamodel", "m", "", "metamodel YAML file")
	cmd.Flags().StringVar(&modelPath, "model", "", "model YAML file")
	cmd.Flags().StringVar(&dbPath, "db", "", "constraint store (defaults to in-memory)")
	_ = cmd.MarkFlagRequired("metamodel")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command, metamodelPath, modelPath, dbPath string) error {
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
	model, err := loadModelFile(modelPath, mm)
	if err != nil {
		_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
		return err
	}
	formatter.VerboseLog("Loaded metamodel %s (%d classes, %d constraints), model %s (%d elements)",
		mm.ID, len(mm.Classes), len(mm.Constraints), model.ID, len(model.Elements))

	st, err := openStore(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return err
	}
	defer st.Close()

	svc := service.New(&fileProvider{mm: mm, model: model}, st, newLogger(opts))
	report, err := svc.ValidateModelAgainstConstraints(cmd.Context(), model.ID, mm.ID)
	if err != nil {
		wrapped := WrapExitError(ExitCommandError, "validation failed", err)
		_ = formatter.Error(ErrCodeGeneric, wrapped.Error(), nil)
		return wrapped
	}

	if formatter.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		renderReport(formatter.Writer, model, mm, report)
	}

	if !report.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(report.Issues)))
	}
	return nil
}

func openStore(dbPath string) (*store.Store, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open constraint store", err)
	}
	return st, nil
}

// severityOrder fixes the rendering order of the report sections.
var severityOrder = []metamodel.Severity{
	metamodel.SeverityError,
	metamodel.SeverityWarning,
	metamodel.SeverityInfo,
}

// renderReport writes the human-readable validation report, issues grouped
// by severity.
func renderReport(w io.Writer, model *metamodel.Model, mm *metamodel.Metamodel, report metamodel.ValidationResult) {
	fmt.Fprintf(w, "Validation report for model %q (metamodel %q)\n", model.ID, mm.ID)

	if report.Valid {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No issues found.")
		fmt.Fprintln(w, "Result: VALID")
		return
	}

	counts := map[metamodel.Severity]int{}
	for _, sev := range severityOrder {
		group := issuesBySeverity(report.Issues, sev)
		counts[sev] = len(group)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", severityLabel(sev))
		for _, issue := range group {
			fmt.Fprintf(w, "  [%s] %s: %s\n", issue.ElementID, issue.ConstraintName, issue.Message)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d issue(s): %d error(s), %d warning(s), %d info\n",
		len(report.Issues),
		counts[metamodel.SeverityError],
		counts[metamodel.SeverityWarning],
		counts[metamodel.SeverityInfo])
	fmt.Fprintln(w, "Result: INVALID")
}

func issuesBySeverity(issues []metamodel.ValidationIssue, sev metamodel.Severity) []metamodel.ValidationIssue {
	var out []metamodel.ValidationIssue
	for _, issue := range issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

func severityLabel(sev metamodel.Severity) string {
	switch sev {
	case metamodel.SeverityError:
		return "ERRORS"
	case metamodel.SeverityWarning:
		return "WARNINGS"
	default:
		return "INFO"
	}
}
