package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/service"
)

// NewConstraintsCommand creates the constraints command group.
func NewConstraintsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "constraints",
		Short: "Manage the persistent constraint store",
	}

	cmd.AddCommand(newConstraintsListCommand(rootOpts))
	cmd.AddCommand(newConstraintsAddCommand(rootOpts))
	cmd.AddCommand(newConstraintsRemoveCommand(rootOpts))

	return cmd
}

// constraintsService wires a service over the metamodel file and the store.
func constraintsService(opts *RootOptions, metamodelPath, dbPath string) (*service.Service, *metamodel.Metamodel, func(), error) {
	mm, err := loadMetamodelFile(metamodelPath)
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := openStore(dbPath)
	if err != nil {
		return nil, nil, nil, err
	}
	svc := service.New(&fileProvider{mm: mm}, st, newLogger(opts))
	return svc, mm, func() { _ = st.Close() }, nil
}

func newConstraintsListCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		metamodelPath string
		dbPath        string
		contextClass  string
	)

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List constraints of a metamodel",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}
			svc, mm, closeStore, err := constraintsService(rootOpts, metamodelPath, dbPath)
			if err != nil {
				_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
				return err
			}
			defer closeStore()

			var constraints []*metamodel.Constraint
			if contextClass != "" {
				class := resolveClass(mm, contextClass)
				if class == nil {
					wrapped := NewExitError(ExitCommandError, fmt.Sprintf("class %q not found", contextClass))
					_ = formatter.Error(ErrCodeNotFound, wrapped.Message, nil)
					return wrapped
				}
				constraints, err = svc.GetConstraintsForMetaClass(cmd.Context(), mm.ID, class.ID)
			} else {
				constraints, err = svc.GetAllConstraints(cmd.Context(), mm.ID)
			}
			if err != nil {
				wrapped := WrapExitError(ExitCommandError, "failed to list constraints", err)
				_ = formatter.Error(ErrCodeStore, wrapped.Error(), nil)
				return wrapped
			}

			if formatter.Format == "json" {
				return formatter.Success(constraints)
			}
			if len(constraints) == 0 {
				fmt.Fprintln(formatter.Writer, "No constraints.")
				return nil
			}
			for _, c := range constraints {
				status := "valid"
				if !c.IsValid {
					status = "invalid"
				}
				fmt.Fprintf(formatter.Writer, "%s  %s  context=%s  dialect=%s  severity=%s  %s\n",
					c.ID, c.Name, c.ContextID, c.Dialect, c.Severity, status)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&metamodelPath, "metamodel", "m", "", "metamodel YAML file")
	cmd.Flags().StringVar(&dbPath, "db", "", "constraint store file")
	cmd.Flags().StringVarP(&contextClass, "context", "c", "", "only constraints applicable to this class (id or name)")
	_ = cmd.MarkFlagRequired("metamodel")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func newConstraintsAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		metamodelPath string
		dbPath        string
		contextClass  string
		name          string
		expression    string
		description   string
		severity      string
	)

	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Add a constraint to the store",
		Long:          "Adds an OCL constraint. A failing syntax check does not reject the write: the constraint is stored as invalid and excluded from validation runs.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}
			svc, mm, closeStore, err := constraintsService(rootOpts, metamodelPath, dbPath)
			if err != nil {
				_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
				return err
			}
			defer closeStore()

			class := resolveClass(mm, contextClass)
			if class == nil {
				wrapped := NewExitError(ExitCommandError, fmt.Sprintf("class %q not found", contextClass))
				_ = formatter.Error(ErrCodeNotFound, wrapped.Message, nil)
				return wrapped
			}

			c, err := svc.CreateConstraint(cmd.Context(), mm.ID, service.ConstraintSpec{
				ContextClassID: class.ID,
				Name:           name,
				Expression:     expression,
				Description:    description,
				Severity:       metamodel.Severity(severity),
			})
			if err != nil {
				wrapped := WrapExitError(ExitCommandError, "failed to create constraint", err)
				_ = formatter.Error(ErrCodeStore, wrapped.Error(), nil)
				return wrapped
			}

			if formatter.Format == "json" {
				return formatter.Success(c)
			}
			if c.IsValid {
				fmt.Fprintf(formatter.Writer, "Created constraint %s (%s)\n", c.ID, c.Name)
			} else {
				fmt.Fprintf(formatter.Writer, "Created constraint %s (%s) with invalid expression: %s\n",
					c.ID, c.Name, c.ErrorMessage)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&metamodelPath, "metamodel", "m", "", "metamodel YAML file")
	cmd.Flags().StringVar(&dbPath, "db", "", "constraint store file")
	cmd.Flags().StringVarP(&contextClass, "context", "c", "", "context class id or name")
	cmd.Flags().StringVarP(&name, "name", "n", "", "constraint name")
	cmd.Flags().StringVarP(&expression, "expression", "e", "", "OCL expression")
	cmd.Flags().StringVar(&description, "description", "", "constraint description")
	cmd.Flags().StringVar(&severity, "severity", string(metamodel.SeverityError), "severity (error|warning|info)")
	_ = cmd.MarkFlagRequired("metamodel")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("context")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("expression")

	return cmd
}

func newConstraintsRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		metamodelPath string
		dbPath        string
	)

	cmd := &cobra.Command{
		Use:           "remove <constraint-id>",
		Short:         "Remove a constraint from the store",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}
			svc, mm, closeStore, err := constraintsService(rootOpts, metamodelPath, dbPath)
			if err != nil {
				_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
				return err
			}
			defer closeStore()

			ok, err := svc.DeleteConstraint(cmd.Context(), mm.ID, args[0])
			if err != nil {
				wrapped := WrapExitError(ExitCommandError, "failed to delete constraint", err)
				_ = formatter.Error(ErrCodeStore, wrapped.Error(), nil)
				return wrapped
			}
			if !ok {
				wrapped := NewExitError(ExitFailure, fmt.Sprintf("constraint %q not found", args[0]))
				_ = formatter.Error(ErrCodeNotFound, wrapped.Message, nil)
				return wrapped
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]any{"deleted": args[0]})
			}
			fmt.Fprintf(formatter.Writer, "Deleted constraint %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&metamodelPath, "metamodel", "m", "", "metamodel YAML file")
	cmd.Flags().StringVar(&dbPath, "db", "", "constraint store file")
	_ = cmd.MarkFlagRequired("metamodel")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}
