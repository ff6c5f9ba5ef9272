package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/loader"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

// fileProvider serves the metamodel and model loaded from the command's
// input files. Ids not matching the loaded documents resolve to nil, the
// same contract as a backing schema store.
type fileProvider struct {
	mm    *metamodel.Metamodel
	model *metamodel.Model
}

func (p *fileProvider) MetamodelByID(_ context.Context, id string) (*metamodel.Metamodel, error) {
	if p.mm != nil && p.mm.ID == id {
		return p.mm, nil
	}
	return nil, nil
}

func (p *fileProvider) ModelByID(_ context.Context, id string) (*metamodel.Model, error) {
	if p.model != nil && p.model.ID == id {
		return p.model, nil
	}
	return nil, nil
}

// loadMetamodelFile loads a metamodel, mapping failures to command errors.
func loadMetamodelFile(path string) (*metamodel.Metamodel, error) {
	mm, err := loader.LoadMetamodel(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load metamodel", err)
	}
	return mm, nil
}

// loadModelFile loads a model against its metamodel, mapping failures to
// command errors.
func loadModelFile(path string, mm *metamodel.Metamodel) (*metamodel.Model, error) {
	model, err := loader.LoadModel(path, mm)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load model", err)
	}
	return model, nil
}

// resolveClass accepts a class id or a class name.
func resolveClass(mm *metamodel.Metamodel, idOrName string) *metamodel.MetaClass {
	if class := mm.ClassByID(idOrName); class != nil {
		return class
	}
	return mm.ClassByName(idOrName)
}

// newLogger builds the command logger: debug to stderr when verbose,
// silent otherwise.
func newLogger(opts *RootOptions) *slog.Logger {
	if opts.Verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
