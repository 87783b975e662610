package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/quicktab/pkg/adapters/fs"
	"github.com/aretw0/quicktab/pkg/core"
)

// Init prepares the repository for the vault at uri.
// The uri is adapter-specific (a directory for "fs").
func Init(uri string, opts ...Option) (core.Repository, error) {
	return initRepository(uri, resolveOptions(opts))
}

func initRepository(uri string, o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	switch o.adapter {
	case "fs":
		repo = initFS(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// initFS builds the filesystem adapter from the options.
func initFS(path string, o *options) *fs.Repository {
	mustExist, _ := o.config["must_exist"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	outputDir, _ := o.config["output_dir"].(string)
	pattern, _ := o.config["pattern"].(string)
	errorHandler, _ := o.config["error_handler"].(func(error))

	return fs.NewRepository(fs.Config{
		Path:         path,
		SystemDir:    systemDir,
		OutputDir:    outputDir,
		Pattern:      pattern,
		MustExist:    mustExist,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
}
