package repositories

import (
	"go.uber.org/dig"

	"github.com/kdevan/forkpin/config"
	domainrepos "github.com/kdevan/forkpin/internal/domain/repositories"
	"github.com/kdevan/forkpin/internal/infrastructure/repositories/advisor"
	"github.com/kdevan/forkpin/internal/infrastructure/repositories/pinstore"
	"github.com/kdevan/forkpin/internal/infrastructure/repositories/posthook"
	"github.com/kdevan/forkpin/internal/infrastructure/repositories/resolver"
	"github.com/kdevan/forkpin/internal/infrastructure/repositories/vcsdriver"
)

// RegisterProviders registers all repository providers with the DIG
// container. *config.Config and the pinstore.PinsRoot/ClonesRoot values are
// supplied upstream by the CLI entrypoint, the only layer that knows the
// config path before any command runs.
func RegisterProviders(container *dig.Container) error {
	constructors := []interface{}{
		vcsdriver.NewGitDriver,
		pinstore.NewFilePinStoreFromRoots,
		advisor.NewOpenAIAdvisor,
		resolver.NewTieredResolver,
		posthook.NewChangelogHook,
	}
	for _, ctor := range constructors {
		if err := container.Provide(ctor); err != nil {
			return err
		}
	}

	bindings := []interface{}{
		func(impl *vcsdriver.GitDriver) domainrepos.VCSDriver { return impl },
		func(impl *pinstore.FilePinStore) domainrepos.PinStore { return impl },
		func(impl *advisor.OpenAIAdvisor) domainrepos.Advisor { return impl },
		func(impl *resolver.TieredResolver) domainrepos.ConflictResolver { return impl },
		func(impl *posthook.ChangelogHook) domainrepos.PostMergeHook { return impl },
		func(cfg *config.Config) domainrepos.EntryStore { return cfg },
	}
	for _, bind := range bindings {
		if err := container.Provide(bind); err != nil {
			return err
		}
	}

	return nil
}
