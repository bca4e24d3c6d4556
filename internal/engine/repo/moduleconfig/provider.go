package moduleconfig

import (
	"github.com/google/wire"
)

// ProviderSet provides the module config repository.
var ProviderSet = wire.NewSet(NewModuleConfigRepo)
