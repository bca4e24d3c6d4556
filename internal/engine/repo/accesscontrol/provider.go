package accesscontrol

import (
	"github.com/google/wire"
)

// ProviderSet provides the access control repository.
var ProviderSet = wire.NewSet(NewAccessControlRepo)
