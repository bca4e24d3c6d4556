package permission

import (
	"github.com/google/wire"
)

// ProviderSet provides the permission rule repository.
var ProviderSet = wire.NewSet(NewPermissionRuleRepo)
