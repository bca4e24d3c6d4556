package service

import (
	"github.com/google/wire"
)

// ProviderSet provides the engine services.
var ProviderSet = wire.NewSet(
	NewModuleConfigService,
	NewAccessControlService,
	NewPermissionRuleService,
	NewAuthService,
	NewLeadService,
)
