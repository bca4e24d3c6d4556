// Package access decides whether a role may use a module inside a
// (project, channel) scope. The access control document is an explicit
// allow-list, so every unconfigured combination is disabled.
package access

import (
	"github.com/leadfoundry/leadcore/internal/engine/model/accesscontrol"
)

// IsEnabled reports whether the module is enabled for the role. Missing
// module entries and missing role toggles both fail closed.
func IsEnabled(configs []accesscontrol.ModuleRoleConfig, moduleId, roleId string) bool {
	for i := range configs {
		if configs[i].ModuleId != moduleId {
			continue
		}
		for _, rt := range configs[i].RoleConfigs {
			if rt.RoleId == roleId {
				return rt.Status
			}
		}
		return false
	}
	return false
}
