package lead

import (
	"github.com/google/wire"
)

// ProviderSet provides the lead repository.
var ProviderSet = wire.NewSet(NewLeadRepo)
