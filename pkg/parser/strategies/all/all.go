// Package all imports all report strategies for side-effect registration.
// Usage: _ "github.com/specvital/metashift/pkg/parser/strategies/all"
package all

import (
	_ "github.com/specvital/metashift/pkg/parser/strategies/checkcache"
	_ "github.com/specvital/metashift/pkg/parser/strategies/checkcode"
	_ "github.com/specvital/metashift/pkg/parser/strategies/checkrecipe"
	_ "github.com/specvital/metashift/pkg/parser/strategies/coverage"
	_ "github.com/specvital/metashift/pkg/parser/strategies/mutation"
	_ "github.com/specvital/metashift/pkg/parser/strategies/unittest"
)
