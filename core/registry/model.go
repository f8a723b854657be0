package registry

import "strings"

// Equipment models, in report precedence order.
const (
	ModelSystem    = "System"
	ModelPress     = "Press"
	ModelShuttle   = "Shuttle"
	ModelAuxiliary = "Auxiliary"
	ModelTransport = "Transport"
)

// Models lists the model vocabulary in report precedence order.
var Models = []string{ModelSystem, ModelPress, ModelShuttle, ModelAuxiliary, ModelTransport}

// IsModel reports whether m belongs to the vocabulary.
func IsModel(m string) bool {
	return ModelRank(m) < len(Models)
}

// ModelRank returns the precedence of m; models outside the vocabulary
// (including "") rank after every known model.
func ModelRank(m string) int {
	for i, known := range Models {
		if known == m {
			return i
		}
	}
	return len(Models)
}

var modelAliases = map[string]string{
	"system":    ModelSystem,
	"系统":        ModelSystem,
	"press":     ModelPress,
	"砖机":        ModelPress,
	"shuttle":   ModelShuttle,
	"摆渡车":       ModelShuttle,
	"auxiliary": ModelAuxiliary,
	"辅机":        ModelAuxiliary,
	"transport": ModelTransport,
	"运输车":       ModelTransport,
}

// CanonicalModel maps a vocabulary name or alias (any case) to the model tag.
// Other values are returned trimmed and unchanged.
func CanonicalModel(s string) string {
	s = strings.TrimSpace(s)
	if m, ok := modelAliases[strings.ToLower(s)]; ok {
		return m
	}
	return s
}
