// Package catalog contiene las reglas de coincidencia de texto del catálogo.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// ContainsFold indica si substr aparece en s ignorando mayúsculas/minúsculas
// (case folding Unicode).
// Un substr vacío siempre coincide.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	// cases.Caser no es seguro entre goroutines: se crea uno por llamada.
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(substr))
}

// Contains aplica ContainsFold o strings.Contains según caseInsensitive.
func Contains(s, substr string, caseInsensitive bool) bool {
	if caseInsensitive {
		return ContainsFold(s, substr)
	}
	return strings.Contains(s, substr)
}
