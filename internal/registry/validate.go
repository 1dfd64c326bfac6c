package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/mlgridgo/internal/ctxlog"
)

// ValidateRegistry checks every declared function: it has a body, its
// conditions are well formed and its extracted fields are unique and do not
// shadow its own name. All problems are reported at once.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, m := range r.modules {
		for _, fn := range m.Functions() {
			where := fmt.Sprintf("module '%s', function '%s'", m.Name(), fn.Name)

			if fn.Fn == nil {
				errs = append(errs, where+": has no body")
			}

			for i, cond := range fn.Conditions {
				if cond == nil {
					errs = append(errs, fmt.Sprintf("%s: condition #%d is nil", where, i))
					continue
				}
				if err := cond.Validate(); err != nil {
					errs = append(errs, fmt.Sprintf("%s: condition #%d: %v", where, i, err))
				}
			}

			seen := make(map[string]bool, len(fn.Extract))
			for _, field := range fn.Extract {
				switch {
				case field == "":
					errs = append(errs, where+": extracts a field with an empty name")
				case seen[field]:
					errs = append(errs, fmt.Sprintf("%s: extracts field '%s' twice", where, field))
				case field == fn.BaseName():
					errs = append(errs, fmt.Sprintf("%s: extracted field '%s' shadows the function", where, field))
				}
				seen[field] = true
			}

			for _, in := range fn.Inputs {
				if in.Name == fn.BaseName() {
					errs = append(errs, fmt.Sprintf("%s: depends on itself", where))
				}
			}

			if fn.Doc == "" {
				logger.Debug("Function has no description.", "module", m.Name(), "function", fn.Name)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}
