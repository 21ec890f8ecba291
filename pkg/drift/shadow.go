package drift

import (
	"fmt"
	"strings"

	"github.com/housekit/housekit/pkg/consts"
	"github.com/housekit/housekit/pkg/normalize"
	"github.com/housekit/housekit/pkg/parser"
	"github.com/housekit/housekit/pkg/schema"
	"github.com/housekit/housekit/pkg/utils"
)

// buildShadowPlan produces the rebuild-and-swap alternative to the in-place
// plan: create a freshly-named shadow table from the local definition, copy
// every compatible matched column over, then atomically rename the original
// aside and the shadow into place. Columns whose structural shape changed
// (scalar vs array vs map) are excluded from the copy with a warning, since
// inserting across shapes fails outright; they are never dropped from the
// table itself.
func (e *Engine) buildShadowPlan(a *TableAnalysis, local *schema.Table, remote *RemoteTableDescription, matched map[string]string) []string {
	shadowName := consts.ShadowTablePrefix + local.Name
	backupName := consts.BackupTablePrefix + local.Name

	plan := []string{local.CreateDDLAs(shadowName)}

	var insertCols, selectCols []string
	for _, col := range local.Columns {
		remoteName, ok := matched[col.Name]
		if !ok {
			continue
		}

		oldShape := typeShape(normalize.Type(remote.Columns[remoteName]))
		newShape := typeShape(col.TypeSQL())
		if oldShape != newShape {
			a.warnf("column %s changed shape (%s -> %s); its data is not copied to the shadow table",
				col.Name, oldShape, newShape)
			continue
		}

		insertCols = append(insertCols, utils.BacktickIdentifier(col.Name))
		selectCols = append(selectCols, utils.BacktickIdentifier(remoteName))
	}

	if len(insertCols) > 0 {
		plan = append(plan, fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s",
			utils.BacktickIdentifier(shadowName),
			strings.Join(insertCols, ", "),
			strings.Join(selectCols, ", "),
			utils.BacktickIdentifier(local.Name)))
	}

	plan = append(plan, fmt.Sprintf("RENAME TABLE %s TO %s, %s TO %s",
		utils.BacktickIdentifier(local.Name),
		utils.BacktickIdentifier(backupName),
		utils.BacktickIdentifier(shadowName),
		utils.BacktickIdentifier(local.Name)))

	return plan
}

// typeShape classifies a type's structural container: scalar, array, or
// map. Copying data between shapes fails on insert, so shape changes gate
// the shadow copy column list.
func typeShape(t string) string {
	c := normalize.CanonicalType(t)
	switch {
	case strings.HasPrefix(c, "array("):
		return "array"
	case strings.HasPrefix(c, "map("):
		return "map"
	default:
		return "scalar"
	}
}

// indicesEqual compares a local index definition against a parsed remote
// index clause, canonicalizing expressions and treating an unspecified
// granularity as the server default of 1.
func indicesEqual(local schema.IndexDefinition, remote parser.IndexClause) bool {
	if canonicalExpr(local.Expression) != canonicalExpr(remote.Expression) {
		return false
	}
	if normalize.CanonicalType(local.Type) != normalize.CanonicalType(remote.Type) {
		return false
	}

	lg, rg := local.Granularity, remote.Granularity
	if lg == 0 {
		lg = 1
	}
	if rg == 0 {
		rg = 1
	}
	return lg == rg
}
