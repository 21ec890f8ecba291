package drift

import (
	"strings"

	"github.com/housekit/housekit/pkg/normalize"
	"github.com/housekit/housekit/pkg/parser"
	"github.com/housekit/housekit/pkg/schema"
	"github.com/housekit/housekit/pkg/utils"
)

type (
	// Options controls per-analysis behavior
	Options struct {
		// AutoUpgradeMetadata enqueues a MODIFY COMMENT statement whenever
		// the remote housekit metadata lags the local declaration, not just
		// when the comment text already drifted
		AutoUpgradeMetadata bool
	}

	// Engine computes the drift between a local table definition and a
	// remote table description. It performs no I/O and holds no mutable
	// state across calls; every Diff invocation is an independent pure
	// computation.
	Engine struct {
		// Renames decides fuzzy column matching. Defaults to
		// CanonicalRenameStrategy when nil.
		Renames RenameStrategy
	}
)

// NewEngine creates a drift engine with the default rename strategy.
func NewEngine() *Engine {
	return &Engine{Renames: CanonicalRenameStrategy{}}
}

// Diff reconciles a local table definition against a remote description and
// returns the complete analysis: additions, modifications, drops, option
// changes, destructive reasons, warnings, the in-place plan, and, for any
// non-purely-additive drift, a complete shadow-swap alternative. A nil
// remote means the table doesn't exist yet and yields a create plan.
//
// Plan and ShadowPlan are alternatives, never combined: the caller executes
// exactly one of them.
func (e *Engine) Diff(local *schema.Table, remote *RemoteTableDescription, opts Options) *TableAnalysis {
	a := &TableAnalysis{
		Name:              local.Name,
		ExternallyManaged: local.Options.ExternallyManaged,
	}

	if remote == nil {
		a.Classification = ClassificationCreate
		a.Plan = []string{local.CreateDDL()}
		return a
	}

	matched := e.reconcileColumns(a, local, remote)
	e.reconcileOptions(a, local, remote)
	e.reconcileIndices(a, local, remote)
	e.reconcileProjections(a, local, remote)
	e.reconcileMetadata(a, local, remote, opts)

	if !e.isPurelyAdditive(a, local, remote, matched) {
		a.ShadowPlan = e.buildShadowPlan(a, local, remote, matched)
	}

	if len(a.Plan) > 0 || a.ShadowPlan != nil {
		a.Classification = ClassificationModify
	} else {
		a.Classification = ClassificationNoChanges
	}

	return a
}

// reconcileColumns walks the local columns in declared order, matching each
// against the remote by exact name first and by the rename strategy second.
// It returns the local-to-remote name mapping for every matched column,
// which the shadow planner uses to build its copy statement.
func (e *Engine) reconcileColumns(a *TableAnalysis, local *schema.Table, remote *RemoteTableDescription) map[string]string {
	renames := e.renameStrategy()

	// Index remote columns by canonical name for fuzzy candidate lookup.
	// On canonical collision the first remote column wins; at most one
	// candidate is ever considered per local column.
	remoteByCanonical := make(map[string]string, len(remote.ColumnOrder))
	for _, name := range remote.ColumnOrder {
		canon := normalize.CanonicalName(name)
		if _, exists := remoteByCanonical[canon]; !exists {
			remoteByCanonical[canon] = name
		}
	}

	matchedExact := make(map[string]bool)
	matchedCanonical := make(map[string]bool)
	matched := make(map[string]string, len(local.Columns))

	for _, col := range local.Columns {
		remoteName := col.Name
		_, ok := remote.Columns[remoteName]
		if !ok {
			remoteName, ok = renames.Candidate(col.Name, remoteByCanonical)
		}
		if !ok {
			a.Adds = append(a.Adds, col.Name)
			a.Plan = append(a.Plan, addColumnSQL(local.Name, col))
			continue
		}

		matchedExact[remoteName] = true
		matchedCanonical[normalize.CanonicalName(remoteName)] = true
		matched[col.Name] = remoteName

		if remoteName != col.Name && normalize.CanonicalName(remoteName) != normalize.CanonicalName(col.Name) {
			// The strategy matched two names that aren't even canonically
			// equivalent. That is indistinguishable from a drop plus an
			// unrelated add, so no statement is emitted for this column.
			a.warnf("ambiguous rename for column %s (remote column %s); no statement emitted", col.Name, remoteName)
			a.destructive("ambiguous rename %s -> %s", remoteName, col.Name)
			continue
		}

		remoteType := normalize.Type(remote.Columns[remoteName])
		localType := col.TypeSQL()
		if normalize.CanonicalType(remoteType) != normalize.CanonicalType(normalize.Type(localType)) {
			a.Modifies = append(a.Modifies, col.Name)
			a.Plan = append(a.Plan, modifyColumnSQL(local.Name, col))
			a.destructive("type change %s: %s -> %s", col.Name, remoteType, normalize.Type(localType))
			continue
		}

		localDefault := ""
		if col.Default != nil {
			localDefault = normalize.Default(*col.Default)
		}
		remoteDefault := normalize.Default(remote.ColumnDefault(remoteName))
		if localDefault != remoteDefault {
			a.Modifies = append(a.Modifies, col.Name)
			a.Plan = append(a.Plan, modifyColumnSQL(local.Name, col))
			if remoteDefault == "" {
				a.destructive("default added %s: %s", col.Name, localDefault)
			} else {
				a.destructive("default change %s: %s -> %s", col.Name, remoteDefault, orNone(localDefault))
			}
			continue
		}

		localComment := ""
		if col.Comment != nil {
			localComment = normalize.Comment(*col.Comment)
		}
		if localComment != normalize.Comment(remote.ColumnComment(remoteName)) {
			// Comment drift is repaired but never flagged destructive
			a.Modifies = append(a.Modifies, col.Name)
			a.Plan = append(a.Plan, modifyColumnSQL(local.Name, col))
		}
	}

	for _, name := range remote.ColumnOrder {
		if matchedExact[name] || matchedCanonical[normalize.CanonicalName(name)] {
			continue
		}
		a.Drops = append(a.Drops, name)
		a.destructive("column drop %s", name)
	}

	return matched
}

// reconcileOptions compares engine, cluster, and sorting/partition clauses.
// Engine and ON CLUSTER mismatches are destructive with no automatic
// statement (engine is immutable; cluster moves are manual operations). The
// remaining clauses get an in-place MODIFY statement, still flagged
// destructive so a reviewer confirms them.
func (e *Engine) reconcileOptions(a *TableAnalysis, local *schema.Table, remote *RemoteTableDescription) {
	localEngine := canonicalEngine(local.Options.Engine)
	remoteEngine := canonicalEngine(remote.Options.Engine)
	if localEngine != remoteEngine {
		a.optionChange("engine: %s -> %s", orNone(remote.Options.Engine), orNone(local.Options.Engine))
		a.warnf("engine mismatch on %s: %s -> %s (engine is immutable, table must be rebuilt)",
			local.Name, orNone(remote.Options.Engine), orNone(local.Options.Engine))
		a.destructive("engine change: %s -> %s", orNone(remote.Options.Engine), orNone(local.Options.Engine))
	}

	localCluster := ""
	if local.Options.OnCluster != nil {
		localCluster = *local.Options.OnCluster
	}
	if utils.StripBackticks(localCluster) != utils.StripBackticks(remote.Options.OnCluster) {
		a.optionChange("on_cluster: %s -> %s", orNone(remote.Options.OnCluster), orNone(localCluster))
		a.warnf("ON CLUSTER mismatch on %s: %s -> %s (requires a manual cluster operation)",
			local.Name, orNone(remote.Options.OnCluster), orNone(localCluster))
		a.destructive("on_cluster change: %s -> %s", orNone(remote.Options.OnCluster), orNone(localCluster))
	}

	clauses := []struct {
		name    string
		keyword string
		local   string
		remote  string
	}{
		{"order_by", "ORDER BY", local.Options.OrderBy, remote.Options.OrderBy},
		{"partition_by", "PARTITION BY", local.Options.PartitionBy, remote.Options.PartitionBy},
		{"primary_key", "PRIMARY KEY", local.Options.PrimaryKey, remote.Options.PrimaryKey},
		{"ttl", "TTL", local.Options.TTL, remote.Options.TTL},
	}

	for _, c := range clauses {
		if canonicalExpr(c.local) == canonicalExpr(c.remote) {
			continue
		}
		a.optionChange("%s: %s -> %s", c.name, orNone(c.remote), orNone(c.local))
		a.warnf("table option %s differs on %s: %s -> %s", c.name, local.Name, orNone(c.remote), orNone(c.local))
		a.destructive("%s change: %s -> %s", c.name, orNone(c.remote), orNone(c.local))
		if c.local != "" {
			a.Plan = append(a.Plan, utils.NewSQLBuilder().
				Alter("TABLE").
				Name(local.Name).
				Raw("MODIFY "+c.keyword+" "+c.local).
				String())
		}
	}
}

// reconcileIndices matches local and remote skip indices by canonical name.
// Remote-only indices are warned about but never dropped; someone may have
// added them by hand for a reason.
func (e *Engine) reconcileIndices(a *TableAnalysis, local *schema.Table, remote *RemoteTableDescription) {
	remoteByCanonical := make(map[string]parser.IndexClause, len(remote.Options.Indices))
	for _, idx := range remote.Options.Indices {
		remoteByCanonical[normalize.CanonicalName(idx.Name)] = idx
	}

	seen := make(map[string]bool, len(local.Options.Indices))
	for _, idx := range local.Options.Indices {
		canon := idx.CanonicalName()
		seen[canon] = true

		remoteIdx, ok := remoteByCanonical[canon]
		if !ok {
			a.optionChange("index add %s", idx.Name)
			a.Plan = append(a.Plan, alterSQL(local.Name, "ADD "+idx.DefinitionSQL()))
			continue
		}

		if !indicesEqual(idx, remoteIdx) {
			a.optionChange("index change %s", idx.Name)
			a.Plan = append(a.Plan,
				alterSQL(local.Name, "DROP INDEX "+utils.BacktickIdentifier(remoteIdx.Name)),
				alterSQL(local.Name, "ADD "+idx.DefinitionSQL()),
			)
		}
	}

	for _, idx := range remote.Options.Indices {
		if !seen[normalize.CanonicalName(idx.Name)] {
			a.warnf("remote-only index %s on %s is not managed locally; leaving it in place", idx.Name, local.Name)
		}
	}
}

// reconcileProjections matches local and remote projections by canonical
// name, comparing query text with whitespace and backticks stripped.
func (e *Engine) reconcileProjections(a *TableAnalysis, local *schema.Table, remote *RemoteTableDescription) {
	remoteByCanonical := make(map[string]parser.ProjectionClause, len(remote.Options.Projections))
	for _, proj := range remote.Options.Projections {
		remoteByCanonical[normalize.CanonicalName(proj.Name)] = proj
	}

	seen := make(map[string]bool, len(local.Options.Projections))
	for _, proj := range local.Options.Projections {
		canon := proj.CanonicalName()
		seen[canon] = true

		remoteProj, ok := remoteByCanonical[canon]
		if !ok {
			a.optionChange("projection add %s", proj.Name)
			a.Plan = append(a.Plan, alterSQL(local.Name, "ADD "+proj.DefinitionSQL()))
			continue
		}

		if canonicalExpr(proj.Query) != canonicalExpr(remoteProj.Query) {
			a.optionChange("projection change %s", proj.Name)
			a.Plan = append(a.Plan,
				alterSQL(local.Name, "DROP PROJECTION "+utils.BacktickIdentifier(remoteProj.Name)),
				alterSQL(local.Name, "ADD "+proj.DefinitionSQL()),
			)
		}
	}

	for _, proj := range remote.Options.Projections {
		if !seen[normalize.CanonicalName(proj.Name)] {
			a.warnf("remote-only projection %s on %s is not managed locally; leaving it in place", proj.Name, local.Name)
		}
	}
}

// reconcileMetadata compares the housekit metadata envelope embedded in the
// table comment against the locally declared target. Malformed remote JSON
// degrades to a warning and "metadata absent", never an error.
func (e *Engine) reconcileMetadata(a *TableAnalysis, local *schema.Table, remote *RemoteTableDescription, opts Options) {
	remoteComment := ""
	if remote.Comment != nil {
		remoteComment = *remote.Comment
	}

	var remoteMeta *schema.Metadata
	if remoteComment != "" {
		meta, err := schema.ParseMetadata(remoteComment)
		if err != nil {
			a.warnf("unparseable housekit metadata on %s: %v (treating as absent)", local.Name, err)
		} else {
			remoteMeta = meta
		}
	}

	target := local.TargetMetadata(remoteMeta)
	targetComment, err := target.CommentString()
	if err != nil {
		a.warnf("failed to serialize housekit metadata for %s: %v", local.Name, err)
		return
	}

	if remoteMeta == nil {
		a.optionChange("metadata: absent -> version %s", target.Version)
	} else if !remoteMeta.Equal(target) {
		a.optionChange("metadata: version %s -> %s", remoteMeta.Version, target.Version)
	}

	commentDiffers := normalize.Comment(remoteComment) != normalize.Comment(targetComment)
	if !commentDiffers && remoteMeta != nil && remoteMeta.Equal(target) {
		return
	}

	versionsMatch := remoteMeta != nil && remoteMeta.Version == target.Version
	if opts.AutoUpgradeMetadata || (commentDiffers && (versionsMatch || remoteMeta == nil)) {
		a.Plan = append(a.Plan, utils.NewSQLBuilder().
			Alter("TABLE").
			Name(local.Name).
			Raw("MODIFY COMMENT").
			Raw("'"+utils.EscapeSQLString(targetComment)+"'").
			String())
	}
}

// isPurelyAdditive is the named policy gate between "the in-place plan is
// sufficient on its own" and "offer a rebuild-and-swap alternative". A diff
// counts as purely additive only when nothing was modified, dropped, or
// changed at the option level, no destructive finding was recorded, and the
// remote column order is exactly a prefix of the local declared order
// (positions compare through the rename mapping, so a canonically renamed
// column in place is not a reorder). Any positional mismatch is itself
// reclassified as destructive, even when nothing else changed.
//
// Deliberately conservative: even a comment-only rewrite falls through to
// the shadow branch. Tune this function, not the rest of the engine.
func (e *Engine) isPurelyAdditive(a *TableAnalysis, local *schema.Table, remote *RemoteTableDescription, matched map[string]string) bool {
	if len(a.Modifies) > 0 || len(a.Drops) > 0 || len(a.OptionChanges) > 0 || len(a.DestructiveReasons) > 0 {
		return false
	}

	localNames := local.ColumnNames()
	for i, remoteName := range remote.ColumnOrder {
		if i >= len(localNames) || matched[localNames[i]] != remoteName {
			a.destructive("reordering or insertion detected")
			return false
		}
	}

	return true
}

func (e *Engine) renameStrategy() RenameStrategy {
	if e.Renames != nil {
		return e.Renames
	}
	return CanonicalRenameStrategy{}
}

func addColumnSQL(table string, col schema.Column) string {
	return alterSQL(table, "ADD COLUMN "+col.DefinitionSQL())
}

func modifyColumnSQL(table string, col schema.Column) string {
	return alterSQL(table, "MODIFY COLUMN "+col.DefinitionSQL())
}

func alterSQL(table, clause string) string {
	return utils.NewSQLBuilder().
		Alter("TABLE").
		Name(table).
		Raw(clause).
		String()
}

// canonicalEngine normalizes an engine spec for comparison: trimmed,
// lowercased, with an empty trailing parameter list dropped so that
// "MergeTree" and "MergeTree()" compare equal.
func canonicalEngine(engine string) string {
	s := strings.ToLower(strings.TrimSpace(engine))
	return strings.TrimSuffix(s, "()")
}

// canonicalExpr normalizes a clause expression for comparison: outer
// parentheses unwrapped, backticks stripped, whitespace outside quotes
// removed, lowercased.
func canonicalExpr(expr string) string {
	s := strings.TrimSpace(expr)
	for len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' && parser.BalancedParens(s[1:len(s)-1]) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' && !strings.ContainsAny(s[1:len(s)-1], "()") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return normalize.CanonicalType(utils.StripBackticks(s))
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}
