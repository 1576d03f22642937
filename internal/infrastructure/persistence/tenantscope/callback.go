package tenantscope

import (
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/retailsim/backend/internal/domain/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Callback hooks tenant filtering into GORM's statement pipeline.
type Callback struct{}

// Register installs the isolation callbacks on a GORM DB instance.
// Create is not hooked: rows are written with their owning store set
// explicitly by the generator under the sentinel context.
func Register(db *gorm.DB) error {
	cb := &Callback{}
	if err := db.Callback().Query().Before("gorm:query").Register("tenantscope:before_query", cb.before); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").Register("tenantscope:before_row", cb.before); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("tenantscope:before_update", cb.before); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("tenantscope:before_delete", cb.before); err != nil {
		return err
	}
	return nil
}

func (cb *Callback) before(db *gorm.DB) {
	if db.Statement == nil || db.Statement.Context == nil {
		return
	}

	table := db.Statement.Table
	if table == "" && db.Statement.Schema != nil {
		table = db.Statement.Schema.Table
	}
	if table == "" {
		// Raw SQL paths carry no model; they must apply Scope
		// explicitly and are limited to the repository layer.
		return
	}

	class, ok := knownTables[table]
	if !ok {
		_ = db.AddError(shared.ErrUnknownEntity)
		return
	}
	if class == ClassShared {
		return
	}

	tc, found := tenant.FromContext(db.Statement.Context)
	if !found {
		// Fail closed: tenant-scoped tables are unreachable without an
		// explicit tenant context.
		_ = db.AddError(shared.ErrTenantRequired)
		return
	}
	if tc.IsSentinel() {
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{visibilityExpr(table, class, tc.TenantID)},
	})
}
