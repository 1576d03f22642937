// Package tenantscope enforces row-level tenant isolation for GORM.
//
// Every data-access path runs through the registered callbacks, which
// read the tenant context from the statement's context and add the
// visibility predicate for the target table. Filtering is structural:
// a query composed against a tenant-scoped table cannot skip it, no
// matter how joins are arranged. Cross-tenant rows simply vanish from
// results; tenant mismatch is never a distinct error.
package tenantscope

import (
	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/retailsim/backend/internal/domain/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntityClass describes how rows of a table map to tenants.
type EntityClass int

const (
	// ClassShared tables are catalog reference data, visible to every
	// tenant context and never filtered.
	ClassShared EntityClass = iota
	// ClassStore rows carry the tenant ID directly.
	ClassStore
	// ClassStoreOwned rows reference a store and inherit its tenant.
	ClassStoreOwned
	// ClassCustomer rows are visible via primary assignment or via an
	// order placed at a visible store.
	ClassCustomer
)

// knownTables is the closed set of entities the isolation layer
// recognizes. References outside this set are rejected before they
// reach the database.
var knownTables = map[string]EntityClass{
	"categories":                     ClassShared,
	"product_types":                  ClassShared,
	"products":                       ClassShared,
	"product_image_embeddings":       ClassShared,
	"product_description_embeddings": ClassShared,
	"stores":                         ClassStore,
	"orders":                         ClassStoreOwned,
	"order_items":                    ClassStoreOwned,
	"inventory":                      ClassStoreOwned,
	"customers":                      ClassCustomer,
}

// KnownTable reports whether a table belongs to the enumerated entity
// set.
func KnownTable(name string) bool {
	_, ok := knownTables[name]
	return ok
}

// ClassOf returns the isolation class for a known table.
func ClassOf(name string) (EntityClass, bool) {
	class, ok := knownTables[name]
	return class, ok
}

// visibilityExpr builds the WHERE expression restricting a table to
// rows visible to the given tenant.
func visibilityExpr(table string, class EntityClass, tenantID uuid.UUID) clause.Expression {
	switch class {
	case ClassStore:
		return clause.Expr{
			SQL:  "stores.tenant_id = ?",
			Vars: []interface{}{tenantID},
		}
	case ClassStoreOwned:
		return clause.Expr{
			SQL:  table + ".store_id IN (SELECT stores.id FROM stores WHERE stores.tenant_id = ?)",
			Vars: []interface{}{tenantID},
		}
	case ClassCustomer:
		// Visible when assigned to a matching store, or when at least
		// one order exists at a matching store. Walk-in customers
		// become visible to a store once they transact there, even if
		// primarily assigned elsewhere; this is intended behavior.
		return clause.Expr{
			SQL: "(customers.primary_store_id IN (SELECT stores.id FROM stores WHERE stores.tenant_id = ?)" +
				" OR customers.id IN (SELECT orders.customer_id FROM orders" +
				" WHERE orders.store_id IN (SELECT stores.id FROM stores WHERE stores.tenant_id = ?)))",
			Vars: []interface{}{tenantID, tenantID},
		}
	default:
		return nil
	}
}

// Scope returns a GORM scope applying the visibility predicate for one
// table under an explicit tenant context. It backs raw aggregate
// queries that bypass the model callbacks.
func Scope(table string, tc tenant.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		class, ok := knownTables[table]
		if !ok {
			_ = db.AddError(shared.ErrUnknownEntity)
			return db
		}
		if class == ClassShared || tc.IsSentinel() {
			return db
		}
		return db.Where(visibilityExpr(table, class, tc.TenantID))
	}
}
