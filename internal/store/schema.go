package store

// SQL schema constants for all tradepost tables. Every table carries a
// tenant column and is keyed by a (id..., tenant) composite so that two
// tenants can use the same numeric ids without colliding.

const schemaItems = `
CREATE TABLE IF NOT EXISTS items (
    id INTEGER NOT NULL,
    tenant TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    value REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (id, tenant)
);
CREATE INDEX IF NOT EXISTS idx_items_tenant ON items(tenant);
`

const schemaStations = `
CREATE TABLE IF NOT EXISTS stations (
    id INTEGER NOT NULL,
    tenant TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (id, tenant)
);
CREATE INDEX IF NOT EXISTS idx_stations_tenant ON stations(tenant);
`

const schemaDemands = `
CREATE TABLE IF NOT EXISTS demands (
    station_id INTEGER NOT NULL,
    item_id INTEGER NOT NULL,
    tenant TEXT NOT NULL,
    demand_level REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (station_id, item_id, tenant),
    FOREIGN KEY (station_id, tenant) REFERENCES stations(id, tenant) ON DELETE CASCADE,
    FOREIGN KEY (item_id, tenant) REFERENCES items(id, tenant) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_demands_tenant ON demands(tenant);
CREATE INDEX IF NOT EXISTS idx_demands_item ON demands(item_id, tenant);
`

const schemaMigrations = `
CREATE TABLE IF NOT EXISTS migrations (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);
`

// allSchemas is the ordered list of schema DDL statements that form
// the initial (version-1) database layout. Items and stations must be
// created before demands so the foreign keys resolve.
var allSchemas = []string{
	schemaItems,
	schemaStations,
	schemaDemands,
	schemaMigrations,
}
