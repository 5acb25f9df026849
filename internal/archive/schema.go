package archive

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    generated_at TEXT NOT NULL,
    total_conflicts INTEGER NOT NULL,
    high_severity INTEGER NOT NULL,
    medium_severity INTEGER NOT NULL,
    low_severity INTEGER NOT NULL,
    affected_entities INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS conflict_groups (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    id TEXT NOT NULL,
    position INTEGER NOT NULL,
    title TEXT NOT NULL,
    severity TEXT NOT NULL,
    PRIMARY KEY (run_id, id)
);

CREATE TABLE IF NOT EXISTS conflict_details (
    run_id TEXT NOT NULL,
    group_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    field TEXT NOT NULL,
    conflict_type TEXT NOT NULL,
    severity TEXT NOT NULL,
    description TEXT NOT NULL,
    conflict_values TEXT NOT NULL,
    PRIMARY KEY (run_id, group_id, position)
);

CREATE TABLE IF NOT EXISTS group_entities (
    run_id TEXT NOT NULL,
    group_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    entity_id TEXT NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    PRIMARY KEY (run_id, group_id, position)
);

CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs(generated_at);
CREATE INDEX IF NOT EXISTS idx_group_entities_entity ON group_entities(entity_id);
`
