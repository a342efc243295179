package storage

// Schema is the DDL for the contact snapshot table. Label sets and action
// bundles are stored as flat JSON string payloads.
const Schema = `
CREATE TABLE IF NOT EXISTS contacts (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    birthday       TEXT NOT NULL,
    labels         TEXT NOT NULL,
    age            INTEGER NOT NULL DEFAULT 0,
    remaining_days INTEGER NOT NULL DEFAULT 0,
    actions        TEXT,
    photo_ref      TEXT,
    synced_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_remaining ON contacts(remaining_days ASC);
`
