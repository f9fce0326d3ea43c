package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS financials (
    row_idx              INTEGER PRIMARY KEY,
    date                 TEXT NOT NULL,
    department           TEXT NOT NULL,
    revenue              REAL NOT NULL,
    operating_cost       REAL NOT NULL,
    payroll_cost         REAL NOT NULL,
    profit               REAL NOT NULL,
    gross_margin         REAL,
    payroll_ratio        REAL,
    operating_cost_ratio REAL,
    revenue_mom_change   REAL,
    profit_mom_change    REAL
);

CREATE TABLE IF NOT EXISTS department_summary (
    department        TEXT PRIMARY KEY,
    total_revenue     REAL NOT NULL,
    total_profit      REAL NOT NULL,
    avg_margin        REAL,
    avg_payroll_ratio REAL
);

CREATE TABLE IF NOT EXISTS source_tracker (
    file_path  TEXT PRIMARY KEY,
    mtime_ns   INTEGER NOT NULL,
    size_bytes INTEGER NOT NULL,
    loaded_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_financials_department ON financials(department);
CREATE INDEX IF NOT EXISTS idx_financials_date ON financials(date);
`
