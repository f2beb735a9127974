package postgres

const schemaSQL = `
CREATE TABLE IF NOT EXISTS holdings (
    id                 UUID PRIMARY KEY,
    user_id            UUID NOT NULL,
    account_type       TEXT NOT NULL,
    asset_class        TEXT NOT NULL,
    asset_region       TEXT NOT NULL,
    asset_identifier   TEXT NOT NULL,
    asset_name         TEXT NOT NULL,
    current_amount_jpy NUMERIC(20,2) NOT NULL CHECK (current_amount_jpy >= 0),
    purchase_date      DATE,
    created_at         TIMESTAMPTZ NOT NULL,
    updated_at         TIMESTAMPTZ NOT NULL,
    UNIQUE (user_id, account_type, asset_class, asset_region, asset_identifier)
);

CREATE TABLE IF NOT EXISTS recurring_plans (
    id                         UUID PRIMARY KEY,
    user_id                    UUID NOT NULL,
    target_account_type        TEXT NOT NULL,
    target_asset_class         TEXT NOT NULL,
    target_asset_region        TEXT NOT NULL,
    target_asset_identifier    TEXT NOT NULL DEFAULT '',
    target_asset_name          TEXT NOT NULL DEFAULT '',
    frequency                  TEXT NOT NULL,
    amount_jpy                 NUMERIC(20,2) NOT NULL CHECK (amount_jpy > 0),
    start_date                 DATE NOT NULL,
    end_date                   DATE,
    bonus_months               TEXT,
    continue_if_limit_exceeded BOOLEAN NOT NULL DEFAULT FALSE,
    created_at                 TIMESTAMPTZ NOT NULL,
    updated_at                 TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS projections (
    id                            UUID PRIMARY KEY,
    user_id                       UUID NOT NULL,
    projection_years              INTEGER NOT NULL CHECK (projection_years BETWEEN 1 AND 50),
    annual_return_rate            NUMERIC(6,2) NOT NULL,
    starting_balance_jpy          NUMERIC(20,2) NOT NULL,
    total_contributions_jpy       NUMERIC(20,2) NOT NULL,
    total_interest_gains_jpy      NUMERIC(20,2) NOT NULL,
    projected_total_value_jpy     NUMERIC(20,2) NOT NULL,
    composition_by_region         TEXT NOT NULL DEFAULT '',
    composition_by_asset_class    TEXT NOT NULL DEFAULT '',
    year_by_year_breakdown        TEXT,
    created_at                    TIMESTAMPTZ NOT NULL,
    valid_until                   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_holdings_user ON holdings(user_id);
CREATE INDEX IF NOT EXISTS idx_holdings_user_region ON holdings(user_id, asset_region);
CREATE INDEX IF NOT EXISTS idx_plans_user ON recurring_plans(user_id);
CREATE INDEX IF NOT EXISTS idx_projections_user_created ON projections(user_id, created_at);
`
