package migrations

import (
	"database/sql"

	"github.com/lopezator/migrator"
)

func Up(db *sql.DB) error {
	m, err := migrator.New(
		migrator.Migrations(
			&migrator.MigrationNoTx{
				Name: "Create orders table",
				Func: createOrdersTable,
			},
			&migrator.MigrationNoTx{
				Name: "Create order events table",
				Func: createOrderEventsTable,
			},
			&migrator.MigrationNoTx{
				Name: "Create assignment tokens table",
				Func: createAssignmentTokensTable,
			},
			&migrator.MigrationNoTx{
				Name: "Create certifications table",
				Func: createCertificationsTable,
			},
			&migrator.MigrationNoTx{
				Name: "Create discount codes table",
				Func: createDiscountCodesTable,
			},
		),
	)
	if err != nil {
		return err
	}

	return m.Migrate(db)
}

func createOrdersTable(db *sql.DB) error {
	for _, q := range []string{
		"CREATE TYPE service_type AS ENUM ('standard', 'certified', 'sworn', 'rmv_certified')",
		"CREATE TYPE order_urgency AS ENUM ('standard', 'priority', 'urgent')",
		"CREATE TYPE order_stage AS ENUM ('received', 'in_translation', 'review', 'ready', 'delivered')",
		"CREATE TYPE payment_status AS ENUM ('pending', 'paid', 'overdue')",
	} {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}

	_, err := db.Exec(`
CREATE TABLE orders
(
    id                     uuid PRIMARY KEY,
    order_number           varchar(16)    NOT NULL UNIQUE,
    service_type           service_type   NOT NULL,
    document_type          varchar(100)   NOT NULL,
    source_language        varchar(8)     NOT NULL,
    target_language        varchar(8)     NOT NULL,
    urgency                order_urgency  NOT NULL,
    page_count             integer        NOT NULL,
    CHECK (page_count > 0),
    word_count             integer        NOT NULL DEFAULT 0,
    requires_physical_copy boolean        NOT NULL DEFAULT false,
    ship_name              varchar(100),
    ship_line1             varchar(200),
    ship_line2             varchar(200),
    ship_city              varchar(100),
    ship_region            varchar(100),
    ship_postal_code       varchar(20),
    ship_country           varchar(100),
    discount_code          varchar(32),
    base_price             bigint         NOT NULL,
    urgency_fee            bigint         NOT NULL DEFAULT 0,
    certification_fee      bigint         NOT NULL DEFAULT 0,
    shipping_fee           bigint         NOT NULL DEFAULT 0,
    discount               bigint         NOT NULL DEFAULT 0,
    total                  bigint         NOT NULL,
    CHECK (total >= 0),
    CHECK (total = base_price + urgency_fee + certification_fee + shipping_fee - discount),
    stage                  order_stage    NOT NULL DEFAULT 'received',
    payment_status         payment_status NOT NULL DEFAULT 'pending',
    created_at             timestamptz    NOT NULL DEFAULT now(),
    updated_at             timestamptz    NOT NULL DEFAULT now()
)
	`)

	return err
}

func createOrderEventsTable(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE order_events
(
    id         integer GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    order_id   uuid        NOT NULL REFERENCES orders (id),
    event      varchar(64) NOT NULL,
    actor      varchar(100) NOT NULL,
    created_at timestamptz NOT NULL DEFAULT now()
)
	`)

	return err
}

func createAssignmentTokensTable(db *sql.DB) error {
	if _, err := db.Exec("CREATE TYPE token_status AS ENUM ('pending', 'accepted', 'declined')"); err != nil {
		return err
	}

	_, err := db.Exec(`
CREATE TABLE assignment_tokens
(
    token         varchar(32)  PRIMARY KEY,
    order_id      uuid         NOT NULL REFERENCES orders (id),
    translator_id varchar(64)  NOT NULL,
    status        token_status NOT NULL DEFAULT 'pending',
    created_at    timestamptz  NOT NULL DEFAULT now(),
    responded_at  timestamptz
)
	`)

	return err
}

func createCertificationsTable(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE certifications
(
    certification_id      varchar(20)  PRIMARY KEY,
    order_id              uuid         NOT NULL UNIQUE REFERENCES orders (id),
    document_type         varchar(100) NOT NULL,
    source_language       varchar(8)   NOT NULL,
    target_language       varchar(8)   NOT NULL,
    page_count            integer      NOT NULL,
    certifier_name        varchar(100) NOT NULL,
    certifier_credentials varchar(100) NOT NULL,
    certified_at          timestamptz  NOT NULL,
    integrity_token       varchar(64)  NOT NULL
)
	`)

	return err
}

func createDiscountCodesTable(db *sql.DB) error {
	if _, err := db.Exec("CREATE TYPE discount_kind AS ENUM ('percent', 'flat')"); err != nil {
		return err
	}

	_, err := db.Exec(`
CREATE TABLE discount_codes
(
    code        varchar(32)   PRIMARY KEY,
    kind        discount_kind NOT NULL,
    value       bigint        NOT NULL,
    CHECK (value >= 0),
    valid_from  timestamptz   NOT NULL,
    valid_until timestamptz   NOT NULL,
    usage_cap   integer       NOT NULL,
    used_count  integer       NOT NULL DEFAULT 0,
    CHECK (used_count >= 0 AND used_count <= usage_cap)
)
	`)

	return err
}
