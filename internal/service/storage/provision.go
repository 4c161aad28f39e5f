package storage

import (
	"context"
	"fmt"
)

// provisionTables best-effort создание схемы через прямое подключение.
// Supabase REST слой не выполняет DDL, поэтому без прямого подключения
// таблицы придется создавать вручную в консоли проекта.
func (s *Service) provisionTables(ctx context.Context) error {
	return s.withDirectConn(ctx, func(conn DirectConn) error {
		if err := conn.Exec(ctx, createBookingTableSQL(s.cfg.BookingTable)); err != nil {
			return err
		}
		if err := conn.Exec(ctx, createURLTableSQL(s.cfg.URLTable)); err != nil {
			return err
		}
		s.log.Info("provisionTables: schema created for %s and %s", s.cfg.BookingTable, s.cfg.URLTable)
		return nil
	})
}

func createBookingTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id SERIAL PRIMARY KEY,
    url_id INTEGER,
    date DATE,
    time TIME,
    price TEXT,
    provider TEXT,
    seat_number TEXT,
    location_name TEXT,
    court_type TEXT,
    time_category TEXT,
    duration INTEGER,
    review_count INTEGER,
    prepayment_required BOOLEAN DEFAULT false,
    extra_data TEXT,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);`, table)
}

func createURLTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id SERIAL PRIMARY KEY,
    url TEXT UNIQUE NOT NULL,
    name TEXT,
    status TEXT DEFAULT 'active',
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);`, table)
}

// disableRLSStatements выражения шага 2: выключение RLS и выдача полных прав
// всем известным ролям на обе таблицы
func disableRLSStatements(bookingTable, urlTable string) []string {
	stmts := make([]string, 0, 10)
	for _, table := range []string{bookingTable, urlTable} {
		stmts = append(stmts,
			fmt.Sprintf("ALTER TABLE %s DISABLE ROW LEVEL SECURITY;", table),
			fmt.Sprintf("GRANT ALL ON %s TO postgres;", table),
			fmt.Sprintf("GRANT ALL ON %s TO service_role;", table),
			fmt.Sprintf("GRANT ALL ON %s TO anon;", table),
			fmt.Sprintf("GRANT ALL ON %s TO authenticated;", table),
		)
	}
	return stmts
}

// recreateTablesSQL выражения шага 3: деструктивное пересоздание обеих таблиц
// с выключенным RLS и полными правами с момента создания
func recreateTablesSQL(bookingTable, urlTable string) string {
	return fmt.Sprintf(`
DROP TABLE IF EXISTS %[1]s CASCADE;
DROP TABLE IF EXISTS %[2]s CASCADE;

CREATE TABLE %[1]s (
    id SERIAL PRIMARY KEY,
    url_id INTEGER,
    date DATE,
    time TIME,
    price TEXT,
    provider TEXT,
    seat_number TEXT,
    location_name TEXT,
    court_type TEXT,
    time_category TEXT,
    duration INTEGER,
    review_count INTEGER,
    prepayment_required BOOLEAN DEFAULT false,
    extra_data TEXT,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);

CREATE TABLE %[2]s (
    id SERIAL PRIMARY KEY,
    url TEXT UNIQUE NOT NULL,
    name TEXT,
    status TEXT DEFAULT 'active',
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);

ALTER TABLE %[1]s DISABLE ROW LEVEL SECURITY;
ALTER TABLE %[2]s DISABLE ROW LEVEL SECURITY;

GRANT ALL ON %[1]s TO postgres, anon, authenticated, service_role;
GRANT ALL ON %[2]s TO postgres, anon, authenticated, service_role;
GRANT ALL ON SEQUENCE %[1]s_id_seq TO postgres, anon, authenticated, service_role;
GRANT ALL ON SEQUENCE %[2]s_id_seq TO postgres, anon, authenticated, service_role;

GRANT USAGE ON SCHEMA public TO postgres, anon, authenticated, service_role;
`, bookingTable, urlTable)
}
