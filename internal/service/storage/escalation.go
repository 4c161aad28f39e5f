package storage

import (
	"context"
	"time"
)

// runEscalation выполняет протокол восстановления прав на запись.
//
// Шаги упорядочены по возрастанию инвазивности, каждый следующий выполняется
// только после провала предыдущего:
//  1. тестовая запись привилегированным клиентом, при успехе — его адаптация;
//  2. отключение RLS и выдача прав через прямое подключение к PostgreSQL;
//  3. пересоздание таблиц без ограничений (только при AllowSchemaReset).
//
// После каждого структурно успешного шага права перепроверяются тестовой
// записью с фиксированной паузой; шаг без подтверждения считается проваленным.
// Возвращает true, если запись восстановлена.
func (s *Service) runEscalation(ctx context.Context) bool {
	if s.escalatePrivilegedClient(ctx) {
		s.observeEscalation("privileged_client")
		return true
	}

	if s.escalateDisableRLS(ctx) {
		s.observeEscalation("disable_rls")
		return true
	}

	if !s.cfg.AllowSchemaReset {
		s.log.Warn("runEscalation: schema reset step is disabled by configuration (storage.allow_schema_reset)")
	} else if s.escalateRecreateTables(ctx) {
		s.observeEscalation("recreate_tables")
		return true
	}

	if s.metrics != nil {
		s.metrics.EscalationOutcomes.WithLabelValues("failed").Inc()
	}
	return false
}

// escalatePrivilegedClient шаг 1: тестовая запись привилегированным клиентом.
// При успехе привилегированный клиент насовсем замещает активного.
func (s *Service) escalatePrivilegedClient(ctx context.Context) bool {
	s.log.Info("escalation step 1: probing write with privileged client")

	privileged, err := s.factory.Privileged()
	if err != nil {
		s.log.Warn("escalation step 1: privileged client is not available: %v", err)
		s.observeStep("privileged_client", false)
		return false
	}

	if err := s.verifyWriteWith(ctx, privileged); err != nil {
		s.log.Warn("escalation step 1: privileged client probe failed: %v", err)
		s.observeStep("privileged_client", false)
		return false
	}

	s.swapStore(privileged)
	s.log.Info("escalation step 1: privileged client adopted as the active client")
	s.observeStep("privileged_client", true)
	return true
}

// escalateDisableRLS шаг 2: отключение RLS и выдача полных прав всем известным
// ролям через прямое подключение. Подключение закрывается безусловно.
func (s *Service) escalateDisableRLS(ctx context.Context) bool {
	s.log.Info("escalation step 2: disabling row-level security via direct connection")

	if err := s.withDirectConn(ctx, func(conn DirectConn) error {
		for _, stmt := range disableRLSStatements(s.cfg.BookingTable, s.cfg.URLTable) {
			if err := conn.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		s.log.Error("escalation step 2: direct RLS disable failed: %v", err)
		s.observeStep("disable_rls", false)
		return false
	}

	if !s.reverify(ctx) {
		s.log.Warn("escalation step 2: RLS disabled but write probe still fails")
		s.observeStep("disable_rls", false)
		return false
	}

	s.log.Info("escalation step 2: row-level security disabled, writes verified")
	s.observeStep("disable_rls", true)
	return true
}

// escalateRecreateTables шаг 3: деструктивное пересоздание обеих таблиц
// без ограничений доступа. Все существующие данные теряются.
func (s *Service) escalateRecreateTables(ctx context.Context) bool {
	s.log.Warn("escalation step 3: dropping and recreating tables without access restrictions")

	if err := s.withDirectConn(ctx, func(conn DirectConn) error {
		return conn.Exec(ctx, recreateTablesSQL(s.cfg.BookingTable, s.cfg.URLTable))
	}); err != nil {
		s.log.Error("escalation step 3: table recreation failed: %v", err)
		s.observeStep("recreate_tables", false)
		return false
	}

	if !s.reverify(ctx) {
		s.log.Error("escalation step 3: tables recreated but write probe still fails")
		s.observeStep("recreate_tables", false)
		return false
	}

	s.log.Info("escalation step 3: tables recreated, writes verified")
	s.observeStep("recreate_tables", true)
	return true
}

// withDirectConn открывает прямое подключение, выполняет fn и закрывает
// подключение независимо от результата
func (s *Service) withDirectConn(ctx context.Context, fn func(conn DirectConn) error) error {
	if s.direct == nil {
		return ErrNotConfigured
	}

	conn, err := s.direct.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			s.log.Warn("withDirectConn: close failed: %v", cerr)
		}
	}()

	return fn(conn)
}

// reverify подтверждает восстановление прав тестовой записью
// после фиксированной паузы
func (s *Service) reverify(ctx context.Context) bool {
	time.Sleep(s.cfg.EscalationPause)
	if err := s.verifyWrite(ctx); err != nil {
		return false
	}
	return true
}

func (s *Service) observeStep(step string, ok bool) {
	if s.metrics == nil {
		return
	}
	result := "failed"
	if ok {
		result = "ok"
	}
	s.metrics.EscalationSteps.WithLabelValues(step, result).Inc()
}

func (s *Service) observeEscalation(step string) {
	s.log.Info("runEscalation: write capability restored at step %q", step)
	if s.metrics != nil {
		s.metrics.EscalationOutcomes.WithLabelValues(step).Inc()
	}
}
