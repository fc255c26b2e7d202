// Package reconciler реализует сверку доступов к продуктам со временем.
//
// Бекенд не присылает событий об истечении доступа, поэтому панель сама
// периодически проходит по закэшированному списку пользователей и гасит
// записи, у которых дата окончания уже в прошлом, а флаг активности всё
// ещё взведён. Исправление сначала применяется к локальной проекции,
// затем отправляется бекенду: отправка best-effort, неудача не
// откатывает локальное состояние — следующий цикл повторит попытку,
// повторная отправка того же состояния для бекенда безопасна.
package reconciler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/content-admin/internal/lib/sl"
	"github.com/magabrotheeeer/content-admin/internal/models"
	"github.com/magabrotheeeer/content-admin/internal/storage/repository"
)

var (
	scansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconciler_scans_total",
		Help: "Number of completed reconciliation scans.",
	})
	correctionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconciler_corrections_total",
		Help: "Number of access records flipped to inactive.",
	})
	syncFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconciler_sync_failures_total",
		Help: "Number of failed correction pushes to the backend.",
	})
)

// Correction — исправленный список доступов одного пользователя.
// Expired содержит только погашенные этим сканом записи.
type Correction struct {
	UserID  string
	Email   string
	Access  []models.ProductAccess
	Expired []models.ProductAccess
}

// ExpiredEvent — событие об истечении доступа, публикуемое в брокер.
type ExpiredEvent struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	EndDate     time.Time `json:"endDate"`
}

// Source отдаёт текущий список пользователей для сверки и принимает
// исправленный. В шлюзе это кэш-проекция, в отдельном воркере — бекенд.
type Source interface {
	Users(ctx context.Context) ([]models.User, error)
	Update(users []models.User)
}

// Syncer отправляет бекенду исправленный список доступов пользователя.
type Syncer interface {
	SyncProductStatus(ctx context.Context, userID string, access []models.ProductAccess) error
}

// EventSink публикует события об истечении доступа. Может быть nil.
type EventSink interface {
	PublishExpired(event ExpiredEvent) error
}

// Auditor записывает действия сверки в журнал. Может быть nil.
type Auditor interface {
	RecordAction(ctx context.Context, entry repository.AuditEntry) (string, error)
}

// Service — цикл сверки: немедленный проход при старте и при каждом
// Kick, затем по фиксированному интервалу.
type Service struct {
	source   Source
	syncer   Syncer
	events   EventSink
	audit    Auditor
	log      *slog.Logger
	interval time.Duration
	kick     chan struct{}
}

// New создаёт сервис сверки. events и audit могут быть nil.
func New(source Source, syncer Syncer, events EventSink, audit Auditor, log *slog.Logger, interval time.Duration) *Service {
	return &Service{
		source:   source,
		syncer:   syncer,
		events:   events,
		audit:    audit,
		log:      log,
		interval: interval,
		kick:     make(chan struct{}, 1),
	}
}

// Kick запрашивает немедленный внеочередной проход. Не блокирует:
// если проход уже запрошен, повторный запрос схлопывается.
func (s *Service) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run запускает цикл сверки до отмены контекста.
func (s *Service) Run(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		case <-s.kick:
			s.runOnce(ctx)
		}
	}
}

func (s *Service) runOnce(ctx context.Context) {
	const op = "reconciler.runOnce"
	log := s.log.With(slog.String("op", op))

	users, err := s.source.Users(ctx)
	if err != nil {
		log.Error("failed to load users for scan", sl.Err(err))
		return
	}

	updated, corrections := ScanAndReconcile(users, time.Now())
	scansTotal.Inc()
	if len(corrections) == 0 {
		return
	}

	s.source.Update(updated)
	log.Info("expired access records found", slog.Int("users", len(corrections)))

	for _, c := range corrections {
		for _, pa := range c.Expired {
			correctionsTotal.Inc()
			s.publishExpired(ctx, c, pa)
		}
	}

	s.SyncCorrections(ctx, corrections)
}

func (s *Service) publishExpired(ctx context.Context, c Correction, pa models.ProductAccess) {
	if s.events != nil {
		event := ExpiredEvent{
			UserID:      c.UserID,
			Email:       c.Email,
			ProductID:   pa.ProductID,
			ProductName: pa.ProductName,
		}
		if pa.EndDate != nil {
			event.EndDate = *pa.EndDate
		}
		if err := s.events.PublishExpired(event); err != nil {
			s.log.Error("failed to publish expired event", sl.Err(err))
		}
	}
	if s.audit != nil {
		_, err := s.audit.RecordAction(ctx, repository.AuditEntry{
			Action:    repository.ActionExpire,
			Actor:     "reconciler",
			UserID:    c.UserID,
			ProductID: pa.ProductID,
			Detail:    "access expired, flipped to inactive",
		})
		if err != nil {
			s.log.Error("failed to record audit entry", sl.Err(err))
		}
	}
}

// SyncCorrections отправляет исправления бекенду: по одному запросу на
// пользователя, независимо и одновременно. Неудача одного исправления
// не трогает остальные и не откатывает локальный флаг.
func (s *Service) SyncCorrections(ctx context.Context, corrections []Correction) {
	const op = "reconciler.SyncCorrections"
	log := s.log.With(slog.String("op", op))

	var wg sync.WaitGroup
	for _, c := range corrections {
		wg.Add(1)
		go func(c Correction) {
			defer wg.Done()
			if err := s.syncer.SyncProductStatus(ctx, c.UserID, c.Access); err != nil {
				syncFailuresTotal.Inc()
				log.Error("failed to sync correction, will retry next scan",
					slog.String("user_id", c.UserID), sl.Err(err))
				return
			}
			log.Info("correction synced", slog.String("user_id", c.UserID),
				slog.Int("expired", len(c.Expired)))
		}(c)
	}
	wg.Wait()
}

// ScanAndReconcile гасит записи доступа с наступившей датой окончания.
// Вход не мутируется: возвращается новый список пользователей и набор
// исправлений для отправки бекенду. Записи без даты окончания
// бессрочны и пропускаются. Повторный прогон по собственному результату
// не даёт новых исправлений.
func ScanAndReconcile(users []models.User, now time.Time) ([]models.User, []Correction) {
	updated := make([]models.User, len(users))
	var corrections []Correction

	for i, u := range users {
		updated[i] = u
		changed := false
		access := make([]models.ProductAccess, len(u.ProductAccess))
		var expired []models.ProductAccess
		for j, pa := range u.ProductAccess {
			access[j] = pa
			if pa.IsActive && pa.Expired(now) {
				access[j].IsActive = false
				expired = append(expired, access[j])
				changed = true
			}
		}
		updated[i].ProductAccess = access
		if changed {
			corrections = append(corrections, Correction{
				UserID:  u.ID,
				Email:   u.Email,
				Access:  access,
				Expired: expired,
			})
		}
	}
	return updated, corrections
}
