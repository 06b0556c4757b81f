package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/waste3d/coursemarket-api/internal/domain"
	"github.com/waste3d/coursemarket-api/internal/infrastructure/security"

	"github.com/google/uuid"
)

// memStore держит те же инварианты, что и схема в postgres:
// уникальный payment_id, уникальная пара (user, course) для прогресса и подписки.
type memStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*domain.User
	courses   map[uuid.UUID]*domain.Course
	lectures  map[uuid.UUID]*domain.Lecture
	payments  []domain.Payment
	progress  map[[2]uuid.UUID]*domain.Progress
	grantErr  error
	repairErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]*domain.User{},
		courses:  map[uuid.UUID]*domain.Course{},
		lectures: map[uuid.UUID]*domain.Lecture{},
		progress: map[[2]uuid.UUID]*domain.Progress{},
	}
}

func (m *memStore) addUser(role string) *domain.User {
	u := &domain.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Role: role}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addCourse(price, lectures int) *domain.Course {
	c := &domain.Course{ID: uuid.New(), Title: "Go", Price: price}
	m.courses[c.ID] = c
	for i := 0; i < lectures; i++ {
		l := &domain.Lecture{ID: uuid.New(), CourseID: c.ID, Order: i + 1}
		m.lectures[l.ID] = l
	}
	return c
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	cp := *u
	cp.Subscription = append([]domain.CourseSubscription(nil), u.Subscription...)
	return &cp, nil
}

func (m *memStore) Grant(ctx context.Context, p *domain.Payment) (domain.GrantOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.grantErr != nil {
		return domain.GrantApplied, m.grantErr
	}
	for _, existing := range m.payments {
		if existing.PaymentID == p.PaymentID {
			if existing.UserID != p.UserID || existing.CourseID != p.CourseID {
				return domain.GrantApplied, fmt.Errorf("payment reused: %w", domain.ErrAuthenticity)
			}
			return domain.GrantAlreadyProcessed, nil
		}
	}
	u, ok := m.users[p.UserID]
	if !ok {
		return domain.GrantApplied, fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	if _, ok := m.courses[p.CourseID]; !ok {
		return domain.GrantApplied, fmt.Errorf("course: %w", domain.ErrNotFound)
	}
	m.payments = append(m.payments, *p)
	m.ensure(u, p.CourseID)
	return domain.GrantApplied, nil
}

func (m *memStore) ensure(u *domain.User, courseID uuid.UUID) {
	if !u.HasCourse(courseID) {
		u.Subscription = append(u.Subscription, domain.CourseSubscription{UserID: u.ID, CourseID: courseID})
	}
	key := [2]uuid.UUID{u.ID, courseID}
	if _, ok := m.progress[key]; !ok {
		m.progress[key] = domain.NewProgress(u.ID, courseID)
	}
}

func (m *memStore) FindUnreconciled(ctx context.Context) ([]domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Payment
	for _, p := range m.payments {
		u := m.users[p.UserID]
		_, hasProgress := m.progress[[2]uuid.UUID{p.UserID, p.CourseID}]
		if u == nil || !u.HasCourse(p.CourseID) || !hasProgress {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) Repair(ctx context.Context, userID, courseID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.repairErr != nil {
		return m.repairErr
	}
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	m.ensure(u, courseID)
	return nil
}

type progressStore struct{ *memStore }

func (s progressStore) Get(ctx context.Context, userID, courseID uuid.UUID) (*domain.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[[2]uuid.UUID{userID, courseID}]
	if !ok {
		return nil, fmt.Errorf("progress: %w", domain.ErrNotFound)
	}
	cp := *p
	cp.CompletedLectures = append(cp.CompletedLectures[:0:0], p.CompletedLectures...)
	return &cp, nil
}

func (s progressStore) AppendLecture(ctx context.Context, userID, courseID uuid.UUID, lectureID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[[2]uuid.UUID{userID, courseID}]
	if !ok || p.HasLecture(lectureID) {
		return false, nil
	}
	p.CompletedLectures = append(p.CompletedLectures, lectureID)
	return true, nil
}

type courseStore struct{ *memStore }

func (s courseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func (s courseStore) List(ctx context.Context) ([]domain.Course, error) {
	var out []domain.Course
	for _, c := range s.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (s courseStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Course, error) {
	out := []domain.Course{}
	for _, id := range ids {
		if c, ok := s.courses[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s courseStore) ListLectures(ctx context.Context, courseID uuid.UUID) ([]domain.Lecture, error) {
	var out []domain.Lecture
	for _, l := range s.lectures {
		if l.CourseID == courseID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (s courseStore) GetLecture(ctx context.Context, id uuid.UUID) (*domain.Lecture, error) {
	l, ok := s.lectures[id]
	if !ok {
		return nil, fmt.Errorf("lecture: %w", domain.ErrNotFound)
	}
	return l, nil
}

// lectureIDs - id лекций курса в порядке Order
func (m *memStore) lectureIDs(courseID uuid.UUID) []string {
	ids := make([]string, 0)
	for order := 1; ; order++ {
		found := false
		for _, l := range m.lectures {
			if l.CourseID == courseID && l.Order == order {
				ids = append(ids, l.ID.String())
				found = true
			}
		}
		if !found {
			return ids
		}
	}
}

func (s courseStore) CountLectures(ctx context.Context, courseID uuid.UUID) (int64, error) {
	lectures, _ := s.ListLectures(ctx, courseID)
	return int64(len(lectures)), nil
}

type fakeGateway struct {
	calls    int
	amount   int64
	currency string
	notes    map[string]string
	err      error
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	g.calls++
	g.amount, g.currency, g.notes = req.Amount, req.Currency, req.Notes
	if g.err != nil {
		return nil, g.err
	}
	return &domain.Order{ID: "order_test", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"}, nil
}

type fakePublisher struct {
	events []domain.CoursePurchased
	err    error
}

func (p *fakePublisher) PublishCoursePurchased(ctx context.Context, evt domain.CoursePurchased) error {
	p.events = append(p.events, evt)
	return p.err
}

var errStorage = errors.New("storage down")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store      *memStore
	gateway    *fakeGateway
	publisher  *fakePublisher
	verifier   *security.SignatureVerifier
	enrollment *EnrollmentUseCase
	progress   *ProgressUseCase
}

func newFixture() *fixture {
	store := newMemStore()
	f := &fixture{
		store:     store,
		gateway:   &fakeGateway{},
		publisher: &fakePublisher{},
		verifier:  security.NewSignatureVerifier("rzp_secret"),
	}
	f.enrollment = NewEnrollmentUseCase(store, courseStore{store}, f.gateway, f.verifier, store, f.publisher, "INR", quietLogger())
	f.progress = NewProgressUseCase(progressStore{store}, courseStore{store}, courseStore{store}, quietLogger())
	return f
}

func (f *fixture) triple(orderID, paymentID string) domain.VerificationTriple {
	return domain.VerificationTriple{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: f.verifier.Sign(orderID, paymentID),
	}
}
